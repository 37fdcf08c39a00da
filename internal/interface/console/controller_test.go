package console

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alem-hub/grade-tracker/internal/domain/shared"
	"github.com/alem-hub/grade-tracker/internal/domain/student"
)

type memStore struct {
	saved []*student.Student
	saves int
	err   error
}

func (s *memStore) Load(context.Context) (*student.Snapshot, error) {
	return &student.Snapshot{Students: s.saved}, nil
}

func (s *memStore) Save(_ context.Context, students []*student.Student) error {
	s.saves++
	if s.err != nil {
		return s.err
	}
	s.saved = students
	return nil
}

func (s *memStore) Location() string { return "mem://grades" }

type fakeChart struct {
	calls      [][]*student.Student
	err        error
	failedPath string
}

func (c *fakeChart) Display(_ context.Context, students []*student.Student) (string, error) {
	c.calls = append(c.calls, students)
	if c.err != nil {
		return c.failedPath, c.err
	}
	return "/tmp/chart.png", nil
}

// interruptedInput serves data, then cancels the session and blocks like an
// idle terminal until the test ends.
type interruptedInput struct {
	data    []byte
	cancel  context.CancelFunc
	release chan struct{}
}

func newInterruptedInput(t *testing.T, data string, cancel context.CancelFunc) *interruptedInput {
	in := &interruptedInput{data: []byte(data), cancel: cancel, release: make(chan struct{})}
	t.Cleanup(func() { close(in.release) })
	return in
}

func (r *interruptedInput) Read(b []byte) (int, error) {
	if len(r.data) > 0 {
		n := copy(b, r.data)
		r.data = r.data[n:]
		return n, nil
	}
	r.cancel()
	<-r.release
	return 0, io.EOF
}

type harness struct {
	ctrl  *Controller
	out   *bytes.Buffer
	store *memStore
	chart *fakeChart
}

func newHarness(input string, persisted ...*student.Student) *harness {
	return newHarnessFrom(strings.NewReader(input), persisted...)
}

func newHarnessFrom(in io.Reader, persisted ...*student.Student) *harness {
	h := &harness{out: &bytes.Buffer{}, store: &memStore{}, chart: &fakeChart{}}
	h.ctrl = NewController(Options{
		In:        in,
		Out:       h.out,
		Store:     h.store,
		Chart:     h.chart,
		Persisted: persisted,
		Catalog:   student.NewSubjectCatalog([]string{"Science", "Biology"}, nil),
		Scores:    student.DefaultScoreRange(),
	})
	return h
}

func (h *harness) run(t *testing.T) string {
	t.Helper()
	require.NoError(t, h.ctrl.Run(context.Background()))
	return h.out.String()
}

func names(students []*student.Student) []string {
	out := make([]string, len(students))
	for i, st := range students {
		out[i] = st.Name
	}
	return out
}

func TestController_MenuLayout(t *testing.T) {
	out := newHarness("5\n").run(t)

	assert.True(t, strings.HasPrefix(out,
		"\nStudent Grade Tracker\n"+
			"1. Add Students\n"+
			"2. Calculate Averages\n"+
			"3. Sort Students\n"+
			"4. Display Graph\n"+
			"5. Exit\n"+
			"Enter your choice: "), out)
	assert.True(t, strings.HasSuffix(out, MsgExiting+"\n"), out)
}

func TestController_ExitMergesPersistedAndSession(t *testing.T) {
	s1 := student.NewStudent("S1", map[string]float64{"Biology": 40})
	h := newHarness("1\n1\nS2\n80\n60\n5\n", s1)

	out := h.run(t)

	assert.Contains(t, out, MsgStudentsAdded)
	assert.Equal(t, 1, h.store.saves)
	assert.Equal(t, []string{"S1", "S2"}, names(h.store.saved))
	assert.Equal(t, map[string]float64{"Intro to Programming": 80, "Biology": 60}, h.store.saved[1].Grades)
	assert.Len(t, h.ctrl.Persisted(), 1, "persisted collection is not mutated")
}

func TestController_GradePromptsRenameSubjects(t *testing.T) {
	out := newHarness("1\n1\nAda\n80\n60\n5\n").run(t)

	assert.Contains(t, out, "Enter Intro to Programming grade (0-100) for Ada: ")
	assert.Contains(t, out, "Enter Biology grade (0-100) for Ada: ")
}

func TestController_BadScoreAddsNobody(t *testing.T) {
	h := newHarness("1\n3\nS1\n90\n90\nS2\nabc\n5\n")

	out := h.run(t)

	assert.Contains(t, out, MsgInvalidNumber)
	assert.NotContains(t, out, MsgStudentsAdded)
	assert.Empty(t, h.ctrl.Session())
	assert.Empty(t, h.store.saved)
}

func TestController_InvalidCount(t *testing.T) {
	h := newHarness("1\nmany\n5\n")

	out := h.run(t)

	assert.Contains(t, out, MsgInvalidNumber)
	assert.Empty(t, h.ctrl.Session())
}

func TestController_InvalidChoice(t *testing.T) {
	out := newHarness("9\n\nabc\n5\n").run(t)

	assert.Equal(t, 3, strings.Count(out, MsgInvalidChoice))
}

func TestController_ChoiceIgnoresSurroundingSpace(t *testing.T) {
	h := newHarness(" 5 \n")

	out := h.run(t)

	assert.NotContains(t, out, MsgInvalidChoice)
	assert.Equal(t, 1, h.store.saves)
}

func TestController_GraphWithEmptySession(t *testing.T) {
	h := newHarness("4\n5\n", student.NewStudent("Old", map[string]float64{"Biology": 50}))

	out := h.run(t)

	assert.Contains(t, out, MsgNoSessionData)
	assert.Empty(t, h.chart.calls)
}

func TestController_GraphUsesSessionOnly(t *testing.T) {
	h := newHarness("1\n1\nNew\n90\n90\n2\n4\n5\n", student.NewStudent("Old", nil))

	h.run(t)

	require.Len(t, h.chart.calls, 1)
	assert.Equal(t, []string{"New"}, names(h.chart.calls[0]))
}

func TestController_GraphErrorIsReported(t *testing.T) {
	h := newHarness("1\n1\nAda\n90\n90\n4\n5\n")
	h.chart.err = shared.ErrMissingAverage.Wrap("average grade not calculated for 'Ada'", nil)

	out := h.run(t)

	assert.Contains(t, out, "average grade not calculated for 'Ada'")
	assert.Contains(t, out, MsgExiting, "loop continues after a chart error")
}

func TestController_ViewerFailureShowsCauseAndFile(t *testing.T) {
	h := newHarness("1\n1\nAda\n90\n90\n2\n4\n5\n")
	h.chart.err = shared.ErrChartDisplay.Wrap("failed to open chart viewer", errors.New("xdg-open: not found"))
	h.chart.failedPath = "/tmp/student-averages-1.png"

	out := h.run(t)

	assert.Contains(t, out, "failed to open chart viewer: xdg-open: not found\n")
	assert.Contains(t, out, "Chart written to /tmp/student-averages-1.png")
}

func TestController_ChartPathShownWhenConfigured(t *testing.T) {
	h := newHarness("1\n1\nAda\n90\n90\n2\n4\n5\n")
	h.ctrl.showChartPath = true

	out := h.run(t)

	assert.Contains(t, out, "Chart written to /tmp/chart.png")
}

func TestController_AveragesAndRanking(t *testing.T) {
	out := newHarness("1\n2\nA\n70\n70\nB\n95\n95\n2\n3\n5\n").run(t)

	assert.Contains(t, out, MsgAveragesDone)
	assert.Contains(t, out, "1. B: 95.00\n2. A: 70.00\n")
	assert.Contains(t, out, "Average")
}

func TestController_RankingBeforeAverages(t *testing.T) {
	out := newHarness("1\n1\nA\n70\n70\n3\n5\n").run(t)

	assert.Contains(t, out, "1. A: N/A\n")
}

func TestController_EOFActsAsExit(t *testing.T) {
	h := newHarness("1\n1\nAda\n90\n80")

	out := h.run(t)

	assert.Contains(t, out, MsgExiting)
	assert.Equal(t, []string{"Ada"}, names(h.store.saved))
}

func TestController_EOFDuringEntryDiscardsBatch(t *testing.T) {
	h := newHarness("1\n2\nAda\n90\n80\nGrace\n")

	out := h.run(t)

	assert.Contains(t, out, MsgInvalidNumber)
	assert.Contains(t, out, MsgExiting)
	assert.Equal(t, 1, h.store.saves)
	assert.Empty(t, h.store.saved)
}

func TestController_InterruptSavesSession(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	h := newHarnessFrom(newInterruptedInput(t, "1\n1\nAda\n90\n80\n", cancel))

	err := h.ctrl.Run(ctx)

	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, h.store.saves)
	assert.Equal(t, []string{"Ada"}, names(h.store.saved))
	assert.True(t, strings.HasSuffix(h.out.String(), MsgExiting+"\n"), h.out.String())
}

func TestController_SaveFailureIsReported(t *testing.T) {
	h := newHarness("5\n")
	h.store.err = shared.ErrSnapshotWrite.Wrap("failed to write", errors.New("disk full"))

	out := h.run(t)

	assert.Contains(t, out, "An error occurred while saving data to 'mem://grades': disk full")
	assert.Contains(t, out, MsgExiting)
}

func TestController_CanceledContextStops(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	h := newHarness("1\n")

	err := h.ctrl.Run(ctx)

	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, h.store.saves, "exit still saves")
}
