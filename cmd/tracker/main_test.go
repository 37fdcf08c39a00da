package main

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alem-hub/grade-tracker/config"
	"github.com/alem-hub/grade-tracker/internal/domain/shared"
	"github.com/alem-hub/grade-tracker/internal/domain/student"
	"github.com/alem-hub/grade-tracker/internal/infrastructure/persistence/snapshot"
	"github.com/alem-hub/grade-tracker/pkg/logger"
)

func setupEnv(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "student_data.json")
	for k, v := range map[string]string{
		"STORAGE_BACKEND":        "file",
		"STORAGE_FILE":           path,
		"GRADES_SUBJECTS":        "",
		"GRADES_SUBJECT_RENAMES": "",
		"GRADES_MIN_SCORE":       "",
		"GRADES_MAX_SCORE":       "",
		"CHART_OPEN":             "false",
		"CHART_DIR":              t.TempDir(),
		"LOG_LEVEL":              "error",
		"NO_COLOR":               "true",
	} {
		t.Setenv(k, v)
	}
	return path
}

func TestRun_FirstSessionCreatesSnapshot(t *testing.T) {
	path := setupEnv(t)
	var out bytes.Buffer

	err := run(context.Background(), strings.NewReader("1\n1\nAda\n90\n80\n70\n2\n5\n"), &out)
	require.NoError(t, err)

	assert.Contains(t, out.String(), "File '"+path+"' not found. Creating a new file.")
	students, err := readSnapshot(path)
	require.NoError(t, err)
	require.Len(t, students, 1)
	assert.Equal(t, "Ada", students[0].Name)
	assert.Equal(t, 80.0, students[0].AverageOrZero())
	assert.Contains(t, students[0].Grades, "intro to programing")
}

func TestRun_SecondSessionAppends(t *testing.T) {
	path := setupEnv(t)
	require.NoError(t, run(context.Background(), strings.NewReader("1\n1\nS1\n50\n50\n50\n5\n"), &bytes.Buffer{}))

	var out bytes.Buffer
	require.NoError(t, run(context.Background(), strings.NewReader("1\n1\nS2\n60\n60\n60\n4\n5\n"), &out))

	students, err := readSnapshot(path)
	require.NoError(t, err)
	require.Len(t, students, 2)
	assert.Equal(t, "S1", students[0].Name)
	assert.Equal(t, "S2", students[1].Name)
	assert.NotContains(t, out.String(), "not found")
	assert.Contains(t, out.String(), "average grade not calculated for 'S2'")
}

func TestRun_CorruptSnapshotRefusesToStart(t *testing.T) {
	path := setupEnv(t)
	require.NoError(t, os.WriteFile(path, []byte("{broken"), 0o644))

	err := run(context.Background(), strings.NewReader("5\n"), &bytes.Buffer{})

	assert.ErrorIs(t, err, shared.ErrSnapshotCorrupt)
	raw, readErr := os.ReadFile(path)
	require.NoError(t, readErr)
	assert.Equal(t, "{broken", string(raw))
}

func TestRun_InvalidConfig(t *testing.T) {
	setupEnv(t)
	t.Setenv("STORAGE_BACKEND", "tape")

	err := run(context.Background(), strings.NewReader(""), &bytes.Buffer{})
	assert.ErrorContains(t, err, "STORAGE_BACKEND")
}

func TestRun_InterruptSavesSession(t *testing.T) {
	path := setupEnv(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	release := make(chan struct{})
	defer close(release)
	in := io.MultiReader(strings.NewReader("1\n1\nAda\n90\n80\n70\n"), interruptReader{cancel: cancel, release: release})

	require.NoError(t, run(ctx, in, &bytes.Buffer{}))

	students, err := readSnapshot(path)
	require.NoError(t, err)
	require.Len(t, students, 1)
	assert.Equal(t, "Ada", students[0].Name)
}

func TestRun_RedisMissingSnapshotWording(t *testing.T) {
	s := miniredis.RunT(t)
	setupEnv(t)
	t.Setenv("STORAGE_BACKEND", "redis")
	t.Setenv("REDIS_URL", "redis://"+s.Addr())
	var out bytes.Buffer

	require.NoError(t, run(context.Background(), strings.NewReader("5\n"), &out))

	assert.Contains(t, out.String(), "No saved students at 'redis://"+s.Addr()+"/")
	assert.NotContains(t, out.String(), "File '")
}

func TestOpenStore_Redis(t *testing.T) {
	s := miniredis.RunT(t)
	setupEnv(t)
	t.Setenv("STORAGE_BACKEND", "redis")
	t.Setenv("REDIS_URL", "redis://"+s.Addr())
	cfg, err := config.LoadFiles()
	require.NoError(t, err)

	store, closeStore, err := openStore(context.Background(), cfg, logger.Nop())
	require.NoError(t, err)
	defer closeStore()

	require.NoError(t, store.Save(context.Background(), nil))
	assert.True(t, s.Exists(cfg.Redis.SnapshotKey))
}

func readSnapshot(path string) ([]*student.Student, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return snapshot.Decode(data)
}

// interruptReader cancels the session on first read, then blocks like an idle terminal.
type interruptReader struct {
	cancel  context.CancelFunc
	release <-chan struct{}
}

func (r interruptReader) Read([]byte) (int, error) {
	r.cancel()
	<-r.release
	return 0, io.EOF
}
