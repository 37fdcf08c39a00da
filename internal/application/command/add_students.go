// Package command contains write operations (CQRS - Commands).
// Commands change the in-memory session collection or the persisted snapshot.
package command

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/alem-hub/grade-tracker/internal/domain/shared"
	"github.com/alem-hub/grade-tracker/internal/domain/student"
	"github.com/alem-hub/grade-tracker/pkg/logger"
)

// ══════════════════════════════════════════════════════════════════════════════
// PROMPTS
// ══════════════════════════════════════════════════════════════════════════════

const (
	PromptStudentCount = "Enter the number of students to add: "
	PromptStudentName  = "Enter student name: "
	promptGradeFormat  = "Enter %s grade (%s-%s) for %s: "
)

// maxPrealloc caps the batch capacity reserved up front; the count is user input.
const maxPrealloc = 64

// Prompter asks the user one question and returns the answer without its line ending.
// It returns io.EOF once input is exhausted.
type Prompter interface {
	Ask(ctx context.Context, prompt string) (string, error)
}

// ══════════════════════════════════════════════════════════════════════════════
// ADD STUDENTS COMMAND
// Collects a batch of students and their grades from the prompter.
// A batch is all-or-nothing: the first invalid answer discards it.
// ══════════════════════════════════════════════════════════════════════════════

// AddStudentsResult contains the batch that was entered.
type AddStudentsResult struct {
	// Students is the new batch, in entry order.
	Students []*student.Student

	// Requested is the count the user asked for.
	Requested int
}

// AddStudentsHandler handles interactive grade entry.
type AddStudentsHandler struct {
	prompter Prompter
	catalog  student.SubjectCatalog
	scores   student.ScoreRange
	log      *logger.Logger
}

// NewAddStudentsHandler creates a new AddStudentsHandler.
func NewAddStudentsHandler(
	prompter Prompter,
	catalog student.SubjectCatalog,
	scores student.ScoreRange,
	log *logger.Logger,
) *AddStudentsHandler {
	if log == nil {
		log = logger.Nop()
	}
	return &AddStudentsHandler{
		prompter: prompter,
		catalog:  catalog,
		scores:   scores,
		log:      log.With(logger.Operation("add_students")),
	}
}

// Handle prompts for a count, then a name and one score per subject for each student.
//
// Errors: shared.ErrInvalidCount, shared.ErrInvalidScore, shared.ErrScoreOutOfRange,
// shared.ErrInputClosed. On any error no students are returned.
func (h *AddStudentsHandler) Handle(ctx context.Context) (*AddStudentsResult, error) {
	answer, err := h.ask(ctx, PromptStudentCount)
	if err != nil {
		return nil, err
	}
	count, err := parseCount(answer)
	if err != nil {
		h.log.Warn("rejected student count", logger.String("input", answer))
		return nil, err
	}

	batch := make([]*student.Student, 0, min(count, maxPrealloc))
	for i := 0; i < count; i++ {
		st, err := h.enterStudent(ctx)
		if err != nil {
			h.log.Warn("batch discarded",
				logger.Int("entered", i),
				logger.Int("requested", count),
				logger.Err(err),
			)
			return nil, err
		}
		batch = append(batch, st)
	}

	h.log.Info("students entered", logger.Count(len(batch)))
	return &AddStudentsResult{Students: batch, Requested: count}, nil
}

func (h *AddStudentsHandler) enterStudent(ctx context.Context) (*student.Student, error) {
	name, err := h.ask(ctx, PromptStudentName)
	if err != nil {
		return nil, err
	}

	grades := make(map[string]float64, len(h.catalog.Subjects))
	for _, subject := range h.catalog.DisplaySubjects() {
		answer, err := h.ask(ctx, h.gradePrompt(subject, name))
		if err != nil {
			return nil, err
		}
		score, err := h.parseScore(answer)
		if err != nil {
			h.log.Debug("rejected score",
				logger.StudentName(name),
				logger.Subject(subject),
				logger.String("input", answer),
			)
			return nil, err
		}
		grades[subject] = score
	}
	return student.NewStudent(name, grades), nil
}

func (h *AddStudentsHandler) ask(ctx context.Context, prompt string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	answer, err := h.prompter.Ask(ctx, prompt)
	if err != nil {
		if errors.Is(err, io.EOF) {
			return "", shared.ErrInputClosed.Wrap("input closed during grade entry", err)
		}
		return "", fmt.Errorf("add_students: prompt failed: %w", err)
	}
	return answer, nil
}

func (h *AddStudentsHandler) gradePrompt(subject, name string) string {
	return fmt.Sprintf(promptGradeFormat, subject, formatBound(h.scores.Min), formatBound(h.scores.Max), name)
}

func (h *AddStudentsHandler) parseScore(answer string) (float64, error) {
	score, err := strconv.ParseFloat(strings.TrimSpace(answer), 64)
	if err != nil {
		return 0, shared.ErrInvalidScore.Wrap(fmt.Sprintf("%q is not a number", answer), err)
	}
	if !h.scores.Contains(score) {
		return 0, shared.ErrScoreOutOfRange.Wrap(
			fmt.Sprintf("%s is outside %s-%s", answer, formatBound(h.scores.Min), formatBound(h.scores.Max)),
			nil,
		)
	}
	return score, nil
}

func parseCount(answer string) (int, error) {
	count, err := strconv.Atoi(strings.TrimSpace(answer))
	if err != nil {
		return 0, shared.ErrInvalidCount.Wrap(fmt.Sprintf("%q is not an integer", answer), err)
	}
	if count < 0 {
		return 0, shared.ErrInvalidCount.Wrap(fmt.Sprintf("%d is negative", count), nil)
	}
	return count, nil
}

func formatBound(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
