package command

import (
	"context"

	"github.com/alem-hub/grade-tracker/internal/domain/student"
	"github.com/alem-hub/grade-tracker/pkg/logger"
)

// ══════════════════════════════════════════════════════════════════════════════
// CALCULATE AVERAGES COMMAND
// ══════════════════════════════════════════════════════════════════════════════

// CalculateAveragesResult summarizes one analytics pass.
type CalculateAveragesResult struct {
	// Calculated is how many records now carry an average.
	Calculated int

	// Skipped names the students left without an average because they have no grades.
	Skipped []string
}

// CalculateAveragesHandler computes averages over the session collection.
type CalculateAveragesHandler struct {
	log *logger.Logger
}

// NewCalculateAveragesHandler creates a new CalculateAveragesHandler.
func NewCalculateAveragesHandler(log *logger.Logger) *CalculateAveragesHandler {
	if log == nil {
		log = logger.Nop()
	}
	return &CalculateAveragesHandler{log: log.With(logger.Operation("calculate_averages"))}
}

// Handle sets the average on every record in students.
//
// The result is always populated. The error is non-nil when some records were
// skipped; it then matches shared.ErrEmptyGradeSet.
func (h *CalculateAveragesHandler) Handle(ctx context.Context, students []*student.Student) (*CalculateAveragesResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	err := student.CalculateAverages(students)

	result := &CalculateAveragesResult{}
	for _, st := range students {
		if st.HasAverage() {
			result.Calculated++
			continue
		}
		result.Skipped = append(result.Skipped, st.Name)
		h.log.Warn("no grades, average skipped", logger.StudentName(st.Name))
	}

	h.log.Info("averages calculated",
		logger.Count(result.Calculated),
		logger.Int("skipped", len(result.Skipped)),
	)

	return result, err
}
