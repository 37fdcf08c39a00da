// Package query contains read operations following CQRS pattern.
// Queries never modify state - they only read and return data.
package query

import (
	"context"
	"errors"
	"strconv"

	"github.com/alem-hub/grade-tracker/internal/domain/leaderboard"
	"github.com/alem-hub/grade-tracker/internal/domain/student"
	"github.com/alem-hub/grade-tracker/pkg/logger"
)

// ══════════════════════════════════════════════════════════════════════════════
// RANK STUDENTS QUERY
// Orders the session collection by average grade, highest first.
// ══════════════════════════════════════════════════════════════════════════════

// NotAvailable is shown in place of an average that was never calculated.
const NotAvailable = "N/A"

// RankStudentsQuery contains the collection to rank.
type RankStudentsQuery struct {
	// Students is ranked as given; it is never reordered in place.
	Students []*student.Student

	// Limit caps the number of entries (0 = all).
	Limit int
}

// Validate checks the query parameters.
func (q RankStudentsQuery) Validate() error {
	if q.Limit < 0 {
		return errors.New("limit cannot be negative")
	}
	return nil
}

// RankedStudentDTO is one line of the ranking.
type RankedStudentDTO struct {
	// Position is 1-based.
	Position int `json:"position"`

	Name string `json:"name"`

	// Average is 0 when HasAverage is false.
	Average    float64 `json:"average"`
	HasAverage bool    `json:"has_average"`
}

// DisplayAverage renders the average with two decimals, or N/A.
func (d RankedStudentDTO) DisplayAverage() string {
	if !d.HasAverage {
		return NotAvailable
	}
	return FormatAverage(d.Average)
}

// RankStudentsResult contains the ordered entries.
type RankStudentsResult struct {
	Entries []RankedStudentDTO `json:"entries"`

	// Total is the size of the ranked collection before Limit.
	Total int `json:"total"`
}

// ══════════════════════════════════════════════════════════════════════════════
// HANDLER
// ══════════════════════════════════════════════════════════════════════════════

// RankStudentsHandler handles RankStudentsQuery.
type RankStudentsHandler struct {
	log *logger.Logger
}

// NewRankStudentsHandler creates a new RankStudentsHandler.
func NewRankStudentsHandler(log *logger.Logger) *RankStudentsHandler {
	if log == nil {
		log = logger.Nop()
	}
	return &RankStudentsHandler{log: log.With(logger.Operation("rank_students"))}
}

// Handle executes the query.
func (h *RankStudentsHandler) Handle(ctx context.Context, q RankStudentsQuery) (*RankStudentsResult, error) {
	if err := q.Validate(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	ranking := leaderboard.NewRanking(q.Students)
	entries := ranking.Entries()
	if q.Limit > 0 {
		entries = ranking.Top(q.Limit)
	}

	result := &RankStudentsResult{
		Entries: make([]RankedStudentDTO, len(entries)),
		Total:   ranking.Count(),
	}
	for i, e := range entries {
		result.Entries[i] = toDTO(e)
	}

	h.log.Debug("students ranked", logger.Count(result.Total))
	return result, nil
}

func toDTO(e leaderboard.Entry) RankedStudentDTO {
	avg, ok := e.Student.Average()
	return RankedStudentDTO{
		Position:   int(e.Rank),
		Name:       e.Student.Name,
		Average:    avg,
		HasAverage: ok,
	}
}

// FormatAverage renders a score with two decimals.
func FormatAverage(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}
