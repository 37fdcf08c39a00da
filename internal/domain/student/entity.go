package student

import (
	"math"

	"github.com/alem-hub/grade-tracker/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// SCORE RANGE
// ══════════════════════════════════════════════════════════════════════════════

// ScoreRange is the inclusive range a score must fall in at entry time.
type ScoreRange struct {
	Min float64
	Max float64
}

// DefaultScoreRange returns the 0-100 range used by the prompts.
func DefaultScoreRange() ScoreRange {
	return ScoreRange{Min: 0, Max: 100}
}

// Contains reports whether score lies in the range. NaN and infinities never do.
func (r ScoreRange) Contains(score float64) bool {
	if math.IsNaN(score) || math.IsInf(score, 0) {
		return false
	}
	return score >= r.Min && score <= r.Max
}

// ══════════════════════════════════════════════════════════════════════════════
// MAIN ENTITY: STUDENT
// ══════════════════════════════════════════════════════════════════════════════

// Student is one graded record.
// Scores are only range-checked at entry; records loaded from a snapshot are trusted.
type Student struct {
	// Name is the student's name as typed.
	Name string `json:"name"`

	// Grades maps a display subject name to its score.
	Grades map[string]float64 `json:"grades"`

	// AverageGrade is nil until CalculateAverages runs.
	AverageGrade *float64 `json:"average_grade,omitempty"`
}

// NewStudent creates a record without an average.
func NewStudent(name string, grades map[string]float64) *Student {
	if grades == nil {
		grades = make(map[string]float64)
	}
	return &Student{Name: name, Grades: grades}
}

// Average returns the computed average and whether it is present.
func (s *Student) Average() (float64, bool) {
	if s.AverageGrade == nil {
		return 0, false
	}
	return *s.AverageGrade, true
}

// AverageOrZero returns the average, treating an absent one as 0.
func (s *Student) AverageOrZero() float64 {
	avg, _ := s.Average()
	return avg
}

// HasAverage reports whether analytics has run on this record.
func (s *Student) HasAverage() bool {
	return s.AverageGrade != nil
}

// SetAverage stores avg as the record's average grade.
func (s *Student) SetAverage(avg float64) {
	s.AverageGrade = &avg
}

// MeanGrade computes the unweighted mean of the record's grades.
func (s *Student) MeanGrade() (float64, error) {
	if len(s.Grades) == 0 {
		return 0, shared.ErrEmptyGradeSet.Wrap("student "+quote(s.Name)+" has no grades", nil)
	}
	var sum float64
	for _, score := range s.Grades {
		sum += score
	}
	return sum / float64(len(s.Grades)), nil
}

// Clone returns a deep copy of the record.
func (s *Student) Clone() *Student {
	grades := make(map[string]float64, len(s.Grades))
	for k, v := range s.Grades {
		grades[k] = v
	}
	clone := &Student{Name: s.Name, Grades: grades}
	if s.AverageGrade != nil {
		clone.SetAverage(*s.AverageGrade)
	}
	return clone
}

func quote(s string) string {
	return "'" + s + "'"
}
