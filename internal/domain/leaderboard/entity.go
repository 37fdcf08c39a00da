// Package leaderboard orders students by average grade.
package leaderboard

import (
	"fmt"
	"sort"

	"github.com/alem-hub/grade-tracker/internal/domain/student"
)

// ══════════════════════════════════════════════════════════════════════════════
// VALUE OBJECTS
// ══════════════════════════════════════════════════════════════════════════════

// Rank is a 1-based position in the ordering.
type Rank int

// IsValid reports whether the rank is positive.
func (r Rank) IsValid() bool {
	return r > 0
}

// String returns the rank as "#n".
func (r Rank) String() string {
	return fmt.Sprintf("#%d", r)
}

// ══════════════════════════════════════════════════════════════════════════════
// RANKING
// ══════════════════════════════════════════════════════════════════════════════

// Entry is one student at its position.
type Entry struct {
	Rank    Rank
	Student *student.Student
}

// Ranking is a sorted, read-only view over a collection.
type Ranking struct {
	entries []Entry
}

// SortByAverage returns a new slice ordered by average grade, highest first.
// Records without an average sort as 0. Ties keep their input order and
// the input slice is left untouched.
func SortByAverage(students []*student.Student) []*student.Student {
	sorted := make([]*student.Student, len(students))
	copy(sorted, students)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].AverageOrZero() > sorted[j].AverageOrZero()
	})
	return sorted
}

// NewRanking sorts students and numbers them from 1.
// Positions are sequential; equal averages do not share a rank.
func NewRanking(students []*student.Student) *Ranking {
	sorted := SortByAverage(students)
	entries := make([]Entry, len(sorted))
	for i, st := range sorted {
		entries[i] = Entry{Rank: Rank(i + 1), Student: st}
	}
	return &Ranking{entries: entries}
}

// Entries returns a copy of the ranked entries.
func (r *Ranking) Entries() []Entry {
	out := make([]Entry, len(r.entries))
	copy(out, r.entries)
	return out
}

// Count returns the number of ranked students.
func (r *Ranking) Count() int {
	return len(r.entries)
}

// Top returns at most n leading entries.
func (r *Ranking) Top(n int) []Entry {
	if n <= 0 {
		return nil
	}
	if n > len(r.entries) {
		n = len(r.entries)
	}
	out := make([]Entry, n)
	copy(out, r.entries[:n])
	return out
}
