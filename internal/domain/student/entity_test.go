package student

import (
	"math"
	"testing"

	"github.com/alem-hub/grade-tracker/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScoreRange_Contains(t *testing.T) {
	r := DefaultScoreRange()

	assert.True(t, r.Contains(0))
	assert.True(t, r.Contains(100))
	assert.True(t, r.Contains(72.5))
	assert.False(t, r.Contains(-0.5))
	assert.False(t, r.Contains(100.01))
	assert.False(t, r.Contains(math.NaN()))
	assert.False(t, r.Contains(math.Inf(1)))
}

func TestCalculateAverages_Mean(t *testing.T) {
	st := NewStudent("Ada", map[string]float64{"A": 80, "B": 90, "C": 100})

	require.NoError(t, CalculateAverages([]*Student{st}))

	avg, ok := st.Average()
	assert.True(t, ok)
	assert.Equal(t, 90.0, avg)
}

func TestCalculateAverages_Idempotent(t *testing.T) {
	st := NewStudent("Grace", map[string]float64{"A": 70, "B": 75})

	require.NoError(t, CalculateAverages([]*Student{st}))
	first := st.AverageOrZero()
	require.NoError(t, CalculateAverages([]*Student{st}))

	assert.Equal(t, first, st.AverageOrZero())
	assert.Equal(t, 72.5, first)
}

func TestCalculateAverages_EmptyGradeSet(t *testing.T) {
	empty := NewStudent("Nobody", nil)
	full := NewStudent("Linus", map[string]float64{"A": 60})

	err := CalculateAverages([]*Student{empty, full})

	assert.ErrorIs(t, err, shared.ErrEmptyGradeSet)
	assert.Contains(t, err.Error(), "'Nobody'")
	assert.False(t, empty.HasAverage())
	assert.Equal(t, 60.0, full.AverageOrZero())
	assert.Equal(t, 1, CountWithoutAverage([]*Student{empty, full}))
}

func TestStudent_Clone(t *testing.T) {
	st := NewStudent("Ada", map[string]float64{"A": 50})
	st.SetAverage(50)

	clone := st.Clone()
	clone.Grades["A"] = 99
	clone.SetAverage(99)

	assert.Equal(t, 50.0, st.Grades["A"])
	assert.Equal(t, 50.0, st.AverageOrZero())
}

func TestMerge_KeepsOrder(t *testing.T) {
	s1 := NewStudent("S1", nil)
	s2 := NewStudent("S2", nil)
	persisted := []*Student{s1}

	merged := Merge(persisted, []*Student{s2})

	assert.Equal(t, []*Student{s1, s2}, merged)
	assert.Len(t, persisted, 1)
}
