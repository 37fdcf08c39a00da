package student

import "errors"

// CalculateAverages sets AverageGrade on every record to the mean of its grades.
//
// Records without grades keep a nil average and each contributes an
// ErrEmptyGradeSet to the returned error; all other records are still
// computed. Running it twice yields the same values.
func CalculateAverages(students []*Student) error {
	var errs []error
	for _, s := range students {
		avg, err := s.MeanGrade()
		if err != nil {
			s.AverageGrade = nil
			errs = append(errs, err)
			continue
		}
		s.SetAverage(avg)
	}
	return errors.Join(errs...)
}

// CountWithoutAverage returns how many records have no average yet.
func CountWithoutAverage(students []*Student) int {
	n := 0
	for _, s := range students {
		if !s.HasAverage() {
			n++
		}
	}
	return n
}
