// Package student contains the domain model of a graded student.
//
// The package defines:
//
//   - Student: a name, a subject → score mapping and an optional average
//   - SubjectCatalog: the configured subjects and the raw → display rename table
//   - CalculateAverages: the analytics pass over a collection
//   - SnapshotStore: the persistence port implemented in infrastructure
//
// # Lifecycle
//
// A record is created by grade entry, gains its average when analytics runs,
// and is read-only for ranking and charting:
//
//	st := NewStudent("Ada", map[string]float64{"Intro to Programming": 95})
//	if err := CalculateAverages([]*Student{st}); err != nil {
//	    return err
//	}
//	avg, ok := st.Average()
//
// The package has no external dependencies.
package student
