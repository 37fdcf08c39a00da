// Package snapshot implements the JSON snapshot format and the file-backed store.
//
// A snapshot is a single JSON array of student records, indented with four
// spaces. Every backend stores exactly this document.
package snapshot

import (
	"bytes"
	"encoding/json"

	"github.com/alem-hub/grade-tracker/internal/domain/shared"
	"github.com/alem-hub/grade-tracker/internal/domain/student"
)

const indent = "    "

// Encode serializes the collection as an indented JSON array.
// A nil collection encodes as [] rather than null.
func Encode(students []*student.Student) ([]byte, error) {
	if students == nil {
		students = []*student.Student{}
	}
	data, err := json.MarshalIndent(students, "", indent)
	if err != nil {
		return nil, shared.ErrSnapshotWrite.Wrap("failed to encode snapshot", err)
	}
	return append(data, '\n'), nil
}

// Decode parses a snapshot document. Empty input and a literal null decode to
// an empty collection. Records with a null grades object get an empty map.
func Decode(data []byte) ([]*student.Student, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return []*student.Student{}, nil
	}

	var students []*student.Student
	if err := json.Unmarshal(data, &students); err != nil {
		return nil, shared.ErrSnapshotCorrupt.Wrap("snapshot is not a valid student array", err)
	}
	if students == nil {
		return []*student.Student{}, nil
	}

	for i, st := range students {
		if st == nil {
			return nil, shared.ErrSnapshotCorrupt.Wrap("snapshot contains a null record", nil)
		}
		if st.Grades == nil {
			students[i].Grades = make(map[string]float64)
		}
	}
	return students, nil
}
