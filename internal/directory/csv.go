package directory

import (
	"encoding/csv"
	"errors"
	"io"
	"strings"
)

// ParseStudentsCSV reads a roster with a header row. Column order is free;
// first_name, last_name, email and grade are required.
func ParseStudentsCSV(r io.Reader) ([]Student, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true
	hdr, err := cr.Read()
	if err != nil {
		return nil, err
	}
	idx := map[string]int{}
	for i, h := range hdr {
		idx[strings.ToLower(strings.TrimSpace(h))] = i
	}
	for _, k := range []string{"first_name", "last_name", "email", "grade"} {
		if _, ok := idx[k]; !ok {
			return nil, errors.New("missing column: " + k)
		}
	}
	var out []Student
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		out = append(out, Student{
			FirstName: strings.TrimSpace(rec[idx["first_name"]]),
			LastName:  strings.TrimSpace(rec[idx["last_name"]]),
			Email:     strings.TrimSpace(rec[idx["email"]]),
			Grade:     strings.TrimSpace(rec[idx["grade"]]),
		})
	}
	return out, nil
}
