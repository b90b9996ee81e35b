package dataset

import (
	"fmt"
)

/*
Record represents a labeled item from which to learn: a fixed-length vector
of real-valued features and the discrete label observed for it.
*/
type Record struct {
	Features []float64
	Label    string
}

/*
NewRecord takes a label and a list of feature values and returns a record
with them.
*/
func NewRecord(label string, features ...float64) Record {
	return Record{Features: features, Label: label}
}

func (r Record) String() string {
	return fmt.Sprintf("[%v -> %s]", r.Features, r.Label)
}
