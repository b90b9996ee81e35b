package feature

import (
	"fmt"
)

/*
Criterion represents the binary test a decision node imposes on a feature
vector: the value at position Index must be lower than or equal to
Threshold.

Its SatisfiedBy method takes a feature vector and returns a boolean
indicating if the vector satisfies the criterion, that is, whether it
is routed to the left side of the split.
*/
type Criterion struct {
	Index     int
	Threshold float64
}

/*
IndexError is the error returned when a feature vector is too short to
provide the value a criterion asks for.
*/
type IndexError struct {
	Index  int
	Length int
}

func (e *IndexError) Error() string {
	return fmt.Sprintf("feature index %d out of range for vector of length %d", e.Index, e.Length)
}

/*
NewCriterion takes a feature index and a threshold and returns the
criterion x[index] <= threshold.
*/
func NewCriterion(index int, threshold float64) Criterion {
	return Criterion{Index: index, Threshold: threshold}
}

/*
SatisfiedBy receives a feature vector and returns true if its value for the
criterion's feature is lower than or equal to the threshold, false if it is
greater. An *IndexError is returned when the vector has no value at the
criterion's index.
*/
func (c Criterion) SatisfiedBy(x []float64) (bool, error) {
	if c.Index < 0 || c.Index >= len(x) {
		return false, &IndexError{Index: c.Index, Length: len(x)}
	}
	return x[c.Index] <= c.Threshold, nil
}

func (c Criterion) String() string {
	return fmt.Sprintf("x[%d] <= %g", c.Index, c.Threshold)
}
