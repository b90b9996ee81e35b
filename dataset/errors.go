package dataset

import "fmt"

// ValidationError represents an error found validating the records
// of a dataset
type ValidationError string

func (ve ValidationError) Error() string {
	return string(ve)
}

/*
ErrEmptyDataset is the error returned when trying to build a dataset
without records.
*/
const ErrEmptyDataset = ValidationError("dataset has no records")

/*
ErrTooManyRecords is the error returned when trying to build a dataset
with more than MaxRecords records.
*/
const ErrTooManyRecords = ValidationError("dataset has too many records")

/*
FeatureCountError is the error returned when a record does not have the same
number of features as the first record of its dataset.
*/
type FeatureCountError struct {
	Record int
	Got    int
	Want   int
}

func (e *FeatureCountError) Error() string {
	return fmt.Sprintf("record %d has %d features, expected %d", e.Record, e.Got, e.Want)
}

/*
FeatureValueError is the error returned when a record holds a non-finite
value (NaN or infinity) for a feature.
*/
type FeatureValueError struct {
	Record  int
	Feature int
	Value   float64
}

func (e *FeatureValueError) Error() string {
	return fmt.Sprintf("record %d has non-finite value %v for feature %d", e.Record, e.Value, e.Feature)
}
