/*
Package feature describes the columns of labeled datasets: the real-valued
features trees split on and the discrete label they predict.
*/
package feature

import (
	"fmt"
	"math"
)

/*
ContinuousFeature is a named column of a dataset holding real values. Its
position in Metadata.Features is the feature index trees use.
*/
type ContinuousFeature struct {
	name string
}

/*
DiscreteFeature is a named column of a dataset holding string values, such
as the label. When it has available values, no other value is accepted.
*/
type DiscreteFeature struct {
	name            string
	availableValues []string
}

func NewContinuousFeature(name string) *ContinuousFeature {
	return &ContinuousFeature{name}
}

func NewDiscreteFeature(name string, availableValues []string) *DiscreteFeature {
	return &DiscreteFeature{name, availableValues}
}

func (cf *ContinuousFeature) Name() string {
	return cf.name
}

// Check returns an error for NaN and infinite values.
func (cf *ContinuousFeature) Check(v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return fmt.Errorf("continuous feature %s got non-finite value %v", cf.name, v)
	}
	return nil
}

func (df *DiscreteFeature) Name() string {
	return df.name
}

// AvailableValues returns the values the feature is restricted to, if any.
func (df *DiscreteFeature) AvailableValues() []string {
	return df.availableValues
}

// Check returns an error for values outside the available ones.
func (df *DiscreteFeature) Check(v string) error {
	if len(df.availableValues) == 0 {
		return nil
	}
	for _, av := range df.availableValues {
		if av == v {
			return nil
		}
	}
	return fmt.Errorf("discrete feature %s got unknown value %s", df.name, v)
}
