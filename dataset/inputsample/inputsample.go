/*
Package inputsample provides feature vectors whose values are read from an
io.Reader as they are needed, so that a prediction only asks for the
features the tree looks at.
*/
package inputsample

import (
	"bufio"
	"fmt"
	"io"
	"strconv"

	"github.com/pbanos/bonsai/feature"
	"github.com/pbanos/bonsai/tree"
)

/*
FeatureValueRequester represents a way to ask
for feature values and reject the given values.
*/
type FeatureValueRequester interface {
	RequestValueFor(*feature.ContinuousFeature) error
	RejectValueFor(*feature.ContinuousFeature, string) error
}

/*
Sample represents a feature vector whose values
are retrieved from a reader. A feature value will be
requested using a FeatureValueRequester before reading it.
*/
type Sample struct {
	obtainedValues        map[int]float64
	scanner               *bufio.Scanner
	featureValueRequester FeatureValueRequester
	md                    *feature.Metadata
}

/*
New takes an io.Reader, the metadata describing the features and a
FeatureValueRequester and returns a Sample.

Each value is expected on its own line. Lines are read from the reader
until one with a valid finite float64 number is found, every other line
being rejected with the FeatureValueRequester's RejectValueFor method.
*/
func New(r io.Reader, md *feature.Metadata, featureValueRequester FeatureValueRequester) *Sample {
	return &Sample{make(map[int]float64), bufio.NewScanner(r), featureValueRequester, md}
}

/*
ValueFor returns the value of the feature with the given index, reading
it the first time it is needed.
*/
func (s *Sample) ValueFor(i int) (float64, error) {
	if value, ok := s.obtainedValues[i]; ok {
		return value, nil
	}
	if i < 0 || i >= len(s.md.Features) {
		return 0, &feature.IndexError{Index: i, Length: len(s.md.Features)}
	}
	f := s.md.Features[i]
	err := s.featureValueRequester.RequestValueFor(f)
	if err != nil {
		return 0, err
	}
	for s.scanner.Scan() {
		line := s.scanner.Text()
		value, err := strconv.ParseFloat(line, 64)
		if err == nil {
			if f.Check(value) == nil {
				s.obtainedValues[i] = value
				return value, nil
			}
		}
		err = s.featureValueRequester.RejectValueFor(f, line)
		if err != nil {
			return 0, err
		}
	}
	err = s.scanner.Err()
	if err != nil {
		return 0, err
	}
	return 0, fmt.Errorf("EOF when requesting value for %s", f.Name())
}

/*
Predict walks the tree from its root reading only the values of the
features on the decisions found, and returns the label of the leaf
reached.
*/
func (s *Sample) Predict(t *tree.Tree) (string, error) {
	if t == nil || t.Root == nil {
		return "", tree.ErrNilTree
	}
	n := t.Root
	for {
		switch node := n.(type) {
		case *tree.Leaf:
			return node.Label, nil
		case *tree.Decision:
			value, err := s.ValueFor(node.FeatureIndex)
			if err != nil {
				return "", err
			}
			if value <= node.Threshold {
				n = node.Left
			} else {
				n = node.Right
			}
		default:
			return "", fmt.Errorf("%w: unexpected node %T", tree.ErrMalformedTree, n)
		}
	}
}
