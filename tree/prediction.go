package tree

import (
	"fmt"
)

/*
Predict takes a feature vector and returns the label of the leaf it reaches
starting from the root: at each decision node the vector continues on the
left subtree if its value for the node feature is lower than or equal to
the node threshold, and on the right subtree otherwise.

A *feature.IndexError is returned if the vector is too short for a decision
node on its path. Vectors longer than the tree feature count are accepted
as long as every decision node on their path can be evaluated.
*/
func (t *Tree) Predict(x []float64) (string, error) {
	if t == nil || t.Root == nil {
		return "", ErrNilTree
	}
	n := t.Root
	for {
		switch v := n.(type) {
		case *Leaf:
			return v.Label, nil
		case *Decision:
			ok, err := v.Criterion().SatisfiedBy(x)
			if err != nil {
				return "", err
			}
			if ok {
				n = v.Left
			} else {
				n = v.Right
			}
		default:
			return "", fmt.Errorf("%w: unexpected node %T", ErrMalformedTree, n)
		}
	}
}

/*
PredictAll takes a slice of feature vectors and returns the predicted
label for each of them, in the same order.

Predictions stop at the first vector that cannot be predicted: no labels
are returned and the error identifies the position of the vector.
*/
func (t *Tree) PredictAll(xs [][]float64) ([]string, error) {
	if t == nil || t.Root == nil {
		return nil, ErrNilTree
	}
	labels := make([]string, len(xs))
	for i, x := range xs {
		label, err := t.Predict(x)
		if err != nil {
			return nil, fmt.Errorf("predicting vector %d: %w", i, err)
		}
		labels[i] = label
	}
	return labels, nil
}
