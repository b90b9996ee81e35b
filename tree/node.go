package tree

import (
	"fmt"

	"github.com/pbanos/bonsai/feature"
)

/*
Node is a node of the tree: either a *Decision or a *Leaf. No other
implementations exist.
*/
type Node interface {
	isNode()
}

/*
Decision is an internal node of the tree. Feature vectors whose value at
FeatureIndex is lower than or equal to Threshold continue on the Left
subtree, the rest on the Right subtree.

Both children are owned exclusively by the decision node.
*/
type Decision struct {
	FeatureIndex int
	Threshold    float64
	Left         Node
	Right        Node
}

/*
Leaf is a terminal node of the tree holding the label predicted for the
feature vectors that reach it.
*/
type Leaf struct {
	Label string
}

func (*Decision) isNode() {}

func (*Leaf) isNode() {}

/*
Criterion returns the feature.Criterion that vectors must satisfy to be
routed to the left subtree of the node.
*/
func (d *Decision) Criterion() feature.Criterion {
	return feature.NewCriterion(d.FeatureIndex, d.Threshold)
}

func (d *Decision) String() string {
	return fmt.Sprintf("[ %v ]", d.Criterion())
}

func (l *Leaf) String() string {
	return fmt.Sprintf("{ %s }", l.Label)
}
