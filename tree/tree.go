package tree

import (
	"fmt"
	"strings"

	"github.com/pbanos/bonsai/dataset"
)

// Tree represents a binary decision tree. It is composed of
// its root node and the number of features of the vectors it
// was grown from.
//
// A tree is not modified once built, so it can be used by
// several goroutines at the same time.
type Tree struct {
	Root         Node
	FeatureCount int
}

// New takes the root node and the feature count of a tree and returns
// the tree.
func New(root Node, featureCount int) *Tree {
	return &Tree{root, featureCount}
}

/*
Test takes a dataset and returns the prediction success rate of the tree
over it: the fraction of records whose label is the one the tree predicts
for their feature vector.

An error is returned if a record cannot be predicted or the dataset is
empty.
*/
func (t *Tree) Test(s dataset.Dataset) (float64, error) {
	count := s.Count()
	if count == 0 {
		return 0.0, dataset.ErrEmptyDataset
	}
	var hits int
	for i := 0; i < count; i++ {
		label, err := t.Predict(s.Features(i))
		if err != nil {
			return 0.0, fmt.Errorf("testing record %d: %w", i, err)
		}
		if label == s.Label(i) {
			hits++
		}
	}
	return float64(hits) / float64(count), nil
}

// Traverse takes a bottomup boolean and an error-returning
// function that takes a node and its depth, and goes through
// the tree running the function with every node, left subtree
// first. The root has depth 0.
// Traverse will call the function with a parent node before
// calling it for its children if bottomup is false, and
// call it after its children if bottomup is true.
// If the call to the function returns an error, the traversing
// is aborted and the error is returned.
func (t *Tree) Traverse(bottomup bool, f func(n Node, depth int) error) error {
	if t == nil || t.Root == nil {
		return nil
	}
	return traverse(t.Root, 0, bottomup, f)
}

func traverse(n Node, depth int, bottomup bool, f func(Node, int) error) error {
	var err error
	if !bottomup {
		err = f(n, depth)
	}
	if err != nil {
		return err
	}
	if d, ok := n.(*Decision); ok {
		for _, sn := range []Node{d.Left, d.Right} {
			err = traverse(sn, depth+1, bottomup, f)
			if err != nil {
				return err
			}
		}
	}
	if bottomup {
		err = f(n, depth)
	}
	return err
}

/*
Depth returns the number of decision nodes in the longest path from the
root of the tree to a leaf.
*/
func (t *Tree) Depth() int {
	var depth int
	t.Traverse(false, func(n Node, d int) error {
		if _, ok := n.(*Leaf); ok && d > depth {
			depth = d
		}
		return nil
	})
	return depth
}

// Leaves returns the number of leaves in the tree.
func (t *Tree) Leaves() int {
	var leaves int
	t.Traverse(false, func(n Node, _ int) error {
		if _, ok := n.(*Leaf); ok {
			leaves++
		}
		return nil
	})
	return leaves
}

func (t *Tree) String() string {
	if t == nil || t.Root == nil {
		return ""
	}
	return subtreeString(t.Root)
}

func subtreeString(n Node) string {
	d, ok := n.(*Decision)
	if !ok {
		return fmt.Sprintf("%v\n", n)
	}
	var result strings.Builder
	fmt.Fprintf(&result, "%v\n|\n", d)
	subtrees := []Node{d.Left, d.Right}
	for i, st := range subtrees {
		for j, line := range strings.Split(subtreeString(st), "\n") {
			if len(line) == 0 {
				continue
			}
			switch {
			case j == 0:
				fmt.Fprintf(&result, "|__%s\n", line)
			case i == len(subtrees)-1:
				fmt.Fprintf(&result, "   %s\n", line)
			default:
				fmt.Fprintf(&result, "|  %s\n", line)
			}
		}
	}
	return result.String()
}
