/*
Package bonsai grows binary decision trees that predict a discrete label
from a vector of real-valued features. Nodes are split on the feature and
threshold that most reduce the Gini impurity of their records.
*/
package bonsai

import (
	"github.com/pbanos/bonsai/dataset"
	"github.com/pbanos/bonsai/tree"
	"go.uber.org/zap"
)

/*
ErrNilTree is the error returned by Predict when given a nil tree.
*/
const ErrNilTree = tree.ErrNilTree

/*
Fit takes a slice of records and a list of options and returns a tree
grown from them (see Grow).

The records are validated first: dataset.ErrEmptyDataset,
dataset.ErrTooManyRecords, a *dataset.FeatureCountError or a
*dataset.FeatureValueError is returned if they do not form a dataset, and
no tree is grown.
*/
func Fit(records []dataset.Record, opts ...Option) (*tree.Tree, error) {
	ds, err := dataset.New(records)
	if err != nil {
		return nil, err
	}
	return Grow(ds, opts...)
}

/*
Grow takes a dataset and a list of options and returns a tree grown from
it. Starting with the whole dataset at the root, every node becomes:
  - a leaf with the label of its records if they all share it,
  - a leaf with the majority label of its records if the growth strategy
    is exhausted at its depth or no split of its records reduces their
    impurity,
  - a decision node on the best split of its records otherwise, whose
    subtrees are grown from the two halves of the split.

Growing is deterministic: the same dataset and options always produce the
same tree.
Datasets over dataset.MaxRecords records, beyond which splits cannot be
compared exactly, are rejected with dataset.ErrTooManyRecords.
*/
func Grow(s dataset.Dataset, opts ...Option) (*tree.Tree, error) {
	if s == nil || s.Count() == 0 {
		return nil, dataset.ErrEmptyDataset
	}
	if uint64(s.Count()) > dataset.MaxRecords {
		return nil, dataset.ErrTooManyRecords
	}
	g := newGrower(opts...)
	root, err := g.grow(s)
	if err != nil {
		return nil, err
	}
	t := tree.New(root, s.FeatureCount())
	g.logger.Debug("tree grown",
		zap.Int("records", s.Count()),
		zap.Int("depth", t.Depth()),
		zap.Int("leaves", t.Leaves()))
	return t, nil
}

/*
Predict takes a tree and a slice of feature vectors and returns the label
the tree predicts for each of them, in order. ErrNilTree is returned for a
nil tree; otherwise it behaves like tree.Tree.PredictAll.
*/
func Predict(t *tree.Tree, xs [][]float64) ([]string, error) {
	if t == nil {
		return nil, ErrNilTree
	}
	return t.PredictAll(xs)
}

type growItem struct {
	s     dataset.Dataset
	depth int
	slot  *tree.Node
}

// lifo stack for nodes to grow
type growStack []*growItem

func (gs growStack) Empty() bool       { return len(gs) == 0 }
func (gs *growStack) Push(i *growItem) { *gs = append(*gs, i) }
func (gs *growStack) Pop() *growItem {
	i := (*gs)[len(*gs)-1]
	*gs = (*gs)[:len(*gs)-1]
	return i
}

func (g *grower) grow(s dataset.Dataset) (tree.Node, error) {
	var root tree.Node
	stack := &growStack{{s, 0, &root}}
	for !stack.Empty() {
		w := stack.Pop()
		if dataset.Pure(w.s) {
			*w.slot = g.leaf(w, w.s.Label(0), "pure")
			continue
		}
		if g.strategy.Exhausted(w.depth) {
			*w.slot = g.leaf(w, dataset.MajorityLabel(w.s), "max depth")
			continue
		}
		split, err := BestSplit(w.s)
		if err != nil {
			return nil, err
		}
		if split == nil {
			*w.slot = g.leaf(w, dataset.MajorityLabel(w.s), "no split")
			continue
		}
		d := &tree.Decision{FeatureIndex: split.FeatureIndex, Threshold: split.Threshold}
		*w.slot = d
		g.logger.Debug("decision node",
			zap.Int("depth", w.depth),
			zap.Int("records", w.s.Count()),
			zap.Int("feature", split.FeatureIndex),
			zap.Float64("threshold", split.Threshold),
			zap.Float64("gain", split.Gain))
		stack.Push(&growItem{split.Right, w.depth + 1, &d.Right})
		stack.Push(&growItem{split.Left, w.depth + 1, &d.Left})
	}
	return root, nil
}

func (g *grower) leaf(w *growItem, label, reason string) *tree.Leaf {
	g.logger.Debug("leaf node",
		zap.Int("depth", w.depth),
		zap.Int("records", w.s.Count()),
		zap.String("label", label),
		zap.String("reason", reason))
	return &tree.Leaf{Label: label}
}
