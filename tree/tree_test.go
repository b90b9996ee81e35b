package tree

import (
	"errors"
	"testing"

	"github.com/pbanos/bonsai/dataset"
	"github.com/pbanos/bonsai/feature"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// x[0] <= 3.68 ? (x[1] <= 2 ? "a" : "b") : "c"
func sampleTree() *Tree {
	return New(&Decision{
		FeatureIndex: 0,
		Threshold:    3.68,
		Left: &Decision{
			FeatureIndex: 1,
			Threshold:    2,
			Left:         &Leaf{Label: "a"},
			Right:        &Leaf{Label: "b"},
		},
		Right: &Leaf{Label: "c"},
	}, 2)
}

func TestPredict(t *testing.T) {
	tr := sampleTree()
	cases := []struct {
		x     []float64
		label string
	}{
		{[]float64{3.68, 2}, "a"},
		{[]float64{1, 2.1}, "b"},
		{[]float64{3.69, -5}, "c"},
		{[]float64{9}, "c"},
		{[]float64{0, 0, 7}, "a"},
	}
	for _, c := range cases {
		label, err := tr.Predict(c.x)
		require.NoError(t, err, "%v", c.x)
		assert.Equal(t, c.label, label, "%v", c.x)
	}
}

func TestPredictShortVector(t *testing.T) {
	_, err := sampleTree().Predict([]float64{1})
	var ie *feature.IndexError
	require.True(t, errors.As(err, &ie))
	assert.Equal(t, 1, ie.Index)
	assert.Equal(t, 1, ie.Length)
}

func TestPredictSingleLeaf(t *testing.T) {
	tr := New(&Leaf{Label: "only"}, 3)
	label, err := tr.Predict(nil)
	require.NoError(t, err)
	assert.Equal(t, "only", label)
}

func TestPredictNilTree(t *testing.T) {
	var tr *Tree
	_, err := tr.Predict([]float64{1})
	assert.ErrorIs(t, err, ErrNilTree)
	_, err = tr.PredictAll([][]float64{{1}})
	assert.ErrorIs(t, err, ErrNilTree)
}

func TestPredictAll(t *testing.T) {
	tr := sampleTree()
	labels, err := tr.PredictAll([][]float64{{5, 0}, {1, 1}, {1, 3}})
	require.NoError(t, err)
	assert.Equal(t, []string{"c", "a", "b"}, labels)

	labels, err = tr.PredictAll([][]float64{{5, 0}, {1}, {1, 3}})
	assert.Nil(t, labels)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "vector 1")
	var ie *feature.IndexError
	assert.True(t, errors.As(err, &ie))

	labels, err = tr.PredictAll(nil)
	require.NoError(t, err)
	assert.Empty(t, labels)
}

func TestTest(t *testing.T) {
	ds, err := dataset.New([]dataset.Record{
		dataset.NewRecord("a", 1, 1),
		dataset.NewRecord("b", 1, 3),
		dataset.NewRecord("c", 5, 0),
		dataset.NewRecord("a", 5, 0),
	})
	require.NoError(t, err)
	accuracy, err := sampleTree().Test(ds)
	require.NoError(t, err)
	assert.InDelta(t, 0.75, accuracy, 1e-9)

	short, err := dataset.New([]dataset.Record{dataset.NewRecord("a", 1)})
	require.NoError(t, err)
	_, err = sampleTree().Test(short)
	assert.Error(t, err)
}

func TestTraverse(t *testing.T) {
	tr := sampleTree()
	var topdown, bottomup []string
	var depths []int
	require.NoError(t, tr.Traverse(false, func(n Node, depth int) error {
		topdown = append(topdown, n.(interface{ String() string }).String())
		depths = append(depths, depth)
		return nil
	}))
	require.NoError(t, tr.Traverse(true, func(n Node, depth int) error {
		bottomup = append(bottomup, n.(interface{ String() string }).String())
		return nil
	}))
	assert.Equal(t, []string{"[ x[0] <= 3.68 ]", "[ x[1] <= 2 ]", "{ a }", "{ b }", "{ c }"}, topdown)
	assert.Equal(t, []int{0, 1, 2, 2, 1}, depths)
	assert.Equal(t, []string{"{ a }", "{ b }", "[ x[1] <= 2 ]", "{ c }", "[ x[0] <= 3.68 ]"}, bottomup)

	stop := errors.New("stop")
	var visited int
	err := tr.Traverse(false, func(n Node, depth int) error {
		visited++
		if depth == 1 {
			return stop
		}
		return nil
	})
	assert.ErrorIs(t, err, stop)
	assert.Equal(t, 2, visited)
}

func TestDepthAndLeaves(t *testing.T) {
	tr := sampleTree()
	assert.Equal(t, 2, tr.Depth())
	assert.Equal(t, 3, tr.Leaves())

	leaf := New(&Leaf{Label: "x"}, 0)
	assert.Equal(t, 0, leaf.Depth())
	assert.Equal(t, 1, leaf.Leaves())
}

func TestString(t *testing.T) {
	expected := "[ x[0] <= 3.68 ]\n" +
		"|\n" +
		"|__[ x[1] <= 2 ]\n" +
		"|  |\n" +
		"|  |__{ a }\n" +
		"|  |__{ b }\n" +
		"|__{ c }\n"
	assert.Equal(t, expected, sampleTree().String())
}
