package bonsai

import (
	"math"
	"math/big"
	"math/rand"
	"testing"

	"github.com/pbanos/bonsai/dataset"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newDataset(t *testing.T, records ...dataset.Record) dataset.Dataset {
	t.Helper()
	ds, err := dataset.New(records)
	require.NoError(t, err)
	return ds
}

func TestBestSplit(t *testing.T) {
	var records []dataset.Record
	for i, label := range []string{"0", "0", "0", "0", "0", "1", "1", "1", "1", "0"} {
		records = append(records, dataset.NewRecord(label, float64(i+1), float64(10-i)))
	}
	split, err := BestSplit(newDataset(t, records...))
	require.NoError(t, err)
	require.NotNil(t, split)

	// feature 1 mirrors feature 0 and reaches the same gain later on
	assert.Equal(t, 0, split.FeatureIndex)
	assert.Equal(t, 5.0, split.Threshold)
	assert.InDelta(t, 0.32, split.Gain, 1e-9)
	assert.Equal(t, 5, split.Left.Count())
	assert.Equal(t, 5, split.Right.Count())
	assert.True(t, dataset.Pure(split.Left))
}

func TestBestSplitThresholdIsObservedValue(t *testing.T) {
	ds := newDataset(t,
		dataset.NewRecord("0", 2.77, 1.78),
		dataset.NewRecord("0", 1.73, 1.17),
		dataset.NewRecord("0", 3.68, 2.81),
		dataset.NewRecord("1", 7.50, 3.16),
		dataset.NewRecord("1", 9.00, 3.34),
		dataset.NewRecord("1", 7.44, 0.48),
	)
	split, err := BestSplit(ds)
	require.NoError(t, err)
	require.NotNil(t, split)
	assert.Equal(t, 0, split.FeatureIndex)
	assert.Equal(t, 3.68, split.Threshold)
	assert.InDelta(t, 0.5, split.Gain, 1e-9)
	assert.Equal(t, []string{"0", "0", "0"}, dataset.Labels(split.Left))
	assert.Equal(t, []string{"1", "1", "1"}, dataset.Labels(split.Right))
}

func TestBestSplitNone(t *testing.T) {
	cases := map[string]dataset.Dataset{
		"single record": newDataset(t, dataset.NewRecord("a", 1)),
		"pure":          newDataset(t, dataset.NewRecord("a", 1), dataset.NewRecord("a", 2)),
		"identical vectors": newDataset(t,
			dataset.NewRecord("a", 1, 1),
			dataset.NewRecord("b", 1, 1),
		),
		"no features": newDataset(t, dataset.NewRecord("a"), dataset.NewRecord("b")),
		"no gain": newDataset(t,
			dataset.NewRecord("a", 0, 0),
			dataset.NewRecord("b", 0, 1),
			dataset.NewRecord("b", 1, 0),
			dataset.NewRecord("a", 1, 1),
		),
	}
	for name, ds := range cases {
		t.Run(name, func(t *testing.T) {
			split, err := BestSplit(ds)
			require.NoError(t, err)
			assert.Nil(t, split)
		})
	}
}

func TestBestSplitTieGoesToFirstCandidate(t *testing.T) {
	ds := newDataset(t,
		dataset.NewRecord("2", 4, 1),
		dataset.NewRecord("1", 4, 1),
		dataset.NewRecord("2", 1, 2),
	)
	split, err := BestSplit(ds)
	require.NoError(t, err)
	require.NotNil(t, split)
	assert.Equal(t, 0, split.FeatureIndex)
	assert.Equal(t, 1.0, split.Threshold)
}

func TestBestSplitPartitionsAreExhaustive(t *testing.T) {
	r := rand.New(rand.NewSource(42))
	for trial := 0; trial < 50; trial++ {
		records := make([]dataset.Record, 2+r.Intn(30))
		for i := range records {
			records[i] = dataset.NewRecord(string(rune('a'+r.Intn(3))), float64(r.Intn(5)), r.Float64())
		}
		ds := newDataset(t, records...)
		split, err := BestSplit(ds)
		require.NoError(t, err)
		if split == nil {
			continue
		}
		assert.Greater(t, split.Gain, 0.0)
		assert.Equal(t, ds.Count(), split.Left.Count()+split.Right.Count())
		assert.NotZero(t, split.Left.Count())
		assert.NotZero(t, split.Right.Count())
		for i := 0; i < split.Left.Count(); i++ {
			assert.LessOrEqual(t, split.Left.Features(i)[split.FeatureIndex], split.Threshold)
		}
		for i := 0; i < split.Right.Count(); i++ {
			assert.Greater(t, split.Right.Features(i)[split.FeatureIndex], split.Threshold)
		}
	}
}

func TestGini(t *testing.T) {
	assert.Equal(t, 0.0, Gini(nil))
	assert.Equal(t, 0.0, Gini([]string{"a", "a", "a"}))
	assert.InDelta(t, 0.5, Gini([]string{"a", "b", "a", "b"}), 1e-12)
	assert.InDelta(t, 0.48, Gini([]string{"0", "0", "0", "1", "1"}), 1e-12)

	r := rand.New(rand.NewSource(7))
	for trial := 0; trial < 100; trial++ {
		labels := make([]string, 1+r.Intn(20))
		distinct := map[string]bool{}
		for i := range labels {
			labels[i] = string(rune('a' + r.Intn(4)))
			distinct[labels[i]] = true
		}
		g := Gini(labels)
		k := float64(len(distinct))
		assert.GreaterOrEqual(t, g, 0.0)
		assert.LessOrEqual(t, g, 1-1/k+1e-12)
	}
}

// bigPurity computes the exact value of a purity with math/big.
func bigPurity(p purity) *big.Rat {
	num := new(big.Int).Lsh(new(big.Int).SetUint64(p.num.hi), 64)
	num.Or(num, new(big.Int).SetUint64(p.num.lo))
	return new(big.Rat).SetFrac(num, new(big.Int).SetUint64(p.den))
}

func TestSplitPurityLargeNodes(t *testing.T) {
	// two pure classes of 3.4M and 1.7M records
	const nL, nR = 3400000, 1700000
	parent := samplePurity(nL*nL+nR*nR, nL+nR)
	split := splitPurity(nL*nL, nL, nR*nR, nR)
	assert.True(t, split.greater(parent))
	assert.False(t, parent.greater(split))
	assert.InEpsilon(t, float64(nL+nR), split.float(), 1e-12)

	n := uint64(dataset.MaxRecords)
	half := n / 2
	parent = samplePurity(half*half+(n-half)*(n-half), n)
	split = splitPurity(half*half, half, (n-half)*(n-half), n-half)
	assert.True(t, split.greater(parent))
	assert.Equal(t, 0, bigPurity(split).Cmp(new(big.Rat).SetInt64(int64(n))))
}

func TestPurityGreaterIsExact(t *testing.T) {
	r := rand.New(rand.NewSource(17))
	n := uint64(dataset.MaxRecords)
	for trial := 0; trial < 1000; trial++ {
		var ps [2]purity
		for i := range ps {
			nL := 1 + uint64(r.Int63n(int64(n-1)))
			nR := 1 + uint64(r.Int63n(int64(n-nL)))
			ps[i] = splitPurity(nL*(1+uint64(r.Int63n(int64(nL)))), nL, nR*(1+uint64(r.Int63n(int64(nR)))), nR)
		}
		want := bigPurity(ps[0]).Cmp(bigPurity(ps[1]))
		require.Equal(t, want > 0, ps[0].greater(ps[1]), "trial %d", trial)
		require.Equal(t, want < 0, ps[1].greater(ps[0]), "trial %d", trial)
		require.False(t, ps[0].greater(ps[0]))
	}
}

type oversizedDataset struct {
	dataset.Dataset
}

func (oversizedDataset) Count() int {
	return math.MaxInt
}

func TestBestSplitTooManyRecords(t *testing.T) {
	if uint64(math.MaxInt) <= dataset.MaxRecords {
		t.Skip("int cannot hold more than dataset.MaxRecords")
	}
	_, err := BestSplit(oversizedDataset{})
	assert.ErrorIs(t, err, dataset.ErrTooManyRecords)
	_, err = Grow(oversizedDataset{})
	assert.ErrorIs(t, err, dataset.ErrTooManyRecords)
}
