package bonsai

import (
	"math"
	"math/bits"
	"sort"

	"github.com/pbanos/bonsai/dataset"
	"github.com/pbanos/bonsai/feature"
)

/*
Split represents a partition of a dataset in two according to the value
of a feature: the records whose value for the feature is lower than or
equal to the threshold go to the Left dataset, the rest to the Right one.
Gain is the reduction of Gini impurity the partition achieves.
*/
type Split struct {
	FeatureIndex int
	Threshold    float64
	Gain         float64
	Left         dataset.Dataset
	Right        dataset.Dataset
}

/*
Criterion returns the feature.Criterion records of the Left dataset
satisfy.
*/
func (s *Split) Criterion() feature.Criterion {
	return feature.NewCriterion(s.FeatureIndex, s.Threshold)
}

/*
BestSplit takes a dataset and returns the split of it with the highest
Gini impurity reduction among every feature and every value observed for
it in the dataset, used as threshold.

Features are evaluated in ascending index order and thresholds in
ascending value order; a split only replaces the best one found so far
if its gain is strictly greater, so ties resolve to the first split found.
Splits leaving one of their sides empty are not considered.

Gains are compared exactly, as fractions of integers, for datasets of up
to dataset.MaxRecords records; dataset.ErrTooManyRecords is returned for
bigger ones.

The result is nil if no split reduces the impurity of the dataset. Other
errors are only returned if the dataset cannot be partitioned.
*/
func BestSplit(s dataset.Dataset) (*Split, error) {
	n := s.Count()
	if uint64(n) > dataset.MaxRecords {
		return nil, dataset.ErrTooManyRecords
	}
	if n < 2 {
		return nil, nil
	}
	counts := dataset.ClassCounts(s)
	var sq uint64
	for _, c := range counts {
		sq += uint64(c) * uint64(c)
	}
	parent := samplePurity(sq, uint64(n))
	bestPurity := parent
	classCtL := make([]int, len(counts))
	classCtR := make([]int, len(counts))
	order := make([]int, n)
	var best *Split
	for f := 0; f < s.FeatureCount(); f++ {
		for i := range order {
			order[i] = i
		}
		sort.SliceStable(order, func(a, b int) bool {
			return s.Features(order[a])[f] < s.Features(order[b])[f]
		})
		copy(classCtR, counts)
		for c := range classCtL {
			classCtL[c] = 0
		}
		var sqL, sqR uint64 = 0, sq
		for i := 1; i < n; i++ {
			prev := s.Features(order[i-1])[f]
			c := s.Class(order[i-1])
			sqL += uint64(2*classCtL[c] + 1)
			sqR -= uint64(2*classCtR[c] - 1)
			classCtL[c]++
			classCtR[c]--
			if s.Features(order[i])[f] == prev {
				continue
			}
			p := splitPurity(sqL, uint64(i), sqR, uint64(n-i))
			if p.greater(bestPurity) {
				bestPurity = p
				best = &Split{FeatureIndex: f, Threshold: prev}
			}
		}
	}
	if best == nil {
		return nil, nil
	}
	best.Gain = (bestPurity.float() - parent.float()) / float64(n)
	var err error
	best.Left, best.Right, err = s.Partition(best.Criterion())
	if err != nil {
		return nil, err
	}
	return best, nil
}

// purity is the fraction num/den. For a dataset of n records with class
// counts c it is sum(c^2)/n, so that gini = 1 - purity/n; for a split it
// is the sum of the purities of both sides, and the gain of the split is
// (purity(split) - purity(dataset)) / n. Keeping it as a fraction of
// integers makes equal gains compare equal.
//
// With n <= dataset.MaxRecords, sum(c^2) and den fit in 64 bits, num
// needs up to 97 and the cross products in greater up to 161.
type purity struct {
	num uint128
	den uint64
}

type uint128 struct {
	hi, lo uint64
}

func mul64(a, b uint64) uint128 {
	hi, lo := bits.Mul64(a, b)
	return uint128{hi, lo}
}

func (u uint128) add(v uint128) uint128 {
	lo, carry := bits.Add64(u.lo, v.lo, 0)
	hi, _ := bits.Add64(u.hi, v.hi, carry)
	return uint128{hi, lo}
}

// mul returns the 192 bit product u*d as its high, middle and low words.
func (u uint128) mul(d uint64) (hi, mid, lo uint64) {
	h0, lo := bits.Mul64(u.lo, d)
	h1, l1 := bits.Mul64(u.hi, d)
	mid, carry := bits.Add64(h0, l1, 0)
	return h1 + carry, mid, lo
}

func samplePurity(sq, n uint64) purity {
	return purity{uint128{0, sq}, n}
}

func splitPurity(sqL, nL, sqR, nR uint64) purity {
	return purity{mul64(sqL, nR).add(mul64(sqR, nL)), nL * nR}
}

func (p purity) greater(o purity) bool {
	hi1, mid1, lo1 := p.num.mul(o.den)
	hi2, mid2, lo2 := o.num.mul(p.den)
	if hi1 != hi2 {
		return hi1 > hi2
	}
	if mid1 != mid2 {
		return mid1 > mid2
	}
	return lo1 > lo2
}

func (p purity) float() float64 {
	return (math.Ldexp(float64(p.num.hi), 64) + float64(p.num.lo)) / float64(p.den)
}

/*
Gini takes a multiset of labels and returns its Gini impurity: one minus
the sum of the squared proportions of every label. It is 0 for an empty
or pure multiset and approaches 1 as labels diversify.
*/
func Gini(labels []string) float64 {
	if len(labels) == 0 {
		return 0.0
	}
	uniq := make(map[string]int)
	var counts []int
	for _, l := range labels {
		i, ok := uniq[l]
		if !ok {
			i = len(counts)
			uniq[l] = i
			counts = append(counts, 0)
		}
		counts[i]++
	}
	return gini(len(labels), counts)
}

// gini impurity of n items with the given class counts
func gini(n int, ct []int) float64 {
	if n == 0 {
		return 0.0
	}
	g := 0.0
	for _, c := range ct {
		if c > 0 {
			p := float64(c) / float64(n)
			g += p * p
		}
	}
	return 1.0 - g
}
