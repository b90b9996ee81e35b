package dataset

import (
	"math"
	"sort"

	"github.com/pbanos/bonsai/feature"
)

const (
	// SampleCountThreshold is the number of records above which New
	// returns a CPU-intensive dataset instead of a memory-intensive one.
	SampleCountThreshold = 1000

	// MaxRecords is the largest number of records a dataset can hold.
	MaxRecords = 1<<32 - 1
)

/*
Dataset represents an ordered collection of labeled records sharing the
same number of features.

Its Count method returns the number of records in it, and FeatureCount the
number of features each of them has.

Its Features, Label and Class methods return the feature vector, the label
and the class id of the i-th record. Class ids index the slice returned by
Classes, the table of labels of the dataset the subset was taken from, in
order of first appearance.

Its FeatureValues method returns the distinct values observed for a feature
in ascending order.

Its Partition method takes a feature.Criterion and returns two subsets: the
records satisfying it and the rest, both keeping the original record order.
*/
type Dataset interface {
	Count() int
	FeatureCount() int
	Features(i int) []float64
	Label(i int) string
	Class(i int) int
	Classes() []string
	FeatureValues(f int) []float64
	Partition(c feature.Criterion) (left, right Dataset, err error)
}

// table holds the validated records a dataset and all its subsets are
// built on.
type table struct {
	records      []Record
	classIDs     []int
	classes      []string
	featureCount int
}

type memoryIntensiveSubsettingDataset struct {
	*table
	records  []Record
	classIDs []int
}

type cpuIntensiveSubsettingDataset struct {
	*table
	inx []int
}

/*
New takes a slice of records and returns a dataset built with them or an
error if they do not make a valid dataset (see NewMemoryIntensive).
The dataset will be a CPU intensive one when the number of records is
over SampleCountThreshold.
*/
func New(records []Record) (Dataset, error) {
	if len(records) > SampleCountThreshold {
		return NewCPUIntensive(records)
	}
	return NewMemoryIntensive(records)
}

/*
NewMemoryIntensive takes a slice of records and returns a Dataset
built with them. A memory-intensive dataset is an implementation that
replicates the slice of records when partitioning to avoid indirections
at the cost of increased memory.

The records are copied, so later changes to the given slice do not affect
the dataset. ErrEmptyDataset, ErrTooManyRecords, a *FeatureCountError or a
*FeatureValueError is returned if the records cannot form a dataset.
*/
func NewMemoryIntensive(records []Record) (Dataset, error) {
	t, err := newTable(records)
	if err != nil {
		return nil, err
	}
	return &memoryIntensiveSubsettingDataset{t, t.records, t.classIDs}, nil
}

/*
NewCPUIntensive takes a slice of records and returns a Dataset
built with them. A cpu-intensive dataset is an implementation that
instead of replicating the records when partitioning, keeps the
positions of the records in the subset and shares the original ones.
Validation is the same as for NewMemoryIntensive.
*/
func NewCPUIntensive(records []Record) (Dataset, error) {
	t, err := newTable(records)
	if err != nil {
		return nil, err
	}
	inx := make([]int, len(t.records))
	for i := range inx {
		inx[i] = i
	}
	return &cpuIntensiveSubsettingDataset{t, inx}, nil
}

func newTable(records []Record) (*table, error) {
	if len(records) == 0 {
		return nil, ErrEmptyDataset
	}
	if uint64(len(records)) > MaxRecords {
		return nil, ErrTooManyRecords
	}
	t := &table{
		records:      make([]Record, len(records)),
		classIDs:     make([]int, len(records)),
		featureCount: len(records[0].Features),
	}
	uniq := make(map[string]int)
	for i, r := range records {
		if len(r.Features) != t.featureCount {
			return nil, &FeatureCountError{Record: i, Got: len(r.Features), Want: t.featureCount}
		}
		for f, v := range r.Features {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return nil, &FeatureValueError{Record: i, Feature: f, Value: v}
			}
		}
		id, ok := uniq[r.Label]
		if !ok {
			id = len(t.classes)
			uniq[r.Label] = id
			t.classes = append(t.classes, r.Label)
		}
		t.classIDs[i] = id
		t.records[i] = Record{Features: append([]float64(nil), r.Features...), Label: r.Label}
	}
	return t, nil
}

func (t *table) FeatureCount() int {
	return t.featureCount
}

func (t *table) Classes() []string {
	return t.classes
}

func (s *memoryIntensiveSubsettingDataset) Count() int {
	return len(s.records)
}

func (s *cpuIntensiveSubsettingDataset) Count() int {
	return len(s.inx)
}

func (s *memoryIntensiveSubsettingDataset) Features(i int) []float64 {
	return s.records[i].Features
}

func (s *cpuIntensiveSubsettingDataset) Features(i int) []float64 {
	return s.table.records[s.inx[i]].Features
}

func (s *memoryIntensiveSubsettingDataset) Label(i int) string {
	return s.records[i].Label
}

func (s *cpuIntensiveSubsettingDataset) Label(i int) string {
	return s.table.records[s.inx[i]].Label
}

func (s *memoryIntensiveSubsettingDataset) Class(i int) int {
	return s.classIDs[i]
}

func (s *cpuIntensiveSubsettingDataset) Class(i int) int {
	return s.table.classIDs[s.inx[i]]
}

func (s *memoryIntensiveSubsettingDataset) FeatureValues(f int) []float64 {
	return featureValues(s, f)
}

func (s *cpuIntensiveSubsettingDataset) FeatureValues(f int) []float64 {
	return featureValues(s, f)
}

func (s *memoryIntensiveSubsettingDataset) Partition(c feature.Criterion) (Dataset, Dataset, error) {
	left := &memoryIntensiveSubsettingDataset{table: s.table}
	right := &memoryIntensiveSubsettingDataset{table: s.table}
	for i, r := range s.records {
		ok, err := c.SatisfiedBy(r.Features)
		if err != nil {
			return nil, nil, err
		}
		if ok {
			left.records = append(left.records, r)
			left.classIDs = append(left.classIDs, s.classIDs[i])
		} else {
			right.records = append(right.records, r)
			right.classIDs = append(right.classIDs, s.classIDs[i])
		}
	}
	return left, right, nil
}

func (s *cpuIntensiveSubsettingDataset) Partition(c feature.Criterion) (Dataset, Dataset, error) {
	left := &cpuIntensiveSubsettingDataset{table: s.table}
	right := &cpuIntensiveSubsettingDataset{table: s.table}
	for _, i := range s.inx {
		ok, err := c.SatisfiedBy(s.table.records[i].Features)
		if err != nil {
			return nil, nil, err
		}
		if ok {
			left.inx = append(left.inx, i)
		} else {
			right.inx = append(right.inx, i)
		}
	}
	return left, right, nil
}

func featureValues(s Dataset, f int) []float64 {
	values := make([]float64, 0, s.Count())
	for i := 0; i < s.Count(); i++ {
		values = append(values, s.Features(i)[f])
	}
	sort.Float64s(values)
	result := values[:0]
	for i, v := range values {
		if i == 0 || v != values[i-1] {
			result = append(result, v)
		}
	}
	return result
}
