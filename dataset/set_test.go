package dataset

import (
	"errors"
	"math"
	"testing"

	"github.com/pbanos/bonsai/feature"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

type DatasetSuite struct {
	suite.Suite
	constructor func([]Record) (Dataset, error)
	records     []Record
}

func (s *DatasetSuite) SetupTest() {
	s.records = []Record{
		NewRecord("b", 3, 10),
		NewRecord("a", 1, 20),
		NewRecord("b", 2, 20),
		NewRecord("c", 3, 30),
		NewRecord("a", 5, 10),
	}
}

func (s *DatasetSuite) newDataset() Dataset {
	ds, err := s.constructor(s.records)
	s.Require().NoError(err)
	return ds
}

func (s *DatasetSuite) TestAccessors() {
	ds := s.newDataset()
	s.Equal(5, ds.Count())
	s.Equal(2, ds.FeatureCount())
	s.Equal([]float64{2, 20}, ds.Features(2))
	s.Equal("c", ds.Label(3))
	s.Equal([]string{"b", "a", "c"}, ds.Classes())
	s.Equal(1, ds.Class(4))
}

func (s *DatasetSuite) TestRecordsAreCopied() {
	ds := s.newDataset()
	s.records[0].Features[0] = 99
	s.Equal(3.0, ds.Features(0)[0])
}

func (s *DatasetSuite) TestFeatureValues() {
	ds := s.newDataset()
	s.Equal([]float64{1, 2, 3, 5}, ds.FeatureValues(0))
	s.Equal([]float64{10, 20, 30}, ds.FeatureValues(1))
}

func (s *DatasetSuite) TestPartition() {
	ds := s.newDataset()
	left, right, err := ds.Partition(feature.NewCriterion(0, 3))
	s.Require().NoError(err)
	s.Equal([]string{"b", "a", "b", "c"}, Labels(left))
	s.Equal([]string{"a"}, Labels(right))
	s.Equal(ds.Classes(), left.Classes())
	s.Equal(1, right.Class(0))

	ll, lr, err := left.Partition(feature.NewCriterion(1, 15))
	s.Require().NoError(err)
	s.Equal([]Record{NewRecord("b", 3, 10)}, Records(ll))
	s.Equal([]float64{1, 2, 3}, lr.FeatureValues(0))
}

func (s *DatasetSuite) TestPartitionOutOfRange() {
	ds := s.newDataset()
	_, _, err := ds.Partition(feature.NewCriterion(2, 0))
	var ie *feature.IndexError
	s.True(errors.As(err, &ie))
}

func (s *DatasetSuite) TestStats() {
	ds := s.newDataset()
	s.Equal([]int{2, 2, 1}, ClassCounts(ds))
	s.False(Pure(ds))
	s.Equal("b", MajorityLabel(ds), "ties resolve to the label seen first")

	_, right, err := ds.Partition(feature.NewCriterion(0, 2))
	s.Require().NoError(err)
	s.Equal([]string{"b", "c", "a"}, Labels(right))
	s.Equal("b", MajorityLabel(right))

	pure, _, err := ds.Partition(feature.NewCriterion(0, 1))
	s.Require().NoError(err)
	s.True(Pure(pure))
	s.Equal("a", MajorityLabel(pure))
}

func TestMemoryIntensiveDataset(t *testing.T) {
	suite.Run(t, &DatasetSuite{constructor: NewMemoryIntensive})
}

func TestCPUIntensiveDataset(t *testing.T) {
	suite.Run(t, &DatasetSuite{constructor: NewCPUIntensive})
}

func TestNewValidation(t *testing.T) {
	_, err := New(nil)
	assert.ErrorIs(t, err, ErrEmptyDataset)

	_, err = New([]Record{NewRecord("a", 1, 2), NewRecord("b", 1)})
	var fce *FeatureCountError
	require.True(t, errors.As(err, &fce))
	assert.Equal(t, FeatureCountError{Record: 1, Got: 1, Want: 2}, *fce)

	_, err = New([]Record{NewRecord("a", 1, 2), NewRecord("b", 1, math.NaN())})
	var fve *FeatureValueError
	require.True(t, errors.As(err, &fve))
	assert.Equal(t, 1, fve.Record)
	assert.Equal(t, 1, fve.Feature)

	_, err = New([]Record{NewRecord("a", math.Inf(-1))})
	assert.True(t, errors.As(err, &fve))
}

func TestNewWithoutFeatures(t *testing.T) {
	ds, err := New([]Record{NewRecord("a"), NewRecord("b"), NewRecord("a")})
	require.NoError(t, err)
	assert.Equal(t, 0, ds.FeatureCount())
	assert.Equal(t, "a", MajorityLabel(ds))
}

func TestNewPicksImplementation(t *testing.T) {
	records := make([]Record, SampleCountThreshold+1)
	for i := range records {
		records[i] = NewRecord("a", float64(i))
	}
	ds, err := New(records)
	require.NoError(t, err)
	assert.IsType(t, &cpuIntensiveSubsettingDataset{}, ds)

	ds, err = New(records[:SampleCountThreshold])
	require.NoError(t, err)
	assert.IsType(t, &memoryIntensiveSubsettingDataset{}, ds)
}
