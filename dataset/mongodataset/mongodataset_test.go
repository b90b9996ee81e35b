package mongodataset

import (
	"context"
	"os"
	"testing"

	"github.com/pbanos/bonsai/dataset"
	"github.com/pbanos/bonsai/feature"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	mgo "gopkg.in/mgo.v2"
)

func metadata() *feature.Metadata {
	return &feature.Metadata{
		Features: []*feature.ContinuousFeature{feature.NewContinuousFeature("x0"), feature.NewContinuousFeature("x1")},
		Label:    feature.NewDiscreteFeature("class", nil),
	}
}

func session(t *testing.T) *mgo.Session {
	url := os.Getenv("BONSAI_TEST_MONGO")
	if url == "" {
		t.Skip("BONSAI_TEST_MONGO not set")
	}
	s, err := mgo.Dial(url)
	require.NoError(t, err)
	t.Cleanup(func() {
		s.DB("").C(samplesCollectionName).DropCollection()
		s.Close()
	})
	s.DB("").C(samplesCollectionName).DropCollection()
	return s
}

func TestStoreWriteRead(t *testing.T) {
	ctx := context.Background()
	ms, err := Open(ctx, session(t), metadata())
	require.NoError(t, err)

	records := []dataset.Record{
		dataset.NewRecord("a", 1.5, -2),
		dataset.NewRecord("b", 0, 1e10),
		dataset.NewRecord("a", 3.25, 4),
	}
	n, err := ms.Write(ctx, records)
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	count, err := ms.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, count)

	read, err := ms.Records(ctx)
	require.NoError(t, err)
	assert.Equal(t, records, read)

	_, err = ms.Write(ctx, []dataset.Record{dataset.NewRecord("a", 1)})
	assert.Error(t, err)
}

func TestOpenRejectsReservedNames(t *testing.T) {
	md := metadata()
	md.Features = append(md.Features, feature.NewContinuousFeature("a.b"))
	_, err := Open(context.Background(), session(t), md)
	assert.Error(t, err)
}
