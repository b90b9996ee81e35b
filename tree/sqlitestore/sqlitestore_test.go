package sqlitestore

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/pbanos/bonsai/tree"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleTree() *tree.Tree {
	return tree.New(&tree.Decision{
		FeatureIndex: 0,
		Threshold:    3.68,
		Left: &tree.Decision{
			FeatureIndex: 1,
			Threshold:    2,
			Left:         &tree.Leaf{Label: "a"},
			Right:        &tree.Leaf{Label: "b"},
		},
		Right: &tree.Leaf{Label: "c"},
	}, 2)
}

func TestSQLiteStoreCRUD(t *testing.T) {
	ctx := context.Background()
	ns, err := Open(ctx, filepath.Join(t.TempDir(), "trees.db"))
	require.NoError(t, err)
	defer ns.Close(ctx)

	n := &tree.NodeRecord{Leaf: true, Label: "a"}
	require.NoError(t, ns.Create(ctx, n))
	assert.NotEmpty(t, n.ID)

	got, err := ns.Get(ctx, n.ID)
	require.NoError(t, err)
	assert.Equal(t, n, got)

	n.Leaf = false
	n.FeatureIndex, n.Threshold, n.LeftID, n.RightID = 3, -1.25, "l", "r"
	require.NoError(t, ns.Store(ctx, n))
	got, err = ns.Get(ctx, n.ID)
	require.NoError(t, err)
	assert.Equal(t, n, got)

	require.NoError(t, ns.Delete(ctx, n))
	got, err = ns.Get(ctx, n.ID)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestSQLiteStoreSaveLoad(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "trees.db")
	ns, err := Open(ctx, path)
	require.NoError(t, err)
	rootID, err := tree.Save(ctx, sampleTree(), ns)
	require.NoError(t, err)
	require.NoError(t, ns.Close(ctx))

	ns, err = Open(ctx, path)
	require.NoError(t, err)
	defer ns.Close(ctx)
	loaded, err := tree.Load(ctx, ns, rootID)
	require.NoError(t, err)
	if diff := cmp.Diff(sampleTree(), loaded); diff != "" {
		t.Errorf("loaded tree mismatch (-want +got):\n%s", diff)
	}
}

func TestSQLiteStoreCancelled(t *testing.T) {
	ns, err := Open(context.Background(), filepath.Join(t.TempDir(), "trees.db"))
	require.NoError(t, err)
	defer ns.Close(context.Background())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err = ns.Create(ctx, &tree.NodeRecord{Leaf: true})
	assert.ErrorIs(t, err, context.Canceled)
	assert.ErrorIs(t, ns.Close(ctx), context.Canceled)

	_, err = ns.Get(context.Background(), "x")
	assert.ErrorContains(t, err, "database is closed")
}
