package json

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/pbanos/bonsai/tree"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleTree() *tree.Tree {
	return tree.New(&tree.Decision{
		FeatureIndex: 1,
		Threshold:    0.5,
		Left: &tree.Decision{
			FeatureIndex: 0,
			Threshold:    -2.25,
			Left:         &tree.Leaf{Label: "a"},
			Right:        &tree.Leaf{Label: ""},
		},
		Right: &tree.Leaf{Label: "c"},
	}, 3)
}

func TestWriteReadJSONTree(t *testing.T) {
	ctx := context.Background()
	buf := &bytes.Buffer{}
	require.NoError(t, WriteJSONTree(ctx, sampleTree(), buf))

	doc := &struct {
		RootID       string `json:"rootID"`
		FeatureCount int    `json:"featureCount"`
		Nodes        []node `json:"nodes"`
	}{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), doc))
	assert.Equal(t, 3, doc.FeatureCount)
	require.Len(t, doc.Nodes, 5)
	assert.Equal(t, doc.RootID, doc.Nodes[0].ID)
	var order []string
	for _, n := range doc.Nodes {
		if n.Leaf {
			order = append(order, "leaf:"+n.Label)
		} else {
			order = append(order, "decision")
		}
	}
	assert.Equal(t, []string{"decision", "decision", "leaf:a", "leaf:", "leaf:c"}, order)
	assert.Equal(t, doc.Nodes[1].ID, doc.Nodes[0].LeftID)
	assert.Equal(t, doc.Nodes[4].ID, doc.Nodes[0].RightID)
	assert.Equal(t, doc.RootID, doc.Nodes[1].ParentID)

	read, err := ReadJSONTree(ctx, bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	if diff := cmp.Diff(sampleTree(), read); diff != "" {
		t.Errorf("read tree mismatch (-want +got):\n%s", diff)
	}
}

func TestReadJSONTreeErrors(t *testing.T) {
	ctx := context.Background()
	cases := map[string]string{
		"not json":     `{"rootID":`,
		"no root id":   `{"featureCount":1,"nodes":[]}`,
		"missing root": `{"rootID":"x","featureCount":1,"nodes":[]}`,
		"node without id": `{"rootID":"x","featureCount":1,"nodes":[
			{"leaf":true,"label":"a"}]}`,
		"missing subtree": `{"rootID":"x","featureCount":1,"nodes":[
			{"id":"x","f":0,"t":1,"l":"y","r":"z"},
			{"id":"y","pId":"x","leaf":true,"label":"a"}]}`,
		"feature out of range": `{"rootID":"x","featureCount":1,"nodes":[
			{"id":"x","f":1,"t":1,"l":"y","r":"z"},
			{"id":"y","pId":"x","leaf":true,"label":"a"},
			{"id":"z","pId":"x","leaf":true,"label":"b"}]}`,
	}
	for name, doc := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := ReadJSONTree(ctx, strings.NewReader(doc))
			assert.Error(t, err)
		})
	}
}

func TestReadJSONStoredTree(t *testing.T) {
	ctx := context.Background()
	ns := tree.NewMemoryNodeStore()
	rootID, err := ReadJSONStoredTree(ctx, strings.NewReader(`{"rootID":"x","featureCount":1,"nodes":[
		{"id":"x","t":1.5,"l":"y","r":"z"},
		{"id":"y","pId":"x","leaf":true,"label":"a"},
		{"id":"z","pId":"x","leaf":true,"label":"b"}]}`), ns)
	require.NoError(t, err)
	assert.Equal(t, "x", rootID)

	root, err := ns.Get(ctx, "x")
	require.NoError(t, err)
	assert.Equal(t, 1, root.FeatureCount)

	tr, err := tree.Load(ctx, ns, rootID)
	require.NoError(t, err)
	label, err := tr.Predict([]float64{2})
	require.NoError(t, err)
	assert.Equal(t, "b", label)

	buf := &bytes.Buffer{}
	require.NoError(t, WriteJSONStoredTree(ctx, ns, rootID, buf))
	assert.JSONEq(t, `{"rootID":"x","featureCount":1,"nodes":[
		{"id":"x","t":1.5,"l":"y","r":"z","fc":1},
		{"id":"y","pId":"x","leaf":true,"label":"a"},
		{"id":"z","pId":"x","leaf":true,"label":"b"}]}`, buf.String())
}

func TestWriteJSONStoredTreeCycle(t *testing.T) {
	ctx := context.Background()
	ns := tree.NewMemoryNodeStore()
	for _, n := range []*tree.NodeRecord{
		{ID: "x", LeftID: "y", RightID: "z", FeatureCount: 1},
		{ID: "y", Leaf: true, Label: "a"},
		{ID: "z", LeftID: "y", RightID: "x"},
	} {
		require.NoError(t, ns.Store(ctx, n))
	}
	err := WriteJSONStoredTree(ctx, ns, "x", &bytes.Buffer{})
	assert.ErrorIs(t, err, tree.ErrMalformedTree)
}

func TestNodeEncodeDecoder(t *testing.T) {
	ned := NewNodeEncodeDecoder()
	decision := &tree.NodeRecord{ID: "1", ParentID: "0", FeatureIndex: 2, Threshold: 3.5, LeftID: "2", RightID: "3"}
	data, err := ned.Encode(decision)
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":"1","pId":"0","f":2,"t":3.5,"l":"2","r":"3"}`, string(data))
	decoded, err := ned.Decode(data)
	require.NoError(t, err)
	assert.Equal(t, decision, decoded)

	_, err = ned.Decode([]byte(`[]`))
	assert.Error(t, err)
}
