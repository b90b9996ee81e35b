/*
Package json serializes trees and their node records as JSON.
*/
package json

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/pbanos/bonsai/tree"
)

/*
WriteJSONTree takes a context.Context, a pointer to a tree.Tree
and an io.Writer and serializes the given tree as JSON onto the
io.Writer (see WriteJSONStoredTree for the format). Node IDs are
generated for the occasion.
*/
func WriteJSONTree(ctx context.Context, t *tree.Tree, w io.Writer) error {
	ns := tree.NewMemoryNodeStore()
	defer ns.Close(ctx)
	rootID, err := tree.Save(ctx, t, ns)
	if err != nil {
		return err
	}
	return WriteJSONStoredTree(ctx, ns, rootID, w)
}

/*
WriteJSONStoredTree takes a context.Context, a tree.NodeStore, the ID of
the root node of a tree in it and an io.Writer and serializes the tree
as JSON onto the io.Writer.
A tree is serialized as a JSON object with the following fields:
  - "rootID": a string with the ID of the node at the root of the tree
  - "featureCount": the number of features of the vectors the tree
    predicts
  - "nodes": an array containing the nodes of the tree in pre-order
    (every node before its left subtree, and that before its right
    subtree), serialized by NewNodeEncodeDecoder.

An error is returned if the tree cannot be retrieved from the store,
serialized or written onto the io.Writer.
*/
func WriteJSONStoredTree(ctx context.Context, ns tree.NodeStore, rootID string, w io.Writer) error {
	root, err := getNode(ctx, ns, rootID)
	if err != nil {
		return err
	}
	err = marshalJSONTreeHeader(root, w)
	if err != nil {
		return err
	}
	ned := NewNodeEncodeDecoder()
	visited := make(map[string]bool)
	pending := []*tree.NodeRecord{root}
	for i := 0; len(pending) > 0; i++ {
		if err = ctx.Err(); err != nil {
			return err
		}
		n := pending[len(pending)-1]
		pending = pending[:len(pending)-1]
		if visited[n.ID] {
			return fmt.Errorf("%w: node %s reached twice", tree.ErrMalformedTree, n.ID)
		}
		visited[n.ID] = true
		err = writeNode(i, n, ned, w)
		if err != nil {
			return err
		}
		if n.Leaf {
			continue
		}
		for _, id := range []string{n.RightID, n.LeftID} {
			sn, err := getNode(ctx, ns, id)
			if err != nil {
				return err
			}
			pending = append(pending, sn)
		}
	}
	return marshalJSONTreeFooter(w)
}

/*
ReadJSONTree takes a context.Context and an io.Reader and returns the tree
serialized on it by WriteJSONTree.

An error is returned if the JSON cannot be read from the io.Reader or
unmarshalled, or if its nodes do not make a tree (see tree.Load).
*/
func ReadJSONTree(ctx context.Context, r io.Reader) (*tree.Tree, error) {
	ns := tree.NewMemoryNodeStore()
	defer ns.Close(ctx)
	rootID, err := ReadJSONStoredTree(ctx, r, ns)
	if err != nil {
		return nil, err
	}
	return tree.Load(ctx, ns, rootID)
}

/*
ReadJSONStoredTree takes a context.Context, an io.Reader and a
tree.NodeStore, stores on the node store every node of the tree
serialized on the io.Reader keeping their IDs, and returns the ID
of the root node.
*/
func ReadJSONStoredTree(ctx context.Context, r io.Reader, ns tree.NodeStore) (string, error) {
	dec := json.NewDecoder(r)
	jt := &struct {
		RootID       string            `json:"rootID"`
		FeatureCount int               `json:"featureCount"`
		Nodes        []json.RawMessage `json:"nodes"`
	}{}
	err := dec.Decode(jt)
	if err != nil {
		return "", fmt.Errorf("decoding json tree: %w", err)
	}
	if jt.RootID == "" {
		return "", fmt.Errorf("no root node id available")
	}
	ned := NewNodeEncodeDecoder()
	for _, jn := range jt.Nodes {
		n, err := ned.Decode(jn)
		if err != nil {
			return "", err
		}
		if n.ID == jt.RootID {
			n.FeatureCount = jt.FeatureCount
		}
		err = ns.Store(ctx, n)
		if err != nil {
			return "", fmt.Errorf("storing node %s: %w", n.ID, err)
		}
	}
	return jt.RootID, nil
}

func getNode(ctx context.Context, ns tree.NodeStore, id string) (*tree.NodeRecord, error) {
	n, err := ns.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("retrieving node %s: %w", id, err)
	}
	if n == nil {
		return nil, fmt.Errorf("%w: %s", tree.ErrNodeNotFound, id)
	}
	return n, nil
}

func marshalJSONTreeHeader(root *tree.NodeRecord, w io.Writer) error {
	jrootID, err := json.Marshal(root.ID)
	if err != nil {
		return err
	}
	header := fmt.Sprintf(`{"rootID":%s,"featureCount":%d,"nodes":[`, jrootID, root.FeatureCount)
	_, err = w.Write([]byte(header))
	return err
}

func writeNode(i int, n *tree.NodeRecord, ned NodeEncodeDecoder, w io.Writer) error {
	if i != 0 {
		_, err := w.Write([]byte(","))
		if err != nil {
			return err
		}
	}
	jn, err := ned.Encode(n)
	if err != nil {
		return err
	}
	_, err = w.Write(jn)
	return err
}

func marshalJSONTreeFooter(w io.Writer) error {
	_, err := w.Write([]byte(`]}`))
	return err
}
