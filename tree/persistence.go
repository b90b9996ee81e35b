package tree

import (
	"context"
	"fmt"
)

/*
Save takes a context, a tree and a NodeStore, creates a record on the store
for every node of the tree and returns the ID of the root node record.

Records are created top-down, so every record knows the ID of its parent,
and each decision record is stored again once the IDs of its subtrees are
known. An error is returned if the tree is nil or a record cannot be
created or stored; records created before the failure are left on the
store.
*/
func Save(ctx context.Context, t *Tree, ns NodeStore) (string, error) {
	if t == nil || t.Root == nil {
		return "", ErrNilTree
	}
	root := &NodeRecord{FeatureCount: t.FeatureCount}
	err := ns.Create(ctx, root)
	if err != nil {
		return "", fmt.Errorf("creating root node: %w", err)
	}
	err = save(ctx, t.Root, root, ns)
	if err != nil {
		return "", err
	}
	return root.ID, nil
}

func save(ctx context.Context, n Node, r *NodeRecord, ns NodeStore) error {
	switch n := n.(type) {
	case *Leaf:
		r.Leaf = true
		r.Label = n.Label
	case *Decision:
		r.FeatureIndex = n.FeatureIndex
		r.Threshold = n.Threshold
		for _, st := range []struct {
			node Node
			id   *string
		}{{n.Left, &r.LeftID}, {n.Right, &r.RightID}} {
			sr := &NodeRecord{ParentID: r.ID}
			err := ns.Create(ctx, sr)
			if err != nil {
				return fmt.Errorf("creating node under %s: %w", r.ID, err)
			}
			err = save(ctx, st.node, sr, ns)
			if err != nil {
				return err
			}
			*st.id = sr.ID
		}
	default:
		return fmt.Errorf("%w: unexpected node %T", ErrMalformedTree, n)
	}
	err := ns.Store(ctx, r)
	if err != nil {
		return fmt.Errorf("storing node %s: %w", r.ID, err)
	}
	return nil
}

/*
Load takes a context, a NodeStore and the ID of a root node record and
returns the tree formed by the records reachable from it.

ErrNodeNotFound is returned (wrapped) when a referenced record is missing
from the store, and ErrMalformedTree when the records do not form a binary
tree with feature indexes within the root's feature count.
*/
func Load(ctx context.Context, ns NodeStore, rootID string) (*Tree, error) {
	root, err := getRecord(ctx, ns, rootID)
	if err != nil {
		return nil, err
	}
	if root.FeatureCount < 0 {
		return nil, fmt.Errorf("%w: negative feature count %d", ErrMalformedTree, root.FeatureCount)
	}
	n, err := load(ctx, ns, root, root.FeatureCount, map[string]bool{})
	if err != nil {
		return nil, err
	}
	return New(n, root.FeatureCount), nil
}

func load(ctx context.Context, ns NodeStore, r *NodeRecord, featureCount int, visited map[string]bool) (Node, error) {
	if visited[r.ID] {
		return nil, fmt.Errorf("%w: node %s reached twice", ErrMalformedTree, r.ID)
	}
	visited[r.ID] = true
	if r.Leaf {
		return &Leaf{Label: r.Label}, nil
	}
	if r.FeatureIndex < 0 || r.FeatureIndex >= featureCount {
		return nil, fmt.Errorf("%w: node %s tests feature %d of %d", ErrMalformedTree, r.ID, r.FeatureIndex, featureCount)
	}
	if r.LeftID == "" || r.RightID == "" {
		return nil, fmt.Errorf("%w: decision node %s lacks a subtree", ErrMalformedTree, r.ID)
	}
	d := &Decision{FeatureIndex: r.FeatureIndex, Threshold: r.Threshold}
	for _, st := range []struct {
		id   string
		node *Node
	}{{r.LeftID, &d.Left}, {r.RightID, &d.Right}} {
		sr, err := getRecord(ctx, ns, st.id)
		if err != nil {
			return nil, err
		}
		*st.node, err = load(ctx, ns, sr, featureCount, visited)
		if err != nil {
			return nil, err
		}
	}
	return d, nil
}

func getRecord(ctx context.Context, ns NodeStore, id string) (*NodeRecord, error) {
	r, err := ns.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("retrieving node %s: %w", id, err)
	}
	if r == nil {
		return nil, fmt.Errorf("%w: %s", ErrNodeNotFound, id)
	}
	return r, nil
}
