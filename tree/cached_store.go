package tree

import (
	"context"
	"fmt"

	lru "github.com/hashicorp/golang-lru/v2"
)

type cachedNodeStore struct {
	NodeStore
	cache *lru.Cache[string, NodeRecord]
}

/*
NewCachedNodeStore takes a NodeStore and a size and returns a NodeStore
that keeps up to size of the most recently used records in memory,
retrieving them from the given store only when missing from the cache.
Writes and deletions go through to the given store.

An error is returned if the size is not positive.
*/
func NewCachedNodeStore(ns NodeStore, size int) (NodeStore, error) {
	cache, err := lru.New[string, NodeRecord](size)
	if err != nil {
		return nil, fmt.Errorf("creating node cache: %w", err)
	}
	return &cachedNodeStore{ns, cache}, nil
}

func (cns *cachedNodeStore) Create(ctx context.Context, n *NodeRecord) error {
	err := cns.NodeStore.Create(ctx, n)
	if err != nil {
		return err
	}
	cns.cache.Add(n.ID, *n)
	return nil
}

func (cns *cachedNodeStore) Get(ctx context.Context, id string) (*NodeRecord, error) {
	if r, ok := cns.cache.Get(id); ok {
		return &r, nil
	}
	n, err := cns.NodeStore.Get(ctx, id)
	if err != nil || n == nil {
		return n, err
	}
	cns.cache.Add(id, *n)
	return n, nil
}

func (cns *cachedNodeStore) Store(ctx context.Context, n *NodeRecord) error {
	err := cns.NodeStore.Store(ctx, n)
	if err != nil {
		cns.cache.Remove(n.ID)
		return err
	}
	cns.cache.Add(n.ID, *n)
	return nil
}

func (cns *cachedNodeStore) Delete(ctx context.Context, n *NodeRecord) error {
	cns.cache.Remove(n.ID)
	return cns.NodeStore.Delete(ctx, n)
}

func (cns *cachedNodeStore) Close(ctx context.Context) error {
	cns.cache.Purge()
	return cns.NodeStore.Close(ctx)
}
