package tree

import (
	"context"
	"sync"

	"github.com/google/uuid"
)

/*
NodeRecord is the flattened form of a tree node that node stores
keep. Nodes reference each other through their IDs.

Leaf records only hold a Label, decision records hold a FeatureIndex,
a Threshold and the IDs of their left and right subtrees.
FeatureCount is only meaningful on the record of the root node.
*/
type NodeRecord struct {
	ID           string
	ParentID     string
	Leaf         bool
	Label        string
	FeatureIndex int
	Threshold    float64
	LeftID       string
	RightID      string
	FeatureCount int
}

/*
NodeStore is an interface to manage a store
where node records can be created, retrieved,
updated and deleted.

All it methods take a context that may allow
cancelling the operation (thus forcing the return
of an error) if the implementation allows it.
*/
type NodeStore interface {
	// Create takes a node record and stores it for
	// the first time in the store, creating an ID
	// for it and setting it for the record. It
	// returns an error if the record cannot be
	// stored.
	Create(ctx context.Context, n *NodeRecord) error
	// Get takes an id and returns the record in the
	// store with that id (or nil if it cannot be
	// found) or an error if the store cannot be
	// queried
	Get(ctx context.Context, id string) (*NodeRecord, error)
	// Store takes a record already existing in the
	// store and updates it on the store. It expects
	// the record to have an ID which it will not alter.
	// It returns an error if the update cannot be
	// performed.
	Store(ctx context.Context, n *NodeRecord) error
	// Delete takes a record already existing in the
	// store and deletes it on the store. It returns
	// an error if the record exists but the deletion
	// cannot be performed.
	Delete(ctx context.Context, n *NodeRecord) error
	// Close closes the store, implementations should
	// free any resources in use as well as ensure
	// any pending changes are applied before returning
	// (unless the context expires). It returns an error
	// if the Close cannot be completed (because of the
	// context or another error)
	Close(ctx context.Context) error
}

type memoryNodeStore struct {
	nodes map[string]NodeRecord
	lock  *sync.RWMutex
}

// NewMemoryNodeStore returns an implementation
// of NodeStore with the process memory space
// as underlying backend
func NewMemoryNodeStore() NodeStore {
	return &memoryNodeStore{
		nodes: make(map[string]NodeRecord),
		lock:  &sync.RWMutex{},
	}
}

func (mns *memoryNodeStore) Create(ctx context.Context, n *NodeRecord) error {
	return mns.withLock(ctx, func(ctx context.Context) error {
		taken := true
		for taken {
			if err := ctx.Err(); err != nil {
				return err
			}
			n.ID = uuid.NewString()
			_, taken = mns.nodes[n.ID]
		}
		mns.nodes[n.ID] = *n
		return nil
	})
}

func (mns *memoryNodeStore) Store(ctx context.Context, n *NodeRecord) error {
	return mns.withLock(ctx, func(ctx context.Context) error {
		mns.nodes[n.ID] = *n
		return nil
	})
}

func (mns *memoryNodeStore) Get(ctx context.Context, id string) (*NodeRecord, error) {
	var n *NodeRecord
	err := mns.withRLock(ctx, func(ctx context.Context) error {
		if r, ok := mns.nodes[id]; ok {
			n = &r
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return n, nil
}

func (mns *memoryNodeStore) Delete(ctx context.Context, n *NodeRecord) error {
	return mns.withLock(ctx, func(ctx context.Context) error {
		delete(mns.nodes, n.ID)
		return nil
	})
}

func (mns *memoryNodeStore) Close(ctx context.Context) error {
	return nil
}

func (mns *memoryNodeStore) withLock(ctx context.Context, f func(ctx context.Context) error) error {
	gotLock := make(chan struct{})
	go func() {
		mns.lock.Lock()
		select {
		case <-ctx.Done():
			mns.lock.Unlock()
		case gotLock <- struct{}{}:
		}
	}()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-gotLock:
		defer mns.lock.Unlock()
	}
	return f(ctx)
}

func (mns *memoryNodeStore) withRLock(ctx context.Context, f func(ctx context.Context) error) error {
	gotLock := make(chan struct{})
	go func() {
		mns.lock.RLock()
		select {
		case <-ctx.Done():
			mns.lock.RUnlock()
		case gotLock <- struct{}{}:
		}
	}()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-gotLock:
		defer mns.lock.RUnlock()
	}
	return f(ctx)
}
