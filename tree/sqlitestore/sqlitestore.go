/*
Package sqlitestore provides a tree.NodeStore backed by a SQLite3 database
file, so that grown trees can be kept next to the records they were grown
from.
*/
package sqlitestore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/pbanos/bonsai/tree"

	// load sqlite3 driver
	_ "github.com/mattn/go-sqlite3"
)

const createNodesTable = `CREATE TABLE IF NOT EXISTS nodes (
	id TEXT PRIMARY KEY,
	parent_id TEXT NOT NULL,
	leaf INTEGER NOT NULL,
	label TEXT NOT NULL,
	feature_index INTEGER NOT NULL,
	threshold REAL NOT NULL,
	left_id TEXT NOT NULL,
	right_id TEXT NOT NULL,
	feature_count INTEGER NOT NULL)`

const nodeColumns = `id, parent_id, leaf, label, feature_index, threshold, left_id, right_id, feature_count`

type sqliteStore struct {
	db *sql.DB
}

/*
Open takes a context.Context and the path to a SQLite3 database file and
returns a tree.NodeStore keeping node records on a nodes table of the
database, which is created if it does not exist.
*/
func Open(ctx context.Context, path string) (tree.NodeStore, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	_, err = db.ExecContext(ctx, createNodesTable)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("ensuring nodes table exists on %s: %w", path, err)
	}
	return &sqliteStore{db}, nil
}

func (ss *sqliteStore) Create(ctx context.Context, n *tree.NodeRecord) error {
	n.ID = uuid.NewString()
	_, err := ss.db.ExecContext(ctx, `INSERT INTO nodes (`+nodeColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`, values(n)...)
	if err != nil {
		return fmt.Errorf("creating node: %w", err)
	}
	return nil
}

func (ss *sqliteStore) Get(ctx context.Context, id string) (*tree.NodeRecord, error) {
	n := &tree.NodeRecord{}
	err := ss.db.QueryRowContext(ctx, `SELECT `+nodeColumns+` FROM nodes WHERE id = ?`, id).Scan(
		&n.ID, &n.ParentID, &n.Leaf, &n.Label, &n.FeatureIndex, &n.Threshold, &n.LeftID, &n.RightID, &n.FeatureCount)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("retrieving node %s: %w", id, err)
	}
	return n, nil
}

func (ss *sqliteStore) Store(ctx context.Context, n *tree.NodeRecord) error {
	_, err := ss.db.ExecContext(ctx, `INSERT OR REPLACE INTO nodes (`+nodeColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`, values(n)...)
	if err != nil {
		return fmt.Errorf("storing node %s: %w", n.ID, err)
	}
	return nil
}

func (ss *sqliteStore) Delete(ctx context.Context, n *tree.NodeRecord) error {
	_, err := ss.db.ExecContext(ctx, `DELETE FROM nodes WHERE id = ?`, n.ID)
	if err != nil {
		return fmt.Errorf("deleting node %s: %w", n.ID, err)
	}
	return nil
}

// Close always releases the database, and reports the context error if the
// context is already done.
func (ss *sqliteStore) Close(ctx context.Context) error {
	err := ss.db.Close()
	if cerr := ctx.Err(); cerr != nil {
		return cerr
	}
	return err
}

func values(n *tree.NodeRecord) []interface{} {
	return []interface{}{n.ID, n.ParentID, n.Leaf, n.Label, n.FeatureIndex, n.Threshold, n.LeftID, n.RightID, n.FeatureCount}
}
