/*
Package sqlite3adapter provides an implementation of sqldataset.Adapter
for SQLite3 database files.
*/
package sqlite3adapter

import (
	"database/sql"

	"github.com/pbanos/bonsai/dataset/sqldataset"

	// load sqlite3 driver
	_ "github.com/mattn/go-sqlite3"
)

var dialect = sqldataset.Dialect{
	Placeholder: func(int) string { return "?" },
	IDColumn:    "INTEGER PRIMARY KEY AUTOINCREMENT",
	Setup:       []string{"PRAGMA foreign_keys = ON"},
}

/*
New takes the path to a SQLite3 database file and returns an adapter
working on it or an error if it cannot be opened.
*/
func New(path string) (sqldataset.Adapter, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}
	// sqlite3 pragmas are per connection
	db.SetMaxOpenConns(1)
	return sqldataset.NewAdapter(db, dialect), nil
}
