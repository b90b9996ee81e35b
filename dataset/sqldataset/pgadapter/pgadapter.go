/*
Package pgadapter provides an implementation of sqldataset.Adapter
for PostgreSQL databases.
*/
package pgadapter

import (
	"database/sql"
	"fmt"

	"github.com/pbanos/bonsai/dataset/sqldataset"

	// load postgresql driver
	_ "github.com/lib/pq"
)

var dialect = sqldataset.Dialect{
	Placeholder: func(i int) string { return fmt.Sprintf("$%d", i) },
	IDColumn:    "SERIAL PRIMARY KEY",
}

/*
New takes a PostgreSQL connection URL and returns an adapter working on
the database or an error if it cannot be opened.
*/
func New(url string) (sqldataset.Adapter, error) {
	db, err := sql.Open("postgres", url)
	if err != nil {
		return nil, err
	}
	return sqldataset.NewAdapter(db, dialect), nil
}
