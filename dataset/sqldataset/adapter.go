/*
Package sqldataset reads and writes labeled records from SQL databases.

Records are kept in 2 database tables:
  - discreteValues, holding every label value once
  - samples, with one REAL column per feature and a label column
    referencing a row of discreteValues

The SQL specific to a database engine is provided by an Adapter (see the
sqlite3adapter and pgadapter packages).
*/
package sqldataset

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
)

/*
MaxRowInsertionsPerStatement is the maximum number of rows that are
added with a single insert command. Adding more results in several
insertion commands.
*/
const MaxRowInsertionsPerStatement = 10

/*
Adapter is an interface providing the methods
needed to keep labeled records on a database backend.

Raw samples are maps from column names to values: the id of a discrete
value (int) for discrete columns, a float64 for continuous ones.
*/
type Adapter interface {
	ColumnName(string) (string, error)

	CreateDiscreteValuesTable(ctx context.Context) error
	CreateSampleTable(ctx context.Context, discreteFeatureColumns, continuousFeatureColumns []string) error

	AddDiscreteValues(ctx context.Context, values []string) (int, error)
	ListDiscreteValues(ctx context.Context) (map[int]string, error)

	AddSamples(ctx context.Context, rawSamples []map[string]interface{}, discreteFeatureColumns, continuousFeatureColumns []string) (int, error)
	IterateOnSamples(ctx context.Context, discreteFeatureColumns, continuousFeatureColumns []string, lambda func(int, map[string]interface{}) (bool, error)) error
	CountSamples(ctx context.Context) (int, error)

	Close() error
}

/*
Dialect holds what changes from one SQL database engine to another for
an Adapter.
*/
type Dialect struct {
	// Placeholder returns the bind parameter for the i-th (starting at 1)
	// value of a statement.
	Placeholder func(i int) string
	// IDColumn is the definition of an autoincremented primary key
	// column.
	IDColumn string
	// Setup holds statements to run before creating tables.
	Setup []string
}

type adapter struct {
	db *sql.DB
	Dialect
}

/*
NewAdapter takes a database handle and a Dialect and returns an Adapter
working on the database.
*/
func NewAdapter(db *sql.DB, d Dialect) Adapter {
	return &adapter{db, d}
}

func (a *adapter) ColumnName(featureName string) (string, error) {
	if featureName == "id" {
		return "", fmt.Errorf(`'%s' is reserved and cannot be used as feature name`, featureName)
	}
	if strings.ContainsAny(featureName, `"`) {
		return "", fmt.Errorf(`feature name '%s' contains invalid character '"'`, featureName)
	}
	return featureName, nil
}

func (a *adapter) CreateDiscreteValuesTable(ctx context.Context) error {
	for _, stmt := range a.Setup {
		_, err := a.db.ExecContext(ctx, stmt)
		if err != nil {
			return fmt.Errorf("running %q: %w", stmt, err)
		}
	}
	stmt := fmt.Sprintf(`CREATE TABLE IF NOT EXISTS discreteValues (
		"id" %s,
		value TEXT UNIQUE NOT NULL)`, a.IDColumn)
	_, err := a.db.ExecContext(ctx, stmt)
	if err != nil {
		return fmt.Errorf("running discreteValues creation statement: %w", err)
	}
	return nil
}

func (a *adapter) CreateSampleTable(ctx context.Context, discreteFeatureColumns, continuousFeatureColumns []string) error {
	var stmt strings.Builder
	stmt.WriteString("CREATE TABLE IF NOT EXISTS samples(")
	for _, c := range discreteFeatureColumns {
		fmt.Fprintf(&stmt, `"%s" INTEGER NULL REFERENCES discreteValues(id), `, c)
	}
	for _, c := range continuousFeatureColumns {
		fmt.Fprintf(&stmt, `"%s" DOUBLE PRECISION NULL, `, c)
	}
	fmt.Fprintf(&stmt, `"id" %s)`, a.IDColumn)
	_, err := a.db.ExecContext(ctx, stmt.String())
	if err != nil {
		return fmt.Errorf("ensuring samples table exists: %w", err)
	}
	return nil
}

func (a *adapter) AddDiscreteValues(ctx context.Context, values []string) (int, error) {
	rows := make([][]interface{}, len(values))
	for i, v := range values {
		rows[i] = []interface{}{v}
	}
	return a.insert(ctx, "discreteValues", []string{"value"}, rows)
}

func (a *adapter) ListDiscreteValues(ctx context.Context) (map[int]string, error) {
	rows, err := a.db.QueryContext(ctx, `SELECT id, value FROM discreteValues`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	result := make(map[int]string)
	for rows.Next() {
		var id int
		var value string
		err = rows.Scan(&id, &value)
		if err != nil {
			return nil, err
		}
		result[id] = value
	}
	return result, rows.Err()
}

func (a *adapter) AddSamples(ctx context.Context, rawSamples []map[string]interface{}, discreteFeatureColumns, continuousFeatureColumns []string) (int, error) {
	columns := append(append([]string{}, discreteFeatureColumns...), continuousFeatureColumns...)
	if len(columns) == 0 {
		return 0, fmt.Errorf("no features to store")
	}
	rows := make([][]interface{}, len(rawSamples))
	for i, rs := range rawSamples {
		rows[i] = make([]interface{}, len(columns))
		for j, c := range columns {
			rows[i][j] = rs[c]
		}
	}
	return a.insert(ctx, "samples", columns, rows)
}

// insert adds the given rows to the table in chunks of up to
// MaxRowInsertionsPerStatement rows, returning how many were added.
func (a *adapter) insert(ctx context.Context, table string, columns []string, rows [][]interface{}) (int, error) {
	for start := 0; start < len(rows); start += MaxRowInsertionsPerStatement {
		end := start + MaxRowInsertionsPerStatement
		if end > len(rows) {
			end = len(rows)
		}
		var stmt strings.Builder
		fmt.Fprintf(&stmt, `INSERT INTO %s ("%s") VALUES `, table, strings.Join(columns, `", "`))
		values := make([]interface{}, 0, (end-start)*len(columns))
		for i, row := range rows[start:end] {
			if i > 0 {
				stmt.WriteString(", ")
			}
			stmt.WriteString("(")
			for j, v := range row {
				if j > 0 {
					stmt.WriteString(", ")
				}
				values = append(values, v)
				stmt.WriteString(a.Placeholder(len(values)))
			}
			stmt.WriteString(")")
		}
		_, err := a.db.ExecContext(ctx, stmt.String(), values...)
		if err != nil {
			return start, fmt.Errorf("inserting rows %d to %d into %s: %w", start, end, table, err)
		}
	}
	return len(rows), nil
}

func (a *adapter) IterateOnSamples(ctx context.Context, discreteFeatureColumns, continuousFeatureColumns []string, lambda func(int, map[string]interface{}) (bool, error)) error {
	columns := append(append([]string{}, discreteFeatureColumns...), continuousFeatureColumns...)
	query := fmt.Sprintf(`SELECT "%s" FROM samples ORDER BY "id"`, strings.Join(columns, `", "`))
	rows, err := a.db.QueryContext(ctx, query)
	if err != nil {
		return err
	}
	defer rows.Close()
	for j := 0; rows.Next(); j++ {
		discreteValues := make([]sql.NullInt64, len(discreteFeatureColumns))
		continuousValues := make([]sql.NullFloat64, len(continuousFeatureColumns))
		values := make([]interface{}, 0, len(columns))
		for i := range discreteValues {
			values = append(values, &discreteValues[i])
		}
		for i := range continuousValues {
			values = append(values, &continuousValues[i])
		}
		err = rows.Scan(values...)
		if err != nil {
			return err
		}
		rawSample := make(map[string]interface{})
		for i, c := range discreteFeatureColumns {
			if discreteValues[i].Valid {
				rawSample[c] = int(discreteValues[i].Int64)
			}
		}
		for i, c := range continuousFeatureColumns {
			if continuousValues[i].Valid {
				rawSample[c] = continuousValues[i].Float64
			}
		}
		ok, err := lambda(j, rawSample)
		if err != nil {
			return err
		}
		if !ok {
			break
		}
	}
	return rows.Err()
}

func (a *adapter) CountSamples(ctx context.Context) (int, error) {
	var count int
	err := a.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM samples`).Scan(&count)
	if err != nil {
		return 0, err
	}
	return count, nil
}

func (a *adapter) Close() error {
	return a.db.Close()
}
