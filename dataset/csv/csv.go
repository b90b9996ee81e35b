/*
Package csv reads and writes labeled records as CSV.
*/
package csv

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/pbanos/bonsai/dataset"
	"github.com/pbanos/bonsai/feature"
)

/*
Writer is an interface for a CSV stream to which records
can be written to.
*/
type Writer interface {
	// Write will attempt to write the given records
	// and will return the actually written number of
	// records and an error (if not all records could
	// be written)
	Write(context.Context, []dataset.Record) (int, error)
	// Count returns the total number of records written
	// to the writer
	Count() int
	// Flush ensures any pending written operations finish
	// before returning. It returns an error if that cannot
	// be ensured.
	Flush() error
}

type csvWriter struct {
	count    int
	features int
	w        *csv.Writer
}

// layout holds the CSV column of the label (-1 if not read) and of every
// feature in index order.
type layout struct {
	label    int
	features []int
}

/*
ReadRecords takes an io.Reader for a CSV stream and the metadata describing
its records and returns the records parsed from the reader or an error.

The header or first row of the CSV content is expected to contain the names
of the metadata features and label, in any order. Columns with other names
are ignored. The rest of the rows should consist of valid values for every
feature and the label; undefined values ('?' or empty) are not accepted.
*/
func ReadRecords(reader io.Reader, md *feature.Metadata) ([]dataset.Record, error) {
	var records []dataset.Record
	err := ReadRecordsBy(reader, md, func(_ int, r dataset.Record) (bool, error) {
		records = append(records, r)
		return true, nil
	})
	if err != nil {
		return nil, err
	}
	return records, nil
}

/*
ReadRecordsBy takes an io.Reader for a CSV stream, the metadata describing
its records and a lambda function on an integer and a dataset.Record that
returns a boolean value. It parses the records from the reader and for each
it calls the lambda function with the record and its index as parameters. If
the lambda function returns true, it will continue processing the next
record, otherwise it will stop. An error is returned if something goes wrong
when reading the stream or parsing a record.
*/
func ReadRecordsBy(reader io.Reader, md *feature.Metadata, lambda func(int, dataset.Record) (bool, error)) error {
	r := csv.NewReader(reader)
	header, err := r.Read()
	if err != nil {
		return fmt.Errorf("reading header: %w", err)
	}
	l, err := parseLayout(header, md, true)
	if err != nil {
		return err
	}
	for line := 2; ; line++ {
		row, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("reading body: %w", err)
		}
		record, err := parseRecord(row, l, md)
		if err != nil {
			return fmt.Errorf("parsing line %d: %w", line, err)
		}
		ok, err := lambda(line-2, record)
		if err != nil {
			return err
		}
		if !ok {
			break
		}
	}
	return nil
}

/*
ReadRecordsFromFilePath takes a filepath string and the metadata describing
its records, opens the file to which the filepath points to and uses
ReadRecords to return the records on it. If the filepath is "" os.Stdin
is read instead. It will return an error if the given filepath cannot be
opened for reading.
*/
func ReadRecordsFromFilePath(filepath string, md *feature.Metadata) ([]dataset.Record, error) {
	f := os.Stdin
	if filepath != "" {
		var err error
		f, err = os.Open(filepath)
		if err != nil {
			return nil, fmt.Errorf("reading records: %w", err)
		}
		defer f.Close()
	}
	records, err := ReadRecords(f, md)
	if err != nil {
		err = fmt.Errorf("parsing CSV file %s: %w", filepath, err)
	}
	return records, err
}

/*
ReadVectors takes an io.Reader for a CSV stream and the metadata describing
its columns and returns the feature vectors parsed from the reader, in
feature index order, or an error. It works like ReadRecords but the label
column is not required and ignored if present.
*/
func ReadVectors(reader io.Reader, md *feature.Metadata) ([][]float64, error) {
	r := csv.NewReader(reader)
	header, err := r.Read()
	if err != nil {
		return nil, fmt.Errorf("reading header: %w", err)
	}
	l, err := parseLayout(header, md, false)
	if err != nil {
		return nil, err
	}
	var vectors [][]float64
	for line := 2; ; line++ {
		row, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading body: %w", err)
		}
		x, err := parseVector(row, l, md)
		if err != nil {
			return nil, fmt.Errorf("parsing line %d: %w", line, err)
		}
		vectors = append(vectors, x)
	}
	return vectors, nil
}

/*
NewWriter takes an io.Writer and the metadata describing the records to
write and returns a Writer that will write any records on the io.Writer,
after a header with the names of the features in index order and the
label.
*/
func NewWriter(writer io.Writer, md *feature.Metadata) (Writer, error) {
	w := csv.NewWriter(writer)
	header := append(md.FeatureNames(), md.Label.Name())
	err := w.Write(header)
	if err != nil {
		return nil, fmt.Errorf("writing CSV header: %w", err)
	}
	return &csvWriter{features: len(md.Features), w: w}, nil
}

/*
WriteRecords takes a context.Context, an io.Writer, the metadata describing
the records and the records and dumps them to the writer in CSV format. It
returns an error if something went wrong when writing to the writer.
*/
func WriteRecords(ctx context.Context, writer io.Writer, md *feature.Metadata, records []dataset.Record) error {
	cw, err := NewWriter(writer, md)
	if err != nil {
		return err
	}
	_, err = cw.Write(ctx, records)
	if err != nil {
		return err
	}
	return cw.Flush()
}

func parseLayout(header []string, md *feature.Metadata, withLabel bool) (*layout, error) {
	columns := make(map[string]int)
	for i, name := range header {
		if _, ok := columns[name]; ok {
			return nil, fmt.Errorf("parsing header: column %s appears more than once", name)
		}
		columns[name] = i
	}
	l := &layout{label: -1, features: make([]int, len(md.Features))}
	if withLabel {
		var ok bool
		l.label, ok = columns[md.Label.Name()]
		if !ok {
			return nil, fmt.Errorf("parsing header: no column for label %s", md.Label.Name())
		}
	}
	for i, f := range md.Features {
		var ok bool
		l.features[i], ok = columns[f.Name()]
		if !ok {
			return nil, fmt.Errorf("parsing header: no column for feature %s", f.Name())
		}
	}
	return l, nil
}

func parseRecord(row []string, l *layout, md *feature.Metadata) (dataset.Record, error) {
	label := row[l.label]
	if label == "?" || label == "" {
		return dataset.Record{}, fmt.Errorf("undefined value for %s", md.Label.Name())
	}
	if err := md.Label.Check(label); err != nil {
		return dataset.Record{}, err
	}
	values, err := parseVector(row, l, md)
	if err != nil {
		return dataset.Record{}, err
	}
	return dataset.NewRecord(label, values...), nil
}

func parseVector(row []string, l *layout, md *feature.Metadata) ([]float64, error) {
	values := make([]float64, len(l.features))
	for i, c := range l.features {
		f := md.Features[i]
		v := row[c]
		if v == "?" || v == "" {
			return nil, fmt.Errorf("undefined value for %s", f.Name())
		}
		value, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return nil, fmt.Errorf("converting %s to float64: %w", v, err)
		}
		if err := f.Check(value); err != nil {
			return nil, err
		}
		values[i] = value
	}
	return values, nil
}

func (cw *csvWriter) Count() int {
	return cw.count
}

func (cw *csvWriter) Write(ctx context.Context, records []dataset.Record) (int, error) {
	for n, r := range records {
		if err := ctx.Err(); err != nil {
			return n, err
		}
		err := cw.writeRecord(r)
		if err != nil {
			return n, err
		}
	}
	return len(records), nil
}

func (cw *csvWriter) writeRecord(r dataset.Record) error {
	if len(r.Features) != cw.features {
		return &dataset.FeatureCountError{Record: cw.count, Got: len(r.Features), Want: cw.features}
	}
	row := make([]string, 0, cw.features+1)
	for _, v := range r.Features {
		row = append(row, strconv.FormatFloat(v, 'g', -1, 64))
	}
	row = append(row, r.Label)
	err := cw.w.Write(row)
	if err != nil {
		return fmt.Errorf("writing CSV row for record %d: %w", cw.count+1, err)
	}
	cw.count++
	return nil
}

func (cw *csvWriter) Flush() error {
	cw.w.Flush()
	return cw.w.Error()
}
