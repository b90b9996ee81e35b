package sqldataset

import (
	"context"
	"fmt"

	"github.com/pbanos/bonsai/dataset"
	"github.com/pbanos/bonsai/feature"
)

type columnNames struct {
	label    string
	features []string
}

func columnsFor(a Adapter, md *feature.Metadata) (*columnNames, error) {
	label, err := a.ColumnName(md.Label.Name())
	if err != nil {
		return nil, err
	}
	result := &columnNames{label: label, features: make([]string, len(md.Features))}
	for i, f := range md.Features {
		result.features[i], err = a.ColumnName(f.Name())
		if err != nil {
			return nil, err
		}
	}
	return result, nil
}

/*
ReadRecords takes a context.Context, an Adapter and the metadata describing
the records and returns the records stored on the database in insertion
order.

An error is returned if the records cannot be retrieved, if any of them
lacks a value or has a label the metadata does not accept.
*/
func ReadRecords(ctx context.Context, a Adapter, md *feature.Metadata) ([]dataset.Record, error) {
	cols, err := columnsFor(a, md)
	if err != nil {
		return nil, err
	}
	labels, err := a.ListDiscreteValues(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing label values: %w", err)
	}
	var records []dataset.Record
	err = a.IterateOnSamples(ctx, []string{cols.label}, cols.features, func(i int, rs map[string]interface{}) (bool, error) {
		id, ok := rs[cols.label].(int)
		if !ok {
			return false, fmt.Errorf("sample %d has no %s", i, md.Label.Name())
		}
		label, ok := labels[id]
		if !ok {
			return false, fmt.Errorf("sample %d has unknown %s id %d", i, md.Label.Name(), id)
		}
		if err := md.Label.Check(label); err != nil {
			return false, fmt.Errorf("sample %d: %w", i, err)
		}
		values := make([]float64, len(cols.features))
		for j, c := range cols.features {
			v, ok := rs[c].(float64)
			if !ok {
				return false, fmt.Errorf("sample %d has no value for %s", i, md.Features[j].Name())
			}
			values[j] = v
		}
		records = append(records, dataset.NewRecord(label, values...))
		return true, nil
	})
	if err != nil {
		return nil, fmt.Errorf("reading samples: %w", err)
	}
	return records, nil
}

/*
WriteRecords takes a context.Context, an Adapter, the metadata describing
the records and the records, and adds them to the database, creating its
tables if needed. It returns the number of records added and an error if
not all of them could be.
*/
func WriteRecords(ctx context.Context, a Adapter, md *feature.Metadata, records []dataset.Record) (int, error) {
	cols, err := columnsFor(a, md)
	if err != nil {
		return 0, err
	}
	err = a.CreateDiscreteValuesTable(ctx)
	if err != nil {
		return 0, err
	}
	err = a.CreateSampleTable(ctx, []string{cols.label}, cols.features)
	if err != nil {
		return 0, err
	}
	ids, err := labelIDs(ctx, a, md, records)
	if err != nil {
		return 0, err
	}
	rawSamples := make([]map[string]interface{}, len(records))
	for i, r := range records {
		if len(r.Features) != len(cols.features) {
			return 0, &dataset.FeatureCountError{Record: i, Got: len(r.Features), Want: len(cols.features)}
		}
		rs := map[string]interface{}{cols.label: ids[r.Label]}
		for j, c := range cols.features {
			rs[c] = r.Features[j]
		}
		rawSamples[i] = rs
	}
	return a.AddSamples(ctx, rawSamples, []string{cols.label}, cols.features)
}

// labelIDs makes sure every label of the records is on the discrete values
// table and returns a map from label to its id.
func labelIDs(ctx context.Context, a Adapter, md *feature.Metadata, records []dataset.Record) (map[string]int, error) {
	stored, err := a.ListDiscreteValues(ctx)
	if err != nil {
		return nil, err
	}
	ids := make(map[string]int)
	for id, v := range stored {
		ids[v] = id
	}
	var missing []string
	for i, r := range records {
		if err := md.Label.Check(r.Label); err != nil {
			return nil, fmt.Errorf("record %d: %w", i, err)
		}
		if _, ok := ids[r.Label]; !ok {
			ids[r.Label] = -1
			missing = append(missing, r.Label)
		}
	}
	if len(missing) == 0 {
		return ids, nil
	}
	_, err = a.AddDiscreteValues(ctx, missing)
	if err != nil {
		return nil, fmt.Errorf("adding label values: %w", err)
	}
	stored, err = a.ListDiscreteValues(ctx)
	if err != nil {
		return nil, err
	}
	for id, v := range stored {
		ids[v] = id
	}
	return ids, nil
}

/*
CountRecords returns the number of records stored on the database.
*/
func CountRecords(ctx context.Context, a Adapter) (int, error) {
	return a.CountSamples(ctx)
}
