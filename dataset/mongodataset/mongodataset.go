/*
Package mongodataset keeps labeled records on a MongoDB collection, one
document per record with a field per feature and a field for the label.
*/
package mongodataset

import (
	"context"
	"fmt"
	"strings"

	"github.com/pbanos/bonsai/dataset"
	"github.com/pbanos/bonsai/feature"
	mgo "gopkg.in/mgo.v2"
	"gopkg.in/mgo.v2/bson"
)

/*
Store is a MongoDB collection of records to which records can be added
and from which they can be sequentially read.
*/
type Store interface {
	Write(context.Context, []dataset.Record) (int, error)
	Read(context.Context) (<-chan dataset.Record, <-chan error)
	Records(context.Context) ([]dataset.Record, error)
	Count(context.Context) (int, error)
}

type mongoStore struct {
	session *mgo.Session
	md      *feature.Metadata
}

const (
	samplesCollectionName = "samples"
)

/*
Open takes a MongoDB database session and the metadata describing the
records and returns a Store that works on the samples collection of the
default database for that session or an error if it fails to index it.
*/
func Open(ctx context.Context, session *mgo.Session, md *feature.Metadata) (Store, error) {
	ms := &mongoStore{session, md}
	err := ms.ensureIndexes(ctx)
	if err != nil {
		return nil, err
	}
	return ms, nil
}

func (ms *mongoStore) Count(ctx context.Context) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	return ms.samplesCollection().Count()
}

func (ms *mongoStore) Records(ctx context.Context) ([]dataset.Record, error) {
	var records []dataset.Record
	recordChan, errs := ms.Read(ctx)
	for r := range recordChan {
		records = append(records, r)
	}
	err := <-errs
	if err != nil {
		return nil, err
	}
	return records, nil
}

func (ms *mongoStore) Write(ctx context.Context, records []dataset.Record) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	docs := make([]interface{}, 0, len(records))
	for i, r := range records {
		if len(r.Features) != len(ms.md.Features) {
			return 0, &dataset.FeatureCountError{Record: i, Got: len(r.Features), Want: len(ms.md.Features)}
		}
		if err := ms.md.Label.Check(r.Label); err != nil {
			return 0, fmt.Errorf("record %d: %w", i, err)
		}
		doc := bson.M{ms.md.Label.Name(): r.Label}
		for j, f := range ms.md.Features {
			doc[f.Name()] = r.Features[j]
		}
		docs = append(docs, doc)
	}
	if len(docs) == 0 {
		return 0, nil
	}
	err := ms.samplesCollection().Insert(docs...)
	if err != nil {
		return 0, err
	}
	return len(records), nil
}

func (ms *mongoStore) Read(ctx context.Context) (<-chan dataset.Record, <-chan error) {
	records := make(chan dataset.Record)
	errs := make(chan error, 1)
	go func() {
		defer close(errs)
		defer close(records)
		var doc bson.M
		iter := ms.samplesCollection().Find(nil).Sort("_id").Iter()
		defer iter.Close()
		for i := 0; iter.Next(&doc); i++ {
			r, err := ms.parseDocument(doc)
			if err != nil {
				errs <- fmt.Errorf("parsing document %d: %w", i, err)
				return
			}
			select {
			case <-ctx.Done():
				errs <- ctx.Err()
				return
			case records <- r:
			}
			doc = nil
		}
		if err := iter.Err(); err != nil {
			errs <- err
		}
	}()
	return records, errs
}

func (ms *mongoStore) parseDocument(doc bson.M) (dataset.Record, error) {
	label, ok := doc[ms.md.Label.Name()].(string)
	if !ok {
		return dataset.Record{}, fmt.Errorf("no string value for %s", ms.md.Label.Name())
	}
	if err := ms.md.Label.Check(label); err != nil {
		return dataset.Record{}, err
	}
	values := make([]float64, len(ms.md.Features))
	for i, f := range ms.md.Features {
		switch v := doc[f.Name()].(type) {
		case float64:
			values[i] = v
		case int:
			values[i] = float64(v)
		case int64:
			values[i] = float64(v)
		default:
			return dataset.Record{}, fmt.Errorf("no numeric value for %s, got %T", f.Name(), v)
		}
		if err := f.Check(values[i]); err != nil {
			return dataset.Record{}, err
		}
	}
	return dataset.NewRecord(label, values...), nil
}

func (ms *mongoStore) ensureIndexes(ctx context.Context) error {
	names := append(ms.md.FeatureNames(), ms.md.Label.Name())
	for _, name := range names {
		if err := ctx.Err(); err != nil {
			return err
		}
		if name == "_id" {
			return fmt.Errorf("invalid feature name %q: reserved collection field", "_id")
		}
		if strings.ContainsAny(name, ".$") {
			return fmt.Errorf("invalid feature name %q: contains reserved characters %q or %q", name, ".", "$")
		}
	}
	return ms.samplesCollection().EnsureIndex(mgo.Index{
		Key:        []string{ms.md.Label.Name()},
		Background: true,
	})
}

func (ms *mongoStore) samplesCollection() *mgo.Collection {
	return ms.session.DB("").C(samplesCollectionName)
}
