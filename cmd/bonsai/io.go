package main

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"os"
	"strconv"
	"strings"

	"github.com/pbanos/bonsai/dataset"
	"github.com/pbanos/bonsai/dataset/csv"
	"github.com/pbanos/bonsai/dataset/mongodataset"
	"github.com/pbanos/bonsai/dataset/sqldataset"
	"github.com/pbanos/bonsai/dataset/sqldataset/pgadapter"
	"github.com/pbanos/bonsai/dataset/sqldataset/sqlite3adapter"
	"github.com/pbanos/bonsai/feature"
	featurejson "github.com/pbanos/bonsai/feature/json"
	"github.com/pbanos/bonsai/feature/yaml"
	"github.com/pbanos/bonsai/tree"
	"github.com/pbanos/bonsai/tree/json"
	"github.com/pbanos/bonsai/tree/redisstore"
	"github.com/pbanos/bonsai/tree/sqlitestore"
	"go.uber.org/zap"
	mgo "gopkg.in/mgo.v2"
	"gopkg.in/redis.v5"
)

const (
	redisKeyPrefix = "bonsai"
	nodeCacheSize  = 1024
)

// readMetadata reads a JSON metadata document for .json files and a YML
// one otherwise.
func readMetadata(path string) (*feature.Metadata, error) {
	if strings.HasSuffix(path, ".json") {
		return featurejson.ReadMetadataFromFile(path)
	}
	return yaml.ReadMetadataFromFile(path)
}

func isPostgreSQL(location string) bool {
	return strings.HasPrefix(location, "postgresql://") || strings.HasPrefix(location, "postgres://")
}

func isMongoDB(location string) bool {
	return strings.HasPrefix(location, "mongodb://")
}

func isRedis(location string) bool {
	return strings.HasPrefix(location, "redis://")
}

func isSQLite3(location string) bool {
	return strings.HasSuffix(location, ".db")
}

// sqlAdapter returns the sqldataset.Adapter for a location, or nil if the
// location is not a SQL database.
func sqlAdapter(location string) (sqldataset.Adapter, error) {
	switch {
	case isPostgreSQL(location):
		return pgadapter.New(location)
	case isSQLite3(location):
		return sqlite3adapter.New(location)
	}
	return nil, nil
}

func readRecords(ctx context.Context, logger *zap.Logger, location string, md *feature.Metadata, stdin io.Reader) ([]dataset.Record, error) {
	if location == "" {
		logger.Debug("reading records", zap.String("from", "STDIN"))
		return csv.ReadRecords(stdin, md)
	}
	logger.Debug("reading records", zap.String("from", location))
	if isMongoDB(location) {
		session, err := mgo.Dial(location)
		if err != nil {
			return nil, fmt.Errorf("connecting to %s: %w", location, err)
		}
		defer session.Close()
		ms, err := mongodataset.Open(ctx, session, md)
		if err != nil {
			return nil, err
		}
		return ms.Records(ctx)
	}
	a, err := sqlAdapter(location)
	if err != nil {
		return nil, err
	}
	if a != nil {
		defer a.Close()
		return sqldataset.ReadRecords(ctx, a, md)
	}
	return csv.ReadRecordsFromFilePath(location, md)
}

func writeRecords(ctx context.Context, logger *zap.Logger, location string, md *feature.Metadata, records []dataset.Record, stdout io.Writer) error {
	if location == "" {
		logger.Debug("writing records", zap.String("to", "STDOUT"), zap.Int("count", len(records)))
		return csv.WriteRecords(ctx, stdout, md, records)
	}
	logger.Debug("writing records", zap.String("to", location), zap.Int("count", len(records)))
	if isMongoDB(location) {
		session, err := mgo.Dial(location)
		if err != nil {
			return fmt.Errorf("connecting to %s: %w", location, err)
		}
		defer session.Close()
		ms, err := mongodataset.Open(ctx, session, md)
		if err != nil {
			return err
		}
		_, err = ms.Write(ctx, records)
		return err
	}
	a, err := sqlAdapter(location)
	if err != nil {
		return err
	}
	if a != nil {
		defer a.Close()
		_, err = sqldataset.WriteRecords(ctx, a, md, records)
		return err
	}
	f, err := os.Create(location)
	if err != nil {
		return err
	}
	err = csv.WriteRecords(ctx, f, md, records)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	return err
}

// readVectors reads feature vectors to predict labels for. Only CSV input
// may lack the label column.
func readVectors(ctx context.Context, logger *zap.Logger, location string, md *feature.Metadata, stdin io.Reader) ([][]float64, error) {
	if location == "" || !(isMongoDB(location) || isPostgreSQL(location) || isSQLite3(location)) {
		r := stdin
		if location != "" {
			f, err := os.Open(location)
			if err != nil {
				return nil, err
			}
			defer f.Close()
			r = f
		}
		logger.Debug("reading feature vectors", zap.String("from", location))
		return csv.ReadVectors(r, md)
	}
	records, err := readRecords(ctx, logger, location, md, stdin)
	if err != nil {
		return nil, err
	}
	vectors := make([][]float64, len(records))
	for i, r := range records {
		vectors[i] = r.Features
	}
	return vectors, nil
}

// nodeStore opens the node store at a SQLite3 file or Redis URL location.
func nodeStore(ctx context.Context, location string) (tree.NodeStore, error) {
	if isSQLite3(location) {
		return sqlitestore.Open(ctx, location)
	}
	u, err := url.Parse(location)
	if err != nil {
		return nil, err
	}
	opts := &redis.Options{Addr: u.Host}
	if u.User != nil {
		opts.Password, _ = u.User.Password()
	}
	if db := strings.Trim(u.Path, "/"); db != "" {
		opts.DB, err = strconv.Atoi(db)
		if err != nil {
			return nil, fmt.Errorf("invalid redis database %q: %w", db, err)
		}
	}
	rc := redis.NewClient(opts)
	ns, err := tree.NewCachedNodeStore(redisstore.New(rc, redisKeyPrefix, json.NewNodeEncodeDecoder()), nodeCacheSize)
	if err != nil {
		rc.Close()
		return nil, err
	}
	return &clientClosingNodeStore{ns, rc}, nil
}

// clientClosingNodeStore closes the redis client along with the store.
type clientClosingNodeStore struct {
	tree.NodeStore
	rc *redis.Client
}

func (ccns *clientClosingNodeStore) Close(ctx context.Context) error {
	err := ccns.NodeStore.Close(ctx)
	if cerr := ccns.rc.Close(); err == nil {
		err = cerr
	}
	return err
}

func loadTree(ctx context.Context, logger *zap.Logger, location, rootID string) (*tree.Tree, error) {
	if location == "" {
		return nil, fmt.Errorf("required tree flag was not set")
	}
	logger.Debug("loading tree", zap.String("from", location), zap.String("rootID", rootID))
	if isSQLite3(location) || isRedis(location) {
		if rootID == "" {
			return nil, fmt.Errorf("required root-id flag was not set to load tree from %s", location)
		}
		ns, err := nodeStore(ctx, location)
		if err != nil {
			return nil, err
		}
		defer ns.Close(ctx)
		return tree.Load(ctx, ns, rootID)
	}
	f, err := os.Open(location)
	if err != nil {
		return nil, fmt.Errorf("reading tree in JSON from %s: %w", location, err)
	}
	defer f.Close()
	t, err := json.ReadJSONTree(ctx, f)
	if err != nil {
		err = fmt.Errorf("parsing tree in JSON from %s: %w", location, err)
	}
	return t, err
}

// storeTree writes the tree to the location, returning the ID of its root
// node when the location is a node store.
func storeTree(ctx context.Context, logger *zap.Logger, location string, t *tree.Tree, stdout io.Writer) (string, error) {
	if location == "" {
		logger.Debug("writing tree", zap.String("to", "STDOUT"))
		return "", json.WriteJSONTree(ctx, t, stdout)
	}
	logger.Debug("writing tree", zap.String("to", location))
	if isSQLite3(location) || isRedis(location) {
		ns, err := nodeStore(ctx, location)
		if err != nil {
			return "", err
		}
		rootID, err := tree.Save(ctx, t, ns)
		if cerr := ns.Close(ctx); err == nil {
			err = cerr
		}
		return rootID, err
	}
	f, err := os.Create(location)
	if err != nil {
		return "", err
	}
	err = json.WriteJSONTree(ctx, t, f)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	return "", err
}
