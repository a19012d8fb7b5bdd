// Package catalog persists the system graph configuration consulted when a
// query names no graphs of its own: the system default graphs and the
// registered named graphs.
package catalog

import (
	"encoding/binary"
	"strings"

	"github.com/dgraph-io/badger/v4"

	sparqlerr "github.com/wbrown/janus-sparql/sparql/errors"
)

var (
	defaultPrefix = []byte("graph/default/")
	namedPrefix   = []byte("graph/named/")
)

// Catalog is a BadgerDB-backed graph catalog. It is safe for concurrent use.
type Catalog struct {
	db *badger.DB
}

// Open opens the catalog stored at path. An empty path opens an in-memory
// catalog that is discarded on Close.
func Open(path string) (*Catalog, error) {
	opts := badger.DefaultOptions(path)
	if path == "" {
		opts = opts.WithInMemory(true)
	}
	opts.Logger = nil

	db, err := badger.Open(opts)
	if err != nil {
		return nil, sparqlerr.Wrap(err, sparqlerr.CodeCatalogFailure, "failed to open catalog",
			sparqlerr.Field("path", path))
	}
	return &Catalog{db: db}, nil
}

// Close releases the underlying store
func (c *Catalog) Close() error {
	return c.db.Close()
}

// SetDefaultGraphs replaces the system default graphs. Order is kept.
func (c *Catalog) SetDefaultGraphs(iris ...string) error {
	err := c.db.Update(func(txn *badger.Txn) error {
		keys, err := scanKeys(txn, defaultPrefix)
		if err != nil {
			return err
		}
		for _, key := range keys {
			if err := txn.Delete(key); err != nil {
				return err
			}
		}
		for i, iri := range iris {
			if err := txn.Set(defaultKey(i), []byte(iri)); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return sparqlerr.Wrap(err, sparqlerr.CodeCatalogFailure, "failed to set default graphs")
	}
	return nil
}

// DefaultGraphs returns the system default graphs, or nil when none are set
func (c *Catalog) DefaultGraphs() ([]string, error) {
	var iris []string
	err := c.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = defaultPrefix
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			value, err := it.Item().ValueCopy(nil)
			if err != nil {
				return err
			}
			iris = append(iris, string(value))
		}
		return nil
	})
	if err != nil {
		return nil, sparqlerr.Wrap(err, sparqlerr.CodeCatalogFailure, "failed to read default graphs")
	}
	return iris, nil
}

// AddNamedGraph registers iri as a named graph. Adding a graph twice is a
// no-op.
func (c *Catalog) AddNamedGraph(iri string) error {
	err := c.db.Update(func(txn *badger.Txn) error {
		return txn.Set(namedKey(iri), nil)
	})
	if err != nil {
		return sparqlerr.Wrap(err, sparqlerr.CodeCatalogFailure, "failed to add named graph",
			sparqlerr.Field("graph", iri))
	}
	return nil
}

// RemoveNamedGraph unregisters iri. Removing an unknown graph is a no-op.
func (c *Catalog) RemoveNamedGraph(iri string) error {
	err := c.db.Update(func(txn *badger.Txn) error {
		err := txn.Delete(namedKey(iri))
		if err == badger.ErrKeyNotFound {
			return nil
		}
		return err
	})
	if err != nil {
		return sparqlerr.Wrap(err, sparqlerr.CodeCatalogFailure, "failed to remove named graph",
			sparqlerr.Field("graph", iri))
	}
	return nil
}

// NamedGraphs returns the registered named graphs in IRI order
func (c *Catalog) NamedGraphs() ([]string, error) {
	var iris []string
	err := c.db.View(func(txn *badger.Txn) error {
		keys, err := scanKeys(txn, namedPrefix)
		if err != nil {
			return err
		}
		for _, key := range keys {
			iris = append(iris, strings.TrimPrefix(string(key), string(namedPrefix)))
		}
		return nil
	})
	if err != nil {
		return nil, sparqlerr.Wrap(err, sparqlerr.CodeCatalogFailure, "failed to read named graphs")
	}
	return iris, nil
}

// scanKeys returns copies of every key under prefix
func scanKeys(txn *badger.Txn, prefix []byte) ([][]byte, error) {
	opts := badger.DefaultIteratorOptions
	opts.Prefix = prefix
	opts.PrefetchValues = false
	it := txn.NewIterator(opts)
	defer it.Close()

	var keys [][]byte
	for it.Rewind(); it.Valid(); it.Next() {
		keys = append(keys, it.Item().KeyCopy(nil))
	}
	return keys, nil
}

// defaultKey orders default graphs by position
func defaultKey(i int) []byte {
	key := make([]byte, len(defaultPrefix)+4)
	copy(key, defaultPrefix)
	binary.BigEndian.PutUint32(key[len(defaultPrefix):], uint32(i))
	return key
}

func namedKey(iri string) []byte {
	return append(append([]byte{}, namedPrefix...), iri...)
}
