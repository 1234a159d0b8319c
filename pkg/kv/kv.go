// Package kv provides the key-value store backing chalktalk's question and
// answer records. Keys are hierarchical path segments (e.g. ["q", "17283"])
// encoded with a ':' separator.
//
// Two implementations are provided: Memory for the default in-process store
// and Badger for servers that keep records across restarts.
package kv

import (
	"context"
	"errors"
	"iter"
	"strings"
)

// ErrNotFound is returned when a key does not exist in the store.
var ErrNotFound = errors.New("kv: not found")

// Key is a hierarchical path represented as string segments.
// Segments must not contain the separator character.
type Key []string

// String returns the key in its encoded form, for display and debugging.
func (k Key) String() string {
	return strings.Join(k, string(separator))
}

// Entry is a key-value pair yielded by List.
type Entry struct {
	Key   Key
	Value []byte
}

// Store is the record storage interface.
type Store interface {
	// Get retrieves the value for a key. Returns ErrNotFound if not present.
	Get(ctx context.Context, key Key) ([]byte, error)

	// Set stores a key-value pair, overwriting any existing value.
	Set(ctx context.Context, key Key, value []byte) error

	// List iterates over all entries whose key starts with the given prefix,
	// in lexicographic order of the encoded key.
	List(ctx context.Context, prefix Key) iter.Seq2[Entry, error]

	// Close releases resources held by the store.
	Close() error
}

const separator = ":"

// encode converts a Key to its stored byte representation.
func encode(k Key) []byte {
	return []byte(strings.Join(k, separator))
}

// decode converts a stored byte representation back to a Key.
func decode(b []byte) Key {
	return Key(strings.Split(string(b), separator))
}

// listPrefix returns the encoded prefix for scanning, with a trailing
// separator so that ["a","b"] does not match "a:bc". An empty prefix scans
// everything.
func listPrefix(prefix Key) []byte {
	p := encode(prefix)
	if len(p) == 0 {
		return nil
	}
	return append(p, separator...)
}
