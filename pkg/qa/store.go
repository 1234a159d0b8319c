package qa

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/chalktalk/chalktalk/pkg/kv"
)

var ErrNotFound = errors.New("qa: record not found")

// Key layout:
//
//	q:{ts_ns}:{id} → msgpack-encoded Question
//	a:{id}         → msgpack-encoded Answer
//
// The nanosecond timestamp segment makes lexicographic key order match
// submission order, so listing the "q" prefix replays history
// chronologically. The trailing id disambiguates same-instant inserts.

// Store persists questions and answers in a kv.Store. Records are
// append-only; answers are written once, when generation completes.
type Store struct {
	kv kv.Store
}

func NewStore(s kv.Store) *Store {
	return &Store{kv: s}
}

func (s *Store) InsertQuestion(ctx context.Context, q *Question) error {
	data, err := msgpack.Marshal(q)
	if err != nil {
		return err
	}
	key := kv.Key{"q", strconv.FormatInt(time.Now().UnixNano(), 10), q.ID}
	if err := s.kv.Set(ctx, key, data); err != nil {
		return fmt.Errorf("qa: insert question: %w", err)
	}
	return nil
}

// Questions returns all submitted questions in submission order.
func (s *Store) Questions(ctx context.Context) ([]*Question, error) {
	var out []*Question
	for entry, err := range s.kv.List(ctx, kv.Key{"q"}) {
		if err != nil {
			return nil, fmt.Errorf("qa: list questions: %w", err)
		}
		var q Question
		if err := msgpack.Unmarshal(entry.Value, &q); err != nil {
			return nil, fmt.Errorf("qa: decode question %v: %w", entry.Key, err)
		}
		out = append(out, &q)
	}
	return out, nil
}

func (s *Store) InsertAnswer(ctx context.Context, a *Answer) error {
	data, err := msgpack.Marshal(a)
	if err != nil {
		return err
	}
	if err := s.kv.Set(ctx, kv.Key{"a", a.ID}, data); err != nil {
		return fmt.Errorf("qa: insert answer: %w", err)
	}
	return nil
}

// Answer looks up a completed answer by id. It returns ErrNotFound while
// generation for that id is still in flight.
func (s *Store) Answer(ctx context.Context, id string) (*Answer, error) {
	data, err := s.kv.Get(ctx, kv.Key{"a", id})
	if err != nil {
		if errors.Is(err, kv.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	var a Answer
	if err := msgpack.Unmarshal(data, &a); err != nil {
		return nil, fmt.Errorf("qa: decode answer %s: %w", id, err)
	}
	return &a, nil
}
