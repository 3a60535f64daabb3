package localstore

import (
	"fmt"
	"sync"

	sonic "github.com/bytedance/sonic"
	"go.etcd.io/bbolt"

	"github.com/rucktrack/rucktrack/internal/platform/id"
	"github.com/rucktrack/rucktrack/internal/platform/logging"
)

// recordsKey is the fixed key each collection blob lives under inside its
// bucket. The whole collection is one JSON array, mirroring the original
// storage layout, so every mutation rewrites the full blob.
var recordsKey = []byte("records")

// Config wires a Collection to its bucket, seed data and record identity.
type Config[T any] struct {
	// Bucket is the storage key for this collection.
	Bucket string
	// Seed is written once when the bucket holds no blob yet.
	Seed []T
	// ID extracts the record identifier.
	ID func(*T) string
	// SetID assigns a freshly generated identifier on Save.
	SetID func(*T, string)
}

// Collection is a durable, homogeneous record collection with an
// observable change feed. Every mutation persists the full collection and
// publishes a snapshot to subscribers.
type Collection[T any] struct {
	db     *bbolt.DB
	cfg    Config[T]
	gen    id.Generator
	logger *logging.Logger

	mu      sync.Mutex
	subs    map[int]chan []T
	nextSub int
}

func NewCollection[T any](db *bbolt.DB, cfg Config[T], gen id.Generator, logger *logging.Logger) (*Collection[T], error) {
	if db == nil {
		return nil, fmt.Errorf("db is required")
	}
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("bucket is required")
	}
	if cfg.ID == nil || cfg.SetID == nil {
		return nil, fmt.Errorf("record identity accessors are required")
	}
	if gen == nil {
		gen = id.NewLocalGenerator()
	}
	if logger == nil {
		logger = logging.Default()
	}

	c := &Collection[T]{
		db:     db,
		cfg:    cfg,
		gen:    gen,
		logger: logger,
		subs:   make(map[int]chan []T),
	}

	if err := c.init(); err != nil {
		return nil, err
	}

	return c, nil
}

func (c *Collection[T]) init() error {
	return c.db.Update(func(tx *bbolt.Tx) error {
		bucket, err := tx.CreateBucketIfNotExists([]byte(c.cfg.Bucket))
		if err != nil {
			return fmt.Errorf("create bucket %s: %w", c.cfg.Bucket, err)
		}
		if bucket.Get(recordsKey) != nil || len(c.cfg.Seed) == 0 {
			return nil
		}

		blob, err := sonic.Marshal(c.cfg.Seed)
		if err != nil {
			return fmt.Errorf("marshal seed for %s: %w", c.cfg.Bucket, err)
		}
		return bucket.Put(recordsKey, blob)
	})
}

// GetAll returns the current collection. Read or decode failures degrade
// to an empty collection and are logged, never surfaced to the caller.
func (c *Collection[T]) GetAll() []T {
	var items []T
	err := c.db.View(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket([]byte(c.cfg.Bucket))
		if bucket == nil {
			return nil
		}
		blob := bucket.Get(recordsKey)
		if blob == nil {
			return nil
		}
		return sonic.Unmarshal(blob, &items)
	})
	if err != nil {
		c.logger.Error("read local collection failed", "bucket", c.cfg.Bucket, "error", err)
		return nil
	}
	return items
}

// Save assigns a fresh local identifier, appends the record, persists and
// publishes. Returns the new identifier.
func (c *Collection[T]) Save(item T) (string, error) {
	newID, err := c.gen.NewID()
	if err != nil {
		return "", fmt.Errorf("generate local id: %w", err)
	}
	c.cfg.SetID(&item, newID)

	items := append(c.GetAll(), item)
	if err := c.persist(items); err != nil {
		return "", err
	}
	return newID, nil
}

// Update applies a mutation to the matching record. Returns whether a
// record matched.
func (c *Collection[T]) Update(recordID string, apply func(*T)) bool {
	items := c.GetAll()
	found := false
	for i := range items {
		if c.cfg.ID(&items[i]) == recordID {
			apply(&items[i])
			found = true
			break
		}
	}
	if !found {
		return false
	}

	if err := c.persist(items); err != nil {
		c.logger.Error("persist after update failed", "bucket", c.cfg.Bucket, "id", recordID, "error", err)
		return false
	}
	return true
}

// Delete removes the matching record. Returns whether a record matched.
func (c *Collection[T]) Delete(recordID string) bool {
	items := c.GetAll()
	kept := make([]T, 0, len(items))
	found := false
	for i := range items {
		if c.cfg.ID(&items[i]) == recordID {
			found = true
			continue
		}
		kept = append(kept, items[i])
	}
	if !found {
		return false
	}

	if err := c.persist(kept); err != nil {
		c.logger.Error("persist after delete failed", "bucket", c.cfg.Bucket, "id", recordID, "error", err)
		return false
	}
	return true
}

// ReplaceAll overwrites the whole collection, used after a full pull from
// the server.
func (c *Collection[T]) ReplaceAll(items []T) error {
	return c.persist(items)
}

// Subscribe returns a channel receiving collection snapshots after every
// mutation, plus an unsubscribe func. Slow subscribers miss intermediate
// snapshots rather than blocking writers.
func (c *Collection[T]) Subscribe() (<-chan []T, func()) {
	c.mu.Lock()
	defer c.mu.Unlock()

	key := c.nextSub
	c.nextSub++
	ch := make(chan []T, 1)
	c.subs[key] = ch

	return ch, func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		if sub, ok := c.subs[key]; ok {
			delete(c.subs, key)
			close(sub)
		}
	}
}

func (c *Collection[T]) persist(items []T) error {
	blob, err := sonic.Marshal(items)
	if err != nil {
		return fmt.Errorf("marshal collection %s: %w", c.cfg.Bucket, err)
	}

	err = c.db.Update(func(tx *bbolt.Tx) error {
		bucket, err := tx.CreateBucketIfNotExists([]byte(c.cfg.Bucket))
		if err != nil {
			return err
		}
		return bucket.Put(recordsKey, blob)
	})
	if err != nil {
		return fmt.Errorf("persist collection %s: %w", c.cfg.Bucket, err)
	}

	c.publish(items)
	return nil
}

func (c *Collection[T]) publish(items []T) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, sub := range c.subs {
		select {
		case sub <- items:
		default:
			// Drop the stale snapshot so the latest one can land.
			select {
			case <-sub:
			default:
			}
			select {
			case sub <- items:
			default:
			}
		}
	}
}
