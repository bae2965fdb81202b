package runhistorystore

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	bolt "go.etcd.io/bbolt"

	"github.com/sandeepkv93/mergesort-visualizer/mergesortengine"
)

// ErrRunNotFound is returned when no stored run matches the given ID.
var ErrRunNotFound = errors.New("run not found")

var (
	bucketRuns  = []byte("runs")
	bucketIndex = []byte("run_index")
)

// keyTimeLayout keeps fractional seconds fixed-width so keys sort
// chronologically (RFC3339Nano trims trailing zeros and does not).
const keyTimeLayout = "2006-01-02T15:04:05.000000000Z"

// StoredRun is a completed sort run as persisted in the history store.
type StoredRun struct {
	ID        string                     `json:"id"`
	CreatedAt time.Time                  `json:"created_at"`
	InputSize int                        `json:"input_size"`
	Result    *mergesortengine.RunResult `json:"result"`
}

// RunSummary is the listing view of a stored run.
type RunSummary struct {
	ID            string    `json:"id"`
	CreatedAt     time.Time `json:"created_at"`
	InputSize     int       `json:"input_size"`
	Comparisons   int       `json:"comparisons"`
	ArrayAccesses int       `json:"array_accesses"`
	Steps         int       `json:"steps"`
}

// StoreConfig contains configuration for the run history store.
type StoreConfig struct {
	// Path is the bbolt database file.
	Path string
	// MaxRuns bounds the retained history; saving beyond it evicts the
	// oldest runs.
	MaxRuns int
}

// DefaultStoreConfig returns the default store configuration.
func DefaultStoreConfig() StoreConfig {
	return StoreConfig{
		Path:    "mergesort_runs.db",
		MaxRuns: 100,
	}
}

// Store persists completed runs in an embedded bbolt database. Run keys
// start with an RFC3339Nano timestamp, so bbolt's key order is
// chronological and eviction walks from the front.
type Store struct {
	config StoreConfig
	db     *bolt.DB
}

// OpenStore opens (creating if necessary) the history database.
func OpenStore(config StoreConfig) (*Store, error) {
	if config.Path == "" {
		return nil, errors.New("store path is required")
	}
	if config.MaxRuns <= 0 {
		config.MaxRuns = DefaultStoreConfig().MaxRuns
	}

	db, err := bolt.Open(config.Path, 0600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("opening history database: %w", err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		if _, err := tx.CreateBucketIfNotExists(bucketRuns); err != nil {
			return err
		}
		_, err := tx.CreateBucketIfNotExists(bucketIndex)
		return err
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("initializing history database: %w", err)
	}

	return &Store{config: config, db: db}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// SaveRun persists a run and returns its assigned ID. Oldest runs are
// evicted in the same transaction once the history exceeds MaxRuns.
func (s *Store) SaveRun(result *mergesortengine.RunResult) (string, error) {
	if result == nil {
		return "", errors.New("nil run result")
	}

	run := StoredRun{
		ID:        uuid.NewString(),
		CreatedAt: time.Now().UTC(),
		InputSize: len(result.Input),
		Result:    result,
	}
	key := runKey(run.CreatedAt, run.ID)

	value, err := json.Marshal(run)
	if err != nil {
		return "", fmt.Errorf("encoding run: %w", err)
	}

	err = s.db.Update(func(tx *bolt.Tx) error {
		runs := tx.Bucket(bucketRuns)
		index := tx.Bucket(bucketIndex)

		if err := runs.Put(key, value); err != nil {
			return err
		}
		if err := index.Put([]byte(run.ID), key); err != nil {
			return err
		}

		// Evict from the chronological front until within the limit.
		count := 0
		cursor := runs.Cursor()
		for k, _ := cursor.First(); k != nil; k, _ = cursor.Next() {
			count++
		}
		excess := count - s.config.MaxRuns
		for k, _ := cursor.First(); k != nil && excess > 0; k, _ = cursor.Next() {
			if bytes.Equal(k, key) {
				continue
			}
			if err := index.Delete([]byte(idFromKey(k))); err != nil {
				return err
			}
			if err := cursor.Delete(); err != nil {
				return err
			}
			excess--
		}
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("saving run: %w", err)
	}
	return run.ID, nil
}

// GetRun retrieves a stored run by ID.
func (s *Store) GetRun(id string) (*StoredRun, error) {
	var run StoredRun
	err := s.db.View(func(tx *bolt.Tx) error {
		key := tx.Bucket(bucketIndex).Get([]byte(id))
		if key == nil {
			return ErrRunNotFound
		}
		value := tx.Bucket(bucketRuns).Get(key)
		if value == nil {
			return ErrRunNotFound
		}
		return json.Unmarshal(value, &run)
	})
	if err != nil {
		return nil, err
	}
	return &run, nil
}

// ListRuns returns summaries of all stored runs, newest first.
func (s *Store) ListRuns() ([]RunSummary, error) {
	summaries := make([]RunSummary, 0)
	err := s.db.View(func(tx *bolt.Tx) error {
		cursor := tx.Bucket(bucketRuns).Cursor()
		for k, v := cursor.Last(); k != nil; k, v = cursor.Prev() {
			var run StoredRun
			if err := json.Unmarshal(v, &run); err != nil {
				return fmt.Errorf("decoding run %s: %w", idFromKey(k), err)
			}
			summaries = append(summaries, RunSummary{
				ID:            run.ID,
				CreatedAt:     run.CreatedAt,
				InputSize:     run.InputSize,
				Comparisons:   run.Result.Stats.Comparisons,
				ArrayAccesses: run.Result.Stats.ArrayAccesses,
				Steps:         run.Result.Stats.Steps,
			})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return summaries, nil
}

// DeleteRun removes a stored run by ID.
func (s *Store) DeleteRun(id string) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		index := tx.Bucket(bucketIndex)
		key := index.Get([]byte(id))
		if key == nil {
			return ErrRunNotFound
		}
		if err := tx.Bucket(bucketRuns).Delete(key); err != nil {
			return err
		}
		return index.Delete([]byte(id))
	})
}

func runKey(createdAt time.Time, id string) []byte {
	return []byte(createdAt.UTC().Format(keyTimeLayout) + "/" + id)
}

func idFromKey(key []byte) string {
	s := string(key)
	if i := strings.LastIndex(s, "/"); i >= 0 {
		return s[i+1:]
	}
	return s
}
