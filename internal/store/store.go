// Package store persists computed risk records in an embedded BadgerDB
// keyed by record ID, giving the HTTP API idempotent upserts and fast
// point lookups without an external database.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/dgraph-io/badger/v4"

	"github.com/georiskmod/risk-service/internal/domain"
	"github.com/georiskmod/risk-service/internal/risk"
)

// ErrNotFound is returned when no record exists for the requested ID.
var ErrNotFound = errors.New("risk record not found")

var keyPrefix = []byte("risk/")

// Store is a BadgerDB-backed risk record store. Safe for concurrent use.
type Store struct {
	db     *badger.DB
	logger *slog.Logger
}

// Options configures how the store opens its database.
type Options struct {
	// Path is the directory for database files. Ignored when InMemory is set.
	Path string
	// InMemory keeps all data in RAM. Used by tests.
	InMemory bool
	Logger   *slog.Logger
}

// Open opens (or creates) the store's database.
func Open(opts Options) (*Store, error) {
	if opts.Logger == nil {
		opts.Logger = slog.New(slog.NewTextHandler(os.Stderr, nil))
	}

	var badgerOpts badger.Options
	if opts.InMemory {
		badgerOpts = badger.DefaultOptions("").WithInMemory(true)
	} else {
		if opts.Path == "" {
			return nil, errors.New("store path is required for persistent mode")
		}
		if err := os.MkdirAll(opts.Path, 0o750); err != nil {
			return nil, fmt.Errorf("creating store directory %s: %w", opts.Path, err)
		}
		badgerOpts = badger.DefaultOptions(opts.Path)
	}
	badgerOpts = badgerOpts.WithLogger(nil)

	db, err := badger.Open(badgerOpts)
	if err != nil {
		return nil, fmt.Errorf("opening store: %w", err)
	}

	return &Store{db: db, logger: opts.Logger}, nil
}

// Close flushes and closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Put upserts a record keyed by its ID. Re-putting the same submission's
// record overwrites an identical value, so replays are harmless.
func (s *Store) Put(ctx context.Context, rec domain.RiskRecord) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if rec.ID == "" {
		return errors.New("record ID is empty")
	}

	value, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("encoding record %s: %w", rec.ID, err)
	}

	err = s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(key(rec.ID), value)
	})
	if err != nil {
		return fmt.Errorf("storing record %s: %w", rec.ID, err)
	}

	s.logger.Debug("stored risk record",
		slog.String("id", rec.ID),
		slog.String("risk_level", string(rec.RiskLevel)))
	return nil
}

// Get fetches a record by ID, returning ErrNotFound when it does not exist.
func (s *Store) Get(ctx context.Context, id string) (domain.RiskRecord, error) {
	if err := ctx.Err(); err != nil {
		return domain.RiskRecord{}, err
	}

	var rec domain.RiskRecord
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(key(id))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return ErrNotFound
		}
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &rec)
		})
	})
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return domain.RiskRecord{}, ErrNotFound
		}
		return domain.RiskRecord{}, fmt.Errorf("fetching record %s: %w", id, err)
	}
	return rec, nil
}

// List returns up to limit records in key order. A limit <= 0 returns all.
func (s *Store) List(ctx context.Context, limit int) ([]domain.RiskRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	records := []domain.RiskRecord{}
	err := s.db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()

		for it.Seek(keyPrefix); it.ValidForPrefix(keyPrefix); it.Next() {
			if limit > 0 && len(records) >= limit {
				break
			}
			var rec domain.RiskRecord
			err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &rec)
			})
			if err != nil {
				return err
			}
			records = append(records, rec)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("listing records: %w", err)
	}
	return records, nil
}

// Delete removes a record by ID. Deleting a missing record returns ErrNotFound.
func (s *Store) Delete(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	err := s.db.Update(func(txn *badger.Txn) error {
		if _, err := txn.Get(key(id)); errors.Is(err, badger.ErrKeyNotFound) {
			return ErrNotFound
		} else if err != nil {
			return err
		}
		return txn.Delete(key(id))
	})
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("deleting record %s: %w", id, err)
	}
	return nil
}

// Statistics summarizes the stored records for the statistics endpoint.
type Statistics struct {
	TotalRecords int            `json:"total_records"`
	GatePassed   int            `json:"gate_passed"`
	ByLevel      map[string]int `json:"by_level"`
	MeanRScore   float64        `json:"mean_R_score"`
	MaxRScore    float64        `json:"max_R_score"`
}

// Stats scans all records and aggregates level counts and score summary.
func (s *Store) Stats(ctx context.Context) (Statistics, error) {
	stats := Statistics{
		ByLevel: map[string]int{
			string(risk.LevelLow):    0,
			string(risk.LevelMedium): 0,
			string(risk.LevelHigh):   0,
			string(risk.LevelSevere): 0,
		},
	}

	records, err := s.List(ctx, 0)
	if err != nil {
		return Statistics{}, err
	}

	var sum float64
	for _, rec := range records {
		stats.TotalRecords++
		if rec.GatePassed {
			stats.GatePassed++
		}
		stats.ByLevel[string(rec.RiskLevel)]++
		sum += rec.RScore
		if rec.RScore > stats.MaxRScore {
			stats.MaxRScore = rec.RScore
		}
	}
	if stats.TotalRecords > 0 {
		stats.MeanRScore = sum / float64(stats.TotalRecords)
	}
	return stats, nil
}

func key(id string) []byte {
	return append(append([]byte{}, keyPrefix...), id...)
}
