package hapticstore

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"go.etcd.io/bbolt"
)

// record is the durable JSON value stored for each key.
type record struct {
	Value     int64  `json:"value"`
	UpdatedAt string `json:"updated_at"`
}

// ConfigStore is a durable key -> signed-integer mapping, surviving process
// restarts. Reads are served from an in-memory write-through cache; writes
// update the cache and the backing bbolt file under the same lock, and a
// bbolt write failure is logged and treated as non-fatal (PersistenceError):
// the in-memory value stays authoritative for the session.
type ConfigStore struct {
	mu     sync.Mutex
	db     *bbolt.DB
	cache  *inMemoryCache[int64]
	bucket []byte
	logger *zerolog.Logger
}

// Open opens (creating if necessary) the bbolt-backed ConfigStore at path.
func Open(path string, opts ...Option) (*ConfigStore, error) {
	cfg := newDefaultConfig()
	for _, o := range opts {
		o.Apply(cfg)
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, errors.Wrap(err, "failed to create config store directory")
		}
	}

	db, err := bbolt.Open(path, 0o600, &bbolt.Options{Timeout: cfg.openTimeout})
	if err != nil {
		return nil, errors.Wrap(err, "failed to open config store")
	}

	bucket := []byte(cfg.bucket)

	if err := db.Update(func(tx *bbolt.Tx) error {
		_, cerr := tx.CreateBucketIfNotExists(bucket)
		return cerr
	}); err != nil {
		_ = db.Close()
		return nil, errors.Wrap(err, "failed to initialize config store bucket")
	}

	s := &ConfigStore{
		db:     db,
		cache:  newInMemoryCache[int64](),
		bucket: bucket,
		logger: cfg.logger,
	}

	if err := s.warmCache(); err != nil {
		s.logger.Warn().Err(err).Msg("failed to warm config store cache")
	}

	return s, nil
}

func (s *ConfigStore) warmCache() error {
	return s.db.View(func(tx *bbolt.Tx) error {
		b := tx.Bucket(s.bucket)
		if b == nil {
			return nil
		}

		return b.ForEach(func(k, v []byte) error {
			var rec record
			if err := json.Unmarshal(v, &rec); err != nil {
				return nil //nolint:nilerr // a corrupt single record must not block the others
			}

			s.cache.Upsert(string(k), rec.Value)

			return nil
		})
	})
}

// Load returns the stored value for key, or def if absent or unparseable.
func (s *ConfigStore) Load(key string, def int) int {
	value, err := s.cache.Get(key)
	if err != nil {
		return def
	}

	return int(value)
}

// Save atomically upserts value for key. A write failure is logged and
// non-fatal: the in-memory cache (and thus subsequent Load calls) already
// reflects value.
func (s *ConfigStore) Save(key string, value int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.cache.Upsert(key, int64(value))

	rec := record{
		Value:     int64(value),
		UpdatedAt: time.Now().UTC().Format(time.RFC3339),
	}

	payload, err := json.Marshal(rec)
	if err != nil {
		return errors.Wrap(err, "failed to encode config record")
	}

	err = s.db.Update(func(tx *bbolt.Tx) error {
		b := tx.Bucket(s.bucket)
		return b.Put([]byte(key), payload)
	})
	if err != nil {
		s.logger.Error().Err(err).Str("key", key).Msg("failed to persist config value, keeping in-memory value")
		return errors.Wrap(err, "failed to persist config value")
	}

	return nil
}

// Close releases the underlying bbolt file.
func (s *ConfigStore) Close() error {
	return s.db.Close()
}
