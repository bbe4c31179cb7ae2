package store

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	bolt "go.etcd.io/bbolt"

	"github.com/mmcdole/tunes/internal/domain"
)

// Bucket names
var (
	bucketLookups = []byte("lookups")
)

// lookupEntry is the stored form of a cached lookup
type lookupEntry struct {
	StoredAt int64               `json:"stored_at"`
	Result   domain.SearchResult `json:"result"`
}

// LookupStore implements domain.LookupCache using BoltDB.
type LookupStore struct {
	db *bolt.DB
	mu sync.RWMutex // Protects memory cache

	// In-memory cache for hot-path reads (promoted on access)
	cache map[string][]byte

	now func() time.Time
}

// NewLookupStore opens the cache for the given endpoint. An empty
// baseCacheDir keeps everything in memory.
func NewLookupStore(baseCacheDir, endpoint string) (*LookupStore, error) {
	s := &LookupStore{cache: make(map[string][]byte), now: time.Now}
	if baseCacheDir == "" {
		return s, nil
	}

	dir := baseCacheDir
	if endpoint != "" {
		dir = filepath.Join(baseCacheDir, hashEndpoint(endpoint))
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}

	dbPath := filepath.Join(dir, "lookups.db")
	db, err := bolt.Open(dbPath, 0600, &bolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("failed to open bolt db: %w", err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucketLookups)
		return err
	})
	if err != nil {
		db.Close()
		return nil, err
	}

	s.db = db
	return s, nil
}

func hashEndpoint(endpoint string) string {
	normalized := strings.TrimRight(strings.ToLower(endpoint), "/")
	hash := sha256.Sum256([]byte(normalized))
	return hex.EncodeToString(hash[:6])
}

// LookupKey builds the cache key for a term under the given query parameters
func LookupKey(term string, params ...string) string {
	parts := append([]string{strings.ToLower(strings.TrimSpace(term))}, params...)
	return strings.Join(parts, "|")
}

func (s *LookupStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// === Generic helpers ===

func (s *LookupStore) get(bucket []byte, key string, dest interface{}) bool {
	cacheKey := string(bucket) + ":" + key

	s.mu.RLock()
	if data, ok := s.cache[cacheKey]; ok {
		s.mu.RUnlock()
		return json.Unmarshal(data, dest) == nil
	}
	s.mu.RUnlock()

	if s.db == nil {
		return false
	}

	var data []byte
	s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucket)
		if b == nil {
			return nil
		}
		if v := b.Get([]byte(key)); v != nil {
			data = make([]byte, len(v))
			copy(data, v)
		}
		return nil
	})

	if data == nil {
		return false
	}

	// Promote to memory cache
	s.mu.Lock()
	s.cache[cacheKey] = data
	s.mu.Unlock()

	return json.Unmarshal(data, dest) == nil
}

func (s *LookupStore) set(bucket []byte, key string, value interface{}) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}

	cacheKey := string(bucket) + ":" + key

	s.mu.Lock()
	s.cache[cacheKey] = data
	s.mu.Unlock()

	if s.db == nil {
		return nil // Memory-only mode
	}

	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucket).Put([]byte(key), data)
	})
}

func (s *LookupStore) delete(bucket []byte, key string) {
	s.mu.Lock()
	delete(s.cache, string(bucket)+":"+key)
	s.mu.Unlock()

	if s.db == nil {
		return
	}

	s.db.Update(func(tx *bolt.Tx) error {
		if b := tx.Bucket(bucket); b != nil {
			b.Delete([]byte(key))
		}
		return nil
	})
}

// === Lookups ===

// GetLookup returns a cached result no older than maxAge. Expired entries
// are removed. A maxAge of zero disables expiry.
func (s *LookupStore) GetLookup(key string, maxAge time.Duration) (domain.SearchResult, bool) {
	var entry lookupEntry
	if !s.get(bucketLookups, key, &entry) {
		return domain.SearchResult{}, false
	}

	if maxAge > 0 && s.now().Sub(time.Unix(entry.StoredAt, 0)) > maxAge {
		s.delete(bucketLookups, key)
		return domain.SearchResult{}, false
	}
	return entry.Result, true
}

// SaveLookup stores a successful lookup under key
func (s *LookupStore) SaveLookup(key string, result domain.SearchResult) error {
	return s.set(bucketLookups, key, lookupEntry{
		StoredAt: s.now().Unix(),
		Result:   result,
	})
}

// Len returns the number of persisted lookups (memory entries in memory-only mode)
func (s *LookupStore) Len() int {
	if s.db == nil {
		s.mu.RLock()
		defer s.mu.RUnlock()
		return len(s.cache)
	}

	n := 0
	s.db.View(func(tx *bolt.Tx) error {
		if b := tx.Bucket(bucketLookups); b != nil {
			n = b.Stats().KeyN
		}
		return nil
	})
	return n
}

// InvalidateAll drops every cached lookup. Only the lookups bucket is
// touched; other files in the cache directory are left alone.
func (s *LookupStore) InvalidateAll() error {
	s.mu.Lock()
	s.cache = make(map[string][]byte)
	s.mu.Unlock()

	if s.db == nil {
		return nil
	}

	return s.db.Update(func(tx *bolt.Tx) error {
		if err := tx.DeleteBucket(bucketLookups); err != nil && !errors.Is(err, bolt.ErrBucketNotFound) {
			return err
		}
		_, err := tx.CreateBucket(bucketLookups)
		return err
	})
}

var _ domain.LookupCache = (*LookupStore)(nil)
