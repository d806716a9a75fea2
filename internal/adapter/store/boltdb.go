package store

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"

	"go.etcd.io/bbolt"
)

// CurrentSchemaVersion is the cache layout version. Bump on breaking
// changes; a mismatched cache is dropped and rebuilt.
const CurrentSchemaVersion = 1

var (
	bucketVectors      = []byte("vectors")
	bucketTranslations = []byte("translations")
	bucketMeta         = []byte("meta")
	keySchemaVersion   = []byte("schema_version")
)

// BoltCache persists derived values across restarts: row embeddings keyed
// by model and text hash (so a reload only re-embeds unseen rows) and
// Roman Urdu translations keyed by the input text.
type BoltCache struct {
	db *bbolt.DB
}

func NewBoltCache(path string) (*BoltCache, error) {
	db, err := bbolt.Open(path, 0600, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to open bolt db: %w", err)
	}

	c := &BoltCache{db: db}
	if err := c.migrate(); err != nil {
		db.Close()
		return nil, err
	}
	return c, nil
}

func (c *BoltCache) migrate() error {
	return c.db.Update(func(tx *bbolt.Tx) error {
		meta, err := tx.CreateBucketIfNotExists(bucketMeta)
		if err != nil {
			return fmt.Errorf("failed to create meta bucket: %w", err)
		}

		stored := 0
		if data := meta.Get(keySchemaVersion); data != nil {
			if err := json.Unmarshal(data, &stored); err != nil {
				stored = 0
			}
		}

		if stored != CurrentSchemaVersion {
			// Stale layout: drop all cached values.
			for _, bucket := range [][]byte{bucketVectors, bucketTranslations} {
				if tx.Bucket(bucket) != nil {
					if err := tx.DeleteBucket(bucket); err != nil {
						return err
					}
				}
			}
			version, err := json.Marshal(CurrentSchemaVersion)
			if err != nil {
				return err
			}
			if err := meta.Put(keySchemaVersion, version); err != nil {
				return err
			}
		}

		for _, bucket := range [][]byte{bucketVectors, bucketTranslations} {
			if _, err := tx.CreateBucketIfNotExists(bucket); err != nil {
				return err
			}
		}
		return nil
	})
}

func cacheKey(model, text string) []byte {
	hash := sha256.Sum256([]byte(model + "\x00" + text))
	return []byte(hex.EncodeToString(hash[:]))
}

// Get returns the cached vector for text, or nil when absent.
func (c *BoltCache) Get(model, text string) ([]float32, error) {
	var vector []float32
	err := c.db.View(func(tx *bbolt.Tx) error {
		b := tx.Bucket(bucketVectors)
		if b == nil {
			return nil
		}
		data := b.Get(cacheKey(model, text))
		if data == nil {
			return nil
		}
		return json.Unmarshal(data, &vector)
	})
	if err != nil {
		return nil, err
	}
	return vector, nil
}

// Put stores vectors for the given texts. Texts and vectors pair by index.
func (c *BoltCache) Put(model string, texts []string, vectors [][]float32) error {
	if len(texts) != len(vectors) {
		return fmt.Errorf("text count %d does not match vector count %d", len(texts), len(vectors))
	}

	return c.db.Update(func(tx *bbolt.Tx) error {
		b := tx.Bucket(bucketVectors)
		if b == nil {
			return fmt.Errorf("vectors bucket not found")
		}
		for i, text := range texts {
			data, err := json.Marshal(vectors[i])
			if err != nil {
				return err
			}
			if err := b.Put(cacheKey(model, text), data); err != nil {
				return err
			}
		}
		return nil
	})
}

// GetTranslation returns the cached English rendering of text, if any.
func (c *BoltCache) GetTranslation(text string) (string, bool) {
	var translated string
	found := false
	_ = c.db.View(func(tx *bbolt.Tx) error {
		b := tx.Bucket(bucketTranslations)
		if b == nil {
			return nil
		}
		if data := b.Get(cacheKey("", text)); data != nil {
			translated = string(data)
			found = true
		}
		return nil
	})
	return translated, found
}

// PutTranslation stores a successful translation.
func (c *BoltCache) PutTranslation(text, translated string) error {
	return c.db.Update(func(tx *bbolt.Tx) error {
		b := tx.Bucket(bucketTranslations)
		if b == nil {
			return fmt.Errorf("translations bucket not found")
		}
		return b.Put(cacheKey("", text), []byte(translated))
	})
}

func (c *BoltCache) Close() error {
	return c.db.Close()
}
