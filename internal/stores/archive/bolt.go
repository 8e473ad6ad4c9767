package archive

import (
	"context"
	"encoding/binary"
	"encoding/json"
	"time"

	"github.com/pkg/errors"
	bolt "go.etcd.io/bbolt"
)

var exchangesBucket = []byte("exchanges")

// BoltArchive appends exchanges to a local bbolt file, keyed by insertion order
type BoltArchive struct {
	db *bolt.DB
}

// NewBoltArchive opens (or creates) the archive file at path
func NewBoltArchive(path string) (*BoltArchive, error) {
	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: 2 * time.Second})
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open archive %s", path)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(exchangesBucket)
		return err
	})
	if err != nil {
		_ = db.Close()
		return nil, errors.Wrap(err, "failed to create exchanges bucket")
	}

	return &BoltArchive{db: db}, nil
}

// Record implements Archive
func (a *BoltArchive) Record(ctx context.Context, exchange *Exchange) error {
	if exchange == nil {
		return errors.New("exchange cannot be nil")
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	ex := *exchange
	if ex.CreatedAt.IsZero() {
		ex.CreatedAt = time.Now().UTC()
	}

	value, err := json.Marshal(ex)
	if err != nil {
		return errors.Wrap(err, "failed to encode exchange")
	}

	return a.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(exchangesBucket)

		seq, err := b.NextSequence()
		if err != nil {
			return err
		}

		key := make([]byte, 8)
		binary.BigEndian.PutUint64(key, seq)
		return b.Put(key, value)
	})
}

// Close closes the archive file
func (a *BoltArchive) Close() error {
	return a.db.Close()
}
