package archive

import (
	"context"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	bolt "go.etcd.io/bbolt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func TestInMemoryArchive(t *testing.T) {
	ctx := context.Background()
	a := NewInMemoryArchive()
	id := uuid.New()

	require.NoError(t, a.Record(ctx, &Exchange{SessionID: id, Language: "fr", UserText: "Bonjour", Reply: "Bonjour !"}))
	require.NoError(t, a.Record(ctx, &Exchange{SessionID: id, Language: "en", UserText: "Pool?", Reply: "Yes", Failed: false}))
	assert.Error(t, a.Record(ctx, nil))

	got := a.Exchanges()
	require.Len(t, got, 2)
	assert.Equal(t, "Bonjour", got[0].UserText)
	assert.False(t, got[0].CreatedAt.IsZero())

	got[0].UserText = "mutated"
	assert.Equal(t, "Bonjour", a.Exchanges()[0].UserText)

	assert.NoError(t, a.Close())
}

func TestNopArchive(t *testing.T) {
	var a Archive = NopArchive{}
	assert.NoError(t, a.Record(context.Background(), &Exchange{}))
	assert.NoError(t, a.Close())
}

func TestGormArchive(t *testing.T) {
	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "archive.db")), &gorm.Config{})
	require.NoError(t, err)

	a, err := NewGormArchive(db)
	require.NoError(t, err)
	defer a.Close()

	ctx := context.Background()
	id := uuid.New()

	require.NoError(t, a.Record(ctx, &Exchange{SessionID: id, Language: "en", UserText: "What time is breakfast?", Reply: "7 to 10."}))
	require.NoError(t, a.Record(ctx, &Exchange{SessionID: id, Language: "en", UserText: "Pool?", Reply: "Sorry", Failed: true}))
	assert.Error(t, a.Record(ctx, &Exchange{UserText: "orphan"}))
	assert.Error(t, a.Record(ctx, nil))

	var rows []ExchangeModel
	require.NoError(t, db.Order("id ASC").Find(&rows).Error)
	require.Len(t, rows, 2)
	assert.Equal(t, id, rows[0].SessionID)
	assert.Equal(t, "What time is breakfast?", rows[0].UserText)
	assert.True(t, rows[1].Failed)
}

func TestBoltArchive(t *testing.T) {
	path := filepath.Join(t.TempDir(), "archive.bolt")
	a, err := NewBoltArchive(path)
	require.NoError(t, err)

	ctx := context.Background()
	id := uuid.New()
	for _, text := range []string{"Bonjour", "Is the pool available?", "Merci"} {
		require.NoError(t, a.Record(ctx, &Exchange{SessionID: id, Language: "fr", UserText: text, Reply: "ok"}))
	}
	assert.Error(t, a.Record(ctx, nil))
	require.NoError(t, a.Close())

	// reopening keeps prior records and continues the sequence
	a, err = NewBoltArchive(path)
	require.NoError(t, err)
	defer a.Close()
	require.NoError(t, a.Record(ctx, &Exchange{SessionID: id, UserText: "Au revoir", Reply: "ok"}))

	var texts []string
	require.NoError(t, a.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket(exchangesBucket).ForEach(func(_, v []byte) error {
			var ex Exchange
			if err := json.Unmarshal(v, &ex); err != nil {
				return err
			}
			assert.Equal(t, id, ex.SessionID)
			texts = append(texts, ex.UserText)
			return nil
		})
	}))
	assert.Equal(t, []string{"Bonjour", "Is the pool available?", "Merci", "Au revoir"}, texts)

	canceled, cancel := context.WithCancel(ctx)
	cancel()
	assert.ErrorIs(t, a.Record(canceled, &Exchange{SessionID: id}), context.Canceled)
}
