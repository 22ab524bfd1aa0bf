package db

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/solstice-labs/swallet-node/store"
)

func TestDB_OpenModes(t *testing.T) {
	t.Run("in-memory alias", func(t *testing.T) {
		db, err := OpenInMemoryDB(true)
		require.NoError(t, err)
		require.NotNil(t, db)

		runSampleInsertSelectTest(t, db)
		assert.NoError(t, db.Close())
	})

	t.Run("in-memory direct", func(t *testing.T) {
		db, err := openSQLite(InMemorySQLiteDSN, true)
		require.NoError(t, err)
		require.NotNil(t, db)

		runSampleInsertSelectTest(t, db)
		assert.NoError(t, db.Close())
	})

	t.Run("file-based DB", func(t *testing.T) {
		dir := t.TempDir()
		dbName := "test.db"

		db, err := OpenFileDB(dir, dbName, true)
		require.NoError(t, err)
		require.NotNil(t, db)

		assert.FileExists(t, filepath.Join(dir, dbName))

		runSampleInsertSelectTest(t, db)

		assert.NoError(t, db.Close())
	})
}

func TestDB_RecentActions(t *testing.T) {
	db, err := OpenInMemoryDB(true)
	require.NoError(t, err)
	defer db.Close()

	for _, sig := range []string{"sig1", "sig2", "sig3"} {
		require.NoError(t, db.RecordAction(&store.ActionRecord{
			Kind:      store.ActionTransfer,
			Signature: sig,
			Status:    store.StatusConfirmed,
		}))
	}

	records, err := db.RecentActions(2)
	require.NoError(t, err)
	assert.Len(t, records, 2)

	all, err := db.RecentActions(0)
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func runSampleInsertSelectTest(t *testing.T, db *DB) {
	entry := store.ActionRecord{
		Kind:      store.ActionMintNFT,
		Signature: "5VfV7Qn",
		Mint:      "So11111111111111111111111111111111111111112",
		Status:    store.StatusConfirmed,
	}

	err := db.Client().Create(&entry).Error
	require.NoError(t, err)

	var result store.ActionRecord
	err = db.Client().First(&result).Error
	require.NoError(t, err)
	assert.Equal(t, "5VfV7Qn", result.Signature)
	assert.Equal(t, store.ActionMintNFT, result.Kind)
}
