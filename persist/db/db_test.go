package db

import (
	"io/ioutil"
	"math/rand"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rand256() []byte {
	b := make([]byte, 256)
	rand.Read(b)
	return b
}

func openTestDB(t *testing.T, opt DBOption) (*DBWrapper, func()) {
	path, err := ioutil.TempDir("", "dbwtest")
	require.NoError(t, err)
	opt.FilePath = path
	opt.CacheSize = 1 << 20
	dbw, err := NewDBWrapper(&opt)
	require.NoError(t, err)
	return dbw, func() {
		dbw.Close()
		os.RemoveAll(path)
	}
}

func TestDBWrapper(t *testing.T) {
	dbw, cleanup := openTestDB(t, DBOption{})
	defer cleanup()

	assert.Len(t, dbw.GetObfuscateKey(), obfuscateKeyLen)
	assert.True(t, dbw.IsEmpty())

	key := []byte{'k'}
	in := rand256()
	require.NoError(t, dbw.Write(key, in, false))
	val, err := dbw.Read(key)
	require.NoError(t, err)
	assert.Equal(t, in, val)
	assert.False(t, dbw.IsEmpty())

	raw, err := dbw.db.Get(key, nil)
	require.NoError(t, err)
	assert.NotEqual(t, in, raw)

	require.NoError(t, dbw.Erase(key, true))
	_, err = dbw.Read(key)
	assert.Equal(t, ErrNotFound, err)
}

func TestDBWrapperBatchAndIterator(t *testing.T) {
	dbw, cleanup := openTestDB(t, DBOption{DontObfuscate: true})
	defer cleanup()
	assert.Nil(t, dbw.GetObfuscateKey())

	batch := NewBatchWrapper(dbw)
	batch.Write([]byte{DbBlockIndex, 1}, []byte("one"))
	batch.Write([]byte{DbBlockIndex, 2}, []byte("two"))
	batch.Write([]byte{DbBestBlock}, []byte("best"))
	batch.Erase([]byte{DbBlockIndex, 2})
	assert.Equal(t, 4, batch.Len())
	require.NoError(t, dbw.WriteBatch(batch, true))

	it := dbw.Iterator([]byte{DbBlockIndex})
	defer it.Close()
	var vals []string
	for it.Next() {
		assert.Equal(t, DbBlockIndex, it.GetKey()[0])
		vals = append(vals, string(it.GetVal()))
	}
	require.NoError(t, it.Error())
	assert.Equal(t, []string{"one"}, vals)
}

func TestDBWrapperReopenKeepsKey(t *testing.T) {
	path, err := ioutil.TempDir("", "dbwtest")
	require.NoError(t, err)
	defer os.RemoveAll(path)

	dbw, err := NewDBWrapper(&DBOption{FilePath: path, CacheSize: 1 << 20})
	require.NoError(t, err)
	key := dbw.GetObfuscateKey()
	require.NoError(t, dbw.Write([]byte("a"), []byte("value"), true))
	require.NoError(t, dbw.Close())

	dbw, err = NewDBWrapper(&DBOption{FilePath: path, CacheSize: 1 << 20})
	require.NoError(t, err)
	defer dbw.Close()
	assert.Equal(t, key, dbw.GetObfuscateKey())
	val, err := dbw.Read([]byte("a"))
	require.NoError(t, err)
	assert.Equal(t, []byte("value"), val)

	_, err = NewDBWrapper(nil)
	assert.Error(t, err)
}
