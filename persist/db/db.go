package db

import (
	"crypto/rand"
	"os"

	"github.com/pkg/errors"
	lvldb "github.com/syndtr/goleveldb/leveldb"
	"github.com/syndtr/goleveldb/leveldb/filter"
	"github.com/syndtr/goleveldb/leveldb/iterator"
	"github.com/syndtr/goleveldb/leveldb/opt"
	"github.com/syndtr/goleveldb/leveldb/util"
)

const (
	obfuscateKeyKey = "\000obfuscate_key"
	obfuscateKeyLen = 8
)

// Key prefixes of the block index database.
const (
	DbBlockIndex byte = 'b'
	DbBestBlock  byte = 'B'
)

var ErrNotFound = lvldb.ErrNotFound

// DBWrapper is a leveldb handle whose values are xored with a per database
// key, so stored records never look like executable data to scanners.
type DBWrapper struct {
	readOption   opt.ReadOptions
	iterOption   opt.ReadOptions
	writeOption  opt.WriteOptions
	syncOption   opt.WriteOptions
	db           *lvldb.DB
	obfuscateKey []byte
}

type DBOption struct {
	FilePath      string
	CacheSize     int
	Wipe          bool
	DontObfuscate bool
}

func getOptions(cacheSize int) *opt.Options {
	return &opt.Options{
		BlockCacher:            opt.LRUCacher,
		BlockCacheCapacity:     cacheSize / 2,
		WriteBuffer:            cacheSize / 4,
		Filter:                 filter.NewBloomFilter(10),
		Compression:            opt.NoCompression,
		OpenFilesCacheCapacity: 64,
	}
}

func NewDBWrapper(do *DBOption) (*DBWrapper, error) {
	if do == nil {
		return nil, errors.New("DBWrapper: nil DBOption")
	}
	if do.Wipe {
		if err := os.RemoveAll(do.FilePath); err != nil {
			return nil, err
		}
	}
	if err := os.MkdirAll(do.FilePath, 0740); err != nil {
		return nil, err
	}

	db, err := lvldb.OpenFile(do.FilePath, getOptions(do.CacheSize))
	if err != nil {
		return nil, err
	}

	strict := opt.StrictJournalChecksum | opt.StrictBlockChecksum
	dbw := &DBWrapper{
		readOption:  opt.ReadOptions{Strict: strict},
		iterOption:  opt.ReadOptions{DontFillCache: true, Strict: strict},
		writeOption: opt.WriteOptions{},
		syncOption:  opt.WriteOptions{Sync: true},
		db:          db,
	}

	key, err := db.Get([]byte(obfuscateKeyKey), &dbw.readOption)
	switch {
	case err == nil:
		dbw.obfuscateKey = key
	case err != lvldb.ErrNotFound:
		db.Close()
		return nil, err
	case !do.DontObfuscate && dbw.IsEmpty():
		key = make([]byte, obfuscateKeyLen)
		if _, err := rand.Read(key); err != nil {
			db.Close()
			return nil, err
		}
		// stored in the clear
		if err := db.Put([]byte(obfuscateKeyKey), key, &dbw.syncOption); err != nil {
			db.Close()
			return nil, err
		}
		dbw.obfuscateKey = key
	}
	return dbw, nil
}

func xor(val, key []byte) {
	if len(key) == 0 {
		return
	}
	for i := range val {
		val[i] ^= key[i%len(key)]
	}
}

// Read returns ErrNotFound when key is absent.
func (dbw *DBWrapper) Read(key []byte) ([]byte, error) {
	value, err := dbw.db.Get(key, &dbw.readOption)
	if err != nil {
		return nil, err
	}
	xor(value, dbw.obfuscateKey)
	return value, nil
}

func (dbw *DBWrapper) Write(key, val []byte, sync bool) error {
	bw := NewBatchWrapper(dbw)
	bw.Write(key, val)
	return dbw.WriteBatch(bw, sync)
}

func (dbw *DBWrapper) WriteBatch(bw *BatchWrapper, sync bool) error {
	opts := &dbw.writeOption
	if sync {
		opts = &dbw.syncOption
	}
	return dbw.db.Write(&bw.bat, opts)
}

func (dbw *DBWrapper) Erase(key []byte, sync bool) error {
	bw := NewBatchWrapper(dbw)
	bw.Erase(key)
	return dbw.WriteBatch(bw, sync)
}

// Iterator walks the keys starting with prefix; a nil prefix walks all.
func (dbw *DBWrapper) Iterator(prefix []byte) *IterWrapper {
	var r *util.Range
	if prefix != nil {
		r = util.BytesPrefix(prefix)
	}
	return &IterWrapper{parent: dbw, iter: dbw.db.NewIterator(r, &dbw.iterOption)}
}

// IsEmpty reports whether the database holds no records besides the
// obfuscation key.
func (dbw *DBWrapper) IsEmpty() bool {
	it := dbw.Iterator(nil)
	defer it.Close()
	for it.Next() {
		if string(it.iter.Key()) != obfuscateKeyKey {
			return false
		}
	}
	return true
}

func (dbw *DBWrapper) GetObfuscateKey() []byte {
	return dbw.obfuscateKey
}

func (dbw *DBWrapper) Close() error {
	if dbw.db == nil {
		return nil
	}
	return dbw.db.Close()
}

type BatchWrapper struct {
	bat    lvldb.Batch
	parent *DBWrapper
}

func NewBatchWrapper(parent *DBWrapper) *BatchWrapper {
	return &BatchWrapper{parent: parent}
}

func (bw *BatchWrapper) Write(key, val []byte) {
	buf := make([]byte, len(val))
	copy(buf, val)
	xor(buf, bw.parent.GetObfuscateKey())
	bw.bat.Put(key, buf)
}

func (bw *BatchWrapper) Erase(key []byte) {
	bw.bat.Delete(key)
}

func (bw *BatchWrapper) Len() int {
	return bw.bat.Len()
}

type IterWrapper struct {
	parent *DBWrapper
	iter   iterator.Iterator
}

func (iw *IterWrapper) Next() bool {
	return iw.iter.Next()
}

func (iw *IterWrapper) GetKey() []byte {
	k := iw.iter.Key()
	key := make([]byte, len(k))
	copy(key, k)
	return key
}

func (iw *IterWrapper) GetVal() []byte {
	v := iw.iter.Value()
	val := make([]byte, len(v))
	copy(val, v)
	xor(val, iw.parent.GetObfuscateKey())
	return val
}

func (iw *IterWrapper) Error() error {
	return iw.iter.Error()
}

func (iw *IterWrapper) Close() {
	iw.iter.Release()
}
