package blkdb

import (
	"bytes"

	"github.com/healcoin/healcoin/errcode"
	"github.com/healcoin/healcoin/log"
	"github.com/healcoin/healcoin/model/blockindex"
	"github.com/healcoin/healcoin/persist/db"
	"github.com/healcoin/healcoin/util"
	"github.com/pkg/errors"
)

// BlockTreeDB stores block index records keyed by 'b' + block hash.
type BlockTreeDB struct {
	dbw *db.DBWrapper
}

func NewBlockTreeDB(do *db.DBOption) (*BlockTreeDB, error) {
	dbw, err := db.NewDBWrapper(do)
	if err != nil {
		return nil, errors.Wrapf(errcode.New(errcode.ErrorOpenBlockIndexDB), "%v", err)
	}
	return &BlockTreeDB{dbw: dbw}, nil
}

func blockIndexKey(hash *util.Hash) []byte {
	key := make([]byte, 0, 1+util.Hash256Size)
	key = append(key, db.DbBlockIndex)
	return append(key, hash[:]...)
}

// WriteBlockIndexes stores indexes in one batch.
func (blockTreeDB *BlockTreeDB) WriteBlockIndexes(indexes []*blockindex.BlockIndex, sync bool) error {
	batch := db.NewBatchWrapper(blockTreeDB.dbw)
	buf := new(bytes.Buffer)
	for _, bi := range indexes {
		buf.Reset()
		if err := bi.Serialize(buf); err != nil {
			return errors.Wrapf(errcode.New(errcode.ErrorWriteBlockIndexDB), "%s: %v", bi.GetBlockHash(), err)
		}
		batch.Write(blockIndexKey(bi.GetBlockHash()), buf.Bytes())
	}
	if err := blockTreeDB.dbw.WriteBatch(batch, sync); err != nil {
		return errors.Wrapf(errcode.New(errcode.ErrorWriteBlockIndexDB), "%v", err)
	}
	log.Trace("WriteBlockIndexes: %d records", batch.Len())
	return nil
}

func (blockTreeDB *BlockTreeDB) WriteBestBlock(hash *util.Hash) error {
	if err := blockTreeDB.dbw.Write([]byte{db.DbBestBlock}, hash[:], true); err != nil {
		return errors.Wrapf(errcode.New(errcode.ErrorWriteBlockIndexDB), "%v", err)
	}
	return nil
}

// EraseBestBlock drops the best block record, e.g. when no stored block is
// usable as a tip.
func (blockTreeDB *BlockTreeDB) EraseBestBlock() error {
	if err := blockTreeDB.dbw.Erase([]byte{db.DbBestBlock}, true); err != nil {
		return errors.Wrapf(errcode.New(errcode.ErrorWriteBlockIndexDB), "%v", err)
	}
	return nil
}

// ReadBestBlock returns the stored best block hash, or nil if none was
// written yet.
func (blockTreeDB *BlockTreeDB) ReadBestBlock() (*util.Hash, error) {
	val, err := blockTreeDB.dbw.Read([]byte{db.DbBestBlock})
	if err == db.ErrNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrapf(errcode.New(errcode.ErrorReadBlockIndexDB), "%v", err)
	}
	hash := new(util.Hash)
	if err := hash.SetBytes(val); err != nil {
		return nil, errors.Wrapf(errcode.New(errcode.ErrorCorruptBlockIndex), "best block: %v", err)
	}
	return hash, nil
}

// LoadBlockIndexGuts reads every stored record into blkIdxMap. Entries are
// not linked; see lblockindex.LoadBlockIndexDB.
func (blockTreeDB *BlockTreeDB) LoadBlockIndexGuts(blkIdxMap blockindex.IndexMap) error {
	cursor := blockTreeDB.dbw.Iterator([]byte{db.DbBlockIndex})
	defer cursor.Close()

	for cursor.Next() {
		k := cursor.GetKey()
		bi := new(blockindex.BlockIndex)
		if err := bi.Unserialize(bytes.NewReader(cursor.GetVal())); err != nil {
			return errors.Wrapf(errcode.New(errcode.ErrorCorruptBlockIndex), "key %x: %v", k, err)
		}
		if !bytes.Equal(k[1:], bi.GetBlockHash()[:]) {
			return errors.Wrapf(errcode.New(errcode.ErrorCorruptBlockIndex),
				"key %x holds block %s", k, bi.GetBlockHash())
		}
		blkIdxMap.Add(bi)
	}
	if err := cursor.Error(); err != nil {
		return errors.Wrapf(errcode.New(errcode.ErrorReadBlockIndexDB), "%v", err)
	}
	log.Debug("LoadBlockIndexGuts: %d block indexes", len(blkIdxMap))
	return nil
}

func (blockTreeDB *BlockTreeDB) Close() error {
	return blockTreeDB.dbw.Close()
}
