package blockindex

import "github.com/healcoin/healcoin/util"

// IndexMap maps block hashes to their index entries.
type IndexMap map[util.Hash]*BlockIndex

func (m IndexMap) FindBlockIndex(hash util.Hash) *BlockIndex {
	return m[hash]
}

func (m IndexMap) Add(bIndex *BlockIndex) {
	m[*bIndex.GetBlockHash()] = bIndex
}
