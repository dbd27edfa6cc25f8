package blockindex

import (
	"fmt"
	"io"

	"github.com/healcoin/healcoin/model/block"
	"github.com/healcoin/healcoin/util"
	"github.com/pkg/errors"
)

/**
 * The block chain is a tree shaped structure starting with the genesis block at
 * the root, with each block potentially having multiple candidates to be the
 * next block. A blockIndex may have multiple prev pointing to it, but at most
 * one of them can be part of the currently active branch.
 */
type BlockIndex struct {
	Header block.BlockHeader
	// cached hash of Header
	blockHash util.Hash
	// pointer to the index of the predecessor of this block
	Prev *BlockIndex
	// pointer to the index of some further predecessor of this block
	Skip *BlockIndex
	// height of the entry in the chain. The genesis block has height 0
	Height int32
	// Number of transactions in this block.
	TxCount int32
	// (memory only) Number of transactions in the chain up to and including
	// this block. Non-zero only if transactions for this block and all its
	// parents are available.
	ChainTxCount int64
	// (memory only) Maximum time in the chain upto and including this block.
	TimeMax uint32
	// (memory only) Validity flags, see StatusFailed.
	Status uint32
}

const (
	// StatusFailed marks a block that conflicts with a checkpoint.
	StatusFailed uint32 = 32
	// StatusFailedParent marks a block descending from a failed block.
	StatusFailedParent uint32 = 64
	StatusFailedMask         = StatusFailed | StatusFailedParent
)

// clientVersion prefixes every stored record.
const clientVersion uint32 = 160000

func NewBlockIndex(blkHeader *block.BlockHeader) *BlockIndex {
	bIndex := new(BlockIndex)
	bIndex.Header = *blkHeader
	bIndex.blockHash = blkHeader.GetHash()
	return bIndex
}

func (bIndex *BlockIndex) GetBlockHash() *util.Hash {
	return &bIndex.blockHash
}

// GetBlockTime returns the header timestamp in unix seconds.
func (bIndex *BlockIndex) GetBlockTime() int64 {
	return bIndex.Header.GetBlockTime()
}

// Failed reports whether the block or one of its ancestors was refused.
func (bIndex *BlockIndex) Failed() bool {
	return bIndex.Status&StatusFailedMask != 0
}

func (bIndex *BlockIndex) AddStatus(status uint32) {
	bIndex.Status |= status
}

func (bIndex *BlockIndex) IsGenesis() bool {
	return bIndex.Height == 0 && bIndex.Header.HashPrevBlock.IsNull()
}

// BuildSkip sets Skip once Prev and Height are known.
func (bIndex *BlockIndex) BuildSkip() {
	if bIndex.Prev != nil {
		bIndex.Skip = bIndex.Prev.GetAncestor(getSkipHeight(bIndex.Height))
	}
}

// Turn the lowest '1' bit in the binary representation of a number into a '0'.
func invertLowestOne(n int32) int32 {
	return n & (n - 1)
}

// getSkipHeight Compute what height to jump back to with the Skip pointer.
func getSkipHeight(height int32) int32 {
	if height < 2 {
		return 0
	}

	// Any number strictly lower than height is acceptable, but the following
	// expression seems to perform well in simulations (max 110 steps to go
	// back up to 2**18 blocks).
	if (height & 1) > 0 {
		return invertLowestOne(invertLowestOne(height-1)) + 1
	}
	return invertLowestOne(height)
}

// GetAncestor efficiently find an ancestor of this block.
func (bIndex *BlockIndex) GetAncestor(height int32) *BlockIndex {
	if height > bIndex.Height || height < 0 {
		return nil
	}
	indexWalk := bIndex
	heightWalk := bIndex.Height
	for heightWalk > height {
		heightSkip := getSkipHeight(heightWalk)
		heightSkipPrev := getSkipHeight(heightWalk - 1)
		if indexWalk.Skip != nil && (heightSkip == height ||
			(heightSkip > height && !(heightSkipPrev < heightSkip-2 && heightSkipPrev >= height))) {
			// Only follow skip if prev->skip isn't better than skip->prev.
			indexWalk = indexWalk.Skip
			heightWalk = heightSkip
		} else {
			if indexWalk.Prev == nil {
				return nil
			}
			indexWalk = indexWalk.Prev
			heightWalk--
		}
	}

	return indexWalk
}

func (bIndex *BlockIndex) String() string {
	return fmt.Sprintf("BlockIndex(pprev=%p, height=%d, merkle=%s, hashBlock=%s)", bIndex.Prev,
		bIndex.Height, bIndex.Header.MerkleRoot, bIndex.GetBlockHash())
}

// Serialize writes the persistent part of the index: height, tx count and
// header. Memory only fields are rebuilt on load.
func (bIndex *BlockIndex) Serialize(w io.Writer) error {
	if err := util.WriteElements(w, clientVersion, bIndex.Height, bIndex.TxCount); err != nil {
		return err
	}
	return bIndex.Header.Serialize(w)
}

func (bIndex *BlockIndex) Unserialize(r io.Reader) error {
	var version uint32
	if err := util.ReadElements(r, &version, &bIndex.Height, &bIndex.TxCount); err != nil {
		return err
	}
	if version != clientVersion {
		return errors.Errorf("unsupported block index version %d", version)
	}
	if err := bIndex.Header.Unserialize(r); err != nil {
		return err
	}
	bIndex.blockHash = bIndex.Header.GetHash()
	return nil
}
