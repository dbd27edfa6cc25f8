package crypto

import (
	"github.com/healcoin/healcoin/util"
	"github.com/minio/sha256-simd"
)

// DoubleSha256Hash returns sha256(sha256(b)), the block hash function.
func DoubleSha256Hash(b []byte) util.Hash {
	first := sha256.Sum256(b)
	return util.Hash(sha256.Sum256(first[:]))
}
