package util

import (
	"encoding/hex"
	"fmt"
	"io"
)

const (
	Hash256Size       = 32
	MaxHashStringSize = Hash256Size * 2
)

type Hash [Hash256Size]byte

var HashZero = Hash{}
var HashOne = Hash{0x01}

// String returns the hash in display order (byte reversed, hex encoded).
func (hash Hash) String() string {
	for i := 0; i < Hash256Size/2; i++ {
		hash[i], hash[Hash256Size-1-i] = hash[Hash256Size-1-i], hash[i]
	}
	return hex.EncodeToString(hash[:])
}

func (hash *Hash) Serialize(w io.Writer) (int, error) {
	return w.Write(hash[:])
}

func (hash *Hash) Unserialize(r io.Reader) (int, error) {
	return io.ReadFull(r, hash[:])
}

func (hash *Hash) SerializeSize() uint32 {
	return Hash256Size
}

func (hash *Hash) SetBytes(bytes []byte) error {
	length := len(bytes)
	if length != Hash256Size {
		return fmt.Errorf("invalid hash length of %v , want %v", length, Hash256Size)
	}
	copy(hash[:], bytes)
	return nil
}

func (hash *Hash) IsEqual(target *Hash) bool {
	if hash == nil && target == nil {
		return true
	}
	if hash == nil || target == nil {
		return false
	}
	return *hash == *target
}

func (hash *Hash) IsNull() bool {
	return *hash == HashZero
}

// GetHashFromStr parses a display order hex string. Short strings are
// zero padded on the left.
func GetHashFromStr(hashStr string) (*Hash, error) {
	bytes, err := DecodeHash(hashStr)
	if err != nil {
		return nil, err
	}
	hash := new(Hash)
	if err := hash.SetBytes(bytes); err != nil {
		return nil, err
	}
	return hash, nil
}

// GetHashFromStrStrict is GetHashFromStr for literals that must spell out
// the full hash: an optional 0x prefix and exactly 64 hex digits.
func GetHashFromStrStrict(hashStr string) (*Hash, error) {
	s := hashStr
	if len(s) >= 2 && s[0] == '0' && (s[1] == 'x' || s[1] == 'X') {
		s = s[2:]
	}
	if len(s) != MaxHashStringSize {
		return nil, fmt.Errorf("hash string %q has %d hex digits, want %d",
			hashStr, len(s), MaxHashStringSize)
	}
	return GetHashFromStr(s)
}

func DecodeHash(src string) ([]byte, error) {
	if len(src) > MaxHashStringSize {
		return nil, fmt.Errorf("max hash string length is %v bytes", MaxHashStringSize)
	}
	srcBytes := []byte(src)
	if len(src)%2 != 0 {
		srcBytes = make([]byte, 1+len(src))
		srcBytes[0] = '0'
		copy(srcBytes[1:], src)
	}
	reversedHash := make([]byte, Hash256Size)
	_, err := hex.Decode(reversedHash[Hash256Size-hex.DecodedLen(len(srcBytes)):], srcBytes)
	if err != nil {
		return nil, err
	}
	bytes := make([]byte, Hash256Size)
	for i, b := range reversedHash[:Hash256Size/2] {
		bytes[i], bytes[Hash256Size-1-i] = reversedHash[Hash256Size-1-i], b
	}
	return bytes, nil
}

// HashFromString is GetHashFromStr for compile time constants; it panics on
// malformed input.
func HashFromString(hexString string) *Hash {
	hash, err := GetHashFromStr(hexString)
	if err != nil {
		panic(err)
	}
	return hash
}
