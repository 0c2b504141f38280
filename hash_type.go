package fsentity

import (
	"crypto/md5"
	"crypto/sha1"
	"crypto/sha256"
	"hash"
)

// HashType represents the type of hash algorithm
type HashType string

const (
	HashMD5    HashType = "md5"
	HashSHA1   HashType = "sha1"
	HashSHA256 HashType = "sha256"
)

func (t HashType) hasher() (hash.Hash, bool) {
	switch t {
	case HashMD5:
		return md5.New(), true
	case HashSHA1:
		return sha1.New(), true
	case HashSHA256:
		return sha256.New(), true
	default:
		return nil, false
	}
}
