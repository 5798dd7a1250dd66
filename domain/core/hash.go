package core

import (
	"crypto/sha256"
	"encoding/hex"
	"strconv"
	"strings"
)

// Hash represents a cryptographic hash
type Hash string

// NewHash creates a new hash from data
func NewHash(data []byte) Hash {
	sum := sha256.Sum256(data)
	return Hash(hex.EncodeToString(sum[:]))
}

// String returns the string representation
func (h Hash) String() string {
	return string(h)
}

// IsEmpty checks if the hash is empty
func (h Hash) IsEmpty() bool {
	return h == ""
}

// Equals checks if two hashes are equal
func (h Hash) Equals(other Hash) bool {
	return h == other
}

// DatasetHash fingerprints a dataset's response counts
type DatasetHash Hash

// NewDatasetHash creates a dataset hash from raw data
func NewDatasetHash(data []byte) DatasetHash { return DatasetHash(NewHash(data)) }

// String conversion
func (h DatasetHash) String() string { return Hash(h).String() }

// ComputeDatasetHash fingerprints a pair of response-count vectors so that
// batch results can be traced back to their exact inputs.
func ComputeDatasetHash(nRS1, nRS2 []float64) DatasetHash {
	var data strings.Builder
	for _, v := range nRS1 {
		data.WriteString(strconv.FormatFloat(v, 'g', -1, 64))
		data.WriteByte(',')
	}
	data.WriteByte('|')
	for _, v := range nRS2 {
		data.WriteString(strconv.FormatFloat(v, 'g', -1, 64))
		data.WriteByte(',')
	}
	return NewDatasetHash([]byte(data.String()))
}
