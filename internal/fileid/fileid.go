// Package fileid provides deterministic fingerprints for uploaded files.
package fileid

import (
	"crypto/sha256"
	"encoding/hex"
)

const prefix = "sha256:"

// Checksum returns a stable fingerprint of content. Identical uploads always yield the same
// value, whatever their file name.
func Checksum(content []byte) string {
	hash := sha256.Sum256(content)
	return prefix + hex.EncodeToString(hash[:])
}
