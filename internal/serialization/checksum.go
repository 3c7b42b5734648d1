package serialization

import (
	"crypto/sha256"
)

// ComputeChecksum computes SHA-256 checksum of data.
func ComputeChecksum(data []byte) [ChecksumSize]byte {
	return sha256.Sum256(data)
}

// ValidateChecksum compares computed checksum against stored checksum.
// Returns ErrChecksumMismatch if they don't match.
func ValidateChecksum(computed, stored [ChecksumSize]byte) error {
	if computed != stored {
		return ErrChecksumMismatch
	}
	return nil
}

// splitChecksum separates the payload from its trailing checksum.
func splitChecksum(data []byte) ([]byte, [ChecksumSize]byte, error) {
	var stored [ChecksumSize]byte
	if len(data) < headerSize+ChecksumSize {
		return nil, stored, ErrTruncated
	}
	payload := data[:len(data)-ChecksumSize]
	copy(stored[:], data[len(payload):])
	return payload, stored, nil
}
