package serialization

import "encoding/binary"

// Format constants.
const (
	MagicBytes    = "DNET"
	FormatVersion = 1
	ChecksumSize  = 32 // SHA-256

	// headerSize covers magic, version and stage count.
	headerSize = 12
)

// DefaultExtension is the conventional model file extension.
const DefaultExtension = ".dnet"

var order = binary.LittleEndian
