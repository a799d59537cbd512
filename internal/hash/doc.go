// Package hash provides the checksum used to verify knowledge base snapshots.
//
// Snapshots carry a CRC32-Castagnoli (CRC32C) trailer computed over the
// uncompressed body:
//
//	h := hash.NewCRC32C()
//	h.Write(chunk1)
//	h.Write(chunk2)
//	checksum := h.Sum32()
package hash
