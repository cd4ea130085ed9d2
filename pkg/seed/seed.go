// Package seed derives the deterministic RNG seed written into coupler
// configs.
//
// The seed is the CRC-32 (IEEE) checksum of the output path reinterpreted as
// a signed 32-bit integer. Identical paths always yield identical seeds, and
// two unrelated configurations written to the same path share a seed; both
// are intended. The path string is used exactly as written, so "./out/a.cfg"
// and "out/a.cfg" give different seeds.
package seed

import "hash/crc32"

// FromPath returns the signed seed for path.
func FromPath(path string) int32 {
	return Signed(crc32.ChecksumIEEE([]byte(path)))
}

// Signed maps an unsigned checksum onto the int32 range, wrapping values
// above 0x7fffffff by subtracting 2^32.
func Signed(sum uint32) int32 {
	return int32(sum)
}
