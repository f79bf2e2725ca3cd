package tgi

import "strings"

// Hash64 computes the 64-bit FNV-1 digest of a lowercased resource name,
// the convention for deriving instance ids from names.
func Hash64(name string) uint64 {
	const (
		fnvBasis = uint64(0xcbf29ce484222325)
		fnvPrime = uint64(0x00000100000001b3)
	)

	hash := fnvBasis
	for _, b := range []byte(strings.ToLower(name)) {
		hash *= fnvPrime
		hash ^= uint64(b)
	}

	return hash
}

// Hash32 computes the 32-bit FNV-1 digest of a lowercased resource name.
func Hash32(name string) uint32 {
	const (
		fnvBasis = uint32(0x811c9dc5)
		fnvPrime = uint32(0x01000193)
	)

	hash := fnvBasis
	for _, b := range []byte(strings.ToLower(name)) {
		hash *= fnvPrime
		hash ^= uint32(b)
	}

	return hash
}

// Hash24 folds the 32-bit digest into the 24-bit space used for group ids.
func Hash24(name string) uint32 {
	hash := Hash32(name)
	return (hash >> 24) ^ (hash & 0x00ffffff)
}
