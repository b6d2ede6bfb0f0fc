package utils

import (
	"strconv"

	"github.com/twmb/murmur3"
)

func HashString(s string) uint64 {
	return murmur3.StringSum64(s)
}

func HashStrings(ss []string) []uint64 {
	hashes := make([]uint64, len(ss))
	for i, s := range ss {
		hashes[i] = murmur3.StringSum64(s)
	}
	return hashes
}

// HashKeys builds "prefix:hash" keys, aligned with ss.
func HashKeys(prefix string, ss []string) []string {
	keys := make([]string, len(ss))
	for i, h := range HashStrings(ss) {
		keys[i] = prefix + ":" + strconv.FormatUint(h, 10)
	}
	return keys
}
