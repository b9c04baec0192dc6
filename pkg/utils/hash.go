package utils

import (
	"crypto/md5"
	"fmt"
)

// HashBytes fingerprints raw payloads (label images) for cache keys.
func HashBytes(input []byte) string {
	hash := md5.Sum(input)
	return fmt.Sprintf("%x", hash)
}
