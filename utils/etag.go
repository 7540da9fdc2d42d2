package utils

import (
	"crypto/sha1"
	"encoding/hex"
	"strconv"
	"time"
)

// GenerateETag derives a weak validator from a document key and its last
// modification time.
func GenerateETag(key string, updatedAt time.Time) string {
	h := sha1.New()
	h.Write([]byte(key))
	h.Write([]byte{0})
	h.Write([]byte(strconv.FormatInt(updatedAt.UnixNano(), 10)))
	return `W/"` + hex.EncodeToString(h.Sum(nil))[:20] + `"`
}
