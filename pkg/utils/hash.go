package utils

import (
	"crypto/md5"
	"fmt"
	"strings"
)

// HashStrings joins the parts with an unambiguous separator and returns the
// md5 hex digest, suitable for cache keys.
func HashStrings(parts ...string) string {
	hash := md5.Sum([]byte(strings.Join(parts, "|")))
	return fmt.Sprintf("%x", hash)
}
