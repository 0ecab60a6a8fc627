package util

import (
	"fmt"
	"hash/fnv"
	"strings"
)

// StableID derives an external id for listings whose provider supplies none.
// It hashes normalized title|company|location so re-fetching the same posting
// maps to the same key and the store's unique-key check dedupes it. FNV, not
// a cryptographic hash; two practically identical postings are supposed to
// collide.
func StableID(title, company, location string) string {
	norm := strings.ToLower(strings.TrimSpace(title)) + "|" +
		strings.ToLower(strings.TrimSpace(company)) + "|" +
		strings.ToLower(strings.TrimSpace(location))

	h := fnv.New64a()
	_, _ = h.Write([]byte(norm))
	return fmt.Sprintf("%016x", h.Sum64())
}
