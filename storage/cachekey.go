package storage

import (
	"slices"
	"strconv"
	"strings"

	"github.com/gcnlabs/regent/core"
)

// CacheKey derives a deterministic cache key from the semantically relevant
// inputs of an operation. The canonical form lowercases and trims the query
// and sorts the document list, so two logically identical requests collide on
// the same key regardless of argument order. Nothing time- or process-derived
// enters the key.
//
// The operation name is kept as a plain prefix so whole operation families
// can be dropped with Cache.InvalidatePrefix.
func CacheKey(op, query string, docNames []string, threshold float32) string {
	sorted := slices.Clone(docNames)
	slices.Sort(sorted)

	var b strings.Builder
	b.WriteString(op)
	b.WriteByte('\n')
	b.WriteString(strings.ToLower(strings.TrimSpace(query)))
	b.WriteByte('\n')
	b.WriteString(strings.Join(sorted, "\x1f"))
	b.WriteByte('\n')
	b.WriteString(strconv.FormatFloat(float64(threshold), 'f', -1, 32))

	return op + ":" + core.ContentDigest(b.String())
}
