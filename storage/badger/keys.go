package badger

import (
	"encoding/binary"
	"fmt"
	"time"
)

// Key prefixes for different data types
const (
	documentPrefix    = "docrec"
	chatEntryPrefix   = "chatmem"
	cacheEntryPrefix  = "cacheent"
	cacheDocIdxPrefix = "cachedoc"
)

// makeDocumentKey generates a key for a document by name.
func makeDocumentKey(name string) []byte {
	return []byte(fmt.Sprintf("%s:%s", documentPrefix, name))
}

// makeChatEntryKey generates a composite key for a chat entry.
// Format: prefix:chatID:timestamp:disambiguator
// The timestamp is written BigEndian so lexicographic sort matches time order
// within one conversation; the disambiguator keeps two entries written in the
// same microsecond from colliding.
func makeChatEntryKey(chatID string, timestamp time.Time, disambiguator string) []byte {
	prefix := fmt.Sprintf("%s:%s:", chatEntryPrefix, chatID)
	buf := make([]byte, len(prefix)+8+len(disambiguator))
	offset := copy(buf, []byte(prefix))
	binary.BigEndian.PutUint64(buf[offset:], uint64(timestamp.UnixMicro()))
	offset += 8
	copy(buf[offset:], []byte(disambiguator))
	return buf
}

// makeChatPrefix generates the common prefix of all entries in one chat.
func makeChatPrefix(chatID string) []byte {
	return []byte(fmt.Sprintf("%s:%s:", chatEntryPrefix, chatID))
}

// makeCacheEntryKey generates a key for a cache entry.
func makeCacheEntryKey(key string) []byte {
	return []byte(fmt.Sprintf("%s:%s", cacheEntryPrefix, key))
}

// makeCacheDocIdxKey generates a composite key recording that a cache entry
// was derived from a document.
// Format: prefix:docName:cacheKey
func makeCacheDocIdxKey(docName, cacheKey string) []byte {
	return []byte(fmt.Sprintf("%s:%s:%s", cacheDocIdxPrefix, docName, cacheKey))
}

// makeCacheDocIdxPrefix generates the common prefix of all index entries for
// one document.
func makeCacheDocIdxPrefix(docName string) []byte {
	return []byte(fmt.Sprintf("%s:%s:", cacheDocIdxPrefix, docName))
}
