package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
)

// hashKey builds the cache key for one derivation stage: the stage name
// ("strips", "artifact") followed by a sha256 over the design content hash
// and the stage's parameter struct, JSON-encoded. The hash is kept at full
// length; designs that differ anywhere must never share a key.
func hashKey(stage string, parts ...any) string {
	data, _ := json.Marshal(parts)
	sum := sha256.Sum256(data)
	return stage + ":" + hex.EncodeToString(sum[:])
}

// Hash returns the hex sha256 of data. Design documents are hashed this way
// to content-address every result derived from them.
func Hash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}
