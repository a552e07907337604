package docedit

import (
	"crypto/rand"
	"encoding/hex"
	"strings"

	"github.com/google/uuid"
)

// IDGenerator produces a candidate node ID. Generators do not need to
// guarantee uniqueness; IDAllocator redraws on collision.
type IDGenerator func() string

// HexID returns a random 4-hex-digit ID. 65536 possible values is plenty
// for the lifetime of a single edit request; these IDs are ephemeral and
// never persisted across requests.
func HexID() string {
	var b [2]byte
	rand.Read(b[:])
	return hex.EncodeToString(b[:])
}

// NewNodeID returns a short ID for a node the model introduced with [NEW]
// and no explicit tag.
func NewNodeID() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:4]
}

// IDAllocator hands out IDs that are unique within one request. It is not
// safe for concurrent use; every pipeline invocation gets its own allocator.
type IDAllocator struct {
	used map[string]struct{}
	gen  IDGenerator
}

func NewIDAllocator(gen IDGenerator) *IDAllocator {
	if gen == nil {
		gen = HexID
	}
	return &IDAllocator{
		used: make(map[string]struct{}),
		gen:  gen,
	}
}

// Next draws IDs until one is free, reserves it, and returns it.
func (a *IDAllocator) Next() string {
	for {
		id := a.gen()
		if _, taken := a.used[id]; !taken {
			a.used[id] = struct{}{}
			return id
		}
	}
}

// Reserve marks an ID already present on the tree so Next never reuses it.
func (a *IDAllocator) Reserve(id string) {
	if id != "" {
		a.used[id] = struct{}{}
	}
}
