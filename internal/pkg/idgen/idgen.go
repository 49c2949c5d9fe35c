// Package idgen provides ID generation utilities
package idgen

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/oklog/ulid/v2"

	"github.com/KirkDiggler/rpg-session/internal/errors"
)

// Generator generates unique identifiers
type Generator interface {
	Generate() string
}

// ID styles accepted by New
const (
	StyleShort = "short"
	StyleULID  = "ulid"
	StyleUUID  = "uuid"
)

// Styles lists every style New understands
var Styles = []string{StyleShort, StyleULID, StyleUUID}

// New returns the generator for the given style
func New(style string) (Generator, error) {
	switch style {
	case StyleShort, "":
		return NewShort(), nil
	case StyleULID:
		return NewULID(), nil
	case StyleUUID:
		return NewUUID(""), nil
	default:
		return nil, errors.InvalidArgumentf("unknown id style %q", style)
	}
}

const (
	shortAlphabet = "0123456789abcdefghijklmnopqrstuvwxyz"
	shortLength   = 9
)

// ShortGenerator produces 9 character base36 identifiers. They are unique
// enough among the entities of a single session, which is all a local
// tracker needs.
type ShortGenerator struct{}

// NewShort creates a short id generator
func NewShort() *ShortGenerator {
	return &ShortGenerator{}
}

// Generate creates a new short ID
func (g *ShortGenerator) Generate() string {
	buf := make([]byte, shortLength)
	limit := big.NewInt(int64(len(shortAlphabet)))
	for i := range buf {
		n, err := rand.Int(rand.Reader, limit)
		if err != nil {
			// crypto/rand should never fail on a properly configured system
			panic(fmt.Sprintf("crypto/rand.Int failed: %v", err))
		}
		buf[i] = shortAlphabet[n.Int64()]
	}
	return string(buf)
}

// ULIDGenerator generates lexically sortable ULIDs
type ULIDGenerator struct {
	mu      sync.Mutex
	entropy *ulid.MonotonicEntropy
}

// NewULID creates a ULID generator with monotonic entropy
func NewULID() *ULIDGenerator {
	return &ULIDGenerator{entropy: ulid.Monotonic(rand.Reader, 0)}
}

// Generate creates a new ULID string
func (g *ULIDGenerator) Generate() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return ulid.MustNew(ulid.Timestamp(time.Now()), g.entropy).String()
}

// SequentialGenerator generates sequential IDs for testing
type SequentialGenerator struct {
	prefix  string
	counter uint64
}

// NewSequential creates a new sequential generator
func NewSequential(prefix string) *SequentialGenerator {
	return &SequentialGenerator{prefix: prefix}
}

// Generate creates a new sequential ID
func (g *SequentialGenerator) Generate() string {
	n := atomic.AddUint64(&g.counter, 1)
	if g.prefix != "" {
		return fmt.Sprintf("%s_%d", g.prefix, n)
	}
	return fmt.Sprintf("%d", n)
}

// UUIDGenerator generates UUIDs with optional prefix
type UUIDGenerator struct {
	prefix string
}

// NewUUID creates a new UUID generator with optional prefix
func NewUUID(prefix string) *UUIDGenerator {
	return &UUIDGenerator{prefix: prefix}
}

// Generate creates a new UUID-based ID
func (g *UUIDGenerator) Generate() string {
	id := uuid.New().String()
	if g.prefix != "" {
		return fmt.Sprintf("%s_%s", g.prefix, id)
	}
	return id
}
