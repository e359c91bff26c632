package spy

import (
	"strconv"
	"sync"

	"github.com/google/uuid"
)

// TokenGenerator produces cycle tokens for diagnostic correlation. Every
// admitted event's dispatch cycle gets one token; diagnostics reported
// during the cycle carry it.
//
// Implemented by UUIDv7Generator (production) and FixedGenerator (tests).
type TokenGenerator interface {
	Generate() string
}

// UUIDv7Generator generates time-sortable UUIDv7 cycle tokens.
//
// UUIDv7 embeds a timestamp in the most significant bits, so tokens sort
// by cycle creation time - helpful when grepping diagnostics for one
// instrumentation run.
//
// Thread-safety: stateless and safe for concurrent use.
type UUIDv7Generator struct{}

// Generate creates a new UUIDv7 and returns it as a hyphenated string.
// Panics if UUID generation fails (should never happen in practice).
func (UUIDv7Generator) Generate() string {
	return uuid.Must(uuid.NewV7()).String()
}

// FixedGenerator returns predetermined tokens for testing, enabling
// deterministic diagnostic output and golden comparison.
//
// Thread-safety: safe for concurrent use via internal mutex.
type FixedGenerator struct {
	mu     sync.Mutex
	tokens []string
	idx    int
}

// NewFixedGenerator creates a generator that returns tokens in order.
// Generate panics once all tokens are consumed - fail-fast for test
// misconfiguration (more cycles ran than the test expected).
func NewFixedGenerator(tokens ...string) *FixedGenerator {
	return &FixedGenerator{tokens: tokens}
}

// Generate returns the next predetermined token.
func (g *FixedGenerator) Generate() string {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.idx >= len(g.tokens) {
		panic("FixedGenerator: all tokens exhausted")
	}
	token := g.tokens[g.idx]
	g.idx++
	return token
}

// PrefixGenerator returns "<prefix>-1", "<prefix>-2", ... without a
// preset bound. Useful for replay output where the exact cycle count is
// part of what the test is checking.
type PrefixGenerator struct {
	mu     sync.Mutex
	prefix string
	n      int
}

// NewPrefixGenerator creates a PrefixGenerator.
func NewPrefixGenerator(prefix string) *PrefixGenerator {
	return &PrefixGenerator{prefix: prefix}
}

// Generate returns the next numbered token.
func (g *PrefixGenerator) Generate() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.n++
	return g.prefix + "-" + strconv.Itoa(g.n)
}
