// Package confirmation produces customer-facing booking references of the
// form PREFIX-<12 hex chars>-<unix seconds>. Codes are unique with
// overwhelming probability and are never used for authorization.
package confirmation

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"io"
	"strings"
	"time"
)

const (
	DefaultPrefix = "BOOK"
	randomBytes   = 6
)

type Generator interface {
	Generate() (string, error)
}

type CodeGenerator struct {
	prefix string
	random io.Reader
	now    func() time.Time
}

type Option func(*CodeGenerator)

// WithRandom replaces crypto/rand as the source of the random block.
func WithRandom(r io.Reader) Option {
	return func(g *CodeGenerator) {
		g.random = r
	}
}

func WithClock(now func() time.Time) Option {
	return func(g *CodeGenerator) {
		g.now = now
	}
}

func NewGenerator(prefix string, opts ...Option) *CodeGenerator {
	prefix = strings.ToUpper(strings.TrimSpace(prefix))
	if prefix == "" {
		prefix = DefaultPrefix
	}
	g := &CodeGenerator{
		prefix: prefix,
		random: rand.Reader,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

func (g *CodeGenerator) Generate() (string, error) {
	buf := make([]byte, randomBytes)
	if _, err := io.ReadFull(g.random, buf); err != nil {
		return "", fmt.Errorf("read random bytes: %w", err)
	}
	return fmt.Sprintf("%s-%s-%d", g.prefix, hex.EncodeToString(buf), g.now().Unix()), nil
}

var _ Generator = (*CodeGenerator)(nil)
