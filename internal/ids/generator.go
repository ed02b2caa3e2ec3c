package ids

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
)

// Reference number prefixes, one per record collection.
const (
	PrefixUser         = "USR"
	PrefixOfficer      = "OFC"
	PrefixBlotter      = "BLT"
	PrefixAnnouncement = "ANN"
	PrefixSOS          = "SOS"
)

const (
	bodyAlphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz"
	bodyLength   = 10
	maxAttempts  = 10
)

// ErrSpaceExhausted is returned when every candidate collided. With a
// 62^10 body space this only happens under a broken random source or a
// pathological collision rate, so the loop is capped instead of unbounded.
var ErrSpaceExhausted = errors.New("identifier space exhausted")

// ExistenceChecker reports whether a reference number is already taken in
// the owning collection. The check is a fast path: the storage layer's
// unique constraint remains the authoritative guarantee under concurrent
// inserts.
type ExistenceChecker interface {
	NumberExists(ctx context.Context, number string) (bool, error)
}

// Generator produces short human-readable reference numbers of the form
// PREFIX-XXXXXXXXXX and retries until an unused one is found.
type Generator struct {
	prefix string
	store  ExistenceChecker
}

func NewGenerator(prefix string, store ExistenceChecker) *Generator {
	return &Generator{prefix: prefix, store: store}
}

func (g *Generator) Generate(ctx context.Context) (string, error) {
	for attempt := 0; attempt < maxAttempts; attempt++ {
		candidate, err := g.candidate()
		if err != nil {
			return "", err
		}
		exists, err := g.store.NumberExists(ctx, candidate)
		if err != nil {
			return "", fmt.Errorf("check number %s: %w", candidate, err)
		}
		if !exists {
			return candidate, nil
		}
	}
	return "", ErrSpaceExhausted
}

func (g *Generator) candidate() (string, error) {
	buf := make([]byte, bodyLength)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("read random: %w", err)
	}
	for i, b := range buf {
		buf[i] = bodyAlphabet[int(b)%len(bodyAlphabet)]
	}
	return g.prefix + "-" + string(buf), nil
}
