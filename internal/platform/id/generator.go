package id

import (
	"crypto/rand"
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"regexp"
	"time"
)

// Generator creates opaque IDs suitable for external references.
type Generator interface {
	NewID() (string, error)
}

var serverIDRegex = regexp.MustCompile(`^[0-9a-f]{24}$`)

// LooksLikeServerID reports whether value has the 24-char lowercase hex
// shape of a server-assigned identifier. Collection records written by
// older clients rely on this shape check instead of a persisted sync state.
func LooksLikeServerID(value string) bool {
	return serverIDRegex.MatchString(value)
}

// LocalGenerator produces client-side identifiers: unix milliseconds plus
// a short random suffix to avoid collisions across rapid saves.
type LocalGenerator struct{}

func NewLocalGenerator() *LocalGenerator {
	return &LocalGenerator{}
}

func (g *LocalGenerator) NewID() (string, error) {
	buf := make([]byte, 4)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("read random bytes: %w", err)
	}

	return fmt.Sprintf("%d-%s", time.Now().UnixMilli(), hex.EncodeToString(buf)), nil
}

// ServerGenerator produces 24-char hex identifiers: a 4-byte unix-seconds
// prefix followed by 8 random bytes.
type ServerGenerator struct{}

func NewServerGenerator() *ServerGenerator {
	return &ServerGenerator{}
}

func (g *ServerGenerator) NewID() (string, error) {
	buf := make([]byte, 12)
	binary.BigEndian.PutUint32(buf[:4], uint32(time.Now().Unix()))
	if _, err := rand.Read(buf[4:]); err != nil {
		return "", fmt.Errorf("read random bytes: %w", err)
	}

	return hex.EncodeToString(buf), nil
}
