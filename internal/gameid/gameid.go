// Package gameid generates sortable round identifiers: a UUIDv7 rendered as
// 26 characters of Crockford base32, TypeID style.
package gameid

import (
	"fmt"
	"io"
	"strings"

	"github.com/google/uuid"
)

// Base32 alphabet used by TypeID (Crockford's base32)
const alphabet = "0123456789abcdefghjkmnpqrstvwxyz"

// Generator creates ids, optionally drawing randomness from a fixed reader
type Generator struct {
	rand io.Reader
}

// NewGenerator creates a generator. A nil reader uses crypto randomness.
func NewGenerator(r io.Reader) *Generator {
	return &Generator{rand: r}
}

// Generate creates a new id using crypto randomness
func Generate() string {
	return NewGenerator(nil).Generate()
}

// Generate creates a new id. It panics only if the random reader fails.
func (g *Generator) Generate() string {
	var (
		id  uuid.UUID
		err error
	)
	if g.rand != nil {
		id, err = uuid.NewV7FromReader(g.rand)
	} else {
		id, err = uuid.NewV7()
	}
	if err != nil {
		panic("failed to generate uuidv7: " + err.Error())
	}
	return encodeBase32(id)
}

// encodeBase32 encodes 128 bits as 26 base32 characters, treating the input
// as a 130-bit number with two leading zero bits.
func encodeBase32(data [16]byte) string {
	bit := func(pos int) uint8 {
		if pos < 0 {
			return 0
		}
		return (data[pos/8] >> (7 - pos%8)) & 1
	}

	result := make([]byte, 26)
	for i := range result {
		var value uint8
		start := i*5 - 2
		for b := 0; b < 5; b++ {
			value = value<<1 | bit(start+b)
		}
		result[i] = alphabet[value]
	}
	return string(result)
}

// Validate checks if an id is valid (26 characters, valid base32)
func Validate(id string) error {
	if len(id) != 26 {
		return fmt.Errorf("round ID must be exactly 26 characters, got %d", len(id))
	}

	// The two leading pad bits are zero, so the first character is at most 7
	if id[0] > '7' {
		return fmt.Errorf("round ID first character must be 0-7, got %c", id[0])
	}

	for i, char := range id {
		if !strings.ContainsRune(alphabet, char) {
			return fmt.Errorf("invalid character %c at position %d", char, i)
		}
	}

	return nil
}
