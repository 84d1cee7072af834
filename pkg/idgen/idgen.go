package idgen

import (
	"fmt"
	"regexp"

	"github.com/bwmarrin/snowflake"
)

const (
	MinDigits = 4
	MaxDigits = 18
)

// Generator issues short fixed-width decimal order ids. The snowflake id is
// scrambled with a 64-bit bijection before it is cut to width, so every bit
// of timestamp, node and sequence reaches the kept digits. Uniqueness is
// still probabilistic and collisions are left to the store's primary key.
type Generator struct {
	node    *snowflake.Node
	digits  int
	modulus uint64
}

func New(nodeID int64, digits int) (*Generator, error) {
	if digits < MinDigits || digits > MaxDigits {
		return nil, fmt.Errorf("order id digits must be between %d and %d, got %d", MinDigits, MaxDigits, digits)
	}
	node, err := snowflake.NewNode(nodeID)
	if err != nil {
		return nil, fmt.Errorf("creating snowflake node: %w", err)
	}
	modulus := uint64(1)
	for i := 0; i < digits; i++ {
		modulus *= 10
	}
	return &Generator{node: node, digits: digits, modulus: modulus}, nil
}

// Next returns a new id zero-padded to the configured width.
func (g *Generator) Next() string {
	return g.format(g.node.Generate().Int64())
}

func (g *Generator) format(raw int64) string {
	return fmt.Sprintf("%0*d", g.digits, mix(uint64(raw))%g.modulus)
}

// mix is the splitmix64 finalizer. Low decimal digits of a raw snowflake
// repeat whenever the timestamp moves by a multiple of 5^digits ms with the
// same node and sequence; mixing first breaks that period.
func mix(z uint64) uint64 {
	z ^= z >> 30
	z *= 0xbf58476d1ce4e5b9
	z ^= z >> 27
	z *= 0x94d049bb133111eb
	z ^= z >> 31
	return z
}

var orderIDPattern = regexp.MustCompile(`^[0-9]{4,18}$`)

// Valid reports whether s is shaped like a generated order id.
func Valid(s string) bool {
	return orderIDPattern.MatchString(s)
}
