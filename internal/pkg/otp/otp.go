package otp

import (
	"crypto/rand"
	"errors"
	"fmt"
	"io"
	"math/big"
)

// DefaultLength is the number of digits in a verification code.
const DefaultLength = 6

const maxLength = 18

// Generator produces fixed-length numeric codes uniformly drawn from
// [10^(L-1), 10^L-1]. It never falls back to a weaker source: a failing
// reader fails the call.
type Generator struct {
	length int
	min    *big.Int
	span   *big.Int
	rand   io.Reader
}

// NewGenerator returns a generator for codes of the given length. A nil
// reader selects crypto/rand.
func NewGenerator(length int, r io.Reader) (*Generator, error) {
	if length < 1 || length > maxLength {
		return nil, fmt.Errorf("otp length must be between 1 and %d, got %d", maxLength, length)
	}
	if r == nil {
		r = rand.Reader
	}
	lo := new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(length-1)), nil)
	hi := new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(length)), nil)
	return &Generator{
		length: length,
		min:    lo,
		span:   new(big.Int).Sub(hi, lo),
		rand:   r,
	}, nil
}

// Generate returns a new code.
func (g *Generator) Generate() (string, error) {
	if g.rand == nil {
		return "", errors.New("generate otp: no secure randomness source")
	}
	n, err := rand.Int(g.rand, g.span)
	if err != nil {
		return "", fmt.Errorf("generate otp: %w", err)
	}
	n.Add(n, g.min)
	return fmt.Sprintf("%0*d", g.length, n), nil
}

// Length reports the number of digits produced.
func (g *Generator) Length() int { return g.length }
