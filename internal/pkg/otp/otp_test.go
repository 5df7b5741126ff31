package otp

import (
	"bytes"
	"errors"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) { return 0, errors.New("entropy unavailable") }

func TestGenerate_DefaultLengthInRange(t *testing.T) {
	g, err := NewGenerator(DefaultLength, nil)
	require.NoError(t, err)

	for i := 0; i < 200; i++ {
		code, err := g.Generate()
		require.NoError(t, err)
		require.Len(t, code, 6)
		n, err := strconv.Atoi(code)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, n, 100000)
		assert.LessOrEqual(t, n, 999999)
	}
}

func TestGenerate_FailsClosedOnReaderError(t *testing.T) {
	g, err := NewGenerator(DefaultLength, failingReader{})
	require.NoError(t, err)

	code, err := g.Generate()
	require.Error(t, err)
	assert.Empty(t, code)
}

func TestGenerate_ZeroReaderYieldsLowerBound(t *testing.T) {
	// An all-zero stream makes rand.Int return 0, so the result is 10^(L-1).
	g, err := NewGenerator(4, bytes.NewReader(make([]byte, 64)))
	require.NoError(t, err)

	code, err := g.Generate()
	require.NoError(t, err)
	assert.Equal(t, "1000", code)
}

func TestNewGenerator_RejectsBadLength(t *testing.T) {
	_, err := NewGenerator(0, nil)
	assert.Error(t, err)
	_, err = NewGenerator(19, nil)
	assert.Error(t, err)
}

func TestGenerate_SingleDigit(t *testing.T) {
	g, err := NewGenerator(1, nil)
	require.NoError(t, err)
	code, err := g.Generate()
	require.NoError(t, err)
	assert.Len(t, code, 1)
	assert.NotEqual(t, "0", code)
}
