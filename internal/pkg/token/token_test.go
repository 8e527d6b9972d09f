//go:build unit

package token_test

import (
	"testing"

	"hotel-reservation-engine/internal/pkg/token"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerate(t *testing.T) {
	a, err := token.Generate()
	require.NoError(t, err)
	b, err := token.Generate()
	require.NoError(t, err)

	assert.Len(t, a, 64)
	assert.NotEqual(t, a, b)
}

func TestHashAndCompare(t *testing.T) {
	raw, err := token.Generate()
	require.NoError(t, err)

	hashed, err := token.Hash(raw)
	require.NoError(t, err)
	assert.NotEqual(t, raw, hashed)

	testCases := []struct {
		name   string
		hashed string
		raw    string
		errIs  error
	}{
		{name: "matching token", hashed: hashed, raw: raw},
		{name: "wrong token", hashed: hashed, raw: raw[:63] + "x", errIs: token.ErrMismatch},
		{name: "consumed token", hashed: "", raw: raw, errIs: token.ErrEmpty},
		{name: "missing token", hashed: hashed, raw: "", errIs: token.ErrEmpty},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			err := token.Compare(tc.hashed, tc.raw)
			if tc.errIs != nil {
				assert.ErrorIs(t, err, tc.errIs)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestHash_Empty(t *testing.T) {
	_, err := token.Hash("")
	assert.ErrorIs(t, err, token.ErrEmpty)
}
