//go:build unit

package queries_test

import (
	"encoding/base64"
	"testing"
	"time"

	"hotel-reservation-engine/internal/pkg/errs"
	"hotel-reservation-engine/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCursor_RoundTrip(t *testing.T) {
	in := queries.Cursor{
		CreatedAt: time.Date(2030, 5, 15, 9, 30, 15, 123456789, time.UTC),
		ID:        uuid.New(),
	}

	out, err := queries.DecodeCursor(queries.EncodeCursor(in))
	require.NoError(t, err)
	require.NotNil(t, out)
	assert.Equal(t, in.ID, out.ID)
	assert.True(t, in.CreatedAt.Truncate(time.Microsecond).Equal(out.CreatedAt), "microsecond precision")
}

func TestDecodeCursor_Invalid(t *testing.T) {
	enc := func(s string) string { return base64.RawURLEncoding.EncodeToString([]byte(s)) }

	testCases := []struct {
		name string
		raw  string
	}{
		{name: "not base64", raw: "***"},
		{name: "no version", raw: enc("1715765415000000-" + uuid.NewString())},
		{name: "future version", raw: enc("v2:1715765415000000-" + uuid.NewString())},
		{name: "missing separator", raw: enc("v1:1715765415000000")},
		{name: "bad timestamp", raw: enc("v1:yesterday-" + uuid.NewString())},
		{name: "bad id", raw: enc("v1:1715765415000000-abc")},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			c, err := queries.DecodeCursor(tc.raw)
			require.Error(t, err)
			assert.Nil(t, c)
			assert.True(t, errs.Is(err, queries.ErrInvalidCursor))
			assert.Equal(t, errs.CategoryValidation, errs.Classify(err))
		})
	}

	t.Run("empty means first page", func(t *testing.T) {
		c, err := queries.DecodeCursor("")
		require.NoError(t, err)
		assert.Nil(t, c)
	})
}

func TestValidateLimit(t *testing.T) {
	assert.Equal(t, queries.DefaultListLimit, queries.ValidateLimit(0))
	assert.Equal(t, queries.DefaultListLimit, queries.ValidateLimit(-5))
	assert.Equal(t, 50, queries.ValidateLimit(50))
	assert.Equal(t, queries.MaxListLimit, queries.ValidateLimit(queries.MaxListLimit+1))
}
