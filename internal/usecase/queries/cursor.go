package queries

import (
	"encoding/base64"
	"strconv"
	"strings"
	"time"

	"hotel-reservation-engine/internal/pkg/errs"

	"github.com/google/uuid"
)

const (
	MaxListLimit     = 200
	DefaultListLimit = 20
	CursorVersionV1  = "v1"
)

var ErrInvalidCursor = errs.Validation("invalid cursor")

// Cursor marks the last row of a page ordered by created_at DESC, id DESC.
type Cursor struct {
	CreatedAt time.Time
	ID        uuid.UUID
}

// Uses microsecond precision to align with PostgreSQL timestamp precision
func EncodeCursor(c Cursor) string {
	raw := CursorVersionV1 + ":" + strconv.FormatInt(c.CreatedAt.UnixMicro(), 10) + "-" + c.ID.String()
	return base64.RawURLEncoding.EncodeToString([]byte(raw))
}

func DecodeCursor(s string) (*Cursor, error) {
	if s == "" {
		return nil, nil
	}
	decoded, err := base64.RawURLEncoding.DecodeString(s)
	if err != nil {
		return nil, errs.Wrap(ErrInvalidCursor, "decode")
	}
	payload, ok := strings.CutPrefix(string(decoded), CursorVersionV1+":")
	if !ok {
		return nil, errs.Wrap(ErrInvalidCursor, "unknown version")
	}

	micros, rawID, ok := strings.Cut(payload, "-")
	if !ok {
		return nil, errs.Wrap(ErrInvalidCursor, "expected '<micros>-<uuid>'")
	}
	ts, err := strconv.ParseInt(micros, 10, 64)
	if err != nil {
		return nil, errs.Wrap(ErrInvalidCursor, "timestamp")
	}
	id, err := uuid.Parse(rawID)
	if err != nil {
		return nil, errs.Wrap(ErrInvalidCursor, "id")
	}
	return &Cursor{CreatedAt: time.UnixMicro(ts).UTC(), ID: id}, nil
}

func ValidateLimit(limit int) int {
	if limit <= 0 {
		return DefaultListLimit
	}
	if limit > MaxListLimit {
		return MaxListLimit
	}
	return limit
}
