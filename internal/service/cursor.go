package service

import (
	"encoding/base64"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/zubaerSumon/ileap-sub000/internal/apperr"
	"github.com/zubaerSumon/ileap-sub000/internal/repository"
)

// Cursors encode the (created_at, id) of the last returned message, so the
// next page is bounded by a stable sort key instead of a row offset and
// concurrent inserts cannot skip or duplicate rows.

func encodeCursor(at time.Time, id string) string {
	raw := strconv.FormatInt(at.UnixNano(), 10) + ":" + id
	return base64.RawURLEncoding.EncodeToString([]byte(raw))
}

func decodeCursor(s string) (*repository.Cursor, error) {
	if s == "" {
		return nil, nil
	}
	raw, err := base64.RawURLEncoding.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("malformed cursor: %w", apperr.ErrInvalid)
	}
	nanos, id, ok := strings.Cut(string(raw), ":")
	if !ok || id == "" {
		return nil, fmt.Errorf("malformed cursor: %w", apperr.ErrInvalid)
	}
	n, err := strconv.ParseInt(nanos, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("malformed cursor: %w", apperr.ErrInvalid)
	}
	return &repository.Cursor{At: time.Unix(0, n).UTC(), ID: id}, nil
}
