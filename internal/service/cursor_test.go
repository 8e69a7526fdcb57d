package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/zubaerSumon/ileap-sub000/internal/apperr"
)

func TestCursorRoundTrip(t *testing.T) {
	req := require.New(t)
	at := time.Date(2026, 8, 15, 10, 30, 0, 123456789, time.UTC)

	c, err := decodeCursor(encodeCursor(at, "msg-42"))
	req.NoError(err)
	req.True(c.At.Equal(at))
	req.Equal("msg-42", c.ID)
}

func TestDecodeCursor(t *testing.T) {
	tests := []struct {
		description string
		in          string
		wantErr     bool
	}{
		{"Empty cursor means no boundary", "", false},
		{"Garbage is rejected", "!!!", true},
		{"Valid base64 without separator is rejected", "aGVsbG8", true},
		{"Non-numeric timestamp is rejected", "bm9wZTppZA", true},
	}
	for _, tc := range tests {
		t.Run(tc.description, func(t *testing.T) {
			c, err := decodeCursor(tc.in)
			if tc.wantErr {
				require.ErrorIs(t, err, apperr.ErrInvalid)
				return
			}
			require.NoError(t, err)
			if tc.in == "" {
				require.Nil(t, c)
			}
		})
	}
}
