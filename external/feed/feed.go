// Package feed holds decoding helpers shared by the provider normalizers.
package feed

import (
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"
	"github.com/spf13/cast"

	"github.com/riskibarqy/hoops-reconciler/internal/domain/game"
)

var ErrUnreadablePayload = crerr.New("unreadable provider payload")

// Decode unmarshals a provider document.
func Decode(provider game.Provider, raw []byte, out any) error {
	if len(strings.TrimSpace(string(raw))) == 0 {
		return crerr.Wrapf(ErrUnreadablePayload, "%s: empty document", provider)
	}
	if err := sonic.Unmarshal(raw, out); err != nil {
		return crerr.Wrapf(crerr.Mark(err, ErrUnreadablePayload), "%s: decode payload", provider)
	}
	return nil
}

// String renders a loosely typed value. Numbers become their decimal form.
func String(v any) string {
	if v == nil {
		return ""
	}
	return strings.TrimSpace(cast.ToString(v))
}

// Int returns nil for missing, blank or non-numeric values.
func Int(v any) *int {
	if v == nil {
		return nil
	}
	if s, ok := v.(string); ok {
		s = strings.TrimPrefix(strings.TrimSpace(s), "+")
		if s == "" {
			return nil
		}
		v = s
	}
	n, err := cast.ToIntE(v)
	if err != nil {
		if f, ferr := cast.ToFloat64E(v); ferr == nil {
			n = int(f)
		} else {
			return nil
		}
	}
	return &n
}

// IntOrZero is Int with missing values counted as zero.
func IntOrZero(v any) int {
	if n := Int(v); n != nil {
		return *n
	}
	return 0
}

func Bool(v any) bool {
	if s, ok := v.(string); ok {
		switch strings.ToLower(strings.TrimSpace(s)) {
		case "1", "y", "yes", "true", "t":
			return true
		default:
			return false
		}
	}
	return cast.ToBool(v)
}

// Time parses RFC3339 timestamps, with or without fractional seconds.
// Timestamps without an offset are read as ET wall-clock time.
func Time(v any) *time.Time {
	s := String(v)
	if s == "" {
		return nil
	}
	for _, layout := range []string{time.RFC3339Nano, time.RFC3339} {
		if t, err := time.Parse(layout, s); err == nil {
			return &t
		}
	}
	for _, layout := range []string{"2006-01-02T15:04:05.999999999", "2006-01-02 15:04:05"} {
		if t, err := time.ParseInLocation(layout, s, game.Eastern); err == nil {
			return &t
		}
	}
	return nil
}

// Reject builds a rejection row for a record a normalizer cannot use.
func Reject(provider game.Provider, rawID string, err error) game.Rejection {
	return game.Rejection{Provider: provider, RawID: rawID, Reason: err.Error()}
}
