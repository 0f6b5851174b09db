package model

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Flag is a boolean that also accepts the legacy "yes"/"no" and "true"/"false"
// string forms. It always encodes as a JSON boolean.
type Flag bool

// ParseFlag converts a legacy string flag. Empty means false.
func ParseFlag(s string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "yes", "true", "1", "on":
		return true, nil
	case "no", "false", "0", "off", "":
		return false, nil
	default:
		return false, fmt.Errorf("invalid flag value %q", s)
	}
}

// UnmarshalJSON implements json.Unmarshaler.
func (f *Flag) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	switch {
	case bytes.Equal(b, []byte("null")):
		*f = false
		return nil
	case len(b) > 0 && b[0] == '"':
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		v, err := ParseFlag(s)
		if err != nil {
			return err
		}
		*f = Flag(v)
		return nil
	default:
		v, err := strconv.ParseBool(string(b))
		if err != nil {
			return fmt.Errorf("invalid flag value %s", b)
		}
		*f = Flag(v)
		return nil
	}
}

// Bool returns the plain boolean.
func (f Flag) Bool() bool { return bool(f) }

// Presence is true when the JSON field was supplied with any non-null value.
type Presence bool

// UnmarshalJSON implements json.Unmarshaler.
func (p *Presence) UnmarshalJSON(b []byte) error {
	*p = Presence(!bytes.Equal(bytes.TrimSpace(b), []byte("null")))
	return nil
}

// FlexInt accepts a JSON number or a numeric string. The empty string decodes as zero.
type FlexInt int64

// UnmarshalJSON implements json.Unmarshaler.
func (n *FlexInt) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*n = 0
		return nil
	}
	raw := string(b)
	if len(b) > 0 && b[0] == '"' {
		if err := json.Unmarshal(b, &raw); err != nil {
			return err
		}
		raw = strings.TrimSpace(raw)
		if raw == "" {
			*n = 0
			return nil
		}
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return fmt.Errorf("invalid integer value %q", raw)
	}
	*n = FlexInt(v)
	return nil
}

// Int64 returns the plain integer.
func (n FlexInt) Int64() int64 { return int64(n) }
