// SPDX-License-Identifier: MPL-2.0

package elements

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// unlimitedText is the textual form of the unlimited upper bound.
const unlimitedText = "*"

// UnlimitedNatural is a natural number or the distinguished unlimited value.
// The zero value is the finite number 0.
type UnlimitedNatural struct {
	value    int
	infinite bool
}

// NewUnlimitedNatural returns the finite value n. A negative n yields Unlimited.
func NewUnlimitedNatural(n int) UnlimitedNatural {
	if n < 0 {
		return Unlimited()
	}
	return UnlimitedNatural{value: n}
}

// Unlimited returns the unlimited value.
func Unlimited() UnlimitedNatural {
	return UnlimitedNatural{infinite: true}
}

// ParseUnlimitedNatural parses "*" (or "-1") as unlimited, and a non-negative
// decimal integer as a finite value.
func ParseUnlimitedNatural(s string) (UnlimitedNatural, error) {
	s = strings.TrimSpace(s)
	if s == unlimitedText || s == "-1" {
		return Unlimited(), nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		return UnlimitedNatural{}, fmt.Errorf("invalid unlimited natural %q", s)
	}
	return UnlimitedNatural{value: n}, nil
}

// IsInfinity reports whether u is unlimited.
func (u UnlimitedNatural) IsInfinity() bool { return u.infinite }

// Value returns the finite value; ok is false when u is unlimited.
func (u UnlimitedNatural) Value() (n int, ok bool) {
	if u.infinite {
		return 0, false
	}
	return u.value, true
}

// String returns "*" for unlimited, or the decimal value.
func (u UnlimitedNatural) String() string {
	if u.infinite {
		return unlimitedText
	}
	return strconv.Itoa(u.value)
}

// MarshalText implements encoding.TextMarshaler.
func (u UnlimitedNatural) MarshalText() ([]byte, error) {
	return []byte(u.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (u *UnlimitedNatural) UnmarshalText(text []byte) error {
	parsed, err := ParseUnlimitedNatural(string(text))
	if err != nil {
		return err
	}
	*u = parsed
	return nil
}

// UnmarshalJSON accepts both the string form and a bare JSON number.
func (u *UnlimitedNatural) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		return u.UnmarshalText([]byte(s))
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("invalid unlimited natural %s", data)
	}
	return u.UnmarshalText([]byte(n.String()))
}
