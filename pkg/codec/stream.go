// SPDX-License-Identifier: MPL-2.0

package codec

import (
	"encoding/json"
	"errors"
	"io"
)

// tokenStream wraps json.Decoder with a push-back buffer so that key/value
// tokens read before an element could be created can be replayed once it is.
type tokenStream struct {
	dec  *json.Decoder
	back []json.Token
}

func newTokenStream(r io.Reader) *tokenStream {
	dec := json.NewDecoder(r)
	dec.UseNumber()
	return &tokenStream{dec: dec}
}

func (s *tokenStream) Token() (json.Token, error) {
	if len(s.back) > 0 {
		t := s.back[0]
		s.back = s.back[1:]
		return t, nil
	}
	t, err := s.dec.Token()
	if errors.Is(err, io.EOF) {
		return nil, io.ErrUnexpectedEOF
	}
	return t, err
}

// Unread pushes tokens back so they are returned next, in order.
func (s *tokenStream) Unread(tokens ...json.Token) {
	if len(tokens) == 0 {
		return
	}
	back := make([]json.Token, 0, len(tokens)+len(s.back))
	back = append(back, tokens...)
	s.back = append(back, s.back...)
}

// ReadValue returns the tokens of one complete JSON value.
func (s *tokenStream) ReadValue() ([]json.Token, error) {
	first, err := s.Token()
	if err != nil {
		return nil, err
	}
	out := []json.Token{first}
	if !isOpen(first) {
		return out, nil
	}
	depth := 1
	for depth > 0 {
		t, err := s.Token()
		if err != nil {
			return nil, err
		}
		out = append(out, t)
		switch {
		case isOpen(t):
			depth++
		case isClose(t):
			depth--
		}
	}
	return out, nil
}

// SkipValue consumes one complete JSON value.
func (s *tokenStream) SkipValue() error {
	_, err := s.ReadValue()
	return err
}

func isOpen(t json.Token) bool {
	d, ok := t.(json.Delim)
	return ok && (d == '{' || d == '[')
}

func isClose(t json.Token) bool {
	d, ok := t.(json.Delim)
	return ok && (d == '}' || d == ']')
}

func isDelim(t json.Token, want rune) bool {
	d, ok := t.(json.Delim)
	return ok && rune(d) == want
}
