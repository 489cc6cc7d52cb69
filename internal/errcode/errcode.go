// Package errcode models compiler error codes: one ASCII letter followed by
// exactly four decimal digits, e.g. E0308.
package errcode

import (
	"fmt"
	"regexp"
	"slices"
	"strconv"
	"strings"
)

// Len is the length of every well-formed code.
const Len = 5

// DefaultLetters is the set of leading letters accepted when nothing else is configured.
const DefaultLetters = "E"

// Code is an opaque error code identifier.
type Code string

func (c Code) String() string { return string(c) }

// Syntax describes which codes are well formed.
type Syntax struct {
	// Letters lists the accepted leading letters ("E" for rustc).
	Letters string
}

// DefaultSyntax accepts E####.
func DefaultSyntax() Syntax {
	return Syntax{Letters: DefaultLetters}
}

// NewSyntax validates letters and returns a Syntax for them.
func NewSyntax(letters string) (Syntax, error) {
	if letters == "" {
		return Syntax{}, fmt.Errorf("empty code letter set")
	}
	for i := 0; i < len(letters); i++ {
		if !isASCIILetter(letters[i]) {
			return Syntax{}, fmt.Errorf("invalid code letter %q: only ASCII letters are allowed", letters[i])
		}
	}
	return Syntax{Letters: letters}, nil
}

func (s Syntax) letters() string {
	if s.Letters == "" {
		return DefaultLetters
	}
	return s.Letters
}

// Valid reports whether text is exactly one code.
func (s Syntax) Valid(text string) bool {
	return len(text) == Len && s.HasPrefix(text)
}

// HasPrefix reports whether text begins with something shaped like a code.
// "E00012" has the prefix but is not Valid.
func (s Syntax) HasPrefix(text string) bool {
	if len(text) < Len {
		return false
	}
	if !strings.ContainsRune(s.letters(), rune(text[0])) {
		return false
	}
	for i := 1; i < Len; i++ {
		if text[i] < '0' || text[i] > '9' {
			return false
		}
	}
	return true
}

// Parse returns text as a Code when it is well formed.
func (s Syntax) Parse(text string) (Code, bool) {
	if !s.Valid(text) {
		return "", false
	}
	return Code(text), true
}

// Pattern returns the regexp fragment matching one code, e.g. `[E]\d{4}`.
func (s Syntax) Pattern() string {
	return "[" + regexp.QuoteMeta(s.letters()) + `]\d{4}`
}

func isASCIILetter(b byte) bool {
	return (b >= 'A' && b <= 'Z') || (b >= 'a' && b <= 'z')
}

// Max returns the lexicographically highest code. Codes share one length,
// so for a single letter this is also the numerically highest.
func Max(codes []Code) (Code, bool) {
	if len(codes) == 0 {
		return "", false
	}
	return slices.Max(codes), true
}

// Next returns the code following c with the same letter, or false when c is
// the last one (X9999) or malformed.
func Next(c Code) (Code, bool) {
	if len(c) != Len {
		return "", false
	}
	n, err := strconv.Atoi(string(c[1:]))
	if err != nil {
		return "", false
	}
	if n >= 9999 {
		return "", false
	}
	return Code(fmt.Sprintf("%c%04d", c[0], n+1)), true
}
