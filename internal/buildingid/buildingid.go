package buildingid

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

const (
	// Width is the fixed number of characters in a building identifier.
	Width = 4
	// DefaultFiller pads codes derived from short names.
	DefaultFiller = 'X'
)

// ErrSuffixExhausted is returned when every suffixed candidate for a base
// code is already in use.
var ErrSuffixExhausted = errors.New("collision suffixes exhausted")

var noise = strings.NewReplacer(",", "", "(", "", ")", "")

// Words strips commas and parentheses from name and splits it on whitespace.
func Words(name string) []string {
	return strings.Fields(noise.Replace(name))
}

// rule extracts an unpadded code from a word sequence of a given size.
type rule struct {
	minWords int
	extract  func(words []string) string
}

// rules is ordered from the most specific match to the fallback.
var rules = []rule{
	{minWords: 4, extract: func(w []string) string {
		return prefix(w[0], 1) + prefix(w[1], 1) + prefix(w[2], 1) + prefix(w[3], 1)
	}},
	{minWords: 3, extract: func(w []string) string {
		return prefix(w[0], 1) + prefix(w[1], 1) + prefix(w[2], 2)
	}},
	{minWords: 2, extract: func(w []string) string {
		return prefix(w[0], 3) + prefix(w[1], 1)
	}},
	{minWords: 0, extract: func(w []string) string {
		if len(w) == 0 {
			return ""
		}
		return prefix(w[0], Width)
	}},
}

// BaseCode derives the code for words before collision resolution, padded
// with filler to exactly Width characters.
func BaseCode(words []string, filler rune) string {
	var code string
	for _, r := range rules {
		if len(words) >= r.minWords {
			code = r.extract(words)
			break
		}
	}
	return fit(strings.ToUpper(code), filler)
}

// Candidate replaces the tail of base with the decimal suffix n.
func Candidate(base string, n int) string {
	suffix := strconv.Itoa(n)
	runes := []rune(base)
	keep := len(runes) - len(suffix)
	if keep < 0 {
		keep = 0
	}
	return strings.ToUpper(string(runes[:keep]) + suffix)
}

// MaxSuffix is the largest suffix that still leaves one character of the
// base code in place.
func MaxSuffix() int {
	n := 1
	for i := 0; i < Width-1; i++ {
		n *= 10
	}
	return n - 1
}

func prefix(word string, n int) string {
	runes := []rune(word)
	if len(runes) > n {
		runes = runes[:n]
	}
	return string(runes)
}

func fit(code string, filler rune) string {
	runes := []rune(code)
	for len(runes) < Width {
		runes = append(runes, filler)
	}
	return string(runes[:Width])
}

// UsedSet holds every identifier emitted during one run.
type UsedSet struct {
	ids map[string]struct{}
}

// NewUsedSet returns an empty set for a new run.
func NewUsedSet() *UsedSet {
	return &UsedSet{ids: make(map[string]struct{})}
}

// Contains reports whether id was already emitted.
func (s *UsedSet) Contains(id string) bool {
	_, ok := s.ids[id]
	return ok
}

// Add records id as taken.
func (s *UsedSet) Add(id string) {
	s.ids[id] = struct{}{}
}

// Len returns the number of identifiers taken.
func (s *UsedSet) Len() int {
	return len(s.ids)
}

// Assignment describes how one identifier was produced.
type Assignment struct {
	ID       string
	Base     string
	Collided bool
}

// Assigner derives identifiers from names and records them in a caller
// owned UsedSet. It is not safe for concurrent use.
type Assigner struct {
	used   *UsedSet
	filler rune
}

// NewAssigner returns an Assigner writing into used. A zero filler selects
// DefaultFiller.
func NewAssigner(used *UsedSet, filler rune) *Assigner {
	if filler == 0 {
		filler = DefaultFiller
	}
	return &Assigner{used: used, filler: filler}
}

// Assign produces a unique identifier for name. ok is false when name is
// empty, in which case the used set is left untouched.
func (a *Assigner) Assign(name string) (Assignment, bool, error) {
	if name == "" {
		return Assignment{}, false, nil
	}
	base := BaseCode(Words(name), a.filler)
	result := Assignment{ID: base, Base: base}
	if a.used.Contains(base) {
		id, err := a.resolve(base)
		if err != nil {
			return Assignment{}, false, err
		}
		result.ID = id
		result.Collided = true
	}
	a.used.Add(result.ID)
	return result, true, nil
}

func (a *Assigner) resolve(base string) (string, error) {
	limit := MaxSuffix()
	for n := 1; n <= limit; n++ {
		candidate := Candidate(base, n)
		if !a.used.Contains(candidate) {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("%s: %w after %d attempts", base, ErrSuffixExhausted, limit)
}
