// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

// Package ident maps internal signal names to legal, unique identifiers of a
// target language.
//
// A Sanitizer is shared by every writer of a single export pass so that a
// given signal always prints with the same identifier. Separate passes must
// use separate sanitizers.
//
package ident

import (
	"strconv"
	"strings"

	hw "github.com/db47h/hwconv"
)

// Rules describes the identifiers of a target language.
//
type Rules struct {
	First    string   // characters allowed as first character
	Rest     string   // characters allowed after the first one
	Reserved []string // reserved words
	MaxLen   int      // maximum identifier length in bytes, 0 for no limit
}

// Legal reports whether name is a legal, unreserved identifier under r.
//
func (r *Rules) Legal(name string) bool {
	if name == "" || r.MaxLen > 0 && len(name) > r.MaxLen {
		return false
	}
	for i, c := range name {
		set := r.Rest
		if i == 0 {
			set = r.First
		}
		if !strings.ContainsRune(set, c) {
			return false
		}
	}
	for _, w := range r.Reserved {
		if name == w {
			return false
		}
	}
	return true
}

// A Sanitizer maps internal names to external identifiers. The mapping is
// deterministic and collision free: the same internal name always maps to the
// same identifier, and distinct names to distinct identifiers.
//
// Legal names that have not been claimed yet pass through unchanged. Other
// names are replaced by the fallback prefix followed by a counter value,
// skipping identifiers already claimed.
//
// A Sanitizer is not safe for concurrent use.
//
type Sanitizer struct {
	rules  Rules
	prefix string
	n      int
	names  map[string]string   // internal -> external
	used   map[string]struct{} // claimed external identifiers
}

// New returns a new Sanitizer. The fallback prefix followed by any decimal
// number must be a legal identifier.
//
func New(rules Rules, prefix string) (*Sanitizer, error) {
	if !rules.Legal(prefix+"0") || !rules.Legal(prefix) {
		return nil, hw.StructureError(prefix, "illegal identifier fallback prefix")
	}
	return &Sanitizer{
		rules:  rules,
		prefix: prefix,
		names:  make(map[string]string),
		used:   make(map[string]struct{}),
	}, nil
}

// Name returns the external identifier for the given internal name.
//
func (s *Sanitizer) Name(internal string) (string, error) {
	return s.Map(internal, internal)
}

// Map returns the external identifier for the given internal key. On first
// use of key, candidate is used if it is legal and unclaimed, otherwise a
// fallback identifier is allocated.
//
func (s *Sanitizer) Map(key, candidate string) (string, error) {
	if ext, ok := s.names[key]; ok {
		return ext, nil
	}
	ext := candidate
	if _, claimed := s.used[ext]; claimed || !s.rules.Legal(ext) {
		for {
			ext = s.prefix + strconv.Itoa(s.n)
			s.n++
			if _, claimed := s.used[ext]; !claimed {
				break
			}
		}
		if !s.rules.Legal(ext) {
			return "", hw.StructureError(key, "no legal identifier available")
		}
	}
	s.names[key] = ext
	s.used[ext] = struct{}{}
	return ext, nil
}

// Reserve claims an external identifier that is not mapped from any internal
// name, like an implicit port. Reserving an illegal or already claimed
// identifier is an error.
//
func (s *Sanitizer) Reserve(external string) error {
	if !s.rules.Legal(external) {
		return hw.StructureError(external, "illegal identifier")
	}
	if _, claimed := s.used[external]; claimed {
		return hw.StructureError(external, "identifier already in use")
	}
	s.used[external] = struct{}{}
	return nil
}

// Lookup returns the external identifier already mapped from internal.
//
func (s *Sanitizer) Lookup(internal string) (string, bool) {
	ext, ok := s.names[internal]
	return ext, ok
}
