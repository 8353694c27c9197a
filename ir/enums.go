package ir

import (
	"strings"

	"github.com/teranos/bindgen/errors"
)

// Visibility of an entity as declared in the source language
type Visibility int

const (
	// Inherited is the language default (no explicit modifier)
	Inherited Visibility = iota
	Public
	Private
)

func (v Visibility) String() string {
	switch v {
	case Public:
		return "public"
	case Private:
		return "private"
	default:
		return "inherited"
	}
}

// ParseVisibility reads the String form; the empty string is Inherited
func ParseVisibility(s string) (Visibility, error) {
	switch strings.ToLower(s) {
	case "", "inherited":
		return Inherited, nil
	case "public":
		return Public, nil
	case "private":
		return Private, nil
	}
	return Inherited, errors.Newf("unknown visibility %q", s)
}

func (v Visibility) MarshalText() ([]byte, error) { return []byte(v.String()), nil }

func (v *Visibility) UnmarshalText(text []byte) error {
	parsed, err := ParseVisibility(string(text))
	if err != nil {
		return err
	}
	*v = parsed
	return nil
}

// Mutability of a reference or a method receiver
type Mutability int

const (
	Constant Mutability = iota
	Mutable
)

func (m Mutability) String() string {
	if m == Mutable {
		return "mutable"
	}
	return "constant"
}

// ParseMutability reads the String form; the empty string is Constant
func ParseMutability(s string) (Mutability, error) {
	switch strings.ToLower(s) {
	case "", "constant":
		return Constant, nil
	case "mutable":
		return Mutable, nil
	}
	return Constant, errors.Newf("unknown mutability %q", s)
}

// Synchrony marks async functions
type Synchrony int

const (
	Synchronous Synchrony = iota
	Asynchronous
)

func (s Synchrony) String() string {
	if s == Asynchronous {
		return "asynchronous"
	}
	return "synchronous"
}

// ParseSynchrony reads the String form; the empty string is Synchronous
func ParseSynchrony(s string) (Synchrony, error) {
	switch strings.ToLower(s) {
	case "", "synchronous":
		return Synchronous, nil
	case "asynchronous":
		return Asynchronous, nil
	}
	return Synchronous, errors.Newf("unknown synchrony %q", s)
}

// ReferenceKind distinguishes borrows (&T) from raw pointers (*T)
type ReferenceKind int

const (
	Borrow ReferenceKind = iota
	Pointer
)

func (k ReferenceKind) String() string {
	if k == Pointer {
		return "pointer"
	}
	return "borrow"
}

// ParseReferenceKind reads the String form; the empty string is Borrow
func ParseReferenceKind(s string) (ReferenceKind, error) {
	switch strings.ToLower(s) {
	case "", "borrow":
		return Borrow, nil
	case "pointer":
		return Pointer, nil
	}
	return Borrow, errors.Newf("unknown reference kind %q", s)
}
