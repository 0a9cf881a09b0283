package strategy

import (
	"errors"
	"fmt"
	"maps"
	"slices"
)

var ErrBadConfig = errors.New("bad strategy configuration")

// Match is how sibling elements of one tag are paired across revisions.
type Match int

const (
	MatchPositional Match = iota
	MatchSingleton
	MatchKeyed
)

func (m Match) String() string {
	switch m {
	case MatchPositional:
		return "positional"
	case MatchSingleton:
		return "singleton"
	case MatchKeyed:
		return "keyed"
	default:
		return fmt.Sprintf("Match(%d)", int(m))
	}
}

// ParseMatch parses the String form.
func ParseMatch(s string) (Match, error) {
	switch s {
	case "", "positional":
		return MatchPositional, nil
	case "singleton":
		return MatchSingleton, nil
	case "keyed":
		return MatchKeyed, nil
	}
	return 0, fmt.Errorf("%w: unknown match %q", ErrBadConfig, s)
}

// Element is the strategy for one tag.
type Element struct {
	Match Match
	// KeyAttr names the identifying attribute of a keyed element.
	KeyAttr string
	// OrderSignificant makes sibling order part of a keyed element's content.
	OrderSignificant bool
	// Atomic elements are compared and replaced as a whole.
	Atomic bool
}

// Positional is the default strategy.
func Positional() Element {
	return Element{Match: MatchPositional}
}

// Singleton returns the strategy for an element occurring at most once.
func Singleton() Element {
	return Element{Match: MatchSingleton}
}

// Keyed returns the strategy for elements identified by attr.
func Keyed(attr string, orderSignificant bool) Element {
	return Element{Match: MatchKeyed, KeyAttr: attr, OrderSignificant: orderSignificant}
}

// AsAtomic returns a copy of e with Atomic set.
func (e Element) AsAtomic() Element {
	e.Atomic = true
	return e
}

func (e Element) Validate() error {
	switch e.Match {
	case MatchPositional, MatchSingleton:
		if e.KeyAttr != "" {
			return fmt.Errorf("%w: key attribute %q on %s strategy", ErrBadConfig, e.KeyAttr, e.Match)
		}
		if e.OrderSignificant {
			return fmt.Errorf("%w: order significance requires a keyed strategy", ErrBadConfig)
		}
	case MatchKeyed:
		if e.KeyAttr == "" {
			return fmt.Errorf("%w: keyed strategy without key attribute", ErrBadConfig)
		}
	default:
		return fmt.Errorf("%w: %s", ErrBadConfig, e.Match)
	}
	return nil
}

func (e Element) String() string {
	s := e.Match.String()
	if e.Match == MatchKeyed {
		s += "(" + e.KeyAttr
		if e.OrderSignificant {
			s += ", ordered"
		}
		s += ")"
	}
	if e.Atomic {
		s += " atomic"
	}
	return s
}

// Registry maps tag names to strategies. The zero value and the nil
// registry answer Positional for every tag.
type Registry struct {
	m map[string]Element
}

// Get returns the strategy for tag, Positional if none was set.
func (r *Registry) Get(tag string) Element {
	if r == nil {
		return Positional()
	}
	if s, ok := r.m[tag]; ok {
		return s
	}
	return Positional()
}

// Has reports whether tag has an explicit strategy.
func (r *Registry) Has(tag string) bool {
	if r == nil {
		return false
	}
	_, ok := r.m[tag]
	return ok
}

// Tags returns the configured tags, sorted.
func (r *Registry) Tags() []string {
	if r == nil {
		return nil
	}
	return slices.Sorted(maps.Keys(r.m))
}

// Builder collects strategies before they are frozen by Build.
type Builder struct {
	m   map[string]Element
	err error
}

func NewBuilder() *Builder {
	return &Builder{m: map[string]Element{}}
}

// From starts a builder with the entries of r, so callers can layer
// overrides on top of a shared set of defaults.
func From(r *Registry) *Builder {
	b := NewBuilder()
	if r != nil {
		maps.Copy(b.m, r.m)
	}
	return b
}

// Set binds s to tag, replacing any earlier binding. Invalid strategies are
// reported by Build.
func (b *Builder) Set(tag string, s Element) *Builder {
	if b.err != nil {
		return b
	}
	if tag == "" {
		b.err = fmt.Errorf("%w: empty tag", ErrBadConfig)
		return b
	}
	if err := s.Validate(); err != nil {
		b.err = fmt.Errorf("tag %q: %w", tag, err)
		return b
	}
	b.m[tag] = s
	return b
}

// Build returns a registry holding a copy of the builder's entries. Later
// calls to Set do not affect the returned registry.
func (b *Builder) Build() (*Registry, error) {
	if b.err != nil {
		return nil, b.err
	}
	return &Registry{m: maps.Clone(b.m)}, nil
}

// MustBuild is Build that panics on error, for static configuration.
func (b *Builder) MustBuild() *Registry {
	r, err := b.Build()
	if err != nil {
		panic(err)
	}
	return r
}
