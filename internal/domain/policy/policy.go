// Package policy decides which of two marks is better for an event.
package policy

import (
	"fmt"
	"strings"

	"github.com/okian/trackboard/internal/domain/normalize"
)

// Direction says whether lower or higher marks are better.
type Direction string

// Supported directions.
const (
	Minimize Direction = "minimize" // times
	Maximize Direction = "maximize" // distances, heights, points
)

// ParseDirection accepts minimize/maximize and the aliases lower/higher.
func ParseDirection(s string) (Direction, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "minimize", "min", "lower":
		return Minimize, nil
	case "maximize", "max", "higher":
		return Maximize, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownDirection, s)
	}
}

// Option applies a configuration option to the Policy.
type Option func(*Policy) error

// WithDefault sets the direction used for events without an override.
func WithDefault(d Direction) Option {
	return func(p *Policy) error {
		if d != Minimize && d != Maximize {
			return fmt.Errorf("%w: %q", ErrUnknownDirection, d)
		}
		p.fallback = d
		return nil
	}
}

// WithDirectionsFromConfig sets per-event overrides from a configuration map
// of event label to direction name. Labels are canonicalized.
func WithDirectionsFromConfig(directions map[string]string) Option {
	return func(p *Policy) error {
		for event, name := range directions {
			d, err := ParseDirection(name)
			if err != nil {
				return fmt.Errorf("event %q: %w", event, err)
			}
			p.events[normalize.CanonicalEvent(event)] = d
		}
		return nil
	}
}

// Policy maps events to directions. The zero value is not usable; call New.
type Policy struct {
	fallback Direction
	events   map[string]Direction
}

// New creates a policy that minimizes unless told otherwise.
func New(opts ...Option) (*Policy, error) {
	p := &Policy{
		fallback: Minimize,
		events:   make(map[string]Direction),
	}
	for _, opt := range opts {
		if err := opt(p); err != nil {
			return nil, err
		}
	}
	return p, nil
}

// Default returns a lower-is-better policy with no overrides.
func Default() *Policy {
	p, _ := New()
	return p
}

// Direction returns the direction for a canonical event label.
func (p *Policy) Direction(event string) Direction {
	if d, ok := p.events[event]; ok {
		return d
	}
	return p.fallback
}

// Fallback returns the direction used for events without an override.
func (p *Policy) Fallback() Direction { return p.fallback }

// Better reports whether a is strictly better than b for event.
// Equal marks are never better, so callers keep the earlier one.
func (p *Policy) Better(event string, a, b float64) bool {
	if p.Direction(event) == Maximize {
		return a > b
	}
	return a < b
}

// Overrides returns a copy of the per-event directions.
func (p *Policy) Overrides() map[string]Direction {
	out := make(map[string]Direction, len(p.events))
	for k, v := range p.events {
		out[k] = v
	}
	return out
}
