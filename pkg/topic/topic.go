package topic

import (
	"errors"
	"fmt"
	"strings"
)

const (
	// Separator splits a topic into levels.
	Separator = "/"
	// SingleLevel is the single-level wildcard.
	SingleLevel = "+"
	// MultiLevel is the multi-level wildcard.
	MultiLevel = "#"
)

var (
	// ErrEmptyFilter is returned by Validate for an empty filter.
	ErrEmptyFilter = errors.New("topic filter is empty")
	// ErrInvalidWildcard is returned by Validate when a wildcard is misplaced.
	ErrInvalidWildcard = errors.New("invalid wildcard in topic filter")
)

// Match reports whether topic is matched by filter. The match is anchored:
// the whole topic must be consumed by the whole filter.
func Match(filter, topic string) bool {
	if filter == MultiLevel {
		return true
	}

	for {
		fl, frest, fmore := cut(filter)
		tl, trest, tmore := cut(topic)

		switch {
		case fl == MultiLevel && !fmore:
			// "#" also covers the parent level, so it matches whatever is left.
			return true
		case fl == SingleLevel:
			if tl == "" {
				return false
			}
		case fl != tl:
			return false
		}

		if !fmore || !tmore {
			if fmore && !tmore {
				// topic exhausted; only a trailing "/#" may still match
				return frest == MultiLevel
			}
			return fmore == tmore
		}

		filter, topic = frest, trest
	}
}

// cut splits off the first level of s.
func cut(s string) (level, rest string, more bool) {
	i := strings.Index(s, Separator)
	if i < 0 {
		return s, "", false
	}
	return s[:i], s[i+1:], true
}

// HasWildcards reports whether filter contains a wildcard level.
func HasWildcards(filter string) bool {
	for _, level := range strings.Split(filter, Separator) {
		if level == SingleLevel || level == MultiLevel {
			return true
		}
	}
	return false
}

// Validate checks that filter is well formed for storage: it is not empty,
// "#" only appears as the last level, and wildcards occupy a whole level.
func Validate(filter string) error {
	if filter == "" {
		return ErrEmptyFilter
	}

	levels := strings.Split(filter, Separator)
	for i, level := range levels {
		switch {
		case level == MultiLevel:
			if i != len(levels)-1 {
				return fmt.Errorf("%w: %q must be the last level in %q", ErrInvalidWildcard, MultiLevel, filter)
			}
		case level == SingleLevel:
		case strings.ContainsAny(level, SingleLevel+MultiLevel):
			return fmt.Errorf("%w: level %q in %q", ErrInvalidWildcard, level, filter)
		}
	}
	return nil
}
