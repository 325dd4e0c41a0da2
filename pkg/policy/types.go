package policy

import (
	"errors"
	"fmt"
	"strings"

	"github.com/iotbase/iot-auth/pkg/model"
	"github.com/iotbase/iot-auth/pkg/server/store"
	"github.com/iotbase/iot-auth/pkg/topic"
)

// ErrInvalidDocument is returned when a permission file fails validation
var ErrInvalidDocument = errors.New("invalid permission document")

// Document is a parsed permission file
type Document struct {
	Credentials []Entry `yaml:"credentials"`
}

// Entry holds the rules for one credential
type Entry struct {
	Name   string `yaml:"name"`
	Grant  []Rule `yaml:"grant"`
	Revoke []Rule `yaml:"revoke"`
}

// Rule is a topic pattern and the action it applies to
type Rule struct {
	Topic  string `yaml:"topic"`
	Action string `yaml:"action"`
}

// toGrant validates the rule and converts it for the store
func (r Rule) toGrant() (store.Grant, error) {
	if err := topic.Validate(r.Topic); err != nil {
		return store.Grant{}, fmt.Errorf("topic %q: %w", r.Topic, err)
	}
	action, err := model.ActionString(r.Action)
	if err != nil {
		return store.Grant{}, fmt.Errorf("topic %q: invalid action %q", r.Topic, r.Action)
	}
	return store.Grant{Topic: r.Topic, Action: action}, nil
}

// Validate checks every entry and rule, reporting all problems at once.
func (d *Document) Validate() error {
	var problems []string
	seen := map[string]bool{}

	for i, e := range d.Credentials {
		if e.Name == "" {
			problems = append(problems, fmt.Sprintf("credentials[%d]: name is required", i))
			continue
		}
		if seen[e.Name] {
			problems = append(problems, fmt.Sprintf("credentials[%d]: duplicate credential %s", i, e.Name))
		}
		seen[e.Name] = true

		for _, r := range e.Grant {
			if _, err := r.toGrant(); err != nil {
				problems = append(problems, fmt.Sprintf("%s: grant %v", e.Name, err))
			}
		}
		for _, r := range e.Revoke {
			if _, err := r.toGrant(); err != nil {
				problems = append(problems, fmt.Sprintf("%s: revoke %v", e.Name, err))
			}
		}
	}

	if len(problems) > 0 {
		return fmt.Errorf("%w:\n  %s", ErrInvalidDocument, strings.Join(problems, "\n  "))
	}
	return nil
}
