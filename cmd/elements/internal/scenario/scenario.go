// Package scenario loads and runs element scenarios: YAML files that mount
// elements into a document and then change them step by step.
//
//	name: coalescing
//	requires: v0.1.0
//	steps:
//	  - mount: {id: c, tag: x-counter, attrs: {count: "1"}}
//	  - name: two writes, one render
//	    group:
//	      - set: {id: c, property: count, value: 2}
//	      - set: {id: c, property: count, value: 3}
//	  - attr: {id: c, name: label, value: clicks}
//	  - remove_attr: {id: c, name: label}
//	  - detach: c
//	  - attach: c
//
// Each top-level step runs as one loop segment; the steps of a group share
// that segment.
package scenario

import (
	"errors"
	"fmt"
	"os"

	"golang.org/x/mod/semver"
	"gopkg.in/yaml.v3"
)

var (
	// ErrInvalid is returned for malformed scenarios.
	ErrInvalid = errors.New("invalid scenario")
	// ErrIncompatible is returned when a scenario requires a newer version.
	ErrIncompatible = errors.New("incompatible scenario")
)

// Scenario is a parsed scenario file.
type Scenario struct {
	Name     string `yaml:"name"`
	Requires string `yaml:"requires,omitempty"`
	Steps    []Step `yaml:"steps"`
}

// Step is one scenario action. Exactly one action field is set.
type Step struct {
	Name       string      `yaml:"name,omitempty"`
	Mount      *Mount      `yaml:"mount,omitempty"`
	Set        *Set        `yaml:"set,omitempty"`
	Attr       *Attr       `yaml:"attr,omitempty"`
	RemoveAttr *RemoveAttr `yaml:"remove_attr,omitempty"`
	Detach     string      `yaml:"detach,omitempty"`
	Attach     string      `yaml:"attach,omitempty"`
	Adopt      string      `yaml:"adopt,omitempty"`
	Group      []Step      `yaml:"group,omitempty"`
}

// Mount creates an element, sets its attributes and appends it to the body.
type Mount struct {
	ID    string            `yaml:"id"`
	Tag   string            `yaml:"tag"`
	Attrs map[string]string `yaml:"attrs,omitempty"`
	// Detached leaves the element outside the document.
	Detached bool `yaml:"detached,omitempty"`
}

// Set writes a property through the component's SetProperty.
type Set struct {
	ID       string `yaml:"id"`
	Property string `yaml:"property"`
	Value    any    `yaml:"value"`
}

// Attr sets an attribute on the host element.
type Attr struct {
	ID    string `yaml:"id"`
	Name  string `yaml:"name"`
	Value string `yaml:"value"`
}

// RemoveAttr removes an attribute from the host element.
type RemoveAttr struct {
	ID   string `yaml:"id"`
	Name string `yaml:"name"`
}

// Load reads and parses a scenario file.
func Load(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading scenario: %w", err)
	}
	return Parse(data)
}

// Parse parses and validates a scenario.
func Parse(data []byte) (*Scenario, error) {
	var s Scenario
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

// Validate checks that every step has exactly one action, that mount ids are
// unique and that other steps only refer to mounted ids.
func (s *Scenario) Validate() error {
	if s.Requires != "" && !semver.IsValid(s.Requires) {
		return fmt.Errorf("%w: requires %q is not a semantic version", ErrInvalid, s.Requires)
	}
	ids := make(map[string]bool)
	for i, step := range s.Steps {
		if err := step.validate(ids); err != nil {
			return fmt.Errorf("%w: step %d: %v", ErrInvalid, i+1, err)
		}
	}
	return nil
}

func (st Step) validate(ids map[string]bool) error {
	actions := 0
	ref := func(id string) error {
		actions++
		if !ids[id] {
			return fmt.Errorf("unknown element id %q", id)
		}
		return nil
	}

	var err error
	if st.Mount != nil {
		actions++
		switch {
		case st.Mount.ID == "":
			err = errors.New("mount: id is required")
		case st.Mount.Tag == "":
			err = errors.New("mount: tag is required")
		case ids[st.Mount.ID]:
			err = fmt.Errorf("mount: duplicate id %q", st.Mount.ID)
		}
		ids[st.Mount.ID] = true
	}
	if st.Set != nil {
		err = errors.Join(err, ref(st.Set.ID))
		if st.Set.Property == "" {
			err = errors.Join(err, errors.New("set: property is required"))
		}
	}
	if st.Attr != nil {
		err = errors.Join(err, ref(st.Attr.ID))
	}
	if st.RemoveAttr != nil {
		err = errors.Join(err, ref(st.RemoveAttr.ID))
	}
	for _, id := range []string{st.Detach, st.Attach, st.Adopt} {
		if id != "" {
			err = errors.Join(err, ref(id))
		}
	}
	if st.Group != nil {
		actions++
		if len(st.Group) == 0 {
			err = errors.Join(err, errors.New("group: no steps"))
		}
		for j, sub := range st.Group {
			if sub.Group != nil {
				err = errors.Join(err, fmt.Errorf("group step %d: groups do not nest", j+1))
				continue
			}
			if serr := sub.validate(ids); serr != nil {
				err = errors.Join(err, fmt.Errorf("group step %d: %w", j+1, serr))
			}
		}
	}
	if err != nil {
		return err
	}
	if actions != 1 {
		return fmt.Errorf("expected exactly one action, found %d", actions)
	}
	return nil
}

// CheckVersion reports ErrIncompatible if version is older than the
// scenario's requires. Non-semantic versions such as "dev" satisfy any
// requirement.
func (s *Scenario) CheckVersion(version string) error {
	if s.Requires == "" || !semver.IsValid(version) {
		return nil
	}
	if semver.Compare(version, s.Requires) < 0 {
		return fmt.Errorf("%w: %q requires %s, running %s", ErrIncompatible, s.Name, s.Requires, version)
	}
	return nil
}

// Title returns the step's name, or a description of its action.
func (st Step) Title() string {
	switch {
	case st.Name != "":
		return st.Name
	case st.Mount != nil:
		return fmt.Sprintf("mount %s as %s", st.Mount.Tag, st.Mount.ID)
	case st.Set != nil:
		return fmt.Sprintf("set %s.%s = %v", st.Set.ID, st.Set.Property, st.Set.Value)
	case st.Attr != nil:
		return fmt.Sprintf("attr %s[%s] = %q", st.Attr.ID, st.Attr.Name, st.Attr.Value)
	case st.RemoveAttr != nil:
		return fmt.Sprintf("remove %s[%s]", st.RemoveAttr.ID, st.RemoveAttr.Name)
	case st.Detach != "":
		return "detach " + st.Detach
	case st.Attach != "":
		return "attach " + st.Attach
	case st.Adopt != "":
		return "adopt " + st.Adopt
	case st.Group != nil:
		return fmt.Sprintf("group of %d", len(st.Group))
	}
	return "empty"
}
