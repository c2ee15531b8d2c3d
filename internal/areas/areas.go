// Package areas resolves the area-specific question set a business leader
// must answer before a position can leave the leader stage. The table is
// static configuration: loaded once at startup, never mutated.
package areas

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"talentflow-engine/internal/hireerr"
)

type Kind string

const (
	KindSelect   Kind = "select"
	KindText     Kind = "text"
	KindTextarea Kind = "textarea"
)

type Option struct {
	Value string `yaml:"value" json:"value"`
	Label string `yaml:"label" json:"label"`
}

type Question struct {
	ID       string   `yaml:"id" json:"id"`
	Label    string   `yaml:"label" json:"label"`
	Kind     Kind     `yaml:"kind" json:"kind"`
	Required bool     `yaml:"required" json:"required"`
	Options  []Option `yaml:"options,omitempty" json:"options,omitempty"`
}

type Set struct {
	Title       string     `yaml:"title" json:"title"`
	Description string     `yaml:"description" json:"description"`
	Questions   []Question `yaml:"questions" json:"questions"`
}

type Resolver struct {
	sets map[string]Set
}

// Load reads an areas file and builds a resolver. When path is empty the
// built-in table is used.
func Load(path string) (*Resolver, error) {
	if strings.TrimSpace(path) == "" {
		return defaultResolver(), nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read areas file: %w", err)
	}
	var sets map[string]Set
	if err := yaml.Unmarshal(b, &sets); err != nil {
		return nil, fmt.Errorf("parse areas file: %w", err)
	}
	r := &Resolver{sets: sets}
	if err := r.check(); err != nil {
		return nil, err
	}
	return r, nil
}

func (r *Resolver) check() error {
	for area, set := range r.sets {
		if len(set.Questions) == 0 {
			return fmt.Errorf("area %q has no questions", area)
		}
		seen := map[string]bool{}
		for _, q := range set.Questions {
			if q.ID == "" {
				return fmt.Errorf("area %q has a question without an id", area)
			}
			if seen[q.ID] {
				return fmt.Errorf("area %q repeats question id %q", area, q.ID)
			}
			seen[q.ID] = true
			switch q.Kind {
			case KindSelect, KindText, KindTextarea:
			default:
				return fmt.Errorf("area %q question %q has unknown kind %q", area, q.ID, q.Kind)
			}
			if q.Kind == KindSelect && len(q.Options) == 0 {
				return fmt.Errorf("area %q select question %q has no options", area, q.ID)
			}
		}
	}
	return nil
}

// Areas lists the known area identifiers, sorted.
func (r *Resolver) Areas() []string {
	out := make([]string, 0, len(r.sets))
	for area := range r.sets {
		out = append(out, area)
	}
	sort.Strings(out)
	return out
}

// Resolve returns the ordered question set for an area.
func (r *Resolver) Resolve(area string) (Set, error) {
	set, ok := r.sets[area]
	if !ok {
		return Set{}, &hireerr.UnknownAreaError{Area: area}
	}
	return set, nil
}

// MissingRequired returns the required question ids that have no non-empty
// answer, in question order. An empty result means the payload satisfies the
// area's schema.
func (r *Resolver) MissingRequired(area string, answers map[string]string) ([]string, error) {
	set, err := r.Resolve(area)
	if err != nil {
		return nil, err
	}
	var missing []string
	for _, q := range set.Questions {
		if !q.Required {
			continue
		}
		if strings.TrimSpace(answers[q.ID]) == "" {
			missing = append(missing, q.ID)
		}
	}
	return missing, nil
}
