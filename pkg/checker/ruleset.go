package checker

import (
	"errors"
	"fmt"
	"io"
	"os"
	"slices"

	"gopkg.in/yaml.v3"
)

// RuleRef applies a named rule with an optional parameter. In YAML it is
// either a bare rule name or a {rule, param} mapping.
type RuleRef struct {
	Rule  string `yaml:"rule" json:"rule"`
	Param any    `yaml:"param,omitempty" json:"param,omitempty"`
}

func (r *RuleRef) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.ScalarNode {
		r.Rule = node.Value
		r.Param = nil
		return nil
	}
	type plain RuleRef
	return node.Decode((*plain)(r))
}

// Entity maps property names to their rules.
type Entity map[string][]RuleRef

// Properties returns the property names, sorted.
func (e Entity) Properties() []string {
	names := make([]string, 0, len(e))
	for name := range e {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Ruleset maps entity names to their property rules.
type Ruleset struct {
	Entities map[string]Entity `yaml:"entities" json:"entities"`
}

// ParseRuleset decodes YAML ruleset content.
func ParseRuleset(data []byte) (*Ruleset, error) {
	var rs Ruleset
	if err := yaml.Unmarshal(data, &rs); err != nil {
		return nil, errors.Join(ErrFailedToParseRules, err)
	}
	if err := rs.validate(); err != nil {
		return nil, err
	}
	return &rs, nil
}

// LoadRuleset reads a YAML ruleset from r.
func LoadRuleset(r io.Reader) (*Ruleset, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.Join(ErrFailedToParseRules, err)
	}
	return ParseRuleset(data)
}

// LoadRulesetFile reads a YAML ruleset from path.
func LoadRulesetFile(path string) (*Ruleset, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Join(ErrFailedToReadRules, err)
	}
	return ParseRuleset(data)
}

func (rs *Ruleset) validate() error {
	if len(rs.Entities) == 0 {
		return fmt.Errorf("%w: no entities", ErrInvalidRuleset)
	}
	for entity, props := range rs.Entities {
		for prop, refs := range props {
			for i, ref := range refs {
				if ref.Rule == "" {
					return fmt.Errorf("%w: %s.%s rule #%d has no name", ErrInvalidRuleset, entity, prop, i)
				}
			}
		}
	}
	return nil
}

// Entity returns the rules of name.
func (rs *Ruleset) Entity(name string) (Entity, bool) {
	e, ok := rs.Entities[name]
	return e, ok
}

// Names returns the entity names, sorted.
func (rs *Ruleset) Names() []string {
	names := make([]string, 0, len(rs.Entities))
	for name := range rs.Entities {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Check reports every rule reference that reg cannot resolve.
func (rs *Ruleset) Check(reg *Registry) error {
	var errs []error
	for _, entity := range rs.Names() {
		e := rs.Entities[entity]
		for _, prop := range e.Properties() {
			for _, ref := range e[prop] {
				if _, ok := reg.Factory(ref.Rule); !ok {
					errs = append(errs, fmt.Errorf("%w: %q on %s.%s", ErrUnknownRule, ref.Rule, entity, prop))
				}
			}
		}
	}
	return errors.Join(errs...)
}
