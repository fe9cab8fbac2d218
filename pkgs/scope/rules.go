package scope

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// Policy names a compilation restriction supplied by the caller
type Policy int

const (
	DisableIf Policy = iota
	DisableFor
	DisableWhile
	DisableFunctionDef
	DisablePrint
	BlacklistVariable
)

var policyNames = [...]string{
	DisableIf:          "DisableIf",
	DisableFor:         "DisableFor",
	DisableWhile:       "DisableWhile",
	DisableFunctionDef: "DisableFunctionDef",
	DisablePrint:       "DisablePrint",
	BlacklistVariable:  "BlacklistVariable",
}

func (p Policy) String() string {
	if int(p) >= 0 && int(p) < len(policyNames) {
		return policyNames[p]
	}
	return fmt.Sprintf("Policy(%d)", int(p))
}

// Policies returns every known policy in declaration order
func Policies() []Policy {
	out := make([]Policy, len(policyNames))
	for i := range policyNames {
		out[i] = Policy(i)
	}
	return out
}

// ParsePolicy resolves a policy from its name. Matching is exact, as in
// the {name, values} rule format.
func ParsePolicy(name string) (Policy, error) {
	for i, n := range policyNames {
		if n == name {
			return Policy(i), nil
		}
	}
	return 0, fmt.Errorf("unknown rule %q (expected one of %s)", name, strings.Join(policyNames[:], ", "))
}

// Rule is a single policy with its payload. Names is only meaningful for
// BlacklistVariable.
type Rule struct {
	Policy Policy
	Names  []string
}

// Disable returns a rule that turns off a construct
func Disable(p Policy) Rule {
	return Rule{Policy: p}
}

// Blacklist returns a rule that forbids declaring the given names
func Blacklist(names ...string) Rule {
	return Rule{Policy: BlacklistVariable, Names: names}
}

func (r Rule) String() string {
	if r.Policy == BlacklistVariable {
		return fmt.Sprintf("%s(%s)", r.Policy, strings.Join(r.Names, ","))
	}
	return r.Policy.String()
}

// ruleWire is the external {name, values} representation
type ruleWire struct {
	Name   string   `json:"name" yaml:"name" cbor:"name"`
	Values []string `json:"values,omitempty" yaml:"values,omitempty" cbor:"values,omitempty"`
}

func (r Rule) wire() ruleWire {
	return ruleWire{Name: r.Policy.String(), Values: r.Names}
}

func (w ruleWire) rule() (Rule, error) {
	p, err := ParsePolicy(w.Name)
	if err != nil {
		return Rule{}, err
	}
	r := Rule{Policy: p}
	if p == BlacklistVariable {
		r.Names = w.Values
	}
	return r, nil
}

// MarshalJSON encodes the rule as {"name": ..., "values": [...]}
func (r Rule) MarshalJSON() ([]byte, error) {
	return json.Marshal(r.wire())
}

// UnmarshalJSON decodes the {"name": ..., "values": [...]} form
func (r *Rule) UnmarshalJSON(data []byte) error {
	var w ruleWire
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	decoded, err := w.rule()
	if err != nil {
		return err
	}
	*r = decoded
	return nil
}

// MarshalYAML encodes the rule in the same shape as JSON
func (r Rule) MarshalYAML() (interface{}, error) {
	return r.wire(), nil
}

// UnmarshalYAML decodes a {name, values} mapping
func (r *Rule) UnmarshalYAML(node *yaml.Node) error {
	var w ruleWire
	if err := node.Decode(&w); err != nil {
		return err
	}
	decoded, err := w.rule()
	if err != nil {
		return fmt.Errorf("line %d: %w", node.Line, err)
	}
	*r = decoded
	return nil
}

// Canonical returns the rule in its external form with names sorted,
// suitable for stable encoding.
func (r Rule) Canonical() (name string, values []string) {
	values = append([]string(nil), r.Names...)
	sort.Strings(values)
	return r.Policy.String(), values
}

// RuleSet is the immutable policy view consulted during compilation.
// A nil *RuleSet allows everything.
type RuleSet struct {
	rules     []Rule
	disabled  map[Policy]bool
	blacklist map[string]struct{}
}

// NewRuleSet builds a rule set. Repeated blacklist rules merge.
func NewRuleSet(rules ...Rule) *RuleSet {
	rs := &RuleSet{
		rules:     make([]Rule, 0, len(rules)),
		disabled:  make(map[Policy]bool),
		blacklist: make(map[string]struct{}),
	}
	for _, r := range rules {
		rs.rules = append(rs.rules, Rule{Policy: r.Policy, Names: append([]string(nil), r.Names...)})
		if r.Policy == BlacklistVariable {
			for _, n := range r.Names {
				rs.blacklist[n] = struct{}{}
			}
			continue
		}
		rs.disabled[r.Policy] = true
	}
	return rs
}

// Disabled reports whether a construct is turned off
func (rs *RuleSet) Disabled(p Policy) bool {
	if rs == nil {
		return false
	}
	return rs.disabled[p]
}

// Blacklisted reports whether a name may not be declared
func (rs *RuleSet) Blacklisted(name string) bool {
	if rs == nil {
		return false
	}
	_, ok := rs.blacklist[name]
	return ok
}

// Rules returns a copy of the rules the set was built from
func (rs *RuleSet) Rules() []Rule {
	if rs == nil {
		return nil
	}
	out := make([]Rule, len(rs.rules))
	for i, r := range rs.rules {
		out[i] = Rule{Policy: r.Policy, Names: append([]string(nil), r.Names...)}
	}
	return out
}
