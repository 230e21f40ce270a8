package category

import (
	"fmt"
	"os"
	"regexp"

	"gopkg.in/yaml.v3"
)

// Rule pairs a regexp pattern with a category label. Rules are evaluated
// in order and the last matching rule wins, so overlapping patterns
// resolve to the later entry.
type Rule struct {
	Pattern  string `yaml:"pattern"`
	Category string `yaml:"category"`
}

// Other is the category for transactions matching no rule.
const Other = "Other"

// DefaultRules returns the built-in rule table. Order is part of the
// contract: later rules overwrite earlier matches.
func DefaultRules() []Rule {
	return []Rule{
		{Pattern: `\brent\b`, Category: "Rent"},
		{Pattern: `\bpayroll\b|\bgusto\b`, Category: "Payroll"},
		{Pattern: `\bstripe\b|\bsquare\b|\bprocessing fee\b`, Category: "Payment Processing"},
		{Pattern: `\bgoogle ads\b|\bmeta ads\b|\bfacebook ads\b`, Category: "Marketing"},
		{Pattern: `\baws\b|\bamazon web services\b|\bcloud\b`, Category: "Cloud/Hosting"},
		{Pattern: `\bcomcast\b|\binternet\b|\bphone\b`, Category: "Utilities"},
		{Pattern: `\badobe\b|\bo365\b|\bmicrosoft\b|\bsoftware\b`, Category: "Software Subscriptions"},
		{Pattern: `\buber\b|\blyft\b|\btaxi\b`, Category: "Travel"},
		{Pattern: `\boffice depot\b|\bstaples\b|\bsuppl(y|ies)\b`, Category: "Office Supplies"},
		{Pattern: `\bbank fee\b|\bservice fee\b|\bcharge\b`, Category: "Bank Fees"},
		{Pattern: `\binvoice\b|\bpayment\b|\bach\b|\bdeposit\b`, Category: "Revenue/Payments"},
	}
}

// RuleSet is a compiled, ordered rule table.
type RuleSet struct {
	rules []compiledRule
}

type compiledRule struct {
	re       *regexp.Regexp
	category string
}

// Compile validates and compiles a rule table.
func Compile(rules []Rule) (*RuleSet, error) {
	rs := &RuleSet{rules: make([]compiledRule, 0, len(rules))}
	for i, r := range rules {
		re, err := regexp.Compile(r.Pattern)
		if err != nil {
			return nil, fmt.Errorf("rule %d (%s): %w", i+1, r.Category, err)
		}
		if r.Category == "" {
			return nil, fmt.Errorf("rule %d: empty category", i+1)
		}
		rs.rules = append(rs.rules, compiledRule{re: re, category: r.Category})
	}
	return rs, nil
}

// MustCompile compiles a rule table or panics. For the built-in table.
func MustCompile(rules []Rule) *RuleSet {
	rs, err := Compile(rules)
	if err != nil {
		panic(err)
	}
	return rs
}

type rulesFile struct {
	Rules []Rule `yaml:"rules"`
}

// LoadRules reads a rule table from a YAML file. An empty rules list
// falls back to the built-in defaults.
func LoadRules(path string) (*RuleSet, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading rules: %w", err)
	}
	var f rulesFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parsing rules: %w", err)
	}
	if len(f.Rules) == 0 {
		return MustCompile(DefaultRules()), nil
	}
	return Compile(f.Rules)
}
