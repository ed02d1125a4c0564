package normalize

import (
	"os"
	"regexp"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"
)

// Rule is one user-supplied repair, loaded from a YAML rules file.
// Literal rules do plain substring replacement; otherwise Pattern is a
// regular expression and Replace may use $1-style group references.
type Rule struct {
	Pattern string `yaml:"pattern"`
	Replace string `yaml:"replace"`
	Literal bool   `yaml:"literal,omitempty"`
}

// Load returns a Normalizer with the built-in rules plus the rules from
// the given YAML file. File rules run after the built-ins, so they can
// correct anything the defaults miss or mangle.
func Load(path string) (*Normalizer, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "normalize: read rules %s", path)
	}

	var rules []Rule
	if err := yaml.Unmarshal(data, &rules); err != nil {
		return nil, eris.Wrapf(err, "normalize: parse rules %s", path)
	}

	n := Default()
	for _, r := range rules {
		if r.Literal {
			n.rules = append(n.rules, compiledRule{literal: r.Pattern, replace: r.Replace})
			continue
		}
		re, err := regexp.Compile(r.Pattern)
		if err != nil {
			return nil, eris.Wrapf(err, "normalize: compile rule %q", r.Pattern)
		}
		n.rules = append(n.rules, compiledRule{re: re, replace: r.Replace})
	}
	return n, nil
}
