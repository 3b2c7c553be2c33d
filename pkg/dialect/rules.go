package dialect

import (
	"sort"
	"strings"
)

// Rule groups, as shown by tooling.
const (
	GroupDeclaration = "declaration"
	GroupMember      = "member"
	GroupLiteral     = "literal"
	GroupOperator    = "operator"
	GroupCallback    = "callback"
	GroupUnsupported = "unsupported"
)

// RuleInfo describes one entry of the rule table.
type RuleInfo struct {
	Group       string `json:"group" yaml:"group"`
	From        string `json:"from" yaml:"from"`
	To          string `json:"to,omitempty" yaml:"to,omitempty"`
	Description string `json:"description" yaml:"description"`
}

// Rules lists every rule of the dialect, sorted by group then source spelling.
func (d *Dialect) Rules() []RuleInfo {
	var rules []RuleInfo

	for kw := range d.declarations {
		rules = append(rules, RuleInfo{Group: GroupDeclaration, From: kw + " x = e", To: "x = e",
			Description: "declaration keyword dropped"})
	}
	for k, v := range d.memberRenames {
		recv, _, _ := strings.Cut(k, ".")
		rules = append(rules, RuleInfo{Group: GroupMember, From: k + "(...)", To: recv + "." + v + "(...)",
			Description: "call-site rename"})
	}
	for k, v := range d.literalRenames {
		rules = append(rules, RuleInfo{Group: GroupLiteral, From: k, To: v,
			Description: "literal spelling"})
	}
	for k, v := range d.operatorRenames {
		rules = append(rules, RuleInfo{Group: GroupOperator, From: k, To: v.To,
			Description: "operator spelling"})
	}
	if d.lambda != "" {
		for name := range d.callbacks {
			rules = append(rules, RuleInfo{Group: GroupCallback, From: "." + name + "(function(x) { return e; })",
				To: "." + name + "(" + d.lambda + " x: e)", Description: "single-return callback inlined"})
		}
	}
	for kw, c := range d.unsupportedKw {
		rules = append(rules, RuleInfo{Group: GroupUnsupported, From: kw, Description: string(c)})
	}
	for op, c := range d.unsupportedOps {
		rules = append(rules, RuleInfo{Group: GroupUnsupported, From: op, Description: string(c)})
	}

	sort.Slice(rules, func(i, j int) bool {
		if rules[i].Group != rules[j].Group {
			return rules[i].Group < rules[j].Group
		}
		return rules[i].From < rules[j].From
	})
	return rules
}
