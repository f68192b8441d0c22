package transtree

import (
	"fmt"
	"sort"
	"strings"

	"github.com/ZaguanLabs/transtree/markup"
)

// IssueCode classifies a placeholder-integrity problem found by Lint.
type IssueCode string

const (
	// IssueMissingTag flags a placeholder tag present in the source string
	// but absent from the translation.
	IssueMissingTag IssueCode = "missing_tag"
	// IssueUnknownTag flags a placeholder tag the translation introduced.
	IssueUnknownTag IssueCode = "unknown_tag"
	// IssueMissingVariable flags a {{name}} slot the translation dropped.
	IssueMissingVariable IssueCode = "missing_variable"
	// IssueUnknownVariable flags a {{name}} slot the translation introduced.
	IssueUnknownVariable IssueCode = "unknown_variable"
)

// Issue is one placeholder-integrity finding.
type Issue struct {
	Code IssueCode
	Name string // the tag or variable name concerned
}

func (i Issue) String() string {
	switch i.Code {
	case IssueMissingTag:
		return fmt.Sprintf("translation drops tag <%s>", i.Name)
	case IssueUnknownTag:
		return fmt.Sprintf("translation introduces tag <%s>", i.Name)
	case IssueMissingVariable:
		return fmt.Sprintf("translation drops variable {{%s}}", i.Name)
	case IssueUnknownVariable:
		return fmt.Sprintf("translation introduces variable {{%s}}", i.Name)
	}
	return fmt.Sprintf("%s: %s", i.Code, i.Name)
}

// Lint compares the placeholder inventories of a source string and its
// translation: numbered tags, literal keep-list tags and {{name}} variables
// must all survive. Reordering and duplication are fine; dropping or
// inventing placeholders is not. An empty result means the translation is
// structurally sound.
func Lint(source, translated string, opts ...Option) []Issue {
	return NewCodec(opts...).Lint(source, translated)
}

// Lint compares placeholder inventories using this codec's markup parser.
func (c *Codec) Lint(source, translated string) []Issue {
	src, err := c.inventory(source)
	if err != nil {
		return nil
	}
	dst, err := c.inventory(translated)
	if err != nil {
		return nil
	}

	var issues []Issue
	for _, name := range missingFrom(src.tags, dst.tags) {
		issues = append(issues, Issue{Code: IssueMissingTag, Name: name})
	}
	for _, name := range missingFrom(dst.tags, src.tags) {
		issues = append(issues, Issue{Code: IssueUnknownTag, Name: name})
	}
	for _, name := range missingFrom(src.vars, dst.vars) {
		issues = append(issues, Issue{Code: IssueMissingVariable, Name: name})
	}
	for _, name := range missingFrom(dst.vars, src.vars) {
		issues = append(issues, Issue{Code: IssueUnknownVariable, Name: name})
	}
	return issues
}

type placeholderInventory struct {
	tags map[string]bool
	vars map[string]bool
}

func (c *Codec) inventory(s string) (*placeholderInventory, error) {
	parsed, err := c.parser.Parse(s)
	if err != nil {
		return nil, err
	}
	inv := &placeholderInventory{
		tags: make(map[string]bool),
		vars: make(map[string]bool),
	}
	inv.collect(parsed)
	return inv, nil
}

func (inv *placeholderInventory) collect(nodes []markup.Node) {
	for _, n := range nodes {
		switch n := n.(type) {
		case markup.Text:
			inv.collectVars(string(n))
		case *markup.Tag:
			inv.tags[n.Name] = true
			inv.collect(n.Children)
		}
	}
}

// collectVars extracts {{name}} and {{name, format}} slot names; the format
// is part of presentation, not identity, so only the name is compared.
func (inv *placeholderInventory) collectVars(text string) {
	for {
		start := strings.Index(text, "{{")
		if start < 0 {
			return
		}
		end := strings.Index(text[start+2:], "}}")
		if end < 0 {
			return
		}
		name := text[start+2 : start+2+end]
		if comma := strings.Index(name, ","); comma >= 0 {
			name = name[:comma]
		}
		name = strings.TrimSpace(name)
		if name != "" {
			inv.vars[name] = true
		}
		text = text[start+2+end+2:]
	}
}

// missingFrom returns the keys of a absent from b, sorted for stable output.
func missingFrom(a, b map[string]bool) []string {
	var names []string
	for name := range a {
		if !b[name] {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}
