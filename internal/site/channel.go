package site

import (
	"strings"

	"github.com/gosimple/slug"
)

// PlaylistExt is the extension of every output file.
const PlaylistExt = ".m3u8"

// Variable is a literal placeholder and the value that replaces it.
type Variable struct {
	Name  string
	Value string
}

// Substitution replaces every occurrence of Pattern with Replacement.
// Pattern is a literal string, not a template or regex.
type Substitution struct {
	Pattern     string
	Replacement string
}

// Substitutions is an ordered list of literal replacements. Each one sees the
// output of the previous, so order matters when values contain placeholders.
type Substitutions []Substitution

// Apply runs every substitution over s in order.
func (subs Substitutions) Apply(s string) string {
	for _, sub := range subs {
		if sub.Pattern == "" {
			continue
		}
		s = strings.ReplaceAll(s, sub.Pattern, sub.Replacement)
	}
	return s
}

// Channel is one named stream within a site.
type Channel struct {
	name string
	subs Substitutions
}

// NewChannel builds a channel from its display name and variables. A blank
// name is accepted; its FileName is empty and the channel fails on its own
// when the run reaches it.
func NewChannel(name string, vars []Variable) Channel {
	subs := make(Substitutions, 0, len(vars))
	for _, v := range vars {
		subs = append(subs, Substitution{Pattern: v.Name, Replacement: v.Value})
	}
	return Channel{name: name, subs: subs}
}

func (c Channel) Name() string                 { return c.name }
func (c Channel) Substitutions() Substitutions { return c.subs }

// FileName returns the output file name for the channel, or "" when the
// name has no characters a slug can keep.
func (c Channel) FileName() string {
	s := slug.Make(strings.ToLower(c.name))
	if s == "" {
		return ""
	}
	return s + PlaylistExt
}
