// Package wikilink matches wikilinks that point at a note by name.
//
// Wikilink grammar:
//   [[target]]
//   [[folder/sub/target]]
//   [[target#Heading]]
//   [[target|display text]]
//   [[ target ]]
//
// Notes:
// - Matching is case-insensitive and literal on the note name: the name is
//   quoted before it is embedded in a pattern.
// - A path prefix is accepted but not checked against the vault layout; only
//   the last path element has to name the note.
// - This package intentionally does NOT understand markdown code fences; a link
//   inside a fenced block still counts as a reference.
package wikilink

import (
	"regexp"
	"strings"
)

// Match represents a wikilink found in a note's content.
type Match struct {
	// Target is the link target with any path prefix, e.g. "folder/sub/b".
	Target string
	// Anchor is the heading or block after '#', without the '#'.
	Anchor string
	// DisplayText is the alias after '|', if present.
	DisplayText *string
	Start       int
	End         int
	// Line is the 1-based line number of Start.
	Line    int
	Literal string
}

// ReferencePattern builds the case-insensitive pattern matching any wikilink
// to the note named basename.
//
// The pattern accepts optional surrounding whitespace (Unicode spaces such as
// NBSP included), an optional path prefix
// ending in '/', an optional "#anchor" and an optional "|alias". It never
// matches a different name that merely starts or ends with basename.
func ReferencePattern(basename string) *regexp.Regexp {
	return regexp.MustCompile(
		`(?i)\[\[[\s\p{Zs}]*(?:[^\]|]*/)?` +
			regexp.QuoteMeta(basename) +
			`(?:#[^\]|]*)?(?:\|[^\]]*)?[\s\p{Zs}]*\]\]`,
	)
}

// References reports whether content contains a wikilink to basename.
func References(content, basename string) bool {
	return ReferencePattern(basename).MatchString(content)
}

// FindReference returns the first wikilink in content that points at the note
// matched by re (see ReferencePattern).
func FindReference(re *regexp.Regexp, content string) (Match, bool) {
	loc := re.FindStringIndex(content)
	if loc == nil {
		return Match{}, false
	}
	literal := content[loc[0]:loc[1]]
	m := Match{
		Start:   loc[0],
		End:     loc[1],
		Line:    strings.Count(content[:loc[0]], "\n") + 1,
		Literal: literal,
	}
	if target, anchor, display, ok := ParseExact(literal); ok {
		m.Target = target
		m.Anchor = anchor
		m.DisplayText = display
	}
	return m, true
}

// ParseExact parses a string that is exactly a wikilink literal, returning its
// target, anchor and optional display text.
func ParseExact(s string) (target, anchor string, display *string, ok bool) {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "[[") || !strings.HasSuffix(s, "]]") {
		return "", "", nil, false
	}
	inner := strings.TrimSuffix(strings.TrimPrefix(s, "[["), "]]")
	parts := strings.SplitN(inner, "|", 2)
	target = strings.TrimSpace(parts[0])
	if i := strings.Index(target, "#"); i >= 0 {
		anchor = strings.TrimSpace(target[i+1:])
		target = strings.TrimSpace(target[:i])
	}
	if target == "" {
		return "", "", nil, false
	}
	if len(parts) == 2 {
		d := strings.TrimSpace(parts[1])
		display = &d
	}
	return target, anchor, display, true
}
