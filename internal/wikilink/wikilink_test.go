package wikilink

import "testing"

func strPtr(s string) *string { return &s }

func TestParseExact(t *testing.T) {
	tests := []struct {
		in          string
		wantTarget  string
		wantAnchor  string
		wantDisplay *string
		wantOK      bool
	}{
		{in: "[[people/freya]]", wantTarget: "people/freya", wantOK: true},
		{in: " [[ people/freya ]] ", wantTarget: "people/freya", wantOK: true},
		{in: "[[freya#Early life]]", wantTarget: "freya", wantAnchor: "Early life", wantOK: true},
		{
			in:          "[[people/freya#Family|Lady Freya]]",
			wantTarget:  "people/freya",
			wantAnchor:  "Family",
			wantDisplay: strPtr("Lady Freya"),
			wantOK:      true,
		},
		{in: "[[]]", wantOK: false},
		{in: "[[#heading]]", wantOK: false},
		{in: "people/freya", wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			target, anchor, display, ok := ParseExact(tt.in)
			if ok != tt.wantOK {
				t.Fatalf("ok=%v, want %v", ok, tt.wantOK)
			}
			if !ok {
				return
			}
			if target != tt.wantTarget {
				t.Fatalf("target=%q, want %q", target, tt.wantTarget)
			}
			if anchor != tt.wantAnchor {
				t.Fatalf("anchor=%q, want %q", anchor, tt.wantAnchor)
			}
			if (display == nil) != (tt.wantDisplay == nil) {
				t.Fatalf("display nil=%v, want %v", display == nil, tt.wantDisplay == nil)
			}
			if display != nil && *display != *tt.wantDisplay {
				t.Fatalf("display=%q, want %q", *display, *tt.wantDisplay)
			}
		})
	}
}

func TestReferencesLinkForms(t *testing.T) {
	forms := []string{
		"see [[b]]",
		"see [[b|Alias Text]]",
		"see [[folder/sub/b]]",
		"see [[b#Heading]]",
		"see [[ b ]]",
		"see [[B]]",
		"see [[folder/b#Heading|Alias]] here",
		"see [[\u00a0b\u00a0]]",
		"see [[\u2003b|Alias\u202f]]",
	}
	for _, content := range forms {
		t.Run(content, func(t *testing.T) {
			if !References(content, "b") {
				t.Fatalf("expected %q to reference b", content)
			}
		})
	}
}

func TestReferencesRejectsOtherNames(t *testing.T) {
	contents := []string{
		"see [[bb]]",
		"see [[ab]]",
		"see [[folder/bb]]",
		"see [[b2|b]]",
		"see b and [b] but no link",
		"see [[b",
	}
	for _, content := range contents {
		t.Run(content, func(t *testing.T) {
			if References(content, "b") {
				t.Fatalf("expected %q not to reference b", content)
			}
		})
	}
}

func TestReferencePatternEscapesName(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    bool
	}{
		{"a.b", "[[a.b]]", true},
		{"a.b", "[[axb]]", false},
		{"c+d", "[[c+d]]", true},
		{"c+d", "[[ccd]]", false},
		{"c+d", "[[cccd]]", false},
		{"x*", "[[xxxx]]", false},
		{"(a|b)", "[[a]]", false},
		{"(a|b)", "[[(a|b)]]", true},
		{"[x]", "[[x]]", false},
		{"a$", "[[a$]]", true},
	}
	for _, tt := range tests {
		t.Run(tt.name+" in "+tt.content, func(t *testing.T) {
			if got := References(tt.content, tt.name); got != tt.want {
				t.Fatalf("References(%q, %q) = %v, want %v", tt.content, tt.name, got, tt.want)
			}
		})
	}
}

func TestFindReference(t *testing.T) {
	content := "# Project\n\nsome text\nSee [[notes/b#Tasks|the list]] and [[b]].\n"

	m, ok := FindReference(ReferencePattern("b"), content)
	if !ok {
		t.Fatal("expected a match")
	}
	if m.Literal != "[[notes/b#Tasks|the list]]" {
		t.Fatalf("literal=%q", m.Literal)
	}
	if m.Line != 4 {
		t.Fatalf("line=%d, want 4", m.Line)
	}
	if m.Target != "notes/b" || m.Anchor != "Tasks" {
		t.Fatalf("target=%q anchor=%q", m.Target, m.Anchor)
	}
	if m.DisplayText == nil || *m.DisplayText != "the list" {
		t.Fatalf("display=%v", m.DisplayText)
	}
	if content[m.Start:m.End] != m.Literal {
		t.Fatalf("offsets do not cover literal: %q", content[m.Start:m.End])
	}

	if _, ok := FindReference(ReferencePattern("c"), content); ok {
		t.Fatal("expected no match for c")
	}
}
