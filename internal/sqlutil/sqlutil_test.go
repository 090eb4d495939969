package sqlutil

import "testing"

func TestInClauseArgs(t *testing.T) {
	tests := []struct {
		items    []string
		wantPH   string
		wantArgs int
	}{
		{nil, "NULL", 0},
		{[]string{"a.md"}, "?", 1},
		{[]string{"a.md", "b.md", "c.md"}, "?, ?, ?", 3},
	}
	for _, tt := range tests {
		ph, args := InClauseArgs(tt.items)
		if ph != tt.wantPH || len(args) != tt.wantArgs {
			t.Fatalf("InClauseArgs(%v) = %q, %d args; want %q, %d", tt.items, ph, len(args), tt.wantPH, tt.wantArgs)
		}
		for i, a := range args {
			if a != tt.items[i] {
				t.Fatalf("arg %d = %v, want %s", i, a, tt.items[i])
			}
		}
	}
}
