package phone

import "testing"

func TestNormalize(t *testing.T) {
	n := New("960", 7)

	tests := []struct {
		name string
		raw  string
		want string
	}{
		{"empty", "", ""},
		{"whitespace only", "  ", ""},
		{"already prefixed", "9601234567", "9601234567"},
		{"prefixed with plus", "+960 123-4567", "9601234567"},
		{"local seven digits", "1234567", "9601234567"},
		{"local with separators", "123-4567", "9601234567"},
		{"trunk zero", "01234567", "9601234567"},
		{"international other country", "4412345678901", "4412345678901"},
		{"short garbage", "12345", "12345"},
		{"letters stripped", "call 1234567 now", "9601234567"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := n.Normalize(tt.raw)
			if got != tt.want {
				t.Errorf("Normalize(%q) = %q, want %q", tt.raw, got, tt.want)
			}
		})
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	n := New("960", 7)
	for _, raw := range []string{"+960 771-2345", "7712345", "07712345", "4412345678901"} {
		once := n.Normalize(raw)
		twice := n.Normalize(once)
		if once != twice {
			t.Errorf("Normalize not idempotent for %q: %q then %q", raw, once, twice)
		}
	}
}

func TestNormalizeCollapsesEquivalentForms(t *testing.T) {
	n := New("960", 7)
	forms := []string{"+9607712345", "7712345", "960 771 2345", "07712345"}
	want := n.Normalize(forms[0])
	for _, f := range forms[1:] {
		if got := n.Normalize(f); got != want {
			t.Errorf("Normalize(%q) = %q, want %q", f, got, want)
		}
	}
}
