package textutil

import "testing"

func TestSanitizeFileName(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"Holiday Cut", "Holiday Cut"},
		{"a/b:c*d", "a-b-c-d"},
		{"what?<now>|\"", "whatnow"},
		{"  spaced \t out  ", "spaced out"},
		{"..hidden", "hidden"},
		{"line\nbreak", "line break"},
		{"???", "export"},
		{"", "export"},
	}
	for _, tc := range cases {
		if got := SanitizeFileName(tc.in, "export"); got != tc.want {
			t.Fatalf("SanitizeFileName(%q): expected %q, got %q", tc.in, tc.want, got)
		}
	}
}
