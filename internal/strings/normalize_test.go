package strings

import "testing"

func TestNormalizeWhitespace(t *testing.T) {
	cases := []struct {
		name  string
		input string
		want  string
	}{
		{name: "empty", input: "", want: ""},
		{name: "whitespace only", input: " \n\t ", want: ""},
		{name: "single token", input: "inbox", want: "inbox"},
		{name: "collapses spaces", input: "one   two    three", want: "one two three"},
		{name: "collapses newlines", input: "one\n\n two\tthree", want: "one two three"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := NormalizeWhitespace(tc.input)
			if got != tc.want {
				t.Fatalf("expected %q, got %q", tc.want, got)
			}
		})
	}
}

func TestIsBlank(t *testing.T) {
	if !IsBlank("  \t\n") {
		t.Error("whitespace-only input should be blank")
	}
	if IsBlank(" board ") {
		t.Error("non-empty input should not be blank")
	}
}

func TestTrimTrailingSlash(t *testing.T) {
	if got := TrimTrailingSlash("http://localhost:8377//"); got != "http://localhost:8377" {
		t.Errorf("expected trailing slashes removed, got %q", got)
	}
	if got := TrimTrailingSlash("no-slash"); got != "no-slash" {
		t.Errorf("expected input unchanged, got %q", got)
	}
}

func TestNormalizeLowerTrimSpace(t *testing.T) {
	if got := NormalizeLowerTrimSpace("  User@Example.COM "); got != "user@example.com" {
		t.Errorf("expected normalized email, got %q", got)
	}
}
