package ragephoto

import (
	"strings"
	"testing"
	"unicode/utf8"
)

func TestSanitizeFileName(t *testing.T) {
	t.Parallel()

	cases := []struct {
		in   string
		want string
	}{
		{in: "Sunset.jpg", want: "Sunset.jpg"},
		{in: "  ", want: "_"},
		{in: "..", want: "_"},
		{in: "a/b\\c:d", want: "a_b_c_d"},
		{in: "what?*", want: "what__"},
		{in: "tab\there", want: "tab_here"},
		{in: "con.jpg", want: "_con.jpg"},
		{in: "LPT1", want: "_LPT1"},
		{in: "console.jpg", want: "console.jpg"},
		{in: "trailing. . ", want: "trailing"},
		{in: "Фото на пляже.jpg", want: "Фото на пляже.jpg"},
	}

	for _, tc := range cases {
		if got := SanitizeFileName(tc.in); got != tc.want {
			t.Fatalf("SanitizeFileName(%q)=%q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestSanitizeFileName_LongIsDeterministic(t *testing.T) {
	t.Parallel()

	long := strings.Repeat("я", 200)
	first := SanitizeFileName(long)
	second := SanitizeFileName(long)

	if first != second {
		t.Fatalf("non-deterministic result %q vs %q", first, second)
	}
	if len(first) > maxSanitizedNameLen {
		t.Fatalf("len=%d exceeds %d", len(first), maxSanitizedNameLen)
	}
	if !utf8.ValidString(first) {
		t.Fatal("shortened name split a rune")
	}
}

func TestUniqueNames(t *testing.T) {
	t.Parallel()

	names := newUniqueNames()
	want := []string{"a.jpg", "A~2.jpg", "a~3.jpg", "b.jpg"}
	for i, in := range []string{"a.jpg", "A.jpg", "a.jpg", "b.jpg"} {
		got, err := names.claim(in)
		if err != nil {
			t.Fatalf("claim(%q): %v", in, err)
		}
		if got != want[i] {
			t.Fatalf("claim(%q)=%q, want %q", in, got, want[i])
		}
	}
}
