package ragephoto

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/woozymasta/pathrules"
)

func TestMetadata(t *testing.T) {
	t.Parallel()

	p := mustParse(t, newFixture(FormatGTA5).bytes())
	meta, err := p.Metadata()
	if err != nil {
		t.Fatalf("Metadata: %v", err)
	}

	if meta["area"] != "SANAND" {
		t.Fatalf("area=%v, want SANAND", meta["area"])
	}

	paths, err := p.MetadataPaths()
	if err != nil {
		t.Fatalf("MetadataPaths: %v", err)
	}

	want := []string{"area", "loc", "loc/x", "loc/y", "loc/z", "sign"}
	if d := cmp.Diff(want, paths); d != "" {
		t.Fatalf("MetadataPaths mismatch (-want +got):\n%s", d)
	}
}

func TestMetadata_EmptyAndInvalid(t *testing.T) {
	t.Parallel()

	p := New()
	meta, err := p.Metadata()
	if err != nil {
		t.Fatalf("Metadata empty: %v", err)
	}
	if len(meta) != 0 {
		t.Fatalf("len(meta)=%d, want 0", len(meta))
	}

	p.SetJSON("{broken")
	if _, err := p.Metadata(); !errors.Is(err, ErrInvalidJSON) {
		t.Fatalf("Metadata err=%v, want ErrInvalidJSON", err)
	}
}

func TestStripJSON(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name  string
		json  string
		rules []pathrules.Rule
		want  string
	}{
		{
			name:  "top level object",
			json:  `{"loc":{"x":1.5,"y":2,"z":3},"area":"SANAND","sign":0}`,
			rules: []pathrules.Rule{{Action: pathrules.ActionExclude, Pattern: "loc"}},
			want:  `{"area":"SANAND","sign":0}`,
		},
		{
			name:  "nested key keeps order",
			json:  `{"meta":{"mid":"x","keep":1},"time":{"hour":12}}`,
			rules: []pathrules.Rule{{Action: pathrules.ActionExclude, Pattern: "meta/mid"}},
			want:  `{"meta":{"keep":1},"time":{"hour":12}}`,
		},
		{
			name:  "no match compacts only",
			json:  `{ "a" : 1 }`,
			rules: []pathrules.Rule{{Action: pathrules.ActionExclude, Pattern: "zzz"}},
			want:  `{"a":1}`,
		},
	}

	for _, tc := range cases {
		tc := tc

		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			p := mustParse(t, newFixture(FormatGTA5).bytes())
			p.SetJSON(tc.json)
			if err := p.StripJSON(tc.rules); err != nil {
				t.Fatalf("StripJSON: %v", err)
			}
			if p.JSON() != tc.want {
				t.Fatalf("JSON()=%s, want %s", p.JSON(), tc.want)
			}
		})
	}
}

func TestStripJSON_EmptyRulesAndErrors(t *testing.T) {
	t.Parallel()

	p := mustParse(t, newFixture(FormatGTA5).bytes())
	before := p.JSON()

	if err := p.StripJSON(nil); err != nil {
		t.Fatalf("StripJSON(nil): %v", err)
	}
	if p.JSON() != before {
		t.Fatal("StripJSON(nil) changed JSON")
	}

	err := p.StripJSON([]pathrules.Rule{{Action: pathrules.ActionUnknown, Pattern: "loc"}})
	if err == nil {
		t.Fatal("expected error for unknown rule action")
	}

	p.SetJSON("[1]")
	err = p.StripJSON([]pathrules.Rule{{Action: pathrules.ActionExclude, Pattern: "loc"}})
	if !errors.Is(err, ErrInvalidJSON) {
		t.Fatalf("StripJSON array err=%v, want ErrInvalidJSON", err)
	}
}
