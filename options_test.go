package pathkit

import "testing"

func TestOptionsCanonical(t *testing.T) {
	a := Options{"b": "2", "a": "1"}
	b := Options{"a": "1", "b": "2"}
	if a.Canonical() != b.Canonical() {
		t.Error("canonical form must be order-independent")
	}

	// length prefixes prevent concatenation collisions
	c := Options{"a": "1b=2"}
	if a.Canonical() == c.Canonical() {
		t.Error("distinct option sets must not collide")
	}

	if (Options{}).Canonical() != "" {
		t.Error("empty options canonicalize to the empty string")
	}
}

func TestOptionsEqual(t *testing.T) {
	tests := []struct {
		name string
		a, b Options
		want bool
	}{
		{"both empty", Options{}, Options{}, true},
		{"nil equals empty", nil, Options{}, true},
		{"same", Options{"k": "v"}, Options{"k": "v"}, true},
		{"different value", Options{"k": "v"}, Options{"k": "w"}, false},
		{"extra key", Options{"k": "v"}, Options{"k": "v", "x": "y"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.a.Equal(tt.b); got != tt.want {
				t.Errorf("Equal = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestOptionsMerge(t *testing.T) {
	defaults := Options{"region": "us-east-1", "anon": "false"}
	merged := Options{"anon": "true"}.Merge(defaults)

	if got := merged.GetDefault("anon", ""); got != "true" {
		t.Errorf("caller options must win, got anon=%q", got)
	}
	if got := merged.GetDefault("region", ""); got != "us-east-1" {
		t.Errorf("defaults must fill gaps, got region=%q", got)
	}
	if len(defaults) != 2 {
		t.Error("merge must not mutate the defaults")
	}
}

func TestOptionsImmutability(t *testing.T) {
	orig := Options{"k": "v"}
	p := MustNew("s3://bucket/x", WithOptions(orig))
	orig["k"] = "mutated"

	if got := p.Options().GetDefault("k", ""); got != "v" {
		t.Errorf("path options observed caller mutation: k=%q", got)
	}

	// reading back also yields a copy
	p.Options()["k"] = "again"
	if got := p.Options().GetDefault("k", ""); got != "v" {
		t.Errorf("Options() must return a copy: k=%q", got)
	}
}
