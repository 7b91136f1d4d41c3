package normalization

import "testing"

type mode string

const (
	modeFixed  mode = "fixed"
	modeLinear mode = "linear"
)

func testNormalizer() *Normalizer[mode] {
	return NewNormalizer(map[string]mode{
		"fixed":  modeFixed,
		"linear": modeLinear,
	}, modeLinear)
}

func TestNormalize(t *testing.T) {
	n := testNormalizer()

	cases := []struct {
		raw  string
		want mode
	}{
		{"fixed", modeFixed},
		{"Fixed", modeFixed},
		{"  FIXED  ", modeFixed},
		{"linear", modeLinear},
		{"unknown", modeLinear},
		{"", modeLinear},
	}
	for _, c := range cases {
		if got := n.Normalize(c.raw); got != c.want {
			t.Errorf("Normalize(%q) = %q, want %q", c.raw, got, c.want)
		}
	}
}

func TestNewNormalizerCanonicalizesKeys(t *testing.T) {
	n := NewNormalizer(map[string]mode{" Fixed ": modeFixed}, modeLinear)
	if got := n.Normalize("fixed"); got != modeFixed {
		t.Errorf("Normalize(\"fixed\") = %q, want %q", got, modeFixed)
	}
}
