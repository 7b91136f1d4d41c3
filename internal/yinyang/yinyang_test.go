package yinyang

import (
	"errors"
	"testing"

	"git.home.luguber.info/inful/gridsolver/internal/solve"
)

func TestNewDimensions(t *testing.T) {
	p := New(13, 42)
	if p.Height() != 13 || p.Width() != 42 {
		t.Fatalf("got %dx%d, want 13x42", p.Height(), p.Width())
	}
	if p.Len() != 13*42 {
		t.Fatalf("got %d cells, want %d", p.Len(), 13*42)
	}
}

func TestParse(t *testing.T) {
	p, err := Parse(3, 3, "012000000")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got, want := p.String(), "0 1 2 \n0 0 0 \n0 0 0 \n"; got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestParseBadDimensions(t *testing.T) {
	_, err := Parse(3, 3, "10")
	var bad *BadDimensionsError
	if !errors.As(err, &bad) {
		t.Fatalf("got %v, want BadDimensionsError", err)
	}
	want := "Bad dimensions: height is 3 and width is 3, but length of the string representation is 2."
	if err.Error() != want {
		t.Fatalf("got %q, want %q", err.Error(), want)
	}
}

func TestParseBadEncoding(t *testing.T) {
	_, err := Parse(3, 3, "012000005")
	var bad *BadEncodingError
	if !errors.As(err, &bad) {
		t.Fatalf("got %v, want BadEncodingError", err)
	}
	want := "Can't encode '5' as shaded or unshaded in a yin-yang puzzle."
	if err.Error() != want {
		t.Fatalf("got %q, want %q", err.Error(), want)
	}
}

func TestTwoByTwo(t *testing.T) {
	p, err := Parse(5, 2, "0001112202")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got := p.twoByTwo(0); got != same {
		t.Fatalf("square at 0: got %v, want no deduction", got)
	}
	if got := p.twoByTwo(2); got != deduced {
		t.Fatalf("square at 2: got %v, want deduction", got)
	}
	if p.data[2] != unshaded {
		t.Fatalf("cell 2: got %d, want %d", p.data[2], unshaded)
	}
	if got := p.twoByTwo(6); got != deduced {
		t.Fatalf("square at 6: got %v, want deduction", got)
	}
	if p.data[8] != shaded {
		t.Fatalf("cell 8: got %d, want %d", p.data[8], shaded)
	}
}

func TestCheckerboard(t *testing.T) {
	p, err := Parse(8, 2, "0112210210211000")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	res, err := p.checkerboard(0)
	if err != nil || res != deduced {
		t.Fatalf("square at 0: got (%v, %v), want deduction", res, err)
	}
	if p.data[0] != shaded {
		t.Fatalf("cell 0: got %d, want %d", p.data[0], shaded)
	}

	if _, err := p.checkerboard(2); !errors.Is(err, ErrContradiction) {
		t.Fatalf("square at 2: got %v, want contradiction", err)
	}

	res, err = p.checkerboard(4)
	if err != nil || res != deduced {
		t.Fatalf("square at 4: got (%v, %v), want deduction", res, err)
	}
	if p.data[6] != unshaded {
		t.Fatalf("cell 6: got %d, want %d", p.data[6], unshaded)
	}

	res, err = p.checkerboard(8)
	if err != nil || res != deduced {
		t.Fatalf("square at 8: got (%v, %v), want deduction", res, err)
	}
	if p.data[9] != shaded {
		t.Fatalf("cell 9: got %d, want %d", p.data[9], shaded)
	}

	res, err = p.checkerboard(10)
	if err != nil || res != deduced {
		t.Fatalf("square at 10: got (%v, %v), want deduction", res, err)
	}
	if p.data[13] != shaded {
		t.Fatalf("cell 13: got %d, want %d", p.data[13], shaded)
	}

	res, err = p.checkerboard(12)
	if err != nil || res != same {
		t.Fatalf("square at 12: got (%v, %v), want no deduction", res, err)
	}
}

func TestTwoByTwoAll(t *testing.T) {
	p, err := Parse(3, 4, "110010000220")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := p.twoByTwoAll(); got != deduced {
		t.Fatalf("got %v, want deduction", got)
	}
	if got, want := p.String(), "1 1 0 0 \n1 2 1 0 \n0 2 2 0 \n"; got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestCheckerboardAll(t *testing.T) {
	p, err := Parse(3, 4, "121220010120")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := p.checkerboardAll(); !errors.Is(err, ErrContradiction) {
		t.Fatalf("got %v, want contradiction", err)
	}
}

func TestDeduce(t *testing.T) {
	p, err := Parse(3, 3, "100112100")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	res, err := p.deduce()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res != deduced {
		t.Fatalf("got %v, want deduction", res)
	}
	if got, want := p.String(), "1 2 2 \n1 1 2 \n1 2 2 \n"; got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestTrueCandidates(t *testing.T) {
	p, err := Parse(4, 4, "0020000020010000")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	tc, ok := solve.TrueCandidates(p)
	if !ok {
		t.Fatal("expected at least one solution")
	}
	want := "2 2 2 3 \n2 1 3 1 \n2 3 3 1 \n3 3 3 3 \n"
	if got := tc.String(); got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestSolutionsAreSolved(t *testing.T) {
	p, err := Parse(4, 4, "0020000020010000")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	it := p.Solutions()
	n := 0
	for {
		s, ok := it.Next()
		if !ok {
			break
		}
		n++
		if !s.Solved() {
			t.Fatalf("iterator yielded an unsolved grid:\n%s", s)
		}
	}
	if n == 0 {
		t.Fatal("expected at least one solution")
	}
}
