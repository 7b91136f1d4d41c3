package fpuzzles

import "math"

// ParseDigits builds a puzzle from a flat string of givens, one
// character per cell in row-major order. '.' and '0' mean empty; other
// characters are digits in base size+1, so a 16x16 grid accepts
// "1".."9" and "a".."g".
func ParseDigits(repr string) (*Puzzle, error) {
	size := int(math.Sqrt(float64(len(repr))))
	if size*size != len(repr) {
		return nil, ErrBadLength
	}

	p := New(size)
	for i := 0; i < len(repr); i++ {
		c := repr[i]
		if c == '.' || c == '0' {
			continue
		}
		d, ok := digitValue(c, size+1)
		if !ok {
			return nil, ErrBadDigit
		}
		v := d
		p.Grid[i/size][i%size].Value = &v
		p.Grid[i/size][i%size].Given = true
	}
	return p, nil
}

// digitValue interprets c as a digit in the given radix, accepting
// 0-9 then a-z in either case.
func digitValue(c byte, radix int) (int, bool) {
	var d int
	switch {
	case c >= '0' && c <= '9':
		d = int(c - '0')
	case c >= 'a' && c <= 'z':
		d = int(c-'a') + 10
	case c >= 'A' && c <= 'Z':
		d = int(c-'A') + 10
	default:
		return 0, false
	}
	if d >= radix {
		return 0, false
	}
	return d, true
}
