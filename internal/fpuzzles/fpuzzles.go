// Package fpuzzles models the f-puzzles JSON puzzle description and
// its LZ-string transport encoding, which is what solver clients put
// on the wire.
package fpuzzles

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
)

// Parse errors use the exact wording clients already display verbatim.
var (
	ErrBadLength   = errors.New("Length of digits isn't right for a square sudoku.")
	ErrBadDigit    = errors.New("Invalid digit in string.")
	ErrCorruptData = errors.New("Corrupted N64 encoded data.")
)

// Logic names a deduction technique a client may ask to disable.
type Logic string

const (
	LogicTuples         Logic = "tuples"
	LogicPointing       Logic = "pointing"
	LogicFishes         Logic = "fishes"
	LogicWings          Logic = "wings"
	LogicAIC            Logic = "aic"
	LogicContradictions Logic = "contradictions"
)

// TrueCandidatesOption tweaks how true-candidate results are rendered
// by the client.
type TrueCandidatesOption string

const (
	TrueCandidatesColored TrueCandidatesOption = "colored"
	TrueCandidatesLogical TrueCandidatesOption = "logical"
)

// Cell is a single cell of the puzzle grid.
type Cell struct {
	Value             *int  `json:"value"`
	Given             bool  `json:"given"`
	CenterPencilMarks []int `json:"centerPencilMarks"`
	CornerPencilMarks []int `json:"cornerPencilMarks"`
	GivenPencilMarks  []int `json:"givenPencilMarks"`
	Region            *int  `json:"region"`
}

// CellPair references two cells, used by difference and ratio markers.
type CellPair struct {
	Cells [2]string `json:"cells"`
}

// Quadruple requires the listed values to appear among the four cells
// around the marker. Cells[0] is the top left cell of the quad.
type Quadruple struct {
	Cells  []string `json:"cells"`
	Values []int    `json:"values"`
}

// Region is an extra region: its cells must hold pairwise distinct
// digits.
type Region struct {
	Cells []string `json:"cells"`
}

// Puzzle is the f-puzzles board description.
type Puzzle struct {
	Size                  int                    `json:"size"`
	Grid                  [][]Cell               `json:"grid"`
	PositiveDiagonal      bool                   `json:"diagonal+"`
	NegativeDiagonal      bool                   `json:"diagonal-"`
	AntiKnight            bool                   `json:"antiknight"`
	AntiKing              bool                   `json:"antiking"`
	DisjointGroups        bool                   `json:"disjointgroups"`
	NonConsecutive        bool                   `json:"nonconsecutive"`
	DisabledLogic         []Logic                `json:"disabledlogic"`
	TrueCandidatesOptions []TrueCandidatesOption `json:"truecandidatesoptions"`
	Difference            []CellPair             `json:"difference"`
	Ratio                 []CellPair             `json:"ratio"`
	Quadruple             []Quadruple            `json:"quadruple"`
	ExtraRegion           []Region               `json:"extraregion"`
}

// New returns an empty puzzle of the given side length.
func New(size int) *Puzzle {
	grid := make([][]Cell, size)
	for i := range grid {
		grid[i] = make([]Cell, size)
	}
	return &Puzzle{Size: size, Grid: grid}
}

// IsIrregular reports whether any cell carries an explicit region id,
// which switches the board to irregular region layout.
func (p *Puzzle) IsIrregular() bool {
	for _, row := range p.Grid {
		for _, cell := range row {
			if cell.Region != nil {
				return true
			}
		}
	}
	return false
}

// Decode parses an f-puzzles JSON document. Unknown fields and unknown
// option values are rejected.
func Decode(data []byte) (*Puzzle, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	var p Puzzle
	if err := dec.Decode(&p); err != nil {
		return nil, err
	}
	if err := p.validate(); err != nil {
		return nil, err
	}
	return &p, nil
}

func (p *Puzzle) validate() error {
	for _, l := range p.DisabledLogic {
		switch l {
		case LogicTuples, LogicPointing, LogicFishes, LogicWings, LogicAIC, LogicContradictions:
		default:
			return fmt.Errorf("unknown disabled logic %q", l)
		}
	}
	for _, o := range p.TrueCandidatesOptions {
		switch o {
		case TrueCandidatesColored, TrueCandidatesLogical:
		default:
			return fmt.Errorf("unknown true candidates option %q", o)
		}
	}
	return nil
}
