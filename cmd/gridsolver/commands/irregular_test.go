package commands

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	gserrors "git.home.luguber.info/inful/gridsolver/internal/errors"
)

// Size 2 walks three partitions: rows and columns both admit exactly
// one completion of the seeded first row, while the diagonal layout
// contradicts during seeding and ends the walk.
func TestIrregularCmdSizeTwo(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, (&IrregularCmd{Size: 2, stdout: &buf}).Run(nil))

	want := "1\n[0 0 1 1 ]\n" +
		"1\n[0 1 0 1 ]\n" +
		"2 / 2\n"
	require.Equal(t, want, buf.String())
}

func TestIrregularCmdResume(t *testing.T) {
	var buf bytes.Buffer
	cmd := &IrregularCmd{Size: 2, Start: "0,0,1,1", stdout: &buf}
	require.NoError(t, cmd.Run(nil))

	want := "1\n[0 1 0 1 ]\n" +
		"1 / 1\n"
	require.Equal(t, want, buf.String())
}

func TestIrregularCmdOutFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "layouts.txt")
	var buf bytes.Buffer
	cmd := &IrregularCmd{Size: 2, Out: path, stdout: &buf}
	require.NoError(t, cmd.Run(nil))

	// Records land in the file; stdout carries progress and the tally.
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, "1\n[0 0 1 1 ]\n1\n[0 1 0 1 ]\n", string(data))
	require.Equal(t, "[0 0 1 1 ]\n[0 1 0 1 ]\n2 / 2\n", buf.String())
}

func TestIrregularCmdSizeValidation(t *testing.T) {
	for _, size := range []int{0, 1, 10} {
		err := (&IrregularCmd{Size: size}).Run(nil)
		require.Error(t, err)
		require.True(t, gserrors.IsCategory(err, gserrors.CategoryValidation))
	}
}

func TestIrregularCmdStartValidation(t *testing.T) {
	err := (&IrregularCmd{Size: 2, Start: "0,0,1"}).Run(nil)
	require.Error(t, err)
	require.True(t, gserrors.IsCategory(err, gserrors.CategoryValidation))

	err = (&IrregularCmd{Size: 2, Start: "0,0,1,9"}).Run(nil)
	require.Error(t, err)
	require.True(t, gserrors.IsCategory(err, gserrors.CategoryValidation))

	err = (&IrregularCmd{Size: 2, Start: "0,0,x,1"}).Run(nil)
	require.Error(t, err)
	require.True(t, gserrors.IsCategory(err, gserrors.CategoryValidation))
}

func TestParseStartTrimsSpaces(t *testing.T) {
	got, err := parseStart("0, 0, 1, 1", 2)
	require.NoError(t, err)
	require.Equal(t, []int{0, 0, 1, 1}, got)
}
