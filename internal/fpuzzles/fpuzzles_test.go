package fpuzzles

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestIsIrregular(t *testing.T) {
	p := New(9)
	require.False(t, p.IsIrregular())

	region := 1
	p.Grid[0][0].Region = &region
	require.True(t, p.IsIrregular())
}

func TestParseDigits(t *testing.T) {
	p, err := ParseDigits("1...340.0..04321")
	require.NoError(t, err)
	require.Equal(t, 4, p.Size)

	require.NotNil(t, p.Grid[0][0].Value)
	require.Equal(t, 1, *p.Grid[0][0].Value)
	require.True(t, p.Grid[0][0].Given)

	// '.' and '0' both mean empty.
	require.Nil(t, p.Grid[0][1].Value)
	require.Nil(t, p.Grid[1][2].Value)

	require.Equal(t, 4, *p.Grid[3][0].Value)
	require.Equal(t, 3, *p.Grid[3][1].Value)
	require.Equal(t, 2, *p.Grid[3][2].Value)
	require.Equal(t, 1, *p.Grid[3][3].Value)
}

func TestParseDigitsWrongLength(t *testing.T) {
	_, err := ParseDigits("12345")
	require.ErrorIs(t, err, ErrBadLength)
}

func TestParseDigitsBadDigit(t *testing.T) {
	_, err := ParseDigits("12.......k......")
	require.ErrorIs(t, err, ErrBadDigit)
}

func TestParseDigitsLargeRadix(t *testing.T) {
	// A 16x16 grid accepts hex-like digits up to 'g'.
	p, err := ParseDigits("g" + strings.Repeat(".", 255))
	require.NoError(t, err)
	require.Equal(t, 16, *p.Grid[0][0].Value)
}

func TestDecodeRejectsUnknownFields(t *testing.T) {
	_, err := Decode([]byte(`{"size":2,"grid":[[{},{}],[{},{}]],"bogus":true}`))
	require.Error(t, err)
}

func TestDecodeRejectsUnknownLogic(t *testing.T) {
	_, err := Decode([]byte(`{"size":2,"grid":[[{},{}],[{},{}]],"disabledlogic":["levitation"]}`))
	require.Error(t, err)
	_, err = Decode([]byte(`{"size":2,"grid":[[{},{}],[{},{}]],"truecandidatesoptions":["sparkly"]}`))
	require.Error(t, err)
}

func TestDecodeDiagonalFields(t *testing.T) {
	p, err := Decode([]byte(`{"size":2,"grid":[[{},{}],[{},{}]],"diagonal+":true,"diagonal-":true}`))
	require.NoError(t, err)
	require.True(t, p.PositiveDiagonal)
	require.True(t, p.NegativeDiagonal)
}

func TestDecodeQuadrupleAndExtraRegion(t *testing.T) {
	raw := `{
		"size": 9,
		"grid": [],
		"quadruple": [{"cells": ["R1C1","R1C2","R2C1","R2C2"], "values": [5,6]}],
		"extraregion": [{"cells": ["R2C2","R2C3"]}]
	}`
	p, err := Decode([]byte(raw))
	require.NoError(t, err)
	require.Len(t, p.Quadruple, 1)
	require.Equal(t, "R1C1", p.Quadruple[0].Cells[0])
	require.Equal(t, []int{5, 6}, p.Quadruple[0].Values)
	require.Len(t, p.ExtraRegion, 1)
}

func TestTransportRoundTrip(t *testing.T) {
	p, err := ParseDigits("1...340.0..04321")
	require.NoError(t, err)

	data, err := EncodeData(p)
	require.NoError(t, err)
	require.NotEmpty(t, data)

	back, err := DecodeData(data)
	require.NoError(t, err)
	require.Equal(t, p.Size, back.Size)

	var want, got any
	wantRaw, err := json.Marshal(p)
	require.NoError(t, err)
	gotRaw, err := json.Marshal(back)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(wantRaw, &want))
	require.NoError(t, json.Unmarshal(gotRaw, &got))
	require.Equal(t, want, got)
}

func TestDecodeDataCorrupt(t *testing.T) {
	_, err := DecodeData("!!! not lz-string !!!")
	require.Error(t, err)
}
