package fpuzzles

import (
	"encoding/json"

	lzstring "github.com/daku10/go-lz-string"
)

// DecodeData unwraps the transport form used by solver clients: an
// LZ-string compressToBase64 payload holding the puzzle JSON.
func DecodeData(data string) (*Puzzle, error) {
	raw, err := lzstring.DecompressFromBase64(data)
	if err != nil {
		return nil, ErrCorruptData
	}
	return Decode([]byte(raw))
}

// EncodeData is the inverse of DecodeData.
func EncodeData(p *Puzzle) (string, error) {
	raw, err := json.Marshal(p)
	if err != nil {
		return "", err
	}
	return lzstring.CompressToBase64(string(raw))
}
