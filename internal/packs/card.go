package packs

import (
	"fmt"

	"github.com/inful/mdfp"

	"git.home.luguber.info/inful/gridsolver/internal/frontmatter"
)

// Card is one parsed puzzle card from a pack repository.
type Card struct {
	Path        string // path relative to the repository root
	Title       string
	Data        string // compressed f-puzzles payload
	URL         string // source share link, when the card carried one
	Fingerprint string // content fingerprint for change detection
}

// HasPuzzle reports whether the card carries solvable puzzle data.
func (c *Card) HasPuzzle() bool {
	return c.Data != ""
}

// ParseCard parses a Markdown puzzle card. Puzzle data is taken from
// frontmatter first (puzzle, then url), then from the first f-puzzles
// link in the body.
func ParseCard(path string, content []byte) (*Card, error) {
	fm, body, had, err := frontmatter.Split(content)
	if err != nil {
		return nil, fmt.Errorf("split card %s: %w", path, err)
	}

	card := &Card{
		Path:        path,
		Fingerprint: mdfp.CalculateFingerprintFromParts(string(fm), string(body)),
	}

	if had {
		fields, err := frontmatter.ParseYAML(fm)
		if err != nil {
			return nil, fmt.Errorf("parse card frontmatter %s: %w", path, err)
		}
		if title, ok := fields["title"].(string); ok {
			card.Title = title
		}
		if data, ok := fields["puzzle"].(string); ok {
			card.Data = data
		}
		if link, ok := fields["url"].(string); ok {
			card.URL = link
			if card.Data == "" {
				if data, ok := puzzleDataFromURL(link); ok {
					card.Data = data
				}
			}
		}
	}

	if card.Data == "" {
		for _, link := range extractMarkdownLinks(body) {
			if data, ok := puzzleDataFromURL(link); ok {
				card.Data = data
				card.URL = link
				break
			}
		}
	}

	return card, nil
}
