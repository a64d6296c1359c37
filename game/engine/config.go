package engine

import (
	"errors"
	"fmt"
)

var ErrInvalidPreset = errors.New("invalid setup preset")

// SetupPreset is a named, reusable setup roster. Layout holds the four home
// rows, front row (nearest the center) first, one character per piece using
// PresetLegend.
type SetupPreset struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Layout      []string `json:"layout"`
}

// PresetLegend maps layout characters to ranks
var PresetLegend = map[byte]Rank{
	'F': Flag,
	'Y': Spy,
	'S': Scout,
	'N': Miner,
	'T': Sergeant,
	'L': Lieutenant,
	'K': Captain,
	'J': Major,
	'C': Colonel,
	'G': General,
	'M': Marshal,
	'B': Bomb,
}

const presetRows = RosterSize / BoardWidth

// Roster converts the layout into roster order: the first row fills roster
// entries 0-9, the second 10-19 and so on.
func (p *SetupPreset) Roster() ([]Rank, error) {
	if len(p.Layout) != presetRows {
		return nil, fmt.Errorf("%w: expected %d rows, got %d", ErrInvalidPreset, presetRows, len(p.Layout))
	}

	roster := make([]Rank, 0, RosterSize)
	for y, row := range p.Layout {
		if len(row) != BoardWidth {
			return nil, fmt.Errorf("%w: row %d has %d cells, expected %d", ErrInvalidPreset, y, len(row), BoardWidth)
		}
		for x := 0; x < len(row); x++ {
			r, ok := PresetLegend[row[x]]
			if !ok {
				return nil, fmt.Errorf("%w: unknown piece %q at row %d column %d", ErrInvalidPreset, row[x], y, x)
			}
			roster = append(roster, r)
		}
	}
	return roster, nil
}

// ValidateSetupPreset checks the layout and that it yields a legal roster
func ValidateSetupPreset(p *SetupPreset) error {
	if p.Name == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidPreset)
	}

	roster, err := p.Roster()
	if err != nil {
		return err
	}
	return ValidateRoster(roster)
}

// LayoutFromRoster renders a roster using PresetLegend
func LayoutFromRoster(roster []Rank) []string {
	symbols := make(map[Rank]byte, len(PresetLegend))
	for c, r := range PresetLegend {
		symbols[r] = c
	}

	layout := make([]string, 0, presetRows)
	for start := 0; start < len(roster); start += BoardWidth {
		end := start + BoardWidth
		if end > len(roster) {
			end = len(roster)
		}
		row := make([]byte, 0, BoardWidth)
		for _, r := range roster[start:end] {
			if c, ok := symbols[r]; ok {
				row = append(row, c)
			} else {
				row = append(row, '?')
			}
		}
		layout = append(layout, string(row))
	}
	return layout
}

// DefaultPreset is used when no preset files are available
func DefaultPreset() *SetupPreset {
	return &SetupPreset{
		Name:        "Default",
		Description: "Bombs forward, flag in the back corner",
		Layout:      LayoutFromRoster(DefaultRoster()),
	}
}
