package engine

import "fmt"

// Color identifies a player and the four tokens it owns
type Color string

const (
	Red    Color = "red"
	Blue   Color = "blue"
	Green  Color = "green"
	Yellow Color = "yellow"
)

const (
	// Board dimensions
	BoardSize         = 15
	PathLength        = 52
	HomeStretchLength = 6
	HomeStretchBase   = PathLength
	FinalPosition     = HomeStretchBase + HomeStretchLength - 1

	// Position sentinels
	BasePosition = -1
	OffBoard     = 100

	// Rule constants
	TokensPerPlayer     = 4
	MinPlayers          = 2
	MaxPlayers          = 4
	DiceFaces           = 6
	ExitRoll            = 6
	MaxConsecutiveSixes = 3
)

// Cell is a physical board coordinate on the 15x15 grid
type Cell struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

// startOffsets is the absolute main-path cell each color exits onto
var startOffsets = map[Color]int{
	Yellow: 0,
	Blue:   13,
	Green:  26,
	Red:    39,
}

// homeEntries is the last main-path cell before a color turns into its home stretch
var homeEntries = map[Color]int{
	Yellow: 50,
	Blue:   11,
	Green:  24,
	Red:    37,
}

// safeSpots are the start cells; nothing is captured there
var safeSpots = map[int]bool{0: true, 13: true, 26: true, 39: true}

// playerColors is the seating preference table per player count
var playerColors = map[int][]Color{
	2: {Red, Blue},
	3: {Red, Blue, Green},
	4: {Red, Blue, Green, Yellow},
}

// mainPathCells runs clockwise from the yellow start, indexed by absolute position
var mainPathCells = [PathLength]Cell{
	{6, 1}, {6, 2}, {6, 3}, {6, 4}, {6, 5},
	{5, 6}, {4, 6}, {3, 6}, {2, 6}, {1, 6}, {0, 6},
	{0, 7}, {0, 8},

	{1, 8}, {2, 8}, {3, 8}, {4, 8}, {5, 8},
	{6, 9}, {6, 10}, {6, 11}, {6, 12}, {6, 13}, {6, 14},
	{7, 14}, {8, 14},

	{8, 13}, {8, 12}, {8, 11}, {8, 10}, {8, 9},
	{9, 8}, {10, 8}, {11, 8}, {12, 8}, {13, 8}, {14, 8},
	{14, 7}, {14, 6},

	{13, 6}, {12, 6}, {11, 6}, {10, 6}, {9, 6},
	{8, 5}, {8, 4}, {8, 3}, {8, 2}, {8, 1}, {8, 0},
	{7, 0}, {6, 0},
}

// homeStretchCells lists each color's private approach; the last entry is the center
var homeStretchCells = map[Color][HomeStretchLength]Cell{
	Yellow: {{7, 1}, {7, 2}, {7, 3}, {7, 4}, {7, 5}, {7, 6}},
	Blue:   {{1, 7}, {2, 7}, {3, 7}, {4, 7}, {5, 7}, {6, 7}},
	Green:  {{7, 13}, {7, 12}, {7, 11}, {7, 10}, {7, 9}, {7, 8}},
	Red:    {{13, 7}, {12, 7}, {11, 7}, {10, 7}, {9, 7}, {8, 7}},
}

// baseCells holds the resting cell of every token while it waits in base
var baseCells = map[Color][TokensPerPlayer]Cell{
	Yellow: {{1, 1}, {1, 4}, {4, 1}, {4, 4}},
	Blue:   {{1, 10}, {1, 13}, {4, 10}, {4, 13}},
	Red:    {{10, 1}, {10, 4}, {13, 1}, {13, 4}},
	Green:  {{10, 10}, {10, 13}, {13, 10}, {13, 13}},
}

// AllColors returns every color in seating order
func AllColors() []Color {
	return []Color{Red, Blue, Green, Yellow}
}

// Valid reports whether c is one of the four board colors
func (c Color) Valid() bool {
	_, ok := startOffsets[c]
	return ok
}

// StartOffset returns the absolute cell the color exits onto
func (c Color) StartOffset() int {
	return startOffsets[c]
}

// HomeEntry returns the absolute cell where the color turns into its home stretch
func (c Color) HomeEntry() int {
	return homeEntries[c]
}

// HomeEntryFromStart is the cyclic distance from the color's start to its home entry
func (c Color) HomeEntryFromStart() int {
	return (homeEntries[c] - startOffsets[c] + PathLength) % PathLength
}

// ColorsForPlayerCount returns the seating colors for a game of n players
func ColorsForPlayerCount(n int) ([]Color, error) {
	colors, ok := playerColors[n]
	if !ok {
		return nil, fmt.Errorf("player count must be between %d and %d, got %d", MinPlayers, MaxPlayers, n)
	}
	out := make([]Color, len(colors))
	copy(out, colors)
	return out, nil
}

// IsSafeSpot reports whether an absolute main-path cell is immune to capture
func IsSafeSpot(abs int) bool {
	return safeSpots[abs]
}

// SafeSpots returns the absolute cells immune to capture
func SafeSpots() []int {
	return []int{0, 13, 26, 39}
}

// MainPathCell returns the board coordinate of an absolute main-path position
func MainPathCell(abs int) Cell {
	return mainPathCells[((abs%PathLength)+PathLength)%PathLength]
}

// HomeStretchCell returns the board coordinate of a home-stretch index for a color
func HomeStretchCell(c Color, idx int) Cell {
	if idx < 0 {
		idx = 0
	}
	if idx >= HomeStretchLength {
		idx = HomeStretchLength - 1
	}
	return homeStretchCells[c][idx]
}

// BaseCell returns the resting coordinate of a token in base
func BaseCell(c Color, tokenIndex int) Cell {
	return baseCells[c][tokenIndex]
}
