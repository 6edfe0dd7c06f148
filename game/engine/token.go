package engine

import "fmt"

// Token is one of a player's four pieces.
//
// Position is relative to the owner's start: -1 while in base, 0..51 along the
// main path, 52..57 inside the home stretch with 57 being the center cell.
type Token struct {
	Color    Color `json:"color"`
	Index    int   `json:"index"`
	InBase   bool  `json:"in_base"`
	Position int   `json:"position"`
	Finished bool  `json:"finished"`
}

// TokenRef identifies a token without carrying its state
type TokenRef struct {
	Color Color `json:"color"`
	Index int   `json:"index"`
}

// NewToken creates a token waiting in base
func NewToken(color Color, index int) *Token {
	return &Token{
		Color:    color,
		Index:    index,
		InBase:   true,
		Position: BasePosition,
	}
}

// Ref returns the token's identity
func (t *Token) Ref() TokenRef {
	return TokenRef{Color: t.Color, Index: t.Index}
}

// OnMainPath reports whether the token is on the shared track
func (t *Token) OnMainPath() bool {
	return !t.InBase && !t.Finished && t.Position >= 0 && t.Position < PathLength
}

// InHomeStretch reports whether the token has turned into its private approach
func (t *Token) InHomeStretch() bool {
	return !t.InBase && t.Position >= HomeStretchBase
}

// stepsToHome is the forward distance from the current main-path position to
// the home entry, wrapping if the entry is already behind the token
func (t *Token) stepsToHome() int {
	entry := t.Color.HomeEntryFromStart()
	if t.Position <= entry {
		return entry - t.Position
	}
	return PathLength - t.Position + entry
}

// CanMove reports whether the token may advance the given number of steps
func (t *Token) CanMove(steps int) bool {
	if steps < 1 || steps > DiceFaces {
		return false
	}
	if t.Finished {
		return false
	}
	if t.InBase {
		return steps == ExitRoll
	}

	if t.Position < PathLength {
		toHome := t.stepsToHome()
		if steps <= toHome {
			return true
		}
		// The entry cell consumes one step
		homeSteps := steps - toHome - 1
		return homeSteps < HomeStretchLength
	}

	return t.Position-HomeStretchBase+steps < HomeStretchLength
}

// Move advances the token. The move must have been checked with CanMove.
func (t *Token) Move(steps int) {
	if !t.CanMove(steps) {
		panic(fmt.Sprintf("illegal move: %s token %d by %d from %d", t.Color, t.Index, steps, t.Position))
	}

	if t.InBase {
		t.InBase = false
		t.Position = 0
		return
	}

	if t.Position < PathLength {
		toHome := t.stepsToHome()
		if steps > toHome {
			homeSteps := steps - toHome - 1
			t.Position = HomeStretchBase + homeSteps
			t.Finished = t.Position == FinalPosition
			return
		}
		t.Position = (t.Position + steps) % PathLength
		return
	}

	t.Position += steps
	t.Finished = t.Position == FinalPosition
}

// SendToBase returns a captured token to its base
func (t *Token) SendToBase() {
	t.InBase = true
	t.Position = BasePosition
	t.Finished = false
}

// AbsolutePosition returns the shared-track cell the token occupies, -1 while
// in base and OffBoard once finished. Home-stretch positions have no shared
// cell and report OffBoard as well.
func (t *Token) AbsolutePosition() int {
	if t.InBase {
		return BasePosition
	}
	if t.Finished || t.Position >= HomeStretchBase {
		return OffBoard
	}
	return (t.Color.StartOffset() + t.Position) % PathLength
}

// BoardCell maps the token's state to a physical board coordinate
func (t *Token) BoardCell() Cell {
	return cellFor(t.Color, t.Index, t.InBase, t.Position)
}

// Path returns the cells visited by a legal move of the given steps, starting
// with the token's current cell
func (t *Token) Path(steps int) []Cell {
	if t.InBase {
		return []Cell{BaseCell(t.Color, t.Index), cellFor(t.Color, t.Index, false, 0)}
	}

	path := make([]Cell, 0, steps+1)
	path = append(path, t.BoardCell())

	entry := t.Color.HomeEntryFromStart()
	pos := t.Position
	inHome := pos >= HomeStretchBase
	for i := 0; i < steps; i++ {
		switch {
		case inHome:
			pos++
		case pos == entry:
			pos = HomeStretchBase
			inHome = true
		default:
			pos = (pos + 1) % PathLength
		}
		path = append(path, cellFor(t.Color, t.Index, false, pos))
	}
	return path
}

func cellFor(color Color, index int, inBase bool, position int) Cell {
	if inBase {
		return BaseCell(color, index)
	}
	if position < PathLength {
		return MainPathCell(color.StartOffset() + position)
	}
	return HomeStretchCell(color, position-HomeStretchBase)
}
