package engine

// Player is one seat at the board
type Player struct {
	Color  Color                   `json:"color"`
	Tokens [TokensPerPlayer]*Token `json:"tokens"`
}

// NewPlayer creates a player with all tokens in base
func NewPlayer(color Color) *Player {
	p := &Player{Color: color}
	for i := range p.Tokens {
		p.Tokens[i] = NewToken(color, i)
	}
	return p
}

// MovableTokens returns the tokens that can legally move the dice value, in index order
func (p *Player) MovableTokens(dice int) []*Token {
	var movable []*Token
	for _, t := range p.Tokens {
		if t.CanMove(dice) {
			movable = append(movable, t)
		}
	}
	return movable
}

// HasMovableToken reports whether any token can move the dice value
func (p *Player) HasMovableToken(dice int) bool {
	for _, t := range p.Tokens {
		if t.CanMove(dice) {
			return true
		}
	}
	return false
}

// FinishedCount returns how many tokens reached the center
func (p *Player) FinishedCount() int {
	n := 0
	for _, t := range p.Tokens {
		if t.Finished {
			n++
		}
	}
	return n
}

// HasWon reports whether every token is finished
func (p *Player) HasWon() bool {
	return p.FinishedCount() == TokensPerPlayer
}

// IsSingleMoveOption reports whether a set of movable tokens offers one real
// choice. Tokens leaving base all land on the start cell, so several of them
// count as one option.
func IsSingleMoveOption(movable []*Token) bool {
	if len(movable) == 0 {
		return false
	}
	if len(movable) == 1 {
		return true
	}
	for _, t := range movable {
		if !t.InBase {
			return false
		}
	}
	return true
}

func (p *Player) clone() *Player {
	c := &Player{Color: p.Color}
	for i, t := range p.Tokens {
		tc := *t
		c.Tokens[i] = &tc
	}
	return c
}
