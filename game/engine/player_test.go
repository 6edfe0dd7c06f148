package engine

import "testing"

func TestNewPlayer(t *testing.T) {
	p := NewPlayer(Green)
	for i, tok := range p.Tokens {
		if tok.Color != Green || tok.Index != i || !tok.InBase || tok.Position != BasePosition {
			t.Errorf("Token %d not in base: %+v", i, tok)
		}
	}
	if p.HasWon() || p.FinishedCount() != 0 {
		t.Error("Expected fresh player without finished tokens")
	}
}

func TestPlayer_MovableTokens(t *testing.T) {
	p := NewPlayer(Red)
	if got := p.MovableTokens(3); len(got) != 0 {
		t.Errorf("Expected no movable tokens on 3, got %d", len(got))
	}
	if got := p.MovableTokens(6); len(got) != 4 {
		t.Errorf("Expected all base tokens movable on 6, got %d", len(got))
	}

	p.Tokens[2].InBase = false
	p.Tokens[2].Position = 10
	got := p.MovableTokens(3)
	if len(got) != 1 || got[0].Index != 2 {
		t.Errorf("Expected only token 2 movable, got %v", tokenIndexes(got))
	}
	if !p.HasMovableToken(3) {
		t.Error("Expected HasMovableToken to agree with MovableTokens")
	}
}

func TestPlayer_HasWon(t *testing.T) {
	p := NewPlayer(Blue)
	for _, tok := range p.Tokens {
		tok.InBase = false
		tok.Position = FinalPosition
		tok.Finished = true
	}
	if !p.HasWon() {
		t.Error("Expected player with four finished tokens to have won")
	}
	p.Tokens[0].Finished = false
	p.Tokens[0].Position = 56
	if p.HasWon() || p.FinishedCount() != 3 {
		t.Errorf("Expected 3 finished and no win, got %d", p.FinishedCount())
	}
}

func TestIsSingleMoveOption(t *testing.T) {
	p := NewPlayer(Red)
	onTrack := tokenAt(Red, 5)

	tests := []struct {
		name    string
		movable []*Token
		want    bool
	}{
		{"none", nil, false},
		{"one", []*Token{onTrack}, true},
		{"all in base", p.MovableTokens(6), true},
		{"base and track", []*Token{p.Tokens[0], onTrack}, false},
		{"two on track", []*Token{onTrack, tokenAt(Red, 9)}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsSingleMoveOption(tt.movable); got != tt.want {
				t.Errorf("Expected %v, got %v", tt.want, got)
			}
		})
	}
}
