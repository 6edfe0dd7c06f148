package engine

import "testing"

func tokenAt(color Color, position int) *Token {
	t := NewToken(color, 0)
	t.InBase = false
	t.Position = position
	t.Finished = position == FinalPosition
	return t
}

func TestToken_CanMove(t *testing.T) {
	tests := []struct {
		name     string
		token    *Token
		steps    int
		expected bool
	}{
		{"base needs six", NewToken(Red, 0), 5, false},
		{"base exits on six", NewToken(Red, 0), 6, true},
		{"zero steps", tokenAt(Red, 3), 0, false},
		{"seven steps", tokenAt(Red, 3), 7, false},
		{"main path", tokenAt(Red, 10), 4, true},
		{"up to entry", tokenAt(Red, 45), 5, true},
		{"into home stretch", tokenAt(Red, 49), 6, true},
		{"exactly finish from entry", tokenAt(Red, 50), 6, true},
		{"home stretch exact", tokenAt(Red, 54), 3, true},
		{"home stretch overshoot", tokenAt(Red, 54), 4, false},
		{"last home cell needs one", tokenAt(Red, 56), 1, true},
		{"last home cell overshoot", tokenAt(Red, 56), 2, false},
		{"finished never moves", tokenAt(Red, FinalPosition), 1, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.token.CanMove(tt.steps); got != tt.expected {
				t.Errorf("CanMove(%d) from %d = %v, expected %v", tt.steps, tt.token.Position, got, tt.expected)
			}
		})
	}
}

func TestToken_Move(t *testing.T) {
	tests := []struct {
		name         string
		token        *Token
		steps        int
		wantPosition int
		wantFinished bool
	}{
		{"exit base", NewToken(Blue, 2), 6, 0, false},
		{"plain step", tokenAt(Blue, 10), 4, 14, false},
		{"land on entry", tokenAt(Blue, 45), 5, 50, false},
		{"cross entry", tokenAt(Blue, 49), 6, 56, false},
		{"finish from entry", tokenAt(Blue, 50), 6, FinalPosition, true},
		{"finish in stretch", tokenAt(Blue, 53), 4, FinalPosition, true},
		{"advance in stretch", tokenAt(Blue, 52), 2, 54, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.token.Move(tt.steps)
			if tt.token.Position != tt.wantPosition {
				t.Errorf("Expected position %d, got %d", tt.wantPosition, tt.token.Position)
			}
			if tt.token.Finished != tt.wantFinished {
				t.Errorf("Expected finished %v, got %v", tt.wantFinished, tt.token.Finished)
			}
			if tt.token.InBase {
				t.Error("Expected token out of base")
			}
		})
	}
}

func TestToken_MovePanicsWhenIllegal(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("Expected panic on illegal move")
		}
	}()
	NewToken(Green, 0).Move(3)
}

func TestToken_LegalityMatchesMove(t *testing.T) {
	// every legal move lands inside the board and never goes backwards
	for _, c := range AllColors() {
		for pos := BasePosition; pos < FinalPosition; pos++ {
			if pos > c.HomeEntryFromStart() && pos < HomeStretchBase {
				// past the entry without turning in; unreachable
				continue
			}
			for steps := 1; steps <= DiceFaces; steps++ {
				var tok *Token
				if pos == BasePosition {
					tok = NewToken(c, 0)
				} else {
					tok = tokenAt(c, pos)
				}
				if !tok.CanMove(steps) {
					continue
				}
				before := tok.Position
				tok.Move(steps)
				if tok.Position < before {
					t.Fatalf("%s from %d by %d went back to %d", c, pos, steps, tok.Position)
				}
				if tok.Position > FinalPosition {
					t.Fatalf("%s from %d by %d overshot to %d", c, pos, steps, tok.Position)
				}
				if tok.Finished != (tok.Position == FinalPosition) {
					t.Fatalf("%s from %d by %d: finished=%v at %d", c, pos, steps, tok.Finished, tok.Position)
				}
			}
		}
	}
}

func TestToken_AbsolutePosition(t *testing.T) {
	tests := []struct {
		token *Token
		want  int
	}{
		{NewToken(Red, 0), BasePosition},
		{tokenAt(Red, 0), 39},
		{tokenAt(Red, 13), 0},
		{tokenAt(Blue, 0), 13},
		{tokenAt(Yellow, 50), 50},
		{tokenAt(Green, 52), OffBoard},
		{tokenAt(Green, FinalPosition), OffBoard},
	}

	for _, tt := range tests {
		if got := tt.token.AbsolutePosition(); got != tt.want {
			t.Errorf("%s at %d: expected absolute %d, got %d", tt.token.Color, tt.token.Position, tt.want, got)
		}
	}
}

func TestToken_BoardCell(t *testing.T) {
	if got := NewToken(Yellow, 3).BoardCell(); got != BaseCell(Yellow, 3) {
		t.Errorf("Expected base cell, got %+v", got)
	}
	if got := tokenAt(Blue, 0).BoardCell(); got != MainPathCell(13) {
		t.Errorf("Expected blue start cell, got %+v", got)
	}
	if got := tokenAt(Green, FinalPosition).BoardCell(); got != HomeStretchCell(Green, 5) {
		t.Errorf("Expected center cell, got %+v", got)
	}
}

func TestToken_Path(t *testing.T) {
	t.Run("base exit", func(t *testing.T) {
		tok := NewToken(Red, 1)
		path := tok.Path(6)
		if len(path) != 2 {
			t.Fatalf("Expected 2 cells, got %d", len(path))
		}
		if path[0] != BaseCell(Red, 1) || path[1] != MainPathCell(Red.StartOffset()) {
			t.Errorf("Unexpected path %+v", path)
		}
	})

	t.Run("crossing entry", func(t *testing.T) {
		tok := tokenAt(Yellow, 49)
		path := tok.Path(6)
		if len(path) != 7 {
			t.Fatalf("Expected 7 cells, got %d", len(path))
		}
		if path[1] != MainPathCell(50) {
			t.Errorf("Expected first step onto the entry cell, got %+v", path[1])
		}
		if path[2] != HomeStretchCell(Yellow, 0) {
			t.Errorf("Expected second step into home stretch, got %+v", path[2])
		}

		tok.Move(6)
		if path[len(path)-1] != tok.BoardCell() {
			t.Errorf("Path ends at %+v but token sits at %+v", path[len(path)-1], tok.BoardCell())
		}
	})

	t.Run("wraps track", func(t *testing.T) {
		tok := tokenAt(Red, 11)
		path := tok.Path(3)
		want := []Cell{MainPathCell(50), MainPathCell(51), MainPathCell(0), MainPathCell(1)}
		for i := range want {
			if path[i] != want[i] {
				t.Errorf("Step %d: expected %+v, got %+v", i, want[i], path[i])
			}
		}
	})
}

func TestToken_Predicates(t *testing.T) {
	base := NewToken(Red, 0)
	if base.OnMainPath() || base.InHomeStretch() {
		t.Error("Expected base token off track")
	}
	track := tokenAt(Red, 20)
	if !track.OnMainPath() || track.InHomeStretch() {
		t.Error("Expected token on main path")
	}
	home := tokenAt(Red, 53)
	if home.OnMainPath() || !home.InHomeStretch() {
		t.Error("Expected token in home stretch")
	}
	if ref := home.Ref(); ref.Color != Red || ref.Index != 0 {
		t.Errorf("Unexpected ref %+v", ref)
	}
}
