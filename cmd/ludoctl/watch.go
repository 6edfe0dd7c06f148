package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/url"
	"strings"

	"github.com/coder/websocket"

	"github.com/wricardo/ludo-game/game/engine"
)

const stateUpdateEvent = "state_update"

// wireMessage mirrors the messages the server hub sends
type wireMessage struct {
	SessionID string            `json:"session_id"`
	Event     string            `json:"event"`
	Data      json.RawMessage   `json:"data,omitempty"`
	GameState *engine.GameState `json:"game_state,omitempty"`
}

// watchURL turns the server base URL into the WebSocket URL of a session
func watchURL(server, sessionID string) (string, error) {
	u, err := url.Parse(server)
	if err != nil {
		return "", err
	}
	switch u.Scheme {
	case "http", "ws":
		u.Scheme = "ws"
	case "https", "wss":
		u.Scheme = "wss"
	default:
		return "", fmt.Errorf("unsupported server URL scheme %q", u.Scheme)
	}
	u.Path = strings.TrimSuffix(u.Path, "/") + "/ws"
	u.RawQuery = url.Values{"session": {sessionID}}.Encode()
	return u.String(), nil
}

// runWatch prints the events of a session until ctx is cancelled or the
// server closes the connection
func runWatch(ctx context.Context, w io.Writer, server, sessionID string, raw bool) error {
	wsURL, err := watchURL(server, sessionID)
	if err != nil {
		return err
	}

	conn, _, err := websocket.Dial(ctx, wsURL, nil)
	if err != nil {
		return fmt.Errorf("connect %s: %w", wsURL, err)
	}
	defer conn.CloseNow()
	conn.SetReadLimit(1 << 20)

	fmt.Fprintf(w, "Watching session %s\n", sessionID)
	for {
		_, data, err := conn.Read(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			var closeErr websocket.CloseError
			if errors.As(err, &closeErr) || errors.Is(err, io.EOF) {
				fmt.Fprintln(w, "Server closed the connection")
				return nil
			}
			return err
		}

		// One frame may carry several newline separated messages
		for _, line := range bytes.Split(data, []byte{'\n'}) {
			line = bytes.TrimSpace(line)
			if len(line) == 0 {
				continue
			}
			if raw {
				fmt.Fprintf(w, "%s\n", line)
				continue
			}
			printWireMessage(w, line)
		}
	}
}

func printWireMessage(w io.Writer, line []byte) {
	var msg wireMessage
	if err := json.Unmarshal(line, &msg); err != nil {
		fmt.Fprintf(w, "unreadable message: %v\n", err)
		return
	}

	if msg.Event == stateUpdateEvent {
		if s := msg.GameState; s != nil && len(s.Players) > 0 {
			fmt.Fprintf(w, "[state] %s to play, %s", s.Current().Color, s.Phase)
			if s.DiceRolled {
				fmt.Fprintf(w, ", dice %d", s.DiceValue)
			}
			fmt.Fprintln(w)
		}
		return
	}

	var ev engine.Event
	if len(msg.Data) > 0 {
		if err := json.Unmarshal(msg.Data, &ev); err != nil {
			fmt.Fprintf(w, "[%s] unreadable data: %v\n", msg.Event, err)
			return
		}
	}

	fmt.Fprintf(w, "[%s]", msg.Event)
	if ev.Color != "" {
		fmt.Fprintf(w, " %s", ev.Color)
	}
	if ev.Dice > 0 {
		fmt.Fprintf(w, " dice=%d", ev.Dice)
	}
	if ev.Token != nil {
		fmt.Fprintf(w, " token=%d", ev.Token.Index)
	}
	if ev.Victim != nil {
		fmt.Fprintf(w, " captured=%s/%d", ev.Victim.Color, ev.Victim.Index)
	}
	if ev.Message != "" {
		fmt.Fprintf(w, " %s", ev.Message)
	}
	fmt.Fprintln(w)
}
