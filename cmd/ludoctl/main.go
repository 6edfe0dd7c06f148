// Command ludoctl plays, inspects and follows Ludo games from a terminal.
//
//	ludoctl play -players 3            hot-seat game saved to ludo-record.json
//	ludoctl inspect ludo-record.json   board and legal moves of a saved game
//	ludoctl watch ab12                 live events of a server session
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v3"

	"github.com/wricardo/ludo-game/game/engine"
)

const defaultRecordFile = "ludo-record.json"

func newCommand() *cli.Command {
	return &cli.Command{
		Name:    "ludoctl",
		Usage:   "play and inspect Ludo games",
		Version: engine.GameVersion,
		Commands: []*cli.Command{
			{
				Name:  "play",
				Usage: "hot-seat game in the terminal; the game is saved after every action",
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:  "players",
						Value: engine.MaxPlayers,
						Usage: "number of players for a new game (2-4)",
					},
					&cli.StringFlag{
						Name:    "record",
						Value:   defaultRecordFile,
						Usage:   "file the game is saved to and resumed from",
						Sources: cli.EnvVars("LUDO_RECORD"),
					},
					&cli.StringFlag{
						Name:  "profile",
						Usage: "profile JSON file (default: built-in classic profile)",
					},
					&cli.IntFlag{
						Name:  "seed",
						Usage: "seed for reproducible dice (0 = random)",
					},
					&cli.BoolFlag{
						Name:  "manual",
						Usage: "enter dice values by hand",
					},
				},
				Action: runPlay,
			},
			{
				Name:      "inspect",
				Usage:     "print a saved game and the moves every seat could make",
				ArgsUsage: "RECORD_FILE",
				Action: func(ctx context.Context, cmd *cli.Command) error {
					path := cmd.Args().First()
					if path == "" {
						path = defaultRecordFile
					}
					return runInspect(cmd.Root().Writer, path)
				},
			},
			{
				Name:      "watch",
				Usage:     "follow the live events of a server session",
				ArgsUsage: "SESSION_ID",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "server",
						Value:   "http://localhost:8080",
						Usage:   "server base URL",
						Sources: cli.EnvVars("LUDO_SERVER"),
					},
					&cli.BoolFlag{
						Name:  "raw",
						Usage: "print messages as received",
					},
				},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					sessionID := cmd.Args().First()
					if sessionID == "" {
						return cli.Exit("session ID required", 2)
					}
					return runWatch(ctx, cmd.Root().Writer, cmd.String("server"), sessionID, cmd.Bool("raw"))
				},
			},
		},
	}
}

func runPlay(ctx context.Context, cmd *cli.Command) error {
	config := engine.DefaultGameConfig()
	if path := cmd.String("profile"); path != "" {
		loaded, err := engine.LoadGameConfig(path)
		if err != nil {
			return fmt.Errorf("load profile: %w", err)
		}
		config = loaded
	}
	if cmd.Bool("manual") {
		config.ManualDice = true
	}

	var dice engine.Dice
	if seed := cmd.Int("seed"); seed != 0 {
		dice = engine.NewSeededDice(uint64(seed))
	}

	t, err := openTable(cmd.String("record"), config, cmd.Int("players"), dice, cmd.Root().Writer)
	if err != nil {
		return err
	}
	return t.run(ctx, cmd.Root().Reader)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newCommand().Run(ctx, os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
