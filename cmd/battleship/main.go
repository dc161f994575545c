package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"math/rand"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/mitchelldurbincs/battleship/internal/config"
	"github.com/mitchelldurbincs/battleship/internal/game"
	"github.com/mitchelldurbincs/battleship/internal/game/core"
	"github.com/mitchelldurbincs/battleship/internal/game/events/subscribers"
	"github.com/mitchelldurbincs/battleship/internal/game/player"
)

var (
	configPath = flag.String("config", "", "Path to a config file (default: ./config.yaml if present)")
	mode       = flag.String("mode", "", "Play mode: auto or human (overrides cli.mode)")
	seed       = flag.Int64("seed", 0, "Random seed for the computer players (overrides ai.seed)")
	logLevel   = flag.String("log-level", "", "Log level: debug, info, warn, error (overrides logging.level)")
	watch      = flag.Bool("watch", false, "Reload the config file when it changes")
)

func main() {
	flag.Parse()

	// Optional; the environment may already carry BATTLESHIP_* values
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		fmt.Fprintf(os.Stderr, "error loading .env: %v\n", err)
	}

	if err := config.Init(*configPath); err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}
	applyFlags()

	cfg := config.Get()
	setupLogging(cfg.Logging)
	if path := config.ConfigFilePath(); path != "" {
		log.Info().Str("path", path).Msg("Loaded config file")
	}

	if *watch {
		config.WatchConfig(func(err error) {
			if err != nil {
				log.Error().Err(err).Msg("Config reload rejected, keeping previous values")
				return
			}
			setupLogging(config.Get().Logging)
			log.Info().Msg("Config reloaded")
		})
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := play(ctx, config.Get(), newPrompter(os.Stdin, os.Stdout)); err != nil {
		if errors.Is(err, errQuit) || errors.Is(err, context.Canceled) {
			fmt.Println("Game abandoned.")
			return
		}
		log.Fatal().Err(err).Msg("Match failed")
	}
}

func applyFlags() {
	overrides := map[string]interface{}{}
	if *mode != "" {
		overrides["cli.mode"] = *mode
	}
	if *seed != 0 {
		overrides["ai.seed"] = *seed
	}
	if *logLevel != "" {
		overrides["logging.level"] = *logLevel
	}
	for key, value := range overrides {
		if err := config.Set(key, value); err != nil {
			fmt.Fprintf(os.Stderr, "invalid -%s: %v\n", flagName(key), err)
			os.Exit(2)
		}
	}
}

func flagName(key string) string {
	switch key {
	case "cli.mode":
		return "mode"
	case "ai.seed":
		return "seed"
	default:
		return "log-level"
	}
}

func setupLogging(lc config.LoggingConfig) {
	level, err := zerolog.ParseLevel(strings.ToLower(lc.Level))
	if err != nil || lc.Level == "" {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	if strings.ToLower(lc.Format) == "json" {
		log.Logger = zerolog.New(os.Stderr).With().Timestamp().Logger()
		return
	}
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})
}

func play(ctx context.Context, cfg *config.Config, in *prompter) error {
	matchSeed := cfg.AI.Seed
	if matchSeed == 0 {
		matchSeed = time.Now().UnixNano()
	}
	log.Info().Int64("seed", matchSeed).Str("mode", cfg.CLI.Mode).Msg("Starting battleship")
	rng := rand.New(rand.NewSource(matchSeed))

	fleet := cfg.Game.FleetSpecs()
	players := buildPlayers(cfg, fleet, rng)

	m, err := game.NewMatch(game.MatchConfig{
		Players:  players,
		Fleet:    fleet,
		MaxTurns: cfg.Match.MaxTurns,
	})
	if err != nil {
		return err
	}

	events := subscribers.NewLoggerSubscriber("event_logger", log.Logger, zerolog.DebugLevel)
	m.EventBus().Subscribe(events)
	defer m.EventBus().Unsubscribe(events.ID())

	if err := m.OpenPlacement(); err != nil {
		return fmt.Errorf("open placement: %w", err)
	}

	viewer := 0
	if cfg.CLI.Mode == config.ModeHuman {
		viewer = players[0].Number()
		if err := placeInteractively(m, players[0], in); err != nil {
			return err
		}
	}

	if err := m.Start(); err != nil {
		return fmt.Errorf("start: %w", err)
	}

	delay := time.Duration(cfg.Match.TurnDelayMs) * time.Millisecond
	for !m.IsOver() {
		if err := ctx.Err(); err != nil {
			return err
		}
		if m.Turn() > cfg.Match.MaxTurns {
			return core.NewGameError(m.Turn(), 0, "play", game.ErrTurnLimitReached)
		}

		turn, shooter := m.Turn(), m.CurrentPlayer()
		outcome, err := takeTurn(m, in)
		if err != nil {
			return err
		}
		fmt.Printf("Turn %d: %s -> %s\n", turn, shooter.Name(), outcome)

		if cfg.CLI.ShowBoards {
			fmt.Print(game.RenderMatch(m, viewer, false))
		}
		if delay > 0 && cfg.CLI.Mode == config.ModeAuto {
			time.Sleep(delay)
		}
	}

	printSummary(m)
	return nil
}

func buildPlayers(cfg *config.Config, fleet []player.FleetSpec, rng *rand.Rand) [2]player.Combatant {
	newAgent := func(name string, number int) *player.Autonomous {
		logger := log.Logger
		return player.NewAutonomous(player.AutonomousConfig{
			Name:                 name,
			Number:               number,
			Rng:                  rand.New(rand.NewSource(rng.Int63())),
			Fleet:                fleet,
			MaxPlacementAttempts: cfg.AI.MaxPlacementAttempts,
			Logger:               &logger,
		})
	}

	if cfg.CLI.Mode == config.ModeHuman {
		return [2]player.Combatant{player.NewHuman("You", 1), newAgent("Computer", 2)}
	}
	return [2]player.Combatant{newAgent("Computer 1", 1), newAgent("Computer 2", 2)}
}

func placeInteractively(m *game.Match, human player.Combatant, in *prompter) error {
	for {
		spec, ok := m.NextVessel(human.Number())
		if !ok {
			return nil
		}

		fmt.Print(game.RenderBoard(human.Board(), game.RenderOptions{RevealShips: true}))
		line, err := in.ask("Place %s (length %d) as \"x y v|h\": ", spec.Name, spec.Length)
		if err != nil {
			return err
		}
		anchor, orientation, err := parsePlacement(line)
		if err != nil {
			fmt.Println(err)
			continue
		}
		if _, err := m.PlaceVessel(human.Number(), anchor, orientation); err != nil {
			fmt.Printf("Cannot place %s there: %v\n", spec.Name, err)
		}
	}
}

func takeTurn(m *game.Match, in *prompter) (core.AttackOutcome, error) {
	if _, ok := m.CurrentPlayer().(player.Agent); ok {
		return m.Step()
	}

	for {
		line, err := in.ask("Turn %d, fire at \"x y\": ", m.Turn())
		if err != nil {
			return core.AttackOutcome{}, err
		}
		target, err := parseTarget(line)
		if err != nil {
			fmt.Println(err)
			continue
		}

		outcome, err := m.Fire(target)
		if err != nil {
			if !errors.Is(err, core.ErrInvalidCoordinate) {
				return outcome, err
			}
			fmt.Println(err)
			continue
		}
		if outcome.Kind == core.OutcomeAlreadyShot {
			fmt.Printf("%s was already shot, try again\n", target)
			continue
		}
		return outcome, nil
	}
}

func printSummary(m *game.Match) {
	if winner, ok := m.Winner(); ok {
		fmt.Printf("\n%s wins on turn %d!\n", winner.Name(), m.Turn())
	}
	for _, s := range m.Stats() {
		fmt.Printf("%-12s shots=%-3d hits=%-3d misses=%-3d sunk=%d accuracy=%.1f%%\n",
			s.Name, s.Shots, s.Hits, s.Misses, s.Sunk, s.Accuracy()*100)
	}
}
