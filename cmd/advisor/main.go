package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/charmbracelet/log"
	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"github.com/cardroomlabs/holdem-advisor/internal/decision"
	"github.com/cardroomlabs/holdem-advisor/internal/engine"
	"github.com/cardroomlabs/holdem-advisor/internal/gateway"
	"github.com/cardroomlabs/holdem-advisor/internal/history"
	"github.com/cardroomlabs/holdem-advisor/internal/transport"
)

var CLI struct {
	Debug   bool   `short:"d" help:"Enable debug logging"`
	Presets string `short:"p" default:"advisor.hcl" help:"Path to HCL preset file"`

	Play     PlayCmd     `cmd:"" help:"Play hands interactively, optionally consulting an AI preset"`
	Simulate SimulateCmd `cmd:"" help:"Run deterministic hands without AI and report results"`
	Validate ValidateCmd `cmd:"" help:"Strictly validate a decision JSON document"`
}

func main() {
	ctx := kong.Parse(&CLI)

	logger := log.New(os.Stderr)
	if CLI.Debug {
		logger.SetLevel(log.DebugLevel)
	}

	// Provider keys may live in a .env next to the binary.
	_ = godotenv.Load()

	err := ctx.Run(logger)
	ctx.FatalIfErrorf(err)
}

// PlayCmd runs a read-confirm-apply loop over one table.
type PlayCmd struct {
	Seed       string `default:"table" help:"Deck seed"`
	Stack      int    `default:"1000" help:"Starting stack per seat"`
	SmallBlind int    `default:"5" help:"Small blind"`
	BigBlind   int    `default:"10" help:"Big blind"`
	Preset     string `help:"AI preset to consult with the 'ai' command"`
	BaseURL    string `help:"Override provider base URL"`
	History    string `help:"Directory for PHH hand history files"`
}

func (c *PlayCmd) Run(logger *log.Logger) error {
	eng, err := engine.New(engine.Config{
		Seed:          c.Seed,
		SmallBlind:    c.SmallBlind,
		BigBlind:      c.BigBlind,
		StartingStack: c.Stack,
	}, logger)
	if err != nil {
		return err
	}

	registry, err := gateway.LoadRegistry(CLI.Presets)
	if err != nil {
		return err
	}
	pipeline := gateway.New(registry, transport.NewOpenAI(c.BaseURL), logger)

	var recorder *history.Writer
	if c.History != "" {
		if err := os.MkdirAll(c.History, 0o755); err != nil {
			return err
		}
		recorder = &history.Writer{Dir: c.History}
	}

	in := bufio.NewScanner(os.Stdin)
	for {
		snap := eng.GetSnapshot()
		if snap.State.Phase == "ended" {
			printSummary(snap)
			if recorder != nil {
				if err := recorder.WriteHand(snap); err != nil {
					logger.Error("failed to write hand history", "err", err)
				}
			}
			fmt.Print("next hand? [y/n] ")
			if !in.Scan() || strings.TrimSpace(in.Text()) != "y" {
				return nil
			}
			if err := eng.StartNextHand(); err != nil {
				return err
			}
			continue
		}

		legal := eng.GetLegalActions()
		printState(snap, legal)
		fmt.Printf("seat %d> ", snap.State.ActionSeat)
		if !in.Scan() {
			return nil
		}

		req, ok := parseAction(snap.State.ActionSeat, strings.Fields(in.Text()))
		if !ok {
			if strings.TrimSpace(in.Text()) == "ai" {
				req, ok = c.consult(logger, pipeline, eng, in)
			}
			if !ok {
				fmt.Println("commands: fold | check | call | bet <to> | raise <to> | ai")
				continue
			}
		}
		if err := eng.ApplyAction(req); err != nil {
			fmt.Println(err)
		}
	}
}

// consult runs the decision pipeline and asks the operator to confirm any
// accepted proposal. Only confirmation applies it: the gateway itself never
// touches the engine.
func (c *PlayCmd) consult(logger *log.Logger, pipeline *gateway.Pipeline, eng *engine.Engine, in *bufio.Scanner) (engine.ActionRequest, bool) {
	snap := eng.GetSnapshot()
	seat := snap.State.ActionSeat
	hero := snap.State.Players[seat]

	outcome := pipeline.Propose(context.Background(), gateway.Request{
		Preset: c.Preset,
		Credential: gateway.Credential{
			Provider: "openai",
			Key:      os.Getenv("OPENAI_API_KEY"),
		},
		LegalActions: eng.GetLegalActions(),
		Observation: gateway.Observation{
			HandID:    snap.State.HandID,
			Seat:      seat,
			Street:    snap.State.Phase,
			HoleCards: hero.HoleCards,
			Board:     snap.State.Board,
			Stacks:    stackMap(snap),
			Pot:       potTotal(snap),
			ToCall:    snap.State.CurrentBet - hero.StreetCommitted,
		},
	})

	switch outcome.Status {
	case gateway.StatusAccepted:
		fmt.Printf("proposal: %s %d (%s, confidence %.2f), apply? [y/n] ",
			outcome.Action, outcome.Amount, outcome.Decision.Reason.Line, outcome.Decision.Confidence)
		if in.Scan() && strings.TrimSpace(in.Text()) == "y" {
			return engine.ActionRequest{Actor: seat, Type: outcome.Action, Amount: outcome.Amount}, true
		}
	case gateway.StatusFallback:
		fmt.Println("preset is manual-only; enter an action yourself")
	case gateway.StatusRejected:
		fmt.Printf("proposal rejected [%s]: %s (manual fallback available)\n",
			outcome.MessageCode, outcome.Message)
	}
	return engine.ActionRequest{}, false
}

// SimulateCmd plays hands to completion with a call-or-check policy, in
// parallel, and verifies every table conserved chips.
type SimulateCmd struct {
	Hands   int    `default:"100" help:"Hands per table"`
	Tables  int    `default:"4" help:"Concurrent tables"`
	Seed    string `default:"sim" help:"Base deck seed"`
	Stack   int    `default:"1000" help:"Starting stack per seat"`
	History string `help:"Directory for PHH hand history files, one subdirectory per table"`
}

func (c *SimulateCmd) Run(logger *log.Logger) error {
	var g errgroup.Group
	for table := 0; table < c.Tables; table++ {
		table := table
		g.Go(func() error {
			return c.runTable(logger, fmt.Sprintf("%s-%d", c.Seed, table))
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	logger.Info("simulation complete", "tables", c.Tables, "hands", c.Hands)
	return nil
}

func (c *SimulateCmd) runTable(logger *log.Logger, seed string) error {
	eng, err := engine.New(engine.Config{
		Seed:          seed,
		SmallBlind:    5,
		BigBlind:      10,
		StartingStack: c.Stack,
	}, nil)
	if err != nil {
		return err
	}
	total := c.Stack * engine.NumSeats

	var recorder *history.Writer
	if c.History != "" {
		dir := filepath.Join(c.History, seed)
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
		recorder = &history.Writer{Dir: dir}
	}

	for hand := 0; hand < c.Hands; hand++ {
		for eng.Phase() != engine.PhaseEnded {
			legal := eng.GetLegalActions()
			req := engine.ActionRequest{Actor: eng.ActionSeat(), Type: legal[0].Type}
			for _, la := range legal {
				if la.Type == engine.ActionCheck || la.Type == engine.ActionCall {
					req.Type = la.Type
					break
				}
			}
			if err := eng.ApplyAction(req); err != nil {
				return err
			}
		}

		snap := eng.GetSnapshot()
		if recorder != nil {
			if err := recorder.WriteHand(snap); err != nil {
				return err
			}
		}

		sum := 0
		for _, p := range snap.State.Players {
			sum += p.Stack
		}
		if sum != total {
			return fmt.Errorf("chip conservation broken on %s hand %d: %d != %d", seed, eng.HandID(), sum, total)
		}

		if err := eng.StartNextHand(); err != nil {
			if err == engine.ErrNotEnoughPlayers {
				break
			}
			return err
		}
	}
	logger.Debug("table finished", "seed", seed, "hands", eng.HandID())
	return nil
}

// ValidateCmd applies the strict decision validator to a file (or stdin).
type ValidateCmd struct {
	File string `arg:"" optional:"" help:"Decision JSON file (defaults to stdin)"`
}

func (c *ValidateCmd) Run(logger *log.Logger) error {
	raw, err := readInput(c.File)
	if err != nil {
		return err
	}

	validator, err := decision.NewStrictValidator()
	if err != nil {
		return err
	}
	d, err := validator.Validate(raw)
	if err != nil {
		return err
	}

	fmt.Printf("valid: %s", d.Action.Type)
	if d.Action.Amount != nil {
		fmt.Printf(" %d", *d.Action.Amount)
	}
	fmt.Printf(" (plan %s, confidence %.2f)\n", d.Reason.Plan, d.Confidence)
	return nil
}

func readInput(file string) ([]byte, error) {
	if file == "" {
		return io.ReadAll(os.Stdin)
	}
	return os.ReadFile(file)
}

func parseAction(seat int, fields []string) (engine.ActionRequest, bool) {
	if len(fields) == 0 {
		return engine.ActionRequest{}, false
	}
	req := engine.ActionRequest{Actor: seat}
	switch fields[0] {
	case "fold":
		req.Type = engine.ActionFold
	case "check":
		req.Type = engine.ActionCheck
	case "call":
		req.Type = engine.ActionCall
	case "bet", "raise":
		if len(fields) != 2 {
			return engine.ActionRequest{}, false
		}
		amount, err := strconv.Atoi(fields[1])
		if err != nil {
			return engine.ActionRequest{}, false
		}
		req.Type = engine.ActionBet
		if fields[0] == "raise" {
			req.Type = engine.ActionRaise
		}
		req.Amount = amount
	default:
		return engine.ActionRequest{}, false
	}
	return req, true
}

func printState(snap engine.Snapshot, legal []engine.LegalAction) {
	fmt.Printf("\nhand %d [%s] board %v pot %d bet %d\n",
		snap.State.HandID, snap.State.Phase, snap.State.Board, potTotal(snap), snap.State.CurrentBet)
	for _, p := range snap.State.Players {
		marker := " "
		if p.Seat == snap.State.ActionSeat {
			marker = "*"
		}
		fmt.Printf("%s seat %d: %d chips, in %d, %s %v\n",
			marker, p.Seat, p.Stack, p.TotalCommitted, p.Status, p.HoleCards)
	}
	fmt.Print("legal:")
	for _, la := range legal {
		if la.MaxAmount > 0 {
			fmt.Printf(" %s[%d-%d]", la.Type, la.MinAmount, la.MaxAmount)
		} else {
			fmt.Printf(" %s", la.Type)
		}
	}
	fmt.Println()
}

func printSummary(snap engine.Snapshot) {
	for i := len(snap.Events) - 1; i >= 0; i-- {
		if snap.Events[i].Type == engine.EventHandSummary && snap.Events[i].HandID == snap.State.HandID {
			if data, ok := snap.Events[i].Data.(engine.HandSummaryData); ok {
				fmt.Println(data.Text)
			}
			return
		}
	}
}

func stackMap(snap engine.Snapshot) map[string]int {
	stacks := make(map[string]int, len(snap.State.Players))
	for _, p := range snap.State.Players {
		stacks[fmt.Sprintf("seat%d", p.Seat)] = p.Stack
	}
	return stacks
}

func potTotal(snap engine.Snapshot) int {
	total := 0
	for _, p := range snap.State.Players {
		total += p.TotalCommitted
	}
	return total
}
