package main

import (
	"bufio"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"

	"github.com/corridors/mcts-engine/engine"
	"github.com/corridors/mcts-engine/game"
)

var (
	boardSize  = flag.Int("board_size", game.DefaultBoardSize, "board side length N")
	wallsEach  = flag.Int("walls_per_player", game.DefaultWallsPerPlayer, "starting wall count per side")
	minSims    = flag.Int("min_simulations", 200, "simulations to guarantee before a move is reported")
	maxSims    = flag.Int("max_simulations", 20000, "simulations the background worker accumulates per root")
	simStep    = flag.Int("sim_increment", 200, "simulations run per worker wake-up")
	seed       = flag.Uint64("seed", 1, "rollout random source seed")
	useFlip    = flag.Bool("flip", false, "render action text from the current physical player's perspective")
)

func main() {
	flag.Parse()
	log.SetFlags(log.Ltime)

	cfg := engine.DefaultConfig()
	cfg.MCTS.Seed = *seed
	cfg.MinSimulations = *minSims
	cfg.MaxSimulations = *maxSims
	cfg.SimIncrement = *simStep

	root := game.NewCorridors(*boardSize, *wallsEach)
	eng, err := engine.New(root, cfg, log.New(os.Stderr, "", log.Ltime))
	if err != nil {
		log.Fatalf("error constructing engine: %s", err)
	}

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt)
	go func() {
		<-sig
		fmt.Println("interrupted, shutting down")
		if err := eng.Shutdown(); err != nil {
			log.Printf("error during shutdown: %s", err)
		}
		os.Exit(0)
	}()

	input := bufio.NewScanner(os.Stdin)
	for !eng.IsTerminal() {
		actions, err := eng.GetSortedActions(*useFlip)
		if err != nil {
			log.Fatalf("error getting sorted actions: %s", err)
		}
		fmt.Println("legal moves, best first:")
		for _, a := range actions {
			fmt.Printf("  %-12s visits=%-6d equity=%+.4f\n", a.Text, a.Visits, a.Equity)
		}
		fmt.Print("enter move (blank to let the engine play): ")
		if !input.Scan() {
			break
		}
		text := input.Text()
		if text == "" {
			if len(actions) == 0 {
				log.Fatalf("no legal moves but root is not terminal")
			}
			if err := eng.MakeMove(actions[0].Text, *useFlip); err != nil {
				log.Fatalf("error choosing a move: %s", err)
			}
			continue
		}
		if err := eng.MakeMove(text, *useFlip); err != nil {
			log.Printf("illegal move %q: %s", text, err)
			continue
		}
	}

	fmt.Printf("game over, evaluation=%+v\n", func() string {
		v, ok := eng.GetEvaluation()
		if !ok {
			return "undecided"
		}
		return fmt.Sprintf("%+.4f", v)
	}())

	if err := eng.Shutdown(); err != nil {
		log.Fatalf("error during shutdown: %s", err)
	}
}
