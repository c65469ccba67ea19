package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/muesli/termenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/exp/rand"

	"alphatree/game"
	"alphatree/metrics"
	"alphatree/oracle"
	"alphatree/searcher"
	"alphatree/ttt"
)

type config struct {
	workers     int
	simulations int
	games       int
	cpuct       float64
	noiseEps    float64
	noiseAlpha  float64
	seed        uint64
	outDir      string
}

func main() {
	cfg := config{}
	flag.IntVar(&cfg.workers, "workers", 4, "concurrent search workers (1 = synchronous)")
	flag.IntVar(&cfg.simulations, "sims", 400, "simulations per move")
	flag.IntVar(&cfg.games, "games", 3, "self-play games")
	flag.Float64Var(&cfg.cpuct, "cpuct", 1.0, "PUCT exploration coefficient")
	flag.Float64Var(&cfg.noiseEps, "noise-eps", 0.25, "root Dirichlet noise weight")
	flag.Float64Var(&cfg.noiseAlpha, "noise-alpha", 1.0, "root Dirichlet concentration")
	flag.Uint64Var(&cfg.seed, "seed", 0, "RNG seed (0 = time-based)")
	flag.StringVar(&cfg.outDir, "out", "runs", "output directory for records")
	flag.Parse()

	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.TimeOnly})
	if cfg.seed == 0 {
		cfg.seed = uint64(time.Now().UnixNano())
	}

	if err := runSelfPlay(cfg); err != nil {
		log.Fatal().Err(err).Msg("self-play run failed")
	}
}

func runSelfPlay(cfg config) error {
	out := termenv.NewOutput(os.Stdout)
	writer, err := metrics.NewWriter(cfg.outDir)
	if err != nil {
		return err
	}
	log.Info().Msgf("starting self-play run %s: %d games, %d workers, %d sims/move",
		writer.RunID(), cfg.games, cfg.workers, cfg.simulations)

	rng := rand.New(rand.NewSource(cfg.seed))
	var records []metrics.SearchRecord
	var samples []metrics.SampleRow

	for g := 0; g < cfg.games; g++ {
		env := newEnv(cfg, cfg.seed+uint64(g))
		state := ttt.New()

		type pending struct {
			board game.Board
			pi    []float64
			sims  int
			move  int
		}
		var gameSamples []pending

		moveNum := 0
		wr, over := state.WhiteReward()
		for !over {
			if err := env.Explore(state, cfg.simulations); err != nil {
				return err
			}

			// Sample from visit counts early on, play the argmax later.
			tau := 1.0
			if moveNum >= 4 {
				tau = 0
			}
			actions, pi, err := env.Policy(state, tau)
			if err != nil {
				return err
			}
			move := actions[sampleIndex(rng, pi)]

			board := state.CanonicalBoard()
			metric := env.LastSearch()
			records = append(records, metrics.SearchRecord{
				Game:         g,
				Move:         moveNum,
				BoardHash:    game.HashBoard(board),
				SearchMetric: metric,
			})
			gameSamples = append(gameSamples, pending{board: board, pi: pi, sims: metric.Simulations, move: moveNum})

			state.Play(move)
			printMove(out, g, moveNum, state, metric)
			moveNum++
			wr, over = state.WhiteReward()
		}

		log.Info().Msgf("game %d over after %d moves, white reward %+.0f", g+1, moveNum, wr)
		for _, p := range gameSamples {
			samples = append(samples, metrics.SampleRow{
				RunID:       writer.RunID(),
				Game:        int32(g),
				Move:        int32(p.move),
				BoardHash:   game.HashBoard(p.board),
				Board:       []byte(p.board),
				Policy:      toFloat32(p.pi),
				Value:       float32(wr),
				Simulations: int32(p.sims),
			})
		}

		fmt.Fprintf(out, "diagnostics: %d nodes, ~%d B/node, inference %.0f%%, avg depth %.2f\n",
			env.TreeSize(), env.MemoryFootprintPerNode(),
			100*env.InferenceTimeRatio(), env.AverageExplorationDepth())
	}

	if err := writer.WriteSearchRecords(records); err != nil {
		return err
	}
	log.Info().Msg("stored search records")
	if err := metrics.WriteSamples(writer.Dir()+"/samples.parquet", samples); err != nil {
		return err
	}
	log.Info().Msg("stored training samples")
	return nil
}

func newEnv(cfg config, seed uint64) *searcher.Env {
	options := []searcher.Option{
		searcher.WithWorkers(cfg.workers),
		searcher.WithCpuct(cfg.cpuct),
		searcher.WithNoise(cfg.noiseEps, cfg.noiseAlpha),
		searcher.WithSeed(seed),
		searcher.WithDescriptor(ttt.Game{}),
		searcher.WithCollector(metrics.NewCollector()),
	}
	if cfg.workers > 1 {
		options = append(options, searcher.WithFillBatches())
	}
	return searcher.New(oracle.NewRolloutOracle(int64(seed)), options...)
}

func printMove(out *termenv.Output, g, move int, state *ttt.State, metric metrics.SearchMetric) {
	header := out.String(fmt.Sprintf("game %d move %d", g+1, move+1)).Bold()
	stats := out.String(fmt.Sprintf("%d sims, %d batches, %v",
		metric.Simulations, metric.Batches, metric.Duration.Round(time.Millisecond))).
		Foreground(out.Color("6"))
	fmt.Fprintf(out, "%s  %s\n%s", header, stats, state)
}

func sampleIndex(rng *rand.Rand, pi []float64) int {
	r := rng.Float64()
	cumulative := 0.0
	for i, p := range pi {
		cumulative += p
		if r < cumulative {
			return i
		}
	}
	return len(pi) - 1
}

func toFloat32(xs []float64) []float32 {
	out := make([]float32, len(xs))
	for i, x := range xs {
		out[i] = float32(x)
	}
	return out
}
