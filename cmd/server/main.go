package main

import (
	"context"
	"log"
	"math/rand"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hyunwoo-p/marketreplay/params"
	"github.com/hyunwoo-p/marketreplay/pkg/api"
	"github.com/hyunwoo-p/marketreplay/pkg/replay"
	"github.com/hyunwoo-p/marketreplay/pkg/sim"
	"github.com/hyunwoo-p/marketreplay/pkg/tape"
	"github.com/hyunwoo-p/marketreplay/pkg/util"
)

// marketOpen pins the tape's first simulated tick to today's half past
// midnight, matching where generated timestamps start.
func marketOpen() time.Time {
	now := time.Now()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 30, 0, 0, now.Location())
}

func main() {
	// Load config from .env file and environment variables
	cfg := params.LoadFromEnv("") // "" means load from .env in current directory

	// Setup logging (write to both console and file)
	logFile := os.Getenv("LOG_FILE")
	if logFile == "" {
		logFile = "data/server.log"
	}

	logger, err := util.NewLoggerWithFile(logFile)
	if err != nil {
		// Fall back to console-only logging when the log file cannot be
		// opened, e.g. a read-only data directory.
		log.Printf("log file %s unavailable (%v), console only", logFile, err)
		if logger, err = util.NewLogger(); err != nil {
			log.Fatalf("logger: %v", err)
		}
	}
	defer logger.Sync()
	sugar := logger.Sugar()
	sugar.Infow("logger_initialized", "log_file", logFile)

	// ---- Tape ----
	// Generate a fresh tape on first run; an existing tape replays as-is
	// so restarts keep serving the same order stream.
	if _, err := os.Stat(cfg.Tape.Path); os.IsNotExist(err) {
		seed := cfg.Tape.Seed
		if seed == 0 {
			seed = time.Now().UnixNano()
		}
		gen := sim.NewGenerator(marketOpen(), cfg.Sim, rand.New(rand.NewSource(seed)))

		sugar.Infow("tape_generating",
			"path", cfg.Tape.Path,
			"length_days", int(cfg.Tape.Length.Hours()/24),
			"seed", seed,
			"instruments", cfg.Sim.Instruments)
		n, err := tape.Generate(cfg.Tape.Path, gen, marketOpen(), cfg.Tape.Length)
		if err != nil {
			sugar.Fatalw("tape_generation_failed", "err", err)
		}
		sugar.Infow("tape_generated", "orders", n)
	} else if err != nil {
		sugar.Fatalw("tape_stat_failed", "path", cfg.Tape.Path, "err", err)
	} else {
		sugar.Infow("tape_reusing", "path", cfg.Tape.Path)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// ---- Replay ----
	// One player per instrument, each owning its book and filtering the
	// shared tape down to its own records.
	registry := replay.NewRegistry()
	for _, symbol := range cfg.Sim.Instruments {
		p := replay.NewPlayer(symbol, cfg.Tape.Path, cfg.Replay.Realtime, util.RealClock{}, sugar)
		if err := registry.Register(p); err != nil {
			sugar.Fatalw("player_register_failed", "symbol", symbol, "err", err)
		}
	}

	// ---- API Server ----
	apiServer := api.NewServer(registry)

	go func() {
		sugar.Infow("api_server_starting", "addr", cfg.API.Addr)
		if err := apiServer.Start(cfg.API.Addr); err != nil {
			sugar.Fatalw("api_server_failed", "err", err)
		}
	}()

	// Hook players to the API server: push every paced snapshot to
	// WebSocket subscribers.
	for _, symbol := range registry.Symbols() {
		p, _ := registry.Lookup(symbol)
		p.OnSnapshot = apiServer.BroadcastBook

		go func(p *replay.Player) {
			if err := p.Run(ctx); err != nil && ctx.Err() == nil {
				sugar.Errorw("replay_failed", "symbol", p.Symbol(), "err", err)
			}
		}(p)
	}

	sugar.Infow("server_started",
		"instruments", cfg.Sim.Instruments,
		"realtime", cfg.Replay.Realtime,
		"tape", cfg.Tape.Path)

	<-ctx.Done()
	sugar.Info("shutting down")
}
