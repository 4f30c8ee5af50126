package params

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/hyunwoo-p/marketreplay/pkg/sim"
)

type Tape struct {
	Path string
	// Length is the span of simulated time the generated tape covers.
	Length time.Duration
	// Seed for the market walks; zero means seed from the wall clock.
	Seed int64
}

type Replay struct {
	// Realtime paces snapshot delivery so tape time offsets map onto
	// wall-clock offsets. Disable to replay as fast as possible.
	Realtime bool
}

type API struct {
	Addr string
}

type Config struct {
	Sim    sim.Params
	Tape   Tape
	Replay Replay
	API    API
}

func Default() Config {
	return Config{
		Sim: sim.Params{
			Price:       sim.WalkParams{Min: 60, Max: 150, Std: 1},
			Spread:      sim.WalkParams{Min: 2, Max: 6, Std: 0.1},
			Freq:        sim.WalkParams{Min: 12, Max: 36, Std: 50},
			Overlap:     4,
			Instruments: []string{"DOGE", "BTC"},
		},
		Tape: Tape{
			Path:   "data/tape.csv",
			Length: 5 * 365 * 24 * time.Hour,
		},
		Replay: Replay{
			Realtime: true,
		},
		API: API{
			Addr: ":8081",
		},
	}
}

// LoadFromEnv loads configuration from .env file (if exists) and environment variables
// Priority: ENV > .env file > defaults
func LoadFromEnv(envPath string) Config {
	cfg := Default()

	// Try to load .env file (optional - won't fail if not exists)
	if envPath != "" {
		_ = godotenv.Load(envPath)
	} else {
		_ = godotenv.Load() // loads .env from current directory
	}

	// Override with environment variables
	if path := os.Getenv("TAPE_PATH"); path != "" {
		cfg.Tape.Path = path
	}

	if days := os.Getenv("TAPE_LENGTH_DAYS"); days != "" {
		if d, err := strconv.Atoi(days); err == nil && d > 0 {
			cfg.Tape.Length = time.Duration(d) * 24 * time.Hour
		}
	}

	if seed := os.Getenv("TAPE_SEED"); seed != "" {
		if s, err := strconv.ParseInt(seed, 10, 64); err == nil {
			cfg.Tape.Seed = s
		}
	}

	if realtime := os.Getenv("REALTIME"); realtime != "" {
		cfg.Replay.Realtime = realtime == "true"
	}

	if addr := os.Getenv("API_ADDR"); addr != "" {
		cfg.API.Addr = addr
	}

	// Instruments from comma-separated list
	// Example: "DOGE,BTC,ETH"
	if instruments := os.Getenv("INSTRUMENTS"); instruments != "" {
		parts := strings.Split(instruments, ",")
		symbols := make([]string, 0, len(parts))
		for _, p := range parts {
			if s := strings.ToUpper(strings.TrimSpace(p)); s != "" {
				symbols = append(symbols, s)
			}
		}
		if len(symbols) > 0 {
			cfg.Sim.Instruments = symbols
		}
	}

	return cfg
}
