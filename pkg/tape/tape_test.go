package tape

import (
	"io"
	"math/rand"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/hyunwoo-p/marketreplay/pkg/book"
	"github.com/hyunwoo-p/marketreplay/pkg/sim"
)

func TestWriteThenRead(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tape.csv")
	ts := time.Date(2026, 1, 1, 0, 30, 0, 0, time.UTC)

	orders := []book.IncomingOrder{
		{Time: ts, Instrument: "DOGE", Side: book.Buy, Price: decimal.RequireFromString("100.25"), Size: 5},
		{Time: ts.Add(13 * time.Hour), Instrument: "BTC", Side: book.Sell, Price: decimal.RequireFromString("97.00"), Size: 0},
	}

	w, err := Create(path)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	for _, o := range orders {
		if err := w.Append(o); err != nil {
			t.Fatalf("append: %v", err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	r, err := Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer r.Close()

	for i, want := range orders {
		got, err := r.Next()
		if err != nil {
			t.Fatalf("record %d: %v", i, err)
		}
		if !got.Time.Equal(want.Time) || got.Instrument != want.Instrument ||
			got.Side != want.Side || !got.Price.Equal(want.Price) || got.Size != want.Size {
			t.Errorf("record %d: got %+v, want %+v", i, got, want)
		}
	}
	if _, err := r.Next(); err != io.EOF {
		t.Fatalf("expected io.EOF at end of tape, got %v", err)
	}
}

func TestReaderRejectsMalformedRecords(t *testing.T) {
	tests := []struct {
		name string
		row  string
		want string
	}{
		{"unknown side", "2026-01-01T00:30:00Z,DOGE,short,100.00,5", "unknown side"},
		{"bad timestamp", "yesterday,DOGE,buy,100.00,5", "bad timestamp"},
		{"bad price", "2026-01-01T00:30:00Z,DOGE,buy,abc,5", "bad price"},
		{"zero price", "2026-01-01T00:30:00Z,DOGE,buy,0.00,5", "must be positive"},
		{"negative price", "2026-01-01T00:30:00Z,DOGE,buy,-1.50,5", "must be positive"},
		{"bad size", "2026-01-01T00:30:00Z,DOGE,buy,100.00,many", "bad size"},
		{"negative size", "2026-01-01T00:30:00Z,DOGE,buy,100.00,-5", "must be non-negative"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "tape.csv")
			content := "Time,Stock,Side,Price,Size\n" + tt.row + "\n"
			if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
				t.Fatal(err)
			}

			r, err := Open(path)
			if err != nil {
				t.Fatalf("open: %v", err)
			}
			defer r.Close()

			_, err = r.Next()
			if err == nil {
				t.Fatal("expected an error for malformed record")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error %q does not mention %q", err, tt.want)
			}
		})
	}
}

func TestReaderRejectsShortRow(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tape.csv")
	content := "Time,Stock,Side,Price,Size\n2026-01-01T00:30:00Z,DOGE,buy\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	r, err := Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer r.Close()

	if _, err := r.Next(); err == nil {
		t.Fatal("expected an error for a short row")
	}
}

func TestOpenMissingHeader(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tape.csv")
	if err := os.WriteFile(path, nil, 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Open(path); err == nil {
		t.Fatal("expected an error for an empty tape")
	}
}

func TestGenerateBoundsSimulatedTime(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tape.csv")
	open := time.Date(2026, 1, 1, 0, 30, 0, 0, time.UTC)
	length := 60 * 24 * time.Hour

	gen := sim.NewGenerator(open, sim.Params{
		Price:       sim.WalkParams{Min: 60, Max: 150, Std: 1},
		Spread:      sim.WalkParams{Min: 2, Max: 6, Std: 0.1},
		Freq:        sim.WalkParams{Min: 12, Max: 36, Std: 50},
		Overlap:     4,
		Instruments: []string{"DOGE", "BTC"},
	}, rand.New(rand.NewSource(3)))

	n, err := Generate(path, gen, open, length)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if n == 0 {
		t.Fatal("expected a non-empty tape")
	}

	r, err := Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer r.Close()

	end := open.Add(length)
	count := 0
	for {
		o, err := r.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			t.Fatalf("read: %v", err)
		}
		if o.Time.After(end) {
			t.Fatalf("record %d past the simulation end: %v > %v", count, o.Time, end)
		}
		count++
	}
	if count != n {
		t.Fatalf("wrote %d records but read %d", n, count)
	}
}
