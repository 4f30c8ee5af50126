package tape

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/hyunwoo-p/marketreplay/pkg/book"
	"github.com/hyunwoo-p/marketreplay/pkg/sim"
)

var header = []string{"Time", "Stock", "Side", "Price", "Size"}

// Writer persists the raw order stream as a CSV flat file.
type Writer struct {
	f *os.File
	w *csv.Writer
}

// Create truncates or creates the tape file and writes the header row.
func Create(path string) (*Writer, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, err
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, err
	}
	w := csv.NewWriter(f)
	if err := w.Write(header); err != nil {
		f.Close()
		return nil, err
	}
	return &Writer{f: f, w: w}, nil
}

// Append writes one order record.
func (w *Writer) Append(o book.IncomingOrder) error {
	return w.w.Write([]string{
		o.Time.Format(time.RFC3339),
		o.Instrument,
		string(o.Side),
		o.Price.StringFixed(2),
		strconv.FormatInt(o.Size, 10),
	})
}

// Close flushes buffered records and closes the file.
func (w *Writer) Close() error {
	w.w.Flush()
	if err := w.w.Error(); err != nil {
		w.f.Close()
		return err
	}
	return w.f.Close()
}

// Generate writes a fresh tape from the order generator, stopping once
// simulated time passes open+length. It returns the number of orders
// written.
func Generate(path string, gen *sim.Generator, open time.Time, length time.Duration) (int, error) {
	w, err := Create(path)
	if err != nil {
		return 0, err
	}
	end := open.Add(length)
	n := 0
	for {
		o := gen.Next()
		if o.Time.After(end) {
			break
		}
		if err := w.Append(o); err != nil {
			w.Close()
			return n, err
		}
		n++
	}
	return n, w.Close()
}
