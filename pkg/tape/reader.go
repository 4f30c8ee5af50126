package tape

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"github.com/hyunwoo-p/marketreplay/pkg/book"
)

// Reader streams validated orders from a tape file. Validation happens
// here, at the boundary: the book core never sees a malformed record, a
// non-positive price, or a negative size.
type Reader struct {
	f    *os.File
	csv  *csv.Reader
	line int
}

// Open opens a tape file and consumes its header row.
func Open(path string) (*Reader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	r := csv.NewReader(f)
	r.FieldsPerRecord = len(header)
	if _, err := r.Read(); err != nil {
		f.Close()
		if err == io.EOF {
			return nil, fmt.Errorf("tape %s: missing header", path)
		}
		return nil, fmt.Errorf("tape %s: %w", path, err)
	}
	return &Reader{f: f, csv: r}, nil
}

// Next returns the next order, io.EOF once the tape is exhausted, or a
// descriptive error for a malformed record.
func (r *Reader) Next() (book.IncomingOrder, error) {
	rec, err := r.csv.Read()
	if err != nil {
		if err == io.EOF {
			return book.IncomingOrder{}, io.EOF
		}
		return book.IncomingOrder{}, err
	}
	r.line++
	o, err := parseRecord(rec)
	if err != nil {
		return book.IncomingOrder{}, fmt.Errorf("tape record %d: %w", r.line, err)
	}
	return o, nil
}

// Close closes the underlying file.
func (r *Reader) Close() error {
	return r.f.Close()
}

func parseRecord(rec []string) (book.IncomingOrder, error) {
	t, err := time.Parse(time.RFC3339, rec[0])
	if err != nil {
		return book.IncomingOrder{}, fmt.Errorf("bad timestamp %q: %w", rec[0], err)
	}

	var side book.Side
	switch rec[2] {
	case string(book.Buy):
		side = book.Buy
	case string(book.Sell):
		side = book.Sell
	default:
		return book.IncomingOrder{}, fmt.Errorf("unknown side %q", rec[2])
	}

	price, err := decimal.NewFromString(rec[3])
	if err != nil {
		return book.IncomingOrder{}, fmt.Errorf("bad price %q: %w", rec[3], err)
	}
	if price.Sign() <= 0 {
		return book.IncomingOrder{}, fmt.Errorf("price %s must be positive", price)
	}

	size, err := strconv.ParseInt(rec[4], 10, 64)
	if err != nil {
		return book.IncomingOrder{}, fmt.Errorf("bad size %q: %w", rec[4], err)
	}
	if size < 0 {
		return book.IncomingOrder{}, fmt.Errorf("size %d must be non-negative", size)
	}

	return book.IncomingOrder{
		Time:       t,
		Instrument: rec[1],
		Side:       side,
		Price:      price,
		Size:       size,
	}, nil
}
