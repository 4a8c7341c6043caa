package inventory

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/weatherfordomb/street-condition-simulator/pkg/segment"
)

// Columns gives the zero-based CSV column of each segment field.
type Columns struct {
	ID               int
	InitialCondition int
	Length           int
	Width            int
	SurfaceType      int
	StreetClass      int
}

// DefaultColumns matches the pavement management export layout.
var DefaultColumns = Columns{
	ID:               0,
	Length:           3,
	Width:            4,
	SurfaceType:      6,
	StreetClass:      7,
	InitialCondition: 9,
}

func (c Columns) max() int {
	m := c.ID
	for _, v := range []int{c.InitialCondition, c.Length, c.Width, c.SurfaceType, c.StreetClass} {
		if v > m {
			m = v
		}
	}
	return m
}

// Load reads segment records from a CSV file with one header row.
func Load(path string, cols Columns) ([]segment.Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening inventory: %w", err)
	}
	defer f.Close()
	return Read(f, cols)
}

// Read parses segment records from CSV. The first row is a header and is
// skipped. Every field is required.
func Read(r io.Reader, cols Columns) ([]segment.Record, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	if _, err := cr.Read(); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("inventory is empty")
		}
		return nil, fmt.Errorf("reading header: %w", err)
	}

	var records []segment.Record
	need := cols.max() + 1
	for line := 2; ; line++ {
		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		if len(row) < need {
			return nil, fmt.Errorf("line %d: %d fields, need at least %d", line, len(row), need)
		}
		rec, err := parseRow(row, cols)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		records = append(records, rec)
	}
	return records, nil
}

func parseRow(row []string, cols Columns) (segment.Record, error) {
	var rec segment.Record
	var err error

	if rec.ID, err = atoi(row[cols.ID], "id"); err != nil {
		return rec, err
	}
	if rec.Length, err = atoi(row[cols.Length], "length"); err != nil {
		return rec, err
	}
	if rec.Width, err = atoi(row[cols.Width], "width"); err != nil {
		return rec, err
	}
	pci := strings.TrimSpace(row[cols.InitialCondition])
	if rec.InitialCondition, err = parseFinite(pci); err != nil {
		return rec, fmt.Errorf("initial condition %q: %w", pci, err)
	}
	rec.SurfaceType = strings.TrimSpace(row[cols.SurfaceType])
	rec.StreetClass = strings.TrimSpace(row[cols.StreetClass])
	return rec, nil
}

// atoi accepts whole numbers written as decimals ("120.0").
func atoi(v, field string) (int, error) {
	v = strings.TrimSpace(v)
	if n, err := strconv.Atoi(v); err == nil {
		return n, nil
	}
	f, err := parseFinite(v)
	if err != nil {
		return 0, fmt.Errorf("%s %q: %w", field, v, err)
	}
	return int(f), nil
}

var errNotFinite = errors.New("value is not finite")

// parseFinite rejects the NaN and Inf spellings ParseFloat accepts.
func parseFinite(v string) (float64, error) {
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, errNotFinite
	}
	return f, nil
}

// Segments builds a fresh segment collection from records.
func Segments(records []segment.Record, rng segment.Source) []*segment.Segment {
	segs := make([]*segment.Segment, len(records))
	for i, r := range records {
		segs[i] = segment.New(r, rng)
	}
	return segs
}

// Loader returns a function that rebuilds the collection from records on
// every call, for repeated runs of one scenario.
func Loader(records []segment.Record, rng segment.Source) func() ([]*segment.Segment, error) {
	return func() ([]*segment.Segment, error) {
		return Segments(records, rng), nil
	}
}
