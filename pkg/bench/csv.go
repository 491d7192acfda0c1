package bench

import (
	"encoding/csv"
	"io"
	"strconv"
)

// Header is the column set of the classic benchmark output.
var Header = []string{"n", "m", "time"}

// ExtendedHeader adds the matching size, trial index and traversal mode.
var ExtendedHeader = []string{"n", "m", "time", "size", "trial", "randomized"}

// CSVWriter streams records as CSV. The header is written before the first
// record, or by Flush if no record was written.
type CSVWriter struct {
	w        *csv.Writer
	extended bool
	started  bool
}

// NewCSVWriter writes to w. extended selects [ExtendedHeader].
func NewCSVWriter(w io.Writer, extended bool) *CSVWriter {
	return &CSVWriter{w: csv.NewWriter(w), extended: extended}
}

// Write appends one record and flushes it, so output follows the sweep
// live.
func (c *CSVWriter) Write(r Record) error {
	if err := c.header(); err != nil {
		return err
	}
	row := []string{
		strconv.Itoa(r.N),
		strconv.Itoa(r.M),
		strconv.FormatInt(r.Time.Nanoseconds(), 10),
	}
	if c.extended {
		row = append(row,
			strconv.Itoa(r.Size),
			strconv.Itoa(r.Trial),
			strconv.FormatBool(r.Randomized))
	}
	if err := c.w.Write(row); err != nil {
		return err
	}
	c.w.Flush()
	return c.w.Error()
}

// WriteAll writes records in order.
func (c *CSVWriter) WriteAll(records []Record) error {
	for _, r := range records {
		if err := c.Write(r); err != nil {
			return err
		}
	}
	return c.Flush()
}

// Flush writes the header if nothing was written yet and flushes.
func (c *CSVWriter) Flush() error {
	if err := c.header(); err != nil {
		return err
	}
	c.w.Flush()
	return c.w.Error()
}

func (c *CSVWriter) header() error {
	if c.started {
		return nil
	}
	c.started = true
	if c.extended {
		return c.w.Write(ExtendedHeader)
	}
	return c.w.Write(Header)
}
