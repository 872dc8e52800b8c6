// Package aln reads minimal alignment records from tab-separated text,
// one record per line, as produced by long-read aligners and overlappers
// (PAF and similar layouts). Only the two fields that orientation
// classification needs are extracted: the read identifier and the strand
// symbol. Column positions are configurable because different producers
// place these fields differently.
package aln

import (
	"bufio"
	"fmt"
	"io"

	"github.com/grailbio/base/log"
	"github.com/pkg/errors"
)

var (
	// ErrFields is returned when a record does not have enough
	// tab-separated fields to cover the configured columns.
	ErrFields = errors.New("too few fields")
	// ErrStrand is returned when a record's strand field is neither "+"
	// nor "-".
	ErrStrand = errors.New("unrecognized strand symbol")
)

// Strand is the orientation asserted by a single alignment record.
type Strand uint8

const (
	// Forward is the "+" strand.
	Forward Strand = iota
	// Reverse is the "-" strand.
	Reverse
)

// String returns the symbol the strand is written as on the wire.
func (s Strand) String() string {
	switch s {
	case Forward:
		return "+"
	case Reverse:
		return "-"
	}
	return fmt.Sprintf("Strand(%d)", uint8(s))
}

// A Record is one alignment record, reduced to the fields that
// classification consumes. A read may appear in zero, one, or many
// records.
type Record struct {
	ID     string
	Strand Strand
}

// Opts configures a Scanner.
type Opts struct {
	// IDCol is the 0-based column holding the read identifier.
	IDCol int
	// StrandCol is the 0-based column holding the strand symbol.
	StrandCol int
	// Strict aborts the scan at the first malformed record. The default
	// is to skip malformed records, logging and counting each one.
	Strict bool
}

// DefaultOpts matches the PAF layout emitted by minimap2: query name in
// column 1, strand in column 5.
var DefaultOpts = Opts{IDCol: 0, StrandCol: 4}

// A RecordError describes a single malformed record.
type RecordError struct {
	// Line is the 1-based line number of the record within its input.
	Line int
	// Text is the full record text.
	Text string
	// Err is the underlying cause, ErrFields or ErrStrand.
	Err error
}

func (e *RecordError) Error() string {
	return fmt.Sprintf("record at line %d: %v: %q", e.Line, e.Err, e.Text)
}

// Cause implements the pkg/errors causer interface.
func (e *RecordError) Cause() error { return e.Err }

var errEOF = errors.New("eof")

// Scanner provides a convenient interface for reading alignment record
// data. The Scan method returns the next valid record, returning a
// boolean indicating whether the read succeeded. Scanners are not
// threadsafe.
type Scanner struct {
	b       *bufio.Scanner
	opts    Opts
	err     error
	line    int
	skipped int
}

// NewScanner constructs a new Scanner that reads tab-separated records
// from the provided reader.
func NewScanner(r io.Reader, opts Opts) *Scanner {
	return &Scanner{b: bufio.NewScanner(r), opts: opts}
}

// Scan the next record into the provided record. Scan returns a boolean
// indicating whether the scan succeeded. Once Scan returns false, it
// never returns true again. In permissive mode malformed records are
// skipped, not returned. Upon completion, the user should check the Err
// method to determine whether scanning stopped because of an error or
// because the end of the stream was reached.
func (s *Scanner) Scan(rec *Record) bool {
	if s.err != nil {
		return false
	}
	for s.b.Scan() {
		s.line++
		r, err := parse(s.b.Text(), s.opts)
		if err != nil {
			rerr := &RecordError{Line: s.line, Text: s.b.Text(), Err: err}
			if s.opts.Strict {
				s.err = rerr
				return false
			}
			s.skipped++
			log.Error.Printf("skipping malformed record: %v", rerr)
			continue
		}
		*rec = r
		return true
	}
	if s.err = s.b.Err(); s.err == nil {
		s.err = errEOF
	}
	return false
}

// Err returns the scanning error, if any.
func (s *Scanner) Err() error {
	if s.err == errEOF {
		return nil
	}
	return s.err
}

// Skipped returns the number of malformed records skipped so far. It is
// always zero in strict mode.
func (s *Scanner) Skipped() int { return s.skipped }

func parse(line string, opts Opts) (Record, error) {
	id, ok := field(line, opts.IDCol)
	if !ok || id == "" {
		return Record{}, ErrFields
	}
	sym, ok := field(line, opts.StrandCol)
	if !ok {
		return Record{}, ErrFields
	}
	var strand Strand
	switch sym {
	case "+":
		strand = Forward
	case "-":
		strand = Reverse
	default:
		return Record{}, ErrStrand
	}
	return Record{ID: id, Strand: strand}, nil
}

// field returns the n'th tab-separated field of line without splitting
// the whole record.
func field(line string, n int) (string, bool) {
	start := 0
	for ; n > 0; n-- {
		i := indexTab(line, start)
		if i < 0 {
			return "", false
		}
		start = i + 1
	}
	if end := indexTab(line, start); end >= 0 {
		return line[start:end], true
	}
	if start == len(line) && line == "" {
		return "", false
	}
	return line[start:], true
}

func indexTab(line string, from int) int {
	for i := from; i < len(line); i++ {
		if line[i] == '\t' {
			return i
		}
	}
	return -1
}
