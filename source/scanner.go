package source

import (
	"bufio"
	"cmp"
	"fmt"
	"io"
	"iter"
	"strconv"
	"strings"
)

// Record is one scored input line.
type Record struct {
	Key   string
	Value float64
	// Line is the 1-based line number within its input.
	Line int
}

// ByValueDesc ranks records with larger values first.
func ByValueDesc(a, b *Record) int { return cmp.Compare(b.Value, a.Value) }

// ByValueAsc ranks records with smaller values first.
func ByValueAsc(a, b *Record) int { return cmp.Compare(a.Value, b.Value) }

// ParseError reports a malformed input line.
type ParseError struct {
	Line int
	Text string
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("line %d: %v", e.Line, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// DefaultMaxLineSize bounds the length of a single input line.
const DefaultMaxLineSize = 1 << 20

// ScannerOption configures a Scanner.
type ScannerOption func(s *Scanner)

// WithDelimiter sets the column separator. An empty delimiter splits on runs
// of white space. The default is a tab.
func WithDelimiter(d string) ScannerOption {
	return func(s *Scanner) {
		s.delim = d
	}
}

// WithField sets the 0-based column holding the value. The default is 1.
func WithField(i int) ScannerOption {
	return func(s *Scanner) {
		s.field = i
	}
}

// WithKeyField sets the 0-based column holding the key. The default is 0.
func WithKeyField(i int) ScannerOption {
	return func(s *Scanner) {
		s.keyField = i
	}
}

// WithMaxLineSize bounds the length of a line in bytes.
func WithMaxLineSize(n int) ScannerOption {
	return func(s *Scanner) {
		s.maxLine = n
	}
}

// Scanner splits delimited text into records.
//
// Blank lines produce nil records, which selection skips as absent. A line
// with too few columns or a value that is not a number stops the scan with
// a *ParseError.
type Scanner struct {
	r        io.Reader
	delim    string
	field    int
	keyField int
	maxLine  int
	lines    int
	err      error
}

// NewScanner creates a Scanner reading from r.
func NewScanner(r io.Reader, optFns ...ScannerOption) *Scanner {
	s := &Scanner{
		r:       r,
		delim:   "\t",
		field:   1,
		maxLine: DefaultMaxLineSize,
	}
	for _, fn := range optFns {
		fn(s)
	}
	return s
}

// All returns a single-pass sequence over the records. Check Err after the
// sequence ends.
func (s *Scanner) All() iter.Seq[*Record] {
	return func(yield func(*Record) bool) {
		sc := bufio.NewScanner(s.r)
		sc.Buffer(make([]byte, 0, min(64*1024, s.maxLine)), s.maxLine)

		for sc.Scan() {
			s.lines++
			rec, err := s.parse(sc.Text())
			if err != nil {
				s.err = err
				return
			}
			if !yield(rec) {
				return
			}
		}
		if err := sc.Err(); err != nil {
			s.err = fmt.Errorf("line %d: %w", s.lines+1, err)
		}
	}
}

// Err returns the first error encountered by All.
func (s *Scanner) Err() error { return s.err }

// Lines returns the number of lines read so far.
func (s *Scanner) Lines() int { return s.lines }

func (s *Scanner) parse(line string) (*Record, error) {
	line = strings.TrimRight(line, "\r")
	if strings.TrimSpace(line) == "" {
		return nil, nil
	}

	var cols []string
	if s.delim == "" {
		cols = strings.Fields(line)
	} else {
		cols = strings.Split(line, s.delim)
	}

	if s.field < 0 || s.field >= len(cols) || s.keyField < 0 || s.keyField >= len(cols) {
		return nil, &ParseError{
			Line: s.lines,
			Text: line,
			Err:  fmt.Errorf("want columns %d and %d, got %d", s.keyField, s.field, len(cols)),
		}
	}

	v, err := strconv.ParseFloat(strings.TrimSpace(cols[s.field]), 64)
	if err != nil {
		return nil, &ParseError{Line: s.lines, Text: line, Err: err}
	}

	return &Record{Key: cols[s.keyField], Value: v, Line: s.lines}, nil
}
