package streamcsv

import (
	"errors"
	"fmt"
)

var (
	// ErrColumnsDefined is returned when DefineColumns is called twice without Clear.
	ErrColumnsDefined = errors.New("streamcsv: csv columns are already defined")
	// ErrNoColumns is returned by Feed before DefineColumns has been called.
	ErrNoColumns = errors.New("streamcsv: csv columns are not defined")
	// ErrColumnCount is returned when the column count definition is invalid.
	ErrColumnCount = errors.New("streamcsv: csv column count definition is invalid")
	// ErrQuoteIndex is returned when a forced-quote column index is out of range.
	ErrQuoteIndex = errors.New("streamcsv: csv forced quote index out of range (use 1 to N)")
	// ErrFieldCount is returned when a record contains an unexpected number of fields.
	ErrFieldCount = errors.New("streamcsv: wrong number of fields")
)

// LineFunc receives one fully composed line, including the trailing newline
// sequence. A non-nil error aborts the surrounding Feed call.
type LineFunc func(line string) error

// Composer joins rows of fields into escaped, quoted, delimited lines under a
// fixed column-count contract. The configuration fields must be set before
// the first use; the column contract is established with DefineColumns and
// may be redefined after Clear. An instance can be reused indefinitely.
type Composer struct {
	onLine LineFunc

	// Delimiter is the field separator. Default is ','.
	Delimiter byte
	// Newline is the line terminator sequence. Default is "\r\n".
	Newline string

	numCols    int
	forceQuote []bool
	line       []byte
}

// NewComposer creates a Composer that hands composed lines to onLine,
// panicking if onLine is nil.
func NewComposer(onLine LineFunc) *Composer {
	if onLine == nil {
		panic("streamcsv: line sink cannot be nil")
	}
	return &Composer{
		onLine: onLine,
		line:   make([]byte, 0, 256),
	}
}

// DefineColumns fixes the column count for this session and marks the given
// 1-based column indices as always-quoted regardless of content. It fails if
// columns are already defined, if count is not positive, or if a forced index
// is outside [1, count]; a failed call leaves the composer unchanged.
func (c *Composer) DefineColumns(count int, forcedQuote ...int) error {
	if c.numCols > 0 {
		return ErrColumnsDefined
	}
	if count <= 0 {
		return ErrColumnCount
	}
	for _, idx := range forcedQuote {
		if idx < 1 || idx > count {
			return fmt.Errorf("%w: index %d of %d columns", ErrQuoteIndex, idx, count)
		}
	}
	c.numCols = count
	c.forceQuote = make([]bool, count)
	for _, idx := range forcedQuote {
		c.forceQuote[idx-1] = true
	}
	return nil
}

// Clear resets the column definition and forced-quote marks so DefineColumns
// can be called again.
func (c *Composer) Clear() {
	c.numCols = 0
	c.forceQuote = nil
}

// Feed composes one row: forced columns are quoted unconditionally, the rest
// pass through the escaping heuristic, fields are joined with the delimiter
// and the newline sequence is appended. The composed line is handed to the
// sink. Feed fails without invoking the sink if columns are not defined or
// the field count does not match the contract.
func (c *Composer) Feed(fields []string) error {
	if c.numCols == 0 {
		return ErrNoColumns
	}
	if len(fields) != c.numCols {
		return fmt.Errorf("%w: got %d, defined %d", ErrFieldCount, len(fields), c.numCols)
	}
	delim := c.delim()
	line := c.line[:0]
	for i, field := range fields {
		if i > 0 {
			line = append(line, delim)
		}
		if c.forceQuote[i] {
			line = appendQuoted(line, field)
		} else {
			line = appendEscaped(line, field, delim)
		}
	}
	line = append(line, c.newline()...)
	c.line = line
	return c.onLine(string(line))
}

// Escape returns text quoted if the dialect requires it for this composer's
// delimiter: a leading or trailing space, a control character, a quote, the
// delimiter itself, or any byte outside printable ASCII forces quoting.
// Otherwise text is returned unchanged.
func (c *Composer) Escape(text string) string {
	if needsQuoting(text, c.delim()) {
		return Quote(text)
	}
	return text
}

func (c *Composer) delim() byte {
	if c.Delimiter == 0 {
		return ','
	}
	return c.Delimiter
}

func (c *Composer) newline() string {
	if c.Newline == "" {
		return "\r\n"
	}
	return c.Newline
}
