package streamcsv

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"unsafe"
)

// defaultReadBufferSize is the ParseFile chunk size. A tuning knob, not a
// correctness parameter.
const defaultReadBufferSize = 1 << 20 // 1 MiB

var (
	// ErrFileOpen is returned by ParseFile when the path cannot be opened.
	ErrFileOpen = errors.New("streamcsv: cannot open csv file")
	// ErrFileRead is returned by ParseFile when reading ends before a clean end-of-file.
	ErrFileRead = errors.New("streamcsv: csv file could not be fully read")
)

// RowFunc is invoked for each completed data row with the ordered field list
// and the 1-based number of the line that terminated the row. The field
// strings alias the parser's internal buffer and are only valid until the
// callback returns; copy anything that must be retained. A non-nil error
// aborts the surrounding Feed/Finish/Parse/ParseFile call.
type RowFunc func(fields []string, line int) error

// fieldSpan records one field as offsets into the row buffer. For fields
// opened by a quote, [quoteStart, quoteEnd) brackets the unescaped quoted
// content, which trimming never touches.
type fieldSpan struct {
	start, end           int
	quoted               bool
	quoteStart, quoteEnd int
}

// Parser is an incremental push parser: Feed it byte chunks in any split, and
// it invokes the row callback as soon as each row is recognized. The
// configuration fields must be set before the first Feed and left alone for
// the session; Clear resets the progress state but not the configuration.
type Parser struct {
	onRow RowFunc

	// Delimiter is the field separator. Default is ','.
	Delimiter byte
	// HeaderComments is a set of lead characters. Before the first data line,
	// blank lines and lines starting with one of these characters are
	// skipped. Empty disables skipping.
	HeaderComments string
	// TrimCharacters is a set of characters stripped from both ends of each
	// field, outside quoted content only. Empty disables trimming.
	TrimCharacters string
	// ReadBufferSize is the ParseFile chunk size in bytes. Default is 1 MiB.
	ReadBufferSize int

	buf    []byte      // unflushed characters of the current row
	fields []fieldSpan // completed field spans within buf
	record []string    // row slice handed to the callback, reused
	line   int
	rows   int

	fieldStart int
	quoted     bool // current field had a quoted segment
	quoteStart int
	quoteEnd   int
	allTrim    bool // current field content so far is all trim characters

	inQuotes     bool
	pendingQuote bool // quote seen in quoted mode, closing unless doubled
	pendingCR    bool // CR seen, a directly following LF belongs to it

	headerDone bool // header-comment skipping is over for this input
	inComment  bool
}

// NewParser creates a Parser that reports rows to onRow, panicking if onRow
// is nil. The dialect defaults to comma-delimited with no comment skipping
// and no trimming.
func NewParser(onRow RowFunc) *Parser {
	if onRow == nil {
		panic("streamcsv: row callback cannot be nil")
	}
	return &Parser{
		onRow:   onRow,
		buf:     make([]byte, 0, 512),
		fields:  make([]fieldSpan, 0, 16),
		record:  make([]string, 0, 16),
		allTrim: true,
	}
}

// Clear resets all mutable session state so a new logical input can be
// processed on the same instance. The construction-time configuration is
// untouched.
func (p *Parser) Clear() {
	p.buf = p.buf[:0]
	p.fields = p.fields[:0]
	p.record = p.record[:0]
	p.line = 0
	p.rows = 0
	p.resetField()
	p.inQuotes = false
	p.pendingQuote = false
	p.pendingCR = false
	p.headerDone = false
	p.inComment = false
}

// Feed appends a chunk and processes as much as can be unambiguously
// completed, invoking the row callback zero or more times. A trailing partial
// row stays buffered for the next call; the chunk may be split at any byte
// offset without changing the emitted rows. A 0x00 byte marks the end of the
// available data in the chunk, the remainder is dropped.
func (p *Parser) Feed(chunk []byte) error {
	delim := p.delim()
	data := chunk
	n := len(data)
	for i := 0; i < n; {
		c := data[i]
		if c == 0 {
			return nil
		}
		if p.pendingCR {
			p.pendingCR = false
			if c == '\n' {
				i++
				continue
			}
		}
		if p.pendingQuote {
			p.pendingQuote = false
			if c == quoteChar {
				// Doubled quote, an escaped literal quote.
				p.buf = append(p.buf, quoteChar)
				i++
				continue
			}
			p.inQuotes = false
			p.quoteEnd = len(p.buf)
			// c continues the field unquoted, handled below.
		}
		if p.inQuotes {
			j := i
			for j < n && data[j] != quoteChar && data[j] != 0 {
				j++
			}
			p.buf = append(p.buf, data[i:j]...)
			i = j
			if i < n && data[i] == quoteChar {
				p.pendingQuote = true
				i++
			}
			continue
		}
		if !p.headerDone {
			if p.HeaderComments == "" {
				p.headerDone = true
			} else if p.inComment {
				if c == '\n' || c == '\r' {
					p.inComment = false
					p.line++
					p.pendingCR = c == '\r'
				}
				i++
				continue
			} else if c == '\n' || c == '\r' {
				p.line++
				p.pendingCR = c == '\r'
				i++
				continue
			} else if strings.IndexByte(p.HeaderComments, c) >= 0 {
				p.inComment = true
				i++
				continue
			} else {
				p.headerDone = true
			}
		}
		switch {
		case c == delim:
			p.pushField()
			i++
		case c == '\n' || c == '\r':
			p.pendingCR = c == '\r'
			i++
			p.line++
			if err := p.endRow(); err != nil {
				return err
			}
		case c == quoteChar && !p.quoted && p.allTrim:
			// A quote opens the field only while everything before it in the
			// field is trim characters (trivially so at field start).
			p.inQuotes = true
			p.quoted = true
			p.quoteStart = len(p.buf)
			i++
		default:
			stopQuote := p.allTrim && !p.quoted
			j := i + 1
			for j < n {
				b := data[j]
				if b == delim || b == '\n' || b == '\r' || b == 0 || (stopQuote && b == quoteChar) {
					break
				}
				j++
			}
			run := data[i:j]
			p.buf = append(p.buf, run...)
			if p.allTrim {
				for _, b := range run {
					if !p.isTrim(b) {
						p.allTrim = false
						break
					}
				}
			}
			i = j
		}
	}
	return nil
}

// Finish signals end-of-input and flushes a final pending row if one exists,
// even without a trailing terminator. An unterminated quote is closed
// implicitly, no error is raised for it.
func (p *Parser) Finish() error {
	if p.pendingQuote || p.inQuotes {
		p.pendingQuote = false
		p.inQuotes = false
		p.quoteEnd = len(p.buf)
	}
	p.pendingCR = false
	if len(p.buf) == 0 && len(p.fields) == 0 {
		p.resetField()
		return nil
	}
	p.line++
	return p.endRow()
}

// Parse processes a complete in-memory input: Clear, Feed, Finish.
func (p *Parser) Parse(text string) error {
	p.Clear()
	if err := p.Feed([]byte(text)); err != nil {
		return err
	}
	return p.Finish()
}

// ParseFile reads path in binary mode in ReadBufferSize chunks and feeds each
// chunk. It fails with ErrFileOpen if the file cannot be opened and with
// ErrFileRead if reading ends before a clean end-of-file.
func (p *Parser) ParseFile(path string) error {
	p.Clear()
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrFileOpen, err)
	}
	defer f.Close()

	size := p.ReadBufferSize
	if size <= 0 {
		size = defaultReadBufferSize
	}
	buf := make([]byte, size)
	for {
		n, err := f.Read(buf)
		if n > 0 {
			if ferr := p.Feed(buf[:n]); ferr != nil {
				return ferr
			}
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("%w: %w", ErrFileRead, err)
		}
	}
	return p.Finish()
}

func (p *Parser) delim() byte {
	if p.Delimiter == 0 {
		return ','
	}
	return p.Delimiter
}

func (p *Parser) isTrim(c byte) bool {
	return p.TrimCharacters != "" && strings.IndexByte(p.TrimCharacters, c) >= 0
}

func (p *Parser) resetField() {
	p.fieldStart = len(p.buf)
	p.quoted = false
	p.quoteStart = 0
	p.quoteEnd = 0
	p.allTrim = true
}

// pushField closes the current field at the current buffer end.
func (p *Parser) pushField() {
	p.fields = append(p.fields, fieldSpan{
		start:      p.fieldStart,
		end:        len(p.buf),
		quoted:     p.quoted,
		quoteStart: p.quoteStart,
		quoteEnd:   p.quoteEnd,
	})
	p.resetField()
}

// endRow flushes the buffered row through the callback. A row with no
// content and no recorded boundaries is a blank line and is dropped.
func (p *Parser) endRow() error {
	if len(p.buf) == 0 && len(p.fields) == 0 {
		p.resetField()
		return nil
	}
	p.pushField()

	var base string
	if len(p.buf) > 0 {
		// Zero-copy view: fields share the row buffer until the next step.
		base = unsafe.String(unsafe.SliceData(p.buf), len(p.buf))
	}
	p.record = p.record[:0]
	for _, f := range p.fields {
		s, e := p.trimSpan(f)
		p.record = append(p.record, base[s:e])
	}
	if err := p.onRow(p.record, p.line); err != nil {
		return err
	}
	p.rows++
	p.buf = p.buf[:0]
	p.fields = p.fields[:0]
	p.resetField()
	return nil
}

// trimSpan strips trim characters from both ends of the field span, never
// reaching into a quoted segment.
func (p *Parser) trimSpan(f fieldSpan) (int, int) {
	s, e := f.start, f.end
	if p.TrimCharacters == "" {
		return s, e
	}
	lo, hi := e, s
	if f.quoted {
		lo, hi = f.quoteStart, f.quoteEnd
	}
	for e > s && e > hi && p.isTrim(p.buf[e-1]) {
		e--
	}
	for s < e && s < lo && p.isTrim(p.buf[s]) {
		s++
	}
	return s, e
}
