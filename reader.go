package streamcsv

import (
	"io"
	"strings"
)

const defaultBufferSize = 1 << 10 // 1024 bytes

// Reader is a pull-style convenience surface over Parser for io.Reader
// sources. Unlike the parser callback, records returned by Read are owned by
// the caller and may be retained. The configuration fields must be set before
// the first Read.
type Reader struct {
	src io.Reader

	// Delimiter is the field separator. Default is ','.
	Delimiter byte
	// HeaderComments is the set of header-comment lead characters. Default is none.
	HeaderComments string
	// TrimCharacters is the set of characters trimmed off both field ends. Default is none.
	TrimCharacters string
	// FieldsPerRecord expects each record to contain this many fields. Zero captures the width of the first record.
	FieldsPerRecord int

	parser *Parser
	chunk  []byte
	queue  [][]string
	done   bool
}

// NewReader creates a Reader that consumes CSV data from r, panicking if r is nil.
func NewReader(r io.Reader) *Reader {
	if r == nil {
		panic("streamcsv: reader source cannot be nil")
	}
	return &Reader{src: r}
}

// Read returns the next record from the underlying stream; io.EOF signals
// that no more records remain. When FieldsPerRecord is set (or captured from
// the first record) a width mismatch returns the record alongside
// ErrFieldCount.
func (r *Reader) Read() ([]string, error) {
	if r == nil || r.src == nil {
		return nil, io.EOF
	}
	for len(r.queue) == 0 {
		if r.done {
			return nil, io.EOF
		}
		if r.parser == nil {
			r.init()
		}
		n, err := r.src.Read(r.chunk)
		if n > 0 {
			if ferr := r.parser.Feed(r.chunk[:n]); ferr != nil {
				return nil, ferr
			}
		}
		if err == io.EOF {
			r.done = true
			if ferr := r.parser.Finish(); ferr != nil {
				return nil, ferr
			}
			continue
		}
		if err != nil {
			return nil, err
		}
	}

	rec := r.queue[0]
	r.queue = r.queue[1:]
	if r.FieldsPerRecord <= 0 {
		r.FieldsPerRecord = len(rec)
		return rec, nil
	}
	if len(rec) != r.FieldsPerRecord {
		return rec, ErrFieldCount
	}
	return rec, nil
}

// ReadAll exhausts the reader, collecting records until io.EOF and returning
// the accumulated records plus the first non-EOF error encountered.
func (r *Reader) ReadAll() (records [][]string, err error) {
	for {
		record, err := r.Read()
		if err == io.EOF {
			return records, nil
		}
		if err != nil {
			return nil, err
		}
		records = append(records, record)
	}
}

func (r *Reader) init() {
	r.parser = NewParser(func(fields []string, _ int) error {
		// Parser fields alias its row buffer, pull callers keep records.
		rec := make([]string, len(fields))
		for i, f := range fields {
			rec[i] = strings.Clone(f)
		}
		r.queue = append(r.queue, rec)
		return nil
	})
	r.parser.Delimiter = r.Delimiter
	r.parser.HeaderComments = r.HeaderComments
	r.parser.TrimCharacters = r.TrimCharacters
	r.chunk = make([]byte, defaultBufferSize)
}
