// # StreamCSV: An Incremental CSV Parsing and Composing Library for Go
//
// StreamCSV parses delimited text arriving as discrete byte chunks and reports
// complete rows as soon as they are recognized, without requiring the whole
// input in memory. It implements an RFC 4180 derived dialect that accepts CR,
// LF, and CRLF line endings alike, tolerates malformed quoting, and supports
// configurable delimiters, header-comment skipping, and field trimming.
//
// # Features
//
// - Push-style `Parser` with `Feed`/`Finish` chunk processing, zero-copy row
// callbacks, and chunk-boundary independent output.
// - Fixed-column `Composer` with per-column forced quoting and a shared
// `Quote`/`Escape` pair for unconditional and heuristic escaping.
// - Pull-style `Reader` and buffered `Writer` convenience surfaces for
// io.Reader/io.Writer pipelines.
// - Amortized single-buffer allocation: fields are spans into one growing
// arena, never individually allocated strings.
//
// # Getting Started
//
// Construct a `Parser` with a row callback and feed it chunks, or use
// `Parse`/`ParseFile` for complete inputs. Construct a `Composer` with a line
// sink, define the column contract once, and feed rows.
//
// All operations are synchronous and run to completion on the calling
// goroutine; callbacks are invoked in line order. Instances hold no locks and
// must not be shared across goroutines without external synchronization.
package streamcsv
