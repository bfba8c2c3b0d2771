package streamcsv

// quoteChar is fixed by the dialect. Fields are wrapped in double quotes and
// literal double quotes are escaped by doubling.
const quoteChar = '"'

// Quote unconditionally wraps text in quote characters and doubles every
// internal quote character. Use it when quoting must be guaranteed regardless
// of content, e.g. to preserve a leading zero that looks numeric.
func Quote(text string) string {
	return string(appendQuoted(make([]byte, 0, len(text)+2), text))
}

// appendQuoted appends the quoted form of text to dst and returns the
// extended slice.
func appendQuoted(dst []byte, text string) []byte {
	dst = append(dst, quoteChar)
	start := 0
	for i := 0; i < len(text); i++ {
		if text[i] == quoteChar {
			dst = append(dst, text[start:i+1]...)
			dst = append(dst, quoteChar)
			start = i + 1
		}
	}
	dst = append(dst, text[start:]...)
	return append(dst, quoteChar)
}

// needsQuoting reports whether text must be quoted under the dialect: a
// leading or trailing space, a control character, a quote, the delimiter, or
// any byte outside printable ASCII forces quoting.
func needsQuoting(text string, delimiter byte) bool {
	if text == "" {
		return false
	}
	if text[0] == ' ' || text[len(text)-1] == ' ' {
		return true
	}
	for i := 0; i < len(text); i++ {
		c := text[i]
		if c < ' ' || c > '~' || c == quoteChar || c == delimiter {
			return true
		}
	}
	return false
}

// appendEscaped appends text to dst, quoted only if needsQuoting demands it.
func appendEscaped(dst []byte, text string, delimiter byte) []byte {
	if needsQuoting(text, delimiter) {
		return appendQuoted(dst, text)
	}
	return append(dst, text...)
}
