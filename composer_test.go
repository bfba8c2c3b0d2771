package streamcsv

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComposerDefineColumns(t *testing.T) {
	t.Parallel()

	sink := func(string) error { return nil }

	t.Run("secondDefinitionFails", func(t *testing.T) {
		t.Parallel()

		c := NewComposer(sink)
		require.NoError(t, c.DefineColumns(3))
		require.ErrorIs(t, c.DefineColumns(3), ErrColumnsDefined)
	})

	t.Run("zeroColumnsFails", func(t *testing.T) {
		t.Parallel()

		c := NewComposer(sink)
		require.ErrorIs(t, c.DefineColumns(0), ErrColumnCount)
		require.ErrorIs(t, c.DefineColumns(-1), ErrColumnCount)
	})

	t.Run("forcedQuoteIndexRange", func(t *testing.T) {
		t.Parallel()

		for _, idx := range []int{0, 3, -1} {
			c := NewComposer(sink)
			require.ErrorIs(t, c.DefineColumns(2, idx), ErrQuoteIndex, "index %d", idx)
			// A failed definition leaves the composer undefined.
			require.ErrorIs(t, c.Feed([]string{"1", "2"}), ErrNoColumns)
		}
		for _, idx := range []int{1, 2} {
			c := NewComposer(sink)
			require.NoError(t, c.DefineColumns(2, idx), "index %d", idx)
		}
	})

	t.Run("clearAllowsRedefinition", func(t *testing.T) {
		t.Parallel()

		c := NewComposer(sink)
		require.NoError(t, c.DefineColumns(1))
		c.Clear()
		require.NoError(t, c.DefineColumns(2, 1))
	})
}

func TestComposerFeed(t *testing.T) {
	t.Parallel()

	var lines []string
	c := NewComposer(func(line string) error {
		lines = append(lines, line)
		return nil
	})
	c.Newline = "\n"
	require.NoError(t, c.DefineColumns(5, 1, 2))

	require.NoError(t, c.Feed([]string{"col1", "col2", "col3", "col4", "col5"}))
	require.NoError(t, c.Feed([]string{"1", "2", "3", "4", "5"}))

	require.ErrorIs(t, c.Feed([]string{"1", "2", "3", "4"}), ErrFieldCount)
	require.ErrorIs(t, c.Feed([]string{"1", "2", "3", "4", "5", "6"}), ErrFieldCount)

	require.NoError(t, c.Feed([]string{"", "", "", "", "5"}))

	// Width mismatches must not have produced output.
	require.Equal(t, []string{
		"\"col1\",\"col2\",col3,col4,col5\n",
		"\"1\",\"2\",3,4,5\n",
		"\"\",\"\",,,5\n",
	}, lines)
}

func TestComposerFeedBeforeDefineFails(t *testing.T) {
	t.Parallel()

	invoked := false
	c := NewComposer(func(string) error {
		invoked = true
		return nil
	})
	require.ErrorIs(t, c.Feed([]string{"a"}), ErrNoColumns)
	assert.False(t, invoked)
}

func TestComposerDefaultsCRLF(t *testing.T) {
	t.Parallel()

	var got string
	c := NewComposer(func(line string) error {
		got += line
		return nil
	})
	require.NoError(t, c.DefineColumns(2))
	require.NoError(t, c.Feed([]string{"a", "b"}))
	require.Equal(t, "a,b\r\n", got)
}

func TestComposerCustomDelimiter(t *testing.T) {
	t.Parallel()

	var got string
	c := NewComposer(func(line string) error {
		got += line
		return nil
	})
	c.Delimiter = '\t'
	require.NoError(t, c.DefineColumns(5, 1, 2))
	require.NoError(t, c.Feed([]string{"", "", "\n", "\r\n", "5\t"}))
	require.Equal(t, "\"\"\t\"\"\t\"\n\"\t\"\r\n\"\t\"5\t\"\r\n", got)
}

func TestComposerSinkErrorPropagates(t *testing.T) {
	t.Parallel()

	sentinel := errors.New("sink full")
	c := NewComposer(func(string) error { return sentinel })
	require.NoError(t, c.DefineColumns(1))
	require.ErrorIs(t, c.Feed([]string{"a"}), sentinel)
}

func TestComposerEscape(t *testing.T) {
	t.Parallel()

	c := NewComposer(func(string) error { return nil })

	tests := []struct {
		in   string
		want string
	}{
		{in: "", want: ""},
		{in: "a", want: "a"},
		{in: "'a'", want: "'a'"},
		{in: "plain", want: "plain"},
		{in: ",", want: "\",\""},
		{in: "\n", want: "\"\n\""},
		{in: "\r", want: "\"\r\""},
		{in: "\r\n", want: "\"\r\n\""},
		{in: "\"", want: "\"\"\"\""},
		{in: " lead", want: "\" lead\""},
		{in: "trail ", want: "\"trail \""},
		{in: "tab\there", want: "\"tab\there\""},
		{in: "non-ascii\x80", want: "\"non-ascii\x80\""},
	}
	for _, tc := range tests {
		assert.Equal(t, tc.want, c.Escape(tc.in), "Escape(%q)", tc.in)
	}

	semi := NewComposer(func(string) error { return nil })
	semi.Delimiter = ';'
	assert.Equal(t, "\";\"", semi.Escape(";"))
	assert.Equal(t, "a,b", semi.Escape("a,b"), "comma is plain under a ';' delimiter")
}

func TestQuote(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want string
	}{
		{in: "", want: "\"\""},
		{in: "a", want: "\"a\""},
		{in: "'a'", want: "\"'a'\""},
		{in: ",", want: "\",\""},
		{in: "\n", want: "\"\n\""},
		{in: "\r\n", want: "\"\r\n\""},
		{in: "\"", want: "\"\"\"\""},
		{in: "he said \"hi\"", want: "\"he said \"\"hi\"\"\""},
	}
	for _, tc := range tests {
		assert.Equal(t, tc.want, Quote(tc.in), "Quote(%q)", tc.in)
	}
}

func TestNewComposerNilPanics(t *testing.T) {
	t.Parallel()

	assert.Panics(t, func() { NewComposer(nil) })
}
