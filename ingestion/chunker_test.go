package ingestion

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func makeWords(count, wordsPerPage int) []PageWord {
	words := make([]PageWord, count)
	for i := range words {
		words[i] = PageWord{
			Word: fmt.Sprintf("word%d", i),
			Page: i/wordsPerPage + 1,
		}
	}
	return words
}

func TestSplitWindowsCoversEveryWord(t *testing.T) {
	words := makeWords(103, 50)
	windows := SplitWindows(words, DefaultChunkSize, DefaultChunkOverlap)
	require.NotEmpty(t, windows)

	// Every input word must appear in at least one window
	seen := make(map[string]bool)
	for _, w := range windows {
		for _, word := range strings.Fields(w.Text) {
			seen[word] = true
		}
	}
	for _, pw := range words {
		assert.True(t, seen[pw.Word], "word %q not covered", pw.Word)
	}
}

func TestSplitWindowsOverlap(t *testing.T) {
	words := makeWords(40, 100)
	windows := SplitWindows(words, 20, 5)
	require.GreaterOrEqual(t, len(windows), 2)

	// Consecutive windows share the trailing/leading overlap words
	first := strings.Fields(windows[0].Text)
	second := strings.Fields(windows[1].Text)
	assert.Equal(t, first[len(first)-5:], second[:5])
}

func TestSplitWindowsDeterministic(t *testing.T) {
	words := makeWords(75, 30)
	a := SplitWindows(words, 20, 5)
	b := SplitWindows(words, 20, 5)
	assert.Equal(t, a, b)
}

func TestSplitWindowsPageSpans(t *testing.T) {
	t.Run("single page", func(t *testing.T) {
		words := makeWords(10, 100)
		windows := SplitWindows(words, 20, 5)
		require.Len(t, windows, 1)
		assert.Equal(t, "1", windows[0].PageSpan)
	})

	t.Run("page boundary straddle", func(t *testing.T) {
		// 10 words per page: the first 20-word window covers pages 1-2
		words := makeWords(30, 10)
		windows := SplitWindows(words, 20, 5)
		require.NotEmpty(t, windows)
		assert.Equal(t, "1-2", windows[0].PageSpan)
	})
}

func TestSplitWindowsShortInput(t *testing.T) {
	words := makeWords(3, 100)
	windows := SplitWindows(words, 20, 5)
	require.Len(t, windows, 1)
	assert.Equal(t, "word0 word1 word2", windows[0].Text)
}

func TestSplitWindowsEmptyInput(t *testing.T) {
	assert.Empty(t, SplitWindows(nil, 20, 5))
}

func TestSplitWindowsInvalidParamsFallBack(t *testing.T) {
	words := makeWords(25, 100)
	// Zero size and overlap >= size both fall back to defaults
	windows := SplitWindows(words, 0, 50)
	require.NotEmpty(t, windows)
	first := strings.Fields(windows[0].Text)
	assert.Len(t, first, DefaultChunkSize)
}

func TestSplitWindowsSmallWindowInvalidOverlap(t *testing.T) {
	// Windows narrower than the default overlap must still stride forward
	// when the passed overlap is unusable
	words := makeWords(12, 100)

	t.Run("overlap larger than size", func(t *testing.T) {
		windows := SplitWindows(words, 4, 10)
		require.NotEmpty(t, windows)

		seen := make(map[string]bool)
		for _, w := range windows {
			for _, word := range strings.Fields(w.Text) {
				seen[word] = true
			}
		}
		for _, pw := range words {
			assert.True(t, seen[pw.Word], "word %q not covered", pw.Word)
		}
	})

	t.Run("overlap equal to size", func(t *testing.T) {
		windows := SplitWindows(words, 5, 5)
		require.NotEmpty(t, windows)
		first := strings.Fields(windows[0].Text)
		assert.Len(t, first, 5)
	})

	t.Run("negative overlap", func(t *testing.T) {
		windows := SplitWindows(words, 3, -1)
		require.NotEmpty(t, windows)
	})
}

func TestExtractInfo(t *testing.T) {
	t.Run("short document returns all words", func(t *testing.T) {
		words := makeWords(5, 100)
		assert.Equal(t, "word0 word1 word2 word3 word4", ExtractInfo(words))
	})

	t.Run("long document truncates to limit", func(t *testing.T) {
		words := makeWords(500, 100)
		info := ExtractInfo(words)
		assert.Len(t, strings.Fields(info), infoWordLimit)
	})

	t.Run("empty input", func(t *testing.T) {
		assert.Empty(t, ExtractInfo(nil))
	})
}
