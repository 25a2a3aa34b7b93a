package userfunc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWordcount_MapperEmitsOnePerWord(t *testing.T) {
	mapper, reducer, ok := Lookup("wordcount")
	require.True(t, ok)

	pairs, err := mapper("hello world hello")
	require.NoError(t, err)
	require.Len(t, pairs, 3)

	out, err := reducer("hello", []string{"1", "1"})
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, "hello", out[0].Key)
	assert.Equal(t, "2", out[0].Value)
}

func TestInvertedIndex_GroupsDocIDsSortedAndDeduped(t *testing.T) {
	mapper, reducer, ok := Lookup("invertedindex")
	require.True(t, ok)

	pairs, err := mapper("doc2: the quick brown fox")
	require.NoError(t, err)
	require.NotEmpty(t, pairs)
	for _, p := range pairs {
		assert.Equal(t, "doc2", p.Value)
	}

	out, err := reducer("fox", []string{"doc2", "doc1", "doc2"})
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, "doc1,doc2", out[0].Value)
}

func TestInvertedIndex_SkipsMalformedLines(t *testing.T) {
	mapper, _, ok := Lookup("invertedindex")
	require.True(t, ok)

	pairs, err := mapper("no colon here")
	require.NoError(t, err)
	assert.Empty(t, pairs)
}

func TestGrep_MatchesDefaultPattern(t *testing.T) {
	t.Setenv("GREP_PATTERN", "")
	mapper, reducer, ok := Lookup("grep")
	require.True(t, ok)

	matched, err := mapper("an ERROR occurred")
	require.NoError(t, err)
	require.Len(t, matched, 1)

	unmatched, err := mapper("all good here")
	require.NoError(t, err)
	assert.Empty(t, unmatched)

	out, err := reducer("an ERROR occurred", []string{"1", "1", "1"})
	require.NoError(t, err)
	assert.Equal(t, "3", out[0].Value)
}

func TestKnown_ReflectsRegisteredNames(t *testing.T) {
	assert.True(t, Known("wordcount"))
	assert.True(t, Known("grep"))
	assert.True(t, Known("invertedindex"))
	assert.False(t, Known("does-not-exist"))
}
