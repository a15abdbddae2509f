package linker_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aldo555/glossary-magic/internal/linker"
)

func TestConnectedFindsLinkedTerms(t *testing.T) {
	terms := []linker.Term{{ID: "1", Word: "node", Link: "/n"}}
	input := fields("See [Node](x)")

	connected, err := linker.Connected(terms, input)
	require.NoError(t, err)
	require.Len(t, connected, 1)
	assert.Equal(t, "node", connected[0].Word)

	result, err := linker.Link(terms, input)
	require.NoError(t, err)
	assert.Empty(t, result.Used)
	assert.Empty(t, result.Changes)
}

func TestConnectedKeepsVocabularyOrder(t *testing.T) {
	terms := []linker.Term{
		{ID: "1", Word: "cat"},
		{ID: "2", Word: "dog"},
		{ID: "3", Word: "bird"},
	}
	input := fields("[*Birds*](/b)", "[dogs](/d) and [cat food](/f)")

	connected, err := linker.Connected(terms, input)
	require.NoError(t, err)

	ids := make([]string, 0, len(connected))
	for _, term := range connected {
		ids = append(ids, term.ID)
	}
	assert.Equal(t, []string{"2", "3"}, ids)
}

func TestConnectedIgnoresPlainText(t *testing.T) {
	connected, err := linker.Connected([]linker.Term{{Word: "cat"}}, fields("a cat sat"))
	require.NoError(t, err)
	assert.Empty(t, connected)
}

func TestConnectedRejectsInvalidTerms(t *testing.T) {
	_, err := linker.Connected([]linker.Term{{Word: ""}}, fields("[x](y)"))
	assert.ErrorIs(t, err, linker.ErrInvalidTerm)
}
