package command

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func reactErr(t *testing.T, input string) *CommandError {
	t.Helper()

	resp, err := reactify(input)
	require.Nil(t, resp)
	require.Error(t, err)

	cmdErr, ok := err.(*CommandError)
	require.True(t, ok, "reactify errors must be *CommandError")
	return cmdErr
}

func TestReactifyRejectsNonAlphanumeric(t *testing.T) {
	cmdErr := reactErr(t, "ab!")
	assert.Equal(t, ErrNonAlphanumeric, cmdErr.Kind)
	assert.Equal(t, "ab!", cmdErr.Original)
}

func TestReactifyNonAlphanumericCheckedBeforeRepetition(t *testing.T) {
	// "a!a" repeats 'a' but also contains '!'; the non-alphanumeric
	// failure must win.
	cmdErr := reactErr(t, "a!a")
	assert.Equal(t, ErrNonAlphanumeric, cmdErr.Kind)
}

func TestReactifyRejectsRepeatedCharacters(t *testing.T) {
	cmdErr := reactErr(t, "aab")
	assert.Equal(t, ErrRepetition, cmdErr.Kind)
	assert.Equal(t, "aab", cmdErr.Original)
}

func TestReactifyRepetitionIsCaseFolded(t *testing.T) {
	cmdErr := reactErr(t, "aA")
	assert.Equal(t, ErrRepetition, cmdErr.Kind)
}

func TestReactifySpacesAreIgnored(t *testing.T) {
	resp, err := reactify("a b")
	require.NoError(t, err)
	assert.Len(t, resp.(ReactResponse).Reactions, 2)

	// A space next to a repeated character still trips the repetition
	// check once spaces are stripped.
	cmdErr := reactErr(t, "a a")
	assert.Equal(t, ErrRepetition, cmdErr.Kind)
}

func TestReactifyTokens(t *testing.T) {
	resp, err := reactify("A1")
	require.NoError(t, err)

	reactions := resp.(ReactResponse).Reactions
	require.Len(t, reactions, 2)

	// 'A' maps to the regional indicator A.
	first := []rune(reactions[0])
	require.Len(t, first, 1)
	assert.Equal(t, rune('A')+upperIndicatorOffset, first[0])

	// '1' becomes a three-codepoint keycap sequence starting with the digit.
	second := []rune(reactions[1])
	require.Len(t, second, 3)
	assert.Equal(t, '1', second[0])
	assert.Equal(t, rune(variationSelector16), second[1])
	assert.Equal(t, rune(combiningEnclosingKeycap), second[2])
}

func TestReactifyLowercaseOffset(t *testing.T) {
	resp, err := reactify("z")
	require.NoError(t, err)

	token := []rune(resp.(ReactResponse).Reactions[0])
	require.Len(t, token, 1)
	assert.Equal(t, rune('z')+lowerIndicatorOffset, token[0])
}

func TestReactifyKeepsInputOrder(t *testing.T) {
	resp, err := reactify("ba")
	require.NoError(t, err)

	reactions := resp.(ReactResponse).Reactions
	require.Len(t, reactions, 2)
	assert.Equal(t, rune('b')+lowerIndicatorOffset, []rune(reactions[0])[0])
	assert.Equal(t, rune('a')+lowerIndicatorOffset, []rune(reactions[1])[0])
}
