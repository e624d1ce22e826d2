package taglist

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize_CommaCommitsPendingToken(t *testing.T) {
	assert.Equal(t, []string{"growth", "checkout"}, Normalize("growth,checkout"))
}

func TestNormalize_TabAndNewlineDelimiters(t *testing.T) {
	assert.Equal(t, []string{"a", "b", "c"}, Normalize("a\tb\nc"))
}

func TestNormalize_TrimsWhitespaceAndDropsBlanks(t *testing.T) {
	assert.Equal(t, []string{"growth"}, Normalize("  growth , ,, "))
}

func TestNormalize_DeduplicatesPreservingOrder(t *testing.T) {
	assert.Equal(t, []string{"b", "a", "c"}, Normalize("b,a,b,c,a"))
}

func TestNormalize_MultipleInputs(t *testing.T) {
	assert.Equal(t, []string{"one", "two", "three"}, Normalize("one,two", "two", "three"))
}

func TestNormalize_EmptyInput(t *testing.T) {
	assert.Empty(t, Normalize(""))
	assert.Empty(t, Normalize())
	assert.NotNil(t, Normalize(""), "should return an empty list, not nil")
}

func TestNormalize_KeepsSpacesInsideTags(t *testing.T) {
	assert.Equal(t, []string{"mobile app", "web"}, Normalize("mobile app, web"))
}
