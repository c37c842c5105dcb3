package title

import (
	"context"
	"errors"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/suzudai/my-chat-app/model"
)

func TestGenerate_UsesModelOutput(t *testing.T) {
	mock := model.NewMockModel("mock", "mock")
	mock.Enqueue("  Go generics explained  ")

	g := NewGenerator(mock)
	assert.Equal(t, "Go generics explained", g.Generate(context.Background(), "tell me about go generics"))
}

func TestGenerate_FallbackOnModelError(t *testing.T) {
	mock := model.NewMockModel("mock", "mock")
	mock.FailWith(errors.New("provider down"))

	g := NewGenerator(mock)
	assert.Equal(t, DefaultFallback, g.Generate(context.Background(), "anything"))

	custom := NewGenerator(mock, func(o *Options) { o.Fallback = "Voting chat" })
	assert.Equal(t, "Voting chat", custom.Generate(context.Background(), "anything"))
}

func TestGenerate_FallbackOnEmptyCompletion(t *testing.T) {
	mock := model.NewMockModel("mock", "mock")
	mock.Enqueue("   ")

	g := NewGenerator(mock)
	assert.Equal(t, DefaultFallback, g.Generate(context.Background(), "anything"))
}

func TestGenerate_TruncatesLongTitles(t *testing.T) {
	mock := model.NewMockModel("mock", "mock")
	mock.Enqueue(strings.Repeat("a", 40))

	g := NewGenerator(mock)
	got := g.Generate(context.Background(), "anything")
	assert.Equal(t, strings.Repeat("a", 27)+"...", got)
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", Truncate("short"))

	exactly30 := strings.Repeat("x", 30)
	assert.Equal(t, exactly30, Truncate(exactly30))

	long := strings.Repeat("x", 31)
	got := Truncate(long)
	assert.Equal(t, strings.Repeat("x", 27)+"...", got)
	assert.Equal(t, 30, utf8.RuneCountInString(got))
}

func TestTruncate_MultibyteSafe(t *testing.T) {
	long := strings.Repeat("あ", 35)
	got := Truncate(long)
	require.True(t, utf8.ValidString(got))
	assert.Equal(t, strings.Repeat("あ", 27)+"...", got)
	assert.Equal(t, 30, utf8.RuneCountInString(got))
}
