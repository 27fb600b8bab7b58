package tool

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/chatterm/chatterm/pkg/api"
)

func TestRenderPendingShowsSpinner(t *testing.T) {
	t.Parallel()

	tc := api.ToolCall{
		ID:     "t1",
		Name:   "get_weather",
		Status: api.ToolStatusPending,
	}

	out := Render(tc, 80, "⣾")

	assert.Contains(t, out, "get_weather")
	assert.Contains(t, out, "⊙")
	assert.Contains(t, out, "⣾")
}

func TestRenderSuccessShowsDurationAndResult(t *testing.T) {
	t.Parallel()

	tc := api.ToolCall{
		ID:       "t1",
		Name:     "get_weather",
		Status:   api.ToolStatusSuccess,
		Result:   json.RawMessage(`"Sunny, 21C"`),
		Duration: 1.234,
	}

	out := Render(tc, 80, "")

	assert.Contains(t, out, "✓")
	assert.Contains(t, out, "(1.2s)")
	assert.Contains(t, out, "Sunny, 21C")
	assert.NotContains(t, out, `"Sunny`, "string results are unwrapped")
}

func TestRenderErrorIcon(t *testing.T) {
	t.Parallel()

	tc := api.ToolCall{
		ID:     "t1",
		Name:   "run_query",
		Status: api.ToolStatusError,
		Result: json.RawMessage(`"timeout"`),
	}

	out := Render(tc, 80, "")

	assert.Contains(t, out, "✗")
	assert.Contains(t, out, "timeout")
}

func TestRenderArguments(t *testing.T) {
	t.Parallel()

	tc := api.ToolCall{
		ID:        "t1",
		Name:      "get_weather",
		Status:    api.ToolStatusSuccess,
		Arguments: json.RawMessage(`{"city":"Paris"}`),
	}

	out := Render(tc, 80, "")

	assert.Contains(t, out, "city=Paris")
}

func TestFormatArgumentsSortedKeys(t *testing.T) {
	t.Parallel()

	args := json.RawMessage(`{"unit":"celsius","city":"Paris","days":3}`)
	want := "city=Paris days=3 unit=celsius"

	for range 20 {
		assert.Equal(t, want, formatArguments(args))
	}
}

func TestRenderTruncatesLongResults(t *testing.T) {
	t.Parallel()

	long := strings.Repeat("line\n", 50)
	tc := api.ToolCall{
		ID:     "t1",
		Name:   "read_file",
		Status: api.ToolStatusSuccess,
		Result: json.RawMessage(`"` + strings.ReplaceAll(long, "\n", `\n`) + `"`),
	}

	out := Render(tc, 80, "")

	assert.Contains(t, out, "... (output truncated)")
	assert.LessOrEqual(t, strings.Count(out, "line"), maxResultLines+1)
}

func TestResultTextUnwrapsJSONString(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "hello", resultText(json.RawMessage(`"hello"`)))
	assert.Equal(t, `{"a":1}`, resultText(json.RawMessage(`{"a":1}`)))
}

func TestWrapLines(t *testing.T) {
	t.Parallel()

	lines := wrapLines("abcdefghij", 4)
	assert.Equal(t, []string{"abcd", "efgh", "ij"}, lines)
}
