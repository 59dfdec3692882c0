package ai

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubSummarizer struct {
	summary string
	err     error
	calls   int
	lastLen int
}

func (s *stubSummarizer) Summarize(_ context.Context, text string, _, _ int) (string, error) {
	s.calls++
	s.lastLen = len([]rune(text))
	return s.summary, s.err
}

func TestFallback(t *testing.T) {
	long := strings.Repeat("a", 250)

	tests := []struct {
		name string
		text string
		want string
	}{
		{
			name: "more than three segments keeps first two and last",
			text: "One. Two. Three. Four",
			want: "One.  Two.  Four",
		},
		{
			name: "trailing period leaves an empty last segment",
			text: "A. B. C.",
			want: "A.  B.",
		},
		{
			name: "few segments short text is unchanged",
			text: "Short text. Another",
			want: "Short text. Another",
		},
		{
			name: "few segments long text is truncated",
			text: long,
			want: strings.Repeat("a", 200) + "...",
		},
		{
			name: "exactly 200 characters is not truncated",
			text: strings.Repeat("b", 200),
			want: strings.Repeat("b", 200),
		},
		{
			name: "truncation counts characters not bytes",
			text: strings.Repeat("é", 201),
			want: strings.Repeat("é", 200) + "...",
		},
		{
			name: "empty",
			text: "",
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Fallback(tt.text))
		})
	}
}

func TestFallbackSummarizerNeverFails(t *testing.T) {
	got, err := FallbackSummarizer{}.Summarize(context.Background(), "One. Two. Three. Four", 150, 30)
	require.NoError(t, err)
	assert.Equal(t, "One.  Two.  Four", got)
}

func TestWithFallback(t *testing.T) {
	ctx := context.Background()
	text := "Jane Doe. Data analyst. Five years of experience. SQL and Python"

	t.Run("passes through a model summary", func(t *testing.T) {
		model := &stubSummarizer{summary: "A data analyst."}
		got, err := WithFallback(model, "gemini", nil, nil).Summarize(ctx, text, 150, 30)
		require.NoError(t, err)
		assert.Equal(t, "A data analyst.", got)
		assert.Equal(t, 1, model.calls)
	})

	t.Run("model error yields the deterministic summary", func(t *testing.T) {
		model := &stubSummarizer{err: errors.New("quota exceeded")}
		got, err := WithFallback(model, "anthropic", nil, nil).Summarize(ctx, text, 150, 30)
		require.NoError(t, err)
		assert.Equal(t, Fallback(text), got)
	})

	t.Run("health without a breaker", func(t *testing.T) {
		s := WithFallback(&stubSummarizer{}, "gemini", nil, nil)
		h, ok := s.(HealthReporter)
		require.True(t, ok)
		assert.True(t, h.IsHealthy())
		assert.Equal(t, false, h.GetStats()["enabled"])
	})
}
