package quotes

import (
	"context"
	"errors"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/joescharf/pomo/internal/stats"
)

func TestAll(t *testing.T) {
	qs := All()
	assert.Len(t, qs, 15)
	for _, q := range qs {
		assert.NotEmpty(t, q.Text)
		assert.NotEmpty(t, q.Author)
	}

	qs[0].Text = "changed"
	assert.NotEqual(t, "changed", All()[0].Text, "All returns a copy")
}

func TestRandom_Deterministic(t *testing.T) {
	a := Random(rand.New(rand.NewPCG(1, 2)))
	b := Random(rand.New(rand.NewPCG(1, 2)))
	assert.Equal(t, a, b)
	assert.Contains(t, All(), a)
}

func TestStatic(t *testing.T) {
	q := Static{}.Quote(context.Background())
	assert.Contains(t, All(), q)
}

type fakeNudger struct {
	msg  string
	err  error
	seen stats.Summary
}

func (f *fakeNudger) Nudge(_ context.Context, s stats.Summary) (string, error) {
	f.seen = s
	return f.msg, f.err
}

type fixed Quote

func (f fixed) Quote(context.Context) Quote { return Quote(f) }

func TestLLMSource(t *testing.T) {
	n := &fakeNudger{msg: "Three down, five to go."}
	src := LLMSource{Client: n, Summary: stats.Summary{TodayCompleted: 3, DailyGoal: 8}}

	q := src.Quote(context.Background())
	assert.Equal(t, Quote{Text: "Three down, five to go.", Author: LLMAuthor}, q)
	assert.Equal(t, 3, n.seen.TodayCompleted)
}

func TestLLMSource_FallsBack(t *testing.T) {
	n := &fakeNudger{err: errors.New("no network")}
	want := Quote{Text: "Small steps lead to big changes.", Author: "Unknown"}
	src := LLMSource{Client: n, Fallback: fixed(want)}

	assert.Equal(t, want, src.Quote(context.Background()))
}

func TestLLMSource_DefaultFallbackIsStatic(t *testing.T) {
	src := LLMSource{Client: &fakeNudger{err: errors.New("boom")}}
	assert.Contains(t, All(), src.Quote(context.Background()))
}
