// Package quotes supplies the motivational line shown on the main menu.
package quotes

import (
	"context"
	"log/slog"
	"math/rand/v2"

	"github.com/joescharf/pomo/internal/stats"
)

// Quote is a line of text and who said it.
type Quote struct {
	Text   string `json:"text"`
	Author string `json:"author"`
}

var all = []Quote{
	{"The secret of getting ahead is getting started.", "Mark Twain"},
	{"Focus is the modern rarity.", "Cal Newport"},
	{"Done is better than perfect.", "Google"},
	{"We are what we repeatedly do.", "Will Durant"},
	{"The best time to plant a tree was 20 years ago.", "Chinese Proverb"},
	{"Deep work is rare, valuable, and increasingly rare.", "Cal Newport"},
	{"In the middle of difficulty lies opportunity.", "Albert Einstein"},
	{"It does not matter how slowly you go as long as you do not stop.", "Confucius"},
	{"The only way to do great work is to love what you do.", "Steve Jobs"},
	{"Small steps lead to big changes.", "Unknown"},
	{"Productivity is never an accident.", "J. Willard Marriott"},
	{"Either you run the day or the day runs you.", "Jim Rohn"},
	{"An hour of planning saves 10 hours in execution.", "Benjamin Franklin"},
	{"You don't have to be great to start, but you have to start to be great.", "Zig Ziglar"},
	{"Focus on progress, not perfection.", "Unknown"},
}

// All returns a copy of the built-in quotes.
func All() []Quote {
	return append([]Quote(nil), all...)
}

// Random picks a built-in quote using r.
func Random(r *rand.Rand) Quote {
	return all[r.IntN(len(all))]
}

// Source produces a quote for the menu header.
type Source interface {
	Quote(ctx context.Context) Quote
}

// Static draws from the built-in list.
type Static struct {
	Rand *rand.Rand
}

// Quote implements Source.
func (s Static) Quote(context.Context) Quote {
	r := s.Rand
	if r == nil {
		r = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return Random(r)
}

// Nudger generates a personalised line from statistics. *llm.Client
// satisfies it.
type Nudger interface {
	Nudge(ctx context.Context, s stats.Summary) (string, error)
}

// LLMAuthor is the attribution shown for generated lines.
const LLMAuthor = "pomo"

// LLMSource asks a Nudger for a line and falls back when it fails.
type LLMSource struct {
	Client   Nudger
	Summary  stats.Summary
	Fallback Source
	Logger   *slog.Logger
}

// Quote implements Source.
func (s LLMSource) Quote(ctx context.Context) Quote {
	msg, err := s.Client.Nudge(ctx, s.Summary)
	if err == nil {
		return Quote{Text: msg, Author: LLMAuthor}
	}
	if s.Logger != nil {
		s.Logger.Warn("llm nudge failed, using built-in quote", "error", err)
	}
	fb := s.Fallback
	if fb == nil {
		fb = Static{}
	}
	return fb.Quote(ctx)
}
