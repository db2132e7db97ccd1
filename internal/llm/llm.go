package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/joescharf/pomo/internal/stats"
)

// Client wraps the Anthropic API for short motivational nudges.
type Client struct {
	api   *anthropic.Client
	model anthropic.Model
}

// NewClient creates an LLM client with the given API key and model.
func NewClient(apiKey, model string) *Client {
	opts := []option.RequestOption{}
	if apiKey != "" {
		opts = append(opts, option.WithAPIKey(apiKey))
	}
	client := anthropic.NewClient(opts...)
	return &Client{
		api:   &client,
		model: anthropic.Model(model),
	}
}

type nudgeResponse struct {
	Message string `json:"message"`
}

// buildNudgePrompt constructs the system and user prompts for a nudge.
func buildNudgePrompt(s stats.Summary) (system string, user string) {
	system = `You are the voice of a Pomodoro focus timer. Given the user's focus statistics, write ONE short sentence of encouragement (at most 20 words) for the session they are about to start. Return ONLY a JSON object: {"message": "..."}

Rules:
- Refer to at most one concrete number from the statistics
- If the daily goal is met, congratulate and suggest keeping a sustainable pace
- If the current streak is zero, encourage starting a new one without guilt
- No emoji, no hashtags, no markdown fencing or explanation`

	var sb strings.Builder
	fmt.Fprintf(&sb, "Completed focus sessions today: %d of a goal of %d\n", s.TodayCompleted, s.DailyGoal)
	fmt.Fprintf(&sb, "Focus minutes today: %d\n", s.TodayFocusSeconds/60)
	fmt.Fprintf(&sb, "Current streak: %d days (best %d)\n", s.Streaks.Current, s.Streaks.Best)
	fmt.Fprintf(&sb, "Focus sessions this week: %d\n", s.WeekSessions)
	if s.FocusSessions > 0 {
		fmt.Fprintf(&sb, "Completion rate: %.0f%%\n", s.CompletionRate*100)
	} else {
		sb.WriteString("This is the user's first session.\n")
	}
	user = sb.String()
	return
}

// Nudge asks the model for one line of encouragement based on s.
func (c *Client) Nudge(ctx context.Context, s stats.Summary) (string, error) {
	systemPrompt, userPrompt := buildNudgePrompt(s)

	msg, err := c.api.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     c.model,
		MaxTokens: 256,
		System: []anthropic.TextBlockParam{
			{Text: systemPrompt},
		},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(userPrompt)),
		},
	})
	if err != nil {
		return "", fmt.Errorf("anthropic API call: %w", err)
	}

	// Extract text from response
	var text string
	for _, block := range msg.Content {
		if block.Type == "text" {
			text = block.Text
			break
		}
	}

	return parseNudge(text)
}

// parseNudge decodes the model's reply, tolerating markdown fencing.
func parseNudge(text string) (string, error) {
	text = stripFence(text)
	if text == "" {
		return "", fmt.Errorf("no text content in API response")
	}

	var resp nudgeResponse
	if err := json.Unmarshal([]byte(text), &resp); err != nil {
		return "", fmt.Errorf("parse LLM response as JSON: %w\nraw response: %s", err, text)
	}
	msg := strings.Join(strings.Fields(resp.Message), " ")
	if msg == "" {
		return "", fmt.Errorf("empty message in LLM response")
	}
	return msg, nil
}

func stripFence(text string) string {
	text = strings.TrimSpace(text)
	if strings.HasPrefix(text, "```") {
		lines := strings.SplitN(text, "\n", 2)
		if len(lines) > 1 {
			text = lines[1]
		}
		if idx := strings.LastIndex(text, "```"); idx >= 0 {
			text = text[:idx]
		}
		text = strings.TrimSpace(text)
	}
	return text
}
