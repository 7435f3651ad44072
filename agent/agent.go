// Package agent implements the interactive AI analyst. It runs a chat
// session against the Gemini API, seeded with the portfolio's rendered
// reports so the model answers from actual numbers instead of guessing.
package agent

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"google.golang.org/genai"
)

const defaultModel = "gemini-2.0-flash"

// Analyst is one chat session with the model.
type Analyst struct {
	Model string
	// Briefing is the portfolio context handed to the model at start,
	// typically rendered markdown reports.
	Briefing []string

	chat *genai.Chat
}

// NewAnalyst creates an analyst briefed with the given documents.
func NewAnalyst(briefing ...string) *Analyst {
	return &Analyst{Model: defaultModel, Briefing: briefing}
}

// Start opens the chat session and sends the briefing.
func (a *Analyst) Start(ctx context.Context, client *genai.Client) error {
	config := &genai.GenerateContentConfig{
		SystemInstruction: &genai.Content{Parts: []*genai.Part{{Text: systemInstruction}}},
	}
	chat, err := client.Chats.Create(ctx, a.Model, config, nil)
	if err != nil {
		return fmt.Errorf("create chat: %w", err)
	}
	a.chat = chat

	if len(a.Briefing) == 0 {
		return nil
	}
	briefing := "Here are the current portfolio reports:\n\n" + strings.Join(a.Briefing, "\n\n---\n\n")
	if _, err := chat.Send(ctx, &genai.Part{Text: briefing}); err != nil {
		return fmt.Errorf("send briefing: %w", err)
	}
	return nil
}

// Ask sends one question and returns the model's text answer.
func (a *Analyst) Ask(ctx context.Context, question string) (string, error) {
	resp, err := a.chat.Send(ctx, &genai.Part{Text: question})
	if err != nil {
		return "", err
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("empty response from %s", a.Model)
	}
	return resp.Candidates[0].Content.Parts[0].Text, nil
}

const systemInstruction = `You are a personal portfolio analyst.
Answer only from the reports provided in this conversation. When a question
cannot be answered from them, say so instead of estimating. Keep answers
short and quote the figures you used.`

const prompt = "tracker> "

// Run drives an interactive question loop until "bye" or EOF. Any prompts
// given up front are asked first, then input is read from r.
func Run(ctx context.Context, client *genai.Client, a *Analyst, w io.Writer, r io.Reader, prompts ...string) error {
	if err := a.Start(ctx, client); err != nil {
		return err
	}
	fmt.Fprintln(w, "Ask about your portfolio. Type 'bye' to exit.")

	in := bufio.NewReader(r)
	for {
		fmt.Fprint(w, prompt)

		var input string
		if len(prompts) > 0 {
			input, prompts = prompts[0], prompts[1:]
			fmt.Fprintln(w, input)
		} else {
			line, err := in.ReadString('\n')
			if err == io.EOF {
				return nil
			}
			if err != nil {
				return err
			}
			input = line
		}

		input = strings.TrimSpace(input)
		if input == "" {
			continue
		}
		if input == "bye" {
			return nil
		}

		answer, err := a.Ask(ctx, input)
		if err != nil {
			return err
		}
		fmt.Fprintln(w, answer)
	}
}
