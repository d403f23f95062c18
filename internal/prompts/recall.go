// Package prompts holds the MCP prompts clipvault offers to clients.
package prompts

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
)

// RecallPrompt handles the clip-recall MCP prompt.
// It asks the assistant to find something the user copied earlier.
type RecallPrompt struct{}

// NewRecallPrompt creates a RecallPrompt.
func NewRecallPrompt() *RecallPrompt {
	return &RecallPrompt{}
}

// Definition returns the MCP prompt definition for registration.
func (p *RecallPrompt) Definition() mcp.Prompt {
	return mcp.NewPrompt("clip-recall",
		mcp.WithPromptDescription(
			"Find something you copied earlier and put it back on the clipboard.",
		),
		mcp.WithArgument("hint",
			mcp.ArgumentDescription("What you remember about the text: a word, a fragment, a topic"),
		),
		mcp.WithArgument("source",
			mcp.ArgumentDescription("Application it was copied from, if you remember"),
		),
	)
}

// Handle processes the clip-recall prompt request.
func (p *RecallPrompt) Handle(ctx context.Context, req mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
	hint := strings.TrimSpace(req.Params.Arguments["hint"])
	source := strings.TrimSpace(req.Params.Arguments["source"])

	var b strings.Builder
	if hint != "" {
		fmt.Fprintf(&b, "I copied something earlier related to: %q.\n", hint)
	} else {
		b.WriteString("I want to get back something I copied earlier.\n")
	}
	if source != "" {
		fmt.Fprintf(&b, "I think it came from %s.\n", source)
	}
	b.WriteString("\nPlease:\n")
	if source != "" {
		b.WriteString("1. Run `clip_sources` and pick the closest matching application name\n")
	} else {
		b.WriteString("1. Run `clip_sources` if knowing the application would help narrow things down\n")
	}
	b.WriteString(
		"2. Run `clip_search` with short keywords (detail_level: summary first, then standard)\n" +
			"3. Show me the best candidates with where and when they were copied\n" +
			"4. When I confirm one, run `clip_select` with its identity so I can paste it",
	)

	return &mcp.GetPromptResult{
		Description: "Recall a clipboard entry",
		Messages: []mcp.PromptMessage{
			{
				Role:    mcp.RoleUser,
				Content: mcp.NewTextContent(b.String()),
			},
		},
	}, nil
}
