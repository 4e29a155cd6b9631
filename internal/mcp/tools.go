package mcp

import (
	"github.com/mark3labs/mcp-go/mcp"
)

// Tool definitions. Argument schemas mirror the JSON API request shapes so a
// client can move between the two surfaces without relearning field names.

var restoreToolDef = mcp.NewTool("yo_restore",
	mcp.WithDescription("Restore the letter ё in Russian text. Replaces every word that has exactly one valid spelling; ambiguous words are left untouched and can be inspected with yo_candidates."),
	mcp.WithString("text",
		mcp.Required(),
		mcp.Description("Text to restore."),
	),
	mcp.WithBoolean("markdown",
		mcp.Description("Treat the text as CommonMark: code spans, code blocks and raw HTML are left untouched."),
	),
)

var candidatesToolDef = mcp.NewTool("yo_candidates",
	mcp.WithDescription("List the dictionary words occurring in a text without changing it. Returns certain words (one valid spelling) and uncertain ones (both spellings exist) separately."),
	mcp.WithString("text",
		mcp.Required(),
		mcp.Description("Text to inspect."),
	),
)

var dictionariesToolDef = mcp.NewTool("yo_dictionaries",
	mcp.WithDescription("Report the loaded dictionary tables: entry counts, skipped entries and file sizes."),
)

var historyToolDef = mcp.NewTool("yo_history",
	mcp.WithDescription("List journaled restoration runs, newest first."),
	mcp.WithString("mode",
		mcp.Description("Filter by run mode."),
		mcp.Enum("apply", "review"),
	),
	mcp.WithNumber("limit",
		mcp.Description("Page size (default 20, max 100)."),
	),
	mcp.WithNumber("offset",
		mcp.Description("Number of runs to skip."),
	),
)
