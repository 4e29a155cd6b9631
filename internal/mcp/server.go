package mcp

import (
	"database/sql"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/akorchak/yodot/internal/config"
	"github.com/akorchak/yodot/internal/yobase"
)

// toolEntry pairs a tool definition with a handler factory.
type toolEntry struct {
	def     mcp.Tool
	handler func(*Handlers) server.ToolHandlerFunc
}

// toolRegistry maps tool names to their definitions and handler factories.
var toolRegistry = map[string]toolEntry{
	"yo_restore": {
		def:     restoreToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleRestore },
	},
	"yo_candidates": {
		def:     candidatesToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleCandidates },
	},
	"yo_dictionaries": {
		def:     dictionariesToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleDictionaries },
	},
	"yo_history": {
		def:     historyToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleHistory },
	},
}

// AllToolNames returns a list of all valid tool names.
func AllToolNames() []string {
	names := make([]string, 0, len(toolRegistry))
	for name := range toolRegistry {
		names = append(names, name)
	}
	return names
}

// ValidateDisabledTools returns a list of unknown tool names from the given list.
func ValidateDisabledTools(names []string) []string {
	unknown := make([]string, 0)
	for _, name := range names {
		if _, ok := toolRegistry[name]; !ok {
			unknown = append(unknown, name)
		}
	}
	return unknown
}

// NewServer creates a new MCP server with yodot tools registered.
// Tools listed in cfg.DisabledTools are excluded from registration.
func NewServer(db *sql.DB, tables *yobase.Tables, cfg *config.Config, version string) *server.MCPServer {
	s := server.NewMCPServer(
		"yodot",
		version,
		server.WithToolCapabilities(true),
	)

	h := NewHandlers(db, tables, cfg)

	disabled := make(map[string]bool, len(cfg.DisabledTools))
	for _, name := range cfg.DisabledTools {
		disabled[name] = true
	}

	for name, entry := range toolRegistry {
		if disabled[name] {
			continue
		}
		s.AddTool(entry.def, entry.handler(h))
	}

	return s
}

// Run starts the MCP server using stdio transport.
func Run(db *sql.DB, tables *yobase.Tables, cfg *config.Config, version string) error {
	s := NewServer(db, tables, cfg, version)
	return server.ServeStdio(s)
}
