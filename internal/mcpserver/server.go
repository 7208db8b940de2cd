// Package mcpserver exposes OCR, pipeline and bibliography operations as
// Model Context Protocol tools over stdio. Tool failures come back as error
// results; nothing a tool does can take the process down.
package mcpserver

import (
	"log/slog"

	"github.com/mark3labs/mcp-go/server"

	"github.com/dkristoff/bibliocr/internal/config"
	"github.com/dkristoff/bibliocr/internal/llm"
	"github.com/dkristoff/bibliocr/internal/ocr"
	"github.com/dkristoff/bibliocr/internal/pipeline"
	"github.com/dkristoff/bibliocr/internal/store"
)

// Version is reported to MCP clients during initialization.
const Version = "0.3.0"

// Server wires tool handlers to their collaborators.
type Server struct {
	mcp    *server.MCPServer
	cfg    config.Config
	engine ocr.Engine
	llm    llm.Transcriber
	store  *store.Store
	runner *pipeline.Runner
	log    *slog.Logger
}

// NewServer builds the MCP server and registers all tools.
func NewServer(cfg config.Config, engine ocr.Engine, transcriber llm.Transcriber, st *store.Store, log *slog.Logger) *Server {
	s := &Server{
		mcp: server.NewMCPServer(
			"bibliocr",
			Version,
			server.WithToolCapabilities(true),
			server.WithRecovery(),
		),
		cfg:    cfg,
		engine: engine,
		llm:    transcriber,
		store:  st,
		runner: pipeline.NewRunner(engine, transcriber, log),
		log:    log,
	}

	s.registerOCRTools()
	s.registerPipelineTools()
	s.registerDatabaseTools()
	return s
}

// Run serves MCP over stdio until the client disconnects.
func (s *Server) Run() error {
	s.log.Info("mcp server listening on stdio")
	return server.ServeStdio(s.mcp)
}
