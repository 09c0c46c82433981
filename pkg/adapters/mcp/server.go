package mcp

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	hposconfig "github.com/aretw0/hpos-config"
	"github.com/aretw0/hpos-config/pkg/domain"
	"github.com/aretw0/hpos-config/pkg/schema"
)

// Checker defines the validation service exposed as MCP tools.
type Checker interface {
	Check(ctx context.Context, doc []byte) (*domain.Report, error)
	Report(ctx context.Context, id string) (*domain.Report, error)
}

// ValidateArgs are the arguments of the validate_config tool.
type ValidateArgs struct {
	Document string `json:"document" jsonschema_description:"The hpos-config.json document as a JSON string"`
}

// ReportArgs are the arguments of the get_report tool.
type ReportArgs struct {
	ID string `json:"id" jsonschema_description:"Report ID returned by validate_config"`
}

// Server exposes the config checker as an MCP Server.
type Server struct {
	checker   Checker
	logger    *slog.Logger
	mcpServer *server.MCPServer
}

// NewServer creates a new MCP Server instance.
func NewServer(checker Checker, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Server{
		checker:   checker,
		logger:    logger,
		mcpServer: server.NewMCPServer("hpos-config-mcp", strings.TrimSpace(hposconfig.Version)),
	}
	s.registerTools()
	return s
}

// ServeStdio starts the server on Stdin/Stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

// ServeSSE starts the server on the given port using SSE and stops it when ctx is done.
func (s *Server) ServeSSE(ctx context.Context, port int) error {
	addr := fmt.Sprintf(":%d", port)
	baseURL := fmt.Sprintf("http://localhost:%d", port)

	sseServer := server.NewSSEServer(s.mcpServer, server.WithBaseURL(baseURL))

	mux := http.NewServeMux()
	mux.Handle("/sse", sseServer.SSEHandler())
	mux.Handle("/message", sseServer.MessageHandler())

	httpServer := &http.Server{
		Addr:    addr,
		Handler: mux,
	}

	serverErrors := make(chan error, 1)
	go func() {
		s.logger.Info("MCP Server listening (SSE)", "address", addr)
		serverErrors <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		s.logger.Info("Shutdown signal received, shutting down MCP server")
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("could not stop server gracefully: %w", err)
		}
		return nil
	}
}

func (s *Server) registerTools() {
	validateTool := mcp.NewTool("validate_config",
		mcp.WithDescription("Validate an hpos-config.json document. Returns a report; valid=false carries the failure kind, path and message."),
		mcp.WithString("document", mcp.Required(), mcp.Description("The config document as a JSON string")),
		mcp.WithOutputSchema[domain.Report](),
	)
	s.mcpServer.AddTool(validateTool, mcp.NewStructuredToolHandler(s.handleValidate))

	reportTool := mcp.NewTool("get_report",
		mcp.WithDescription("Fetch a report produced by an earlier validate_config call."),
		mcp.WithString("id", mcp.Required(), mcp.Description("Report ID")),
		mcp.WithOutputSchema[domain.Report](),
	)
	s.mcpServer.AddTool(reportTool, mcp.NewStructuredToolHandler(s.handleGetReport))

	s.mcpServer.AddTool(mcp.NewTool("get_schema",
		mcp.WithDescription("Get the expected shape of an hpos-config.json document, as a YAML schema document."),
	), func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		out, err := schema.MarshalYAML(hposconfig.Schema)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("render schema failed: %v", err)), nil
		}
		return mcp.NewToolResultText(string(out)), nil
	})
}

func (s *Server) handleValidate(ctx context.Context, request mcp.CallToolRequest, args ValidateArgs) (domain.Report, error) {
	if args.Document == "" {
		return domain.Report{}, errors.New("document is required")
	}

	report, err := s.checker.Check(ctx, []byte(args.Document))
	if err != nil {
		s.logger.Error("validate_config failed", "error", err)
		return domain.Report{}, err
	}
	return *report, nil
}

func (s *Server) handleGetReport(ctx context.Context, request mcp.CallToolRequest, args ReportArgs) (domain.Report, error) {
	report, err := s.checker.Report(ctx, args.ID)
	if err != nil {
		return domain.Report{}, err
	}
	return *report, nil
}
