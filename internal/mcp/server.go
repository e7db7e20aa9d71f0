package mcp

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"sync"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/dshills/subly-core/internal/app"
	"github.com/dshills/subly-core/internal/docstore"
	"github.com/dshills/subly-core/internal/lifecycle"
)

const (
	// ServerName is the command bridge name reported to the host
	ServerName = "subly-core"
	// shutdownGrace lets the response to a quit request reach the host
	shutdownGrace = 100 * time.Millisecond
)

// Server exposes the application's commands to the host process over stdio
type Server struct {
	mcp       *server.MCPServer
	app       *app.App
	host      *Host
	lifecycle lifecycle.Controller
	logger    *slog.Logger
	now       func() time.Time

	quitOnce sync.Once
	quit     chan int
}

// NewServer creates the command bridge for a bootstrapped application
func NewServer(a *app.App, logger *slog.Logger) *Server {
	return newServer(a, logger, nil)
}

func newServer(a *app.App, logger *slog.Logger, send SendFunc) *Server {
	if logger == nil {
		logger = slog.Default()
	}

	s := &Server{
		app:    a,
		logger: logger.With("component", "bridge"),
		now:    time.Now,
		quit:   make(chan int, 1),
	}

	hooks := &server.Hooks{}
	hooks.AddAfterInitialize(func(ctx context.Context, id any, message *mcp.InitializeRequest, result *mcp.InitializeResult) {
		s.logger.Debug("host connected", "client", message.Params.ClientInfo.Name)
		s.host.MarkReady()
	})

	s.mcp = server.NewMCPServer(
		ServerName,
		a.Version,
		server.WithToolCapabilities(false),
		server.WithHooks(hooks),
	)

	if send == nil {
		send = s.mcp.SendNotificationToAllClients
	}
	s.host = NewHost(send)
	s.lifecycle = lifecycle.New(a.Platform, s.host, lifecycle.ExitFunc(s.requestExit), logger)

	s.registerTools()
	return s
}

// Host returns the notification surface, usable as the first-launch notifier
func (s *Server) Host() *Host {
	return s.host
}

// requestExit ends Serve after the in-flight response has been written
func (s *Server) requestExit(code int) {
	s.quitOnce.Do(func() {
		s.logger.Info("quit requested", "code", code)
		s.quit <- code
	})
}

// Serve runs the bridge on stdio until ctx is cancelled, stdin closes, or the
// user quits from the tray.
func (s *Server) Serve(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	go s.forwardDocumentEvents(ctx)
	go func() {
		select {
		case <-s.quit:
			time.AfterFunc(shutdownGrace, cancel)
		case <-ctx.Done():
		}
	}()

	stdio := server.NewStdioServer(s.mcp)
	err := stdio.Listen(ctx, os.Stdin, os.Stdout)
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

// forwardDocumentEvents relays container changes to the host. Nothing is
// watched when the container is unavailable at startup.
func (s *Server) forwardDocumentEvents(ctx context.Context) {
	events, err := s.app.Documents.NewWatcher().Watch(ctx)
	if err != nil {
		if !errors.Is(err, docstore.ErrUnavailable) {
			s.logger.Warn("container watch failed", "error", err)
		}
		return
	}
	for ev := range events {
		s.host.DocumentsChanged(ev)
	}
}

func (s *Server) registerTools() {
	s.mcp.AddTool(containerURLTool(), s.handleContainerURL)
	s.mcp.AddTool(writeFileTool(), s.handleWriteFile)
	s.mcp.AddTool(readFileTool(), s.handleReadFile)
	s.mcp.AddTool(lifecycleEventTool(), s.handleLifecycleEvent)
	s.mcp.AddTool(menuClickTool(), s.handleMenuClick)
	s.mcp.AddTool(trayMenuTool(), s.handleTrayMenu)
	s.mcp.AddTool(migrationStatusTool(), s.handleMigrationStatus)
	s.mcp.AddTool(syncUploadTool(), s.handleSyncUpload)
	s.mcp.AddTool(syncDownloadTool(), s.handleSyncDownload)
	s.mcp.AddTool(syncCheckTool(), s.handleSyncCheck)
	s.mcp.AddTool(rateSnapshotSaveTool(), s.handleRateSnapshotSave)
	s.mcp.AddTool(rateHistoryTool(), s.handleRateHistory)
	s.mcp.AddTool(rateHistoryPruneTool(), s.handleRateHistoryPrune)
	s.mcp.AddTool(rateHistoryClearTool(), s.handleRateHistoryClear)
}
