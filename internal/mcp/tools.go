package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/dshills/subly-core/internal/docstore"
	"github.com/dshills/subly-core/internal/lifecycle"
	"github.com/dshills/subly-core/pkg/types"
)

// MCP error codes
const (
	ErrorCodeInvalidParams = -32602 // Invalid method parameters
	ErrorCodeInternalError = -32603 // Internal JSON-RPC error
	ErrorCodeUnknownEvent  = -32001 // Lifecycle event name not recognised
	ErrorCodeUnknownItem   = -32002 // Tray menu item id not recognised
)

var eventNames = []string{
	string(lifecycle.EventCloseRequested),
	string(lifecycle.EventMenuShow),
	string(lifecycle.EventMenuQuit),
	string(lifecycle.EventTrayClick),
	string(lifecycle.EventTrayDoubleClick),
}

// handleContainerURL handles the container_url tool invocation
func (s *Server) handleContainerURL(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	response := map[string]interface{}{"url": nil}
	if dir, ok := s.app.Documents.ResolveContainer(); ok {
		response["url"] = dir
	}
	return mcp.NewToolResultText(formatJSON(response)), nil
}

// handleWriteFile handles the write_file tool invocation
func (s *Server) handleWriteFile(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, ok := request.Params.Arguments.(map[string]interface{})
	if !ok {
		return nil, newMCPError(ErrorCodeInvalidParams, "invalid arguments", nil)
	}

	filename, err := requireString(args, "filename")
	if err != nil {
		return nil, err
	}
	contents, err := requireString(args, "contents")
	if err != nil {
		return nil, err
	}

	if err := s.app.Documents.Write(filename, contents); err != nil {
		return commandError("write_file", err), nil
	}

	return mcp.NewToolResultText(formatJSON(map[string]interface{}{
		"written":  true,
		"filename": filename,
	})), nil
}

// handleReadFile handles the read_file tool invocation
func (s *Server) handleReadFile(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, ok := request.Params.Arguments.(map[string]interface{})
	if !ok {
		return nil, newMCPError(ErrorCodeInvalidParams, "invalid arguments", nil)
	}

	filename, err := requireString(args, "filename")
	if err != nil {
		return nil, err
	}

	contents, found, err := s.app.Documents.Read(filename)
	if err != nil {
		return commandError("read_file", err), nil
	}

	response := map[string]interface{}{
		"filename": filename,
		"contents": nil,
	}
	if found {
		response["contents"] = contents
	}
	return mcp.NewToolResultText(formatJSON(response)), nil
}

// handleLifecycleEvent handles the lifecycle_event tool invocation
func (s *Server) handleLifecycleEvent(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, ok := request.Params.Arguments.(map[string]interface{})
	if !ok {
		return nil, newMCPError(ErrorCodeInvalidParams, "invalid arguments", nil)
	}

	name, err := requireString(args, "event")
	if err != nil {
		return nil, err
	}
	event, err := lifecycle.ParseEvent(name)
	if err != nil {
		return nil, newMCPError(ErrorCodeUnknownEvent, "unknown event", map[string]interface{}{
			"param":   "event",
			"value":   name,
			"allowed": eventNames,
		})
	}

	out := s.lifecycle.Handle(event)
	return mcp.NewToolResultText(formatJSON(map[string]interface{}{
		"prevent_close": out.PreventClose,
		"state":         out.State.String(),
	})), nil
}

// handleMenuClick handles the menu_click tool invocation
func (s *Server) handleMenuClick(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, ok := request.Params.Arguments.(map[string]interface{})
	if !ok {
		return nil, newMCPError(ErrorCodeInvalidParams, "invalid arguments", nil)
	}

	id, err := requireString(args, "id")
	if err != nil {
		return nil, err
	}
	event, ok := lifecycle.EventForMenuItem(id)
	if !ok {
		return nil, newMCPError(ErrorCodeUnknownItem, "unknown menu item", map[string]interface{}{
			"param": "id",
			"value": id,
		})
	}

	out := s.lifecycle.Handle(event)
	return mcp.NewToolResultText(formatJSON(map[string]interface{}{
		"event":         string(event),
		"prevent_close": out.PreventClose,
		"state":         out.State.String(),
	})), nil
}

// handleTrayMenu handles the tray_menu tool invocation
func (s *Server) handleTrayMenu(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	menu := s.lifecycle.Menu()
	items := menu.Items
	if items == nil {
		items = []lifecycle.MenuItem{}
	}
	return mcp.NewToolResultText(formatJSON(map[string]interface{}{
		"tooltip":          menu.Tooltip,
		"items":            items,
		"intercepts_close": s.lifecycle.InterceptsClose(),
	})), nil
}

// handleMigrationStatus handles the migration_status tool invocation
func (s *Server) handleMigrationStatus(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	status, err := s.app.Storage.MigrationStatus(ctx)
	if err != nil {
		return nil, newMCPError(ErrorCodeInternalError, "failed to read migration status", map[string]interface{}{
			"error": err.Error(),
		})
	}

	migrations := make([]map[string]interface{}, 0, len(status))
	for _, m := range status {
		entry := map[string]interface{}{
			"version":     m.Version,
			"description": m.Description,
			"applied":     m.Applied,
		}
		if m.Applied {
			entry["applied_at"] = m.AppliedAt.Format("2006-01-02T15:04:05Z07:00")
		}
		migrations = append(migrations, entry)
	}

	return mcp.NewToolResultText(formatJSON(map[string]interface{}{
		"migrations": migrations,
	})), nil
}

// handleSyncUpload handles the sync_upload tool invocation
func (s *Server) handleSyncUpload(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, ok := request.Params.Arguments.(map[string]interface{})
	if !ok {
		return nil, newMCPError(ErrorCodeInvalidParams, "invalid arguments", nil)
	}

	data, ok := args["data"]
	if !ok || data == nil {
		return nil, newMCPError(ErrorCodeInvalidParams, "data parameter is required", map[string]interface{}{
			"param":  "data",
			"reason": "missing or null",
		})
	}
	raw, err := json.Marshal(data)
	if err != nil {
		return nil, newMCPError(ErrorCodeInvalidParams, "data is not encodable", map[string]interface{}{
			"param":  "data",
			"reason": err.Error(),
		})
	}

	updatedAt := getInt64Default(args, "updated_at", 0)
	if updatedAt < 0 {
		return nil, newMCPError(ErrorCodeInvalidParams, "updated_at must not be negative", map[string]interface{}{
			"param": "updated_at",
			"value": updatedAt,
		})
	}

	meta, err := s.app.Sync.Upload(ctx, raw, updatedAt)
	if err != nil {
		return commandError("sync_upload", err), nil
	}
	return mcp.NewToolResultText(formatJSON(map[string]interface{}{
		"meta": meta,
	})), nil
}

// handleSyncDownload handles the sync_download tool invocation
func (s *Server) handleSyncDownload(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	payload, err := s.app.Sync.Download(ctx)
	if err != nil {
		return commandError("sync_download", err), nil
	}

	response := map[string]interface{}{"payload": nil}
	if payload != nil {
		response["payload"] = payload
	}
	return mcp.NewToolResultText(formatJSON(response)), nil
}

// handleSyncCheck handles the sync_check tool invocation
func (s *Server) handleSyncCheck(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, _ := request.Params.Arguments.(map[string]interface{})
	local := getInt64Default(args, "local_updated_at", 0)

	status, err := s.app.Sync.CheckRemote(ctx, local)
	if err != nil {
		return commandError("sync_check", err), nil
	}
	return mcp.NewToolResultText(formatJSON(map[string]interface{}{
		"available":         status.Available,
		"remote_updated_at": status.RemoteUpdatedAt,
		"pending_update":    status.PendingUpdate,
	})), nil
}

// Helper functions

// commandError reports a failed command to the host as a tool error
func commandError(command string, err error) *mcp.CallToolResult {
	msg := err.Error()
	switch {
	case errors.Is(err, docstore.ErrUnavailable):
		msg = docstore.ErrUnavailable.Error()
	case errors.Is(err, types.ErrInvalidPayload):
		msg = "stored sync document is invalid: " + err.Error()
	}
	return mcp.NewToolResultError(fmt.Sprintf("%s: %s", command, msg))
}

// newMCPError creates a properly formatted MCP error
func newMCPError(code int, message string, data interface{}) error {
	return &MCPError{
		Code:    code,
		Message: message,
		Data:    data,
	}
}

// MCPError represents an MCP protocol error
type MCPError struct {
	Code    int
	Message string
	Data    interface{}
}

func (e *MCPError) Error() string {
	return fmt.Sprintf("MCP error %d: %s", e.Code, e.Message)
}

// requireString extracts a string parameter that must be present; empty
// strings are passed through
func requireString(args map[string]interface{}, key string) (string, error) {
	val, ok := args[key].(string)
	if !ok {
		return "", newMCPError(ErrorCodeInvalidParams, key+" parameter is required", map[string]interface{}{
			"param":  key,
			"reason": "missing or not a string",
		})
	}
	return val, nil
}

// formatJSON formats a map as indented JSON
func formatJSON(data map[string]interface{}) string {
	bytes, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return fmt.Sprintf("%v", data)
	}
	return string(bytes)
}

// getStringDefault extracts a string parameter with a default value
func getStringDefault(args map[string]interface{}, key string, defaultValue string) string {
	if val, ok := args[key].(string); ok {
		return val
	}
	return defaultValue
}

// getInt64Default extracts an integer parameter with a default value
func getInt64Default(args map[string]interface{}, key string, defaultValue int64) int64 {
	switch val := args[key].(type) {
	case float64:
		return int64(val)
	case int:
		return int64(val)
	case int64:
		return val
	}
	return defaultValue
}
