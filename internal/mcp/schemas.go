package mcp

import (
	"github.com/mark3labs/mcp-go/mcp"
)

func containerURLTool() mcp.Tool {
	return mcp.Tool{
		Name:        "container_url",
		Description: "Resolve the iCloud document folder; url is null when unavailable",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}
}

func writeFileTool() mcp.Tool {
	return mcp.Tool{
		Name:        "write_file",
		Description: "Create or replace a document in the iCloud folder",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"filename": map[string]interface{}{
					"type":        "string",
					"description": "Document name inside the application folder",
				},
				"contents": map[string]interface{}{
					"type":        "string",
					"description": "UTF-8 text to store",
				},
			},
			Required: []string{"filename", "contents"},
		},
	}
}

func readFileTool() mcp.Tool {
	return mcp.Tool{
		Name:        "read_file",
		Description: "Read a document from the iCloud folder; contents is null when it does not exist",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"filename": map[string]interface{}{
					"type":        "string",
					"description": "Document name inside the application folder",
				},
			},
			Required: []string{"filename"},
		},
	}
}

func lifecycleEventTool() mcp.Tool {
	return mcp.Tool{
		Name:        "lifecycle_event",
		Description: "Deliver a window or tray event; prevent_close tells the host to cancel the close",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"event": map[string]interface{}{
					"type": "string",
					"enum": eventNames,
				},
			},
			Required: []string{"event"},
		},
	}
}

func trayMenuTool() mcp.Tool {
	return mcp.Tool{
		Name:        "tray_menu",
		Description: "Return the tray icon tooltip and menu items",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}
}

func migrationStatusTool() mcp.Tool {
	return mcp.Tool{
		Name:        "migration_status",
		Description: "List schema migrations and whether each is applied",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}
}

func syncUploadTool() mcp.Tool {
	return mcp.Tool{
		Name:        "sync_upload",
		Description: "Write application data to the iCloud sync document",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"data": map[string]interface{}{
					"type":        "object",
					"description": "Application data to publish",
				},
				"updated_at": map[string]interface{}{
					"type":        "integer",
					"description": "Local modification time in Unix milliseconds (default: now)",
					"minimum":     0,
				},
			},
			Required: []string{"data"},
		},
	}
}

func syncDownloadTool() mcp.Tool {
	return mcp.Tool{
		Name:        "sync_download",
		Description: "Read the iCloud sync document; payload is null when nothing was uploaded",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}
}

func syncCheckTool() mcp.Tool {
	return mcp.Tool{
		Name:        "sync_check",
		Description: "Report whether another device uploaded newer data",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"local_updated_at": map[string]interface{}{
					"type":        "integer",
					"description": "Local modification time in Unix milliseconds",
					"default":     0,
				},
			},
		},
	}
}

func menuClickTool() mcp.Tool {
	return mcp.Tool{
		Name:        "menu_click",
		Description: "Deliver a click on a tray menu item using the id returned by tray_menu",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"id": map[string]interface{}{
					"type":        "string",
					"description": "Menu item id",
				},
			},
			Required: []string{"id"},
		},
	}
}

func rateSnapshotSaveTool() mcp.Tool {
	return mcp.Tool{
		Name:        "rate_snapshot_save",
		Description: "Record a currency exchange rate for a day; a second snapshot on the same day replaces the first",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"currency_id": map[string]interface{}{
					"type":        "string",
					"description": "Currency identifier",
				},
				"rate": map[string]interface{}{
					"type":        "number",
					"description": "Rate relative to the main currency",
				},
				"day": map[string]interface{}{
					"type":        "string",
					"description": "Calendar day as YYYY-MM-DD (default: today, UTC)",
				},
			},
			Required: []string{"currency_id", "rate"},
		},
	}
}

func rateHistoryTool() mcp.Tool {
	return mcp.Tool{
		Name:        "rate_history",
		Description: "List recorded rates for a currency, oldest first",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"currency_id": map[string]interface{}{
					"type":        "string",
					"description": "Currency identifier",
				},
				"since_days": map[string]interface{}{
					"type":        "integer",
					"description": "How many days back to include",
					"default":     30,
					"minimum":     0,
				},
			},
			Required: []string{"currency_id"},
		},
	}
}

func rateHistoryPruneTool() mcp.Tool {
	return mcp.Tool{
		Name:        "rate_history_prune",
		Description: "Delete rates recorded before the retention window",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"keep_days": map[string]interface{}{
					"type":        "integer",
					"description": "Number of most recent days to keep",
					"minimum":     0,
				},
			},
			Required: []string{"keep_days"},
		},
	}
}

func rateHistoryClearTool() mcp.Tool {
	return mcp.Tool{
		Name:        "rate_history_clear",
		Description: "Delete every recorded rate",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}
}
