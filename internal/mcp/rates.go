package mcp

import (
	"context"
	"time"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/dshills/subly-core/internal/storage"
)

const dayLayout = "2006-01-02"

// handleRateSnapshotSave handles the rate_snapshot_save tool invocation
func (s *Server) handleRateSnapshotSave(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, ok := request.Params.Arguments.(map[string]interface{})
	if !ok {
		return nil, newMCPError(ErrorCodeInvalidParams, "invalid arguments", nil)
	}

	currencyID, ok := args["currency_id"].(string)
	if !ok || currencyID == "" {
		return nil, newMCPError(ErrorCodeInvalidParams, "currency_id parameter is required", map[string]interface{}{
			"param":  "currency_id",
			"reason": "missing or empty",
		})
	}
	rate, ok := args["rate"].(float64)
	if !ok || rate <= 0 {
		return nil, newMCPError(ErrorCodeInvalidParams, "rate must be a positive number", map[string]interface{}{
			"param": "rate",
			"value": args["rate"],
		})
	}

	day := s.now().UTC()
	if raw := getStringDefault(args, "day", ""); raw != "" {
		parsed, err := time.Parse(dayLayout, raw)
		if err != nil {
			return nil, newMCPError(ErrorCodeInvalidParams, "day must be YYYY-MM-DD", map[string]interface{}{
				"param": "day",
				"value": raw,
			})
		}
		day = parsed
	}

	if err := s.app.Storage.SaveRateSnapshot(ctx, currencyID, rate, day); err != nil {
		return nil, newMCPError(ErrorCodeInternalError, "failed to save rate snapshot", map[string]interface{}{
			"error": err.Error(),
		})
	}

	return mcp.NewToolResultText(formatJSON(map[string]interface{}{
		"saved":       true,
		"currency_id": currencyID,
		"recorded_at": day.Format(dayLayout),
	})), nil
}

// handleRateHistory handles the rate_history tool invocation
func (s *Server) handleRateHistory(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, ok := request.Params.Arguments.(map[string]interface{})
	if !ok {
		return nil, newMCPError(ErrorCodeInvalidParams, "invalid arguments", nil)
	}

	currencyID, ok := args["currency_id"].(string)
	if !ok || currencyID == "" {
		return nil, newMCPError(ErrorCodeInvalidParams, "currency_id parameter is required", map[string]interface{}{
			"param":  "currency_id",
			"reason": "missing or empty",
		})
	}
	sinceDays := getInt64Default(args, "since_days", 30)
	if sinceDays < 0 {
		return nil, newMCPError(ErrorCodeInvalidParams, "since_days must not be negative", map[string]interface{}{
			"param": "since_days",
			"value": sinceDays,
		})
	}

	since := s.now().UTC().AddDate(0, 0, -int(sinceDays))
	points, err := s.app.Storage.RateHistory(ctx, currencyID, since)
	if err != nil {
		return nil, newMCPError(ErrorCodeInternalError, "failed to read rate history", map[string]interface{}{
			"error": err.Error(),
		})
	}
	if points == nil {
		points = []storage.RatePoint{}
	}

	return mcp.NewToolResultText(formatJSON(map[string]interface{}{
		"currency_id": currencyID,
		"since":       since.Format(dayLayout),
		"points":      points,
	})), nil
}

// handleRateHistoryPrune handles the rate_history_prune tool invocation
func (s *Server) handleRateHistoryPrune(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, ok := request.Params.Arguments.(map[string]interface{})
	if !ok {
		return nil, newMCPError(ErrorCodeInvalidParams, "invalid arguments", nil)
	}

	keepDays := getInt64Default(args, "keep_days", -1)
	if keepDays < 0 {
		return nil, newMCPError(ErrorCodeInvalidParams, "keep_days parameter is required and must not be negative", map[string]interface{}{
			"param": "keep_days",
			"value": args["keep_days"],
		})
	}

	cutoff := s.now().UTC().AddDate(0, 0, -int(keepDays))
	deleted, err := s.app.Storage.PruneRateHistory(ctx, cutoff)
	if err != nil {
		return nil, newMCPError(ErrorCodeInternalError, "failed to prune rate history", map[string]interface{}{
			"error": err.Error(),
		})
	}

	return mcp.NewToolResultText(formatJSON(map[string]interface{}{
		"deleted": deleted,
		"before":  cutoff.Format(dayLayout),
	})), nil
}

// handleRateHistoryClear handles the rate_history_clear tool invocation
func (s *Server) handleRateHistoryClear(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if err := s.app.Storage.ClearRateHistory(ctx); err != nil {
		return nil, newMCPError(ErrorCodeInternalError, "failed to clear rate history", map[string]interface{}{
			"error": err.Error(),
		})
	}
	return mcp.NewToolResultText(formatJSON(map[string]interface{}{
		"cleared": true,
	})), nil
}
