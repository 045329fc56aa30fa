package tools

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/massivelabs/mcp-massive/internal/massive"
)

// Deps carries everything the tool handlers need.
type Deps struct {
	Client *massive.Client
	Logger *slog.Logger

	// Ladder defaults applied when a call supplies no strike filters.
	LadderStep float64
	MinStrike  float64
	MaxStrike  float64

	// StrictCalendar rejects non-calendar expiration dates before encoding.
	StrictCalendar bool
}

// Register adds all tools to the MCP server.
func Register(s *server.MCPServer, d Deps) {
	if d.Logger == nil {
		d.Logger = slog.Default()
	}

	strikeParams := []mcp.ToolOption{
		mcp.WithNumber("strike",
			mcp.Description("Exact strike price. When set, strike_gte/strike_lte/step are ignored.")),
		mcp.WithNumber("strike_gte",
			mcp.Description("Lower strike bound for the generated ladder.")),
		mcp.WithNumber("strike_lte",
			mcp.Description("Upper strike bound for the generated ladder.")),
		mcp.WithNumber("step",
			mcp.Description("Ladder increment between strikes (default 0.5).")),
	}

	buildOpts := append([]mcp.ToolOption{
		mcp.WithDescription("Build OCC option tickers for an underlying, expiration and contract type, across an exact strike or a strike ladder."),
		mcp.WithString("underlying", mcp.Required(),
			mcp.Description("Underlying ticker symbol, e.g. RZLV.")),
		mcp.WithString("expiration_date", mcp.Required(),
			mcp.Description("Expiration date in YYYY-MM-DD format.")),
		mcp.WithString("contract_type", mcp.Required(),
			mcp.Description("\"call\" or \"put\".")),
	}, strikeParams...)
	s.AddTool(mcp.NewTool("build_option_tickers", buildOpts...),
		d.logged("build_option_tickers", d.handleBuildTickers))

	s.AddTool(mcp.NewTool("parse_option_ticker",
		mcp.WithDescription("Decode an OCC option ticker into underlying, expiration, contract type and strike."),
		mcp.WithString("ticker", mcp.Required(),
			mcp.Description("OCC ticker, e.g. O:RZLV251107C00009500.")),
	), d.logged("parse_option_ticker", d.handleParseTicker))

	chainOpts := append([]mcp.ToolOption{
		mcp.WithDescription("Fetch current Massive snapshots for an option chain selected by underlying, expiration, contract type and strike filters."),
		mcp.WithString("underlying", mcp.Required(),
			mcp.Description("Underlying ticker symbol.")),
		mcp.WithString("expiration_date", mcp.Required(),
			mcp.Description("Expiration date in YYYY-MM-DD format.")),
		mcp.WithString("contract_type", mcp.Required(),
			mcp.Description("\"call\" or \"put\".")),
		mcp.WithString("format",
			mcp.Description("Response format: \"csv\" (default) or \"json\".")),
	}, strikeParams...)
	s.AddTool(mcp.NewTool("get_option_chain", chainOpts...),
		d.logged("get_option_chain", d.handleOptionChain))

	s.AddTool(mcp.NewTool("query_massive",
		mcp.WithDescription("Perform a GET request against an arbitrary Massive API path and return the response."),
		mcp.WithString("path", mcp.Required(),
			mcp.Description("API path, e.g. /v2/aggs/ticker/RZLV/prev.")),
		mcp.WithObject("params",
			mcp.Description("Optional query parameters as a string-to-string object.")),
		mcp.WithString("format",
			mcp.Description("Response format: \"json\" (default) or \"csv\".")),
	), d.logged("query_massive", d.handleQuery))
}

// logged wraps a handler with per-call logging. Handler errors surface to
// the client as tool errors; only transport-level failures return a Go
// error to mcp-go.
func (d Deps) logged(name string, h server.ToolHandlerFunc) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		callID := uuid.NewString()[:8]
		start := time.Now()
		d.Logger.Debug("tool call", "tool", name, "call_id", callID)

		res, err := h(ctx, req)

		attrs := []any{"tool", name, "call_id", callID, "duration", time.Since(start)}
		switch {
		case err != nil:
			d.Logger.Error("tool call failed", append(attrs, "error", err)...)
		case res != nil && res.IsError:
			d.Logger.Info("tool call returned error result", attrs...)
		default:
			d.Logger.Debug("tool call done", attrs...)
		}
		return res, err
	}
}
