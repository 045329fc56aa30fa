package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/massivelabs/mcp-massive/internal/formatter"
	"github.com/massivelabs/mcp-massive/internal/occ"
)

// chainInputs are the shared arguments of build_option_tickers and
// get_option_chain.
type chainInputs struct {
	underlying   string
	expiration   string
	contractType string
	strikes      []float64
	tickers      []string
}

// resolveChain validates the shared arguments and produces the ladder and
// ticker batch.
func (d Deps) resolveChain(req mcp.CallToolRequest) (*chainInputs, error) {
	underlying, err := req.RequireString("underlying")
	if err != nil {
		return nil, err
	}
	expiration, err := req.RequireString("expiration_date")
	if err != nil {
		return nil, err
	}
	contractType, err := req.RequireString("contract_type")
	if err != nil {
		return nil, err
	}

	if d.StrictCalendar {
		if err := occ.ValidateDate(expiration); err != nil {
			return nil, err
		}
	}

	args := req.GetArguments()
	strike, err := optionalFloat(args, "strike")
	if err != nil {
		return nil, err
	}
	gte, err := optionalFloat(args, "strike_gte")
	if err != nil {
		return nil, err
	}
	lte, err := optionalFloat(args, "strike_lte")
	if err != nil {
		return nil, err
	}
	if gte == nil {
		gte = &d.MinStrike
	}
	if lte == nil {
		lte = &d.MaxStrike
	}
	step := req.GetFloat("step", d.LadderStep)

	strikes, err := occ.GenerateLadder(strike, gte, lte, step)
	if err != nil {
		return nil, err
	}
	tickers, err := occ.BuildTickerList(underlying, expiration, contractType, strikes)
	if err != nil {
		return nil, err
	}

	return &chainInputs{
		underlying:   underlying,
		expiration:   expiration,
		contractType: contractType,
		strikes:      strikes,
		tickers:      tickers,
	}, nil
}

func (d Deps) handleBuildTickers(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	in, err := d.resolveChain(req)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return jsonResult(map[string]any{
		"strikes": in.strikes,
		"tickers": in.tickers,
	})
}

func (d Deps) handleParseTicker(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	ticker, err := req.RequireString("ticker")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	contract, err := occ.ParseTicker(ticker)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return jsonResult(map[string]any{
		"ticker":     ticker,
		"underlying": contract.Underlying,
		// OCC years are two digits; every listed contract expires in this
		// century.
		"expiration_date": fmt.Sprintf("20%02d-%02d-%02d", contract.Year, contract.Month, contract.Day),
		"contract_type":   contract.Type.String(),
		"strike":          contract.Strike,
	})
}

func (d Deps) handleOptionChain(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	in, err := d.resolveChain(req)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	resp, err := d.Client.GetSnapshots(ctx, in.tickers)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	raw, err := json.Marshal(resp)
	if err != nil {
		return nil, fmt.Errorf("marshal snapshots: %w", err)
	}

	if req.GetString("format", "csv") == "json" {
		return mcp.NewToolResultText(string(raw)), nil
	}

	csvOut, err := formatter.JSONToCSV(raw)
	if err != nil {
		return nil, fmt.Errorf("format csv: %w", err)
	}
	return mcp.NewToolResultText(csvOut), nil
}

func (d Deps) handleQuery(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := req.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	query := url.Values{}
	if params, ok := req.GetArguments()["params"].(map[string]any); ok {
		for k, v := range params {
			query.Set(k, fmt.Sprintf("%v", v))
		}
	}

	raw, err := d.Client.GetRaw(ctx, path, query)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	if req.GetString("format", "json") == "csv" {
		csvOut, err := formatter.JSONToCSV(raw)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("format csv: %v", err)), nil
		}
		return mcp.NewToolResultText(csvOut), nil
	}
	return mcp.NewToolResultText(string(raw)), nil
}

// optionalFloat reads a numeric argument that may be absent. Absence and
// explicit null both mean "not provided", matching the nil-pointer
// contract of occ.GenerateLadder.
func optionalFloat(args map[string]any, key string) (*float64, error) {
	v, ok := args[key]
	if !ok || v == nil {
		return nil, nil
	}
	switch n := v.(type) {
	case float64:
		return &n, nil
	case int:
		f := float64(n)
		return &f, nil
	case json.Number:
		f, err := n.Float64()
		if err != nil {
			return nil, fmt.Errorf("%s must be a number: %w", key, err)
		}
		return &f, nil
	default:
		return nil, fmt.Errorf("%s must be a number, got %T", key, v)
	}
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("marshal result: %w", err)
	}
	return mcp.NewToolResultText(string(data)), nil
}
