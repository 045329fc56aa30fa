// Package tools defines the MCP tool surface of the server.
//
// Four tools are registered:
//   - build_option_tickers: strike ladder + OCC encoding, no upstream call
//   - parse_option_ticker: OCC decoding
//   - get_option_chain: ladder -> tickers -> Massive snapshot batch
//   - query_massive: raw GET passthrough to the Massive API
//
// Handlers translate codec and API errors into MCP tool errors; they
// never swallow them. Each call carries a short random ID through the
// logs so concurrent calls can be told apart.
package tools
