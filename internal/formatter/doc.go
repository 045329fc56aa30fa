// Package formatter converts Massive API JSON responses into flat CSV.
//
// Nested objects are flattened with underscore-joined column names
// ("details.strike_price" becomes "details_strike_price"), arrays are
// stringified as compact JSON, and column order follows first appearance
// in the document so output is stable across runs.
package formatter
