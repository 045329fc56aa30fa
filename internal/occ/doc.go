// Package occ implements the OCC option ticker codec and strike ladder
// generation.
//
// Conventions:
//   - Tickers: "O:" + root (1-6 upper alpha) + yymmdd + C/P + 8-digit strike
//   - Strikes: integer thousandths in the 8-digit field (0 to 99999.999)
//   - All price conversions use base-10 decimal arithmetic, never raw
//     binary-float multiplication
//
// Everything in this package is a pure function over its inputs; nothing
// here logs, caches, or touches the network. Grammar validation is
// syntactic only: a ticker that matches the format is accepted whether or
// not it denotes a listed contract.
package occ
