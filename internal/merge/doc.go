// Package merge combines real and synthetic data sources for one logical spread
// into a single internally-consistent dataset.
//
// "Real" data is observed trades and quotes for the spread instrument itself on an
// exchange; "synthetic" data is a spread price constructed by combining two
// single-leg contracts' order books. The two exports use different column names and
// conventions, so merging is a three-stage pipeline:
//
//  1. Normalization: raw rows from either source are mapped onto canonical trade
//     and quote ticks via a fixed synonym table (normalize.go). No runtime column
//     introspection beyond that table.
//  2. Trades merge: plain union of point events, sorted by time, exact duplicates
//     dropped. Trades are never resampled or fabricated.
//  3. Orders merge: each source's quotes are forward-filled independently onto the
//     union of both sources' timestamps, then the best available bid (maximum) and
//     ask (minimum) win at every timestamp. This is "best available market"
//     semantics, not "most recent source" semantics.
//
// Crossed quotes (bid > ask) and trade rows carrying both a buy and a sell price
// are data-quality findings: they are logged and handled with documented tie-break
// behavior rather than failing the merge, since real market data legitimately
// contains such rows. Malformed input shape, by contrast, fails fast.
//
// All entry points are pure request/response functions over in-memory data and are
// safe for concurrent, independent invocations.
package merge
