// Package obs provides the columnar observation table that the QC engine
// operates on.
//
// A Table is an ordered collection of typed columns (Series) over a fixed set
// of rows. Every row carries a stable integer identifier; subsetting a table
// (for grouping) preserves those identifiers, so QC flags produced for a
// subset can always be aligned back to the original rows.
//
// Tables are treated as immutable once built. The engine and the check
// library only ever read from them; Take returns views that share the
// underlying column storage.
//
// Missing values are represented per element kind: NaN for floats, the empty
// string for strings, and the zero time.Time for timestamps.
package obs
