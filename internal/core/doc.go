// Package core provides the business logic for loading and sorting tables.
//
// This package is independent of any UI or transport layer. It can be used by
// web handlers, CLI tools, or tests without modification.
//
// # Values
//
// Every raw cell is turned into a [Value] by [Resolve]: a finite number, a
// trimmed non-empty text, or absence for blank cells. Absence is its own case;
// it is neither zero nor the empty string.
//
// # Sorting
//
// [Sort] orders rows by one column and never modifies its input:
//
//	sorted := core.Sort(ds.Rows, "Amount", core.DirDesc)
//
// [Compare] puts absence after everything else, compares numbers
// arithmetically and everything else as case-insensitive text with digit runs
// ordered numerically. Descending negates Compare, so absent cells come first
// in descending order and last in ascending order. Equal keys keep their
// input order in both directions.
//
// # Sort State
//
// [SortState] cycles each column through none, asc and desc, and keeps at
// most one column active:
//
//	state := core.NewSortState(ds.Columns)
//	state, dir := state.Activate("Amount") // dir == DirAsc
//	rows := ds.Sorted("Amount", dir)
//
// The caller always sorts the dataset's original rows, never a previously
// sorted slice.
//
// # Sessions
//
// [Service] keeps loaded datasets in memory under uuid session ids, applies
// header activations to them, and evicts sessions that sit idle longer than
// the configured TTL.
package core
