// Package connector is the root of the sheetsfdw wrapper framework.
//
// # Architecture Overview
//
// The connector tree is organized into sub-packages:
//
//   - core: the host contract. ForeignDataWrapper is the lifecycle a host
//     query engine drives; Context exposes the option bags and requested
//     columns; Cell, Row and TypeOID model the typed target values.
//
//   - registry: a factory registry. Wrappers self-register during package
//     initialization together with descriptive ConnectorInfo.
//
//   - sources: wrapper implementations. sources/gsheets reads a Google Sheets
//     document through its gviz JSON export.
//
// # Scan Lifecycle
//
// A host drives a wrapper strictly in this order, on one goroutine:
//
//	Init -> BeginScan -> IterScan ... (false) -> EndScan
//
// IterScan fills one row per call and reports false once every source
// record was produced; further calls keep reporting false. ReScan is not
// supported. The modify path (BeginModify, Insert, Update, Delete,
// EndModify) exists for contract completeness only.
//
// # Creating a Wrapper
//
//	wrapper, err := registry.CreateWrapper("gsheets", reporter)
//	if err != nil {
//		return err
//	}
//	fctx := core.NewStaticContext(server, table, columns)
//	if err := wrapper.Init(ctx, fctx); err != nil {
//		return err
//	}
//
// Each CreateWrapper call returns an independent instance; wrappers keep no
// package-level scan state.
package connector
