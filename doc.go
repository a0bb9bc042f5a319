// Package sheetsfdw exposes a Google Sheets document as a read-only foreign
// table that a host query engine scans row by row.
//
// The wrapper fetches the whole sheet once per scan through the gviz JSON
// export, buffers the rows and hands them to the host one IterScan call at a
// time, converting each source cell into the column type the host asked for.
//
// # Architecture
//
// A host owns the wrapper and drives its lifecycle:
//
//	Init -> BeginScan -> IterScan ... -> EndScan
//
// BeginScan performs the only network request of a scan. IterScan never
// skips rows and, once it reported the end, keeps reporting it until the
// next BeginScan. ReScan and the modify path are refused or ignored.
//
// # Quick Start
//
// Scan a public sheet from the command line:
//
//	sheetsfdw scan --sheet-id 1bTLh7yw --columns "id:i64,name:string,born:date" --format csv
//
// Or embed the wrapper:
//
//	import (
//	    "github.com/ajitpratap0/sheetsfdw/internal/pipeline"
//	    "github.com/ajitpratap0/sheetsfdw/pkg/connector/registry"
//	    _ "github.com/ajitpratap0/sheetsfdw/pkg/connector/sources/gsheets"
//	)
//
//	wrapper, _ := registry.CreateWrapper("gsheets", reporter)
//	stats, err := pipeline.NewScanPipeline(wrapper, fctx, sink, nil, log).Run(ctx)
//
// # Key Packages
//
//	pkg/connector/core            - Host contract: wrapper lifecycle, cells, columns
//	pkg/connector/registry        - Wrapper factories and connector metadata
//	pkg/connector/sources/gsheets - Google Sheets wrapper
//	pkg/clients                   - HTTP collaborator
//	pkg/config                    - Option bags and YAML scan documents
//	pkg/errors                    - Structured error handling
//	pkg/logger                    - Structured logging
//	pkg/metrics                   - Prometheus instrumentation
//	pkg/observability             - OpenTelemetry tracing
//	internal/pipeline             - Scan driver and output sinks
//
// # Type Mapping
//
// Supported column types are i64 (numeric source values, truncated), string
// and date (gviz Date(y,m,d) literals). A value of the wrong shape becomes
// NULL; any other column type fails the scan.
//
// # Configuration
//
// Server option base_url overrides the spreadsheet endpoint; table option
// sheet_id names the document. The CLI additionally reads a YAML scan file
// with ${VAR_NAME} substitution and SHEETSFDW_* environment variables.
package sheetsfdw
