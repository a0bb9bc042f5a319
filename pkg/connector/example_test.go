// Package connector provides examples of driving a wrapper through its scan lifecycle.
package connector_test

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"net/http/httptest"

	"github.com/ajitpratap0/sheetsfdw/pkg/config"
	"github.com/ajitpratap0/sheetsfdw/pkg/connector/core"
	"github.com/ajitpratap0/sheetsfdw/pkg/connector/registry"

	// Import wrappers to register them
	_ "github.com/ajitpratap0/sheetsfdw/pkg/connector/sources/gsheets"
)

type printReporter struct{}

func (printReporter) ReportInfo(msg string) { fmt.Println("info:", msg) }

// Example demonstrates creating a wrapper via the registry and pulling every row.
func Example() {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, ")]}'\n"+`{"table":{"rows":[`+
			`{"c":[{"v":1},{"v":"Alice"},{"v":"Date(2023,5,10)"}]},`+
			`{"c":[{"v":2},null]}]}}`)
	}))
	defer server.Close()

	wrapper, err := registry.CreateWrapper("gsheets", printReporter{})
	if err != nil {
		log.Fatal(err)
	}

	fctx := core.NewStaticContext(
		config.Options{"base_url": server.URL},
		config.Options{"sheet_id": "people"},
		[]core.Column{
			{Num: 1, Name: "id", Type: core.TypeI64},
			{Num: 2, Name: "name", Type: core.TypeString},
			{Num: 3, Name: "born", Type: core.TypeDate},
		},
	)

	ctx := context.Background()
	if err := wrapper.Init(ctx, fctx); err != nil {
		log.Fatal(err)
	}
	if err := wrapper.BeginScan(ctx, fctx); err != nil {
		log.Fatal(err)
	}
	defer func() { _ = wrapper.EndScan(fctx) }()

	for {
		row := core.NewRow(len(fctx.Columns()))
		more, err := wrapper.IterScan(ctx, fctx, row)
		if err != nil {
			log.Fatal(err)
		}
		if !more {
			break
		}
		fmt.Println(row.Cells())
	}

	// Output:
	// info: We got response array length: 2
	// [1 Alice 2023-06-11]
	// [2 <nil> <nil>]
}

// Example_readOnly shows that the modify path is refused.
func Example_readOnly() {
	wrapper, err := registry.CreateWrapper("gsheets", printReporter{})
	if err != nil {
		log.Fatal(err)
	}
	fctx := core.NewStaticContext(nil, nil, nil)

	fmt.Println(wrapper.BeginModify(fctx))
	fmt.Println(wrapper.ReScan(fctx))

	// Output:
	// unsupported_operation: modify on foreign table is not supported
	// unsupported_operation: re_scan on foreign table is not supported
}
