package gsheets

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/ajitpratap0/sheetsfdw/pkg/clients"
	"github.com/ajitpratap0/sheetsfdw/pkg/config"
	"github.com/ajitpratap0/sheetsfdw/pkg/connector/core"
	"github.com/ajitpratap0/sheetsfdw/pkg/connector/registry"
	"github.com/ajitpratap0/sheetsfdw/pkg/errors"
	"github.com/ajitpratap0/sheetsfdw/pkg/logger"
	"github.com/ajitpratap0/sheetsfdw/pkg/metrics"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest"
	"go.uber.org/zap/zaptest/observer"
)

// sequenceTransport answers each request with the next body in line,
// repeating the last one.
type sequenceTransport struct {
	bodies []string
	urls   []string
}

func (s *sequenceTransport) Do(_ context.Context, req *clients.Request) (*clients.Response, error) {
	s.urls = append(s.urls, req.URL)
	i := len(s.urls) - 1
	if i >= len(s.bodies) {
		i = len(s.bodies) - 1
	}
	return &clients.Response{StatusCode: 200, Body: s.bodies[i]}, nil
}

type recordingReporter struct {
	messages []string
}

func (r *recordingReporter) ReportInfo(msg string) {
	r.messages = append(r.messages, msg)
}

var peopleColumns = []core.Column{
	{Num: 1, Name: "id", Type: core.TypeI64},
	{Num: 2, Name: "name", Type: core.TypeString},
	{Num: 3, Name: "born", Type: core.TypeDate},
}

func peopleContext(columns []core.Column) *core.StaticContext {
	return core.NewStaticContext(
		config.Options{OptionBaseURL: "https://sheets.example.com/d/"},
		config.Options{OptionSheetID: "people"},
		columns,
	)
}

func newTestFDW(t *testing.T, bodies ...string) (*FDW, *sequenceTransport, *recordingReporter) {
	t.Helper()
	transport := &sequenceTransport{bodies: bodies}
	reporter := &recordingReporter{}
	fdw := New(reporter,
		WithTransport(transport),
		WithLogger(zaptest.NewLogger(t)),
		WithMetrics(metrics.NewCollector("fdw_"+t.Name())))
	require.NoError(t, fdw.Init(context.Background(), peopleContext(peopleColumns)))
	return fdw, transport, reporter
}

// drain pulls rows until IterScan reports the end.
func drain(t *testing.T, fdw *FDW, fctx core.Context) [][]core.Cell {
	t.Helper()
	var out [][]core.Cell
	for i := 0; i < 100; i++ {
		row := core.NewRow(len(fctx.Columns()))
		more, err := fdw.IterScan(context.Background(), fctx, row)
		require.NoError(t, err)
		if !more {
			assert.Zero(t, row.Len(), "row touched at end of scan")
			return out
		}
		out = append(out, row.Cells())
	}
	t.Fatal("scan did not terminate")
	return nil
}

func date(y int, m time.Month, d int) core.Cell {
	return core.NewDateCell(time.Date(y, m, d, 0, 0, 0, 0, time.UTC))
}

func TestInit(t *testing.T) {
	fdw := New(nil, WithLogger(zaptest.NewLogger(t)))
	assert.Equal(t, "^0.1.0", fdw.HostVersionRequirement())
	assert.Equal(t, StateIdle, fdw.State())

	require.NoError(t, fdw.Init(context.Background(), core.NewStaticContext(nil, nil, nil)))
	assert.Equal(t, DefaultBaseURL, fdw.BaseURL())

	require.NoError(t, fdw.Init(context.Background(), peopleContext(nil)))
	assert.Equal(t, "https://sheets.example.com/d", fdw.BaseURL())
}

func TestScanProducesEveryRow(t *testing.T) {
	fdw, transport, reporter := newTestFDW(t, peopleBody)
	fctx := peopleContext(peopleColumns)

	require.NoError(t, fdw.BeginScan(context.Background(), fctx))
	assert.Equal(t, StateScanning, fdw.State())
	assert.Equal(t, 3, fdw.RowCount())
	assert.Equal(t, []string{"https://sheets.example.com/d/people/gviz/tq?tqx=out:json"}, transport.urls)
	assert.Equal(t, []string{"We got response array length: 3"}, reporter.messages)

	rows := drain(t, fdw, fctx)
	require.Len(t, rows, 3)
	assert.Equal(t, []core.Cell{core.I64Cell(1), core.StringCell("Alice"), date(1990, time.January, 15)}, rows[0])
	assert.Equal(t, []core.Cell{core.I64Cell(2), nil, date(2023, time.June, 11)}, rows[1])
	assert.Equal(t, []core.Cell{core.I64Cell(3), core.StringCell("Carol"), nil}, rows[2])

	assert.Equal(t, StateExhausted, fdw.State())
	assert.Equal(t, 3, fdw.Cursor())
	assert.Equal(t, 3.0, testutil.ToFloat64(metrics.RowsScanned.WithLabelValues("fdw_"+t.Name())))
}

func TestExhaustionIsIdempotent(t *testing.T) {
	fdw, _, _ := newTestFDW(t, peopleBody)
	fctx := peopleContext(peopleColumns)
	require.NoError(t, fdw.BeginScan(context.Background(), fctx))
	drain(t, fdw, fctx)

	for i := 0; i < 3; i++ {
		row := core.NewRow(3)
		more, err := fdw.IterScan(context.Background(), fctx, row)
		require.NoError(t, err)
		assert.False(t, more)
		assert.Zero(t, row.Len())
		assert.Equal(t, 3, fdw.Cursor())
		assert.Equal(t, StateExhausted, fdw.State())
	}
}

func TestProjectionSubset(t *testing.T) {
	fdw, _, _ := newTestFDW(t, peopleBody)
	fctx := peopleContext([]core.Column{{Num: 3, Name: "born", Type: core.TypeDate}})
	require.NoError(t, fdw.BeginScan(context.Background(), fctx))

	rows := drain(t, fdw, fctx)
	require.Len(t, rows, 3)
	for _, r := range rows {
		assert.Len(t, r, 1)
	}
	assert.Nil(t, rows[2][0])
}

func TestEndScanThenBeginScanResets(t *testing.T) {
	second := ")]}'\n" + `{"table":{"rows":[{"c":[{"v":9.0},{"v":"Zed"}]}]}}`
	fdw, transport, _ := newTestFDW(t, peopleBody, second)
	fctx := peopleContext(peopleColumns)

	require.NoError(t, fdw.BeginScan(context.Background(), fctx))
	drain(t, fdw, fctx)

	require.NoError(t, fdw.EndScan(fctx))
	assert.Equal(t, StateEnded, fdw.State())
	assert.Zero(t, fdw.RowCount())
	assert.Zero(t, fdw.Cursor())

	more, err := fdw.IterScan(context.Background(), fctx, core.NewRow(3))
	require.NoError(t, err)
	assert.False(t, more, "no scan is open")

	require.NoError(t, fdw.BeginScan(context.Background(), fctx))
	assert.Equal(t, StateScanning, fdw.State())
	assert.Zero(t, fdw.Cursor())
	assert.Equal(t, 1, fdw.RowCount())
	assert.Len(t, transport.urls, 2, "one fetch per scan")

	rows := drain(t, fdw, fctx)
	require.Len(t, rows, 1)
	assert.Equal(t, []core.Cell{core.I64Cell(9), core.StringCell("Zed"), nil}, rows[0])
}

func TestBeginScanWhileScanningReplacesRows(t *testing.T) {
	second := ")]}'\n" + `{"table":{"rows":[{"c":[{"v":9.0}]}]}}`
	fdw, _, _ := newTestFDW(t, peopleBody, second)
	fctx := peopleContext(peopleColumns)

	require.NoError(t, fdw.BeginScan(context.Background(), fctx))
	more, err := fdw.IterScan(context.Background(), fctx, core.NewRow(3))
	require.NoError(t, err)
	require.True(t, more)

	require.NoError(t, fdw.BeginScan(context.Background(), fctx))
	assert.Zero(t, fdw.Cursor())
	assert.Len(t, drain(t, fdw, fctx), 1)
}

func TestEmptySheet(t *testing.T) {
	fdw, _, reporter := newTestFDW(t, ")]}'\n"+`{"table":{"rows":[]}}`)
	fctx := peopleContext(peopleColumns)

	require.NoError(t, fdw.BeginScan(context.Background(), fctx))
	assert.Equal(t, StateExhausted, fdw.State())
	assert.Equal(t, []string{"We got response array length: 0"}, reporter.messages)
	assert.Empty(t, drain(t, fdw, fctx))
}

func TestBeginScanFailureLeavesEmptyStore(t *testing.T) {
	fdw, _, reporter := newTestFDW(t, `{"table":{"rows":[{"c":[{"v":1.0}]}]}}`)
	fctx := peopleContext(peopleColumns)

	err := fdw.BeginScan(context.Background(), fctx)
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrorTypeFormat))
	assert.Contains(t, err.Error(), "invalid response")
	assert.Zero(t, fdw.RowCount())
	assert.Zero(t, fdw.Cursor())
	assert.Equal(t, StateIdle, fdw.State())
	assert.Empty(t, reporter.messages)

	more, err := fdw.IterScan(context.Background(), fctx, core.NewRow(3))
	require.NoError(t, err)
	assert.False(t, more)
}

func TestBeginScanFailureAfterScanEndsIt(t *testing.T) {
	fdw, _, _ := newTestFDW(t, peopleBody, ")]}'\n"+`{"table":{}}`)
	fctx := peopleContext(peopleColumns)

	require.NoError(t, fdw.BeginScan(context.Background(), fctx))
	err := fdw.BeginScan(context.Background(), fctx)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cannot get rows from response")
	assert.Equal(t, StateEnded, fdw.State())
	assert.Zero(t, fdw.RowCount())
}

func TestBeginScanMissingSheetID(t *testing.T) {
	fdw, transport, _ := newTestFDW(t, peopleBody)
	fctx := core.NewStaticContext(nil, config.Options{}, peopleColumns)

	err := fdw.BeginScan(context.Background(), fctx)
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrorTypeMissingOption))
	assert.Contains(t, err.Error(), "sheet_id")
	assert.Empty(t, transport.urls)
	assert.Equal(t, 1.0, testutil.ToFloat64(
		metrics.LifecycleErrors.WithLabelValues("fdw_"+t.Name(), "begin_scan", "missing_option")))
}

func TestBeginScanBeforeInit(t *testing.T) {
	transport := &sequenceTransport{bodies: []string{peopleBody}}
	fdw := New(nil, WithTransport(transport), WithLogger(zaptest.NewLogger(t)))

	err := fdw.BeginScan(context.Background(), peopleContext(peopleColumns))
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrorTypeConfig))
	assert.Empty(t, transport.urls)
}

func TestIterScanUnsupportedType(t *testing.T) {
	fdw, _, _ := newTestFDW(t, peopleBody)
	bad := peopleContext([]core.Column{
		{Num: 1, Name: "id", Type: core.TypeI64},
		{Num: 2, Name: "score", Type: core.TypeF64},
	})
	require.NoError(t, fdw.BeginScan(context.Background(), bad))

	row := core.NewRow(2)
	more, err := fdw.IterScan(context.Background(), bad, row)
	require.Error(t, err)
	assert.False(t, more)
	assert.True(t, errors.IsType(err, errors.ErrorTypeUnsupportedType))
	assert.Contains(t, err.Error(), "column score data type is not supported")
	assert.Zero(t, row.Len(), "row left untouched")
	assert.Zero(t, fdw.Cursor(), "cursor not advanced")

	good := peopleContext(peopleColumns)
	assert.Len(t, drain(t, fdw, good), 3)
}

func TestReScanAlwaysFails(t *testing.T) {
	fdw, _, _ := newTestFDW(t, peopleBody)
	fctx := peopleContext(peopleColumns)

	check := func(want ScanState) {
		t.Helper()
		cursor, count := fdw.Cursor(), fdw.RowCount()
		err := fdw.ReScan(fctx)
		require.Error(t, err)
		assert.True(t, errors.IsType(err, errors.ErrorTypeUnsupportedOperation))
		assert.Contains(t, err.Error(), "re_scan on foreign table is not supported")
		assert.Equal(t, want, fdw.State())
		assert.Equal(t, cursor, fdw.Cursor())
		assert.Equal(t, count, fdw.RowCount())
	}

	check(StateIdle)
	require.NoError(t, fdw.BeginScan(context.Background(), fctx))
	check(StateScanning)
	_, err := fdw.IterScan(context.Background(), fctx, core.NewRow(3))
	require.NoError(t, err)
	check(StateScanning)
	drain(t, fdw, fctx)
	check(StateExhausted)
	require.NoError(t, fdw.EndScan(fctx))
	check(StateEnded)
}

func TestModifyPath(t *testing.T) {
	fdw, _, _ := newTestFDW(t, peopleBody)
	fctx := peopleContext(peopleColumns)
	require.NoError(t, fdw.BeginScan(context.Background(), fctx))

	row := core.NewRow(1)
	row.Push(core.StringCell("x"))

	assert.NoError(t, fdw.Insert(fctx, row))
	assert.NoError(t, fdw.Update(fctx, core.I64Cell(1), row))
	assert.NoError(t, fdw.Delete(fctx, core.I64Cell(1)))
	assert.NoError(t, fdw.EndModify(fctx))
	assert.Equal(t, StateScanning, fdw.State())
	assert.Equal(t, 3, fdw.RowCount())
	assert.Zero(t, fdw.Cursor())

	err := fdw.BeginModify(fctx)
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrorTypeUnsupportedOperation))
	assert.Contains(t, err.Error(), "modify on foreign table is not supported")
	assert.Equal(t, StateScanning, fdw.State())
}

func TestEndScanInAnyState(t *testing.T) {
	fdw := New(nil, WithLogger(zaptest.NewLogger(t)))
	fctx := peopleContext(peopleColumns)
	require.NoError(t, fdw.EndScan(fctx))
	assert.Equal(t, StateEnded, fdw.State())
	require.NoError(t, fdw.EndScan(fctx))
	assert.Equal(t, StateEnded, fdw.State())
}

func TestScanStateString(t *testing.T) {
	assert.Equal(t, "idle", StateIdle.String())
	assert.Equal(t, "scanning", StateScanning.String())
	assert.Equal(t, "exhausted", StateExhausted.String())
	assert.Equal(t, "ended", StateEnded.String())
	assert.Equal(t, "ScanState(7)", ScanState(7).String())
}

func TestRegistered(t *testing.T) {
	assert.Contains(t, registry.ListWrappers(), Name)

	w, err := registry.CreateWrapper(Name, &recordingReporter{})
	require.NoError(t, err)
	assert.IsType(t, &FDW{}, w)

	info, err := registry.GetConnectorInfo(Name)
	require.NoError(t, err)
	assert.True(t, info.Options[OptionSheetID].Required)
	assert.Equal(t, DefaultBaseURL, info.Options[OptionBaseURL].Default)
}

func TestTransportStats(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(peopleBody))
	}))
	defer server.Close()

	fdw := New(nil, WithLogger(zaptest.NewLogger(t)), WithMetrics(metrics.NewCollector("fdw_stats")))
	fctx := core.NewStaticContext(
		config.Options{OptionBaseURL: server.URL + "/spreadsheets/d"},
		config.Options{OptionSheetID: "people"},
		peopleColumns,
	)
	require.NoError(t, fdw.Init(context.Background(), fctx))
	require.NoError(t, fdw.BeginScan(context.Background(), fctx))
	require.NoError(t, fdw.EndScan(fctx))

	stats, ok := fdw.TransportStats()
	require.True(t, ok)
	assert.Equal(t, int64(1), stats.TotalRequests)
	assert.Equal(t, int64(0), stats.FailedRequests)
	assert.Equal(t, float64(100), stats.SuccessRate)
	assert.NoError(t, fdw.Close())

	t.Run("transport without statistics", func(t *testing.T) {
		fdw, _, _ := newTestFDW(t, peopleBody)
		_, ok := fdw.TransportStats()
		assert.False(t, ok)
		assert.NoError(t, fdw.Close())
	})
}

func TestScanLogsCarryScanID(t *testing.T) {
	zc, logs := observer.New(zapcore.InfoLevel)
	fdw := New(nil,
		WithTransport(&sequenceTransport{bodies: []string{peopleBody, "garbage", peopleBody}}),
		WithLogger(zap.New(zc)),
		WithMetrics(metrics.NewCollector("fdw_scan_id")))
	fctx := peopleContext(peopleColumns)
	require.NoError(t, fdw.Init(context.Background(), fctx))

	ctx := logger.NewContext(context.Background(), Name, "people", "scan-7")
	require.NoError(t, fdw.BeginScan(ctx, fctx))
	started := logs.FilterMessage("scan started").All()
	require.Len(t, started, 1)
	assert.Equal(t, "scan-7", started[0].ContextMap()["scan_id"])
	assert.Equal(t, Name, started[0].ContextMap()["connector"])

	require.Error(t, fdw.BeginScan(ctx, fctx))
	failed := logs.FilterMessage("begin scan failed").All()
	require.Len(t, failed, 1)
	assert.Equal(t, "scan-7", failed[0].ContextMap()["scan_id"])

	require.NoError(t, fdw.BeginScan(context.Background(), fctx))
	assert.NotContains(t, logs.FilterMessage("scan started").All()[1].ContextMap(), "scan_id")
}
