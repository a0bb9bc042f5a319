package gsheets

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/ajitpratap0/sheetsfdw/pkg/clients"
	"github.com/ajitpratap0/sheetsfdw/pkg/errors"
	jsonpool "github.com/ajitpratap0/sheetsfdw/pkg/json"
	"github.com/ajitpratap0/sheetsfdw/pkg/metrics"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.uber.org/zap"
)

const (
	// queryPath asks the gviz endpoint for the whole sheet as JSON
	queryPath = "gviz/tq?tqx=out:json"

	// responsePrefix guards gviz JSON against script inclusion and must be
	// stripped before decoding
	responsePrefix = ")]}'\n"

	userAgent = "Sheets FDW"
)

var tracer = otel.Tracer("github.com/ajitpratap0/sheetsfdw/pkg/connector/sources/gsheets")

// fetcher issues the single request of a scan and normalizes the response
// into source rows.
type fetcher struct {
	transport clients.Transport
	logger    *zap.Logger
	metrics   *metrics.Collector
}

// requestURL builds {base_url}/{sheet_id}/gviz/tq?tqx=out:json
func requestURL(baseURL, sheetID string) string {
	return fmt.Sprintf("%s/%s/%s", baseURL, sheetID, queryPath)
}

// fetch downloads and decodes the rows of one sheet. It makes exactly one
// attempt; the response status is not inspected, only the body.
func (f *fetcher) fetch(ctx context.Context, baseURL, sheetID string) ([]SourceRow, error) {
	ctx, span := tracer.Start(ctx, "gsheets.fetch")
	defer span.End()
	span.SetAttributes(attribute.String("gsheets.sheet_id", sheetID))

	timer := metrics.NewTimer()
	rows, err := f.doFetch(ctx, baseURL, sheetID)
	f.metrics.ObserveFetch(timer.Stop(), len(rows), err)

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	span.SetAttributes(attribute.Int("gsheets.rows", len(rows)))
	return rows, nil
}

func (f *fetcher) doFetch(ctx context.Context, baseURL, sheetID string) ([]SourceRow, error) {
	req := &clients.Request{
		Method: http.MethodGet,
		URL:    requestURL(baseURL, sheetID),
		Headers: []clients.Header{
			{Name: "user-agent", Value: userAgent},
			// makes the gviz response cleaner JSON
			{Name: "x-datasource-auth", Value: "true"},
		},
	}

	resp, err := f.transport.Do(ctx, req)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeTransport, "request to remote source failed").
			WithDetail("url", req.URL)
	}

	f.logger.Debug("received response",
		zap.String("url", req.URL),
		zap.Int("status", resp.StatusCode),
		zap.Int("bytes", len(resp.Body)))

	return decodeResponse(resp.Body)
}

// decodeResponse strips the gviz guard prefix and extracts table.rows.
func decodeResponse(body string) ([]SourceRow, error) {
	payload, ok := strings.CutPrefix(body, responsePrefix)
	if !ok {
		return nil, errors.New(errors.ErrorTypeFormat, "invalid response")
	}

	var doc interface{}
	if err := jsonpool.UnmarshalString(payload, &doc); err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeFormat, "cannot decode response")
	}

	records, ok := lookupArray(doc, "table", "rows")
	if !ok {
		e := errors.New(errors.ErrorTypeFormat, "cannot get rows from response")
		if reason, failed := queryFailure(doc); failed {
			e = e.WithDetail("status", "error").WithDetail("reason", reason)
		}
		return nil, e
	}

	rows := make([]SourceRow, len(records))
	for i, rec := range records {
		rows[i] = newSourceRow(rec)
	}
	return rows, nil
}

// lookupArray walks object keys and returns the array found at the end.
func lookupArray(doc interface{}, path ...string) ([]interface{}, bool) {
	cur := doc
	for _, key := range path {
		obj, ok := cur.(map[string]interface{})
		if !ok {
			return nil, false
		}
		if cur, ok = obj[key]; !ok {
			return nil, false
		}
	}
	arr, ok := cur.([]interface{})
	return arr, ok
}

// queryFailure extracts the first error message of a gviz response whose
// status is "error", e.g. when the sheet is not shared publicly.
func queryFailure(doc interface{}) (string, bool) {
	obj, ok := doc.(map[string]interface{})
	if !ok || obj["status"] != "error" {
		return "", false
	}
	errs, _ := obj["errors"].([]interface{})
	for _, e := range errs {
		em, ok := e.(map[string]interface{})
		if !ok {
			continue
		}
		if msg, ok := em["detailed_message"].(string); ok && msg != "" {
			return msg, true
		}
		if msg, ok := em["message"].(string); ok && msg != "" {
			return msg, true
		}
	}
	return "query failed", true
}
