package gsheets

import (
	"strings"

	"github.com/ajitpratap0/sheetsfdw/pkg/config"
)

const (
	// OptionBaseURL is the server option overriding the spreadsheet endpoint
	OptionBaseURL = "base_url"
	// OptionSheetID is the table option naming the remote document
	OptionSheetID = "sheet_id"

	// DefaultBaseURL is the public Google Sheets document endpoint
	DefaultBaseURL = "https://docs.google.com/spreadsheets/d"
)

// resolveBaseURL reads the server-scoped endpoint, falling back to the
// public Google Sheets endpoint. A trailing slash is dropped so the request
// path never contains an empty segment.
func resolveBaseURL(opts config.Options) string {
	return strings.TrimSuffix(opts.RequireOr(OptionBaseURL, DefaultBaseURL), "/")
}

// resolveSheetID reads the required table-scoped document id.
func resolveSheetID(opts config.Options) (string, error) {
	return opts.Require(OptionSheetID)
}
