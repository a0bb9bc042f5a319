package gsheets

import (
	"github.com/ajitpratap0/sheetsfdw/pkg/connector/core"
	"github.com/ajitpratap0/sheetsfdw/pkg/connector/registry"
)

func init() {
	// Register the Google Sheets wrapper in the global registry
	_ = registry.RegisterWrapper(Name, NewWrapper)

	_ = registry.RegisterConnectorInfo(&registry.ConnectorInfo{
		Name:         Name,
		Description:  "Read-only foreign data wrapper over the Google Sheets gviz JSON export",
		Version:      Version,
		Author:       "sheetsfdw authors",
		Website:      "https://github.com/ajitpratap0/sheetsfdw",
		HostVersion:  hostVersionRequirement,
		Capabilities: []string{"scan"},
		ColumnTypes:  []core.TypeOID{core.TypeI64, core.TypeString, core.TypeDate},
		Options: map[string]registry.OptionInfo{
			OptionBaseURL: {
				Scope:       core.OptionsTypeServer,
				Default:     DefaultBaseURL,
				Description: "Spreadsheet endpoint the sheet id is appended to",
			},
			OptionSheetID: {
				Scope:       core.OptionsTypeTable,
				Required:    true,
				Description: "Id of the Google Sheets document to read",
			},
		},
	})
}
