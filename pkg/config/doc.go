// Package config provides configuration management for sheetsfdw.
//
// Two kinds of configuration live here:
//
//   - Options: the flat key/value bags a host query engine attaches to a
//     foreign server and a foreign table. Connectors read them through
//     Require and RequireOr.
//   - ScanConfig: the YAML document consumed by the sheetsfdw CLI, which plays
//     the host role outside of a database. It embeds BaseConfig and carries
//     the server options, table options, requested columns and output sink.
//
// # Loading
//
//	var cfg config.ScanConfig
//	if err := config.Load("scan.yaml", &cfg); err != nil {
//		log.Fatal(err)
//	}
//	if err := cfg.Validate(); err != nil {
//		log.Fatal(err)
//	}
//
// # Environment Variable Substitution
//
//	# scan.yaml
//	name: people
//	table:
//	  sheet_id: ${PEOPLE_SHEET_ID}
//	columns:
//	  - name: id
//	    type: i64
//	  - name: name
//	    type: string
//
// ${VAR_NAME} references are replaced with the environment value before the
// document is parsed; unset variables become empty strings.
package config
