package core

import (
	"fmt"
	"strings"
)

// TypeOID is the closed set of column types a host can request.
type TypeOID int

const (
	TypeBool TypeOID = iota
	TypeI8
	TypeI16
	TypeF32
	TypeI32
	TypeF64
	TypeI64
	TypeNumeric
	TypeString
	TypeDate
	TypeTimestamp
	TypeTimestamptz
	TypeJSON
	TypeUUID
	TypeOther
)

var typeNames = map[TypeOID]string{
	TypeBool:        "bool",
	TypeI8:          "i8",
	TypeI16:         "i16",
	TypeF32:         "f32",
	TypeI32:         "i32",
	TypeF64:         "f64",
	TypeI64:         "i64",
	TypeNumeric:     "numeric",
	TypeString:      "string",
	TypeDate:        "date",
	TypeTimestamp:   "timestamp",
	TypeTimestamptz: "timestamptz",
	TypeJSON:        "json",
	TypeUUID:        "uuid",
	TypeOther:       "other",
}

// Postgres spellings accepted by ParseTypeOID in addition to the canonical names.
var typeAliases = map[string]TypeOID{
	"boolean":          TypeBool,
	"char":             TypeI8,
	"smallint":         TypeI16,
	"int2":             TypeI16,
	"real":             TypeF32,
	"float4":           TypeF32,
	"integer":          TypeI32,
	"int":              TypeI32,
	"int4":             TypeI32,
	"double precision": TypeF64,
	"float8":           TypeF64,
	"bigint":           TypeI64,
	"int8":             TypeI64,
	"text":             TypeString,
	"varchar":          TypeString,
	"jsonb":            TypeJSON,
}

func (t TypeOID) String() string {
	if name, ok := typeNames[t]; ok {
		return name
	}
	return fmt.Sprintf("TypeOID(%d)", int(t))
}

// MarshalText encodes the type by name so listings stay readable.
func (t TypeOID) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// UnmarshalText accepts any spelling ParseTypeOID does.
func (t *TypeOID) UnmarshalText(text []byte) error {
	parsed, err := ParseTypeOID(string(text))
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// ParseTypeOID maps a type name (canonical or Postgres spelling) to a TypeOID.
func ParseTypeOID(name string) (TypeOID, error) {
	n := strings.ToLower(strings.TrimSpace(name))
	for t, canonical := range typeNames {
		if canonical == n {
			return t, nil
		}
	}
	if t, ok := typeAliases[n]; ok {
		return t, nil
	}
	return TypeOther, fmt.Errorf("unknown column type %q", name)
}

// Column is one target column requested by the host.
type Column struct {
	// Num is the 1-based attribute number
	Num  int
	Name string
	Type TypeOID
}
