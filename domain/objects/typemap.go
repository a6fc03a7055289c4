package objects

import "strings"

// Type mapping tables translating attribute types down the layer stack.
// Lookups are case-insensitive; unrecognized or empty input falls back to
// VARCHAR so a propagation never produces an untyped physical column.

const fallbackType = "VARCHAR"

var conceptualToLogical = map[string]string{
	"TEXT":       "VARCHAR",
	"NUMBER":     "DECIMAL",
	"INTEGER":    "INTEGER",
	"DATE":       "DATE",
	"TIME":       "TIME",
	"DATETIME":   "TIMESTAMP",
	"BOOLEAN":    "BOOLEAN",
	"BINARY":     "BLOB",
	"DOCUMENT":   "JSON",
	"IDENTIFIER": "UUID",
	"CURRENCY":   "DECIMAL",
	"PERCENTAGE": "DECIMAL",
}

var logicalToPhysical = map[string]string{
	"VARCHAR":   "VARCHAR",
	"CHAR":      "CHAR",
	"TEXT":      "TEXT",
	"INTEGER":   "INT",
	"BIGINT":    "BIGINT",
	"SMALLINT":  "SMALLINT",
	"DECIMAL":   "DECIMAL",
	"NUMERIC":   "NUMERIC",
	"FLOAT":     "FLOAT",
	"DOUBLE":    "DOUBLE",
	"BOOLEAN":   "TINYINT",
	"DATE":      "DATE",
	"TIME":      "TIME",
	"TIMESTAMP": "TIMESTAMP",
	"DATETIME":  "DATETIME",
	"JSON":      "JSON",
	"UUID":      "CHAR",
	"BLOB":      "BLOB",
}

// defaultLengths holds per-type default column lengths. Types without an
// entry have no default (nil).
var defaultLengths = map[string]int{
	"VARCHAR": 255,
	"CHAR":    36, // UUIDs stored as CHAR
	"DECIMAL": 18,
}

// MapConceptualToLogical translates a conceptual type into its logical
// representation. Unrecognized or empty input maps to VARCHAR.
func MapConceptualToLogical(conceptualType string) string {
	if t, ok := conceptualToLogical[strings.ToUpper(strings.TrimSpace(conceptualType))]; ok {
		return t
	}
	return fallbackType
}

// MapLogicalToPhysical translates a logical type into its physical
// representation. Feeding an already-physical type back through is stable:
// known names map to themselves or their canonical physical form, anything
// else falls back to VARCHAR.
func MapLogicalToPhysical(logicalType string) string {
	key := strings.ToUpper(strings.TrimSpace(logicalType))
	if t, ok := logicalToPhysical[key]; ok {
		return t
	}
	// INT is what INTEGER maps to; keep it fixed under re-mapping.
	if key == "INT" {
		return "INT"
	}
	return fallbackType
}

// DefaultLength returns the default column length for a type, or nil when
// the type carries no length.
func DefaultLength(typeName string) *int {
	if l, ok := defaultLengths[strings.ToUpper(strings.TrimSpace(typeName))]; ok {
		v := l
		return &v
	}
	return nil
}
