package objects

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMapConceptualToLogical(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"text", "Text", "VARCHAR"},
		{"number", "Number", "DECIMAL"},
		{"integer", "Integer", "INTEGER"},
		{"date", "Date", "DATE"},
		{"datetime", "DateTime", "TIMESTAMP"},
		{"boolean", "Boolean", "BOOLEAN"},
		{"identifier", "Identifier", "UUID"},
		{"currency", "Currency", "DECIMAL"},
		{"document", "Document", "JSON"},
		{"case insensitive", "TEXT", "VARCHAR"},
		{"whitespace trimmed", "  Text  ", "VARCHAR"},
		{"unknown falls back", "Hologram", "VARCHAR"},
		{"empty falls back", "", "VARCHAR"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, MapConceptualToLogical(tt.input))
		})
	}
}

func TestMapLogicalToPhysical(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"varchar", "VARCHAR", "VARCHAR"},
		{"integer", "INTEGER", "INT"},
		{"bigint", "BIGINT", "BIGINT"},
		{"decimal", "DECIMAL", "DECIMAL"},
		{"boolean", "BOOLEAN", "TINYINT"},
		{"timestamp", "TIMESTAMP", "TIMESTAMP"},
		{"uuid", "UUID", "CHAR"},
		{"lowercase", "integer", "INT"},
		{"unknown falls back", "GEOGRAPHY", "VARCHAR"},
		{"empty falls back", "", "VARCHAR"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, MapLogicalToPhysical(tt.input))
		})
	}
}

// Re-mapping an already-physical type must be a no-op or a stable fallback,
// never an oscillation.
func TestMapLogicalToPhysical_Idempotent(t *testing.T) {
	for logical := range logicalToPhysical {
		first := MapLogicalToPhysical(logical)
		second := MapLogicalToPhysical(first)
		assert.Equal(t, second, MapLogicalToPhysical(second),
			"mapping %s: %s -> %s must be stable", logical, first, second)
	}
}

func TestDefaultLength(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected *int
	}{
		{"varchar", "VARCHAR", intPtr(255)},
		{"char", "CHAR", intPtr(36)},
		{"decimal", "DECIMAL", intPtr(18)},
		{"lowercase", "varchar", intPtr(255)},
		{"no default for int", "INT", nil},
		{"no default for date", "DATE", nil},
		{"unknown", "GEOGRAPHY", nil},
		{"empty", "", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DefaultLength(tt.input)
			if tt.expected == nil {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			assert.Equal(t, *tt.expected, *got)
		})
	}
}

// Returned pointers must not alias the table.
func TestDefaultLength_CopySemantics(t *testing.T) {
	a := DefaultLength("VARCHAR")
	require.NotNil(t, a)
	*a = 1
	b := DefaultLength("VARCHAR")
	require.NotNil(t, b)
	assert.Equal(t, 255, *b)
}

func intPtr(v int) *int { return &v }
