package objects

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildAttributeDerivation(t *testing.T) {
	svc := &Service{}
	objID := uuid.New()
	strPtr := func(s string) *string { return &s }

	t.Run("logical integer maps to physical int without length", func(t *testing.T) {
		attr := svc.buildAttribute(objID, AttributeParams{
			Name:        "order_id",
			LogicalType: strPtr("INTEGER"),
		})
		require.NotNil(t, attr.PhysicalType)
		assert.Equal(t, "INT", *attr.PhysicalType)
		assert.Nil(t, attr.Length)
	})

	t.Run("conceptual text derives full chain", func(t *testing.T) {
		attr := svc.buildAttribute(objID, AttributeParams{
			Name:           "email",
			ConceptualType: strPtr("Text"),
		})
		require.NotNil(t, attr.LogicalType)
		assert.Equal(t, "VARCHAR", *attr.LogicalType)
		require.NotNil(t, attr.PhysicalType)
		assert.Equal(t, "VARCHAR", *attr.PhysicalType)
		require.NotNil(t, attr.Length)
		assert.Equal(t, 255, *attr.Length)
	})

	t.Run("explicit physical type and length respected", func(t *testing.T) {
		length := 100
		attr := svc.buildAttribute(objID, AttributeParams{
			Name:         "code",
			LogicalType:  strPtr("VARCHAR"),
			PhysicalType: strPtr("TEXT"),
			Length:       &length,
		})
		assert.Equal(t, "TEXT", *attr.PhysicalType)
		assert.Equal(t, 100, *attr.Length)
	})

	t.Run("nullable defaults true", func(t *testing.T) {
		attr := svc.buildAttribute(objID, AttributeParams{Name: "note"})
		assert.True(t, attr.Nullable)

		f := false
		attr = svc.buildAttribute(objID, AttributeParams{Name: "id", Nullable: &f, IsPrimaryKey: true})
		assert.False(t, attr.Nullable)
		assert.True(t, attr.IsPrimaryKey)
	})

	t.Run("unknown logical type falls back to varchar", func(t *testing.T) {
		attr := svc.buildAttribute(objID, AttributeParams{
			Name:        "payload",
			LogicalType: strPtr("GEOGRAPHY"),
		})
		require.NotNil(t, attr.PhysicalType)
		assert.Equal(t, "VARCHAR", *attr.PhysicalType)
	})
}
