package objects

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/strata-studio/strata/domain/models"
)

func TestBuildObjectProjection(t *testing.T) {
	model := &models.DataModel{ID: uuid.New(), Layer: models.LayerLogical}
	obj := &DataObject{ID: uuid.New(), Name: "Customer"}

	t.Run("defaults", func(t *testing.T) {
		mo := BuildObjectProjection(model, obj, ProjectionOverrides{})
		assert.Equal(t, model.ID, mo.ModelID)
		require.NotNil(t, mo.ObjectID)
		assert.Equal(t, obj.ID, *mo.ObjectID)
		assert.Nil(t, mo.Name)
		assert.True(t, mo.IsVisible)
		assert.Empty(t, mo.Position)
		assert.Empty(t, mo.LayerSpecificConfig)
	})

	t.Run("position keyed by layer", func(t *testing.T) {
		mo := BuildObjectProjection(model, obj, ProjectionOverrides{
			Position: map[string]any{"x": 120, "y": 40},
		})
		require.Contains(t, mo.Position, models.LayerLogical)
		pos, ok := mo.Position[models.LayerLogical].(map[string]any)
		require.True(t, ok)
		assert.Equal(t, 120, pos["x"])
	})

	t.Run("visibility override", func(t *testing.T) {
		hidden := false
		mo := BuildObjectProjection(model, obj, ProjectionOverrides{IsVisible: &hidden})
		assert.False(t, mo.IsVisible)
	})

	t.Run("target system inherited from model", func(t *testing.T) {
		sysID := uuid.New()
		m := &models.DataModel{ID: uuid.New(), Layer: models.LayerPhysical, TargetSystemID: &sysID}
		mo := BuildObjectProjection(m, obj, ProjectionOverrides{})
		require.NotNil(t, mo.TargetSystemID)
		assert.Equal(t, sysID, *mo.TargetSystemID)
	})
}

func TestBuildStandaloneProjection(t *testing.T) {
	model := &models.DataModel{ID: uuid.New(), Layer: models.LayerConceptual}
	objType := "entity"
	mo := BuildStandaloneProjection(model, "Order", &objType, nil, nil, ProjectionOverrides{})
	assert.Nil(t, mo.ObjectID)
	require.NotNil(t, mo.Name)
	assert.Equal(t, "Order", *mo.Name)
	assert.Equal(t, "Order", mo.EffectiveName())
}

func TestBuildAttributeProjection(t *testing.T) {
	mo := &ModelObject{ID: uuid.New(), ModelID: uuid.New()}
	attr := &Attribute{ID: uuid.New(), Name: "email"}

	ma := BuildAttributeProjection(mo, attr)
	assert.Equal(t, mo.ID, ma.ModelObjectID)
	assert.Equal(t, mo.ModelID, ma.ModelID)
	require.NotNil(t, ma.AttributeID)
	assert.Equal(t, attr.ID, *ma.AttributeID)
	assert.Nil(t, ma.Name)
	assert.Nil(t, ma.LogicalType)
}

func TestDeriveTypesForLayer(t *testing.T) {
	strPtr := func(s string) *string { return &s }

	t.Run("logical fills from conceptual", func(t *testing.T) {
		attr := &Attribute{ConceptualType: strPtr("Text")}
		DeriveTypesForLayer(attr, models.LayerLogical)
		require.NotNil(t, attr.LogicalType)
		assert.Equal(t, "VARCHAR", *attr.LogicalType)
		assert.Nil(t, attr.PhysicalType)
	})

	t.Run("physical fills full chain", func(t *testing.T) {
		attr := &Attribute{ConceptualType: strPtr("Identifier")}
		DeriveTypesForLayer(attr, models.LayerPhysical)
		require.NotNil(t, attr.LogicalType)
		assert.Equal(t, "UUID", *attr.LogicalType)
		require.NotNil(t, attr.PhysicalType)
		assert.Equal(t, "CHAR", *attr.PhysicalType)
		require.NotNil(t, attr.Length)
		assert.Equal(t, 36, *attr.Length)
	})

	t.Run("integer gets no length", func(t *testing.T) {
		attr := &Attribute{LogicalType: strPtr("INTEGER")}
		DeriveTypesForLayer(attr, models.LayerPhysical)
		require.NotNil(t, attr.PhysicalType)
		assert.Equal(t, "INT", *attr.PhysicalType)
		assert.Nil(t, attr.Length)
	})

	t.Run("existing values kept", func(t *testing.T) {
		attr := &Attribute{
			ConceptualType: strPtr("Text"),
			LogicalType:    strPtr("TEXT"),
		}
		DeriveTypesForLayer(attr, models.LayerLogical)
		assert.Equal(t, "TEXT", *attr.LogicalType)
	})

	t.Run("conceptual layer leaves attribute alone", func(t *testing.T) {
		attr := &Attribute{ConceptualType: strPtr("Number")}
		DeriveTypesForLayer(attr, models.LayerConceptual)
		assert.Nil(t, attr.LogicalType)
	})
}

func TestEffectiveType(t *testing.T) {
	strPtr := func(s string) *string { return &s }
	canonical := &Attribute{
		ConceptualType: strPtr("Text"),
		LogicalType:    strPtr("VARCHAR"),
		PhysicalType:   strPtr("VARCHAR"),
	}

	t.Run("falls back to canonical", func(t *testing.T) {
		ma := &ModelAttribute{Attribute: canonical}
		got := EffectiveType(ma, models.LayerLogical)
		require.NotNil(t, got)
		assert.Equal(t, "VARCHAR", *got)
	})

	t.Run("override wins", func(t *testing.T) {
		ma := &ModelAttribute{Attribute: canonical, LogicalType: strPtr("TEXT")}
		got := EffectiveType(ma, models.LayerLogical)
		require.NotNil(t, got)
		assert.Equal(t, "TEXT", *got)
	})

	t.Run("nil without canonical", func(t *testing.T) {
		ma := &ModelAttribute{}
		assert.Nil(t, EffectiveType(ma, models.LayerPhysical))
	})
}
