package relationships

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/strata-studio/strata/domain/models"
	"github.com/strata-studio/strata/domain/objects"
)

func TestDeclareParamsNormalized(t *testing.T) {
	srcAttr := uuid.New()
	tgtAttr := uuid.New()

	t.Run("object level drops stray attribute ids", func(t *testing.T) {
		params := DeclareParams{
			RelationshipLevel: LevelObject,
			SourceAttributeID: &srcAttr,
			TargetAttributeID: &tgtAttr,
		}.normalized()
		assert.Nil(t, params.SourceAttributeID)
		assert.Nil(t, params.TargetAttributeID)
	})

	t.Run("attribute level keeps them", func(t *testing.T) {
		params := DeclareParams{
			RelationshipLevel: LevelAttribute,
			SourceAttributeID: &srcAttr,
			TargetAttributeID: &tgtAttr,
		}.normalized()
		require.NotNil(t, params.SourceAttributeID)
		require.NotNil(t, params.TargetAttributeID)
		assert.Equal(t, srcAttr, *params.SourceAttributeID)
		assert.Equal(t, tgtAttr, *params.TargetAttributeID)
	})
}

func TestBuildSiblingRow(t *testing.T) {
	global := &GlobalRelationship{ID: uuid.New()}
	modelID := uuid.New()
	source := &objects.ModelObject{ID: uuid.New()}
	target := &objects.ModelObject{ID: uuid.New()}
	srcAttr := &objects.ModelAttribute{ID: uuid.New()}
	tgtAttr := &objects.ModelAttribute{ID: uuid.New()}

	t.Run("skips when a projection is missing", func(t *testing.T) {
		_, ok := buildSiblingRow(global, TypeOneToMany, LevelObject, modelID, nil, target, nil, nil)
		assert.False(t, ok)
		_, ok = buildSiblingRow(global, TypeOneToMany, LevelObject, modelID, source, nil, nil, nil)
		assert.False(t, ok)
	})

	t.Run("skips attribute level when either attribute projection is unresolved", func(t *testing.T) {
		_, ok := buildSiblingRow(global, TypeOneToMany, LevelAttribute, modelID, source, target, nil, tgtAttr)
		assert.False(t, ok)
		_, ok = buildSiblingRow(global, TypeOneToMany, LevelAttribute, modelID, source, target, srcAttr, nil)
		assert.False(t, ok)
	})

	t.Run("attribute level carries both local attribute ids", func(t *testing.T) {
		row, ok := buildSiblingRow(global, TypeOneToMany, LevelAttribute, modelID, source, target, srcAttr, tgtAttr)
		require.True(t, ok)
		require.NotNil(t, row.SourceAttributeID)
		require.NotNil(t, row.TargetAttributeID)
		assert.Equal(t, srcAttr.ID, *row.SourceAttributeID)
		assert.Equal(t, tgtAttr.ID, *row.TargetAttributeID)
		require.NotNil(t, row.GlobalRelationshipID)
		assert.Equal(t, global.ID, *row.GlobalRelationshipID)
	})

	t.Run("object level never carries attribute ids", func(t *testing.T) {
		row, ok := buildSiblingRow(global, TypeOneToMany, LevelObject, modelID, source, target, srcAttr, tgtAttr)
		require.True(t, ok)
		assert.Nil(t, row.SourceAttributeID)
		assert.Nil(t, row.TargetAttributeID)
	})
}

func TestResolveDeclaredRow(t *testing.T) {
	existing := &ModelRelationship{ID: uuid.New()}
	fresh := &ModelRelationship{}

	t.Run("redeclaration returns the existing row", func(t *testing.T) {
		row, created := resolveDeclaredRow(existing, fresh)
		assert.False(t, created)
		assert.Same(t, existing, row)
	})

	t.Run("first declaration creates", func(t *testing.T) {
		row, created := resolveDeclaredRow(nil, fresh)
		assert.True(t, created)
		assert.Same(t, fresh, row)
	})
}

func TestUpdateParamsValidate(t *testing.T) {
	id := uuid.New()
	typeNM := TypeManyToMany
	bad := "4:4"

	tests := []struct {
		name    string
		params  UpdateParams
		wantErr bool
	}{
		{"empty update", UpdateParams{}, false},
		{"type change", UpdateParams{Type: &typeNM}, false},
		{"invalid type", UpdateParams{Type: &bad}, true},
		{"source endpoint change rejected", UpdateParams{SourceModelObjectID: &id}, true},
		{"target endpoint change rejected", UpdateParams{TargetModelObjectID: &id}, true},
		{"source attribute change rejected", UpdateParams{SourceAttributeID: &id}, true},
		{"target attribute change rejected", UpdateParams{TargetAttributeID: &id}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.params.validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

// Edges reach a canvas only through a normalized declaration or a sibling
// row built during propagation. This walks both paths and checks the
// per-layer invariants on what each canvas returns.
func TestCanvasEdgeInvariants(t *testing.T) {
	global := &GlobalRelationship{ID: uuid.New()}
	modelID := uuid.New()
	source := &objects.ModelObject{ID: uuid.New()}
	target := &objects.ModelObject{ID: uuid.New()}
	srcAttr := &objects.ModelAttribute{ID: uuid.New()}
	tgtAttr := &objects.ModelAttribute{ID: uuid.New()}

	// Object-level declaration arriving with stray attribute ids.
	strayID := uuid.New()
	declared := DeclareParams{
		RelationshipLevel: LevelObject,
		SourceAttributeID: &strayID,
		TargetAttributeID: &strayID,
	}.normalized()
	objectRow := &ModelRelationship{
		ID:                uuid.New(),
		RelationshipLevel: declared.RelationshipLevel,
		SourceAttributeID: declared.SourceAttributeID,
		TargetAttributeID: declared.TargetAttributeID,
	}

	attrRow, ok := buildSiblingRow(global, TypeManyToOne, LevelAttribute, modelID, source, target, srcAttr, tgtAttr)
	require.True(t, ok)

	stored := []*ModelRelationship{objectRow, attrRow}

	t.Run("conceptual edges never carry attribute ids", func(t *testing.T) {
		for _, edge := range FilterForLayer(stored, models.LayerConceptual) {
			assert.Nil(t, edge.SourceAttributeID)
			assert.Nil(t, edge.TargetAttributeID)
		}
		assert.Len(t, FilterForLayer(stored, models.LayerConceptual), 1)
	})

	t.Run("logical and physical edges always carry both attribute ids", func(t *testing.T) {
		for _, layer := range []string{models.LayerLogical, models.LayerPhysical} {
			edges := FilterForLayer(stored, layer)
			require.Len(t, edges, 1)
			assert.NotNil(t, edges[0].SourceAttributeID)
			assert.NotNil(t, edges[0].TargetAttributeID)
		}
	})
}
