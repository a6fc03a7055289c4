package relationships

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/strata-studio/strata/domain/models"
)

func TestFilterForLayer(t *testing.T) {
	rels := []*ModelRelationship{
		{ID: uuid.New(), RelationshipLevel: LevelObject},
		{ID: uuid.New(), RelationshipLevel: LevelAttribute},
		{ID: uuid.New(), RelationshipLevel: LevelObject},
		{ID: uuid.New(), RelationshipLevel: LevelAttribute},
	}

	t.Run("conceptual hides attribute-level edges", func(t *testing.T) {
		got := FilterForLayer(rels, models.LayerConceptual)
		require.Len(t, got, 2)
		for _, rel := range got {
			assert.Equal(t, LevelObject, rel.RelationshipLevel)
		}
	})

	t.Run("logical shows attribute-level edges only", func(t *testing.T) {
		got := FilterForLayer(rels, models.LayerLogical)
		require.Len(t, got, 2)
		for _, rel := range got {
			assert.Equal(t, LevelAttribute, rel.RelationshipLevel)
		}
	})

	t.Run("physical shows attribute-level edges only", func(t *testing.T) {
		got := FilterForLayer(rels, models.LayerPhysical)
		require.Len(t, got, 2)
		for _, rel := range got {
			assert.Equal(t, LevelAttribute, rel.RelationshipLevel)
		}
	})

	t.Run("empty input", func(t *testing.T) {
		assert.Empty(t, FilterForLayer(nil, models.LayerConceptual))
	})
}

func TestDeclareParamsValidate(t *testing.T) {
	src := uuid.New()
	tgt := uuid.New()
	attr := uuid.New()

	base := DeclareParams{
		SourceModelObjectID: src,
		TargetModelObjectID: tgt,
		Type:                TypeOneToMany,
		RelationshipLevel:   LevelObject,
	}

	t.Run("valid object level", func(t *testing.T) {
		assert.NoError(t, base.validate())
	})

	t.Run("missing ends", func(t *testing.T) {
		p := base
		p.SourceModelObjectID = uuid.Nil
		assert.Error(t, p.validate())
	})

	t.Run("self relationship rejected", func(t *testing.T) {
		p := base
		p.TargetModelObjectID = src
		assert.Error(t, p.validate())
	})

	t.Run("invalid type", func(t *testing.T) {
		p := base
		p.Type = "many"
		assert.Error(t, p.validate())
	})

	t.Run("attribute level requires attribute ids", func(t *testing.T) {
		p := base
		p.RelationshipLevel = LevelAttribute
		assert.Error(t, p.validate())

		p.SourceAttributeID = &attr
		assert.Error(t, p.validate())

		p.TargetAttributeID = &attr
		assert.NoError(t, p.validate())
	})
}

func TestGlobalRelationshipKey(t *testing.T) {
	srcObj := uuid.New()
	tgtObj := uuid.New()
	gr := &GlobalRelationship{
		SourceObjectID:    srcObj,
		TargetObjectID:    tgtObj,
		Type:              TypeOneToOne,
		RelationshipLevel: LevelObject,
	}
	assert.Equal(t, BuildKey(srcObj, tgtObj, LevelObject, nil, nil), gr.Key())
}
