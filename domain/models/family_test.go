package models

import (
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/strata-studio/strata/pkg/apperror"
)

func newModel(layer string, parent *uuid.UUID) *DataModel {
	return &DataModel{
		ID:            uuid.New(),
		Name:          "Sales",
		Layer:         layer,
		ParentModelID: parent,
	}
}

func TestBuildFamily_FullFamily(t *testing.T) {
	conceptual := newModel(LayerConceptual, nil)
	logical := newModel(LayerLogical, &conceptual.ID)
	physical := newModel(LayerPhysical, &conceptual.ID)
	all := []*DataModel{conceptual, logical, physical}

	// Resolution must land on the same family from any starting member.
	for _, start := range all {
		family, err := BuildFamily(all, start.ID)
		require.NoError(t, err, "starting from %s", start.Layer)
		assert.Equal(t, conceptual.ID, family.Conceptual.ID)
		require.NotNil(t, family.Logical)
		assert.Equal(t, logical.ID, family.Logical.ID)
		require.NotNil(t, family.Physical)
		assert.Equal(t, physical.ID, family.Physical.ID)
	}
}

func TestBuildFamily_ChainedParents(t *testing.T) {
	// Physical pointing at logical instead of the conceptual root still
	// resolves through the chain.
	conceptual := newModel(LayerConceptual, nil)
	logical := newModel(LayerLogical, &conceptual.ID)
	physical := newModel(LayerPhysical, &logical.ID)
	all := []*DataModel{conceptual, logical, physical}

	family, err := BuildFamily(all, physical.ID)
	require.NoError(t, err)
	assert.Equal(t, conceptual.ID, family.Conceptual.ID)
	require.NotNil(t, family.Physical)
	assert.Equal(t, physical.ID, family.Physical.ID)
}

func TestBuildFamily_MissingSiblingLayers(t *testing.T) {
	conceptual := newModel(LayerConceptual, nil)
	logical := newModel(LayerLogical, &conceptual.ID)
	all := []*DataModel{conceptual, logical}

	family, err := BuildFamily(all, conceptual.ID)
	require.NoError(t, err)
	assert.NotNil(t, family.Logical)
	assert.Nil(t, family.Physical)
}

func TestBuildFamily_OtherFamiliesExcluded(t *testing.T) {
	conceptualA := newModel(LayerConceptual, nil)
	logicalA := newModel(LayerLogical, &conceptualA.ID)
	conceptualB := newModel(LayerConceptual, nil)
	logicalB := newModel(LayerLogical, &conceptualB.ID)
	all := []*DataModel{conceptualA, logicalA, conceptualB, logicalB}

	family, err := BuildFamily(all, logicalA.ID)
	require.NoError(t, err)
	assert.Equal(t, conceptualA.ID, family.Conceptual.ID)
	assert.Equal(t, logicalA.ID, family.Logical.ID)
}

func TestBuildFamily_Cycle(t *testing.T) {
	a := newModel(LayerLogical, nil)
	b := newModel(LayerPhysical, &a.ID)
	a.ParentModelID = &b.ID

	_, err := BuildFamily([]*DataModel{a, b}, a.ID)
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperror.ErrCycleOrMissingRoot))
}

func TestBuildFamily_MissingParent(t *testing.T) {
	ghost := uuid.New()
	orphan := newModel(LayerLogical, &ghost)

	_, err := BuildFamily([]*DataModel{orphan}, orphan.ID)
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperror.ErrCycleOrMissingRoot))
}

func TestBuildFamily_NonConceptualRoot(t *testing.T) {
	// A logical model with no parent has no conceptual root to resolve.
	stranded := newModel(LayerLogical, nil)

	_, err := BuildFamily([]*DataModel{stranded}, stranded.ID)
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperror.ErrCycleOrMissingRoot))
}

func TestBuildFamily_DuplicateLayerConflict(t *testing.T) {
	conceptual := newModel(LayerConceptual, nil)
	logical1 := newModel(LayerLogical, &conceptual.ID)
	logical2 := newModel(LayerLogical, &conceptual.ID)

	_, err := BuildFamily([]*DataModel{conceptual, logical1, logical2}, conceptual.ID)
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperror.ErrConflict))
}

func TestBuildFamily_UnknownStart(t *testing.T) {
	_, err := BuildFamily(nil, uuid.New())
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperror.ErrNotFound))
}

func TestModelFamily_Siblings(t *testing.T) {
	conceptual := newModel(LayerConceptual, nil)
	logical := newModel(LayerLogical, &conceptual.ID)
	family := &ModelFamily{Conceptual: conceptual, Logical: logical}

	sibs := family.Siblings(LayerConceptual)
	require.Len(t, sibs, 1)
	assert.Equal(t, logical.ID, sibs[0].ID)

	sibs = family.Siblings(LayerLogical)
	require.Len(t, sibs, 1)
	assert.Equal(t, conceptual.ID, sibs[0].ID)
}

func TestNextLayer(t *testing.T) {
	assert.Equal(t, LayerLogical, NextLayer(LayerConceptual))
	assert.Equal(t, LayerPhysical, NextLayer(LayerLogical))
	assert.Equal(t, "", NextLayer(LayerPhysical))
	assert.Equal(t, "", NextLayer("bogus"))
}
