package capabilities

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildTree(t *testing.T) {
	rootA := &BusinessCapability{ID: uuid.New(), Name: "Customer Management"}
	rootB := &BusinessCapability{ID: uuid.New(), Name: "Risk"}
	childA1 := &BusinessCapability{ID: uuid.New(), Name: "Onboarding", ParentID: &rootA.ID}
	childA2 := &BusinessCapability{ID: uuid.New(), Name: "Retention", ParentID: &rootA.ID}
	grandchild := &BusinessCapability{ID: uuid.New(), Name: "KYC", ParentID: &childA1.ID}

	t.Run("forest assembly", func(t *testing.T) {
		roots := BuildTree([]*BusinessCapability{rootA, rootB, childA1, childA2, grandchild})
		require.Len(t, roots, 2)
		require.Len(t, rootA.Children, 2)
		require.Len(t, childA1.Children, 1)
		assert.Equal(t, "KYC", childA1.Children[0].Name)
		assert.Empty(t, rootB.Children)
	})

	t.Run("listing order preserved among children", func(t *testing.T) {
		roots := BuildTree([]*BusinessCapability{rootA, childA2, childA1})
		require.Len(t, roots, 1)
		require.Len(t, rootA.Children, 2)
		assert.Equal(t, "Retention", rootA.Children[0].Name)
		assert.Equal(t, "Onboarding", rootA.Children[1].Name)
	})

	t.Run("dangling parent promotes to root", func(t *testing.T) {
		missing := uuid.New()
		orphan := &BusinessCapability{ID: uuid.New(), Name: "Orphan", ParentID: &missing}
		roots := BuildTree([]*BusinessCapability{orphan})
		require.Len(t, roots, 1)
		assert.Equal(t, "Orphan", roots[0].Name)
	})

	t.Run("empty input", func(t *testing.T) {
		assert.Empty(t, BuildTree(nil))
	})
}

func TestIsValidTargetKind(t *testing.T) {
	for _, valid := range []string{"domain", "area", "system", "model"} {
		assert.True(t, IsValidTargetKind(valid), valid)
	}
	assert.False(t, IsValidTargetKind("object"))
	assert.False(t, IsValidTargetKind(""))
}
