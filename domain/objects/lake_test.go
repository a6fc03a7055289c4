package objects

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func lakeEntry(name string, attrs, instances, rels int) *LakeEntry {
	entry := &LakeEntry{
		DataObject:  &DataObject{ID: uuid.New(), Name: name},
		Projections: map[string][]*ModelObject{},
		Stats: LakeEntryStats{
			AttributeCount:    attrs,
			InstanceCount:     instances,
			RelationshipCount: rels,
		},
	}
	for i := 0; i < rels; i++ {
		entry.Relationships = append(entry.Relationships, RelationshipSummary{Type: "1:N"})
	}
	return entry
}

func TestLakeEntryMatches(t *testing.T) {
	boolPtr := func(v bool) *bool { return &v }
	strPtr := func(v string) *string { return &v }

	withAttrs := lakeEntry("Order", 3, 1, 0)
	bare := lakeEntry("Customer", 0, 1, 0)

	t.Run("hasAttributes false keeps only attribute-free objects", func(t *testing.T) {
		params := LakeParams{HasAttributes: boolPtr(false)}
		assert.False(t, lakeEntryMatches(withAttrs, params))
		assert.True(t, lakeEntryMatches(bare, params))
	})

	t.Run("hasAttributes true keeps only objects with attributes", func(t *testing.T) {
		params := LakeParams{HasAttributes: boolPtr(true)}
		assert.True(t, lakeEntryMatches(withAttrs, params))
		assert.False(t, lakeEntryMatches(bare, params))
	})

	t.Run("layer filter requires a projection in that layer", func(t *testing.T) {
		entry := lakeEntry("Order", 0, 1, 0)
		entry.Projections["conceptual"] = []*ModelObject{{ID: uuid.New()}}
		assert.True(t, lakeEntryMatches(entry, LakeParams{Layer: strPtr("conceptual")}))
		assert.False(t, lakeEntryMatches(entry, LakeParams{Layer: strPtr("physical")}))
	})

	t.Run("model filter requires a projection in that model", func(t *testing.T) {
		modelID := uuid.New()
		entry := lakeEntry("Order", 0, 1, 0)
		entry.Projections["logical"] = []*ModelObject{{ID: uuid.New(), ModelID: modelID}}
		assert.True(t, lakeEntryMatches(entry, LakeParams{ModelID: &modelID}))
		other := uuid.New()
		assert.False(t, lakeEntryMatches(entry, LakeParams{ModelID: &other}))
	})

	t.Run("relationship type filter matches any touching relationship", func(t *testing.T) {
		entry := lakeEntry("Order", 0, 1, 2)
		assert.True(t, lakeEntryMatches(entry, LakeParams{RelationshipType: strPtr("1:N")}))
		assert.False(t, lakeEntryMatches(entry, LakeParams{RelationshipType: strPtr("N:M")}))
	})
}

func TestSortLakeEntries(t *testing.T) {
	a := lakeEntry("alpha", 1, 0, 5)
	b := lakeEntry("Bravo", 3, 0, 1)
	c := lakeEntry("charlie", 2, 0, 3)
	b.UpdatedAt = time.Now()
	a.UpdatedAt = b.UpdatedAt.Add(-time.Hour)
	c.UpdatedAt = b.UpdatedAt.Add(-2 * time.Hour)

	t.Run("defaults to case-insensitive name", func(t *testing.T) {
		entries := []*LakeEntry{c, a, b}
		sortLakeEntries(entries, "", false)
		assert.Equal(t, []string{"alpha", "Bravo", "charlie"}, entryNames(entries))
	})

	t.Run("attributeCount descending", func(t *testing.T) {
		entries := []*LakeEntry{a, b, c}
		sortLakeEntries(entries, "attributeCount", true)
		assert.Equal(t, []string{"Bravo", "charlie", "alpha"}, entryNames(entries))
	})

	t.Run("relationshipCount ascending", func(t *testing.T) {
		entries := []*LakeEntry{a, b, c}
		sortLakeEntries(entries, "relationshipCount", false)
		assert.Equal(t, []string{"Bravo", "charlie", "alpha"}, entryNames(entries))
	})

	t.Run("updatedAt ascending", func(t *testing.T) {
		entries := []*LakeEntry{a, b, c}
		sortLakeEntries(entries, "updatedAt", false)
		assert.Equal(t, []string{"charlie", "alpha", "Bravo"}, entryNames(entries))
	})
}

func TestPaginate(t *testing.T) {
	entries := []*LakeEntry{
		lakeEntry("a", 0, 0, 0),
		lakeEntry("b", 0, 0, 0),
		lakeEntry("c", 0, 0, 0),
	}

	page := paginate(entries, 0, 2)
	require.Len(t, page, 2)
	assert.Equal(t, "a", page[0].Name)

	page = paginate(entries, 2, 2)
	require.Len(t, page, 1)
	assert.Equal(t, "c", page[0].Name)

	assert.Empty(t, paginate(entries, 5, 2))
	assert.Len(t, paginate(entries, 0, 0), 3)
}

func entryNames(entries []*LakeEntry) []string {
	names := make([]string, len(entries))
	for i, e := range entries {
		names[i] = e.Name
	}
	return names
}
