package relationships

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestBuildKey(t *testing.T) {
	a := uuid.New()
	b := uuid.New()
	attrA := uuid.New()
	attrB := uuid.New()

	t.Run("direction is significant", func(t *testing.T) {
		forward := BuildKey(a, b, LevelObject, nil, nil)
		reverse := BuildKey(b, a, LevelObject, nil, nil)
		assert.NotEqual(t, forward.String(), reverse.String())
	})

	t.Run("same inputs yield same key", func(t *testing.T) {
		k1 := BuildKey(a, b, LevelAttribute, &attrA, &attrB)
		k2 := BuildKey(a, b, LevelAttribute, &attrA, &attrB)
		assert.Equal(t, k1, k2)
		assert.Equal(t, k1.String(), k2.String())
	})

	t.Run("object level ignores attribute ids", func(t *testing.T) {
		bare := BuildKey(a, b, LevelObject, nil, nil)
		withAttrs := BuildKey(a, b, LevelObject, &attrA, &attrB)
		assert.Equal(t, bare, withAttrs)
	})

	t.Run("attribute ids distinguish attribute-level keys", func(t *testing.T) {
		k1 := BuildKey(a, b, LevelAttribute, &attrA, nil)
		k2 := BuildKey(a, b, LevelAttribute, &attrB, nil)
		assert.NotEqual(t, k1.String(), k2.String())
	})

	t.Run("object and attribute level edges coexist", func(t *testing.T) {
		obj := BuildKey(a, b, LevelObject, nil, nil)
		attr := BuildKey(a, b, LevelAttribute, &attrA, &attrB)
		assert.NotEqual(t, obj.String(), attr.String())
	})

	t.Run("wire form is stable", func(t *testing.T) {
		k := BuildKey(a, b, LevelObject, nil, nil)
		assert.Equal(t, "src:"+a.String()+"|dst:"+b.String()+"|lvl:object", k.String())
	})
}

func TestIsValidType(t *testing.T) {
	for _, valid := range []string{"1:1", "1:N", "N:1", "N:M", "M:N"} {
		assert.True(t, IsValidType(valid), valid)
	}
	for _, invalid := range []string{"", "1:n", "one-to-many", "N:N"} {
		assert.False(t, IsValidType(invalid), invalid)
	}
}

func TestIsValidLevel(t *testing.T) {
	assert.True(t, IsValidLevel("object"))
	assert.True(t, IsValidLevel("attribute"))
	assert.False(t, IsValidLevel("model"))
	assert.False(t, IsValidLevel(""))
}
