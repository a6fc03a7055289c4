package relationships

import (
	"strings"

	"github.com/google/uuid"
)

// Relationship cardinalities.
const (
	TypeOneToOne   = "1:1"
	TypeOneToMany  = "1:N"
	TypeManyToOne  = "N:1"
	TypeManyToMany = "N:M"
	TypeManyMany   = "M:N"
)

// Relationship levels.
const (
	LevelObject    = "object"
	LevelAttribute = "attribute"
)

// IsValidType reports whether t names a known cardinality.
func IsValidType(t string) bool {
	switch t {
	case TypeOneToOne, TypeOneToMany, TypeManyToOne, TypeManyToMany, TypeManyMany:
		return true
	}
	return false
}

// IsValidLevel reports whether l names a known relationship level.
func IsValidLevel(l string) bool {
	return l == LevelObject || l == LevelAttribute
}

// Key identifies a canonical relationship for deduplication. Direction is
// significant: A->B and B->A are distinct relationships. Attribute ids
// participate only for attribute-level relationships, so the same object
// pair can carry an object-level edge and several attribute-level edges.
type Key struct {
	SourceObjectID uuid.UUID
	TargetObjectID uuid.UUID
	Level          string
	SourceAttrID   *uuid.UUID
	TargetAttrID   *uuid.UUID
}

// String renders the key in its stable wire form.
func (k Key) String() string {
	var b strings.Builder
	b.WriteString("src:")
	b.WriteString(k.SourceObjectID.String())
	b.WriteString("|dst:")
	b.WriteString(k.TargetObjectID.String())
	b.WriteString("|lvl:")
	b.WriteString(k.Level)
	if k.Level == LevelAttribute {
		if k.SourceAttrID != nil {
			b.WriteString("|sattr:")
			b.WriteString(k.SourceAttrID.String())
		}
		if k.TargetAttrID != nil {
			b.WriteString("|tattr:")
			b.WriteString(k.TargetAttrID.String())
		}
	}
	return b.String()
}

// BuildKey constructs the dedup key for a relationship. Object-level keys
// ignore any attribute ids the caller happens to pass.
func BuildKey(sourceObjectID, targetObjectID uuid.UUID, level string, sourceAttrID, targetAttrID *uuid.UUID) Key {
	k := Key{
		SourceObjectID: sourceObjectID,
		TargetObjectID: targetObjectID,
		Level:          level,
	}
	if level == LevelAttribute {
		k.SourceAttrID = sourceAttrID
		k.TargetAttrID = targetAttrID
	}
	return k
}
