package models

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/strata-studio/strata/pkg/apperror"
)

// ModelFamily is the set of sibling layer models sharing one conceptual
// root. Logical and physical are optional; propagation into a missing layer
// is skipped, never an error.
type ModelFamily struct {
	Conceptual *DataModel
	Logical    *DataModel
	Physical   *DataModel
}

// ForLayer returns the family member at the given layer, or nil.
func (f *ModelFamily) ForLayer(layer string) *DataModel {
	switch layer {
	case LayerConceptual:
		return f.Conceptual
	case LayerLogical:
		return f.Logical
	case LayerPhysical:
		return f.Physical
	}
	return nil
}

// Siblings returns the family members other than the given layer, in
// derivation order.
func (f *ModelFamily) Siblings(layer string) []*DataModel {
	var out []*DataModel
	for _, l := range Layers {
		if l == layer {
			continue
		}
		if m := f.ForLayer(l); m != nil {
			out = append(out, m)
		}
	}
	return out
}

// BuildFamily resolves the family of the model with startID from a full
// model listing loaded once. The parent chain is walked with a visited set,
// so a cyclic or dangling ParentModelID surfaces as ErrCycleOrMissingRoot
// instead of an endless walk. More than one sibling claiming the same layer
// is a data-integrity conflict and is surfaced, not silently resolved.
func BuildFamily(all []*DataModel, startID uuid.UUID) (*ModelFamily, error) {
	index := make(map[uuid.UUID]*DataModel, len(all))
	for _, m := range all {
		index[m.ID] = m
	}

	start, ok := index[startID]
	if !ok {
		return nil, apperror.NewNotFound("data model", startID.String())
	}

	root, err := findRoot(index, start)
	if err != nil {
		return nil, err
	}

	family := &ModelFamily{Conceptual: root}

	// rootCache memoizes chain walks so sibling detection is one pass.
	rootCache := map[uuid.UUID]uuid.UUID{root.ID: root.ID}
	for _, m := range all {
		if m.ID == root.ID {
			continue
		}
		r, err := rootOf(index, m, rootCache)
		if err != nil {
			// A broken chain elsewhere in the table must not poison this
			// family's resolution.
			continue
		}
		if r != root.ID {
			continue
		}
		switch m.Layer {
		case LayerLogical:
			if family.Logical != nil {
				return nil, apperror.NewConflict(fmt.Sprintf(
					"models %s and %s both claim the logical layer of family %s",
					family.Logical.ID, m.ID, root.ID))
			}
			family.Logical = m
		case LayerPhysical:
			if family.Physical != nil {
				return nil, apperror.NewConflict(fmt.Sprintf(
					"models %s and %s both claim the physical layer of family %s",
					family.Physical.ID, m.ID, root.ID))
			}
			family.Physical = m
		case LayerConceptual:
			return nil, apperror.ErrCycleOrMissingRoot.WithMessage(fmt.Sprintf(
				"conceptual model %s has a parent chain into family %s", m.ID, root.ID))
		}
	}

	return family, nil
}

// findRoot walks the parent chain from m to its conceptual root.
func findRoot(index map[uuid.UUID]*DataModel, m *DataModel) (*DataModel, error) {
	visited := map[uuid.UUID]bool{}
	cur := m
	for {
		if visited[cur.ID] {
			return nil, apperror.ErrCycleOrMissingRoot.WithMessage(fmt.Sprintf(
				"cycle in parent chain at model %s", cur.ID))
		}
		visited[cur.ID] = true

		if cur.ParentModelID == nil {
			if cur.Layer != LayerConceptual {
				return nil, apperror.ErrCycleOrMissingRoot.WithMessage(fmt.Sprintf(
					"%s model %s has no parent and is not a conceptual root", cur.Layer, cur.ID))
			}
			return cur, nil
		}

		parent, ok := index[*cur.ParentModelID]
		if !ok {
			return nil, apperror.ErrCycleOrMissingRoot.WithMessage(fmt.Sprintf(
				"model %s references missing parent %s", cur.ID, *cur.ParentModelID))
		}
		cur = parent
	}
}

func rootOf(index map[uuid.UUID]*DataModel, m *DataModel, cache map[uuid.UUID]uuid.UUID) (uuid.UUID, error) {
	if r, ok := cache[m.ID]; ok {
		return r, nil
	}
	root, err := findRoot(index, m)
	if err != nil {
		return uuid.Nil, err
	}
	cache[m.ID] = root.ID
	return root.ID, nil
}
