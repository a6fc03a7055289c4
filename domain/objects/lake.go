package objects

import (
	"context"
	"sort"
	"strings"

	"github.com/google/uuid"
)

// RelationshipSummary is the lake's view of one canonical relationship: the
// global row plus the ids of the model rows rendering it.
type RelationshipSummary struct {
	GlobalRelationshipID uuid.UUID   `json:"globalRelationshipId"`
	ModelRelationshipIDs []uuid.UUID `json:"modelRelationshipIds"`
	Type                 string      `json:"type"`
	RelationshipLevel    string      `json:"relationshipLevel"`
	SourceObjectID       uuid.UUID   `json:"sourceObjectId"`
	TargetObjectID       uuid.UUID   `json:"targetObjectId"`
}

// RelationshipSource reports the canonical relationships touching each
// object. Implemented by the relationships domain and wired through an
// adapter to avoid a circular dependency (objects -> relationships ->
// objects).
type RelationshipSource interface {
	SummariesByObject(ctx context.Context) (map[uuid.UUID][]RelationshipSummary, error)
}

// SetRelationshipSource wires the relationship source after construction.
func (s *Service) SetRelationshipSource(rs RelationshipSource) {
	s.relSource = rs
}

// LakeEntryStats are per-object usage counts.
type LakeEntryStats struct {
	AttributeCount    int `json:"attributeCount"`
	InstanceCount     int `json:"instanceCount"`
	RelationshipCount int `json:"relationshipCount"`
}

// LakeEntry is one object in the lake view: the canonical row, its
// per-layer projections, its relationships, and usage counts.
type LakeEntry struct {
	*DataObject
	Projections   map[string][]*ModelObject `json:"projections"`
	Relationships []RelationshipSummary     `json:"relationships"`
	Stats         LakeEntryStats            `json:"stats"`
}

// LakeStats summarizes the lake listing.
type LakeStats struct {
	Total      int `json:"total"`
	NewCount   int `json:"newCount"`
	Unassigned int `json:"unassigned"`
}

// LakeResult is the object lake response payload.
type LakeResult struct {
	Objects []*LakeEntry `json:"objects"`
	Stats   LakeStats    `json:"stats"`
}

// LakeParams extends the object listing filters with lake-only ones.
type LakeParams struct {
	ObjectListParams
	ModelID          *uuid.UUID
	Layer            *string
	HasAttributes    *bool
	RelationshipType *string
	Limit            int
	Offset           int
}

// ObjectLake returns the filtered canonical object listing enriched with
// per-layer projections, relationships, and usage counts. The lake is the
// cross-model inventory of everything defined anywhere.
func (s *Service) ObjectLake(ctx context.Context, params LakeParams) (*LakeResult, error) {
	objs, err := s.repo.ListObjects(ctx, params.ObjectListParams)
	if err != nil {
		return nil, err
	}

	layerByModel, err := s.modelLayers(ctx)
	if err != nil {
		return nil, err
	}
	projections, err := s.repo.ListCanonicalProjections(ctx)
	if err != nil {
		return nil, err
	}
	byObject := make(map[uuid.UUID]map[string][]*ModelObject)
	for _, mo := range projections {
		layer, ok := layerByModel[mo.ModelID]
		if !ok {
			continue
		}
		perLayer := byObject[*mo.ObjectID]
		if perLayer == nil {
			perLayer = make(map[string][]*ModelObject)
			byObject[*mo.ObjectID] = perLayer
		}
		perLayer[layer] = append(perLayer[layer], mo)
	}

	rels := map[uuid.UUID][]RelationshipSummary{}
	if s.relSource != nil {
		rels, err = s.relSource.SummariesByObject(ctx)
		if err != nil {
			return nil, err
		}
	}

	entries := make([]*LakeEntry, 0, len(objs))
	for _, obj := range objs {
		perLayer := byObject[obj.ID]
		if perLayer == nil {
			perLayer = map[string][]*ModelObject{}
		}
		entry := &LakeEntry{
			DataObject:    obj,
			Projections:   perLayer,
			Relationships: rels[obj.ID],
			Stats: LakeEntryStats{
				AttributeCount:    len(obj.Attributes),
				RelationshipCount: len(rels[obj.ID]),
			},
		}
		for _, mos := range perLayer {
			entry.Stats.InstanceCount += len(mos)
		}
		if !lakeEntryMatches(entry, params) {
			continue
		}
		entries = append(entries, entry)
	}

	sortLakeEntries(entries, params.SortBy, params.SortDesc)

	result := &LakeResult{Stats: LakeStats{Total: len(entries)}}
	for _, entry := range entries {
		if entry.IsNew {
			result.Stats.NewCount++
		}
		if entry.DomainID == nil {
			result.Stats.Unassigned++
		}
	}
	result.Objects = paginate(entries, params.Offset, params.Limit)
	return result, nil
}

func lakeEntryMatches(entry *LakeEntry, params LakeParams) bool {
	if params.HasAttributes != nil && (entry.Stats.AttributeCount > 0) != *params.HasAttributes {
		return false
	}
	if params.Layer != nil && len(entry.Projections[*params.Layer]) == 0 {
		return false
	}
	if params.ModelID != nil {
		found := false
		for _, mos := range entry.Projections {
			for _, mo := range mos {
				if mo.ModelID == *params.ModelID {
					found = true
				}
			}
		}
		if !found {
			return false
		}
	}
	if params.RelationshipType != nil {
		found := false
		for _, rel := range entry.Relationships {
			if rel.Type == *params.RelationshipType {
				found = true
			}
		}
		if !found {
			return false
		}
	}
	return true
}

func sortLakeEntries(entries []*LakeEntry, sortBy string, desc bool) {
	var less func(a, b *LakeEntry) bool
	switch sortBy {
	case "updatedAt":
		less = func(a, b *LakeEntry) bool { return a.UpdatedAt.Before(b.UpdatedAt) }
	case "attributeCount":
		less = func(a, b *LakeEntry) bool { return a.Stats.AttributeCount < b.Stats.AttributeCount }
	case "instanceCount":
		less = func(a, b *LakeEntry) bool { return a.Stats.InstanceCount < b.Stats.InstanceCount }
	case "relationshipCount":
		less = func(a, b *LakeEntry) bool { return a.Stats.RelationshipCount < b.Stats.RelationshipCount }
	default:
		less = func(a, b *LakeEntry) bool {
			return strings.ToLower(a.Name) < strings.ToLower(b.Name)
		}
	}
	sort.SliceStable(entries, func(i, j int) bool {
		if desc {
			return less(entries[j], entries[i])
		}
		return less(entries[i], entries[j])
	})
}

func paginate(entries []*LakeEntry, offset, limit int) []*LakeEntry {
	if offset >= len(entries) {
		return []*LakeEntry{}
	}
	entries = entries[offset:]
	if limit > 0 && limit < len(entries) {
		entries = entries[:limit]
	}
	return entries
}

func (s *Service) modelLayers(ctx context.Context) (map[uuid.UUID]string, error) {
	all, err := s.models.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	layers := make(map[uuid.UUID]string, len(all))
	for _, m := range all {
		layers[m.ID] = m.Layer
	}
	return layers, nil
}
