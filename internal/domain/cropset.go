package domain

import (
	"sort"

	"github.com/google/uuid"
)

// CropIDSet is a set of crop identities. A farm's crop associations are kept
// as a set so duplicates cannot occur.
type CropIDSet map[uuid.UUID]struct{}

// NewCropIDSet builds a set from ids, dropping duplicates.
func NewCropIDSet(ids ...uuid.UUID) CropIDSet {
	set := make(CropIDSet, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set
}

// Contains reports whether id is in the set.
func (s CropIDSet) Contains(id uuid.UUID) bool {
	_, ok := s[id]
	return ok
}

// Len returns the number of ids in the set.
func (s CropIDSet) Len() int {
	return len(s)
}

// Difference returns the ids in s that are not in other.
func (s CropIDSet) Difference(other CropIDSet) CropIDSet {
	out := make(CropIDSet, len(s))
	for id := range s {
		if !other.Contains(id) {
			out[id] = struct{}{}
		}
	}
	return out
}

// Union returns the ids present in either set.
func (s CropIDSet) Union(other CropIDSet) CropIDSet {
	out := make(CropIDSet, len(s)+len(other))
	for id := range s {
		out[id] = struct{}{}
	}
	for id := range other {
		out[id] = struct{}{}
	}
	return out
}

// Equal reports whether both sets hold the same ids.
func (s CropIDSet) Equal(other CropIDSet) bool {
	if len(s) != len(other) {
		return false
	}
	for id := range s {
		if !other.Contains(id) {
			return false
		}
	}
	return true
}

// Slice returns the ids ordered by their string form.
func (s CropIDSet) Slice() []uuid.UUID {
	ids := make([]uuid.UUID, 0, len(s))
	for id := range s {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool {
		return ids[i].String() < ids[j].String()
	})
	return ids
}

// PlanCropAddition computes requested - current, the crops that still need to
// be associated. An empty result means the request would have no effect and
// is reported as ErrNoChangeRequested.
func PlanCropAddition(current, requested CropIDSet) (CropIDSet, error) {
	toAdd := requested.Difference(current)
	if toAdd.Len() == 0 {
		return nil, ErrNoChangeRequested
	}
	return toAdd, nil
}

// PlanCropRemoval computes current - requested, the associations that remain.
// If nothing would be removed it returns ErrNoAssociationFound.
func PlanCropRemoval(current, requested CropIDSet) (CropIDSet, error) {
	remaining := current.Difference(requested)
	if remaining.Equal(current) {
		return nil, ErrNoAssociationFound
	}
	return remaining, nil
}
