package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/phrazzld/agrofarm-api/internal/domain"
	"github.com/phrazzld/agrofarm-api/internal/store"
)

// ResolveCrops loads every crop in ids with a single batch lookup. If any id
// does not resolve, nothing is returned and the error is a
// *domain.CropsNotFoundError listing all missing ids.
func ResolveCrops(ctx context.Context, crops store.CropStore, ids domain.CropIDSet) ([]*domain.Crop, error) {
	if ids.Len() == 0 {
		return []*domain.Crop{}, nil
	}

	found, err := crops.GetByIDs(ctx, ids.Slice())
	if err != nil {
		return nil, err
	}

	foundIDs := make([]uuid.UUID, 0, len(found))
	for _, c := range found {
		foundIDs = append(foundIDs, c.ID)
	}
	if missing := ids.Difference(domain.NewCropIDSet(foundIDs...)); missing.Len() > 0 {
		return nil, domain.NewCropsNotFoundError(missing.Slice())
	}

	return found, nil
}

// AddCrops plans and applies an addition to farm's crop set in memory.
// It returns the crops that were attached. Requesting only crops that are
// already associated fails with domain.ErrNoChangeRequested; an unknown id
// fails the whole call and leaves farm untouched.
func AddCrops(
	ctx context.Context,
	crops store.CropStore,
	farm *domain.Farm,
	requested domain.CropIDSet,
) ([]*domain.Crop, error) {
	toAdd, err := domain.PlanCropAddition(farm.CropIDs(), requested)
	if err != nil {
		return nil, err
	}

	resolved, err := ResolveCrops(ctx, crops, toAdd)
	if err != nil {
		return nil, err
	}

	farm.AttachCrops(resolved)
	return resolved, nil
}

// RemoveCrops plans and applies a removal from farm's crop set in memory and
// returns the ids that were dissociated. If none of the requested ids is
// associated it fails with domain.ErrNoAssociationFound.
func RemoveCrops(farm *domain.Farm, requested domain.CropIDSet) ([]uuid.UUID, error) {
	current := farm.CropIDs()
	remaining, err := domain.PlanCropRemoval(current, requested)
	if err != nil {
		return nil, err
	}

	farm.RetainCrops(remaining)
	return current.Difference(remaining).Slice(), nil
}

func cropIDsOf(crops []*domain.Crop) []uuid.UUID {
	ids := make([]uuid.UUID, len(crops))
	for i, c := range crops {
		ids[i] = c.ID
	}
	return ids
}
