package domain

import "fmt"

// FarmAreas holds the three area measurements of a farm, in hectares.
type FarmAreas struct {
	Total      float64 `json:"total_area"`
	Arable     float64 `json:"arable_area"`
	Vegetation float64 `json:"vegetation_area"`
}

// ValidateAreas checks the farm area composition rule: the total area must be
// at least the sum of the arable and vegetation areas.
// It returns an error wrapping ErrInvalidAreaComposition when the rule is violated.
func ValidateAreas(total, arable, vegetation float64) error {
	if total < arable+vegetation {
		return fmt.Errorf("%w: total %.4f < arable %.4f + vegetation %.4f",
			ErrInvalidAreaComposition, total, arable, vegetation)
	}
	return nil
}

// Validate checks that every area is positive and that the composition rule holds.
func (a FarmAreas) Validate() error {
	if a.Total <= 0 {
		return NewValidationError("total_area", "must be greater than zero", ErrNonPositiveArea)
	}
	if a.Arable <= 0 {
		return NewValidationError("arable_area", "must be greater than zero", ErrNonPositiveArea)
	}
	if a.Vegetation <= 0 {
		return NewValidationError("vegetation_area", "must be greater than zero", ErrNonPositiveArea)
	}
	return ValidateAreas(a.Total, a.Arable, a.Vegetation)
}

// AreaPatch is a partial area update. Nil fields keep the stored value.
type AreaPatch struct {
	Total      *float64
	Arable     *float64
	Vegetation *float64
}

// IsEmpty reports whether the patch changes nothing.
func (p AreaPatch) IsEmpty() bool {
	return p.Total == nil && p.Arable == nil && p.Vegetation == nil
}

// Merge overlays the patch on the current areas. The result is what must be
// validated, never the patch alone.
func (p AreaPatch) Merge(current FarmAreas) FarmAreas {
	merged := current
	if p.Total != nil {
		merged.Total = *p.Total
	}
	if p.Arable != nil {
		merged.Arable = *p.Arable
	}
	if p.Vegetation != nil {
		merged.Vegetation = *p.Vegetation
	}
	return merged
}
