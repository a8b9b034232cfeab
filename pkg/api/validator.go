package api

import "errors"

// Validator is implemented by request DTOs that can check their own shape.
type Validator interface {
	Validate() error
}

func (r CreateEcosystemRequest) Validate() error {
	if r.Name == "" {
		return errors.New("name is required")
	}
	if r.WaterAvailable < 0 {
		return errors.New("water_available cannot be negative")
	}
	if r.MinWaterToAdd < 0 || r.MaxWaterToAdd < r.MinWaterToAdd {
		return errors.New("water replenishment bounds must satisfy 0 <= minimum <= max")
	}
	return nil
}

func (r MemberRequest) Validate() error {
	if r.Name == "" {
		return errors.New("name is required")
	}
	return nil
}

func (r LinkRequest) Validate() error {
	if r.From == "" || r.To == "" {
		return errors.New("from and to are required")
	}
	if r.From == r.To {
		return errors.New("a species cannot be linked to itself")
	}
	return nil
}
