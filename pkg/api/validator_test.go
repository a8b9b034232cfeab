package api

import "testing"

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		payload Validator
		wantErr bool
	}{
		{"ecosystem ok", CreateEcosystemRequest{Name: "Savanna", WaterAvailable: 1000, MinWaterToAdd: 50, MaxWaterToAdd: 200}, false},
		{"ecosystem without name", CreateEcosystemRequest{WaterAvailable: 10}, true},
		{"ecosystem negative water", CreateEcosystemRequest{Name: "Dry", WaterAvailable: -1}, true},
		{"ecosystem inverted bounds", CreateEcosystemRequest{Name: "Lake", MinWaterToAdd: 200, MaxWaterToAdd: 50}, true},
		{"member ok", MemberRequest{Name: "Lion"}, false},
		{"member empty", MemberRequest{}, true},
		{"link ok", LinkRequest{From: "Lion", To: "Zebra"}, false},
		{"link missing side", LinkRequest{From: "Lion"}, true},
		{"link to self", LinkRequest{From: "Lion", To: "Lion"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.payload.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
