package palletways

import (
	"testing"
	"time"

	"github.com/flaboy/aira-freight/pkg/extensions/carriers/utils"
)

func TestValidateServiceCode(t *testing.T) {
	for _, code := range []string{"A", "B", "C", "D", "E", "F", "H", "L", "O"} {
		if err := ValidateServiceCode(code); err != nil {
			t.Errorf("service %q rejected: %v", code, err)
		}
	}
	if err := ValidateServiceCode("Z"); err == nil {
		t.Error("unknown service code accepted")
	}
}

func TestEstimateDeliveryDate(t *testing.T) {
	collection := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	tests := []struct {
		code string
		days int
	}{
		{"A", 1}, {"E", 1}, {"B", 2}, {"L", 3}, {"O", 5},
		{"unknown", 2},
	}
	for _, tt := range tests {
		want := collection.AddDate(0, 0, tt.days)
		if got := EstimateDeliveryDate(tt.code, collection); !got.Equal(want) {
			t.Errorf("EstimateDeliveryDate(%q) = %v, want %v", tt.code, got, want)
		}
	}
}

func TestQuoteShipment(t *testing.T) {
	tests := []struct {
		name string
		req  utils.ShipmentRequest
		want string
	}{
		{"next day light", utils.ShipmentRequest{ServiceCode: "A", WeightKg: 100}, "80"},
		{"economy light", utils.ShipmentRequest{ServiceCode: "B", WeightKg: 100}, "50"},
		{"unknown service default", utils.ShipmentRequest{ServiceCode: "X", WeightKg: 100}, "50"},
		{"mid weight multiplier", utils.ShipmentRequest{ServiceCode: "B", WeightKg: 250}, "60"},
		{"heavy multiplier", utils.ShipmentRequest{ServiceCode: "B", WeightKg: 600}, "75"},
		{"very heavy multiplier", utils.ShipmentRequest{ServiceCode: "B", WeightKg: 1100}, "100"},
		{"tail lift surcharge", utils.ShipmentRequest{ServiceCode: "B", WeightKg: 400, TailLift: true}, "75"},
		{"tail lift below threshold free", utils.ShipmentRequest{ServiceCode: "B", WeightKg: 200, TailLift: true}, "50"},
		{"book in surcharge", utils.ShipmentRequest{ServiceCode: "B", WeightKg: 100, BookInRequest: true}, "60"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := QuoteShipment(&tt.req)
			if got.String() != tt.want {
				t.Errorf("QuoteShipment = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestAutoFlags(t *testing.T) {
	if NeedsTailLift(300) || !NeedsTailLift(301) {
		t.Error("tail lift threshold should sit at 300kg exclusive")
	}
	if NeedsBookIn(500) || !NeedsBookIn(501) {
		t.Error("book in threshold should sit at 500kg exclusive")
	}
}
