package validation

import (
	"math"
	"testing"

	"github.com/weatherfordomb/street-condition-simulator/pkg/segment"
)

func TestValidateInventoryClean(t *testing.T) {
	records := []segment.Record{
		{ID: 1, InitialCondition: 80, Length: 300, Width: 30, SurfaceType: "AC", StreetClass: "ART"},
		{ID: 2, InitialCondition: 45, Length: 120, Width: 24, SurfaceType: "PCC", StreetClass: "LOC"},
	}
	r := ValidateInventory(records)
	if !r.Valid || len(r.Warnings) != 0 {
		t.Errorf("clean inventory: %+v", r)
	}
	if len(r.Info) != 1 {
		t.Errorf("expected 1 info, got %d", len(r.Info))
	}
}

func TestValidateInventoryDuplicate(t *testing.T) {
	records := []segment.Record{
		{ID: 7, InitialCondition: 80, Length: 10, Width: 10, SurfaceType: "AC", StreetClass: "ART"},
		{ID: 7, InitialCondition: 80, Length: 10, Width: 10, SurfaceType: "AC", StreetClass: "ART"},
	}
	r := ValidateInventory(records)
	if r.Valid {
		t.Fatal("duplicate ids should invalidate the inventory")
	}
	if r.Errors[0].SegmentID == nil || *r.Errors[0].SegmentID != 7 {
		t.Errorf("segment id not recorded: %+v", r.Errors[0])
	}
}

func TestValidateInventoryWarnings(t *testing.T) {
	records := []segment.Record{
		{ID: 1, InitialCondition: 120, Length: 0, Width: 30, SurfaceType: "brick", StreetClass: "alley"},
	}
	r := ValidateInventory(records)
	if !r.Valid {
		t.Error("warnings alone should not invalidate")
	}
	if len(r.Warnings) != 4 {
		t.Errorf("expected 4 warnings, got %d: %+v", len(r.Warnings), r.Warnings)
	}
}

func TestValidateInventoryNonFiniteCondition(t *testing.T) {
	for _, pci := range []float64{math.NaN(), math.Inf(1), math.Inf(-1)} {
		r := ValidateInventory([]segment.Record{
			{ID: 3, InitialCondition: pci, Length: 100, Width: 30, SurfaceType: "AC", StreetClass: "ART"},
		})
		if r.Valid {
			t.Errorf("condition %v should invalidate the inventory", pci)
			continue
		}
		if r.Errors[0].Field != "initial_condition" {
			t.Errorf("condition %v: error field = %q", pci, r.Errors[0].Field)
		}
		if len(r.Warnings) != 0 {
			t.Errorf("condition %v: unexpected warnings %+v", pci, r.Warnings)
		}
	}
}
