package validation

import (
	"fmt"
	"math"

	"github.com/weatherfordomb/street-condition-simulator/pkg/segment"
)

// ValidateInventory checks segment records before they are simulated.
// Only duplicate ids are errors; the engine accepts everything else.
func ValidateInventory(records []segment.Record) *Report {
	r := NewReport()
	seen := make(map[int]int, len(records))

	for i, rec := range records {
		id := rec.ID
		if first, dup := seen[id]; dup {
			r.AddError(Result{
				Level:       LevelInventory,
				Message:     fmt.Sprintf("segment id %d appears in rows %d and %d", id, first+1, i+1),
				Field:       "id",
				SegmentID:   &id,
				ActualValue: id,
				Expected:    "unique id",
			})
			continue
		}
		seen[id] = i

		if rec.Length <= 0 || rec.Width <= 0 {
			r.AddWarning(Result{
				Level:       LevelInventory,
				Message:     fmt.Sprintf("segment %d has non-positive dimensions; its costs will be zero", id),
				Field:       "length,width",
				SegmentID:   &id,
				ActualValue: fmt.Sprintf("%d x %d", rec.Length, rec.Width),
				Expected:    "> 0",
			})
		}
		if math.IsNaN(rec.InitialCondition) || math.IsInf(rec.InitialCondition, 0) {
			r.AddError(Result{
				Level:       LevelInventory,
				Message:     fmt.Sprintf("segment %d initial condition is not a finite number", id),
				Field:       "initial_condition",
				SegmentID:   &id,
				ActualValue: fmt.Sprint(rec.InitialCondition),
				Expected:    "0-100",
			})
		} else if rec.InitialCondition < 0 || rec.InitialCondition > 100 {
			r.AddWarning(Result{
				Level:       LevelInventory,
				Message:     fmt.Sprintf("segment %d initial condition %.2f is outside 0-100", id, rec.InitialCondition),
				Field:       "initial_condition",
				SegmentID:   &id,
				ActualValue: rec.InitialCondition,
				Expected:    "0-100",
			})
		}
		if s, ok := segment.ParseSurface(rec.SurfaceType); !ok {
			r.AddWarning(Result{
				Level:       LevelInventory,
				Message:     fmt.Sprintf("segment %d surface type %q not recognized; using %s slopes", id, rec.SurfaceType, s),
				Field:       "surface_type",
				SegmentID:   &id,
				ActualValue: rec.SurfaceType,
				Expected:    "AC or PCC",
			})
		}
		if c, ok := segment.ParseClass(rec.StreetClass); !ok {
			r.AddWarning(Result{
				Level:       LevelInventory,
				Message:     fmt.Sprintf("segment %d street class %q not recognized; using %s slopes", id, rec.StreetClass, c),
				Field:       "street_class",
				SegmentID:   &id,
				ActualValue: rec.StreetClass,
				Expected:    "ART, COL or LOC",
			})
		}
	}

	r.AddInfo(Result{
		Level:   LevelInventory,
		Message: fmt.Sprintf("%d segments checked", len(records)),
	})
	return r
}
