package cost

import (
	"github.com/weatherfordomb/street-condition-simulator/pkg/segment"
)

// OutlookYears is the horizon of the untreated deterioration outlook.
const OutlookYears = 5

// Breakdown itemizes the treatable backlog by repair type.
type Breakdown struct {
	PreventiveSegments int     `json:"preventive_segments"`
	Preventive         float64 `json:"preventive"`
	RehabSegments      int     `json:"rehab_segments"`
	Rehab              float64 `json:"rehab"`
	Total              float64 `json:"total"`
}

// Report is the repair backlog of a network.
type Report struct {
	Segments  int       `json:"segments"`
	AreaSqYd  int       `json:"area_sq_yd"`
	Current   Breakdown `json:"current"`
	Untreated Breakdown `json:"untreated_outlook"`

	Summary struct {
		PreventiveUnitCost float64 `json:"preventive_cost_per_sq_yd"`
		RehabUnitCost      float64 `json:"rehab_cost_per_sq_yd"`
		OutlookYears       int     `json:"outlook_years"`
		BacklogGrowth      float64 `json:"backlog_growth"`
	} `json:"summary"`
}

// Estimate computes the current repair cost of the network and the cost
// it would reach after OutlookYears without any treatment.
func Estimate(segs []*segment.Segment) *Report {
	report := &Report{Segments: len(segs)}
	report.Summary.PreventiveUnitCost = segment.PreventiveCostPerSqYd
	report.Summary.RehabUnitCost = segment.RehabCostPerSqYd
	report.Summary.OutlookYears = OutlookYears

	for _, s := range segs {
		report.AreaSqYd += s.Area

		switch {
		case s.PreventiveEligible():
			report.Current.PreventiveSegments++
			report.Current.Preventive += s.PreventiveCost()
		case s.RehabEligible():
			report.Current.RehabSegments++
			report.Current.Rehab += s.RehabCost()
		}

		// Holds are ignored in the outlook: the segment is assumed untreated.
		pci := s.ProjectCondition(OutlookYears)
		switch {
		case pci >= segment.PreventiveMinCondition && pci <= segment.PreventiveMaxCondition:
			report.Untreated.PreventiveSegments++
			report.Untreated.Preventive += s.PreventiveCost()
		case pci <= segment.RehabMaxCondition:
			report.Untreated.RehabSegments++
			report.Untreated.Rehab += s.RehabCost()
		}
	}

	report.Current.Total = report.Current.Preventive + report.Current.Rehab
	report.Untreated.Total = report.Untreated.Preventive + report.Untreated.Rehab
	report.Summary.BacklogGrowth = report.Untreated.Total - report.Current.Total
	return report
}
