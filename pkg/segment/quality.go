package segment

// Quality is a condition category. Values are ordered worst to best, which
// is also the column order of exported percentages.
type Quality int

const (
	Unacceptable Quality = iota
	Poor
	Acceptable
	Fair
	Good
	VeryGood
)

// NumQualities is the number of condition categories.
const NumQualities = 6

var qualityLabels = [NumQualities]string{
	"unacceptable", "poor", "acceptable", "fair", "good", "very good",
}

func (q Quality) String() string {
	if q < 0 || int(q) >= NumQualities {
		return "unknown"
	}
	return qualityLabels[q]
}

// Qualities returns every category in order.
func Qualities() []Quality {
	return []Quality{Unacceptable, Poor, Acceptable, Fair, Good, VeryGood}
}

// QualityOf categorizes a condition value.
func QualityOf(pci float64) Quality {
	switch {
	case pci > 90:
		return VeryGood
	case pci >= 75:
		return Good
	case pci >= 65:
		return Fair
	case pci >= 55:
		return Acceptable
	case pci >= 40:
		return Poor
	default:
		return Unacceptable
	}
}
