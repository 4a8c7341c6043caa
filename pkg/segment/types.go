package segment

import (
	"log"
	"strings"
	"sync"
)

// Surface is the pavement material of a segment.
type Surface int

const (
	Asphalt Surface = iota
	Concrete
)

func (s Surface) String() string {
	if s == Asphalt {
		return "asphalt"
	}
	return "concrete"
}

// Class is the functional classification of a street.
type Class int

const (
	Arterial Class = iota
	Collector
	Local
)

func (c Class) String() string {
	switch c {
	case Arterial:
		return "arterial"
	case Collector:
		return "collector"
	default:
		return "local"
	}
}

var surfaceCodes = map[string]Surface{
	"AC":       Asphalt,
	"ASPHALT":  Asphalt,
	"PCC":      Concrete,
	"CONCRETE": Concrete,
}

var classCodes = map[string]Class{
	"ART":         Arterial,
	"ARTERIAL":    Arterial,
	"COL":         Collector,
	"COLLECTOR":   Collector,
	"LOC":         Local,
	"LOCAL":       Local,
	"RES":         Local,
	"RESIDENTIAL": Local,
}

// logf is swapped out in tests.
var logf = log.Printf

var (
	warnMu sync.Mutex
	warned = map[string]bool{}
)

func warnOnce(kind, value, fallback string) {
	key := kind + "\x00" + value
	warnMu.Lock()
	defer warnMu.Unlock()
	if warned[key] {
		return
	}
	warned[key] = true
	logf("segment: unrecognized %s %q, using %s deterioration row", kind, value, fallback)
}

// ParseSurface maps a free-text surface code to a Surface. The boolean
// reports whether the value was recognized; unrecognized values fall back
// to Concrete, the "other" row of the slope table.
func ParseSurface(v string) (Surface, bool) {
	if s, ok := surfaceCodes[strings.ToUpper(strings.TrimSpace(v))]; ok {
		return s, true
	}
	return Concrete, false
}

// ParseClass maps a free-text street class code to a Class. Unrecognized
// values fall back to Local.
func ParseClass(v string) (Class, bool) {
	if c, ok := classCodes[strings.ToUpper(strings.TrimSpace(v))]; ok {
		return c, true
	}
	return Local, false
}

// band indexes the condition column of the slope table.
func band(pci float64) int {
	switch {
	case pci > 85:
		return 0
	case pci > 65:
		return 1
	case pci > 40:
		return 2
	default:
		return 3
	}
}

// deductSlopes holds annual condition loss by surface, class and condition band.
// Values are empirical snapshots of standard deterioration curves.
var deductSlopes = [2][3][4]float64{
	Asphalt: {
		Arterial:  {1.50, 3.33, 2.78, 1.67},
		Collector: {1.15, 2.50, 2.27, 1.25},
		Local:     {0.94, 2.22, 1.92, 1.15},
	},
	Concrete: {
		Arterial:  {0.83, 2.22, 1.47, 1.07},
		Collector: {0.75, 1.82, 1.39, 0.97},
		Local:     {0.68, 1.54, 1.04, 0.86},
	},
}

// DeductSlope returns the annual deterioration for a surface and class at
// the given condition.
func DeductSlope(s Surface, c Class, pci float64) float64 {
	return deductSlopes[s][c][band(pci)]
}
