package layout

// The canvas is rasterized at one unit per pixel. The backend treats a unit
// as 1mm at 1 dot/mm while font faces take pt, so sizes convert at that edge.

// Conversion constants between pt and canvas units.
const (
	PtToPx = 0.352777
	PxToPt = 1.0 / PtToPx
)

// Unit represents the unit of a font size.
type Unit int

const (
	UnitPX Unit = iota // canvas pixels
	UnitPT             // points
)

// Length preserves a numeric value with its unit.
type Length struct {
	Value float64 `json:"value"`
	Unit  Unit    `json:"unit"`
}

// To converts this length to target unit.
func (l Length) To(target Unit) float64 {
	if l.Unit == target {
		return l.Value
	}
	if target == UnitPT {
		return l.Value * PxToPt
	}
	return l.Value * PtToPx
}

func (l Length) ToPX() float64 { return l.To(UnitPX) }
func (l Length) ToPT() float64 { return l.To(UnitPT) }
