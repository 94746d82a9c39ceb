package convert

// Point is a coordinate triple collated from three separately written
// parameters, such as X, Y and Z.
type Point struct {
	X float64 `json:"x" yaml:"x"`
	Y float64 `json:"y" yaml:"y"`
	Z float64 `json:"z" yaml:"z"`
}

// ToPoint builds a Point when all three parts are bound floats.
func ToPoint(parts []any) (Point, bool) {
	if len(parts) != 3 {
		return Point{}, false
	}
	var xyz [3]float64
	for i, p := range parts {
		f, ok := p.(float64)
		if !ok {
			return Point{}, false
		}
		xyz[i] = f
	}
	return Point{X: xyz[0], Y: xyz[1], Z: xyz[2]}, true
}
