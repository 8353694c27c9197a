// Package shapes is a fixture for the Go frontend tests.
package shapes

// Kind classifies shapes
type Kind int

const (
	KindSquare Kind = iota
	KindCircle
)

// Square is a square
type Square struct {
	Side float64
	kind Kind
}

// Area returns the area
func (s Square) Area() float64 { return s.Side * s.Side }

// Scale grows the square in place
func (s *Square) Scale(by float64) { s.Side *= by }

// NewSquare creates a square
func NewSquare(side float64) *Square { return &Square{Side: side, kind: KindSquare} }
