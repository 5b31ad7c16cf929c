package document

import "math"

// NewSampleStrokes returns a small demo drawing: a sine wave, a square and
// a spiral, laid out in the first 600x400 document units.
func NewSampleStrokes() []*Stroke {
	wave := NewStroke(DefaultInk, 1, 2)
	for i := 0; i <= 60; i++ {
		x := 40 + float64(i)*8
		wave.Append(x, 100+30*math.Sin(float64(i)/6))
	}

	square := NewStroke(Color{R: 220, G: 40, B: 40}, 1, 3)
	square.Append(80, 200)
	square.Append(200, 200)
	square.Append(200, 320)
	square.Append(80, 320)
	square.Append(80, 200)

	spiral := NewStroke(Color{R: 20, G: 140, B: 60}, 0.8, 2)
	for i := 0; i <= 120; i++ {
		a := float64(i) / 8
		r := 4 + 5*a
		spiral.Append(420+r*math.Cos(a), 260+r*math.Sin(a))
	}

	return []*Stroke{wave, square, spiral}
}

// NewSampleDocument returns a document seeded with NewSampleStrokes.
func NewSampleDocument() *SpatialDocument {
	doc := NewSpatialDocument()
	for _, s := range NewSampleStrokes() {
		_ = doc.Insert(s)
	}
	return doc
}
