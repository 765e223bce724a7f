package geom

import (
	"math"

	v3 "github.com/deadsy/sdfx/vec/v3"
)

// Perimeter generation for duct cross sections. Each function returns a
// dense ring of points around a center in the plane spanned by right/up,
// with the cardinal stations at fixed indices (0, 90, 180, 270) so that
// edge offsets between two rings can be read off directly.

// perimeterSteps is the nominal point count of a full ring.
const perimeterSteps = 360

// RoundPerimeter returns 360 points on a circle of the given diameter,
// one per degree, starting at +right and sweeping toward +up.
func RoundPerimeter(center, right, up v3.Vec, diameter float64) []v3.Vec {
	radius := diameter / 2
	points := make([]v3.Vec, 0, perimeterSteps)
	for deg := 0; deg < perimeterSteps; deg++ {
		rad := float64(deg) * math.Pi / 180
		x := radius * math.Cos(rad)
		y := radius * math.Sin(rad)
		points = append(points, center.Add(right.MulScalar(x)).Add(up.MulScalar(y)))
	}
	return points
}

// RectPerimeter returns 360 points around a rectangle, 90 per side,
// walking the corners top-right, bottom-right, bottom-left, top-left.
func RectPerimeter(center, right, up v3.Vec, width, height float64) []v3.Vec {
	halfW, halfH := width/2, height/2
	corners := []v3.Vec{
		center.Add(right.MulScalar(halfW)).Add(up.MulScalar(halfH)),
		center.Add(right.MulScalar(halfW)).Add(up.MulScalar(-halfH)),
		center.Add(right.MulScalar(-halfW)).Add(up.MulScalar(-halfH)),
		center.Add(right.MulScalar(-halfW)).Add(up.MulScalar(halfH)),
	}
	const perSide = perimeterSteps / 4
	points := make([]v3.Vec, 0, perimeterSteps)
	for i := 0; i < 4; i++ {
		start := corners[i]
		end := corners[(i+1)%4]
		for j := 0; j < perSide; j++ {
			t := float64(j) / perSide
			points = append(points, start.Add(end.Sub(start).MulScalar(t)))
		}
	}
	return points
}

// OvalPerimeter returns points around a flat-oval section: two
// semicircular ends of the minor (height) diameter joined by straight
// sides. The ring is ordered left semicircle, top straight, right
// semicircle, bottom straight.
func OvalPerimeter(center, right, up v3.Vec, width, height float64) []v3.Vec {
	minorRadius := height / 2
	straight := width - height

	const nSemi = 90
	const nStraight = 90
	var points []v3.Vec

	// Left end, sweeping bottom to top.
	for i := 0; i < nSemi; i++ {
		theta := math.Pi/2 + float64(i)/(nSemi-1)*math.Pi
		x := -straight/2 + minorRadius*math.Cos(theta)
		y := minorRadius * math.Sin(theta)
		points = append(points, center.Add(right.MulScalar(x)).Add(up.MulScalar(y)))
	}
	// Top straight, left to right. Skips the first point to avoid a duplicate.
	for i := 1; i < nStraight; i++ {
		x := -straight/2 + minorRadius + float64(i)/(nStraight-1)*straight
		points = append(points, center.Add(right.MulScalar(x)).Add(up.MulScalar(minorRadius)))
	}
	// Right end, sweeping top to bottom.
	for i := 0; i < nSemi; i++ {
		theta := 3*math.Pi/2 + float64(i)/(nSemi-1)*math.Pi
		x := straight/2 + minorRadius*math.Cos(theta)
		y := minorRadius * math.Sin(theta)
		points = append(points, center.Add(right.MulScalar(x)).Add(up.MulScalar(y)))
	}
	// Bottom straight, right to left.
	for i := 1; i < nStraight; i++ {
		x := straight/2 - minorRadius - float64(i)/(nStraight-1)*straight
		points = append(points, center.Add(right.MulScalar(x)).Add(up.MulScalar(-minorRadius)))
	}
	return points
}
