// Package geo computes the derived trip metrics: planar path distance over
// coordinate sequences and elapsed journey duration. Distances are Euclidean
// in degree-space on purpose; the upstream reporting contract never used
// geodesic distance.
package geo

import (
	"math"
	"time"
)

// Point is one timestamped coordinate sample.
type Point struct {
	Lat        float64
	Lng        float64
	RecordedAt time.Time
}

// PathDistance sums the Euclidean norm of every adjacent (lat,lng) delta,
// starting at the second point. Zero or one point yields 0.
func PathDistance(points []Point) float64 {
	return pathDistanceFrom(points, 1)
}

// PathDistanceSkipFirst sums adjacent deltas starting at the third point,
// leaving the leg between the first two points out. The journey detail view
// has always reported distance this way; fleet statistics use PathDistance.
// Keep the two separate until the reporting contract reconciles them.
func PathDistanceSkipFirst(points []Point) float64 {
	return pathDistanceFrom(points, 2)
}

func pathDistanceFrom(points []Point, start int) float64 {
	var total float64
	for i := start; i < len(points); i++ {
		dLat := points[i].Lat - points[i-1].Lat
		dLng := points[i].Lng - points[i-1].Lng
		total += math.Sqrt(dLat*dLat + dLng*dLng)
	}
	return total
}

// DurationMinutes returns the elapsed journey time in fractional minutes.
// An open journey (nil end) has no duration yet and reports 0. When the end
// precedes the start the negative value is returned as-is.
func DurationMinutes(start time.Time, end *time.Time) float64 {
	if end == nil {
		return 0
	}
	return end.Sub(start).Minutes()
}
