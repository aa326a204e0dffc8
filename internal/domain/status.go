package domain

import (
	"fmt"
	"time"
)

// Point is a WGS-84 latitude/longitude pair.
type Point struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

func (p Point) String() string {
	return fmt.Sprintf("%v,%v", p.Lat, p.Lon)
}

// RainStatus is the outcome of evaluating one radar frame at a point.
type RainStatus struct {
	Raining    bool      `json:"raining"`
	Intensity  float64   `json:"intensity"`
	FrameTime  time.Time `json:"frame_time"`
	Point      Point     `json:"point"`
	ObservedAt time.Time `json:"observed_at"`
}

// NewRainStatus classifies an intensity taken from a frame valid at frameTime
// and evaluated at observedAt.
func NewRainStatus(intensity float64, frameTime time.Time, p Point, observedAt time.Time) RainStatus {
	return RainStatus{
		Raining:    IsRaining(intensity),
		Intensity:  intensity,
		FrameTime:  frameTime,
		Point:      p,
		ObservedAt: observedAt,
	}
}

// Description is the one-line human-readable summary shown on the status page.
func (s RainStatus) Description() string {
	return fmt.Sprintf("Precipitation: %t, Time: %s, Coords: %v, %v",
		s.Raining, s.FrameTime.Format(time.RFC3339), s.Point.Lat, s.Point.Lon)
}
