// Package lighting converts user-facing light settings to vectors.
package lighting

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// SunDirection converts azimuth (degrees around +Y, 0 = +Z) and elevation
// (degrees above the horizon) into a unit vector pointing towards the sun.
func SunDirection(azimuth, elevation float32) mgl32.Vec3 {
	az := float64(mgl32.DegToRad(azimuth))
	el := float64(mgl32.DegToRad(elevation))
	return mgl32.Vec3{
		float32(math.Cos(el) * math.Sin(az)),
		float32(math.Sin(el)),
		float32(math.Cos(el) * math.Cos(az)),
	}
}

// TravelDirection is the direction sunlight travels, from the sun into the
// scene; this is what the ray marcher's light direction expects.
func TravelDirection(azimuth, elevation float32) mgl32.Vec3 {
	return SunDirection(azimuth, elevation).Mul(-1)
}

// Angles is the inverse of SunDirection for a light travel direction.
func Angles(travel mgl32.Vec3) (azimuth, elevation float32) {
	toSun := travel.Mul(-1).Normalize()
	el := math.Asin(float64(mgl32.Clamp(toSun.Y(), -1, 1)))
	az := math.Atan2(float64(toSun.X()), float64(toSun.Z()))
	return mgl32.RadToDeg(float32(az)), mgl32.RadToDeg(float32(el))
}
