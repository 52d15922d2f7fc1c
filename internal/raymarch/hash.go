package raymarch

import "math"

// mix32 is a 32-bit finalizer (lowbias32).
func mix32(h uint32) uint32 {
	h ^= h >> 16
	h *= 0x7feb352d
	h ^= h >> 15
	h *= 0x846ca68b
	h ^= h >> 16
	return h
}

// pixelSeed identifies a pixel independently of time.
func pixelSeed(px, py int) uint32 {
	return mix32(uint32(px)*0x9e3779b1 ^ mix32(uint32(py)+0x632be5ab))
}

// jitterSeed varies per pixel, sub-sample and frame time.
func jitterSeed(pixel uint32, sample int, time float32) uint32 {
	return mix32(pixel ^ mix32(uint32(sample)*0x85ebca6b^math.Float32bits(time)))
}

// unit maps a hash to [0,1).
func unit(h uint32) float32 {
	return float32(h>>8) / (1 << 24)
}
