// Package colorconv converts HSV colors into gamma-corrected RGB bytes
// suitable for addressable LED pixels.
package colorconv

import "math"

// Lerp linearly interpolates a value y in range y0...y1 proportional to
// x in range x0...x1. The source range must be non-empty.
func Lerp(x, x0, x1, y0, y1 float64) float64 {
	return y0 + (x-x0)*(y1-y0)/(x1-x0)
}

// HSVToRGB converts a color from HSV space to gamma-corrected RGB
// bytes. Hue is in degrees and wraps into [0,360); saturation and
// value are in 0...1.
func HSVToRGB(h, s, v float64) (r, g, b byte) {
	var rf, gf, bf float64
	if s == 0 {
		// Achromatic, value only.
		rf, gf, bf = v, v, v
	} else {
		h = math.Mod(h, 360.0)
		if h < 0 {
			h += 360.0
		}
		h /= 60.0 // sector 0 to 5
		i := int(h)
		f := h - float64(i)
		p := v * (1.0 - s)
		q := v * (1.0 - s*f)
		t := v * (1.0 - s*(1.0-f))
		switch i {
		case 0:
			rf, gf, bf = v, t, p
		case 1:
			rf, gf, bf = q, v, p
		case 2:
			rf, gf, bf = p, v, t
		case 3:
			rf, gf, bf = p, q, v
		case 4:
			rf, gf, bf = t, p, v
		default:
			rf, gf, bf = v, p, q
		}
	}
	return gamma(rf), gamma(gf), gamma(bf)
}

// gamma scales a linear channel in 0...1 to a corrected output byte.
func gamma(c float64) byte {
	return Gamma8[int(math.Round(255.0*c))]
}
