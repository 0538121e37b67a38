package anim

import (
	"math"

	"github.com/adafruit/Circuit-Walker-Sneakers/internal/colorconv"
)

// Surface is the pixel target a frame is drawn onto. Flushing to
// hardware stays with the caller.
type Surface interface {
	Count() int
	Set(i int, r, g, b byte)
	Fill(r, g, b byte)
}

// Rainbow renders the step flash: a sine wave of hues wrapped around
// the strip, moving with time and fading out as the decay window
// empties.
type Rainbow struct {
	FreqHz float64
}

// Draw writes one frame for time now (seconds) and the remaining
// window fraction in 0...1. A spent window blanks the strip outright,
// skipping the color math.
func (rb Rainbow) Draw(s Surface, now, remaining float64) {
	if remaining <= 0 {
		s.Fill(0, 0, 0)
		return
	}
	n := s.Count()
	if n == 0 {
		return
	}
	a := 2.0 * math.Pi * rb.FreqHz * now
	phaseOffset := 2.0 * math.Pi / float64(n)
	for i := 0; i < n; i++ {
		// Phase per pixel wraps the rainbow around the strip; the sine
		// moves it smoothly with time.
		x := math.Sin(a + float64(i)*phaseOffset)
		h := colorconv.Lerp(x, -1.0, 1.0, 0.0, 360.0)
		r, g, b := colorconv.HSVToRGB(h, 1.0, remaining)
		s.Set(i, r, g, b)
	}
}
