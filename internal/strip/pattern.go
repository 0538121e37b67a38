package strip

import "time"

// Sweep walks a single white pixel down the strip, then blanks it. A
// quick visual check that wiring and pixel count are right before the
// main loop starts.
func Sweep(s Strip, delay time.Duration) error {
	for i := 0; i < s.Count(); i++ {
		s.Fill(0, 0, 0)
		s.Set(i, 255, 255, 255)
		if err := s.Flush(); err != nil {
			return err
		}
		time.Sleep(delay)
	}
	s.Fill(0, 0, 0)
	return s.Flush()
}
