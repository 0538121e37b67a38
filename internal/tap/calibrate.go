// Package tap converts human tap-detection targets into the
// accelerometer's native fixed-point register codes.
package tap

import (
	"errors"
	"fmt"
	"math"
)

// The device stores both codes in 7-bit registers.
const maxCode = 127

var (
	ErrThresholdOutOfRange = errors.New("tap threshold out of range")
	ErrTimeLimitOutOfRange = errors.New("tap time limit out of range")
)

// Settings holds tap detection codes in device register units.
type Settings struct {
	Threshold byte
	TimeLimit byte
}

// Calibrate derives tap detection register codes from a threshold in
// gravities and a time window in seconds, given the sensor's active
// sensitivity range and sample rate. Codes round up, so detection
// covers at least the requested threshold and window. Codes that do
// not fit the 7-bit registers are a configuration error; the inputs
// are startup constants, so the failure is permanent.
func Calibrate(thresholdG, timeLimitS, rangeG, sampleRateHz float64) (Settings, error) {
	threshold := int(math.Ceil(thresholdG / (rangeG / 128.0)))
	if threshold < 0 || threshold > maxCode {
		return Settings{}, fmt.Errorf("threshold %.2fg at range %.0fg needs code %d: %w",
			thresholdG, rangeG, threshold, ErrThresholdOutOfRange)
	}
	limit := int(math.Ceil(timeLimitS / (1.0 / sampleRateHz)))
	if limit < 0 || limit > maxCode {
		return Settings{}, fmt.Errorf("time limit %.2fs at %.0fHz needs code %d: %w",
			timeLimitS, sampleRateHz, limit, ErrTimeLimitOutOfRange)
	}
	return Settings{Threshold: byte(threshold), TimeLimit: byte(limit)}, nil
}
