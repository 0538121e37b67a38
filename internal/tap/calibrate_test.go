package tap_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/adafruit/Circuit-Walker-Sneakers/internal/tap"
)

var TestCalibrationProducesCodes = []struct {
	ThresholdG   float64
	TimeLimitS   float64
	RangeG       float64
	SampleRateHz float64
	Threshold    byte
	TimeLimit    byte
}{
	// Defaults for the sneakers build: 1.5g spike inside a 250ms window.
	{1.5, 0.25, 4.0, 50.0, 48, 13},
	{1.5, 0.25, 2.0, 50.0, 96, 13},
	{1.0, 0.10, 4.0, 100.0, 32, 10},
	// Largest representable codes at 4g / 50Hz.
	{3.96875, 2.54, 4.0, 50.0, 127, 127},
	{0, 0, 4.0, 50.0, 0, 0},
}

func TestCalibrate(t *testing.T) {
	for k, v := range TestCalibrationProducesCodes {
		t.Run(fmt.Sprintf("Given inputs%d", k), func(t *testing.T) {
			s, err := tap.Calibrate(v.ThresholdG, v.TimeLimitS, v.RangeG, v.SampleRateHz)
			assert.NoError(t, err)
			assert.Equal(t, v.Threshold, s.Threshold, "threshold code")
			assert.Equal(t, v.TimeLimit, s.TimeLimit, "time limit code")
		})
	}
}

func TestCalibrateRoundsUp(t *testing.T) {
	// 1.4g at 4g range is code 44.8; rounding down would miss softer steps.
	s, err := tap.Calibrate(1.4, 0.25, 4.0, 50.0)
	assert.NoError(t, err)
	assert.EqualValues(t, 45, s.Threshold)
}

func TestCalibrateThresholdTooHigh(t *testing.T) {
	_, err := tap.Calibrate(5.0, 0.25, 4.0, 50.0)
	if !errors.Is(err, tap.ErrThresholdOutOfRange) {
		t.Fatalf("want ErrThresholdOutOfRange, got %v", err)
	}
}

func TestCalibrateTimeLimitTooHigh(t *testing.T) {
	_, err := tap.Calibrate(1.5, 3.0, 4.0, 50.0)
	if !errors.Is(err, tap.ErrTimeLimitOutOfRange) {
		t.Fatalf("want ErrTimeLimitOutOfRange, got %v", err)
	}
}
