package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseStepsScript(t *testing.T) {
	times, err := parseSteps(" 1.2, 0.5 ,2.0", 0, 0)
	if err != nil {
		t.Fatal(err)
	}
	assert.Equal(t, []float64{0.5, 1.2, 2.0}, times)
}

func TestParseStepsCadence(t *testing.T) {
	times, err := parseSteps("", 1.0, 3.5)
	if err != nil {
		t.Fatal(err)
	}
	assert.Equal(t, []float64{1, 2, 3}, times)
}

func TestParseStepsRejectsGarbage(t *testing.T) {
	if _, err := parseSteps("0.5,fast", 0, 0); err == nil {
		t.Fatal("expected an error for a non-numeric step time")
	}
	if _, err := parseSteps("-1", 0, 0); err == nil {
		t.Fatal("expected an error for a negative step time")
	}
	if _, err := parseSteps("", 0, 0); err == nil {
		t.Fatal("expected an error for a zero cadence")
	}
}

type fixedClock struct{ t float64 }

func (c *fixedClock) Now() float64 { return c.t }

func TestScriptedStepsFireOncePerStep(t *testing.T) {
	clk := &fixedClock{}
	s := &scriptedSteps{clock: clk, times: []float64{0.5, 1.0}}

	for _, tt := range []struct {
		now  float64
		want bool
	}{
		{0.1, false},
		{0.5, true},
		{0.6, false},
		{1.2, true},
		{2.0, false},
	} {
		clk.t = tt.now
		got, err := s.PollSingleTap()
		if err != nil {
			t.Fatal(err)
		}
		if got != tt.want {
			t.Fatalf("poll at %v: got %v, want %v", tt.now, got, tt.want)
		}
	}
}
