package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"sort"
	"strconv"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/adafruit/Circuit-Walker-Sneakers/internal/strip"
	"github.com/adafruit/Circuit-Walker-Sneakers/internal/walker"
)

// stepsim replays a scripted walk through the real control loop with
// no hardware attached: fake taps in, console frames out.
func main() {
	var (
		steps    = flag.String("steps", "", "step times in seconds, comma separated (e.g. 0.5,1.2,2.0)")
		every    = flag.Float64("every", 0.8, "step cadence in seconds when -steps is empty")
		duration = flag.Float64("duration", 0, "total run time in seconds (0 = last step plus one flash)")
		pixels   = flag.Int("pixels", 10, "pixel count")
		flashS   = flag.Float64("flash", 0.5, "decay window per step, seconds")
		freqHz   = flag.Float64("freq", 1.0, "rainbow frequency")
		interval = flag.Int("interval-ms", 10, "loop sleep per iteration")
		quiet    = flag.Bool("quiet", false, "skip console rendering, log a summary only")
	)
	flag.Parse()

	// Frames go to stdout, so logs take stderr.
	zerolog.TimeFieldFormat = time.RFC3339
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})

	times, err := parseSteps(*steps, *every, *duration)
	if err != nil {
		log.Fatal().Err(err).Msg("bad step script")
	}
	runFor := *duration
	if runFor <= 0 {
		runFor = *flashS + 0.25
		if len(times) > 0 {
			runFor += times[len(times)-1]
		}
	}

	var s strip.Strip
	if *quiet {
		s = strip.NewMemory(*pixels)
	} else {
		s = strip.OpenConsole(*pixels)
	}
	defer s.Close()

	clk := walker.NewWallClock()
	taps := &scriptedSteps{clock: clk, times: times}
	counts := &tally{}
	loop := walker.New(s, clk, taps, walker.Options{
		FlashS:   *flashS,
		FreqHz:   *freqHz,
		Interval: time.Duration(*interval) * time.Millisecond,
		Monitor:  counts,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithTimeout(ctx, time.Duration(runFor*float64(time.Second)))
	defer cancel()

	log.Info().Int("steps", len(times)).Float64("run_s", runFor).Msg("simulating")
	err = loop.Run(ctx)
	if err != nil && !errors.Is(err, context.DeadlineExceeded) && !errors.Is(err, context.Canceled) {
		log.Fatal().Err(err).Msg("loop failed")
	}

	stepsFired, frames, lit := counts.totals()
	log.Info().
		Float64("t", clk.Now()).
		Int("steps", stepsFired).
		Int("frames", frames).
		Int("lit_frames", lit).
		Msg("done")
}

func parseSteps(script string, every, duration float64) ([]float64, error) {
	var times []float64
	if script == "" {
		if every <= 0 {
			return nil, fmt.Errorf("step cadence must be positive, got %v", every)
		}
		end := duration
		if end <= 0 {
			end = 4
		}
		for t := every; t < end; t += every {
			times = append(times, t)
		}
		return times, nil
	}
	for _, part := range strings.Split(script, ",") {
		v, err := strconv.ParseFloat(strings.TrimSpace(part), 64)
		if err != nil {
			return nil, fmt.Errorf("step time %q: %w", part, err)
		}
		if v < 0 {
			return nil, fmt.Errorf("step time %v is negative", v)
		}
		times = append(times, v)
	}
	sort.Float64s(times)
	return times, nil
}

// scriptedSteps fires a fake tap as the clock passes each scheduled
// time, earliest first.
type scriptedSteps struct {
	mu    sync.Mutex
	clock walker.Clock
	times []float64
}

func (s *scriptedSteps) PollSingleTap() (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.times) == 0 || s.clock.Now() < s.times[0] {
		return false, nil
	}
	s.times = s.times[1:]
	return true, nil
}

// tally counts loop activity for the end-of-run summary.
type tally struct {
	mu     sync.Mutex
	steps  int
	frames int
	lit    int
}

func (t *tally) OnStep(at float64) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.steps++
}

func (t *tally) OnFrame(at, remaining float64, rgb []byte) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.frames++
	if remaining > 0 {
		t.lit++
	}
}

func (t *tally) OnFault(msg string) {}

func (t *tally) totals() (steps, frames, lit int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.steps, t.frames, t.lit
}
