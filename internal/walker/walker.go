// Package walker runs the step-to-flash control loop: advance the
// decay window by real elapsed time, render, flush, poll the tap
// sensor, sleep, forever.
package walker

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/adafruit/Circuit-Walker-Sneakers/internal/anim"
	"github.com/adafruit/Circuit-Walker-Sneakers/internal/strip"
)

// Clock reports monotonic seconds.
type Clock interface {
	Now() float64
}

// TapSource reports whether a single tap latched since the last poll.
// True fires at most once per physical tap.
type TapSource interface {
	PollSingleTap() (bool, error)
}

// Monitor observes loop events. Implementations must not block the
// loop.
type Monitor interface {
	OnStep(at float64)
	OnFrame(at, remaining float64, rgb []byte)
	OnFault(msg string)
}

// WallClock reports monotonic seconds since it was created.
type WallClock struct {
	start time.Time
}

func NewWallClock() *WallClock {
	return &WallClock{start: time.Now()}
}

func (c *WallClock) Now() float64 {
	return time.Since(c.start).Seconds()
}

// Options tunes a Loop.
type Options struct {
	FlashS   float64       // decay window per step, seconds
	FreqHz   float64       // rainbow frequency
	Interval time.Duration // sleep between iterations
	Monitor  Monitor       // optional
}

// Loop owns the strip, the tap sensor and the animation state. Nothing
// else touches them while it runs.
type Loop struct {
	Strip    strip.Strip
	Clock    Clock
	Taps     TapSource
	State    *anim.State
	Renderer anim.Rainbow
	Interval time.Duration
	Monitor  Monitor

	// Fault blink cadence, settable so tests can compress time.
	ShortBlink time.Duration
	LongBlink  time.Duration

	tee *teeSurface
}

// New assembles a loop over the strip, clock and tap sensor ports.
func New(s strip.Strip, clk Clock, taps TapSource, o Options) *Loop {
	return &Loop{
		Strip:      s,
		Clock:      clk,
		Taps:       taps,
		State:      anim.NewState(o.FlashS),
		Renderer:   anim.Rainbow{FreqHz: o.FreqHz},
		Interval:   o.Interval,
		Monitor:    o.Monitor,
		ShortBlink: 250 * time.Millisecond,
		LongBlink:  500 * time.Millisecond,
	}
}

// Run drives the loop until ctx is canceled and returns the context's
// error. Flush and poll problems are logged and tolerated; after a
// successful start the loop itself never fails. Each iteration keeps a
// fixed order: advance by elapsed time, render, flush, poll, sleep, so
// a frame is always on the pixels before the next sensor read.
func (l *Loop) Run(ctx context.Context) error {
	last := l.Clock.Now()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		now := l.Clock.Now()
		elapsed := now - last
		last = now

		remaining := l.State.Advance(elapsed)
		l.draw(now, remaining)
		if err := l.Strip.Flush(); err != nil {
			log.Warn().Err(err).Msg("pixel flush failed")
		}

		tapped, err := l.Taps.PollSingleTap()
		if err != nil {
			// A missed poll just means no trigger this tick.
			log.Debug().Err(err).Msg("tap poll failed")
		} else if tapped {
			l.State.Trigger()
			log.Debug().Float64("at", now).Msg("step detected")
			if l.Monitor != nil {
				l.Monitor.OnStep(now)
			}
		}

		if !sleepCtx(ctx, l.Interval) {
			return ctx.Err()
		}
	}
}

func (l *Loop) draw(now, remaining float64) {
	if l.Monitor == nil {
		l.Renderer.Draw(l.Strip, now, remaining)
		return
	}
	if l.tee == nil {
		l.tee = newTeeSurface(l.Strip)
	}
	l.Renderer.Draw(l.tee, now, remaining)
	l.Monitor.OnFrame(now, remaining, l.tee.snapshot())
}

// teeSurface mirrors every pixel write into a flat RGB buffer for the
// monitor while passing it through to the strip.
type teeSurface struct {
	s   strip.Strip
	buf []byte
}

func newTeeSurface(s strip.Strip) *teeSurface {
	return &teeSurface{s: s, buf: make([]byte, s.Count()*3)}
}

func (t *teeSurface) Count() int { return t.s.Count() }

func (t *teeSurface) Set(i int, r, g, b byte) {
	t.s.Set(i, r, g, b)
	t.buf[i*3+0], t.buf[i*3+1], t.buf[i*3+2] = r, g, b
}

func (t *teeSurface) Fill(r, g, b byte) {
	t.s.Fill(r, g, b)
	for i := 0; i < t.Count(); i++ {
		t.buf[i*3+0], t.buf[i*3+1], t.buf[i*3+2] = r, g, b
	}
}

func (t *teeSurface) snapshot() []byte {
	return append([]byte{}, t.buf...)
}

// Monitors combines monitors into one; nils are skipped. It returns
// nil when nothing remains.
func Monitors(ms ...Monitor) Monitor {
	var list []Monitor
	for _, m := range ms {
		if m != nil {
			list = append(list, m)
		}
	}
	switch len(list) {
	case 0:
		return nil
	case 1:
		return list[0]
	}
	return multiMonitor(list)
}

type multiMonitor []Monitor

func (mm multiMonitor) OnStep(at float64) {
	for _, m := range mm {
		m.OnStep(at)
	}
}

func (mm multiMonitor) OnFrame(at, remaining float64, rgb []byte) {
	for _, m := range mm {
		m.OnFrame(at, remaining, rgb)
	}
}

func (mm multiMonitor) OnFault(msg string) {
	for _, m := range mm {
		m.OnFault(msg)
	}
}

// sleepCtx sleeps d unless ctx ends first; false means canceled.
func sleepCtx(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return ctx.Err() == nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}
