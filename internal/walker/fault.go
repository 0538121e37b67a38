package walker

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"
)

// SOS is the terminal fault state. It logs msg and blinks the whole
// strip red, three short then three long, over and over until ctx is
// canceled. The device needs a config fix and a restart to leave it.
func (l *Loop) SOS(ctx context.Context, msg string) {
	if l.Monitor != nil {
		l.Monitor.OnFault(msg)
	}
	for {
		log.Error().Msg(msg)
		for i := 0; i < 3; i++ {
			if !l.blink(ctx, l.ShortBlink) {
				return
			}
		}
		for i := 0; i < 3; i++ {
			if !l.blink(ctx, l.LongBlink) {
				return
			}
		}
	}
}

// blink holds full red for period, then dark for period. Raw channel
// values, no gamma: this is a beacon, not a color.
func (l *Loop) blink(ctx context.Context, period time.Duration) bool {
	l.Strip.Fill(255, 0, 0)
	if err := l.Strip.Flush(); err != nil {
		log.Warn().Err(err).Msg("pixel flush failed")
	}
	if !sleepCtx(ctx, period) {
		return false
	}
	l.Strip.Fill(0, 0, 0)
	if err := l.Strip.Flush(); err != nil {
		log.Warn().Err(err).Msg("pixel flush failed")
	}
	return sleepCtx(ctx, period)
}
