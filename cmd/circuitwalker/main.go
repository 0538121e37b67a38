package main

import (
	"context"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"periph.io/x/conn/v3/i2c/i2creg"
	"periph.io/x/host/v3"

	"github.com/adafruit/Circuit-Walker-Sneakers/internal/config"
	"github.com/adafruit/Circuit-Walker-Sneakers/internal/diagnostics"
	"github.com/adafruit/Circuit-Walker-Sneakers/internal/lis3dh"
	"github.com/adafruit/Circuit-Walker-Sneakers/internal/strip"
	"github.com/adafruit/Circuit-Walker-Sneakers/internal/tap"
	"github.com/adafruit/Circuit-Walker-Sneakers/internal/telemetry"
	"github.com/adafruit/Circuit-Walker-Sneakers/internal/walker"
)

func main() {
	// ---- Flags (config.yaml fills the rest; set flags win) ----
	var (
		configPath  = flag.String("config", "circuitwalker.yaml", "path to circuitwalker.yaml")
		driver      = flag.String("driver", "", "strip driver: spi | console (overrides config)")
		port        = flag.String("port", "", "SPI port name (overrides config)")
		pixels      = flag.Int("pixels", 0, "pixel count (overrides config)")
		listen      = flag.String("listen", "", "telemetry HTTP address (overrides config)")
		broker      = flag.String("broker", "", "MQTT broker URL (overrides config)")
		level       = flag.String("level", "", "log level (overrides config)")
		consoleOnly = flag.Bool("console-only", false, "force console output (no strip hardware)")
		selftest    = flag.Bool("selftest", false, "sweep a white pixel down the strip at startup")
	)
	flag.Parse()

	// ---- Logging ----
	zerolog.TimeFieldFormat = time.RFC3339
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.Kitchen})

	// ---- Config (optional file over defaults) ----
	cfg, err := config.Load(*configPath)
	if err != nil {
		if !os.IsNotExist(err) {
			log.Fatal().Err(err).Str("path", *configPath).Msg("config unreadable")
		}
		log.Warn().Str("path", *configPath).Msg("no config file; using defaults")
		cfg = config.Default()
	}
	if *driver != "" {
		cfg.Strip.Driver = *driver
	}
	if *port != "" {
		cfg.Strip.Port = *port
	}
	if *pixels > 0 {
		cfg.Strip.Pixels = *pixels
	}
	if *listen != "" {
		cfg.Telemetry.Listen = *listen
	}
	if *broker != "" {
		cfg.Telemetry.MQTTBroker = *broker
	}
	if *level != "" {
		cfg.Log.Level = *level
	}
	if *consoleOnly {
		cfg.Strip.Driver = "console"
	}
	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("bad configuration")
	}
	if lvl, err := zerolog.ParseLevel(strings.ToLower(cfg.Log.Level)); err != nil {
		log.Warn().Str("level", cfg.Log.Level).Msg("unknown log level; staying on info")
	} else {
		zerolog.SetGlobalLevel(lvl)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if _, err := host.Init(); err != nil {
		log.Fatal().Err(err).Msg("periph host init failed")
	}

	// ---- Strip ----
	report := diagnostics.NewStore()
	str := openStrip(cfg, report)
	defer str.Close()
	str.Fill(0, 0, 0)
	if err := str.Flush(); err != nil {
		log.Warn().Err(err).Msg("startup blank failed")
	}
	if *selftest {
		if err := strip.Sweep(str, 50*time.Millisecond); err != nil {
			log.Warn().Err(err).Msg("selftest sweep failed")
		}
	}

	// ---- Telemetry (both halves optional) ----
	hub := telemetry.NewHub(report.Snapshot)
	var srv *http.Server
	if cfg.Telemetry.Listen != "" {
		mux := http.NewServeMux()
		mux.HandleFunc("/ws", hub.HandleFrames)
		mux.HandleFunc("/diag", hub.HandleDiag)
		mux.HandleFunc("/healthz", hub.HandleHealth)
		srv = &http.Server{
			Addr:         cfg.Telemetry.Listen,
			Handler:      mux,
			ReadTimeout:  5 * time.Second,
			WriteTimeout: 10 * time.Second,
			IdleTimeout:  60 * time.Second,
		}
		go func() {
			log.Info().Str("addr", cfg.Telemetry.Listen).Msg("telemetry server starting")
			if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				log.Fatal().Err(err).Msg("telemetry server crashed")
			}
		}()
	}
	var pub *telemetry.Publisher
	if cfg.Telemetry.MQTTBroker != "" {
		id := "circuitwalker"
		if hn, err := os.Hostname(); err == nil {
			id += "-" + hn
		}
		p, err := telemetry.NewPublisher(cfg.Telemetry.MQTTBroker, id, cfg.Telemetry.MQTTTopic)
		if err != nil {
			log.Warn().Err(err).Str("broker", cfg.Telemetry.MQTTBroker).Msg("mqtt connect failed; continuing without")
			report.Fault(diagnostics.Warn, "mqtt_unreachable", "mqtt connect failed", err.Error())
		} else {
			pub = p
			defer pub.Close()
		}
	}
	var sinks []walker.Monitor
	if cfg.Telemetry.Listen != "" {
		sinks = append(sinks, hub)
	}
	if pub != nil {
		sinks = append(sinks, pub)
	}
	monitor := walker.Monitors(sinks...)

	// ---- Accelerometer ----
	bus, err := i2creg.Open(cfg.Sensor.Bus)
	if err != nil {
		log.Fatal().Err(err).Str("bus", cfg.Sensor.Bus).Msg("i2c bus open failed")
	}
	defer bus.Close()
	dev, err := lis3dh.New(bus, cfg.Sensor.Addr)
	if err != nil {
		log.Fatal().Err(err).Msg("accelerometer not responding")
	}
	defer dev.Halt()
	if err := dev.Configure(cfg.Sensor.RangeG, cfg.Sensor.SampleRateHz); err != nil {
		log.Fatal().Err(err).Msg("accelerometer configuration failed")
	}

	loop := walker.New(str, walker.NewWallClock(), dev, walker.Options{
		FlashS:   cfg.Animation.FlashS,
		FreqHz:   cfg.Animation.FreqHz,
		Interval: time.Duration(cfg.Loop.IntervalMs) * time.Millisecond,
		Monitor:  monitor,
	})

	// ---- Tap calibration ----
	settings, err := tap.Calibrate(cfg.Tap.ThresholdG, cfg.Tap.TimeLimitS,
		float64(cfg.Sensor.RangeG), float64(cfg.Sensor.SampleRateHz))
	if err != nil {
		// A wearable has no console: park in the red beacon instead of
		// exiting so the bad config is visible on the shoe itself.
		report.Fault(diagnostics.Err, "tap_calibration", "tap calibration out of range", err.Error())
		loop.SOS(ctx, err.Error())
		shutdown(srv)
		return
	}
	log.Info().Uint8("code", settings.Threshold).Msg("using tap threshold value")
	log.Info().Uint8("code", settings.TimeLimit).Msg("using time limit value")
	if err := dev.EnableSingleTap(settings.Threshold, settings.TimeLimit); err != nil {
		log.Fatal().Err(err).Msg("tap detection enable failed")
	}
	report.Update(func(r *diagnostics.Report) {
		r.SensorOK = true
		r.ThresholdCode = int(settings.Threshold)
		r.TimeLimitCode = int(settings.TimeLimit)
	})

	log.Info().
		Str("strip", str.String()).
		Int("pixels", str.Count()).
		Float64("flash_s", cfg.Animation.FlashS).
		Msg("walking")
	if err := loop.Run(ctx); err != nil {
		log.Info().Err(err).Msg("shutting down")
	}
	shutdown(srv)
}

// openStrip picks the pixel driver. "auto" tries SPI and falls back to
// the console renderer; asking for SPI outright makes failure fatal.
func openStrip(cfg *config.Config, report *diagnostics.Store) *strip.Drawer {
	n := cfg.Strip.Pixels
	var str *strip.Drawer
	actual := cfg.Strip.Driver
	switch cfg.Strip.Driver {
	case "console":
		str = strip.OpenConsole(n)
	case "spi":
		s, err := strip.OpenSPI(cfg.Strip.Port, n)
		if err != nil {
			log.Fatal().Err(err).Str("port", cfg.Strip.Port).Msg("spi strip open failed")
		}
		str = s
	default: // auto
		s, err := strip.OpenSPI(cfg.Strip.Port, n)
		if err != nil {
			log.Warn().Err(err).Msg("no spi strip; falling back to console")
			report.Fault(diagnostics.Warn, "strip_fallback", "no spi strip, using console", err.Error())
			str = strip.OpenConsole(n)
			actual = "console"
		} else {
			str = s
			actual = "spi"
		}
	}
	report.Update(func(r *diagnostics.Report) {
		r.Driver = actual
		r.Pixels = n
	})
	return str
}

func shutdown(srv *http.Server) {
	if srv != nil {
		_ = srv.Close()
	}
}
