package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	flag "github.com/spf13/pflag"

	"yuvpsnr/internal/config"
	"yuvpsnr/internal/runner"
	"yuvpsnr/internal/version"
	"yuvpsnr/internal/yuv"
)

// Exit codes.
const (
	exitOK     = 0
	exitFail   = 1
	exitConfig = 2
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("yuvpsnr", flag.ContinueOnError)
	fs.SetOutput(stderr)

	width := fs.IntP("width", "w", 0, "frame width in pixels, multiple of 16")
	height := fs.IntP("height", "h", 0, "frame height in pixels, multiple of 16")
	ref := fs.StringP("reffile", "r", "", "reference I420 sequence (.zst accepted)")
	test := fs.StringP("infile", "i", "", "test I420 sequence (.zst accepted)")
	mask := fs.StringP("mapfile", "m", "", "ROI mask, one byte per macroblock per frame")
	cfgPath := fs.String("config", getEnv("YUVPSNR_CONFIG", ""), "YAML run configuration")
	frames := fs.Int("frames", 0, "compare at most this many frames (0 = all)")
	workers := fs.Int("workers", getEnvInt("YUVPSNR_WORKERS", 1), "frames measured concurrently")
	emptyPart := fs.String("empty-partition", "fail", "frames with an empty ROI or non-ROI partition: fail or skip")
	mapPath := fs.String("map", "", "write quality map with percentile bounds")
	minPSNR := fs.Float64("min-psnr", 0, "fixed lower bound of --map in dB")
	maxPSNR := fs.Float64("max-psnr", 0, "fixed upper bound of --map in dB")
	absPath := fs.String("abs-map", "", "write quality map with fixed bounds")
	absMin := fs.Float64("abs-min-psnr", config.DefaultAbsMinPSNR, "lower bound of --abs-map in dB")
	absMax := fs.Float64("abs-max-psnr", config.DefaultAbsMaxPSNR, "upper bound of --abs-map in dB")
	format := fs.String("report-format", "text", "report format: text, json or msgpack")
	output := fs.String("report", "", "write report to file instead of stdout")
	perFrame := fs.Bool("per-frame", false, "include per-frame PSNR lines")
	debug := fs.Bool("debug", false, "debug logging")
	logJSON := fs.Bool("log-json", false, "log as JSON")
	showVersion := fs.Bool("version", false, "print version and exit")

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return exitOK
		}
		return exitConfig
	}
	if *showVersion {
		fmt.Fprintln(stdout, version.Banner())
		return exitOK
	}

	logger := newLogger(stderr, *debug, *logJSON)

	cfg := &config.Config{}
	if *cfgPath != "" {
		c, err := config.Load(*cfgPath)
		if err != nil {
			fmt.Fprintf(stderr, "yuvpsnr: %v\n", err)
			return exitConfig
		}
		cfg = c
	}

	// Flags given on the command line win over the file. Flags carrying
	// environment defaults also fill fields the file left empty.
	set := func(name string) bool { return fs.Changed(name) }
	if set("width") {
		cfg.Width = *width
	}
	if set("height") {
		cfg.Height = *height
	}
	if set("reffile") {
		cfg.Reference = *ref
	}
	if set("infile") {
		cfg.Test = *test
	}
	if set("mapfile") {
		cfg.Mask = *mask
	}
	if set("frames") {
		cfg.Frames = *frames
	}
	if set("workers") || cfg.Workers == 0 {
		cfg.Workers = *workers
	}
	if set("empty-partition") {
		cfg.EmptyPart = *emptyPart
	}
	if set("map") {
		cfg.Map.Path = *mapPath
	}
	if set("min-psnr") {
		v := *minPSNR
		cfg.Map.Min = &v
	}
	if set("max-psnr") {
		v := *maxPSNR
		cfg.Map.Max = &v
	}
	if set("abs-map") {
		cfg.AbsoluteMap.Path = *absPath
	}
	if set("abs-min-psnr") {
		v := *absMin
		cfg.AbsoluteMap.Min = &v
	}
	if set("abs-max-psnr") {
		v := *absMax
		cfg.AbsoluteMap.Max = &v
	}
	if set("report-format") {
		cfg.Report.Format = *format
	}
	if set("report") {
		cfg.Report.Output = *output
	}
	if set("per-frame") {
		cfg.Report.PerFrame = *perFrame
	}

	if err := config.Validate(cfg); err != nil {
		fmt.Fprintf(stderr, "yuvpsnr: %v\n", err)
		return exitConfig
	}

	if _, err := runner.Run(ctx, cfg, logger, stdout); err != nil {
		fmt.Fprintf(stderr, "yuvpsnr: %v\n", err)
		if errors.Is(err, yuv.ErrConfig) {
			return exitConfig
		}
		return exitFail
	}
	return exitOK
}

func newLogger(w io.Writer, debug, asJSON bool) *slog.Logger {
	level := slog.LevelInfo
	if v := getEnv("YUVPSNR_LOG_LEVEL", ""); v != "" {
		if err := level.UnmarshalText([]byte(strings.ToUpper(v))); err != nil {
			level = slog.LevelInfo
		}
	}
	if debug {
		level = slog.LevelDebug
	}
	opts := &slog.HandlerOptions{Level: level}
	if asJSON {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		var x int
		if _, err := fmt.Sscanf(v, "%d", &x); err == nil {
			return x
		}
	}
	return def
}
