package main

import (
	"context"
	"crypto/rand"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/a-h/templ"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"

	"github.com/pthm/mycounter"
	hxcounterecho "github.com/pthm/mycounter/adapters/echo"
	"github.com/pthm/mycounter/internal/config"
	"github.com/pthm/mycounter/internal/logging"
	"github.com/pthm/mycounter/internal/tui"
)

const version = "0.1.0"

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	cmd := os.Args[1]
	args := os.Args[2:]

	switch cmd {
	case "serve":
		if err := runServe(args); err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			os.Exit(1)
		}
	case "tui":
		if err := runTUI(args); err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			os.Exit(1)
		}
	case "version":
		fmt.Printf("mycounter version %s\n", version)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "unknown command: %s\n", cmd)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`mycounter - bounded counter widget

Usage:
  mycounter <command> [options]

Commands:
  serve     Serve a page of counters over HTTP (htmx)
  tui       Run the first configured counter in the terminal
  version   Print version
  help      Show this help

Options:
  -config path   mycounter.yaml or mycounter.toml (default: mycounter.yaml if present)
  -addr addr     Listen address for serve, overrides server.addr

Examples:
  mycounter serve -config mycounter.toml
  mycounter tui`)
}

// loadConfig parses the flags shared by all commands.
func loadConfig(name string, args []string) (*config.Config, error) {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	path := fs.String("config", "mycounter.yaml", "config file")
	addr := fs.String("addr", "", "listen address")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	cfg, err := config.Load(*path)
	if err != nil {
		return nil, err
	}
	if *addr != "" {
		cfg.Server.Addr = *addr
	}
	return cfg, nil
}

func runServe(args []string) error {
	cfg, err := loadConfig("serve", args)
	if err != nil {
		return err
	}

	log, err := logging.New(os.Stderr, cfg.Log.Level, cfg.Log.Pretty)
	if err != nil {
		return err
	}

	key, err := serverKey(cfg, &log)
	if err != nil {
		return err
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Use(logging.AccessLog(&log))
	e.Use(middleware.Recover())

	counters := make([]templ.Component, 0, len(cfg.Counters))
	for i, cc := range cfg.Counters {
		hopts := []mycounter.HandlerOption{
			mycounter.WithLogger(&log),
			mycounter.WithCounterOptions(cc.Options()...),
		}
		if cfg.Server.Sensitive {
			hopts = append(hopts, mycounter.WithSensitive())
		}

		// One handler per configured counter so each keeps its own slots.
		h := hxcounterecho.Mount(e,
			hxcounterecho.WithKey(key),
			hxcounterecho.WithPath(mycounter.DefaultPrefix+"/"+strconv.Itoa(i)),
			hxcounterecho.WithHandlerOptions(hopts...),
		)
		counters = append(counters, h.Component(cc.Attributes()))
	}

	e.GET("/", func(c echo.Context) error {
		return hxcounterecho.Render(c, page(counters))
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", cfg.Server.Addr).Int("counters", len(counters)).Msg("serving")
		errCh <- e.Start(cfg.Server.Addr)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	log.Info().Msg("shutting down")
	return e.Shutdown(shutdownCtx)
}

// serverKey returns the configured key, or a random one with a warning
// that tokens will not survive a restart.
func serverKey(cfg *config.Config, log *zerolog.Logger) ([]byte, error) {
	key, err := cfg.KeyBytes()
	if err != nil {
		return nil, err
	}
	if key != nil {
		return key, nil
	}

	key = make([]byte, 32)
	if _, err := rand.Read(key); err != nil {
		return nil, fmt.Errorf("generate key: %w", err)
	}
	log.Warn().Msg("server.key not set; using a random key, counter state resets on restart")
	return key, nil
}

func runTUI(args []string) error {
	cfg, err := loadConfig("tui", args)
	if err != nil {
		return err
	}

	cc := cfg.Counters[0]
	c := mycounter.New(append([]mycounter.Option{mycounter.WithAttributes(cc.Attributes())}, cc.Options()...)...)

	opts := []tui.Option{tui.WithScale(scaleFor(cc.Height))}
	if cc.Header != "" {
		opts = append(opts, tui.WithTitle(cc.Header))
	}
	if cc.Help != "" {
		opts = append(opts, tui.WithHelp(cc.Help))
	}
	return tui.Run(tui.New(c, opts...))
}

// scaleFor converts a CSS height to a terminal scale: one step per 50px,
// with rem and em counted as 16px. Unknown units give 1.
func scaleFor(height string) int {
	height = strings.TrimSpace(height)
	px := 0.0
	for _, unit := range []struct {
		suffix string
		factor float64
	}{{"px", 1}, {"rem", 16}, {"em", 16}} {
		if n, ok := strings.CutSuffix(height, unit.suffix); ok {
			if v, err := strconv.ParseFloat(n, 64); err == nil {
				px = v * unit.factor
			}
			break
		}
	}
	if s := int(px / 50); s > 1 {
		return s
	}
	return 1
}
