//go:build !windows

package main

import (
	"bytes"
	"net/http"
	_ "net/http/pprof"
	"os"
	"os/signal"
	"runtime/pprof"
	"strconv"
	"strings"
	"syscall"

	"github.com/charmbracelet/x/term"

	"github.com/andyrewlee/termsel/internal/cli"
	"github.com/andyrewlee/termsel/internal/logging"
	"github.com/andyrewlee/termsel/internal/safego"
)

// Version info set by GoReleaser via ldflags
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	startSignalDebug()
	startPprof()
	args := defaultArgs(os.Args[1:], term.IsTerminal(os.Stdin.Fd()), term.IsTerminal(os.Stdout.Fd()))
	os.Exit(cli.Run(args, version, commit, date))
}

// defaultArgs opens the viewer on piped input when no subcommand is given,
// so `cmd | termsel` works like `cmd | termsel view`.
func defaultArgs(args []string, stdinTTY, stdoutTTY bool) []string {
	if len(args) == 0 && !stdinTTY && stdoutTTY {
		return []string{"view"}
	}
	return args
}

// pprofAddr resolves TERMSEL_PPROF into a listen address. An empty result
// leaves the profiler off.
func pprofAddr(raw string) string {
	raw = strings.TrimSpace(raw)
	switch strings.ToLower(raw) {
	case "", "0", "false", "no":
		return ""
	case "1", "true":
		return "127.0.0.1:6060"
	}
	if _, err := strconv.Atoi(raw); err == nil {
		return "127.0.0.1:" + raw
	}
	return raw
}

func startPprof() {
	addr := pprofAddr(os.Getenv("TERMSEL_PPROF"))
	if addr == "" {
		return
	}

	safego.Go("pprof", func() {
		logging.Info("pprof listening on %s", addr)
		if err := http.ListenAndServe(addr, nil); err != nil {
			logging.Warn("pprof server stopped: %v", err)
		}
	})
}

// startSignalDebug registers a SIGUSR1 handler for debug goroutine dumps.
// It is only active in dev builds or when TERMSEL_DEBUG_SIGNALS is set.
func startSignalDebug() {
	if version != "dev" && strings.TrimSpace(os.Getenv("TERMSEL_DEBUG_SIGNALS")) == "" {
		return
	}
	ch := make(chan os.Signal, 1)
	signal.Notify(ch, syscall.SIGUSR1)
	safego.Go("signal-debug", func() {
		for range ch {
			var buf bytes.Buffer
			if err := pprof.Lookup("goroutine").WriteTo(&buf, 2); err != nil {
				logging.Warn("Failed to write goroutine dump: %v", err)
				continue
			}
			logging.Warn("GOROUTINE DUMP\n%s", buf.String())
		}
	})
}
