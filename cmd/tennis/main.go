package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"sort"
	"syscall"

	"github.com/palemoky/tennis/internal/logger"
)

type command struct {
	usage string
	run   func(ctx context.Context, args []string, out io.Writer) error
}

var commands = map[string]command{
	"round":      {"play one round between two strategies and show every move", runRound},
	"dual":       {"play many match pairs between two strategies", runDual},
	"roundrobin": {"play every leader against every dealer", runRoundRobin},
	"play":       {"play a round against a strategy in the terminal UI", runPlay},
	"cli":        {"play a round against a strategy line by line", runCLI},
	"serve":      {"serve the leaderboard over HTTP", runServe},
	"strategies": {"list the registered strategies", runStrategies},
}

func usage(w io.Writer) {
	fmt.Fprintln(w, "usage: tennis <command> [flags]")
	fmt.Fprintln(w)
	names := make([]string, 0, len(commands))
	for name := range commands {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Fprintf(w, "  %-11s %s\n", name, commands[name].usage)
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, "run 'tennis <command> -h' for the flags of a command")
}

// run executes cmd. A panic is written to the log with its stack and returned as an error.
func run(ctx context.Context, cmd command, args []string, out io.Writer) (err error) {
	defer func() {
		if r := recover(); r != nil {
			logger.LogPanic(r)
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	return cmd.run(ctx, args, out)
}

func main() {
	if len(os.Args) < 2 {
		usage(os.Stderr)
		os.Exit(2)
	}
	cmd, ok := commands[os.Args[1]]
	if !ok {
		fmt.Fprintf(os.Stderr, "unknown command %q\n\n", os.Args[1])
		usage(os.Stderr)
		os.Exit(2)
	}

	// 优雅关闭
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cmd, os.Args[2:], os.Stdout); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return
		}
		stop()
		log.Fatalf("%s: %v", os.Args[1], err)
	}
}
