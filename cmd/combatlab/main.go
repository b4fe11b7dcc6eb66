// combatlab simulates duels between stat profiles and measures what each stat
// is worth.
//
// Usage:
//
//	go run ./cmd/combatlab simulate -a bruiser -b assassin -n 20000
//	go run ./cmd/combatlab solve -archetype tank -stat htk -value 6 -lock hp
//	go run ./cmd/combatlab ehp -stats profile.yaml
//	go run ./cmd/combatlab weights -archetype duelist -top 5
//	go run ./cmd/combatlab swi -archetype caster
//	go run ./cmd/combatlab runs -limit 10
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
)

const (
	ConfigPath = "config/combatlab.yaml"
	ConfigEnv  = "COMBATLAB_CONFIG"
)

var errUsage = errors.New("usage: combatlab <simulate|solve|ehp|weights|swi|runs> [flags]")

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		slog.Info("shutting down", "signal", sig)
		cancel()
	}()

	if err := run(ctx, os.Args[1:], os.Stdout); err != nil {
		slog.Error("fatal", "err", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, out io.Writer) error {
	if len(args) == 0 {
		return errUsage
	}

	cfgPath := ConfigPath
	if p := os.Getenv(ConfigEnv); p != "" {
		cfgPath = p
	}
	a, err := newApp(ctx, cfgPath, out)
	if err != nil {
		return err
	}
	defer a.close()

	cmd, rest := args[0], args[1:]
	switch cmd {
	case "simulate":
		return a.simulate(ctx, rest)
	case "solve":
		return a.solve(rest)
	case "ehp":
		return a.ehp(rest)
	case "weights":
		return a.weights(ctx, rest)
	case "swi":
		return a.swi(rest)
	case "runs":
		return a.runs(ctx, rest)
	}
	return fmt.Errorf("unknown command %q: %w", cmd, errUsage)
}
