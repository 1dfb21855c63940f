package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/exp/rand"

	"github.com/g-m-twostay/cp-utils/internal/config"
	"github.com/g-m-twostay/cp-utils/internal/driver"
	"github.com/g-m-twostay/cp-utils/internal/logging"
)

// stdio names standard input or output in place of a path.
const stdio = "-"

func newRunCommand() *cobra.Command {
	v := viper.New()
	var configPath string

	cmd := &cobra.Command{
		Use:   "run [input] [output]",
		Short: "Execute a command file",
		Long: `Execute the commands of input and write the answers to output.
Paths default to the configured ones; "-" means stdin or stdout.`,
		Args: cobra.MaximumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) > 0 {
				v.Set("input", args[0])
			}
			if len(args) > 1 {
				v.Set("output", args[1])
			}
			cfg, err := config.LoadWith(v, configPath)
			if err != nil {
				return err
			}
			return run(cmd, cfg)
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&configPath, "config", "", "config file (default .secv8.yaml in . or $HOME)")
	flags.String("engine", config.DefaultEngine, "sequence engine: treap or list")
	flags.Uint64("seed", 0, "treap priority seed, 0 seeds from the clock")
	flags.Bool("verify", false, "run the list engine alongside and fail on divergence")
	flags.String("log-level", config.DefaultLogLevel, "log level: debug, info, warn or error")
	flags.String("log-file", "", "log to a rotated file instead of stderr")

	for key, flag := range map[string]string{
		"engine":    "engine",
		"seed":      "seed",
		"verify":    "verify",
		"log.level": "log-level",
		"log.file":  "log-file",
	} {
		if err := v.BindPFlag(key, flags.Lookup(flag)); err != nil {
			panic(err)
		}
	}
	return cmd
}

func run(cmd *cobra.Command, cfg *config.Config) error {
	logger, closer := logging.New(cfg.Log, cmd.ErrOrStderr())
	defer closer.Close()

	in, err := openInput(cmd, cfg.Input)
	if err != nil {
		return err
	}
	defer in.Close()
	cmds, err := driver.Parse(in)
	if err != nil {
		return fmt.Errorf("parse %s: %w", cfg.Input, err)
	}

	r := &driver.Runner{Logger: logger}
	switch cfg.Engine {
	case config.EngineList:
		r.Engine = driver.NewListEngine()
	default:
		var src rand.Source
		if cfg.Seed != 0 {
			src = rand.NewSource(cfg.Seed)
		}
		r.Engine = driver.NewTreapEngine(len(cmds), src)
	}
	if cfg.Verify {
		r.Reference = driver.NewListEngine()
	}
	logger.DebugContext(cmd.Context(), "starting run",
		slog.String("input", cfg.Input), slog.String("engine", cfg.Engine),
		slog.Int("commands", len(cmds)), slog.Bool("verify", cfg.Verify))

	out, err := openOutput(cmd, cfg.Output)
	if err != nil {
		return err
	}
	if _, err = r.Run(cmd.Context(), cmds, out); err != nil {
		out.Close()
		return err
	}
	if err = out.Close(); err != nil {
		return fmt.Errorf("close %s: %w", cfg.Output, err)
	}
	return nil
}

func openInput(cmd *cobra.Command, path string) (io.ReadCloser, error) {
	if path == stdio {
		return io.NopCloser(cmd.InOrStdin()), nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open input: %w", err)
	}
	return f, nil
}

type nopWriteCloser struct {
	io.Writer
}

func (nopWriteCloser) Close() error { return nil }

func openOutput(cmd *cobra.Command, path string) (io.WriteCloser, error) {
	if path == stdio {
		return nopWriteCloser{cmd.OutOrStdout()}, nil
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("create output: %w", err)
	}
	return f, nil
}
