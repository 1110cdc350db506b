package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"slices"
	"syscall"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"seam-lattice/internal/config"
	"seam-lattice/internal/scenario"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Verbose bool
	Format  string // "json" | "text"
	Presets string // user catalogue merged over the built-in one

	Env    config.Env
	envErr error

	// RunID generates report ids; UUIDv7 unless overridden in tests.
	RunID  func() string
	Logger *slog.Logger
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// NewRootCommand creates the seamlab command tree. Flag defaults come from
// SEAM_* environment variables.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{RunID: newRunID}
	opts.envErr = config.ParseEnv(&opts.Env)

	cmd := &cobra.Command{
		Use:   "seamlab",
		Short: "Seam lattice and bottle consensus experiments",
		Long: `Run, watch and sweep the two engines headlessly.

The lattice engine flips cells outward from an ignition point on a toroidal
grid; the bottle engine races a Frozen and a Liquid front across a bottle
silhouette until one of them holds consensus.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if opts.envErr != nil {
				return WrapExitError(ExitCommandError, "invalid environment", opts.envErr)
			}
			if !isValidFormat(opts.Format) {
				return NewExitError(ExitCommandError, fmt.Sprintf("invalid format %q: must be one of %v", opts.Format, ValidFormats))
			}
			opts.Logger = newLogger(cmd.ErrOrStderr(), opts.Verbose)
			return nil
		},
	}
	cmd.SetFlagErrorFunc(func(c *cobra.Command, err error) error {
		return WrapExitError(ExitCommandError, "invalid flags", err)
	})

	format := opts.Env.Format
	if format == "" {
		format = "text"
	}
	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", format, "output format (json|text)")
	cmd.PersistentFlags().StringVar(&opts.Presets, "presets", opts.Env.Presets, "YAML catalogue merged over the built-in presets")

	cmd.AddCommand(NewLatticeCommand(opts))
	cmd.AddCommand(NewBottleCommand(opts))
	cmd.AddCommand(NewSweepCommand(opts))
	cmd.AddCommand(NewPresetsCommand(opts))

	return cmd
}

func isValidFormat(format string) bool {
	return slices.Contains(ValidFormats, format)
}

func newLogger(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

func newRunID() string {
	return uuid.Must(uuid.NewV7()).String()
}

func (o *RootOptions) log() *slog.Logger {
	if o.Logger == nil {
		return slog.Default()
	}
	return o.Logger
}

func (o *RootOptions) formatter(cmd *cobra.Command) *OutputFormatter {
	return &OutputFormatter{
		Format:    o.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   o.Verbose,
		RunID:     o.RunID(),
	}
}

// catalog returns the built-in presets with the user catalogue merged in.
func (o *RootOptions) catalog() (scenario.Catalog, error) {
	c, err := scenario.Builtin()
	if err != nil {
		return scenario.Catalog{}, WrapExitError(ExitFailure, "built-in presets", err)
	}
	if o.Presets == "" {
		return c, nil
	}
	user, err := scenario.Load(o.Presets)
	if err != nil {
		return scenario.Catalog{}, WrapExitError(ExitCommandError, "load presets", err)
	}
	o.log().Debug("presets loaded", "path", o.Presets, "lattice", len(user.Lattice), "bottle", len(user.Bottle))
	return c.Merge(user), nil
}

// signalContext cancels on SIGINT/SIGTERM so long runs stop between steps.
func signalContext(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	parent := cmd.Context()
	if parent == nil {
		parent = context.Background()
	}
	return signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
}

// seedOr picks the flag or SEAM_SEED value over fallback when non-zero.
func (o *RootOptions) seedOr(flag, fallback int64) int64 {
	if flag != 0 {
		return flag
	}
	if o.Env.Seed != 0 {
		return o.Env.Seed
	}
	return fallback
}

func isCanceled(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}
