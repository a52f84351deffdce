// Package main is the entry point for the mattex renderer.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/dshills/mattex/internal/app"
	"github.com/dshills/mattex/internal/plugin"
)

// Version information (set via ldflags during build).
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

func main() {
	os.Exit(run())
}

func run() int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	root := newRootCommand()
	if err := root.ExecuteContext(ctx); err != nil {
		printError(os.Stderr, err)
		return 1
	}
	return 0
}

// globalFlags are shared by every subcommand.
type globalFlags struct {
	configPath string
	logLevel   string
}

func newRootCommand() *cobra.Command {
	var g globalFlags
	cmd := &cobra.Command{
		Use:   "mattex",
		Short: "Render scripted math scenes",
		Long: `mattex renders scenes described by Lua scripts onto a raster or SVG
surface. Drawing functions come from plugins; each plugin declares the
plugins it requires and the set is validated before anything is drawn.`,
		Version:       fmt.Sprintf("%s (commit %s, built %s)", version, commit, date),
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.PersistentFlags().StringVarP(&g.configPath, "config", "c", "", "path to configuration file (toml, yaml or json)")
	cmd.PersistentFlags().StringVar(&g.logLevel, "log-level", "", "log level (debug, info, warn, error)")

	cmd.AddCommand(newRenderCommand(&g))
	cmd.AddCommand(newPreviewCommand(&g))
	cmd.AddCommand(newPluginsCommand(&g))
	cmd.AddCommand(newUnitCommand())
	return cmd
}

// options builds app options from the global flags and per-command
// overrides.
func (g *globalFlags) options(overrides map[string]any, logOut io.Writer) app.Options {
	if overrides == nil {
		overrides = make(map[string]any)
	}
	if g.logLevel != "" {
		overrides["logging"] = map[string]any{"level": g.logLevel}
	}
	return app.Options{
		ConfigPath: g.configPath,
		Overrides:  overrides,
		LogOutput:  logOut,
	}
}

func printError(w io.Writer, err error) {
	fmt.Fprintln(w, errorStyle.Render("Error:"), err)

	var inst *plugin.InstallError
	if errors.As(err, &inst) {
		fmt.Fprintln(w)
		fmt.Fprint(w, inst.Report())
	}
}
