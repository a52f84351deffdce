package main

import (
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/dshills/mattex/internal/app"
)

// renderFlags map command line flags onto config keys.
type renderFlags struct {
	script     string
	out        string
	format     string
	width      int
	height     int
	unit       float64
	background string
	plugins    []string
	strict     bool
}

func (f *renderFlags) register(fs *pflag.FlagSet) {
	fs.StringVarP(&f.script, "script", "s", "", "Lua scene script")
	fs.StringVarP(&f.out, "out", "o", "", "output directory")
	fs.StringVarP(&f.format, "format", "f", "", "output format (png, bmp, tiff, svg)")
	fs.IntVar(&f.width, "width", 0, "surface width in pixels")
	fs.IntVar(&f.height, "height", 0, "surface height in pixels")
	fs.Float64Var(&f.unit, "unit", 0, "pixels per unit, overriding the derived value")
	fs.StringVar(&f.background, "background", "", "background color")
	fs.StringSliceVar(&f.plugins, "plugins", nil, "builtin plugins to install")
	fs.BoolVar(&f.strict, "strict", false, "refuse plugins that redefine a capability")
}

// overrides returns only the settings whose flags were given.
func (f *renderFlags) overrides(fs *pflag.FlagSet) map[string]any {
	m := make(map[string]any)
	section := func(name string) map[string]any {
		s, ok := m[name].(map[string]any)
		if !ok {
			s = make(map[string]any)
			m[name] = s
		}
		return s
	}

	if fs.Changed("script") {
		m["script"] = f.script
	}
	if fs.Changed("out") {
		section("output")["dir"] = f.out
	}
	if fs.Changed("format") {
		section("output")["format"] = f.format
	}
	if fs.Changed("width") {
		section("surface")["width"] = f.width
	}
	if fs.Changed("height") {
		section("surface")["height"] = f.height
	}
	if fs.Changed("unit") {
		section("surface")["unit"] = f.unit
	}
	if fs.Changed("background") {
		section("surface")["background"] = f.background
	}
	if fs.Changed("plugins") {
		list := make([]any, len(f.plugins))
		for i, p := range f.plugins {
			list[i] = p
		}
		section("plugins")["builtin"] = list
	}
	if fs.Changed("strict") {
		section("plugins")["strict"] = f.strict
	}
	return m
}

func newRenderCommand(g *globalFlags) *cobra.Command {
	var (
		f        renderFlags
		watch    bool
		debounce time.Duration
	)
	cmd := &cobra.Command{
		Use:   "render [script]",
		Short: "Render every scene to the output directory",
		Long: `Render runs each scene of the script in order and writes one file per
scene, named NNN-scene.ext, to the output directory. Without a script a
demonstration of the builtin plugins is rendered.`,
		Example: `  # Render a script as PNG frames
  mattex render slides.lua

  # Render as SVG into ./frames at 1280x720
  mattex render slides.lua -f svg -o frames --width 1280 --height 720

  # Re-render whenever the script or config changes
  mattex render -c mattex.toml --watch`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				if err := cmd.Flags().Set("script", args[0]); err != nil {
					return err
				}
			}
			application, err := app.New(g.options(f.overrides(cmd.Flags()), cmd.ErrOrStderr()))
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if watch {
				fmt.Fprintln(out, dimStyle.Render("watching for changes, Ctrl-C to stop"))
				return application.Watch(cmd.Context(), func(res *app.Result, err error) {
					if err != nil {
						printError(cmd.ErrOrStderr(), err)
						return
					}
					printResult(out, res)
				}, debounce)
			}

			res, err := application.Render(cmd.Context())
			if err != nil {
				return err
			}
			printResult(out, res)
			return nil
		},
	}
	f.register(cmd.Flags())
	cmd.Flags().BoolVarP(&watch, "watch", "w", false, "re-render when the config or script changes")
	cmd.Flags().DurationVar(&debounce, "debounce", 100*time.Millisecond, "quiet period before a change triggers a render")
	return cmd
}

func printResult(w io.Writer, res *app.Result) {
	fmt.Fprintln(w, titleStyle.Render(fmt.Sprintf("Rendered %d frames", len(res.Report.Frames))))
	for _, fr := range res.Report.Frames {
		fmt.Fprintf(w, "  %s %s %s\n",
			okStyle.Render("✓"), fr.Path, dimStyle.Render(fr.Duration.Round(time.Millisecond).String()))
	}
}

