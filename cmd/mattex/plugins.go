package main

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/tidwall/sjson"

	"github.com/dshills/mattex/internal/app"
	"github.com/dshills/mattex/internal/plugin"
)

func newPluginsCommand(g *globalFlags) *cobra.Command {
	var (
		f      renderFlags
		asJSON bool
	)
	cmd := &cobra.Command{
		Use:   "plugins [script]",
		Short: "List the plugins a render would install",
		Long: `Plugins loads the configuration and script, validates the plugin set
and lists each plugin with its requirements and the capabilities it adds.
An unmet requirement is reported the same way render reports it.`,
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
			sess, err := application.Build(cmd.Context())
			if err != nil {
				return err
			}
			defer sess.Close()

			infos := sess.Plugins()
			if asJSON {
				data, err := pluginsJSON(infos, sess.Surface().Capabilities())
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), data)
				return nil
			}
			printPlugins(cmd.OutOrStdout(), infos)
			return nil
		},
	}
	f.register(cmd.Flags())
	cmd.Flags().BoolVar(&asJSON, "json", false, "print as JSON")
	return cmd
}

func printPlugins(w io.Writer, infos []plugin.Info) {
	fmt.Fprintln(w, titleStyle.Render(fmt.Sprintf("Plugins (%d)", len(infos))))
	if len(infos) == 0 {
		fmt.Fprintln(w, dimStyle.Render("  none"))
		return
	}

	tw := tabwriter.NewWriter(w, 0, 8, 2, ' ', 0)
	fmt.Fprintln(tw, "NAME\tREQUIRES\tCAPABILITIES\tDESCRIPTION")
	for _, p := range infos {
		req := strings.Join(p.Requires, ",")
		if req == "" {
			req = "-"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", p.Name, req, strings.Join(p.Funcs, ","), p.Description)
	}
	tw.Flush()
}

// pluginsJSON renders the plugin list and the resulting capability set.
func pluginsJSON(infos []plugin.Info, caps []string) (string, error) {
	out := `{"plugins":[],"capabilities":[]}`
	var err error
	set := func(path string, v any) {
		if err == nil {
			out, err = sjson.Set(out, path, v)
		}
	}
	for i, p := range infos {
		prefix := fmt.Sprintf("plugins.%d.", i)
		set(prefix+"name", p.Name)
		set(prefix+"description", p.Description)
		set(prefix+"requires", nonNil(p.Requires))
		set(prefix+"funcs", nonNil(p.Funcs))
	}
	set("capabilities", nonNil(caps))
	return out, err
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
