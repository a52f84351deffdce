package main

import (
	"bytes"
	"fmt"
	"io"

	"github.com/gdamore/tcell/v2"
	"github.com/spf13/cobra"

	"github.com/dshills/mattex/internal/app"
	"github.com/dshills/mattex/internal/preview"
)

func newPreviewCommand(g *globalFlags) *cobra.Command {
	var f renderFlags
	cmd := &cobra.Command{
		Use:   "preview [script]",
		Short: "Page through the rendered scenes in the terminal",
		Long: `Preview renders every scene in memory and shows them in the terminal.
Right, Space or n moves forward; Left or p moves back; q or Esc quits.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				if err := cmd.Flags().Set("script", args[0]); err != nil {
					return err
				}
			}

			// Log lines would tear the screen; hold them until it closes.
			var logs bytes.Buffer
			defer func() {
				_, _ = io.Copy(cmd.ErrOrStderr(), &logs)
			}()

			application, err := app.New(g.options(f.overrides(cmd.Flags()), &logs))
			if err != nil {
				return err
			}
			frames, err := application.Frames(cmd.Context())
			if err != nil {
				return err
			}

			screen, err := tcell.NewScreen()
			if err != nil {
				return fmt.Errorf("create screen: %w", err)
			}
			if err := screen.Init(); err != nil {
				return fmt.Errorf("init screen: %w", err)
			}
			defer screen.Fini()

			v := preview.NewViewer(screen, frames, preview.WithLogger(application.Logger()))
			return v.Run(cmd.Context())
		},
	}
	f.register(cmd.Flags())
	return cmd
}
