package main

import (
	"fmt"

	"github.com/gdamore/tcell/v2"
	"github.com/spf13/cobra"

	"github.com/ha1tch/archdiag/pkg/render/term"
)

// NewPreviewCommand creates the preview command.
func NewPreviewCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "preview [scene]",
		Short: "Preview a scene in the terminal",
		Long:  `Draw the scene with box-drawing characters. Press q or Esc to quit.`,
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, plan, err := rootOpts.layout(args)
			if err != nil {
				return err
			}
			opts, err := rootOpts.cfg.RasterOptions()
			if err != nil {
				return err
			}

			screen, err := tcell.NewScreen()
			if err != nil {
				return fmt.Errorf("failed to create screen: %w", err)
			}
			if err := screen.Init(); err != nil {
				return fmt.Errorf("failed to initialize screen: %w", err)
			}
			defer screen.Fini()

			term.Run(screen, plan, opts.World)
			return nil
		},
	}
}
