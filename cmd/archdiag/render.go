package main

import (
	"context"
	"errors"

	"github.com/spf13/cobra"

	"github.com/ha1tch/archdiag/pkg/logging"
	"github.com/ha1tch/archdiag/pkg/render/raster"
	"github.com/ha1tch/archdiag/pkg/watch"
)

// NewRenderCommand creates the render command.
func NewRenderCommand(rootOpts *RootOptions) *cobra.Command {
	var (
		output   string
		watching bool
	)

	cmd := &cobra.Command{
		Use:   "render [scene]",
		Short: "Render a scene to PNG",
		Long: `Render a scene file (TOML, YAML or JSON) to a PNG image.

With --watch the scene is rendered again every time the file changes,
until interrupted.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if watching && len(args) == 0 {
				return errors.New("--watch needs a scene file")
			}
			opts, err := rootOpts.cfg.RasterOptions()
			if err != nil {
				return err
			}

			renderOnce := func(ctx context.Context) error {
				s, err := rootOpts.loadScene(args)
				if err != nil {
					return err
				}
				plan, err := raster.RenderFile(ctx, s, rootOpts.cfg.BoxSize(), opts, output)
				if err != nil {
					return err
				}
				printOK(cmd.OutOrStdout(), "wrote %s (%d boxes, %d connectors)",
					output, len(plan.Boxes), len(plan.Connectors))
				return nil
			}

			err = renderOnce(cmd.Context())
			if !watching {
				return err
			}
			if err != nil {
				logging.Error("render failed", "error", err)
			}
			return watch.Run(cmd.Context(), args[0], watch.DefaultQuiet, renderOnce)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "diagram.png", "output PNG file")
	cmd.Flags().BoolVarP(&watching, "watch", "w", false, "re-render when the scene file changes")

	return cmd
}
