package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ha1tch/archdiag/pkg/config"
	"github.com/ha1tch/archdiag/pkg/diagram"
	"github.com/ha1tch/archdiag/pkg/logging"
	"github.com/ha1tch/archdiag/pkg/scenefile"
)

// RootOptions holds global flags and the configuration loaded for a run.
type RootOptions struct {
	ConfigPath string

	cfg *config.Config
}

// NewRootCommand creates the root command for the archdiag CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "archdiag",
		Short: "Render architecture diagrams",
		Long: `Render static architecture diagrams to PNG.

A scene lists boxes at fixed coordinates, their categories and the arrows
between them. Without a scene argument the built-in NPC reference scene
is used.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(cmd.Flags(), opts.ConfigPath)
			if err != nil {
				return err
			}
			level, err := logging.ParseLevel(cfg.LogLevel)
			if err != nil {
				return err
			}
			if err := logging.Setup(cmd.ErrOrStderr(), level, cfg.LogFormat); err != nil {
				return err
			}
			opts.cfg = cfg
			return nil
		},
	}

	cmd.PersistentFlags().StringVarP(&opts.ConfigPath, "config", "c", "", "config file (default ./"+config.DefaultFile+" if present)")
	cmd.PersistentFlags().String("log-level", "info", "log level (debug|info|warn|error)")
	cmd.PersistentFlags().String("log-format", "compact", "log format (compact|json)")
	config.RegisterFlags(cmd.PersistentFlags())

	cmd.AddCommand(NewRenderCommand(opts))
	cmd.AddCommand(NewPlanCommand(opts))
	cmd.AddCommand(NewPreviewCommand(opts))
	cmd.AddCommand(NewValidateCommand(opts))
	cmd.AddCommand(NewInfoCommand(opts))
	cmd.AddCommand(NewConvertCommand(opts))
	cmd.AddCommand(NewExampleCommand(opts))

	return cmd
}

// loadScene reads the scene named by args, or the reference scene, and
// applies configured colour overrides.
func (o *RootOptions) loadScene(args []string) (*diagram.Scene, error) {
	var (
		s   *diagram.Scene
		err error
	)
	if len(args) == 0 {
		s = scenefile.Reference()
	} else if s, err = scenefile.Load(args[0]); err != nil {
		return nil, err
	}
	if o.cfg != nil {
		o.cfg.ApplyColors(s)
	}
	return s, nil
}

// layout loads and lays out the scene named by args.
func (o *RootOptions) layout(args []string) (*diagram.Scene, *diagram.Plan, error) {
	s, err := o.loadScene(args)
	if err != nil {
		return nil, nil, err
	}
	p, err := diagram.Layout(s, o.cfg.BoxSize())
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", sceneName(args), err)
	}
	return s, p, nil
}

func sceneName(args []string) string {
	if len(args) == 0 {
		return "reference scene"
	}
	return args[0]
}
