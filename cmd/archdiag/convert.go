package main

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/ha1tch/archdiag/pkg/diagram"
	"github.com/ha1tch/archdiag/pkg/scenefile"
)

// NewConvertCommand creates the convert command.
func NewConvertCommand(rootOpts *RootOptions) *cobra.Command {
	var (
		output string
		to     string
	)

	cmd := &cobra.Command{
		Use:   "convert <input>",
		Short: "Convert a scene between TOML, YAML and JSON",
		Long: `Convert a scene file between formats. Formats are chosen by file
extension. Without -o the result goes to stdout in the --to format.`,
		Example: `  archdiag convert scene.toml -o scene.yaml
  archdiag convert scene.yaml --to json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := scenefile.Load(args[0])
			if err != nil {
				return err
			}
			return writeScene(cmd, s, output, to)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file")
	cmd.Flags().StringVar(&to, "to", "", "output format for stdout (toml|yaml|json)")

	return cmd
}

// NewExampleCommand creates the example command.
func NewExampleCommand(rootOpts *RootOptions) *cobra.Command {
	var (
		output string
		to     string
	)

	cmd := &cobra.Command{
		Use:   "example",
		Short: "Write the built-in reference scene",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if to == "" && output == "" {
				to = string(scenefile.FormatTOML)
			}
			return writeScene(cmd, scenefile.Reference(), output, to)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file")
	cmd.Flags().StringVar(&to, "to", "", "output format for stdout (toml|yaml|json)")

	return cmd
}

// writeScene saves s to output, or encodes it to stdout in format to.
func writeScene(cmd *cobra.Command, s *diagram.Scene, output, to string) error {
	if output != "" {
		if err := scenefile.Save(output, s); err != nil {
			return err
		}
		printOK(cmd.ErrOrStderr(), "wrote %s", output)
		return nil
	}
	if to == "" {
		return errors.New("need -o <file> or --to <format>")
	}
	return scenefile.Encode(cmd.OutOrStdout(), s, scenefile.Format(to))
}
