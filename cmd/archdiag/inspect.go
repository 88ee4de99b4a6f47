package main

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

// NewPlanCommand creates the plan command.
func NewPlanCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "plan [scene]",
		Short: "Print the resolved geometry of a scene",
		Long: `Print every box rectangle, connector direction, anchor and label
position the renderer would draw, one item per line.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, p, err := rootOpts.layout(args)
			if err != nil {
				return err
			}
			return p.WriteText(cmd.OutOrStdout())
		},
	}
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "validate [scene]",
		Short: "Check a scene without rendering it",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, p, err := rootOpts.layout(args)
			if err != nil {
				return err
			}
			printOK(cmd.OutOrStdout(), "%s is valid: %d nodes, %d connections, %d categories",
				sceneName(args), len(p.Boxes), len(p.Connectors), len(s.Categories()))
			return nil
		},
	}
}

// NewInfoCommand creates the info command.
func NewInfoCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "info [scene]",
		Short: "Show scene information",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := rootOpts.loadScene(args)
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			bold := color.New(color.Bold)

			bold.Fprintf(w, "Scene: %s\n", sceneName(args))
			if s.Title != "" {
				fmt.Fprintf(w, "Title: %s\n", s.Title)
			}
			fmt.Fprintf(w, "Nodes: %d\n", len(s.Nodes))
			fmt.Fprintf(w, "Connections: %d\n", len(s.Connections))

			cats := s.Categories()
			names := make([]string, len(cats))
			for i, c := range cats {
				names[i] = string(c)
			}
			fmt.Fprintf(w, "Categories: %d (%s)\n", len(cats), strings.Join(names, ", "))
			fmt.Fprintf(w, "Legend entries: %d\n", len(s.Legend))

			labeled := 0
			for _, c := range s.Connections {
				if c.Label != "" {
					labeled++
				}
			}
			fmt.Fprintf(w, "Labeled connections: %d\n", labeled)
			return nil
		},
	}
}
