package main

import (
	"bytes"
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/Tungsten-180/nasal-ls/internal/library"
	"github.com/Tungsten-180/nasal-ls/internal/workspace"
)

func newScopesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "scopes FILE...",
		Short: "Print the brace scopes of source files",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, cleanup, err := setup(cmd)
			if err != nil {
				return err
			}
			defer cleanup()

			lib := library.New()

			var tableBuffer bytes.Buffer
			table := tablewriter.NewWriter(&tableBuffer)
			table.SetHeader([]string{"File", "Start", "End"})
			table.SetBorder(false)
			table.SetCenterSeparator("")
			table.SetColumnAlignment([]int{tablewriter.ALIGN_LEFT, tablewriter.ALIGN_RIGHT, tablewriter.ALIGN_RIGHT})

			var failures []string
			for _, arg := range args {
				src := workspace.NewFSReader(filepath.Dir(arg))
				name := filepath.Base(arg)

				text, err := src.ReadFile(name)
				if err != nil {
					return err
				}

				uri := src.URI(name)
				if err := lib.Open(uri, text); err != nil {
					failures = append(failures, fmt.Sprintf("%s: %v", arg, err))
					continue
				}

				spans, _ := lib.Scopes(uri)
				for _, sp := range spans {
					table.Append([]string{arg, fmt.Sprintf("%d", sp.Start+1), fmt.Sprintf("%d", sp.End+1)})
				}
			}

			table.Render()
			printf(cmd, "%s", tableBuffer.String())

			for _, f := range failures {
				printf(cmd, "%s\n", f)
			}
			if len(failures) > 0 {
				return fmt.Errorf("%d of %d files have unbalanced braces", len(failures), len(args))
			}
			return nil
		},
	}
}

var kindFlag string

func newDefsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "defs [DIR]",
		Short: "Index a directory and print every definition",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, cleanup, err := setup(cmd)
			if err != nil {
				return err
			}
			defer cleanup()

			root := "."
			if len(args) == 1 {
				root = args[0]
			}
			absRoot, err := filepath.Abs(root)
			if err != nil {
				return err
			}

			lib := library.New()
			res, err := lib.LoadDir(context.Background(), workspace.NewFSReader(absRoot, cfg.Extensions...), cfg.Workers)
			if err != nil {
				return err
			}

			var tableBuffer bytes.Buffer
			table := tablewriter.NewWriter(&tableBuffer)
			table.SetHeader([]string{"Name", "Kind", "Location"})
			table.SetBorder(false)
			table.SetCenterSeparator("")

			count := 0
			for _, name := range lib.Names() {
				occs, _ := lib.Occurrences(name)
				for _, occ := range occs {
					if !occ.Kind.IsDefinition() {
						continue
					}
					if kindFlag != "" && !strings.HasPrefix(occ.Kind.String(), kindFlag) {
						continue
					}
					rel, err := filepath.Rel(absRoot, strings.TrimPrefix(occ.Location.URI, "file://"))
					if err != nil {
						rel = occ.Location.URI
					}
					table.Append([]string{
						name,
						occ.Kind.String(),
						fmt.Sprintf("%s:%d:%d", filepath.ToSlash(rel), occ.Location.Range.Start.Line+1, occ.Location.Range.Start.Character+1),
					})
					count++
				}
			}

			table.SetFooter([]string{
				fmt.Sprintf("Total Files %d", len(res.URIs)),
				fmt.Sprintf("Malformed %d", len(res.Malformed)),
				fmt.Sprintf("%d", count),
			})
			table.Render()
			printf(cmd, "%s", tableBuffer.String())
			return nil
		},
	}
	cmd.Flags().StringVarP(&kindFlag, "kind", "k", "", "only list definitions of this kind (function or identifier)")

	return cmd
}

func printf(cmd *cobra.Command, format string, args ...interface{}) {
	_, _ = fmt.Fprintf(cmd.OutOrStdout(), format, args...)
}
