package main

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/aretw0/sysml/internal/cli"
	"github.com/aretw0/sysml/internal/presentation/tui"
	"github.com/spf13/cobra"
)

var sampleCmd = &cobra.Command{
	Use:   "sample [name]",
	Short: "Store the sample vehicle model",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := "vehicle"
		if len(args) > 0 {
			name = args[0]
		}
		if err := app.Sample(cmd.Context(), name); err != nil {
			return err
		}
		tui.NewStatus(cmd.OutOrStdout()).Success("Stored sample model %q", name)
		return nil
	},
}

var saveCmd = &cobra.Command{
	Use:   "save <name> <file.json>",
	Short: "Import a model document into the repository",
	Long:  `Reads a model in the JSON interchange format and stores it under <name>. Elements of unknown type are skipped with a warning.`,
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := app.Import(cmd.Context(), args[0], args[1])
		if err != nil {
			return err
		}
		elements, relationships := s.Len()
		tui.NewStatus(cmd.OutOrStdout()).Success("Stored %q: %d elements, %d relationships", args[0], elements, relationships)
		return nil
	},
}

var validateCmd = &cobra.Command{
	Use:   "validate <name>",
	Short: "Check a stored model against the metamodel rules",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		v, err := app.Validate(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		status := tui.NewStatus(cmd.OutOrStdout())
		findings := v.Findings()
		if v.Err == nil {
			status.Success("Model %q is valid", args[0])
			return nil
		}
		for _, f := range findings {
			fmt.Fprintf(cmd.OutOrStdout(), "  [%s] %s\n", f.Rule, f.Error())
		}
		status.Failure("%d validation findings", len(findings))
		return fmt.Errorf("model %q is invalid", args[0])
	},
}

var reportCmd = &cobra.Command{
	Use:   "report <name>",
	Short: "Summarize a stored model as Markdown",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		markdown, err := app.Report(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		f, _ := cmd.OutOrStdout().(*os.File)
		out, err := tui.NewRenderer(f)(markdown)
		if err != nil {
			return err
		}
		fmt.Fprint(cmd.OutOrStdout(), out)
		return nil
	},
}

var exportCmd = &cobra.Command{
	Use:   "export <name>",
	Short: "Print a stored model as JSON or as a Mermaid diagram",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		format, _ := cmd.Flags().GetString("format")
		return app.Export(cmd.Context(), args[0], format, cmd.OutOrStdout())
	},
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored models",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		names, err := app.List(cmd.Context())
		if err != nil {
			return err
		}
		if len(names) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "No models found.")
			return nil
		}
		for _, n := range names {
			fmt.Fprintln(cmd.OutOrStdout(), "- "+n)
		}
		return nil
	},
}

var deleteCmd = &cobra.Command{
	Use:   "delete <name>...",
	Short: "Remove one or more stored models",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		status := tui.NewStatus(cmd.OutOrStdout())
		failed := 0
		for _, name := range args {
			if err := app.Delete(cmd.Context(), name); err != nil {
				status.Failure("Error removing %q: %v", name, err)
				failed++
				continue
			}
			status.Success("Removed %q", name)
		}
		if failed > 0 {
			return fmt.Errorf("%d of %d models could not be removed", failed, len(args))
		}
		return nil
	},
}

var diffCmd = &cobra.Command{
	Use:   "diff <from> <to>",
	Short: "Show what changed between two stored models",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := app.Diff(cmd.Context(), args[0], args[1])
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		if d.Empty() {
			fmt.Fprintln(out, "Models are identical.")
			return nil
		}
		for _, id := range d.AddedElements {
			fmt.Fprintf(out, "+ element %s\n", id)
		}
		for _, id := range d.RemovedElements {
			fmt.Fprintf(out, "- element %s\n", id)
		}
		changed := make([]string, 0, len(d.ChangedElements))
		for id := range d.ChangedElements {
			changed = append(changed, id)
		}
		sort.Strings(changed)
		for _, id := range changed {
			fmt.Fprintf(out, "~ element %s (%s)\n", id, strings.Join(d.ChangedElements[id], ", "))
		}
		for _, id := range d.AddedRelationships {
			fmt.Fprintf(out, "+ relationship %s\n", id)
		}
		for _, id := range d.RemovedRelationships {
			fmt.Fprintf(out, "- relationship %s\n", id)
		}
		for _, id := range d.ChangedRelationships {
			fmt.Fprintf(out, "~ relationship %s\n", id)
		}
		return nil
	},
}

func init() {
	exportCmd.Flags().StringP("format", "f", cli.FormatJSON, "Output format (json, mermaid)")

	for _, cmd := range []*cobra.Command{sampleCmd, saveCmd, validateCmd, reportCmd, exportCmd, listCmd, deleteCmd, diffCmd} {
		storageCommand(cmd)
	}
}
