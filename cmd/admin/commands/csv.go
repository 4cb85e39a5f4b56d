package commands

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"artist-management/internal/service"
)

func newImportCmd(o *rootOpts) *cobra.Command {
	return &cobra.Command{
		Use:   "import <file.csv>",
		Short: "Import artists from CSV in one transaction",
		Long: `Import artists (and their artist-role users) from a CSV file.
Any failing row rolls back the whole file.
Required header columns are printed by "admin csv-template" (any order).`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer f.Close()

			e, err := o.open()
			if err != nil {
				return err
			}
			defer e.close()

			out, err := e.artists.ImportCSV(cmd.Context(), f)
			if err != nil {
				return fmt.Errorf("import %s: %w", args[0], err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "imported %d artists\n", len(out))
			return nil
		},
	}
}

func newExportCmd(o *rootOpts) *cobra.Command {
	var out string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export all artists to CSV",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			e, err := o.open()
			if err != nil {
				return err
			}
			defer e.close()

			var w io.Writer = cmd.OutOrStdout()
			if out != "-" {
				f, err := os.Create(out)
				if err != nil {
					return err
				}
				defer f.Close()
				w = f
			}
			n, err := e.artists.ExportCSVTo(cmd.Context(), w)
			if err != nil {
				return fmt.Errorf("export: %w", err)
			}
			if out != "-" {
				fmt.Fprintf(cmd.OutOrStdout(), "exported %d artists to %s\n", n, out)
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "-", `Output path, "-" for stdout`)
	return cmd
}

// newTemplateCmd 打印导入用的表头行，不需要数据库
func newTemplateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "csv-template",
		Short: "Print the CSV header expected by import",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, err := io.WriteString(cmd.OutOrStdout(), service.ImportColumnsHeader())
			return err
		},
	}
}
