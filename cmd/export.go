package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/danielolaszy/glissues/internal/config"
	"github.com/danielolaszy/glissues/internal/export"
	"github.com/danielolaszy/glissues/internal/filter"
	"github.com/danielolaszy/glissues/internal/gitlab"
	"github.com/danielolaszy/glissues/internal/logging"
	"github.com/danielolaszy/glissues/internal/prompt"
)

// now is replaced in tests to pin the default output name.
var now = time.Now

func newExportCmd() *cobra.Command {
	exportCmd := &cobra.Command{
		Use:   "export",
		Short: "Export the project's issues to an .xlsx file",
		Long: `Export every issue of the configured GitLab project to a spreadsheet.

The configuration is read from config.json (or --config) and from the
environment (GITLAB_TOKEN, GITLAB_PROJECT_ID, GITLAB_URL, ...). When neither
--start-date nor --end-date is given the command asks for both dates; leave an
answer blank to skip that bound. Use --no-input to never prompt.

Columns: ID, Título, Descripción, Autor, Estado, Asignados, Etiquetas,
Fecha de creación, Tiempo estimado, Tiempo gastado.

Example:
  glissues export --start-date 2024-01-01 --end-date 2024-03-31 -o q1.xlsx`,
		Args: cobra.NoArgs,
		RunE: runExport,
	}

	exportCmd.Flags().StringP("output", "o", "", "Output file (default gitlab_issues_YYYYMMDD_HHMMSS.xlsx)")
	exportCmd.Flags().String("start-date", "", "Only issues created on or after this date (YYYY-MM-DD)")
	exportCmd.Flags().String("end-date", "", "Only issues created on or before this date (YYYY-MM-DD)")
	exportCmd.Flags().Bool("no-input", false, "Do not prompt for dates")

	return exportCmd
}

func runExport(cmd *cobra.Command, args []string) error {
	configPath, err := cmd.Flags().GetString("config")
	if err != nil {
		return err
	}
	envFile, err := cmd.Flags().GetString("env-file")
	if err != nil {
		return err
	}
	output, err := cmd.Flags().GetString("output")
	if err != nil {
		return err
	}

	cfg, err := config.LoadConfig(configPath, envFile)
	if err != nil {
		return err
	}

	rng, err := readRange(cmd)
	if err != nil {
		return err
	}

	client, err := gitlab.NewClient(cmd.Context(), gitlab.Options{
		BaseURL:    cfg.GitLab.URL,
		ProjectID:  cfg.GitLab.ProjectID,
		Token:      cfg.GitLab.Token,
		AuthMethod: gitlab.AuthMethod(cfg.GitLab.AuthMethod),
		PerPage:    cfg.GitLab.PerPage,
		Timeout:    cfg.GitLab.Timeout,
	})
	if err != nil {
		return fmt.Errorf("failed to initialize gitlab client: %w", err)
	}

	if output == "" {
		output = export.DefaultFilename(now())
	}

	logging.Info("starting export",
		"project_id", cfg.GitLab.ProjectID,
		"range", rng.String(),
		"output", output)

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, "Obteniendo issues de GitLab...")

	result, err := export.NewExporter(client, export.NewWriter()).Run(cmd.Context(), rng, output)
	if err != nil {
		return err
	}

	if result.Count == 0 {
		fmt.Fprintln(out, "No se encontraron issues en el rango de fechas especificado.")
	} else {
		fmt.Fprintf(out, "Se encontraron %d issues.\n", result.Count)
	}
	fmt.Fprintf(out, "Issues exportados exitosamente a: %s\n", result.Path)
	return nil
}

// readRange takes the bounds from flags when either is set or prompting is
// disabled, and asks for them otherwise.
func readRange(cmd *cobra.Command) (filter.Range, error) {
	noInput, err := cmd.Flags().GetBool("no-input")
	if err != nil {
		return filter.Range{}, err
	}

	flags := cmd.Flags()
	if noInput || flags.Changed("start-date") || flags.Changed("end-date") {
		start, err := flags.GetString("start-date")
		if err != nil {
			return filter.Range{}, err
		}
		end, err := flags.GetString("end-date")
		if err != nil {
			return filter.Range{}, err
		}
		return filter.NewRange(start, end)
	}

	return prompt.New(cmd.InOrStdin(), cmd.OutOrStdout()).Range()
}
