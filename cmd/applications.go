package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/recruitflow/recruiter/internal/export"
	"github.com/recruitflow/recruiter/internal/recruiting"
)

var applicationsCmd = &cobra.Command{
	Use:     "applications",
	Aliases: []string{"apps"},
	Short:   "Review stored candidate applications",
}

var applicationsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List applications, newest first",
	Run: func(cmd *cobra.Command, _ []string) {
		withApplication(func(ctx context.Context, a *application) error {
			apps, err := listApplications(ctx, cmd, a)
			if err != nil {
				return err
			}
			for _, app := range apps {
				fmt.Printf("%s  %-9s %3d  %-30s %s <%s>\n",
					app.ID, app.Status, app.Evaluation.FitScore, app.Evaluation.BestMatch, app.FullName, app.Email)
			}
			a.logger.Info("listed applications", zap.Int("count", len(apps)))
			return nil
		})
	},
}

var applicationsReevaluateCmd = &cobra.Command{
	Use:   "reevaluate <id>",
	Short: "Re-run the AI evaluation of a stored application against the current postings",
	Args:  cobra.ExactArgs(1),
	Run: func(_ *cobra.Command, args []string) {
		withApplication(func(ctx context.Context, a *application) error {
			app, err := a.applications.Reevaluate(ctx, args[0], cliActor)
			if err != nil {
				return err
			}
			printEvaluation(&app.Evaluation)
			return nil
		})
	},
}

var applicationsStatusCmd = &cobra.Command{
	Use:   "status <id> <pending|reviewed|accepted|rejected>",
	Short: "Change the review status of an application",
	Args:  cobra.ExactArgs(2),
	Run: func(_ *cobra.Command, args []string) {
		withApplication(func(ctx context.Context, a *application) error {
			return a.applications.SetStatus(ctx, args[0], recruiting.Status(args[1]), cliActor)
		})
	},
}

var applicationsExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export applications to an xlsx workbook",
	Run: func(cmd *cobra.Command, _ []string) {
		withApplication(func(ctx context.Context, a *application) error {
			apps, err := listApplications(ctx, cmd, a)
			if err != nil {
				return err
			}

			output, _ := cmd.Flags().GetString("output")
			f, err := os.Create(output)
			if err != nil {
				return fmt.Errorf("create export file: %w", err)
			}

			if err := export.WriteApplications(f, apps); err != nil {
				f.Close()
				return err
			}
			if err := f.Close(); err != nil {
				return err
			}

			a.logger.Info("applications exported", zap.String("file", output), zap.Int("count", len(apps)))
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(applicationsCmd)
	applicationsCmd.AddCommand(applicationsListCmd, applicationsReevaluateCmd, applicationsStatusCmd, applicationsExportCmd)

	for _, c := range []*cobra.Command{applicationsListCmd, applicationsExportCmd} {
		c.Flags().StringP("status", "s", "", "only applications with this status")
	}
	applicationsExportCmd.Flags().StringP("output", "o", "postulaciones.xlsx", "destination xlsx file")
}

func listApplications(ctx context.Context, cmd *cobra.Command, a *application) ([]recruiting.Application, error) {
	raw, _ := cmd.Flags().GetString("status")
	status, err := recruiting.ParseStatus(raw)
	if err != nil {
		return nil, err
	}
	return a.applications.List(ctx, status)
}
