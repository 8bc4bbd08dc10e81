package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/recruitflow/recruiter/internal/ai"
)

var postingsCmd = &cobra.Command{
	Use:   "postings",
	Short: "Manage the job postings candidates are evaluated against",
}

var postingsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List job postings",
	Run: func(cmd *cobra.Command, _ []string) {
		withApplication(func(ctx context.Context, a *application) error {
			onlyActive, _ := cmd.Flags().GetBool("active")

			list := a.postings.List
			if onlyActive {
				list = a.postings.Active
			}

			postings, err := list(ctx)
			if err != nil {
				return err
			}
			for _, p := range postings {
				state := "inactive"
				if p.Active {
					state = "active"
				}
				fmt.Printf("%s  %-8s %s (%s, %s)\n", p.ID, state, p.Title, p.Department, p.Location)
			}
			return nil
		})
	},
}

var postingsImportCmd = &cobra.Command{
	Use:   "import <file.yaml>",
	Short: "Import job postings from a YAML file",
	Args:  cobra.ExactArgs(1),
	Run: func(_ *cobra.Command, args []string) {
		withApplication(func(ctx context.Context, a *application) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}

			postings, err := ai.DecodePostings(data)
			if err != nil {
				return err
			}

			for _, posting := range postings {
				created, err := a.postings.Create(ctx, posting)
				if err != nil {
					return err
				}
				a.logger.Info("job posting imported", zap.String("id", created.ID), zap.String("title", created.Title))
			}
			return nil
		})
	},
}

var postingsActivateCmd = &cobra.Command{
	Use:   "activate <id>",
	Short: "Open a job posting for evaluations",
	Args:  cobra.ExactArgs(1),
	Run: func(_ *cobra.Command, args []string) {
		withApplication(func(ctx context.Context, a *application) error {
			return a.postings.SetActive(ctx, args[0], true)
		})
	},
}

var postingsDeactivateCmd = &cobra.Command{
	Use:   "deactivate <id>",
	Short: "Close a job posting",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		withApplication(func(ctx context.Context, a *application) error {
			if err := confirm(cmd, fmt.Sprintf("Close job posting %s?", args[0])); err != nil {
				return err
			}
			return a.postings.SetActive(ctx, args[0], false)
		})
	},
}

func init() {
	rootCmd.AddCommand(postingsCmd)
	postingsCmd.AddCommand(postingsListCmd, postingsImportCmd, postingsActivateCmd, postingsDeactivateCmd)

	postingsListCmd.Flags().Bool("active", false, "only active postings")
	postingsDeactivateCmd.Flags().BoolP("yes", "y", false, "do not ask for confirmation")
}
