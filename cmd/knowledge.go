package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/recruitflow/recruiter/internal/knowledge"
)

const cliActor = "cli"

var knowledgeCmd = &cobra.Command{
	Use:   "knowledge",
	Short: "Search and manage the recruiter training knowledge base",
}

var knowledgeSearchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search the knowledge base",
	Args:  cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		withApplication(func(ctx context.Context, a *application) error {
			filter, err := knowledgeFilter(cmd)
			if err != nil {
				return err
			}
			limit, _ := cmd.Flags().GetInt("limit")

			matches, err := a.knowledge.Search(ctx, strings.Join(args, " "), filter, limit)
			if err != nil {
				return err
			}
			if len(matches) == 0 {
				fmt.Println("no results")
				return nil
			}
			for _, m := range matches {
				fmt.Printf("[%d] %s (%s)\n  P: %s\n  R: %s\n", m.Score, m.Item.ID, m.Item.Category, m.Item.Question, m.Item.Answer)
			}
			return nil
		})
	},
}

var knowledgeAskCmd = &cobra.Command{
	Use:   "ask <question>",
	Short: "Ask the training assistant a question",
	Args:  cobra.MinimumNArgs(1),
	Run: func(_ *cobra.Command, args []string) {
		withApplication(func(ctx context.Context, a *application) error {
			answer, err := a.assistant.Ask(ctx, strings.Join(args, " "))
			if err != nil {
				return err
			}
			fmt.Println(answer.Text)
			for _, src := range answer.Sources {
				fmt.Printf("  - %s: %s\n", src.Item.ID, src.Item.Question)
			}
			return nil
		})
	},
}

var knowledgeAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Add a knowledge item",
	Run: func(cmd *cobra.Command, _ []string) {
		withApplication(func(ctx context.Context, a *application) error {
			item := knowledge.Item{}
			item.Category, _ = cmd.Flags().GetString("category")
			item.Question, _ = cmd.Flags().GetString("question")
			item.Answer, _ = cmd.Flags().GetString("answer")
			item.Keywords, _ = cmd.Flags().GetStringSlice("keywords")
			if cmd.Flags().Changed("phase") {
				phase, _ := cmd.Flags().GetInt("phase")
				item.Phase = &phase
			}

			created, err := a.knowledge.Create(ctx, item, cliActor)
			if err != nil {
				return err
			}
			return printJSON(created)
		})
	},
}

var knowledgeUpdateCmd = &cobra.Command{
	Use:   "update <id>",
	Short: "Update fields of a knowledge item",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		withApplication(func(ctx context.Context, a *application) error {
			update := knowledge.Update{}
			flags := cmd.Flags()
			if flags.Changed("category") {
				v, _ := flags.GetString("category")
				update.Category = &v
			}
			if flags.Changed("question") {
				v, _ := flags.GetString("question")
				update.Question = &v
			}
			if flags.Changed("answer") {
				v, _ := flags.GetString("answer")
				update.Answer = &v
			}
			if flags.Changed("keywords") {
				update.Keywords, _ = flags.GetStringSlice("keywords")
				if update.Keywords == nil {
					update.Keywords = []string{}
				}
			}
			if flags.Changed("phase") {
				v, _ := flags.GetInt("phase")
				update.Phase = &v
			}

			updated, err := a.knowledge.Update(ctx, args[0], update, cliActor)
			if err != nil {
				return err
			}
			return printJSON(updated)
		})
	},
}

var knowledgeDeactivateCmd = &cobra.Command{
	Use:   "deactivate <id>",
	Short: "Hide a knowledge item from search without deleting it",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		withApplication(func(ctx context.Context, a *application) error {
			if err := confirm(cmd, fmt.Sprintf("Deactivate knowledge item %s?", args[0])); err != nil {
				return err
			}
			return a.knowledge.Deactivate(ctx, args[0], cliActor)
		})
	},
}

var knowledgeDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Permanently delete a knowledge item",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		withApplication(func(ctx context.Context, a *application) error {
			if err := confirm(cmd, fmt.Sprintf("Permanently delete knowledge item %s?", args[0])); err != nil {
				return err
			}
			return a.knowledge.Delete(ctx, args[0], cliActor)
		})
	},
}

var knowledgeSeedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Load the embedded dataset into an empty knowledge store",
	Run: func(_ *cobra.Command, _ []string) {
		withApplication(func(ctx context.Context, a *application) error {
			return a.seedKnowledge(ctx, cliActor)
		})
	},
}

func init() {
	rootCmd.AddCommand(knowledgeCmd)
	knowledgeCmd.AddCommand(knowledgeSearchCmd, knowledgeAskCmd, knowledgeAddCmd, knowledgeUpdateCmd,
		knowledgeDeactivateCmd, knowledgeDeleteCmd, knowledgeSeedCmd)

	knowledgeSearchCmd.Flags().String("category", "", "only items of this category")
	knowledgeSearchCmd.Flags().Int("phase", 0, "only items of this recruitment phase")
	knowledgeSearchCmd.Flags().IntP("limit", "l", 0, "maximum number of results (default is knowledge.top-n)")

	for _, c := range []*cobra.Command{knowledgeAddCmd, knowledgeUpdateCmd} {
		c.Flags().String("category", "", "item category")
		c.Flags().String("question", "", "item question")
		c.Flags().String("answer", "", "item answer")
		c.Flags().StringSlice("keywords", nil, "comma separated keywords")
		c.Flags().Int("phase", 0, "recruitment phase")
	}

	for _, c := range []*cobra.Command{knowledgeDeactivateCmd, knowledgeDeleteCmd} {
		c.Flags().BoolP("yes", "y", false, "do not ask for confirmation")
	}
}

func knowledgeFilter(cmd *cobra.Command) (knowledge.Filter, error) {
	filter := knowledge.Filter{}
	filter.Category, _ = cmd.Flags().GetString("category")
	if cmd.Flags().Changed("phase") {
		phase, err := cmd.Flags().GetInt("phase")
		if err != nil {
			return filter, err
		}
		filter.Phase = &phase
	}
	return filter, nil
}

// withApplication wires the services, runs fn and exits fatally on error.
func withApplication(fn func(ctx context.Context, a *application) error) {
	ctx := context.Background()
	logger := newLogger()

	a, err := newApplication(ctx, logger)
	if err != nil {
		logger.Fatal("starting the recruiter", zap.Error(err))
	}
	defer a.Close()

	if err := fn(ctx, a); err != nil {
		if errors.Is(err, errAborted) {
			logger.Info("exiting", zap.String("reason", "got no from prompt"))
			return
		}
		a.Close()
		logger.Fatal("command failed", zap.Error(err))
	}
}

func printJSON(v any) error {
	pretty, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(pretty))
	return nil
}
