package cmd

import (
	"errors"
	"fmt"
	"sort"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
)

const (
	PromptYes = "Yes"
	PromptNo  = "No"
)

var errAborted = errors.New("aborted by user")

// confirm asks before a destructive action unless --yes was passed.
func confirm(cmd *cobra.Command, label string) error {
	if yes, _ := cmd.Flags().GetBool("yes"); yes {
		return nil
	}

	prompt := promptui.Select{
		Label: label,
		Items: []string{PromptNo, PromptYes},
	}

	_, answer, err := prompt.Run()
	if err != nil {
		return fmt.Errorf("confirmation prompt: %w", err)
	}
	if answer != PromptYes {
		return errAborted
	}
	return nil
}

func sortedKeys(m map[string]int) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
