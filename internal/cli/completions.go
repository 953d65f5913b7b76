package cli

import (
	"context"
	"strings"

	"github.com/spf13/cobra"
	"github.com/valter-silva-au/datawork/pkg/models"
)

// completeTaskIDs returns a completion function that lists task IDs,
// optionally excluding tasks in the given statuses.
func completeTaskIDs(excludeStatuses ...models.TaskStatus) func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
	return func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		if TaskRepo == nil || len(args) > 0 {
			return nil, cobra.ShellCompDirectiveNoFileComp
		}

		exclude := make(map[models.TaskStatus]bool)
		for _, s := range excludeStatuses {
			exclude[s] = true
		}

		var ids []string
		for _, task := range TaskRepo.List(context.Background(), models.TaskFilter{}) {
			if exclude[task.Status] {
				continue
			}
			if toComplete == "" || strings.HasPrefix(task.ID, toComplete) {
				// Title as description for better UX.
				ids = append(ids, task.ID+"\t"+task.Title)
			}
		}
		return ids, cobra.ShellCompDirectiveNoFileComp
	}
}

func completeStatuses(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
	out := make([]string, len(models.AllStatuses))
	for i, s := range models.AllStatuses {
		out[i] = string(s)
	}
	return out, cobra.ShellCompDirectiveNoFileComp
}

func completePriorities(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
	out := make([]string, len(models.AllPriorities))
	for i, p := range models.AllPriorities {
		out[i] = string(p)
	}
	return out, cobra.ShellCompDirectiveNoFileComp
}
