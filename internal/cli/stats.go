package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/valter-silva-au/datawork/pkg/models"
)

var statsJSON bool

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show task statistics",
	Long: `Show totals by status and priority, the completion percentage, and how
many tasks were created today and this week (weeks start on Sunday).`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if TaskRepo == nil {
			return errRepoNotInitialized
		}

		stats := TaskRepo.Statistics(cmdContext(cmd))
		if statsJSON {
			return printJSON(stats)
		}
		printStatistics(stats)
		return nil
	},
}

func printStatistics(s models.TaskStatistics) {
	fmt.Println("Statistics")
	fmt.Println()
	fmt.Printf("  %-20s %d\n", "Total:", s.Total)
	fmt.Printf("  %-20s %d\n", "Pending:", s.Pending)
	fmt.Printf("  %-20s %d\n", "In progress:", s.InProgress)
	fmt.Printf("  %-20s %d\n", "Completed:", s.Completed)
	fmt.Printf("  %-20s %s %d%%\n", "Completion:", textBar(s.CompletionPercentage, 20), s.CompletionPercentage)
	fmt.Println()
	fmt.Printf("  %-20s %d\n", "Created today:", s.CreatedToday)
	fmt.Printf("  %-20s %d\n", "Created this week:", s.CreatedThisWeek)
	fmt.Println()
	fmt.Println("  By priority:")
	fmt.Printf("    %-18s %d\n", "high:", s.ByPriority.High)
	fmt.Printf("    %-18s %d\n", "medium:", s.ByPriority.Medium)
	fmt.Printf("    %-18s %d\n", "low:", s.ByPriority.Low)
}

// textBar renders pct (0-100) as a fixed-width bar of '#' and '.'.
func textBar(pct, width int) string {
	pct = max(0, min(100, pct))
	filled := pct * width / 100
	return "[" + strings.Repeat("#", filled) + strings.Repeat(".", width-filled) + "]"
}

func init() {
	statsCmd.Flags().BoolVar(&statsJSON, "json", false, "Output statistics as JSON")
	rootCmd.AddCommand(statsCmd)
}
