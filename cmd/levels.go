package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var levelsCmd = &cobra.Command{
	Use:   "levels",
	Short: "List the learning path with your progress",
	RunE: func(cmd *cobra.Command, args []string) error {
		unit, _ := cmd.Flags().GetString("unit")

		e, err := openEnv(cmd, false)
		if err != nil {
			return err
		}
		defer e.Close()

		var count int
		for _, u := range e.tracker.Path() {
			if unit != "" && u.ID != unit {
				continue
			}
			fmt.Printf("%s  %s\n", u.ID, strings.ToUpper(u.Title))
			fmt.Println(strings.Repeat("─", 72))
			for _, l := range u.Levels {
				fmt.Printf("  %-24s  %-30s  %s\n", l.ID, truncate(l.Title, 30), levelStatus(l.Unlocked, l.Completed, l.Stars, l.Current))
				count++
			}
			fmt.Println()
		}
		if unit != "" && count == 0 {
			return fmt.Errorf("no levels found for unit %q", unit)
		}

		fmt.Printf("%d levels\n", count)
		return nil
	},
}

func levelStatus(unlocked, completed bool, stars int, current bool) string {
	switch {
	case completed:
		return strings.Repeat("★", stars) + strings.Repeat("☆", 3-stars)
	case current:
		return "▶ next"
	case unlocked:
		return "open"
	default:
		return "locked"
	}
}

func init() {
	levelsCmd.Flags().String("unit", "", "Only show this unit ID")
}
