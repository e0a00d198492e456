package cmd

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/abhisek/codulingo/internal/progress"
	"github.com/abhisek/codulingo/internal/store"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show learning statistics",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")
		pro, _ := cmd.Flags().GetBool("pro")
		noPro, _ := cmd.Flags().GetBool("no-pro")
		if pro && noPro {
			return fmt.Errorf("use --pro or --no-pro, not both")
		}

		e, err := openEnv(cmd, false)
		if err != nil {
			return err
		}
		defer e.Close()

		switch {
		case pro:
			e.tracker.SetPro(true)
		case noPro:
			e.tracker.SetPro(false)
		}

		s := e.tracker.Stats()
		rank := s.Rank()
		sep := strings.Repeat("─", 60)

		fmt.Printf("Name:      %s\n", s.Name)
		fmt.Printf("Rank:      %s %s (%d XP)\n", rank.Icon, rank.Name, s.XP)
		if next, ok := progress.NextRank(s.XP); ok {
			fmt.Printf("Next rank: %s in %d XP\n", next.Name, next.MinXP-s.XP)
		}
		if s.Pro {
			fmt.Println("Hearts:    ∞ (pro)")
		} else {
			fmt.Printf("Hearts:    %d/%d", s.Hearts, progress.MaxHearts)
			if s.Hearts < progress.MaxHearts {
				fmt.Printf(" (next in %s)", e.tracker.NextHeartIn().Round(time.Second))
			}
			fmt.Println()
		}
		fmt.Printf("Gems:      %d\n", s.Gems)
		fmt.Printf("Streak:    %d days\n", s.Streak)

		fmt.Println()
		fmt.Println("Daily Quests")
		fmt.Println(sep)
		for _, q := range e.tracker.Quests() {
			mark := " "
			if q.Completed {
				mark = "✓"
			}
			fmt.Printf("[%s] %-22s  %3d/%-3d  +%d gems\n", mark, q.Description, q.Progress, q.Target, q.Reward)
		}

		if unlocked := e.tracker.UnlockedAchievements(); len(unlocked) > 0 {
			fmt.Println()
			fmt.Println("Achievements")
			fmt.Println(sep)
			for _, a := range unlocked {
				fmt.Printf("%s %-14s  %s\n", a.Icon, a.Title, a.Description)
			}
		}

		lessons, err := e.store.EventRepo().QueryLessonEvents(contextOf(cmd), store.QueryOpts{Limit: limit})
		if err != nil {
			return fmt.Errorf("query lessons: %w", err)
		}
		fmt.Println()
		fmt.Println("Recent Lessons")
		fmt.Println(sep)
		if len(lessons) == 0 {
			fmt.Println("No lessons yet.")
			return nil
		}
		for _, l := range lessons {
			perfect := ""
			if l.Perfect {
				perfect = "  perfect"
			}
			fmt.Printf("%-16s  %-24s  %3d%%  %d/%d  +%d XP%s\n",
				l.Timestamp.Local().Format("2006-01-02 15:04"),
				truncate(l.LevelTitle, 24),
				l.Score, l.FirstTryCorrect, l.Challenges, l.XPGained, perfect)
		}
		return nil
	},
}

func init() {
	statsCmd.Flags().IntP("limit", "n", 10, "Number of recent lessons to show")
	statsCmd.Flags().Bool("pro", false, "Enable pro mode (unlimited hearts)")
	statsCmd.Flags().Bool("no-pro", false, "Disable pro mode")
}
