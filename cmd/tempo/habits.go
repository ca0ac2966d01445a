package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/tempoapp/tempo/habit"
)

var habitsCmd = &cobra.Command{
	Use:   "habits",
	Short: "List habits with their streaks",
	Args:  cobra.NoArgs,
	RunE:  runHabits,
}

var habitCmd = &cobra.Command{
	Use:   "habit <id>",
	Short: "Show a habit's stats and description",
	Args:  cobra.ExactArgs(1),
	RunE:  runHabit,
}

func init() {
	rootCmd.AddCommand(habitsCmd, habitCmd)
}

func runHabits(cmd *cobra.Command, args []string) error {
	client := newClient()
	if err := client.requireAuth(); err != nil {
		return err
	}

	var habits []habit.Habit
	if err := client.getJSON(cmd.Context(), "/api/habits", &habits); err != nil {
		return err
	}

	rows := make([][]string, 0, len(habits))
	for _, h := range habits {
		rows = append(rows, []string{
			h.ID,
			truncateTableCell(h.Name),
			strconv.Itoa(h.Goal),
			strconv.Itoa(h.Streak),
			strconv.Itoa(h.LongestStreak),
		})
	}
	fmt.Print(formatTable([]string{"ID", "NAME", "GOAL", "STREAK", "LONGEST"}, rows))
	return nil
}

func runHabit(cmd *cobra.Command, args []string) error {
	client := newClient()
	if err := client.requireAuth(); err != nil {
		return err
	}
	ctx := cmd.Context()
	habitID := args[0]

	var habits []habit.Habit
	var stats habit.Stats
	group, groupCtx := errgroup.WithContext(ctx)
	group.Go(func() error {
		return client.getJSON(groupCtx, "/api/habits", &habits)
	})
	group.Go(func() error {
		return client.getJSON(groupCtx, "/api/habits/"+habitID+"/stats", &stats)
	})
	if err := group.Wait(); err != nil {
		return err
	}

	var found *habit.Habit
	for i := range habits {
		if habits[i].ID == habitID {
			found = &habits[i]
			break
		}
	}
	if found == nil {
		return fmt.Errorf("habit not found: %s", habitID)
	}

	fmt.Println(tableHeaderStyle.Render(found.Name))
	fmt.Println(renderMarkdownOrDash(found.Description, renderWidth))
	fmt.Println()
	fmt.Print(formatTable(
		[]string{"GOAL", "STREAK", "LONGEST", "TOTAL DAYS", "RATE"},
		[][]string{{
			strconv.Itoa(found.Goal),
			strconv.Itoa(stats.Streak),
			strconv.Itoa(stats.LongestStreak),
			strconv.Itoa(stats.TotalDays),
			strconv.Itoa(stats.CompletionRate) + "%",
		}},
	))
	return nil
}
