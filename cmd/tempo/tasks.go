package main

import (
	"fmt"
	"net/url"

	"github.com/spf13/cobra"

	"github.com/tempoapp/tempo/task"
)

var tasksFlags struct {
	from      string
	to        string
	projectID string
}

var tasksCmd = &cobra.Command{
	Use:   "tasks",
	Short: "List tasks, optionally within a day range",
	Args:  cobra.NoArgs,
	RunE:  runTasks,
}

func init() {
	tasksCmd.Flags().StringVar(&tasksFlags.from, "from", "", "first day to include (yyyy-MM-dd)")
	tasksCmd.Flags().StringVar(&tasksFlags.to, "to", "", "last day to include (yyyy-MM-dd)")
	tasksCmd.Flags().StringVar(&tasksFlags.projectID, "project", "", "only tasks in this project")
	rootCmd.AddCommand(tasksCmd)
}

func runTasks(cmd *cobra.Command, args []string) error {
	client := newClient()
	if err := client.requireAuth(); err != nil {
		return err
	}

	query := url.Values{}
	if tasksFlags.from != "" {
		query.Set("from", tasksFlags.from)
	}
	if tasksFlags.to != "" {
		query.Set("to", tasksFlags.to)
	}
	if tasksFlags.projectID != "" {
		query.Set("projectId", tasksFlags.projectID)
	}
	path := "/api/tasks"
	if encoded := query.Encode(); encoded != "" {
		path += "?" + encoded
	}

	var tasks []task.Task
	if err := client.getJSON(cmd.Context(), path, &tasks); err != nil {
		return err
	}

	rows := make([][]string, 0, len(tasks))
	for _, item := range tasks {
		done := " "
		if item.Done {
			done = "x"
		}
		rows = append(rows, []string{item.ID, item.Day, done, truncateTableCell(item.Text)})
	}
	fmt.Print(formatTable([]string{"ID", "DAY", "DONE", "TEXT"}, rows))
	return nil
}
