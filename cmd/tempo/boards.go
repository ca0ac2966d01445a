package main

import (
	"fmt"
	"sync"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/tempoapp/tempo/board"
)

var boardsCmd = &cobra.Command{
	Use:   "boards",
	Short: "List kanban boards",
	Args:  cobra.NoArgs,
	RunE:  runBoards,
}

var boardCmd = &cobra.Command{
	Use:   "board <id>",
	Short: "Show a board's columns and cards",
	Args:  cobra.ExactArgs(1),
	RunE:  runBoard,
}

func init() {
	rootCmd.AddCommand(boardsCmd, boardCmd)
}

func runBoards(cmd *cobra.Command, args []string) error {
	client := newClient()
	if err := client.requireAuth(); err != nil {
		return err
	}

	var boards []board.Board
	if err := client.getJSON(cmd.Context(), "/api/boards", &boards); err != nil {
		return err
	}

	rows := make([][]string, 0, len(boards))
	for _, b := range boards {
		rows = append(rows, []string{b.ID, truncateTableCell(b.Title), b.UpdatedAt.Format("2006-01-02")})
	}
	fmt.Print(formatTable([]string{"ID", "TITLE", "UPDATED"}, rows))
	return nil
}

func runBoard(cmd *cobra.Command, args []string) error {
	client := newClient()
	if err := client.requireAuth(); err != nil {
		return err
	}
	ctx := cmd.Context()
	boardID := args[0]

	var b board.Board
	var columns []board.Column
	group, groupCtx := errgroup.WithContext(ctx)
	group.Go(func() error {
		return client.getJSON(groupCtx, "/api/boards/"+boardID, &b)
	})
	group.Go(func() error {
		return client.getJSON(groupCtx, "/api/columns?boardId="+boardID, &columns)
	})
	if err := group.Wait(); err != nil {
		return err
	}

	// Cards for each column are fetched concurrently; the mutex guards the
	// result map.
	cardsByColumn := make(map[string][]board.Card, len(columns))
	var mu sync.Mutex
	group, groupCtx = errgroup.WithContext(ctx)
	for _, column := range columns {
		group.Go(func() error {
			var cards []board.Card
			if err := client.getJSON(groupCtx, "/api/cards?columnId="+column.ID, &cards); err != nil {
				return err
			}
			mu.Lock()
			cardsByColumn[column.ID] = cards
			mu.Unlock()
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return err
	}

	fmt.Println(tableHeaderStyle.Render(b.Title))
	if b.Description != "" {
		fmt.Println(renderMarkdownOrDash(b.Description, renderWidth))
	}
	for _, column := range columns {
		fmt.Printf("\n%s\n", tableHeaderStyle.Render(column.Title))
		cards := cardsByColumn[column.ID]
		if len(cards) == 0 {
			fmt.Println("  (empty)")
			continue
		}
		for _, card := range cards {
			fmt.Printf("  %s  %s\n", card.ID, truncateTableCell(card.Content))
		}
	}
	return nil
}
