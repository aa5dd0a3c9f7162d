package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/parallel-research/internal/task"
	"github.com/pdiddy/parallel-research/pkg/types"
)

var runsCmd = &cobra.Command{
	Use:   "runs",
	Short: "Inspect the local journal of submitted task runs",
	Long: `Runs lists task runs this client has submitted and checks on runs that
were started with --no-wait. "runs show" re-polls the service for the
current status and prints the result once the run has completed.`,
}

var runsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List journaled task runs, most recent first",
	RunE:  runRunsList,
}

var runsShowCmd = &cobra.Command{
	Use:   "show [run-id]",
	Short: "Check a run's status and print its result when completed",
	Args:  cobra.ExactArgs(1),
	RunE:  runRunsShow,
}

func init() {
	runsCmd.PersistentFlags().String("runs-dir", "runs", "base directory for the local run journal")
	runsListCmd.Flags().Int("limit", 50, "maximum number of runs to list")
	runsListCmd.Flags().Bool("json", false, "output as JSON")
	runsShowCmd.Flags().BoolP("json", "j", false, "output the normalized result as JSON")

	runsCmd.AddCommand(runsListCmd)
	runsCmd.AddCommand(runsShowCmd)
	rootCmd.AddCommand(runsCmd)
}

func runRunsList(cmd *cobra.Command, args []string) error {
	store, err := openJournal(cmd)
	if err != nil {
		return err
	}
	defer store.Close()

	limit, _ := cmd.Flags().GetInt("limit")
	entries, err := store.List(cmd.Context(), limit)
	if err != nil {
		return err
	}

	if jsonOutput, _ := cmd.Flags().GetBool("json"); jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(entries)
	}

	if len(entries) == 0 {
		fmt.Println("No journaled runs.")
		return nil
	}

	fmt.Fprintf(os.Stdout, "%-28s  %-7s  %-9s  %-10s  %s\n",
		"Run", "Mode", "Status", "Processor", "Input")
	fmt.Fprintln(os.Stdout, strings.Repeat("-", 100))
	for _, e := range entries {
		input := e.Input
		if len(input) > 40 {
			input = input[:37] + "..."
		}
		fmt.Fprintf(os.Stdout, "%-28s  %-7s  %-9s  %-10s  %s\n",
			e.RunID, e.Mode, e.Status, e.Processor, input)
	}
	fmt.Fprintf(os.Stdout, "\n%d runs\n", len(entries))
	return nil
}

func runRunsShow(cmd *cobra.Command, args []string) error {
	runID := args[0]

	store, err := openJournal(cmd)
	if err != nil {
		return err
	}
	defer store.Close()

	// The journal entry is informational; an unjournaled run id can still
	// be polled remotely.
	if entry, err := store.Get(cmd.Context(), runID); err == nil {
		fmt.Fprintf(os.Stderr, "Submitted %s (%s mode): %s\n",
			entry.SubmittedAt.Format("2006-01-02 15:04"), entry.Mode, entry.Input)
	}

	client, err := newClient(cmd)
	if err != nil {
		return err
	}

	info, err := task.Status(cmd.Context(), client, runID)
	if err != nil {
		return err
	}
	if err := store.UpdateStatus(cmd.Context(), runID, info.Status); err != nil {
		fmt.Fprintf(os.Stderr, "warning: could not update run journal: %v\n", err)
	}

	if info.Status == types.RunStatusFailed {
		return task.FailureError(info)
	}
	if !info.Terminal() {
		fmt.Printf("Task %s is still %s.\n", runID, info.Status)
		return nil
	}

	result, err := task.FetchResult(cmd.Context(), client, runID)
	if err != nil {
		return err
	}
	if jsonOutput, _ := cmd.Flags().GetBool("json"); jsonOutput {
		return task.FormatJSON(result, os.Stdout)
	}
	task.FormatResult(result, os.Stdout)
	return nil
}
