package main

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/parallel-research/internal/runlog"
	"github.com/pdiddy/parallel-research/internal/task"
	"github.com/pdiddy/parallel-research/pkg/types"
)

// browseruseMCPURL is the browser-automation MCP proxy endpoint. The proxy
// holds the saved login profiles; this client only points the task service
// at it.
const browseruseMCPURL = "https://api.browser-use.com/mcp"

var taskCmd = &cobra.Command{
	Use:   "task [query]",
	Short: "Run a deep-research task",
	Long: `Task submits a deep-research run and waits for it to complete. Three modes:

  plain    task "What was France's GDP in 2023?"
  enrich   task --enrich "company_name=Stripe" --output "founding_year,funding"
  report   task --report "Market analysis of the HVAC industry"

Authenticated page access needs a browser-use.com API key (--browseruse-key
or BROWSERUSE_API_KEY) or a saved cookie session (--auth-session); such runs
always execute on the ultra processor.

With --no-wait the run id is printed immediately; check on it later with
"runs show".`,
	RunE: runTask,
}

func init() {
	taskCmd.Flags().StringP("processor", "p", "", "processor tier: base, core, or ultra (default by mode)")
	taskCmd.Flags().StringP("enrich", "e", "", "enrichment input: key=value pairs (e.g. 'company_name=Stripe,website=stripe.com')")
	taskCmd.Flags().StringP("output", "o", "", "output fields for enrichment (e.g. 'founding_year,employee_count')")
	taskCmd.Flags().BoolP("report", "r", false, "generate a markdown report with citations")
	taskCmd.Flags().String("include-domains", "", "comma-separated domains to include")
	taskCmd.Flags().String("exclude-domains", "", "comma-separated domains to exclude")
	taskCmd.Flags().String("browseruse-key", "", "browser-use.com API key for authenticated page access")
	taskCmd.Flags().String("auth-session", "", "YAML file holding a saved cookie session")
	taskCmd.Flags().Duration("poll-interval", 0, "delay between status polls (default 2s)")
	taskCmd.Flags().Duration("poll-timeout", 0, "how long to wait for completion (default 5m)")
	taskCmd.Flags().Bool("no-wait", false, "submit the run and exit without waiting")
	taskCmd.Flags().BoolP("json", "j", false, "output the normalized result as JSON")
	taskCmd.Flags().String("runs-dir", "runs", "base directory for the local run journal")

	rootCmd.AddCommand(taskCmd)
}

func runTask(cmd *cobra.Command, args []string) error {
	req, err := taskRequestFromFlags(cmd, args)
	if err != nil {
		return err
	}

	built, err := req.Build()
	if err != nil {
		return err
	}

	client, err := newClient(cmd)
	if err != nil {
		return err
	}

	info, err := task.Create(cmd.Context(), client, built)
	if err != nil {
		return err
	}

	journalRun(cmd, req, info)

	noWait, _ := cmd.Flags().GetBool("no-wait")
	if noWait {
		fmt.Printf("Task created: %s\n", info.RunID)
		return nil
	}

	cfg := types.TaskConfig{
		PollInterval: viper.GetDuration("task.poll_interval"),
		PollTimeout:  viper.GetDuration("task.poll_timeout"),
	}
	if v, _ := cmd.Flags().GetDuration("poll-interval"); v > 0 {
		cfg.PollInterval = v
	}
	if v, _ := cmd.Flags().GetDuration("poll-timeout"); v > 0 {
		cfg.PollTimeout = v
	}

	fmt.Fprintf(os.Stderr, "Running task %s...\n", info.RunID)
	final, err := task.Await(cmd.Context(), client, info.RunID, cfg, os.Stderr)
	if err != nil {
		return err
	}
	updateJournal(cmd, info.RunID, final.Status)
	if final.Status == types.RunStatusFailed {
		return task.FailureError(final)
	}

	result, err := task.FetchResult(cmd.Context(), client, info.RunID)
	if err != nil {
		return err
	}

	jsonOutput, _ := cmd.Flags().GetBool("json")
	if jsonOutput {
		return task.FormatJSON(result, os.Stdout)
	}
	task.FormatResult(result, os.Stdout)
	return nil
}

// taskRequestFromFlags assembles the task request; all validation happens in
// Build.
func taskRequestFromFlags(cmd *cobra.Command, args []string) (task.Request, error) {
	enrichSpec, _ := cmd.Flags().GetString("enrich")
	outputSpec, _ := cmd.Flags().GetString("output")
	report, _ := cmd.Flags().GetBool("report")
	processor, _ := cmd.Flags().GetString("processor")

	req := task.Request{
		Input:        strings.Join(args, " "),
		Mode:         types.ModePlain,
		Processor:    types.Processor(processor),
		SourcePolicy: sourcePolicyFromFlags(cmd),
	}

	switch {
	case enrichSpec != "":
		input, keys, err := task.ParseEnrichInput(enrichSpec)
		if err != nil {
			return task.Request{}, err
		}
		req.Mode = types.ModeEnrich
		req.EnrichInput = input
		req.EnrichKeys = keys
		req.OutputFields = task.ParseOutputFields(outputSpec)
	case report:
		req.Mode = types.ModeReport
	}

	if sessionPath, _ := cmd.Flags().GetString("auth-session"); sessionPath != "" {
		session, err := task.LoadAuthSession(sessionPath)
		if err != nil {
			return task.Request{}, err
		}
		req.AuthSession = session
	}

	flagKey, _ := cmd.Flags().GetString("browseruse-key")
	if key := apiKey(flagKey, "BROWSERUSE_API_KEY", "browseruse-api-key"); key != "" {
		req.MCPServers = []types.MCPServer{{
			Type:    "url",
			URL:     browseruseMCPURL,
			Name:    "browseruse",
			Headers: map[string]string{"Authorization": "Bearer " + key},
		}}
	}

	return req, nil
}

// journalRun records the submission locally. Journal failures are warnings:
// the remote run already exists and its result matters more.
func journalRun(cmd *cobra.Command, req task.Request, info types.RunInfo) {
	store, err := openJournal(cmd)
	if err != nil {
		fmt.Fprintf(os.Stderr, "warning: run journal unavailable: %v\n", err)
		return
	}
	defer store.Close()

	input := req.Input
	if req.Mode == types.ModeEnrich {
		input = fmt.Sprintf("%v -> %s", req.EnrichKeys, strings.Join(req.OutputFields, ","))
	}
	entry := runlog.Entry{
		RunID:       info.RunID,
		Mode:        string(req.Mode),
		Input:       input,
		Processor:   string(info.Processor),
		Status:      info.Status,
		SubmittedAt: time.Now().UTC(),
	}
	if err := store.Record(cmd.Context(), entry); err != nil {
		fmt.Fprintf(os.Stderr, "warning: could not journal run: %v\n", err)
	}
}

func updateJournal(cmd *cobra.Command, runID, status string) {
	store, err := openJournal(cmd)
	if err != nil {
		return
	}
	defer store.Close()
	if err := store.UpdateStatus(cmd.Context(), runID, status); err != nil {
		fmt.Fprintf(os.Stderr, "warning: could not update run journal: %v\n", err)
	}
}

func openJournal(cmd *cobra.Command) (*runlog.Store, error) {
	runsDir, _ := cmd.Flags().GetString("runs-dir")
	if !cmd.Flags().Changed("runs-dir") {
		if v := viper.GetString("runs_dir"); v != "" {
			runsDir = v
		}
	}
	if runsDir == "" {
		runsDir = "runs"
	}
	return runlog.NewStore(types.RunLogConfig{Dir: runsDir})
}
