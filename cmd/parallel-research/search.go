package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/parallel-research/internal/search"
	"github.com/pdiddy/parallel-research/pkg/types"
)

var searchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Run a one-shot web search",
	Long: `Search sends a query to the search endpoint and prints the results in
service order. Use --json for machine-readable output and --save to write
the query and results to a YAML file.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSearch,
}

func init() {
	searchCmd.Flags().Int("max-results", 0, "maximum number of results (service default when omitted)")
	searchCmd.Flags().Bool("json", false, "output results as JSON")
	searchCmd.Flags().String("include-domains", "", "comma-separated domains to include")
	searchCmd.Flags().String("exclude-domains", "", "comma-separated domains to exclude")
	searchCmd.Flags().String("save", "", "write the query and results to a YAML file")

	rootCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	maxResults, _ := cmd.Flags().GetInt("max-results")
	jsonOutput, _ := cmd.Flags().GetBool("json")
	savePath, _ := cmd.Flags().GetString("save")

	req, err := search.BuildRequest(strings.Join(args, " "), maxResults, sourcePolicyFromFlags(cmd))
	if err != nil {
		return err
	}

	client, err := newClient(cmd)
	if err != nil {
		return err
	}

	out, err := search.Search(cmd.Context(), client, req)
	if err != nil {
		return err
	}

	if savePath != "" {
		if err := search.WriteQueryFile(savePath, req, out); err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "Saved query and results to %s\n", savePath)
	}

	if jsonOutput {
		return search.FormatJSON(out, os.Stdout)
	}
	search.FormatTable(out, os.Stdout)
	return nil
}

// sourcePolicyFromFlags reads the shared domain filter flags.
func sourcePolicyFromFlags(cmd *cobra.Command) types.SourcePolicy {
	var policy types.SourcePolicy
	if v, _ := cmd.Flags().GetString("include-domains"); v != "" {
		policy.IncludeDomains = splitDomains(v)
	}
	if v, _ := cmd.Flags().GetString("exclude-domains"); v != "" {
		policy.ExcludeDomains = splitDomains(v)
	}
	return policy
}

func splitDomains(s string) []string {
	var domains []string
	for _, d := range strings.Split(s, ",") {
		d = strings.TrimSpace(d)
		if d != "" {
			domains = append(domains, d)
		}
	}
	return domains
}
