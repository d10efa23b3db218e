package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jeffreysprompts/jfp/internal/core/domain"
)

// defaultSuggestLimit is the default number of suggestions.
const defaultSuggestLimit = 5

var (
	searchLimit  int
	suggestLimit int
)

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search prompts",
	Long: `Ranks prompts against a full-text query using BM25.

Matches in the id weigh most, then title, description and tags, then the
template body. Quoted phrases and AND/OR/NOT operators are supported; a
query that cannot be parsed is retried as a literal phrase.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSearch,
}

var suggestCmd = &cobra.Command{
	Use:   "suggest <task>",
	Short: "Suggest prompts for a task",
	Long: `Finds prompts relevant to a free-text task description. Any word of the
description may match; relevance is relative to the best hit.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSuggest,
}

func init() {
	searchCmd.Flags().IntVarP(&searchLimit, "limit", "n", domain.DefaultSearchLimit, "maximum number of results")
	suggestCmd.Flags().IntVarP(&suggestLimit, "limit", "n", defaultSuggestLimit, "maximum number of suggestions")
	rootCmd.AddCommand(searchCmd)
	rootCmd.AddCommand(suggestCmd)
}

// searchOutput is the JSON shape of search.
type searchOutput struct {
	Query   string                `json:"query"`
	Results []domain.SearchResult `json:"results"`
	Count   int                   `json:"count"`
}

// suggestOutput is the JSON shape of suggest.
type suggestOutput struct {
	Task        string              `json:"task"`
	Suggestions []domain.Suggestion `json:"suggestions"`
	Count       int                 `json:"count"`
}

func runSearch(cmd *cobra.Command, args []string) error {
	query := strings.Join(args, " ")

	svc, err := preparePrompts(cmd)
	if err != nil {
		return err
	}

	results, err := svc.Search(cmd.Context(), query, searchLimit)
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	if jsonOutput(cmd) {
		return writeJSON(cmd, searchOutput{Query: query, Results: results, Count: len(results)})
	}

	if len(results) == 0 {
		cmd.Println("No results found.")
		return nil
	}

	st := ui(cmd)
	cmd.Println("Results:")
	cmd.Println()
	for i := range results {
		p := &results[i].Prompt
		cmd.Printf("  [%d] %s %s %s\n", i+1,
			st.Title.Render(p.Title), st.ID.Render("("+p.ID+")"),
			st.Muted.Render(fmt.Sprintf("%.2f", results[i].Score)))
		if preview := p.Preview(previewWidth); preview != "" {
			cmd.Printf("      %s\n", st.Muted.Render(preview))
		}
	}
	return nil
}

func runSuggest(cmd *cobra.Command, args []string) error {
	task := strings.Join(args, " ")

	svc, err := preparePrompts(cmd)
	if err != nil {
		return err
	}

	suggestions, err := svc.Suggest(cmd.Context(), task, suggestLimit)
	if err != nil {
		return fmt.Errorf("suggest failed: %w", err)
	}

	if jsonOutput(cmd) {
		return writeJSON(cmd, suggestOutput{Task: task, Suggestions: suggestions, Count: len(suggestions)})
	}

	if len(suggestions) == 0 {
		cmd.Println("No matching prompts.")
		return nil
	}

	st := ui(cmd)
	cmd.Printf("Prompts for %q:\n\n", task)
	for i := range suggestions {
		p := &suggestions[i].Prompt
		cmd.Printf("  %3.0f%%  %s %s\n", suggestions[i].Relevance*100,
			st.Title.Render(p.Title), st.ID.Render("("+p.ID+")"))
	}
	cmd.Println()
	cmd.Println(st.Muted.Render("Run 'jfp show <id>' to see a prompt."))
	return nil
}
