package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/jeffreysprompts/jfp/internal/adapters/driving/tui/styles"
	"github.com/jeffreysprompts/jfp/internal/core/domain"
)

// previewWidth is the rune limit of one-line previews in listings.
const previewWidth = 72

var (
	listCategory string
	listTag      string
	listFeatured bool

	showRaw bool

	randomCategory string
	randomTag      string
	randomCopy     bool
)

var listCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List prompts",
	Long: `Lists every stored prompt ordered by title.

Filters combine: --category and --tag match case-insensitively and
--featured keeps only curated prompts.`,
	Args: cobra.NoArgs,
	RunE: runList,
}

var showCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show a prompt",
	Long:  `Shows a prompt's metadata, variables and template. Use --raw to print only the template.`,
	Args:  cobra.ExactArgs(1),
	RunE:  runShow,
}

var randomCmd = &cobra.Command{
	Use:   "random",
	Short: "Show a random prompt",
	Args:  cobra.NoArgs,
	RunE:  runRandom,
}

var categoriesCmd = &cobra.Command{
	Use:   "categories",
	Short: "List categories with prompt counts",
	Args:  cobra.NoArgs,
	RunE:  runCategories,
}

var tagsCmd = &cobra.Command{
	Use:   "tags",
	Short: "List tags with prompt counts",
	Args:  cobra.NoArgs,
	RunE:  runTags,
}

func init() {
	listCmd.Flags().StringVarP(&listCategory, "category", "c", "", "only prompts in this category")
	listCmd.Flags().StringVarP(&listTag, "tag", "t", "", "only prompts with this tag")
	listCmd.Flags().BoolVar(&listFeatured, "featured", false, "only featured prompts")

	showCmd.Flags().BoolVar(&showRaw, "raw", false, "print the template only")

	randomCmd.Flags().StringVarP(&randomCategory, "category", "c", "", "pick from this category")
	randomCmd.Flags().StringVarP(&randomTag, "tag", "t", "", "pick from prompts with this tag")
	randomCmd.Flags().BoolVar(&randomCopy, "copy", false, "copy the template to the clipboard")

	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(showCmd)
	rootCmd.AddCommand(randomCmd)
	rootCmd.AddCommand(categoriesCmd)
	rootCmd.AddCommand(tagsCmd)
}

// listOutput is the JSON shape of list.
type listOutput struct {
	Prompts []domain.Prompt `json:"prompts"`
	Count   int             `json:"count"`
}

func runList(cmd *cobra.Command, _ []string) error {
	svc, err := preparePrompts(cmd)
	if err != nil {
		return err
	}

	prompts, err := svc.List(cmd.Context(), domain.ListFilter{
		Category:     listCategory,
		Tag:          listTag,
		FeaturedOnly: listFeatured,
	})
	if err != nil {
		return fmt.Errorf("listing prompts: %w", err)
	}

	if jsonOutput(cmd) {
		return writeJSON(cmd, listOutput{Prompts: prompts, Count: len(prompts)})
	}

	if len(prompts) == 0 {
		cmd.Println("No prompts found.")
		return nil
	}

	st := ui(cmd)
	for i := range prompts {
		printPromptLine(cmd, st, &prompts[i])
	}
	cmd.Println()
	cmd.Println(st.Muted.Render(fmt.Sprintf("%d prompts", len(prompts))))
	return nil
}

func runShow(cmd *cobra.Command, args []string) error {
	svc, err := preparePrompts(cmd)
	if err != nil {
		return err
	}

	prompt, err := svc.Get(cmd.Context(), args[0])
	if err != nil {
		return err
	}

	if showRaw {
		cmd.Print(prompt.Content)
		if !strings.HasSuffix(prompt.Content, "\n") {
			cmd.Println()
		}
		return nil
	}
	if jsonOutput(cmd) {
		return writeJSON(cmd, prompt)
	}

	printPromptDetail(cmd, ui(cmd), prompt)
	return nil
}

func runRandom(cmd *cobra.Command, _ []string) error {
	svc, err := preparePrompts(cmd)
	if err != nil {
		return err
	}

	prompt, err := svc.Random(cmd.Context(), domain.ListFilter{
		Category: randomCategory,
		Tag:      randomTag,
	})
	if err != nil {
		return err
	}

	copied := false
	if randomCopy {
		if actionService == nil {
			return errors.New("action service not configured")
		}
		if err := actionService.CopyToClipboard(cmd.Context(), prompt.Content); err != nil {
			return fmt.Errorf("copying prompt: %w", err)
		}
		copied = true
	}

	if jsonOutput(cmd) {
		return writeJSON(cmd, struct {
			*domain.Prompt
			Copied bool `json:"copied,omitempty"`
		}{prompt, copied})
	}

	st := ui(cmd)
	printPromptDetail(cmd, st, prompt)
	if copied {
		cmd.Println(st.Success.Render("Copied to clipboard."))
	}
	return nil
}

// countsOutput is the JSON shape of categories and tags.
type countsOutput struct {
	Categories []domain.Count `json:"categories,omitempty"`
	Tags       []domain.Count `json:"tags,omitempty"`
}

func runCategories(cmd *cobra.Command, _ []string) error {
	svc, err := preparePrompts(cmd)
	if err != nil {
		return err
	}

	counts, err := svc.Categories(cmd.Context())
	if err != nil {
		return fmt.Errorf("listing categories: %w", err)
	}
	if jsonOutput(cmd) {
		return writeJSON(cmd, countsOutput{Categories: counts})
	}
	printCounts(cmd, ui(cmd).Category, counts, "No categories.")
	return nil
}

func runTags(cmd *cobra.Command, _ []string) error {
	svc, err := preparePrompts(cmd)
	if err != nil {
		return err
	}

	counts, err := svc.Tags(cmd.Context())
	if err != nil {
		return fmt.Errorf("listing tags: %w", err)
	}
	if jsonOutput(cmd) {
		return writeJSON(cmd, countsOutput{Tags: counts})
	}
	printCounts(cmd, ui(cmd).Tag, counts, "No tags.")
	return nil
}

func printCounts(cmd *cobra.Command, style lipgloss.Style, counts []domain.Count, empty string) {
	if len(counts) == 0 {
		cmd.Println(empty)
		return
	}
	width := 0
	for _, c := range counts {
		width = max(width, len(c.Name))
	}
	for _, c := range counts {
		pad := strings.Repeat(" ", width-len(c.Name))
		cmd.Printf("  %s%s  %d\n", style.Render(c.Name), pad, c.Count)
	}
}

// printPromptLine prints the two-line listing entry for a prompt.
func printPromptLine(cmd *cobra.Command, st *styles.Styles, p *domain.Prompt) {
	line := "  " + st.ID.Render(p.ID) + "  " + st.Title.Render(p.Title)
	if p.Category != "" {
		line += "  " + st.Category.Render("["+p.Category+"]")
	}
	if p.Featured {
		line += " " + st.Warning.Render("*")
	}
	cmd.Println(line)
	if preview := p.Preview(previewWidth); preview != "" {
		cmd.Println("      " + st.Muted.Render(preview))
	}
}

// printPromptDetail prints a prompt's metadata, variables and template.
func printPromptDetail(cmd *cobra.Command, st *styles.Styles, p *domain.Prompt) {
	cmd.Println(st.Title.Render(p.Title))
	if p.Description != "" {
		cmd.Println(p.Description)
	}
	cmd.Println()
	cmd.Printf("  %s %s\n", st.Muted.Render("ID:      "), st.ID.Render(p.ID))
	if p.Category != "" {
		cmd.Printf("  %s %s\n", st.Muted.Render("Category:"), st.Category.Render(p.Category))
	}
	if len(p.Tags) > 0 {
		cmd.Printf("  %s %s\n", st.Muted.Render("Tags:    "), st.Tag.Render(strings.Join(p.Tags, ", ")))
	}
	if p.Author != "" {
		cmd.Printf("  %s %s\n", st.Muted.Render("Author:  "), p.Author)
	}
	if p.IsLocal {
		cmd.Printf("  %s %s\n", st.Muted.Render("Source:  "), "local")
	}

	if len(p.Variables) > 0 {
		cmd.Println()
		cmd.Println(st.Title.Render("Variables"))
		for _, v := range p.Variables {
			line := "  " + st.ID.Render("{{"+v.Name+"}}") + " " + st.Muted.Render("("+v.Type.String()+")")
			if v.Required {
				line += " " + st.Warning.Render("required")
			}
			if v.Default != "" {
				line += " " + st.Muted.Render("default: "+v.Default)
			}
			cmd.Println(line)
			if v.Description != "" {
				cmd.Println("      " + v.Description)
			}
		}
	}

	cmd.Println()
	cmd.Println(st.Muted.Render("---"))
	cmd.Println(strings.TrimRight(p.Content, "\n"))
}
