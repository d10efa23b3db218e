package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jeffreysprompts/jfp/internal/core/domain"
	"github.com/jeffreysprompts/jfp/internal/fsutil"
)

// Export formats.
const (
	formatMarkdown = "md"
	formatSkill    = "skill"
)

var (
	exportFormat    string
	exportOutputDir string
	exportStdout    bool
)

var exportCmd = &cobra.Command{
	Use:   "export [ids...|all]",
	Short: "Export prompts as Markdown files",
	Long: `Writes each prompt to <id>.md in the output directory.

The md format is a plain document; the skill format adds a metadata
section and a variables list, with the template in a code block. With no
ids, or the single id "all", every prompt is exported.`,
	Example: `  jfp export code-review --format skill --output-dir ./skills
  jfp export all --stdout`,
	RunE: runExport,
}

func init() {
	exportCmd.Flags().StringVarP(&exportFormat, "format", "f", formatMarkdown, "export format: md or skill")
	exportCmd.Flags().StringVarP(&exportOutputDir, "output-dir", "o", ".", "directory to write files to")
	exportCmd.Flags().BoolVar(&exportStdout, "stdout", false, "print to stdout instead of writing files")
	rootCmd.AddCommand(exportCmd)
}

// exportedPrompt is one exported file.
type exportedPrompt struct {
	ID   string `json:"id"`
	File string `json:"file,omitempty"`
}

// exportOutput is the JSON shape of export.
type exportOutput struct {
	Exported  []exportedPrompt `json:"exported"`
	Count     int              `json:"count"`
	Format    string           `json:"format"`
	OutputDir string           `json:"output_dir,omitempty"`
}

func runExport(cmd *cobra.Command, args []string) error {
	if exportFormat != formatMarkdown && exportFormat != formatSkill {
		return fmt.Errorf("%w: format %q, use %q or %q", domain.ErrInvalidInput, exportFormat, formatMarkdown, formatSkill)
	}

	svc, err := preparePrompts(cmd)
	if err != nil {
		return err
	}
	ctx := cmd.Context()

	var prompts []domain.Prompt
	if len(args) == 0 || (len(args) == 1 && args[0] == "all") {
		prompts, err = svc.List(ctx, domain.ListFilter{})
		if err != nil {
			return fmt.Errorf("listing prompts: %w", err)
		}
	} else {
		for _, id := range args {
			p, err := svc.Get(ctx, id)
			if errors.Is(err, domain.ErrNotFound) {
				cmd.PrintErrf("Warning: prompt %q not found, skipping\n", id)
				continue
			}
			if err != nil {
				return err
			}
			prompts = append(prompts, *p)
		}
	}
	if len(prompts) == 0 {
		return domain.ErrNoPrompts
	}

	out := exportOutput{Exported: make([]exportedPrompt, 0, len(prompts)), Format: exportFormat}
	asJSON := jsonOutput(cmd)

	if exportStdout {
		for i := range prompts {
			if !asJSON {
				if i > 0 {
					cmd.Println("\n---")
				}
				cmd.Print(formatPrompt(&prompts[i], exportFormat))
			}
			out.Exported = append(out.Exported, exportedPrompt{ID: prompts[i].ID})
		}
	} else {
		out.OutputDir = exportOutputDir
		if err := os.MkdirAll(exportOutputDir, 0o755); err != nil {
			return fmt.Errorf("creating output directory: %w", err)
		}
		for i := range prompts {
			path := filepath.Join(exportOutputDir, prompts[i].ID+".md")
			content := formatPrompt(&prompts[i], exportFormat)
			err := fsutil.WriteFileAtomic(path, func(w io.Writer) error {
				_, err := io.WriteString(w, content)
				return err
			})
			if err != nil {
				return fmt.Errorf("writing %s: %w", path, err)
			}
			if !asJSON {
				cmd.Printf("Exported: %s\n", path)
			}
			out.Exported = append(out.Exported, exportedPrompt{ID: prompts[i].ID, File: path})
		}
	}
	out.Count = len(out.Exported)

	if asJSON {
		return writeJSON(cmd, out)
	}
	if !exportStdout {
		cmd.Printf("\nExported %d prompt(s)\n", out.Count)
	}
	return nil
}

// formatPrompt renders a prompt as a Markdown document.
func formatPrompt(p *domain.Prompt, format string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", p.Title)

	if format == formatSkill {
		if p.Description != "" {
			fmt.Fprintf(&b, "> %s\n\n", p.Description)
		}
		b.WriteString("## Metadata\n\n")
		fmt.Fprintf(&b, "- **ID**: %s\n", p.ID)
		if p.Category != "" {
			fmt.Fprintf(&b, "- **Category**: %s\n", p.Category)
		}
		if len(p.Tags) > 0 {
			fmt.Fprintf(&b, "- **Tags**: %s\n", strings.Join(p.Tags, ", "))
		}
		b.WriteString("\n")

		if len(p.Variables) > 0 {
			b.WriteString("## Variables\n\n")
			for _, v := range p.Variables {
				fmt.Fprintf(&b, "- `{{%s}}`", v.Name)
				if v.Description != "" {
					fmt.Fprintf(&b, ": %s", v.Description)
				}
				if v.Default != "" {
					fmt.Fprintf(&b, " (default: %s)", v.Default)
				}
				b.WriteString("\n")
			}
			b.WriteString("\n")
		}

		b.WriteString("## Prompt\n\n```\n")
		b.WriteString(p.Content)
		b.WriteString("\n```\n")
		return b.String()
	}

	if p.Description != "" {
		fmt.Fprintf(&b, "%s\n\n", p.Description)
	}
	if p.Category != "" {
		fmt.Fprintf(&b, "**Category**: %s\n\n", p.Category)
	}
	if len(p.Tags) > 0 {
		fmt.Fprintf(&b, "**Tags**: %s\n\n", strings.Join(p.Tags, ", "))
	}
	b.WriteString("---\n\n")
	b.WriteString(p.Content)
	b.WriteString("\n")
	return b.String()
}
