package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/jeffreysprompts/jfp/internal/core/domain"
)

// frontMatterFence delimits YAML front matter in Markdown prompt files.
const frontMatterFence = "---"

var (
	addID       string
	addCategory string
	addTags     []string
)

var addCmd = &cobra.Command{
	Use:   "add <file>",
	Short: "Add a local prompt from a file",
	Long: `Stores a prompt you wrote yourself. Local prompts are searchable like
registry prompts and are included in backups.

Accepted files:
  *.yaml, *.yml  a prompt document with id, title, content and optional
                 description, category, tags and variables
  *.json         the same fields as JSON
  *.md           Markdown with optional YAML front matter; the body is the
                 template, and a leading "# Heading" becomes the title when
                 the front matter has none

A prompt without an id gets a generated one.`,
	Args: cobra.ExactArgs(1),
	RunE: runAdd,
}

func init() {
	addCmd.Flags().StringVar(&addID, "id", "", "prompt id (overrides the file)")
	addCmd.Flags().StringVarP(&addCategory, "category", "c", "", "category (overrides the file)")
	addCmd.Flags().StringArrayVarP(&addTags, "tag", "t", nil, "additional tag (repeatable)")
	rootCmd.AddCommand(addCmd)
}

func runAdd(cmd *cobra.Command, args []string) error {
	prompt, err := readPromptFile(args[0])
	if err != nil {
		return err
	}
	if addID != "" {
		prompt.ID = addID
	}
	if addCategory != "" {
		prompt.Category = addCategory
	}
	prompt.Tags = append(prompt.Tags, addTags...)

	svc, err := preparePrompts(cmd)
	if err != nil {
		return err
	}

	saved, err := svc.AddLocal(cmd.Context(), *prompt)
	if err != nil {
		return err
	}

	if jsonOutput(cmd) {
		return writeJSON(cmd, saved)
	}
	st := ui(cmd)
	cmd.Printf("%s %s %s\n", st.Success.Render("Added"), st.Title.Render(saved.Title), st.ID.Render("("+saved.ID+")"))
	return nil
}

// readPromptFile decodes a prompt document by file extension.
func readPromptFile(path string) (*domain.Prompt, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading prompt file: %w", err)
	}

	var prompt domain.Prompt
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &prompt)
	case ".json":
		err = json.Unmarshal(data, &prompt)
	case ".md", ".markdown":
		err = parseMarkdownPrompt(string(data), &prompt)
	default:
		return nil, fmt.Errorf("%w: unsupported prompt file type %q", domain.ErrInvalidInput, ext)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: parsing %s: %v", domain.ErrInvalidInput, path, err)
	}
	return &prompt, nil
}

// parseMarkdownPrompt splits optional front matter from the body.
func parseMarkdownPrompt(text string, prompt *domain.Prompt) error {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	body := text

	if rest, ok := strings.CutPrefix(text, frontMatterFence+"\n"); ok {
		front, after, found := strings.Cut(rest, "\n"+frontMatterFence)
		if !found {
			return fmt.Errorf("unterminated front matter")
		}
		if err := yaml.Unmarshal([]byte(front), prompt); err != nil {
			return fmt.Errorf("front matter: %w", err)
		}
		// Drop the remainder of the closing fence line.
		if i := strings.IndexByte(after, '\n'); i >= 0 {
			body = after[i+1:]
		} else {
			body = ""
		}
	}

	body = strings.TrimSpace(body)
	if prompt.Title == "" {
		if first, rest, _ := strings.Cut(body, "\n"); strings.HasPrefix(first, "# ") {
			prompt.Title = strings.TrimSpace(strings.TrimPrefix(first, "# "))
			body = strings.TrimSpace(rest)
		}
	}
	if prompt.Content == "" {
		prompt.Content = body
	}
	return nil
}
