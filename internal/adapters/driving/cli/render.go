package cli

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/jeffreysprompts/jfp/internal/core/domain"
	"github.com/jeffreysprompts/jfp/internal/core/ports/driving"
)

// multilineTerminator ends a multiline answer in --fill mode.
const multilineTerminator = "."

// renderFlags are shared by render and copy.
type renderFlags struct {
	vars    []string
	context string
	fill    bool
}

func (f *renderFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringArrayVar(&f.vars, "var", nil, "variable value as NAME=VALUE (repeatable)")
	cmd.Flags().StringVar(&f.context, "context", "", "JSON, YAML or TOML file of variable values")
	cmd.Flags().BoolVar(&f.fill, "fill", false, "prompt for each variable")
}

var (
	renderOpts renderFlags
	copyOpts   renderFlags
)

var renderCmd = &cobra.Command{
	Use:   "render <id>",
	Short: "Render a prompt with variable values",
	Long: `Fills a prompt's {{NAME}} placeholders and prints the result.

Values come from --context (a JSON, YAML or TOML map), then --var, which
wins on conflicts. Variables without a value use their default; any other
placeholder is left as is. With --fill each variable is asked for on the
terminal, offering the known value as the default.`,
	Example: `  jfp render code-review --var CODE="$(cat main.go)"
  jfp render debug --context vars.yaml
  jfp render debug --fill`,
	Args: cobra.ExactArgs(1),
	RunE: runRender,
}

var copyCmd = &cobra.Command{
	Use:   "copy <id>",
	Short: "Render a prompt and copy it to the clipboard",
	Args:  cobra.ExactArgs(1),
	RunE:  runCopy,
}

func init() {
	renderOpts.register(renderCmd)
	copyOpts.register(copyCmd)
	rootCmd.AddCommand(renderCmd)
	rootCmd.AddCommand(copyCmd)
}

// filledVariable is one substituted value.
type filledVariable struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// renderOutput is the JSON shape of render.
type renderOutput struct {
	ID              string           `json:"id"`
	Title           string           `json:"title"`
	Rendered        string           `json:"rendered"`
	FilledVariables []filledVariable `json:"filled_variables"`
	Missing         []string         `json:"missing,omitempty"`
}

// copyOutput is the JSON shape of copy.
type copyOutput struct {
	ID     string `json:"id"`
	Copied bool   `json:"copied"`
	Chars  int    `json:"chars"`
}

func runRender(cmd *cobra.Command, args []string) error {
	svc, err := preparePrompts(cmd)
	if err != nil {
		return err
	}

	out, err := renderPrompt(cmd, svc, args[0], &renderOpts)
	if err != nil {
		return err
	}

	if jsonOutput(cmd) {
		return writeJSON(cmd, out)
	}

	if len(out.Missing) > 0 {
		fmt.Fprintln(cmd.ErrOrStderr(), ui(cmd).Warning.Render(
			"No value for required variables: "+strings.Join(out.Missing, ", ")))
	}
	cmd.Print(out.Rendered)
	if !strings.HasSuffix(out.Rendered, "\n") {
		cmd.Println()
	}
	return nil
}

func runCopy(cmd *cobra.Command, args []string) error {
	svc, err := preparePrompts(cmd)
	if err != nil {
		return err
	}
	if actionService == nil {
		return errors.New("action service not configured")
	}

	out, err := renderPrompt(cmd, svc, args[0], &copyOpts)
	if err != nil {
		return err
	}
	if err := actionService.CopyToClipboard(cmd.Context(), out.Rendered); err != nil {
		return fmt.Errorf("copying prompt: %w", err)
	}

	chars := len([]rune(out.Rendered))
	if jsonOutput(cmd) {
		return writeJSON(cmd, copyOutput{ID: out.ID, Copied: true, Chars: chars})
	}
	cmd.Println(ui(cmd).Success.Render(fmt.Sprintf("Copied %q to clipboard (%d chars).", out.Title, chars)))
	return nil
}

// renderPrompt gathers variable values from the flags and renders the prompt.
func renderPrompt(cmd *cobra.Command, svc driving.PromptService, id string, opts *renderFlags) (*renderOutput, error) {
	ctx := cmd.Context()

	prompt, err := svc.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	values := make(map[string]string)
	if opts.context != "" {
		fromFile, err := loadContextFile(opts.context)
		if err != nil {
			return nil, err
		}
		for k, v := range fromFile {
			values[k] = v
		}
	}
	fromFlags, err := parseVarFlags(opts.vars)
	if err != nil {
		return nil, err
	}
	for k, v := range fromFlags {
		values[k] = v
	}

	if opts.fill && !jsonOutput(cmd) && interactiveInput(cmd) {
		values, err = fillVariables(cmd.InOrStdin(), cmd.ErrOrStderr(), prompt, values)
		if err != nil {
			return nil, err
		}
	}

	rendered, err := svc.Render(ctx, id, values)
	if err != nil {
		return nil, err
	}

	return &renderOutput{
		ID:              prompt.ID,
		Title:           prompt.Title,
		Rendered:        rendered,
		FilledVariables: filledVariables(prompt, values),
		Missing:         prompt.MissingRequired(values),
	}, nil
}

// filledVariables lists each placeholder that received a value or a
// default, in order of appearance.
func filledVariables(prompt *domain.Prompt, values map[string]string) []filledVariable {
	filled := make([]filledVariable, 0)
	for _, name := range prompt.Placeholders() {
		if v, ok := values[name]; ok {
			filled = append(filled, filledVariable{Name: name, Value: v})
			continue
		}
		if v, ok := prompt.Variable(name); ok && v.Default != "" {
			filled = append(filled, filledVariable{Name: name, Value: v.Default})
		}
	}
	return filled
}

// parseVarFlags splits NAME=VALUE pairs at the first '='.
func parseVarFlags(pairs []string) (map[string]string, error) {
	values := make(map[string]string, len(pairs))
	for _, pair := range pairs {
		name, value, ok := strings.Cut(pair, "=")
		name = strings.TrimSpace(name)
		if !ok || name == "" {
			return nil, fmt.Errorf("%w: --var %q must be NAME=VALUE", domain.ErrInvalidInput, pair)
		}
		values[name] = value
	}
	return values, nil
}

// loadContextFile reads a map of variable values. The format follows the
// extension; other files are tried as JSON, then TOML, then YAML.
func loadContextFile(path string) (map[string]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading context file: %w", err)
	}

	var raw map[string]any
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		err = json.Unmarshal(data, &raw)
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &raw)
	case ".toml":
		err = toml.Unmarshal(data, &raw)
	default:
		if err = json.Unmarshal(data, &raw); err != nil {
			if err = toml.Unmarshal(data, &raw); err != nil {
				err = yaml.Unmarshal(data, &raw)
			}
		}
	}
	if err != nil {
		return nil, fmt.Errorf("%w: parsing context file %s: %v", domain.ErrInvalidInput, path, err)
	}

	values := make(map[string]string, len(raw))
	for k, v := range raw {
		switch x := v.(type) {
		case string:
			values[k] = x
		case nil:
			values[k] = ""
		default:
			values[k] = fmt.Sprint(x)
		}
	}
	return values, nil
}

// interactiveInput reports whether stdin can answer questions. A redirected
// stdin cannot; a reader injected by tests can.
func interactiveInput(cmd *cobra.Command) bool {
	in := cmd.InOrStdin()
	if _, ok := in.(*os.File); ok {
		return isTerminal(in)
	}
	return true
}

// fillVariables asks for each variable on w and reads answers from r.
// An empty answer keeps the known value or the default. Multiline
// variables read until a line holding only ".".
func fillVariables(r io.Reader, w io.Writer, prompt *domain.Prompt, values map[string]string) (map[string]string, error) {
	filled := make(map[string]string, len(values))
	for k, v := range values {
		filled[k] = v
	}

	names := make([]string, 0, len(prompt.Variables))
	for _, v := range prompt.Variables {
		names = append(names, v.Name)
	}
	for _, name := range prompt.Placeholders() {
		if _, ok := prompt.Variable(name); !ok {
			names = append(names, name)
		}
	}

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for _, name := range names {
		v, _ := prompt.Variable(name)
		hint, ok := filled[name]
		if !ok {
			hint = v.Default
		}

		label := name
		if v.Description != "" {
			label += " - " + v.Description
		}
		if hint != "" {
			label += " [" + hint + "]"
		}

		var answer string
		if v.Type == domain.VariableMultiline {
			fmt.Fprintf(w, "%s (end with a line containing only %q):\n", label, multilineTerminator)
			var lines []string
			for scanner.Scan() {
				line := scanner.Text()
				if line == multilineTerminator {
					break
				}
				lines = append(lines, line)
			}
			answer = strings.Join(lines, "\n")
		} else {
			fmt.Fprintf(w, "%s: ", label)
			if scanner.Scan() {
				answer = strings.TrimSpace(scanner.Text())
			}
		}
		if err := scanner.Err(); err != nil {
			return nil, fmt.Errorf("reading %s: %w", name, err)
		}

		switch {
		case answer != "":
			filled[name] = answer
		case hint != "":
			filled[name] = hint
		}
	}
	return filled, nil
}
