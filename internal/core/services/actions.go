package services

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"os/exec"
	"runtime"
	"strings"

	"github.com/jeffreysprompts/jfp/internal/core/domain"
	"github.com/jeffreysprompts/jfp/internal/core/ports/driving"
)

// Operating system identifiers.
const (
	osDarwin  = "darwin"
	osLinux   = "linux"
	osWindows = "windows"
)

// DefaultSiteURL is the base of the public prompt pages.
const DefaultSiteURL = "https://jeffreysprompts.com"

// Ensure PromptActionService implements the interface.
var _ driving.PromptActionService = (*PromptActionService)(nil)

// errNoClipboard is returned when no clipboard utility is installed.
var errNoClipboard = errors.New("no clipboard utility found (install xclip, xsel or wl-copy)")

// PromptActionService provides desktop actions on prompts.
type PromptActionService struct {
	siteURL  string
	goos     string
	lookPath func(file string) (string, error)
	run      func(cmd *exec.Cmd, wait bool) error
}

// NewPromptActionService creates a new prompt action service.
func NewPromptActionService() *PromptActionService {
	return &PromptActionService{
		siteURL:  DefaultSiteURL,
		goos:     runtime.GOOS,
		lookPath: exec.LookPath,
		run:      runCommand,
	}
}

// CopyToClipboard copies text to the system clipboard.
func (s *PromptActionService) CopyToClipboard(ctx context.Context, text string) error {
	name, args, err := s.clipboardCommand()
	if err != nil {
		return err
	}
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdin = strings.NewReader(text)
	if err := s.run(cmd, true); err != nil {
		return fmt.Errorf("copying to clipboard with %s: %w", name, err)
	}
	return nil
}

// OpenPrompt opens the prompt's page in the default browser.
func (s *PromptActionService) OpenPrompt(ctx context.Context, prompt *domain.Prompt) error {
	if prompt == nil {
		return fmt.Errorf("%w: prompt is nil", domain.ErrInvalidInput)
	}
	name, args, err := s.browserCommand(s.PromptURL(prompt))
	if err != nil {
		return err
	}
	if err := s.run(exec.CommandContext(ctx, name, args...), false); err != nil {
		return fmt.Errorf("opening browser with %s: %w", name, err)
	}
	return nil
}

// PromptURL returns the web address for a prompt.
func (s *PromptActionService) PromptURL(prompt *domain.Prompt) string {
	return strings.TrimRight(s.siteURL, "/") + "/prompts/" + url.PathEscape(prompt.ID)
}

// ClipboardTool reports the clipboard utility that would be used.
func (s *PromptActionService) ClipboardTool() (string, error) {
	name, _, err := s.clipboardCommand()
	return name, err
}

// BrowserOpener reports the command that would open URLs.
func (s *PromptActionService) BrowserOpener() (string, error) {
	name, _, err := s.browserCommand("")
	if err != nil {
		return "", err
	}
	if s.goos == osLinux {
		if _, err := s.lookPath(name); err != nil {
			return "", fmt.Errorf("%s not found: %w", name, err)
		}
	}
	return name, nil
}

// clipboardCommand picks an OS-specific clipboard writer.
func (s *PromptActionService) clipboardCommand() (string, []string, error) {
	switch s.goos {
	case osDarwin:
		return "pbcopy", nil, nil
	case osLinux:
		// Try wl-copy under Wayland, then xclip, then xsel
		if _, err := s.lookPath("wl-copy"); err == nil {
			return "wl-copy", nil, nil
		}
		if _, err := s.lookPath("xclip"); err == nil {
			return "xclip", []string{"-selection", "clipboard"}, nil
		}
		if _, err := s.lookPath("xsel"); err == nil {
			return "xsel", []string{"--clipboard", "--input"}, nil
		}
		return "", nil, errNoClipboard
	case osWindows:
		return "cmd", []string{"/c", "clip"}, nil
	default:
		return "", nil, fmt.Errorf("unsupported platform: %s", s.goos)
	}
}

// browserCommand picks the system default URL handler.
func (s *PromptActionService) browserCommand(target string) (string, []string, error) {
	switch s.goos {
	case osDarwin:
		return "open", []string{target}, nil
	case osLinux:
		return "xdg-open", []string{target}, nil
	case osWindows:
		return "rundll32", []string{"url.dll,FileProtocolHandler", target}, nil
	default:
		return "", nil, fmt.Errorf("unsupported platform: %s", s.goos)
	}
}

// runCommand runs cmd to completion, or only starts it when wait is false.
func runCommand(cmd *exec.Cmd, wait bool) error {
	if wait {
		return cmd.Run()
	}
	return cmd.Start()
}
