package services

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/jeffreysprompts/jfp/internal/core/domain"
	"github.com/jeffreysprompts/jfp/internal/core/ports/driven"
	"github.com/jeffreysprompts/jfp/internal/core/ports/driving"
)

// Ensure DiagnosticsService implements the interface.
var _ driving.DiagnosticsService = (*DiagnosticsService)(nil)

// DesktopTools reports the helpers used for clipboard and browser actions.
type DesktopTools interface {
	ClipboardTool() (string, error)
	BrowserOpener() (string, error)
}

// DiagnosticsService checks the local installation.
type DiagnosticsService struct {
	store    driven.PromptStore
	bundled  driven.BundledSource
	registry driving.RegistryService
	tools    DesktopTools
	dirs     []string
}

// NewDiagnosticsService creates a diagnostics service. dirs are the data
// directories that must exist and be writable.
func NewDiagnosticsService(store driven.PromptStore, bundled driven.BundledSource, dirs ...string) *DiagnosticsService {
	return &DiagnosticsService{store: store, bundled: bundled, dirs: dirs}
}

// SetRegistry enables the registry cache check.
func (s *DiagnosticsService) SetRegistry(registry driving.RegistryService) {
	s.registry = registry
}

// SetTools enables the clipboard and browser checks.
func (s *DiagnosticsService) SetTools(tools DesktopTools) {
	s.tools = tools
}

// Run performs every check in a fixed order.
func (s *DiagnosticsService) Run(ctx context.Context, fix bool) []domain.Check {
	checks := []domain.Check{
		s.checkDatabase(ctx, fix),
		s.checkBundled(),
		s.checkDirectories(fix),
	}
	if s.registry != nil {
		checks = append(checks, s.checkRegistryCache())
	}
	if s.tools != nil {
		checks = append(checks, s.checkClipboard(), s.checkBrowser())
	}
	return checks
}

func (s *DiagnosticsService) checkDatabase(ctx context.Context, fix bool) domain.Check {
	check := domain.Check{Name: "Database"}
	if s.store == nil {
		check.Status = domain.CheckFail
		check.Message = "store not open"
		return check
	}

	if fix {
		if m, ok := s.store.(driven.PromptStoreMaintainer); ok {
			if err := m.Checkpoint(ctx); err != nil {
				check.Status = domain.CheckFail
				check.Message = err.Error()
				return check
			}
		}
	}

	ok, err := s.store.IntegrityCheck(ctx)
	if err != nil || !ok {
		check.Status = domain.CheckFail
		check.Message = "integrity check failed"
		if err != nil {
			check.Message = err.Error()
		}
		check.Fix = fmt.Sprintf("restore from a backup or delete %s and run jfp refresh", s.store.Path())
		return check
	}

	n, err := s.store.Count(ctx)
	if err != nil {
		check.Status = domain.CheckFail
		check.Message = err.Error()
		return check
	}
	if n == 0 {
		check.Status = domain.CheckWarn
		check.Message = "no prompts stored"
		check.Fix = "run jfp refresh"
		return check
	}
	check.Status = domain.CheckPass
	check.Message = fmt.Sprintf("%d prompts", n)
	return check
}

func (s *DiagnosticsService) checkBundled() domain.Check {
	check := domain.Check{Name: "Bundled Prompts"}
	if s.bundled == nil || len(s.bundled.Prompts()) == 0 {
		check.Status = domain.CheckFail
		check.Message = "no bundled prompts available"
		check.Fix = "reinstall jfp"
		return check
	}
	check.Status = domain.CheckPass
	check.Message = fmt.Sprintf("%d prompts", len(s.bundled.Prompts()))
	return check
}

func (s *DiagnosticsService) checkDirectories(fix bool) domain.Check {
	check := domain.Check{Name: "Data Directory", Status: domain.CheckPass, Message: "writable"}
	for _, dir := range s.dirs {
		if fix {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return failDir(check, dir, err)
			}
		}
		if err := probeWritable(dir); err != nil {
			return failDir(check, dir, err)
		}
	}
	return check
}

func failDir(check domain.Check, dir string, err error) domain.Check {
	check.Status = domain.CheckFail
	check.Message = fmt.Sprintf("%s: %v", dir, err)
	check.Fix = "run jfp doctor --fix or check permissions on " + dir
	return check
}

func probeWritable(dir string) error {
	f, err := os.CreateTemp(dir, ".jfp-doctor-*")
	if err != nil {
		return err
	}
	name := f.Name()
	f.Close()
	return os.Remove(filepath.Clean(name))
}

func (s *DiagnosticsService) checkRegistryCache() domain.Check {
	check := domain.Check{Name: "Registry Cache"}
	switch status := s.registry.CacheStatus(); status {
	case domain.CacheFresh:
		check.Status = domain.CheckPass
		check.Message = status.String()
	case domain.CacheStale, domain.CacheMissing:
		check.Status = domain.CheckWarn
		check.Message = status.String()
		check.Fix = "run jfp refresh"
	}
	return check
}

func (s *DiagnosticsService) checkClipboard() domain.Check {
	check := domain.Check{Name: "Clipboard"}
	name, err := s.tools.ClipboardTool()
	if err != nil {
		check.Status = domain.CheckWarn
		check.Message = err.Error()
		return check
	}
	check.Status = domain.CheckPass
	check.Message = name
	return check
}

func (s *DiagnosticsService) checkBrowser() domain.Check {
	check := domain.Check{Name: "Browser Opener"}
	name, err := s.tools.BrowserOpener()
	if err != nil {
		check.Status = domain.CheckWarn
		check.Message = err.Error()
		return check
	}
	check.Status = domain.CheckPass
	check.Message = name
	return check
}
