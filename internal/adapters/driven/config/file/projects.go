package file

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"

	"github.com/custodia-labs/drafter-cli/internal/core/domain"
	"github.com/custodia-labs/drafter-cli/internal/core/ports/driven"
)

// Ensure ProjectStore implements the interface.
var _ driven.ProjectContextService = (*ProjectStore)(nil)

// ProjectStore reads per-organisation planning context from TOML files
// in the projects directory. Files are named <org-id>.toml and edited by
// hand; there is no write path.
type ProjectStore struct {
	dir string
}

// projectFile is the on-disk shape of a project context file.
type projectFile struct {
	Name         string   `toml:"name"`
	Objectives   string   `toml:"objectives"`
	Stakeholders []string `toml:"stakeholders"`
	Risks        []string `toml:"risks"`
	Disciplines  []string `toml:"disciplines"`
}

// NewProjectStore creates a project context store rooted at configDir.
// If configDir is empty, defaults to ~/.drafter/projects.
func NewProjectStore(configDir string) (*ProjectStore, error) {
	if configDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}
		configDir = filepath.Join(home, ".drafter")
	}

	dir := filepath.Join(configDir, "projects")
	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, err
	}

	return &ProjectStore{dir: dir}, nil
}

// Get returns the planning context for an organisation, or
// domain.ErrNotFound when no file exists for it.
func (s *ProjectStore) Get(_ context.Context, orgID string) (*domain.ProjectContext, error) {
	// Org IDs come from user input; keep the lookup inside the directory.
	name := filepath.Base(strings.TrimSpace(orgID))
	if name == "" || name == "." || name == string(filepath.Separator) {
		return nil, domain.ErrInvalidInput
	}

	data, err := os.ReadFile(filepath.Join(s.dir, name+".toml"))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}

	var pf projectFile
	if err := toml.Unmarshal(data, &pf); err != nil {
		return nil, err
	}

	return &domain.ProjectContext{
		Name:         pf.Name,
		Objectives:   pf.Objectives,
		Stakeholders: pf.Stakeholders,
		Risks:        pf.Risks,
		Disciplines:  pf.Disciplines,
	}, nil
}
