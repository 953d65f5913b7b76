package core

import (
	"bytes"
	"embed"
	"fmt"
	"os"
	"path/filepath"
	"text/template"

	"github.com/valter-silva-au/datawork/pkg/models"
)

//go:embed templates
var templateFS embed.FS

// InitConfig holds the parameters for initializing a datawork workspace.
type InitConfig struct {
	BasePath string
	Backend  models.StoreBackend
	Codec    string
	IDScheme models.IDScheme
	Prefix   string
	Key      string
}

// InitResult holds a summary of what was created vs. skipped.
type InitResult struct {
	Created []string
	Skipped []string
}

// WorkspaceInitializer prepares a directory for use as a datawork base path.
type WorkspaceInitializer interface {
	Init(config InitConfig) (*InitResult, error)
}

type workspaceInitializer struct{}

// NewWorkspaceInitializer creates a new WorkspaceInitializer.
func NewWorkspaceInitializer() WorkspaceInitializer {
	return &workspaceInitializer{}
}

// Init writes .dwconfig and .gitignore into config.BasePath and, for the file
// backend, creates the data directory. Files that already exist are skipped
// and never overwritten.
func (wi *workspaceInitializer) Init(config InitConfig) (*InitResult, error) {
	if config.Backend == "" {
		config.Backend = models.BackendFile
	}
	if config.Codec == "" {
		config.Codec = "yaml"
	}
	if config.IDScheme == "" {
		config.IDScheme = models.IDSchemeUUID
	}
	if config.Prefix == "" {
		config.Prefix = "TASK"
	}
	if config.Key == "" {
		config.Key = DefaultStoreKey
	}

	defaults := DefaultConfig(config.BasePath)
	probe := *defaults
	probe.Store.Backend = config.Backend
	probe.Store.Codec = config.Codec
	probe.ID.Scheme = config.IDScheme
	probe.ID.Prefix = config.Prefix
	probe.Store.Key = config.Key
	if err := NewConfigurationManager(config.BasePath).ValidateConfig(&probe); err != nil {
		return nil, fmt.Errorf("initializing workspace: %w", err)
	}

	result := &InitResult{}

	dirs := []string{config.BasePath}
	if config.Backend == models.BackendFile {
		dirs = append(dirs, defaults.Store.File.Dir)
	}
	for _, dir := range dirs {
		created, err := ensureDir(dir)
		if err != nil {
			return nil, fmt.Errorf("initializing workspace: creating directory %s: %w", dir, err)
		}
		if created {
			result.Created = append(result.Created, dir)
		} else {
			result.Skipped = append(result.Skipped, dir)
		}
	}

	configPath := filepath.Join(config.BasePath, ConfigFileName)
	if err := writeFileIfNotExists(configPath, func() ([]byte, error) {
		return renderTemplate("dwconfig.yaml", config)
	}, result); err != nil {
		return nil, err
	}

	gitignorePath := filepath.Join(config.BasePath, ".gitignore")
	if err := writeFileIfNotExists(gitignorePath, func() ([]byte, error) {
		return templateFS.ReadFile("templates/gitignore")
	}, result); err != nil {
		return nil, err
	}

	return result, nil
}

// ensureDir creates a directory if it does not exist. Returns true if created.
func ensureDir(path string) (bool, error) {
	if _, err := os.Stat(path); err == nil {
		return false, nil
	}
	if err := os.MkdirAll(path, 0o750); err != nil {
		return false, err
	}
	return true, nil
}

// writeFileIfNotExists writes content from contentFn if the file does not exist.
// It records created/skipped in the result.
func writeFileIfNotExists(path string, contentFn func() ([]byte, error), result *InitResult) error {
	if _, err := os.Stat(path); err == nil {
		result.Skipped = append(result.Skipped, path)
		return nil
	}
	content, err := contentFn()
	if err != nil {
		return fmt.Errorf("initializing workspace: generating content for %s: %w", path, err)
	}
	if err := os.WriteFile(path, content, 0o600); err != nil {
		return fmt.Errorf("initializing workspace: writing %s: %w", path, err)
	}
	result.Created = append(result.Created, path)
	return nil
}

// renderTemplate renders an embedded template with text/template.
func renderTemplate(name string, data any) ([]byte, error) {
	content, err := templateFS.ReadFile("templates/" + name)
	if err != nil {
		return nil, fmt.Errorf("loading template %s: %w", name, err)
	}
	tmpl, err := template.New(name).Parse(string(content))
	if err != nil {
		return nil, fmt.Errorf("parsing template %s: %w", name, err)
	}
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("rendering template %s: %w", name, err)
	}
	return buf.Bytes(), nil
}
