package settings

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
)

// ProjectFileName is the file that marks a project root.
const ProjectFileName = "scrapectl.toml"

// ProjectEnv is the subset of the environment used for project detection.
type ProjectEnv struct {
	// Project forces project mode even without a project file.
	Project string
	// SettingsFile overrides the project file lookup.
	SettingsFile string
}

// Project describes a detected project context.
type Project struct {
	Name string
	Root string
	File string
}

type projectFile struct {
	Project struct {
		Name string `toml:"name"`
	} `toml:"project"`
	Settings map[string]any `toml:"settings"`
}

// FindProjectFile walks up from dir looking for ProjectFileName.
func FindProjectFile(dir string) (string, bool) {
	dir = filepath.Clean(dir)
	for {
		candidate := filepath.Join(dir, ProjectFileName)
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			return candidate, true
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", false
		}
		dir = parent
	}
}

// DetectProject reports whether the invocation runs inside a project.
func DetectProject(env ProjectEnv, wd string) (Project, bool) {
	if file := strings.TrimSpace(env.SettingsFile); file != "" {
		return Project{Name: strings.TrimSpace(env.Project), Root: filepath.Dir(file), File: file}, true
	}
	if file, ok := FindProjectFile(wd); ok {
		return Project{Name: strings.TrimSpace(env.Project), Root: filepath.Dir(file), File: file}, true
	}
	if name := strings.TrimSpace(env.Project); name != "" {
		return Project{Name: name, Root: wd}, true
	}
	return Project{}, false
}

// LoadProject returns defaults overlaid with the project file settings at
// project priority, plus whether a project was detected.
func LoadProject(env ProjectEnv, wd string) (*Settings, bool, error) {
	s := New()
	project, inProject := DetectProject(env, wd)
	if !inProject {
		return s, false, nil
	}
	if project.File != "" {
		if err := applyProjectFile(s, project.File); err != nil {
			return nil, true, err
		}
	}
	// The project file wins over SCRAPECTL_PROJECT for the bot name.
	if p, _ := s.GetPriority("BOT_NAME"); project.Name != "" && p < PriorityProject {
		if err := s.Set("BOT_NAME", project.Name, PriorityProject); err != nil {
			return nil, true, err
		}
	}
	return s, true, nil
}

func applyProjectFile(s *Settings, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("project file %s: %w", path, err)
		}
		return fmt.Errorf("read project file: %w", err)
	}
	var file projectFile
	if _, err := toml.Decode(string(data), &file); err != nil {
		return fmt.Errorf("decode project file %s: %w", path, err)
	}
	if name := strings.TrimSpace(file.Project.Name); name != "" {
		if err := s.Set("BOT_NAME", name, PriorityProject); err != nil {
			return err
		}
	}
	return s.SetDict(file.Settings, PriorityProject)
}
