package cli

import (
	"os"
	"path/filepath"
)

const (
	baseDirName    = ".chalktalk"
	configFileName = "config.yaml"
)

// Paths locates the chalktalk directory tree under the user's home.
type Paths struct {
	HomeDir string
}

func NewPaths() (*Paths, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, err
	}
	return &Paths{HomeDir: home}, nil
}

// BaseDir returns ~/.chalktalk.
func (p *Paths) BaseDir() string {
	return filepath.Join(p.HomeDir, baseDirName)
}

// ConfigFile returns ~/.chalktalk/config.yaml.
func (p *Paths) ConfigFile() string {
	return filepath.Join(p.BaseDir(), configFileName)
}

// DataDir returns ~/.chalktalk/data, where the serve command keeps its
// question/answer database.
func (p *Paths) DataDir() string {
	return filepath.Join(p.BaseDir(), "data")
}

// EnsureDataDir creates the data directory if needed.
func (p *Paths) EnsureDataDir() error {
	return os.MkdirAll(p.DataDir(), 0o755)
}

func ensureParentDir(path string) error {
	return os.MkdirAll(filepath.Dir(path), 0o755)
}
