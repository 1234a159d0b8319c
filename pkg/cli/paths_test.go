package cli_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/chalktalk/chalktalk/pkg/cli"
)

func writeFile(t *testing.T, path, content string) error {
	t.Helper()
	return os.WriteFile(path, []byte(content), 0o644)
}

func TestPathsLayout(t *testing.T) {
	p := &cli.Paths{HomeDir: "/home/u"}

	if got := p.BaseDir(); got != filepath.Join("/home/u", ".chalktalk") {
		t.Fatalf("BaseDir = %q", got)
	}
	if got := p.ConfigFile(); got != filepath.Join("/home/u", ".chalktalk", "config.yaml") {
		t.Fatalf("ConfigFile = %q", got)
	}
	if got := p.DataDir(); got != filepath.Join("/home/u", ".chalktalk", "data") {
		t.Fatalf("DataDir = %q", got)
	}
}

func TestEnsureDataDir(t *testing.T) {
	p := &cli.Paths{HomeDir: t.TempDir()}
	if err := p.EnsureDataDir(); err != nil {
		t.Fatalf("EnsureDataDir: %v", err)
	}
	info, err := os.Stat(p.DataDir())
	if err != nil || !info.IsDir() {
		t.Fatalf("DataDir not created: %v", err)
	}
}
