// cmd/hyeong/commands/install.go
package commands

import (
	"fmt"
	"os"
	"path/filepath"

	hyeongerrors "github.com/hyeong-lang/hyeong/internal/errors"
	"github.com/hyeong-lang/hyeong/internal/install"
)

// scratchDir returns the default scratch build area under the user's
// cache directory.
func scratchDir() (string, error) {
	cacheDir, err := os.UserCacheDir()
	if err != nil {
		return "", hyeongerrors.Wrap(hyeongerrors.IOError, err)
	}
	return filepath.Join(cacheDir, "hyeong", "scratch"), nil
}

// InstallCommand fetches and smoke-builds the pinned runtime support
// module into the scratch build area.
func InstallCommand(args []string) error {
	dir, err := scratchDir()
	if err != nil {
		return err
	}
	if len(args) >= 1 {
		dir = args[0]
	}
	if err := install.Install(dir); err != nil {
		return err
	}
	fmt.Printf("installed %s@%s into %s\n", install.SupportModule, install.PinnedVersion, dir)
	return nil
}

// UninstallCommand removes the scratch build area.
func UninstallCommand(args []string) error {
	dir, err := scratchDir()
	if err != nil {
		return err
	}
	if len(args) >= 1 {
		dir = args[0]
	}
	if err := install.Uninstall(dir); err != nil {
		return err
	}
	fmt.Printf("removed %s\n", dir)
	return nil
}
