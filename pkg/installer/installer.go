// Package installer copies agent definitions from the corpus into the host
// runtime's configuration directory, where the AI coding assistant discovers
// them. Install state is tracked as receipts in the catalog so uninstall and
// drift detection work without guessing.
package installer

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/aymanbagabas/go-udiff"
	"github.com/google/uuid"
	"github.com/hashicorp/go-multierror"
	"github.com/pkg/errors"

	"github.com/agentdex/agentdex/pkg/agent"
	"github.com/agentdex/agentdex/pkg/catalog"
	"github.com/agentdex/agentdex/pkg/logger"
)

// DefaultTargetDir returns the host runtime's agent configuration directory.
func DefaultTargetDir() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", errors.Wrap(err, "failed to get user home directory")
	}
	return filepath.Join(homeDir, ".claude", "agents"), nil
}

// Installer installs agent definitions into a target directory
type Installer struct {
	targetDir string
	store     *catalog.Store // nil disables receipt tracking
}

// New creates an Installer for the given target directory. The store may be
// nil, in which case no receipts are recorded.
func New(targetDir string, store *catalog.Store) *Installer {
	return &Installer{targetDir: targetDir, store: store}
}

// TargetDir returns the configured install directory.
func (ins *Installer) TargetDir() string {
	return ins.targetDir
}

// Result summarizes an install run
type Result struct {
	Installed []string
	Updated   []string
	Skipped   []string
}

// Install copies the given agents into the target directory as <name>.md.
// Unchanged targets are skipped. Changed targets are only overwritten when
// force is set; otherwise they are reported as errors so local edits in the
// host directory are never silently lost. Per-agent failures aggregate; the
// rest of the batch still installs.
func (ins *Installer) Install(ctx context.Context, agents []*agent.Agent, force bool) (*Result, error) {
	if err := os.MkdirAll(ins.targetDir, 0o755); err != nil {
		return nil, errors.Wrap(err, "failed to create target directory")
	}

	result := &Result{}
	var merr *multierror.Error

	for _, a := range agents {
		if a.Name() == "" {
			merr = multierror.Append(merr, errors.Errorf("agent at %s has no name; run lint first", a.Path))
			continue
		}

		targetPath := filepath.Join(ins.targetDir, a.Name()+".md")
		source, err := os.ReadFile(a.Path)
		if err != nil {
			merr = multierror.Append(merr, errors.Wrapf(err, "failed to read '%s'", a.Path))
			continue
		}

		existing, err := os.ReadFile(targetPath)
		switch {
		case err == nil && bytes.Equal(existing, source):
			result.Skipped = append(result.Skipped, a.Name())
			continue
		case err == nil && !force:
			merr = multierror.Append(merr, errors.Errorf(
				"'%s' already exists at %s with different content; use --force to overwrite", a.Name(), targetPath))
			continue
		case err != nil && !os.IsNotExist(err):
			merr = multierror.Append(merr, errors.Wrapf(err, "failed to read existing '%s'", targetPath))
			continue
		}

		updated := err == nil

		if err := os.WriteFile(targetPath, source, 0o644); err != nil {
			merr = multierror.Append(merr, errors.Wrapf(err, "failed to write '%s'", targetPath))
			continue
		}

		logger.G(ctx).WithField("agent", a.Name()).WithField("target", targetPath).Debug("Installed agent")

		if ins.store != nil {
			receipt := catalog.InstallReceipt{
				ID:          uuid.NewString(),
				Name:        a.Name(),
				SourcePath:  a.Path,
				TargetPath:  targetPath,
				Checksum:    checksum(source),
				InstalledAt: time.Now(),
			}
			if err := ins.store.RecordInstall(ctx, receipt); err != nil {
				merr = multierror.Append(merr, err)
			}
		}

		if updated {
			result.Updated = append(result.Updated, a.Name())
		} else {
			result.Installed = append(result.Installed, a.Name())
		}
	}

	return result, merr.ErrorOrNil()
}

// Diff returns a unified diff between the installed copy of an agent and its
// corpus source. An empty string means the target matches or does not exist.
func (ins *Installer) Diff(a *agent.Agent) (string, error) {
	source, err := os.ReadFile(a.Path)
	if err != nil {
		return "", errors.Wrapf(err, "failed to read '%s'", a.Path)
	}

	targetPath := filepath.Join(ins.targetDir, a.Name()+".md")
	existing, err := os.ReadFile(targetPath)
	if os.IsNotExist(err) {
		return "", nil
	}
	if err != nil {
		return "", errors.Wrapf(err, "failed to read '%s'", targetPath)
	}

	if bytes.Equal(existing, source) {
		return "", nil
	}

	return udiff.Unified(targetPath, a.Path, string(existing), string(source)), nil
}

// Uninstall removes an installed agent file and its receipts.
func (ins *Installer) Uninstall(ctx context.Context, name string) error {
	targetPath := filepath.Join(ins.targetDir, name+".md")

	if _, err := os.Stat(targetPath); os.IsNotExist(err) {
		return errors.Errorf("agent '%s' is not installed in %s", name, ins.targetDir)
	}

	if err := os.Remove(targetPath); err != nil {
		return errors.Wrapf(err, "failed to remove '%s'", targetPath)
	}

	logger.G(ctx).WithField("agent", name).WithField("target", targetPath).Debug("Uninstalled agent")

	if ins.store != nil {
		if err := ins.store.RemoveInstall(ctx, name); err != nil {
			return err
		}
	}

	return nil
}

func checksum(content []byte) string {
	sum := sha256.Sum256(content)
	return hex.EncodeToString(sum[:])
}

// Describe returns a one-line summary of an install result.
func (r *Result) Describe() string {
	return fmt.Sprintf("%d installed, %d updated, %d unchanged",
		len(r.Installed), len(r.Updated), len(r.Skipped))
}
