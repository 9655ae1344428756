// Package gitfetch obtains local working copies of the target repositories.
package gitfetch

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	git "github.com/go-git/go-git/v5"
	"k8s.io/klog/v2"
)

// seam for tests
var cloneRepo = func(ctx context.Context, path string, opts *git.CloneOptions) error {
	_, err := git.PlainCloneContext(ctx, path, false, opts)
	return err
}

// Name derives the repository name from its source URL: the last path
// segment with any .git suffix removed.
func Name(rawURL string) string {
	s := strings.TrimSuffix(strings.TrimSpace(rawURL), "/")
	if i := strings.LastIndexAny(s, "/:"); i >= 0 {
		s = s[i+1:]
	}
	return strings.TrimSuffix(s, ".git")
}

// Cloner fetches repositories into a shared working directory.
type Cloner struct {
	WorkDir string
	// Depth limits clone history; zero means a full clone.
	Depth int
}

// Fetch returns a local path holding the repository contents. An existing
// clone is reused rather than re-fetched. A failed clone leaves nothing
// behind and aborts only this repository.
func (c *Cloner) Fetch(ctx context.Context, url string) (string, error) {
	name := Name(url)
	if name == "" {
		return "", fmt.Errorf("cannot derive repository name from %q", url)
	}
	dest := filepath.Join(c.WorkDir, name)
	if _, err := os.Stat(dest); err == nil {
		klog.Infof("repository %s already cloned, reusing %s", name, dest)
		return dest, nil
	}
	if err := os.MkdirAll(c.WorkDir, 0o755); err != nil {
		return "", fmt.Errorf("create work dir: %w", err)
	}

	klog.Infof("cloning %s into %s", url, dest)
	opts := &git.CloneOptions{URL: url, Depth: c.Depth}
	if err := cloneRepo(ctx, dest, opts); err != nil {
		// a half-finished clone would be mistaken for a usable copy next run
		_ = os.RemoveAll(dest)
		return "", fmt.Errorf("clone %s: %w", url, err)
	}
	return dest, nil
}
