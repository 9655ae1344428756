// Package manifest locates a Python dependency manifest in a checkout and,
// when the project declares its dependencies in pyproject.toml or a Pipfile,
// converts them into a requirements file the vulnerability scanner accepts.
package manifest

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"
	"k8s.io/klog/v2"
)

// GeneratedName is the requirements file written next to a pyproject.toml or
// Pipfile source.
const GeneratedName = "temp_requirements.txt"

var (
	// ErrNotFound means the checkout carries no dependency manifest at all.
	ErrNotFound = errors.New("no dependency manifest found")
	// ErrEmpty means a manifest exists but declares no dependencies.
	ErrEmpty = errors.New("manifest declares no dependencies")
)

// MalformedError marks a manifest that exists but cannot be used, for
// example placeholder text where a requirements file was expected.
type MalformedError struct {
	Path   string
	Reason string
}

func (e *MalformedError) Error() string {
	return fmt.Sprintf("malformed manifest %s: %s", e.Path, e.Reason)
}

// Source identifies which file the dependencies came from.
type Source string

const (
	SourcePyproject    Source = "pyproject.toml"
	SourcePipfile      Source = "Pipfile"
	SourceRequirements Source = "requirements.txt"
)

// Manifest is a usable requirements file inside a checkout.
type Manifest struct {
	Path      string
	Source    Source
	Generated bool
}

// Discover searches repoPath for a dependency manifest, preferring
// pyproject.toml over Pipfile over requirements.txt. Generated files are
// written into the checkout so the scanner can consume them in place.
//
// Absence of any manifest is ErrNotFound; a manifest with no dependencies is
// ErrEmpty. Both are skip conditions for the caller, not scan failures.
func Discover(repoPath string) (Manifest, error) {
	sawManifest := false

	if pyproject := filepath.Join(repoPath, string(SourcePyproject)); fileExists(pyproject) {
		sawManifest = true
		klog.V(1).Infof("found pyproject.toml in %s, generating requirements", repoPath)
		deps, err := poetryDependencies(pyproject)
		if err != nil {
			return Manifest{}, err
		}
		if len(deps) > 0 {
			path, err := writeRequirements(repoPath, deps)
			if err != nil {
				return Manifest{}, err
			}
			return Manifest{Path: path, Source: SourcePyproject, Generated: true}, nil
		}
	}

	if pipfile := filepath.Join(repoPath, string(SourcePipfile)); fileExists(pipfile) {
		sawManifest = true
		klog.V(1).Infof("found Pipfile in %s, generating requirements", repoPath)
		deps, err := pipfilePackages(pipfile)
		if err != nil {
			return Manifest{}, err
		}
		if len(deps) > 0 {
			path, err := writeRequirements(repoPath, deps)
			if err != nil {
				return Manifest{}, err
			}
			return Manifest{Path: path, Source: SourcePipfile, Generated: true}, nil
		}
	}

	if requirements := filepath.Join(repoPath, string(SourceRequirements)); fileExists(requirements) {
		if err := validateRequirements(requirements); err != nil {
			return Manifest{}, err
		}
		return Manifest{Path: requirements, Source: SourceRequirements}, nil
	}

	if sawManifest {
		return Manifest{}, ErrEmpty
	}
	return Manifest{}, ErrNotFound
}

type requirement struct {
	Name       string
	Constraint string
}

// poetryDependencies reads [tool.poetry.dependencies] from a pyproject.toml.
// The python entry is an interpreter constraint, not a package, and is
// dropped. Non-string constraints (version tables, git sources) are emitted
// without a version so the scanner checks every release.
func poetryDependencies(path string) ([]requirement, error) {
	var doc struct {
		Tool struct {
			Poetry struct {
				Dependencies map[string]any `toml:"dependencies"`
			} `toml:"poetry"`
		} `toml:"tool"`
	}
	if _, err := toml.DecodeFile(path, &doc); err != nil {
		return nil, &MalformedError{Path: path, Reason: err.Error()}
	}
	return tomlDependencies(doc.Tool.Poetry.Dependencies, true), nil
}

// pipfilePackages reads the [packages] table of a Pipfile.
func pipfilePackages(path string) ([]requirement, error) {
	var doc struct {
		Packages map[string]any `toml:"packages"`
	}
	if _, err := toml.DecodeFile(path, &doc); err != nil {
		return nil, &MalformedError{Path: path, Reason: err.Error()}
	}
	return tomlDependencies(doc.Packages, false), nil
}

func tomlDependencies(table map[string]any, skipPython bool) []requirement {
	var reqs []requirement
	for name, version := range table {
		if skipPython && name == "python" {
			continue
		}
		req := requirement{Name: name}
		if s, ok := version.(string); ok && s != "*" {
			req.Constraint = s
		}
		reqs = append(reqs, req)
	}
	// map iteration order is random; keep generated files stable
	sort.Slice(reqs, func(i, j int) bool { return reqs[i].Name < reqs[j].Name })
	return reqs
}

func writeRequirements(repoPath string, reqs []requirement) (string, error) {
	var sb strings.Builder
	for _, r := range reqs {
		sb.WriteString(r.Name)
		sb.WriteString(r.Constraint)
		sb.WriteByte('\n')
	}
	path := filepath.Join(repoPath, GeneratedName)
	if err := os.WriteFile(path, []byte(sb.String()), 0o644); err != nil {
		return "", fmt.Errorf("write generated requirements: %w", err)
	}
	return path, nil
}

// requirementLine accepts pip requirement syntax: a package name with
// optional extras and version specifiers, or a pip option line.
var requirementLine = regexp.MustCompile(`^(?:-[re]\s+\S+|--\S+.*|[A-Za-z0-9][A-Za-z0-9._-]*(?:\[[^\]]*\])?\s*(?:[<>=!~;@].*)?)$`)

// validateRequirements distinguishes an empty requirements file (a skip)
// from placeholder or garbage content (a malformed manifest).
func validateRequirements(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open manifest: %w", err)
	}
	defer f.Close()

	declared := 0
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if !requirementLine.MatchString(line) {
			return &MalformedError{Path: path, Reason: fmt.Sprintf("not a requirement: %q", line)}
		}
		declared++
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("read manifest: %w", err)
	}
	if declared == 0 {
		return ErrEmpty
	}
	return nil
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
