package manifest

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func writeTemp(t *testing.T, dir, name, body string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	if err := os.WriteFile(p, []byte(body), 0o644); err != nil {
		t.Fatalf("write temp file: %v", err)
	}
	return p
}

func TestDiscover_NoManifest(t *testing.T) {
	dir := t.TempDir()
	_, err := Discover(dir)
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestDiscover_Requirements(t *testing.T) {
	dir := t.TempDir()
	writeTemp(t, dir, "requirements.txt", "requests==2.31.0\nflask>=2.0\nattrs\n")
	m, err := Discover(dir)
	if err != nil {
		t.Fatalf("Discover: %v", err)
	}
	if m.Source != SourceRequirements {
		t.Errorf("expected requirements.txt source, got %s", m.Source)
	}
	if m.Generated {
		t.Error("an existing requirements.txt must not be marked generated")
	}
}

func TestDiscover_RequirementsOnlyComments(t *testing.T) {
	dir := t.TempDir()
	writeTemp(t, dir, "requirements.txt", "# nothing here\n\n# still nothing\n")
	_, err := Discover(dir)
	if !errors.Is(err, ErrEmpty) {
		t.Fatalf("expected ErrEmpty for a comment-only file, got %v", err)
	}
}

func TestDiscover_PlaceholderIsMalformed(t *testing.T) {
	dir := t.TempDir()
	writeTemp(t, dir, "requirements.txt", "Placeholder: No dependencies detected\n")
	_, err := Discover(dir)
	var merr *MalformedError
	if !errors.As(err, &merr) {
		t.Fatalf("expected MalformedError, got %v", err)
	}
}

func TestDiscover_PyprojectGeneratesRequirements(t *testing.T) {
	dir := t.TempDir()
	writeTemp(t, dir, "pyproject.toml", `
[tool.poetry]
name = "sample"

[tool.poetry.dependencies]
python = "^3.11"
requests = "^2.31"
attrs = "*"

[tool.poetry.dependencies.uvicorn]
version = "^0.23"
extras = ["standard"]
`)
	m, err := Discover(dir)
	if err != nil {
		t.Fatalf("Discover: %v", err)
	}
	if m.Source != SourcePyproject || !m.Generated {
		t.Fatalf("expected generated pyproject manifest, got %+v", m)
	}
	body, err := os.ReadFile(m.Path)
	if err != nil {
		t.Fatalf("read generated file: %v", err)
	}
	want := "attrs\nrequests^2.31\nuvicorn\n"
	if string(body) != want {
		t.Errorf("generated requirements mismatch:\n got %q\nwant %q", body, want)
	}
}

func TestDiscover_PyprojectPreferredOverRequirements(t *testing.T) {
	dir := t.TempDir()
	writeTemp(t, dir, "requirements.txt", "requests==2.31.0\n")
	writeTemp(t, dir, "pyproject.toml", "[tool.poetry.dependencies]\nflask = \">=2.0\"\n")
	m, err := Discover(dir)
	if err != nil {
		t.Fatalf("Discover: %v", err)
	}
	if m.Source != SourcePyproject {
		t.Errorf("expected pyproject.toml to win, got %s", m.Source)
	}
}

func TestDiscover_PyprojectWithoutPoetryFallsThrough(t *testing.T) {
	dir := t.TempDir()
	writeTemp(t, dir, "pyproject.toml", "[build-system]\nrequires = [\"setuptools\"]\n")
	writeTemp(t, dir, "requirements.txt", "requests==2.31.0\n")
	m, err := Discover(dir)
	if err != nil {
		t.Fatalf("Discover: %v", err)
	}
	if m.Source != SourceRequirements {
		t.Errorf("expected fallback to requirements.txt, got %s", m.Source)
	}
}

func TestDiscover_PyprojectBadTOML(t *testing.T) {
	dir := t.TempDir()
	writeTemp(t, dir, "pyproject.toml", "[tool.poetry\nbroken")
	_, err := Discover(dir)
	var merr *MalformedError
	if !errors.As(err, &merr) {
		t.Fatalf("expected MalformedError for bad TOML, got %v", err)
	}
}

func TestDiscover_Pipfile(t *testing.T) {
	dir := t.TempDir()
	writeTemp(t, dir, "Pipfile", `
[packages]
requests = "==2.31.0"
flask = "*"
`)
	m, err := Discover(dir)
	if err != nil {
		t.Fatalf("Discover: %v", err)
	}
	if m.Source != SourcePipfile || !m.Generated {
		t.Fatalf("expected generated Pipfile manifest, got %+v", m)
	}
	body, _ := os.ReadFile(m.Path)
	want := "flask\nrequests==2.31.0\n"
	if string(body) != want {
		t.Errorf("generated requirements mismatch:\n got %q\nwant %q", body, want)
	}
}

func TestDiscover_EmptyPoetryTableFallsThrough(t *testing.T) {
	dir := t.TempDir()
	writeTemp(t, dir, "pyproject.toml", "[tool.poetry.dependencies]\npython = \"^3.11\"\n")
	_, err := Discover(dir)
	if !errors.Is(err, ErrEmpty) {
		t.Fatalf("expected ErrEmpty when only python is declared, got %v", err)
	}
}

func TestValidateRequirements_PipOptions(t *testing.T) {
	dir := t.TempDir()
	p := writeTemp(t, dir, "requirements.txt", "-r base.txt\n--extra-index-url https://example.com/simple\nrequests==2.31.0\n")
	if err := validateRequirements(p); err != nil {
		t.Fatalf("pip option lines must be accepted: %v", err)
	}
}
