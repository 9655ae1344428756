package execx

import (
	"fmt"
	"os"
	"os/exec"
	"strings"
)

// Find locates a tool binary. An explicitly configured path wins over $PATH.
// The hint is appended to the not-found error so the user knows how to
// install the tool.
func Find(explicit, name, hint string) (string, error) {
	if explicit != "" {
		if _, err := os.Stat(explicit); err != nil {
			return "", fmt.Errorf("configured %s path %s: %w", name, explicit, err)
		}
		return explicit, nil
	}
	path, err := exec.LookPath(name)
	if err != nil {
		return "", fmt.Errorf("%s not found in PATH. %s", name, hint)
	}
	return path, nil
}

// Version runs `<binary> --version` and returns the trimmed first line.
func Version(binary string) (string, error) {
	cmd := exec.Command(binary, "--version") // #nosec G204
	out, err := cmd.Output()
	if err != nil {
		return "", fmt.Errorf("failed to get %s version: %w", binary, err)
	}
	version := strings.TrimSpace(string(out))
	if lines := strings.Split(version, "\n"); len(lines) > 0 {
		version = strings.TrimSpace(lines[0])
	}
	return version, nil
}
