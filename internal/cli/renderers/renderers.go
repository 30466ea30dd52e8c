// Package renderers runs external chart renderers for chatlens.
// Renderers are separate binaries named chatlens-render-<name> that read
// their input on stdin, so image libraries stay out of this module.
package renderers

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

// KnownRenderers lists renderers with official implementations available.
// These get special error messages directing users where to obtain them.
var KnownRenderers = map[string]string{
	"wordcloud": "Word-cloud PNG renderer. Reads a space-separated corpus on stdin and writes the image given by -o.",
}

// ErrRendererNotFound is returned when no renderer binary can be located.
var ErrRendererNotFound = errors.New("renderer not found")

// Prefix is prepended to a renderer name to form its binary name.
const Prefix = "chatlens-render-"

// dirs returns the directories searched before PATH, in order.
var dirs = func() []string {
	var out []string
	if execPath, err := os.Executable(); err == nil {
		out = append(out, filepath.Dir(execPath))
	}
	if homeDir, err := os.UserHomeDir(); err == nil {
		out = append(out, filepath.Join(homeDir, ".chatlens", "renderers"))
	}
	return out
}

// Find searches for a renderer binary named chatlens-render-<name>.
// It searches in the following locations in order:
//  1. Same directory as the chatlens binary
//  2. ~/.chatlens/renderers/
//  3. Anywhere in PATH
func Find(name string) (string, error) {
	binary := Prefix + name

	for _, dir := range dirs() {
		candidate := filepath.Join(dir, binary)
		if isExecutable(candidate) {
			return candidate, nil
		}
	}

	if path, err := exec.LookPath(binary); err == nil {
		return path, nil
	}

	return "", ErrRendererNotFound
}

// Run executes a renderer with input on stdin and returns its exit code.
func Run(ctx context.Context, path string, args []string, input io.Reader, stdout, stderr io.Writer) (int, error) {
	cmd := exec.CommandContext(ctx, path, args...)
	cmd.Stdin = input
	cmd.Stdout = stdout
	cmd.Stderr = stderr

	if err := cmd.Run(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return exitErr.ExitCode(), nil
		}
		return 1, fmt.Errorf("executing renderer: %w", err)
	}

	return 0, nil
}

// FormatNotFoundError returns a helpful message when a renderer is not found.
func FormatNotFoundError(name string) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "renderer %q not found\n", name)

	if info, ok := KnownRenderers[name]; ok {
		sb.WriteString("\n")
		sb.WriteString(info)
		sb.WriteString("\n")
	}

	sb.WriteString("\nInstall the renderer binary as one of:\n")
	fmt.Fprintf(&sb, "  - %s%s in the same directory as chatlens\n", Prefix, name)
	fmt.Fprintf(&sb, "  - ~/.chatlens/renderers/%s%s\n", Prefix, name)
	fmt.Fprintf(&sb, "  - %s%s anywhere in your PATH", Prefix, name)

	return sb.String()
}

// isExecutable checks if a file exists and is executable.
func isExecutable(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}

	if info.Mode().IsRegular() {
		return info.Mode()&0111 != 0
	}

	return false
}
