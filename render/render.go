// ABOUTME: Renders DOT graph text to SVG or PNG by shelling out to the graphviz dot command.
// ABOUTME: Provides DOT, Available, and the Func type used to inject renderers into the web server.
package render

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"
)

// Func is the signature of a DOT rendering function. The web server holds
// one of these so tests can substitute a fake without graphviz installed.
type Func func(ctx context.Context, dotText string, format string) ([]byte, error)

// Available reports whether the graphviz dot command is on PATH.
func Available() bool {
	_, err := exec.LookPath("dot")
	return err == nil
}

// DOT pipes dotText through the graphviz dot command and returns the
// rendered bytes. Supported formats are "svg" and "png".
func DOT(ctx context.Context, dotText string, format string) ([]byte, error) {
	if dotText == "" {
		return nil, fmt.Errorf("cannot render empty DOT text")
	}
	if format != "svg" && format != "png" {
		return nil, fmt.Errorf("unsupported render format %q: want svg or png", format)
	}
	if !Available() {
		return nil, fmt.Errorf("graphviz dot command not found: install graphviz to render %s output", format)
	}

	cmd := exec.CommandContext(ctx, "dot", "-T"+format)
	cmd.Stdin = strings.NewReader(dotText)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("graphviz dot command failed: %w: %s", err, stderr.String())
	}

	return stdout.Bytes(), nil
}
