package imagepkg

import (
	"bytes"
	"context"
	"errors"
	"log"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"time"

	"github.com/youruser/cardego/internal/apperr"
	"github.com/youruser/cardego/internal/util"
)

const DefaultConverterBinary = "./wkhtmltoimage"

// waitDelay bounds how long Run waits on stderr after the process is killed.
const waitDelay = 2 * time.Second

// Converter runs wkhtmltoimage to turn an HTML file into a PNG.
type Converter struct {
	Binary  string
	Timeout time.Duration // zero means no limit
}

func NewConverter(binary string, timeout time.Duration) *Converter {
	if binary == "" {
		binary = DefaultConverterBinary
	}
	return &Converter{Binary: binary, Timeout: timeout}
}

// Args builds the converter command line.
func (c *Converter) Args(htmlPath string, width, height int, outputPath string) []string {
	return []string{
		"--height", strconv.Itoa(height),
		"--width", strconv.Itoa(width),
		"--enable-local-file-access",
		htmlPath,
		outputPath,
	}
}

// Render writes html to htmlPath and converts it into outputPath, replacing
// both files if they exist. It waits for the converter to exit. A dropped
// caller does not stop a converter that has started; only Timeout does.
// On error the output file must not be read.
func (c *Converter) Render(ctx context.Context, html, htmlPath string, width, height int, outputPath string) error {
	if err := util.WriteFileAtomic(htmlPath, []byte(html)); err != nil {
		return apperr.NewFileIO("write substituted html", err)
	}
	log.Printf("wrote substituted html to %s", htmlPath)

	if err := util.EnsureDir(filepath.Dir(outputPath)); err != nil {
		return apperr.NewFileIO("create image dir", err)
	}

	runCtx := context.WithoutCancel(ctx)
	if c.Timeout > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(runCtx, c.Timeout)
		defer cancel()
	}

	cmd := exec.CommandContext(runCtx, c.Binary, c.Args(htmlPath, width, height, outputPath)...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	cmd.WaitDelay = waitDelay

	start := time.Now()
	if err := cmd.Run(); err != nil {
		if errors.Is(runCtx.Err(), context.DeadlineExceeded) {
			return &RenderError{Kind: TimedOut, Output: outputPath, Stderr: stderr.String(), Err: err}
		}
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return &RenderError{Kind: ProcessFailed, Output: outputPath, Stderr: stderr.String(), Err: err}
		}
		return &RenderError{Kind: StartFailed, Output: outputPath, Err: err}
	}

	if _, err := os.Stat(outputPath); err != nil {
		return &RenderError{Kind: MissingOutput, Output: outputPath, Stderr: stderr.String(), Err: err}
	}
	log.Printf("%s rendered %s (%dx%d) in %s", filepath.Base(c.Binary), outputPath, width, height,
		time.Since(start).Round(time.Millisecond))
	return nil
}
