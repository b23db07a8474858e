package imagepkg

import (
	"fmt"
	"strings"
)

// TemplateError means a card could not be substituted into its template.
type TemplateError struct {
	Template string
	Err      error
}

func (e *TemplateError) Error() string {
	return fmt.Sprintf("template %s: %v", e.Template, e.Err)
}

func (e *TemplateError) Unwrap() error { return e.Err }

type RenderErrorKind int

const (
	// ProcessFailed: the converter ran and exited non-zero.
	ProcessFailed RenderErrorKind = iota
	// StartFailed: the converter binary could not be started.
	StartFailed
	// TimedOut: the converter was killed after the render timeout.
	TimedOut
	// MissingOutput: the converter exited zero but wrote no file.
	MissingOutput
)

func (k RenderErrorKind) String() string {
	switch k {
	case ProcessFailed:
		return "process failed"
	case StartFailed:
		return "start failed"
	case TimedOut:
		return "timed out"
	case MissingOutput:
		return "missing output"
	default:
		return "unknown"
	}
}

// RenderError is a failed HTML to image conversion. Stderr holds whatever
// the converter wrote to its error stream.
type RenderError struct {
	Kind   RenderErrorKind
	Output string
	Stderr string
	Err    error
}

func (e *RenderError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "render %s: %s", e.Output, e.Kind)
	if e.Err != nil {
		fmt.Fprintf(&b, ": %v", e.Err)
	}
	if s := strings.TrimSpace(e.Stderr); s != "" {
		fmt.Fprintf(&b, ": %s", s)
	}
	return b.String()
}

func (e *RenderError) Unwrap() error { return e.Err }

type RetrievalErrorKind int

const (
	// NotFound: a local source file could not be read.
	NotFound RetrievalErrorKind = iota
	// TransferFailed: a remote fetch failed or the URL was unusable.
	TransferFailed
)

func (k RetrievalErrorKind) String() string {
	if k == NotFound {
		return "not found"
	}
	return "transfer failed"
}

type RetrievalError struct {
	Kind RetrievalErrorKind
	URL  string
	Err  error
}

func (e *RetrievalError) Error() string {
	return fmt.Sprintf("retrieve %s: %s: %v", e.URL, e.Kind, e.Err)
}

func (e *RetrievalError) Unwrap() error { return e.Err }
