// Package convert exports presentations to other formats by driving a
// LibreOffice binary in headless mode. Converter is an explicit capability
// object: callers construct it once, ask Available(), and skip or fail fast
// before any translation work is wasted.
package convert

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/pdfcpu/pdfcpu/pkg/api"

	"github.com/MuazAshraf/ppt-translator/internal/logger"
	"github.com/MuazAshraf/ppt-translator/internal/types"
)

const (
	// ConvertTimeout bounds one LibreOffice invocation.
	ConvertTimeout = 2 * time.Minute
	// outputPollInterval and outputPollAttempts cover the window between
	// LibreOffice exiting and its output file appearing on disk.
	outputPollInterval = 200 * time.Millisecond
	outputPollAttempts = 10
)

// headlessFlags keep LibreOffice from touching the user profile, lock files
// or any UI while converting on a server.
var headlessFlags = []string{
	"--headless",
	"--invisible",
	"--nologo",
	"--nodefault",
	"--nolockcheck",
	"--norestore",
	"--nofirststartwizard",
	"--nocrashreport",
}

// pdfFilters are tried in order; the explicit Impress export filter first,
// the generic name as fallback for older LibreOffice builds.
var pdfFilters = []string{"pdf:impress_pdf_Export", "pdf"}

// Converter drives a resolved LibreOffice binary.
type Converter struct {
	binary  string
	timeout time.Duration
}

// New resolves the LibreOffice binary and returns a Converter. With an empty
// binary name nothing is resolved and Available() reports false; conversion
// then fails with a clear error instead of a cryptic exec failure.
func New(binary string) *Converter {
	c := &Converter{timeout: ConvertTimeout}
	if binary == "" {
		return c
	}
	resolved, err := exec.LookPath(binary)
	if err != nil {
		logger.Warn("libreoffice binary not found",
			logger.String("binary", binary), logger.Err(err))
		return c
	}
	c.binary = resolved
	return c
}

// Available reports whether a LibreOffice binary was resolved.
func (c *Converter) Available() bool { return c.binary != "" }

// Binary returns the resolved binary path, empty when unavailable.
func (c *Converter) Binary() string { return c.binary }

// Convert exports srcPath to the given format ("pdf") next to the source
// file and returns the output path. The produced PDF is verified to be
// readable and non-empty before it is reported as a success.
func (c *Converter) Convert(ctx context.Context, srcPath, format string) (string, error) {
	if !c.Available() {
		return "", types.NewAppError(types.ErrConvert,
			"libreoffice is not available, cannot convert", nil)
	}
	if format != "pdf" {
		return "", types.NewAppErrorWithDetails(types.ErrConvert,
			"unsupported conversion format", format, nil)
	}

	outDir := filepath.Dir(srcPath)
	stem := strings.TrimSuffix(filepath.Base(srcPath), filepath.Ext(srcPath))

	var lastErr error
	for _, filter := range pdfFilters {
		if err := c.run(ctx, srcPath, outDir, filter); err != nil {
			lastErr = err
			continue
		}
		found, err := c.waitForOutput(ctx, outDir, stem)
		if err != nil {
			lastErr = err
			continue
		}
		if err := verifyPDF(found); err != nil {
			lastErr = err
			continue
		}
		return found, nil
	}
	return "", types.NewAppErrorWithDetails(types.ErrConvert,
		"pdf conversion failed", srcPath, lastErr)
}

func (c *Converter) run(ctx context.Context, srcPath, outDir, filter string) error {
	runCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	args := append([]string{}, headlessFlags...)
	args = append(args, "--convert-to", filter, "--outdir", outDir, srcPath)

	cmd := exec.CommandContext(runCtx, c.binary, args...)
	output, err := cmd.CombinedOutput()
	if err != nil {
		logger.Warn("libreoffice conversion attempt failed",
			logger.String("filter", filter),
			logger.String("output", strings.TrimSpace(string(output))),
			logger.Err(err))
		return fmt.Errorf("libreoffice (%s): %w", filter, err)
	}
	return nil
}

// waitForOutput polls for the converted file. LibreOffice occasionally exits
// before the file is flushed, and decorates the output name when the target
// already exists, so any non-empty {stem}*.pdf in the output directory
// counts; with several matches the most recently modified one wins.
func (c *Converter) waitForOutput(ctx context.Context, outDir, stem string) (string, error) {
	pattern := filepath.Join(outDir, stem+"*.pdf")
	for i := 0; i < outputPollAttempts; i++ {
		if found := latestMatch(pattern); found != "" {
			return found, nil
		}
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-time.After(outputPollInterval):
		}
	}
	return "", fmt.Errorf("no converted file matching %s appeared", pattern)
}

// latestMatch returns the newest non-empty file matching pattern, or "".
func latestMatch(pattern string) string {
	matches, err := filepath.Glob(pattern)
	if err != nil {
		return ""
	}
	var newest string
	var newestMod time.Time
	for _, m := range matches {
		info, err := os.Stat(m)
		if err != nil || info.Size() == 0 {
			continue
		}
		if newest == "" || info.ModTime().After(newestMod) {
			newest = m
			newestMod = info.ModTime()
		}
	}
	return newest
}

// verifyPDF rejects outputs LibreOffice produced but corrupted, which it
// signals with exit code zero often enough to matter.
func verifyPDF(path string) error {
	pdfCtx, err := api.ReadContextFile(path)
	if err != nil {
		return fmt.Errorf("produced pdf is not readable: %w", err)
	}
	if pdfCtx.PageCount < 1 {
		return fmt.Errorf("produced pdf has no pages")
	}
	return nil
}
