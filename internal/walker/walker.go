// Package walker traverses a presentation document, translates every text
// run in place and shrinks fonts where the translated text is likely to
// overflow its shape. Individual run failures are recorded and the original
// text kept, so one bad API response never loses a whole deck.
package walker

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/MuazAshraf/ppt-translator/internal/document"
	"github.com/MuazAshraf/ppt-translator/internal/fontfit"
	"github.com/MuazAshraf/ppt-translator/internal/logger"
	"github.com/MuazAshraf/ppt-translator/internal/pptx"
	"github.com/MuazAshraf/ppt-translator/internal/translate"
	"github.com/MuazAshraf/ppt-translator/internal/types"
)

const (
	// DefaultTextSize is assumed for runs without an explicit font size.
	DefaultTextSize = 12.0
	// DefaultTableSize is assumed for table cell runs without an explicit size.
	DefaultTableSize = 10.0
	// MinTextSize is the smallest size the fitter may assign to body text.
	MinTextSize = 11.0
	// MinTableSize is the smallest size the fitter may assign in tables.
	MinTableSize = 10.0
	// TextWidthMargin is subtracted from the shape width to leave padding.
	TextWidthMargin = 20.0
	// TableCellWidth is the assumed width of a table cell; cell geometry is
	// not tracked, so a conservative fixed width is used instead.
	TableCellWidth = 100.0
	// SizeApplyThreshold suppresses size changes too small to matter.
	SizeApplyThreshold = 0.5
	// DefaultRunDelay spaces out translation calls to stay friendly with
	// keyless endpoints.
	DefaultRunDelay = 100 * time.Millisecond
)

// Opener loads a presentation from disk. Swappable in tests.
type Opener func(path string) (document.Document, error)

// RunError describes a single run that could not be translated. The run
// keeps its original text.
type RunError struct {
	Slide int
	Shape int
	Text  string
	Err   error
}

func (e RunError) Error() string {
	return fmt.Sprintf("slide %d shape %d: %v", e.Slide, e.Shape, e.Err)
}

// Result summarizes one translation pass over a document.
type Result struct {
	// Translated counts runs translated without error, including runs whose
	// translation came back identical to the original.
	Translated int
	// Resized counts text containers whose font size was reduced.
	Resized int
	// Errors holds the runs that failed; the document is still saved.
	Errors []RunError
}

// Walker translates presentation files with a translate.Service.
type Walker struct {
	service translate.Service
	opener  Opener
	delay   time.Duration
}

// Option configures a Walker.
type Option func(*Walker)

// WithOpener replaces the document opener.
func WithOpener(open Opener) Option {
	return func(w *Walker) { w.opener = open }
}

// WithDelay sets the pause between translation calls.
func WithDelay(d time.Duration) Option {
	return func(w *Walker) { w.delay = d }
}

// New creates a Walker backed by service.
func New(service translate.Service, opts ...Option) *Walker {
	w := &Walker{
		service: service,
		opener:  pptx.OpenDocument,
		delay:   DefaultRunDelay,
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// TranslateFile opens inputPath, translates every run into targetLang and
// saves the result to outputPath. A document that cannot be opened or saved
// is a hard error; per-run translation failures are collected in the Result
// instead.
func (w *Walker) TranslateFile(ctx context.Context, inputPath, outputPath, targetLang string) (*Result, error) {
	doc, err := w.opener(inputPath)
	if err != nil {
		return nil, types.NewAppErrorWithDetails(types.ErrDocument,
			"failed to load presentation", inputPath, err)
	}
	defer doc.Close()

	res, err := w.translateDocument(ctx, doc, targetLang)
	if err != nil {
		return nil, err
	}

	if err := doc.Save(outputPath); err != nil {
		return nil, types.NewAppErrorWithDetails(types.ErrDocument,
			"failed to save translated presentation", outputPath, err)
	}
	logger.Info("presentation translated",
		logger.String("output", outputPath),
		logger.String("lang", targetLang),
		logger.Int("runs", res.Translated),
		logger.Int("resized", res.Resized),
		logger.Int("errors", len(res.Errors)))
	return res, nil
}

// translateDocument walks every slide. Only context cancellation aborts the
// walk; everything else degrades to per-run errors.
func (w *Walker) translateDocument(ctx context.Context, doc document.Document, targetLang string) (*Result, error) {
	res := &Result{}
	for slideIdx, sl := range doc.Slides() {
		for shapeIdx, sh := range sl.Shapes() {
			if frame := sh.TextFrame(); frame != nil {
				width, hasWidth := sh.WidthPoints()
				available := 0.0
				if hasWidth {
					available = width - TextWidthMargin
				}
				if err := w.translateFrame(ctx, frame, targetLang, available,
					DefaultTextSize, MinTextSize, slideIdx, shapeIdx, res); err != nil {
					return nil, err
				}
			}
			if tbl := sh.Table(); tbl != nil {
				for _, cell := range tbl.Cells() {
					if err := w.translateFrame(ctx, cell, targetLang, TableCellWidth,
						DefaultTableSize, MinTableSize, slideIdx, shapeIdx, res); err != nil {
						return nil, err
					}
				}
			}
		}
	}
	return res, nil
}

// translateFrame runs the two passes over one text container. Pass one
// translates every non-blank run, captures the baseline size from the first
// explicitly sized run and accumulates the translated text. Pass two fits
// that accumulated text and applies one consistent size to every non-blank
// run, so a container never ends up with mixed shrink levels.
func (w *Walker) translateFrame(ctx context.Context, frame document.TextFrame, targetLang string,
	availableWidth, defaultSize, minSize float64, slideIdx, shapeIdx int, res *Result) error {

	baseline := defaultSize
	baselineSet := false
	var translatedText strings.Builder

	for _, para := range frame.Paragraphs() {
		for _, r := range para.Runs() {
			if err := ctx.Err(); err != nil {
				return err
			}
			original := r.Text()
			if strings.TrimSpace(original) == "" {
				continue
			}
			if size, ok := r.SizePoints(); ok && !baselineSet {
				baseline = size
				baselineSet = true
			}
			translated, err := w.service.Translate(ctx, original, targetLang)
			if err != nil {
				if ctx.Err() != nil {
					return ctx.Err()
				}
				res.Errors = append(res.Errors, RunError{
					Slide: slideIdx + 1,
					Shape: shapeIdx + 1,
					Text:  original,
					Err:   err,
				})
				continue
			}
			if translated != original {
				r.SetText(translated)
			}
			res.Translated++
			translatedText.WriteString(translated)
			translatedText.WriteString(" ")
			w.pause(ctx)
		}
	}

	// The fit pass runs even when every translation came back unchanged:
	// the container may already overflow, and wrap must be enabled either
	// way.
	containerText := strings.TrimSpace(translatedText.String())
	if containerText == "" {
		return nil
	}
	frame.EnableAutoFit()

	if availableWidth <= 0 {
		return nil
	}

	fitted := fontfit.Fit(containerText, availableWidth, baseline, minSize)
	if baseline-fitted <= SizeApplyThreshold {
		return nil
	}
	for _, para := range frame.Paragraphs() {
		for _, r := range para.Runs() {
			if strings.TrimSpace(r.Text()) == "" {
				continue
			}
			r.SetSizePoints(fitted)
		}
	}
	res.Resized++
	return nil
}

// pause waits the configured delay or until the context is done.
func (w *Walker) pause(ctx context.Context) {
	if w.delay <= 0 {
		return
	}
	t := time.NewTimer(w.delay)
	defer t.Stop()
	select {
	case <-ctx.Done():
	case <-t.C:
	}
}
