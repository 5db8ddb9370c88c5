// Package orchestrator coordinates a full translation run: validate the
// request, translate the deck once per target language, export requested
// formats and bundle everything into a zip. Failures are contained per
// language; the run only fails outright when validation fails or no language
// produces an output.
package orchestrator

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"golang.org/x/text/language"

	"github.com/MuazAshraf/ppt-translator/internal/convert"
	"github.com/MuazAshraf/ppt-translator/internal/logger"
	"github.com/MuazAshraf/ppt-translator/internal/translate"
	"github.com/MuazAshraf/ppt-translator/internal/types"
	"github.com/MuazAshraf/ppt-translator/internal/walker"
)

// supportedFormats are the output formats a run may request.
var supportedFormats = map[string]bool{
	"pptx": true,
	"pdf":  true,
}

// FileTranslator translates one presentation file into one language.
// *walker.Walker is the production implementation.
type FileTranslator interface {
	TranslateFile(ctx context.Context, inputPath, outputPath, targetLang string) (*walker.Result, error)
}

// TranslatorFactory builds a FileTranslator for the requested provider.
type TranslatorFactory func(ctx context.Context, provider string, opts translate.Options) (FileTranslator, error)

// Request describes one translation run.
type Request struct {
	// InputPath is the .pptx file to translate.
	InputPath string
	// Languages are the requested target languages, possibly with
	// duplicates and mixed casing.
	Languages []string
	// Formats are the requested output formats; empty means pptx only.
	Formats []string
	// Service selects the translation provider.
	Service string
	// APIKey authenticates paid providers.
	APIKey string
	// OutputRoot overrides the default output directory.
	OutputRoot string
	// SkipZip disables bundling the outputs into a zip archive.
	SkipZip bool
}

// OptionsLookup resolves provider settings the request does not carry — API
// key, base URL, model — typically from the config file or environment.
type OptionsLookup func(provider string) translate.Options

// Orchestrator runs translation requests.
type Orchestrator struct {
	converter *convert.Converter
	factory   TranslatorFactory
	options   OptionsLookup
	delay     time.Duration
}

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithTranslatorFactory replaces the provider wiring. Used in tests.
func WithTranslatorFactory(f TranslatorFactory) Option {
	return func(o *Orchestrator) { o.factory = f }
}

// WithRunDelay sets the pause between translation calls.
func WithRunDelay(d time.Duration) Option {
	return func(o *Orchestrator) { o.delay = d }
}

// WithOptionsLookup sets the fallback source for provider settings a
// request does not carry.
func WithOptionsLookup(lookup OptionsLookup) Option {
	return func(o *Orchestrator) { o.options = lookup }
}

// New creates an Orchestrator using conv for PDF export.
func New(conv *convert.Converter, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		converter: conv,
		delay:     walker.DefaultRunDelay,
	}
	for _, opt := range opts {
		opt(o)
	}
	if o.factory == nil {
		o.factory = o.defaultFactory
	}
	return o
}

func (o *Orchestrator) defaultFactory(ctx context.Context, provider string, opts translate.Options) (FileTranslator, error) {
	svc, err := translate.New(ctx, provider, opts)
	if err != nil {
		return nil, err
	}
	return walker.New(svc, walker.WithDelay(o.delay)), nil
}

// Run executes the request. The returned Summary is non-nil whenever the
// input validated, even if every language failed; in that case the error is
// an ErrTranslation AppError and the Summary carries the per-language detail.
func (o *Orchestrator) Run(ctx context.Context, req Request) (*types.Summary, error) {
	if err := validateInput(req.InputPath); err != nil {
		return nil, err
	}

	langs, invalid := NormalizeLanguages(req.Languages)
	if len(langs) == 0 {
		return nil, types.NewAppErrorWithDetails(types.ErrInvalidInput,
			"no valid target languages", strings.Join(invalid, ", "), nil)
	}

	formats, err := NormalizeFormats(req.Formats)
	if err != nil {
		return nil, err
	}

	// pdf export needs LibreOffice; fail before any translation work.
	if containsString(formats, "pdf") && !o.converter.Available() {
		return nil, types.NewAppError(types.ErrConvert,
			"pdf output requested but libreoffice is not available", nil)
	}

	// The request key wins; base URL and model always come from the lookup
	// since a request has no way to carry them.
	opts := translate.Options{APIKey: req.APIKey}
	if o.options != nil {
		resolved := o.options(req.Service)
		if opts.APIKey == "" {
			opts.APIKey = resolved.APIKey
		}
		opts.BaseURL = resolved.BaseURL
		opts.Model = resolved.Model
	}
	translator, err := o.factory(ctx, req.Service, opts)
	if err != nil {
		return nil, err
	}

	stem := stemOf(req.InputPath)
	outputRoot := req.OutputRoot
	if outputRoot == "" {
		outputRoot = filepath.Join(filepath.Dir(req.InputPath), stem+"_translations")
	}
	if err := os.MkdirAll(outputRoot, 0o755); err != nil {
		return nil, types.NewAppError(types.ErrInternal, "failed to create output directory", err)
	}

	summary := &types.Summary{
		Input:      req.InputPath,
		OutputRoot: outputRoot,
		Formats:    formats,
		Languages:  langs,
		Results:    make(map[string]*types.LanguageResult, len(langs)),
	}
	for _, lang := range invalid {
		summary.Errors = append(summary.Errors, fmt.Sprintf("invalid target language %q skipped", lang))
	}

	for _, lang := range langs {
		if err := ctx.Err(); err != nil {
			return summary, err
		}
		summary.Results[lang] = o.runLanguage(ctx, translator, req.InputPath, stem, outputRoot, lang, formats)
	}

	if !summary.HasOutputs() {
		return summary, types.NewAppError(types.ErrTranslation,
			"translation failed for every target language", nil)
	}

	if !req.SkipZip {
		zipPath, err := BundleZip(outputRoot)
		if err != nil {
			summary.Errors = append(summary.Errors, fmt.Sprintf("zip bundling failed: %v", err))
		} else {
			summary.ZipPath = zipPath
		}
	}

	logger.Info("translation run finished",
		logger.String("input", req.InputPath),
		logger.Int("languages", len(langs)),
		logger.Int("errors", len(summary.Errors)))
	return summary, nil
}

// runLanguage translates the deck into one language and exports the
// requested formats. All failures land in the returned result.
func (o *Orchestrator) runLanguage(ctx context.Context, translator FileTranslator,
	inputPath, stem, outputRoot, lang string, formats []string) *types.LanguageResult {

	result := &types.LanguageResult{
		Language: lang,
		Outputs:  make(map[string]string),
	}

	langDir := filepath.Join(outputRoot, lang)
	if err := os.MkdirAll(langDir, 0o755); err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("failed to create language directory: %v", err))
		return result
	}

	pptxPath := filepath.Join(langDir, fmt.Sprintf("%s_%s.pptx", stem, lang))
	runRes, err := translator.TranslateFile(ctx, inputPath, pptxPath, lang)
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("translation failed: %v", err))
		return result
	}
	result.Succeeded = true
	result.Translated = runRes.Translated
	for _, runErr := range runRes.Errors {
		result.Errors = append(result.Errors, runErr.Error())
	}

	if containsString(formats, "pptx") {
		result.Outputs["pptx"] = pptxPath
	}
	if containsString(formats, "pdf") {
		pdfPath, err := o.converter.Convert(ctx, pptxPath, "pdf")
		if err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("pdf export failed: %v", err))
		} else {
			result.Outputs["pdf"] = pdfPath
		}
	}
	// The intermediate pptx is removed when it was only needed for the pdf.
	if !containsString(formats, "pptx") {
		if err := os.Remove(pptxPath); err != nil {
			logger.Warn("failed to remove intermediate pptx",
				logger.String("path", pptxPath), logger.Err(err))
		}
	}
	return result
}

func validateInput(path string) error {
	if path == "" {
		return types.NewAppError(types.ErrInvalidInput, "no input file given", nil)
	}
	if !strings.EqualFold(filepath.Ext(path), ".pptx") {
		return types.NewAppErrorWithDetails(types.ErrInvalidInput,
			"input must be a .pptx file", path, nil)
	}
	info, err := os.Stat(path)
	if err != nil {
		return types.NewAppErrorWithDetails(types.ErrFileNotFound,
			"input file not found", path, err)
	}
	if info.IsDir() {
		return types.NewAppErrorWithDetails(types.ErrInvalidInput,
			"input is a directory", path, nil)
	}
	return nil
}

// NormalizeLanguages canonicalizes BCP 47 tags and removes duplicates while
// preserving first-seen order. Unparseable tags are returned separately so
// the caller can report them without aborting the run.
func NormalizeLanguages(langs []string) (valid, invalid []string) {
	seen := make(map[string]bool)
	for _, raw := range langs {
		trimmed := strings.TrimSpace(raw)
		if trimmed == "" {
			continue
		}
		tag, err := language.Parse(trimmed)
		if err != nil {
			invalid = append(invalid, trimmed)
			continue
		}
		canonical := tag.String()
		if seen[canonical] {
			continue
		}
		seen[canonical] = true
		valid = append(valid, canonical)
	}
	return valid, invalid
}

// NormalizeFormats lowercases, strips leading dots and removes duplicates
// while preserving first-seen order. An empty list defaults to pptx. Unknown
// formats fail the whole run, naming every offender.
func NormalizeFormats(formats []string) ([]string, error) {
	var out []string
	var unknown []string
	seen := make(map[string]bool)
	for _, raw := range formats {
		f := strings.ToLower(strings.TrimSpace(raw))
		f = strings.TrimPrefix(f, ".")
		if f == "" || seen[f] {
			continue
		}
		seen[f] = true
		if !supportedFormats[f] {
			unknown = append(unknown, f)
			continue
		}
		out = append(out, f)
	}
	if len(unknown) > 0 {
		return nil, types.NewAppErrorWithDetails(types.ErrInvalidInput,
			"unsupported output formats", strings.Join(unknown, ", "), nil)
	}
	if len(out) == 0 {
		out = []string{"pptx"}
	}
	return out, nil
}

func stemOf(path string) string {
	return strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
}

func containsString(list []string, want string) bool {
	for _, s := range list {
		if s == want {
			return true
		}
	}
	return false
}
