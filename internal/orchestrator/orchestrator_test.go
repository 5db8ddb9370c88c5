package orchestrator

import (
	"archive/zip"
	"context"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/MuazAshraf/ppt-translator/internal/convert"
	"github.com/MuazAshraf/ppt-translator/internal/translate"
	"github.com/MuazAshraf/ppt-translator/internal/types"
	"github.com/MuazAshraf/ppt-translator/internal/walker"
)

// fakeTranslator writes a placeholder output file per language and fails for
// languages listed in failFor.
type fakeTranslator struct {
	failFor map[string]error
	calls   []string
}

func (f *fakeTranslator) TranslateFile(ctx context.Context, inputPath, outputPath, targetLang string) (*walker.Result, error) {
	f.calls = append(f.calls, targetLang)
	if err, ok := f.failFor[targetLang]; ok {
		return nil, err
	}
	if err := os.WriteFile(outputPath, []byte("translated "+targetLang), 0o644); err != nil {
		return nil, err
	}
	return &walker.Result{Translated: 3}, nil
}

func newTestOrchestrator(ft *fakeTranslator) *Orchestrator {
	return New(convert.New(""), WithTranslatorFactory(
		func(ctx context.Context, provider string, opts translate.Options) (FileTranslator, error) {
			return ft, nil
		}))
}

func writeInput(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "deck.pptx")
	if err := os.WriteFile(path, []byte("pptx bytes"), 0o644); err != nil {
		t.Fatalf("write input: %v", err)
	}
	return path
}

func TestRunTranslatesEachLanguageOnce(t *testing.T) {
	input := writeInput(t)
	ft := &fakeTranslator{}
	o := newTestOrchestrator(ft)

	summary, err := o.Run(context.Background(), Request{
		InputPath: input,
		Languages: []string{"es", "ES", "fr", "es"},
	})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if !reflect.DeepEqual(summary.Languages, []string{"es", "fr"}) {
		t.Errorf("Languages = %v, want [es fr]", summary.Languages)
	}
	if !reflect.DeepEqual(ft.calls, []string{"es", "fr"}) {
		t.Errorf("translator calls = %v, want one per unique language", ft.calls)
	}

	for _, lang := range []string{"es", "fr"} {
		res := summary.Results[lang]
		if res == nil || !res.Succeeded {
			t.Fatalf("result for %s = %+v, want translated", lang, res)
		}
		want := filepath.Join(summary.OutputRoot, lang, "deck_"+lang+".pptx")
		if res.Outputs["pptx"] != want {
			t.Errorf("pptx output = %q, want %q", res.Outputs["pptx"], want)
		}
		if _, err := os.Stat(want); err != nil {
			t.Errorf("output file missing: %v", err)
		}
	}

	wantRoot := filepath.Join(filepath.Dir(input), "deck_translations")
	if summary.OutputRoot != wantRoot {
		t.Errorf("OutputRoot = %q, want %q", summary.OutputRoot, wantRoot)
	}
}

func TestRunBundlesZip(t *testing.T) {
	input := writeInput(t)
	o := newTestOrchestrator(&fakeTranslator{})

	summary, err := o.Run(context.Background(), Request{
		InputPath: input,
		Languages: []string{"de"},
	})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if summary.ZipPath == "" {
		t.Fatal("ZipPath empty, want bundled archive")
	}

	zr, err := zip.OpenReader(summary.ZipPath)
	if err != nil {
		t.Fatalf("open bundle: %v", err)
	}
	defer zr.Close()
	var names []string
	for _, f := range zr.File {
		names = append(names, f.Name)
	}
	if !reflect.DeepEqual(names, []string{"de/deck_de.pptx"}) {
		t.Errorf("bundle entries = %v, want [de/deck_de.pptx]", names)
	}
}

func TestRunSkipZip(t *testing.T) {
	input := writeInput(t)
	o := newTestOrchestrator(&fakeTranslator{})

	summary, err := o.Run(context.Background(), Request{
		InputPath: input,
		Languages: []string{"de"},
		SkipZip:   true,
	})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if summary.ZipPath != "" {
		t.Errorf("ZipPath = %q, want empty with SkipZip", summary.ZipPath)
	}
}

func TestRunResolvesProviderOptions(t *testing.T) {
	input := writeInput(t)
	ft := &fakeTranslator{}
	lookup := func(provider string) translate.Options {
		return translate.Options{
			APIKey:  "cfg-key",
			BaseURL: "https://proxy.example/v1",
			Model:   "gpt-4o",
		}
	}

	var got translate.Options
	o := New(convert.New(""),
		WithTranslatorFactory(func(ctx context.Context, provider string, opts translate.Options) (FileTranslator, error) {
			got = opts
			return ft, nil
		}),
		WithOptionsLookup(lookup))

	// Without a request key the lookup supplies everything.
	if _, err := o.Run(context.Background(), Request{
		InputPath: input,
		Languages: []string{"es"},
		Service:   "openai",
	}); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	want := translate.Options{APIKey: "cfg-key", BaseURL: "https://proxy.example/v1", Model: "gpt-4o"}
	if got != want {
		t.Errorf("factory options = %+v, want %+v", got, want)
	}

	// A request key wins over the lookup; base URL and model still apply.
	if _, err := o.Run(context.Background(), Request{
		InputPath: input,
		Languages: []string{"es"},
		Service:   "openai",
		APIKey:    "req-key",
	}); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if got.APIKey != "req-key" {
		t.Errorf("APIKey = %q, want request key to win", got.APIKey)
	}
	if got.BaseURL != want.BaseURL || got.Model != want.Model {
		t.Errorf("BaseURL/Model = %q/%q, want lookup values", got.BaseURL, got.Model)
	}
}

func TestRunPartialFailure(t *testing.T) {
	input := writeInput(t)
	ft := &fakeTranslator{failFor: map[string]error{"fr": errors.New("provider down")}}
	o := newTestOrchestrator(ft)

	summary, err := o.Run(context.Background(), Request{
		InputPath: input,
		Languages: []string{"es", "fr"},
	})
	if err != nil {
		t.Fatalf("Run() error = %v, partial failure must not fail the run", err)
	}
	if !summary.Results["es"].Succeeded {
		t.Error("es should have translated")
	}
	fr := summary.Results["fr"]
	if fr.Succeeded || len(fr.Errors) == 0 {
		t.Errorf("fr result = %+v, want failed with recorded error", fr)
	}

	// The bundle carries only the successful language's subtree.
	if summary.ZipPath == "" {
		t.Fatal("ZipPath empty, want bundle of the successful language")
	}
	zr, err := zip.OpenReader(summary.ZipPath)
	if err != nil {
		t.Fatalf("open bundle: %v", err)
	}
	defer zr.Close()
	var esEntries int
	for _, f := range zr.File {
		if strings.HasPrefix(f.Name, "fr/") {
			t.Errorf("bundle contains %s, want no entries for the failed language", f.Name)
		}
		if strings.HasPrefix(f.Name, "es/") {
			esEntries++
		}
	}
	if esEntries == 0 {
		t.Error("bundle has no es/ entries, want the successful subtree included")
	}
}

func TestRunTotalFailure(t *testing.T) {
	input := writeInput(t)
	ft := &fakeTranslator{failFor: map[string]error{
		"es": errors.New("down"),
		"fr": errors.New("down"),
	}}
	o := newTestOrchestrator(ft)

	summary, err := o.Run(context.Background(), Request{
		InputPath: input,
		Languages: []string{"es", "fr"},
	})
	if err == nil {
		t.Fatal("Run() expected error when every language fails")
	}
	var appErr *types.AppError
	if !errors.As(err, &appErr) || appErr.Code != types.ErrTranslation {
		t.Errorf("error = %v, want ErrTranslation AppError", err)
	}
	if summary == nil {
		t.Fatal("summary must still be returned with per-language detail")
	}
	if len(summary.Results) != 2 {
		t.Errorf("len(Results) = %d, want 2", len(summary.Results))
	}
}

func TestRunInvalidLanguagesSkipped(t *testing.T) {
	input := writeInput(t)
	o := newTestOrchestrator(&fakeTranslator{})

	summary, err := o.Run(context.Background(), Request{
		InputPath: input,
		Languages: []string{"not a language!!", "es"},
	})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if !reflect.DeepEqual(summary.Languages, []string{"es"}) {
		t.Errorf("Languages = %v, want [es]", summary.Languages)
	}
	if len(summary.Errors) == 0 {
		t.Error("invalid language should be recorded in summary errors")
	}
}

func TestRunAllLanguagesInvalid(t *testing.T) {
	input := writeInput(t)
	o := newTestOrchestrator(&fakeTranslator{})

	if _, err := o.Run(context.Background(), Request{
		InputPath: input,
		Languages: []string{"!!", "???"},
	}); err == nil {
		t.Error("Run() expected error when no language is valid")
	}
}

func TestRunPDFWithoutConverterFailsFast(t *testing.T) {
	input := writeInput(t)
	ft := &fakeTranslator{}
	o := newTestOrchestrator(ft)

	_, err := o.Run(context.Background(), Request{
		InputPath: input,
		Languages: []string{"es"},
		Formats:   []string{"pdf"},
	})
	if err == nil {
		t.Fatal("Run() expected error for pdf without libreoffice")
	}
	if len(ft.calls) != 0 {
		t.Errorf("translator called %d times, want 0 before fail-fast", len(ft.calls))
	}
}

func TestRunInputValidation(t *testing.T) {
	o := newTestOrchestrator(&fakeTranslator{})
	tests := []struct {
		name string
		path string
		code types.ErrorCode
	}{
		{name: "empty path", path: "", code: types.ErrInvalidInput},
		{name: "wrong extension", path: "notes.txt", code: types.ErrInvalidInput},
		{name: "missing file", path: filepath.Join(t.TempDir(), "gone.pptx"), code: types.ErrFileNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := o.Run(context.Background(), Request{
				InputPath: tt.path,
				Languages: []string{"es"},
			})
			var appErr *types.AppError
			if !errors.As(err, &appErr) || appErr.Code != tt.code {
				t.Errorf("error = %v, want code %s", err, tt.code)
			}
		})
	}
}

func TestNormalizeFormats(t *testing.T) {
	tests := []struct {
		name    string
		in      []string
		want    []string
		wantErr bool
	}{
		{name: "default", in: nil, want: []string{"pptx"}},
		{name: "dots and case", in: []string{".PDF", "pptx", "PPTX"}, want: []string{"pdf", "pptx"}},
		{name: "dedupe keeps order", in: []string{"pptx", "pdf", "pptx"}, want: []string{"pptx", "pdf"}},
		{name: "unknown format", in: []string{"pptx", "docx"}, wantErr: true},
		{name: "blank entries ignored", in: []string{"", "  ", "pdf"}, want: []string{"pdf"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NormalizeFormats(tt.in)
			if tt.wantErr {
				if err == nil {
					t.Error("NormalizeFormats() expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("NormalizeFormats() error = %v", err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("NormalizeFormats() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestNormalizeLanguages(t *testing.T) {
	valid, invalid := NormalizeLanguages([]string{"es", "ES", " fr ", "zz-invalid-!!", "", "pt-BR"})
	if !reflect.DeepEqual(valid, []string{"es", "fr", "pt-BR"}) {
		t.Errorf("valid = %v, want [es fr pt-BR]", valid)
	}
	if len(invalid) != 1 {
		t.Errorf("invalid = %v, want one entry", invalid)
	}
}
