// Package server exposes the translation pipeline over HTTP: a multipart
// upload endpoint returning the translated bundle, plus small JSON endpoints
// for the supported languages and service status.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/MuazAshraf/ppt-translator/internal/convert"
	"github.com/MuazAshraf/ppt-translator/internal/logger"
	"github.com/MuazAshraf/ppt-translator/internal/orchestrator"
	"github.com/MuazAshraf/ppt-translator/internal/types"
)

const (
	// MaxUploadSize caps uploaded presentations at 100 MB.
	MaxUploadSize = 100 << 20
	// multipartMemory is the in-memory buffer for multipart parsing;
	// larger uploads spill to temp files.
	multipartMemory = 32 << 20
)

// Runner executes translation requests. *orchestrator.Orchestrator is the
// production implementation.
type Runner interface {
	Run(ctx context.Context, req orchestrator.Request) (*types.Summary, error)
}

// Server handles the HTTP API.
type Server struct {
	runner         Runner
	converter      *convert.Converter
	defaultService string
}

// New creates a Server.
func New(runner Runner, conv *convert.Converter, defaultService string) *Server {
	return &Server{
		runner:         runner,
		converter:      conv,
		defaultService: defaultService,
	}
}

// Handler returns the route mux.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/translate", s.handleTranslate)
	mux.HandleFunc("/api/languages", s.handleLanguages)
	mux.HandleFunc("/api/status", s.handleStatus)
	return mux
}

// handleTranslate accepts a multipart upload and streams back the translated
// bundle. All intermediate files live in a per-request temp directory that is
// removed when the handler returns, success or not.
func (s *Server) handleTranslate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "POST required")
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, MaxUploadSize)
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		writeError(w, http.StatusBadRequest, "invalid multipart upload: "+err.Error())
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "missing file field")
		return
	}
	defer file.Close()

	if !strings.EqualFold(filepath.Ext(header.Filename), ".pptx") {
		writeError(w, http.StatusBadRequest, "only .pptx files are accepted")
		return
	}

	langs := parseLanguageFields(r)
	if len(langs) == 0 {
		writeError(w, http.StatusBadRequest, "no target languages given")
		return
	}

	tmpDir, err := os.MkdirTemp("", "ppt-translate-*")
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to allocate working directory")
		return
	}
	defer func() {
		if err := os.RemoveAll(tmpDir); err != nil {
			logger.Warn("failed to clean request directory",
				logger.String("dir", tmpDir), logger.Err(err))
		}
	}()

	// Timestamped name keeps concurrent uploads of the same deck apart in
	// logs and output file names.
	inputName := fmt.Sprintf("%s_%s", time.Now().Format("20060102_150405"),
		filepath.Base(header.Filename))
	inputPath := filepath.Join(tmpDir, inputName)
	if err := saveUpload(file, inputPath); err != nil {
		writeError(w, http.StatusInternalServerError, "failed to store upload")
		return
	}

	summary, err := s.runner.Run(r.Context(), orchestrator.Request{
		InputPath:  inputPath,
		Languages:  langs,
		Formats:    splitList(r.FormValue("formats")),
		Service:    firstNonEmpty(r.FormValue("service"), s.defaultService),
		APIKey:     r.FormValue("api_key"),
		OutputRoot: filepath.Join(tmpDir, "output"),
	})
	if err != nil {
		status := statusForError(err)
		writeError(w, status, err.Error())
		return
	}

	if warnings := collectWarnings(summary); len(warnings) > 0 {
		w.Header().Set("X-Translation-Warnings", headerSafe(strings.Join(warnings, "; ")))
	}

	// A single output goes back directly. An empty ZipPath means bundling
	// failed; the failure is already in the warnings, so fall back to the
	// first produced file instead of erroring on a finished translation.
	if len(summary.AllOutputs()) == 1 || summary.ZipPath == "" {
		serveFile(w, summary.FirstOutput())
		return
	}
	serveFile(w, summary.ZipPath)
}

func (s *Server) handleLanguages(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "GET required")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"languages": SupportedLanguages(),
	})
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "GET required")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"status":                   "running",
		"default_service":          s.defaultService,
		"pdf_conversion_available": s.converter.Available(),
	})
}

// parseLanguageFields merges the comma-separated target_langs field with any
// repeated target_lang fields.
func parseLanguageFields(r *http.Request) []string {
	langs := splitList(r.FormValue("target_langs"))
	if r.MultipartForm != nil {
		langs = append(langs, r.MultipartForm.Value["target_lang"]...)
	}
	return langs
}

func splitList(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func saveUpload(src io.Reader, path string) error {
	out, err := os.Create(path)
	if err != nil {
		return err
	}
	defer out.Close()
	if _, err := io.Copy(out, src); err != nil {
		return err
	}
	return out.Close()
}

func serveFile(w http.ResponseWriter, path string) {
	f, err := os.Open(path)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "output file unavailable")
		return
	}
	defer f.Close()

	w.Header().Set("Content-Type", contentTypeFor(path))
	w.Header().Set("Content-Disposition",
		fmt.Sprintf("attachment; filename=%q", filepath.Base(path)))
	w.WriteHeader(http.StatusOK)
	if _, err := io.Copy(w, f); err != nil {
		logger.Warn("response streaming interrupted", logger.Err(err))
	}
}

func contentTypeFor(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".zip":
		return "application/zip"
	case ".pdf":
		return "application/pdf"
	case ".pptx":
		return "application/vnd.openxmlformats-officedocument.presentationml.presentation"
	default:
		return "application/octet-stream"
	}
}

// collectWarnings flattens run- and language-level errors of a successful
// run for the warnings header.
func collectWarnings(summary *types.Summary) []string {
	warnings := append([]string{}, summary.Errors...)
	for _, lang := range summary.Languages {
		res := summary.Results[lang]
		if res == nil {
			continue
		}
		for _, e := range res.Errors {
			warnings = append(warnings, fmt.Sprintf("%s: %s", lang, e))
		}
	}
	return warnings
}

// headerSafe strips characters that would corrupt a header value.
func headerSafe(s string) string {
	return strings.Map(func(r rune) rune {
		if r == '\n' || r == '\r' {
			return ' '
		}
		return r
	}, s)
}

func statusForError(err error) int {
	var appErr *types.AppError
	if !errors.As(err, &appErr) {
		return http.StatusInternalServerError
	}
	switch appErr.Code {
	case types.ErrInvalidInput, types.ErrFileNotFound:
		return http.StatusBadRequest
	case types.ErrConvert:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Warn("failed to encode response", logger.Err(err))
	}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
