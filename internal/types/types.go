// Package types defines core data types and errors for the presentation translator.
package types

// Config 应用配置
type Config struct {
	OpenAIAPIKey    string `json:"openai_api_key"`
	OpenAIBaseURL   string `json:"openai_base_url"` // OpenAI 兼容 API 的 Base URL
	OpenAIModel     string `json:"openai_model"`
	DeepLAPIKey     string `json:"deepl_api_key"`
	DefaultService  string `json:"default_service"`  // "google"、"deepl" 或 "openai"
	LibreOfficePath string `json:"libreoffice_path"` // soffice 可执行文件路径
	OutputDirectory string `json:"output_directory"`
	RunDelayMs      int    `json:"run_delay_ms"` // 每个文本 run 翻译后的固定延迟（毫秒）
}

// LanguageResult holds the outcome of translating one document copy into one
// target language.
type LanguageResult struct {
	Language   string            `json:"language"`
	Succeeded  bool              `json:"succeeded"`        // the translated document was saved
	Translated int               `json:"translated"`       // count of translated runs
	Outputs    map[string]string `json:"outputs"`          // format -> produced file path
	Errors     []string          `json:"errors,omitempty"` // non-fatal per-run/per-format errors
}

// Summary is the aggregate result of a multi-language translation request.
// It is returned even when some or all languages failed.
type Summary struct {
	Input      string                     `json:"input"`
	OutputRoot string                     `json:"output_root"`
	ZipPath    string                     `json:"zip_path,omitempty"`
	Formats    []string                   `json:"formats"`
	Languages  []string                   `json:"languages"` // deduplicated request order
	Results    map[string]*LanguageResult `json:"results"`
	Errors     []string                   `json:"errors,omitempty"`
}

// HasOutputs reports whether at least one language produced at least one file.
func (s *Summary) HasOutputs() bool {
	for _, r := range s.Results {
		if len(r.Outputs) > 0 {
			return true
		}
	}
	return false
}

// FirstOutput returns the first produced output path in request order, or ""
// when nothing was produced. Used as the single-file download fallback when
// no archive exists.
func (s *Summary) FirstOutput() string {
	for _, lang := range s.Languages {
		r, ok := s.Results[lang]
		if !ok {
			continue
		}
		for _, format := range s.Formats {
			if path, ok := r.Outputs[format]; ok && path != "" {
				return path
			}
		}
	}
	return ""
}

// AllOutputs returns every produced output path in request order.
func (s *Summary) AllOutputs() []string {
	var out []string
	for _, lang := range s.Languages {
		r, ok := s.Results[lang]
		if !ok {
			continue
		}
		for _, format := range s.Formats {
			if path, ok := r.Outputs[format]; ok && path != "" {
				out = append(out, path)
			}
		}
	}
	return out
}

// ErrorCode 错误代码枚举
type ErrorCode string

const (
	ErrFileNotFound ErrorCode = "FILE_NOT_FOUND"
	ErrInvalidInput ErrorCode = "INVALID_INPUT"
	ErrNetwork      ErrorCode = "NETWORK_ERROR"
	ErrAPICall      ErrorCode = "API_CALL_ERROR"
	ErrTranslation  ErrorCode = "TRANSLATION_ERROR"
	ErrDocument     ErrorCode = "DOCUMENT_ERROR"
	ErrConvert      ErrorCode = "CONVERT_ERROR"
	ErrArchive      ErrorCode = "ARCHIVE_ERROR"
	ErrConfig       ErrorCode = "CONFIG_ERROR"
	ErrInternal     ErrorCode = "INTERNAL_ERROR"
)

// AppError 应用错误
type AppError struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
	Details string    `json:"details,omitempty"`
	Cause   error     `json:"-"`
}

// Error implements the error interface for AppError
func (e *AppError) Error() string {
	if e.Details != "" {
		return e.Message + ": " + e.Details
	}
	return e.Message
}

// Unwrap returns the underlying cause of the error
func (e *AppError) Unwrap() error {
	return e.Cause
}

// NewAppError creates a new AppError with the given code, message, and optional cause
func NewAppError(code ErrorCode, message string, cause error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

// NewAppErrorWithDetails creates a new AppError with details
func NewAppErrorWithDetails(code ErrorCode, message, details string, cause error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Details: details,
		Cause:   cause,
	}
}
