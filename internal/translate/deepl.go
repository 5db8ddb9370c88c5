package translate

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/MuazAshraf/ppt-translator/internal/logger"
	"github.com/MuazAshraf/ppt-translator/internal/types"
)

const (
	// DeepLEndpoint is the free-tier DeepL translation API.
	DeepLEndpoint = "https://api-free.deepl.com/v2/translate"
	deeplTimeout  = 15 * time.Second
)

// deeplTranslator calls the DeepL v2 API using form-encoded requests.
type deeplTranslator struct {
	apiKey   string
	client   *http.Client
	endpoint string
}

// NewDeepL creates a DeepL-backed translator. With an empty API key the
// translator degrades to a pass-through: text is returned unchanged and no
// request is made, so a run misconfigured for one provider still completes.
func NewDeepL(apiKey string) Service {
	return &deeplTranslator{
		apiKey:   apiKey,
		client:   &http.Client{Timeout: deeplTimeout},
		endpoint: DeepLEndpoint,
	}
}

func (d *deeplTranslator) Name() string { return ProviderDeepL }

type deeplResponse struct {
	Translations []struct {
		Text string `json:"text"`
	} `json:"translations"`
}

func (d *deeplTranslator) Translate(ctx context.Context, text, targetLang string) (string, error) {
	if isBlank(text) {
		return text, nil
	}
	if d.apiKey == "" {
		logger.Warn("deepl api key not configured, returning text unchanged")
		return text, nil
	}

	form := url.Values{}
	form.Set("auth_key", d.apiKey)
	form.Set("text", text)
	form.Set("target_lang", strings.ToUpper(targetLang))

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, d.endpoint,
		strings.NewReader(form.Encode()))
	if err != nil {
		return "", types.NewAppError(types.ErrInternal, "failed to create translation request", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := d.client.Do(req)
	if err != nil {
		return "", types.NewAppError(types.ErrNetwork, "deepl translation request failed", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", types.NewAppErrorWithDetails(types.ErrAPICall,
			"deepl translation returned non-OK status",
			fmt.Sprintf("status: %d", resp.StatusCode), nil)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", types.NewAppError(types.ErrNetwork, "failed to read translation response", err)
	}

	var parsed deeplResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", types.NewAppError(types.ErrAPICall, "unexpected deepl translation payload", err)
	}
	if len(parsed.Translations) == 0 {
		return "", types.NewAppError(types.ErrAPICall, "deepl returned no translations", nil)
	}
	return parsed.Translations[0].Text, nil
}
