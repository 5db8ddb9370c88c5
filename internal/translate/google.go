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

	"github.com/MuazAshraf/ppt-translator/internal/types"
)

const (
	// GoogleEndpoint is the free web translation endpoint. It needs no API
	// key but offers no SLA; callers should treat failures as transient.
	GoogleEndpoint = "https://translate.googleapis.com/translate_a/single"
	// googleTimeout bounds a single translation request.
	googleTimeout = 10 * time.Second
	// googleUserAgent mimics a browser; the free endpoint rejects obvious
	// bot agents.
	googleUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0 Safari/537.36"
)

// googleTranslator calls the free Google web endpoint with client=gtx.
type googleTranslator struct {
	client   *http.Client
	endpoint string
}

// NewGoogle creates a keyless translator backed by the free Google endpoint.
func NewGoogle() Service {
	return &googleTranslator{
		client:   &http.Client{Timeout: googleTimeout},
		endpoint: GoogleEndpoint,
	}
}

func (g *googleTranslator) Name() string { return ProviderGoogle }

func (g *googleTranslator) Translate(ctx context.Context, text, targetLang string) (string, error) {
	if isBlank(text) {
		return text, nil
	}

	params := url.Values{}
	params.Set("client", "gtx")
	params.Set("sl", "auto")
	params.Set("tl", targetLang)
	params.Set("dt", "t")
	params.Set("q", text)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.endpoint+"?"+params.Encode(), nil)
	if err != nil {
		return "", types.NewAppError(types.ErrInternal, "failed to create translation request", err)
	}
	req.Header.Set("User-Agent", googleUserAgent)

	resp, err := g.client.Do(req)
	if err != nil {
		return "", types.NewAppError(types.ErrNetwork, "google translation request failed", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", types.NewAppErrorWithDetails(types.ErrAPICall,
			"google translation returned non-OK status",
			fmt.Sprintf("status: %d", resp.StatusCode), nil)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", types.NewAppError(types.ErrNetwork, "failed to read translation response", err)
	}

	translated, err := parseGoogleResponse(body)
	if err != nil {
		return "", err
	}
	return translated, nil
}

// parseGoogleResponse extracts the translated text from the endpoint's
// undocumented nested-array payload: [[["translated","source",...],...],...].
// Segments are concatenated in order.
func parseGoogleResponse(body []byte) (string, error) {
	var payload []any
	if err := json.Unmarshal(body, &payload); err != nil {
		return "", types.NewAppError(types.ErrAPICall, "unexpected google translation payload", err)
	}
	if len(payload) == 0 {
		return "", types.NewAppError(types.ErrAPICall, "empty google translation payload", nil)
	}

	segments, ok := payload[0].([]any)
	if !ok {
		return "", types.NewAppError(types.ErrAPICall, "malformed google translation payload", nil)
	}

	var sb strings.Builder
	for _, seg := range segments {
		parts, ok := seg.([]any)
		if !ok || len(parts) == 0 {
			continue
		}
		if s, ok := parts[0].(string); ok {
			sb.WriteString(s)
		}
	}
	return sb.String(), nil
}
