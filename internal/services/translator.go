package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const (
	googleTranslateURL = "https://translation.googleapis.com/language/translate/v2"
	deeplTranslateURL  = "https://api-free.deepl.com/v2/translate"
)

// ErrNoProvider is returned when neither translation API key is configured.
var ErrNoProvider = errors.New("no translation provider configured")

// Translator calls an external translation API. Google Translate is
// preferred; DeepL is used when only DEEPL_API_KEY is set.
type Translator struct {
	googleKey string
	deeplKey  string

	// Overridable for tests.
	GoogleURL string
	DeepLURL  string
	Client    *http.Client
}

func NewTranslator(googleKey, deeplKey string) *Translator {
	return &Translator{
		googleKey: googleKey,
		deeplKey:  deeplKey,
		GoogleURL: googleTranslateURL,
		DeepLURL:  deeplTranslateURL,
		Client:    &http.Client{Timeout: 15 * time.Second},
	}
}

// Enabled reports whether any provider is configured.
func (t *Translator) Enabled() bool {
	return t.googleKey != "" || t.deeplKey != ""
}

// Translate translates text from source into target. Source may be
// empty to let the provider detect the language.
func (t *Translator) Translate(ctx context.Context, text, source, target string) (string, error) {
	if text == "" {
		return "", nil
	}
	if t.googleKey != "" {
		return t.translateGoogle(ctx, text, source, target)
	}
	if t.deeplKey != "" {
		return t.translateDeepL(ctx, text, source, target)
	}
	return "", ErrNoProvider
}

// TranslateInto translates text into every target language. It returns
// the successful translations and a per-language error map, so callers
// can tell "translated" apart from "translation omitted". A failure for
// one language never affects the others.
func (t *Translator) TranslateInto(ctx context.Context, text, source string, targets []string) (map[string]string, map[string]error) {
	translated := make(map[string]string, len(targets))
	failed := make(map[string]error)
	for _, lang := range targets {
		if lang == source {
			continue
		}
		out, err := t.Translate(ctx, text, source, lang)
		if err != nil {
			failed[lang] = err
			continue
		}
		translated[lang] = out
	}
	return translated, failed
}

func (t *Translator) translateGoogle(ctx context.Context, text, source, target string) (string, error) {
	payload := map[string]string{
		"q":      text,
		"target": target,
		"format": "text",
	}
	if source != "" {
		payload["source"] = source
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return "", err
	}

	reqURL := t.GoogleURL + "?key=" + url.QueryEscape(t.googleKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, reqURL, strings.NewReader(string(body)))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := t.Client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", fmt.Errorf("translation API returned %d: %s", resp.StatusCode, string(data))
	}

	var result struct {
		Data struct {
			Translations []struct {
				TranslatedText string `json:"translatedText"`
			} `json:"translations"`
		} `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", err
	}
	if len(result.Data.Translations) == 0 {
		return "", errors.New("translation API returned no translations")
	}
	return result.Data.Translations[0].TranslatedText, nil
}

func (t *Translator) translateDeepL(ctx context.Context, text, source, target string) (string, error) {
	form := url.Values{}
	form.Set("text", text)
	form.Set("target_lang", strings.ToUpper(target))
	if source != "" {
		form.Set("source_lang", strings.ToUpper(source))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.DeepLURL, strings.NewReader(form.Encode()))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Authorization", "DeepL-Auth-Key "+t.deeplKey)

	resp, err := t.Client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", fmt.Errorf("translation API returned %d: %s", resp.StatusCode, string(data))
	}

	var result struct {
		Translations []struct {
			Text string `json:"text"`
		} `json:"translations"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", err
	}
	if len(result.Translations) == 0 {
		return "", errors.New("translation API returned no translations")
	}
	return result.Translations[0].Text, nil
}
