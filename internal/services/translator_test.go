package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func googleResponse(text string) string {
	return fmt.Sprintf(`{"data":{"translations":[{"translatedText":%q}]}}`, text)
}

func TestTranslateGoogle(t *testing.T) {
	var gotTarget, gotText string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var payload map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		gotTarget = payload["target"]
		gotText = payload["q"]
		fmt.Fprint(w, googleResponse("Hej världen"))
	}))
	defer server.Close()

	tr := NewTranslator("google-key", "")
	tr.GoogleURL = server.URL

	out, err := tr.Translate(context.Background(), "Hello world", "en", "sv")
	require.NoError(t, err)
	assert.Equal(t, "Hej världen", out)
	assert.Equal(t, "sv", gotTarget)
	assert.Equal(t, "Hello world", gotText)
}

func TestTranslateDeepLFallback(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "SV", r.Form.Get("target_lang"))
		assert.NotEmpty(t, r.Header.Get("Authorization"))
		fmt.Fprint(w, `{"translations":[{"text":"Hej"}]}`)
	}))
	defer server.Close()

	// Only the DeepL key is set, so the DeepL endpoint is used.
	tr := NewTranslator("", "deepl-key")
	tr.DeepLURL = server.URL

	out, err := tr.Translate(context.Background(), "Hi", "en", "sv")
	require.NoError(t, err)
	assert.Equal(t, "Hej", out)
}

func TestTranslateNoProvider(t *testing.T) {
	tr := NewTranslator("", "")
	assert.False(t, tr.Enabled())

	_, err := tr.Translate(context.Background(), "Hello", "en", "sv")
	assert.ErrorIs(t, err, ErrNoProvider)
}

func TestTranslateEmptyText(t *testing.T) {
	tr := NewTranslator("", "")
	out, err := tr.Translate(context.Background(), "", "en", "sv")
	require.NoError(t, err)
	assert.Equal(t, "", out)
}

func TestTranslateAPIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"quota exceeded"}`, http.StatusForbidden)
	}))
	defer server.Close()

	tr := NewTranslator("google-key", "")
	tr.GoogleURL = server.URL

	_, err := tr.Translate(context.Background(), "Hello", "en", "sv")
	assert.ErrorContains(t, err, "403")
}

func TestTranslateIntoPartialFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var payload map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		if payload["target"] == "pl" {
			http.Error(w, "boom", http.StatusInternalServerError)
			return
		}
		fmt.Fprint(w, googleResponse("översatt:"+payload["target"]))
	}))
	defer server.Close()

	tr := NewTranslator("google-key", "")
	tr.GoogleURL = server.URL

	translated, failed := tr.TranslateInto(context.Background(), "Hello", "en", []string{"sv", "pl", "uk"})

	assert.Equal(t, "översatt:sv", translated["sv"])
	assert.Equal(t, "översatt:uk", translated["uk"])
	assert.NotContains(t, translated, "pl")
	assert.Contains(t, failed, "pl")
	assert.Len(t, failed, 1)
}

func TestTranslateIntoSkipsSourceLanguage(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, googleResponse("x"))
	}))
	defer server.Close()

	tr := NewTranslator("google-key", "")
	tr.GoogleURL = server.URL

	translated, failed := tr.TranslateInto(context.Background(), "Hello", "en", []string{"en", "sv"})

	assert.NotContains(t, translated, "en")
	assert.Contains(t, translated, "sv")
	assert.Empty(t, failed)
}
