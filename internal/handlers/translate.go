package handlers

import (
	"encoding/json"
	"log"
	"net/http"
	"strings"
)

type translateRequest struct {
	Text   string `json:"text"`
	Target string `json:"target"`
	Source string `json:"source"`
}

// Translate proxies a translation request to the configured provider
// so the clients never see the API keys.
func Translate(w http.ResponseWriter, r *http.Request) {
	var req translateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if strings.TrimSpace(req.Text) == "" || req.Target == "" {
		respondError(w, http.StatusBadRequest, "Text and target language are required")
		return
	}

	if translator == nil || !translator.Enabled() {
		respondError(w, http.StatusInternalServerError, "Translation service not configured")
		return
	}

	translated, err := translator.Translate(r.Context(), req.Text, req.Source, req.Target)
	if err != nil {
		log.Printf("Translation error: %v", err)
		respondError(w, http.StatusInternalServerError, "Translation failed")
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"translatedText": translated})
}
