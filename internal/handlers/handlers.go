package handlers

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/dftasks/dftasks-backend/internal/config"
	"github.com/dftasks/dftasks-backend/internal/services"
)

// Package-level collaborators, set once at startup.
var (
	cfg           *config.Config
	translator    *services.Translator
	mailer        *services.Mailer
	cloudinarySvc *services.CloudinaryService
)

// Init wires the handlers to their configuration and services.
func Init(c *config.Config) {
	cfg = c
	translator = services.NewTranslator(c.GoogleTranslateAPIKey, c.DeepLAPIKey)
	if c.HasSMTP() {
		mailer = services.NewMailer(c.SMTPHost, c.SMTPPort, c.SMTPUser, c.SMTPPass)
	}
}

// InitCloudinaryService initializes the attachment upload service.
func InitCloudinaryService(c *config.Config) error {
	svc, err := services.NewCloudinaryService(c.CloudinaryName, c.CloudinaryAPIKey, c.CloudinaryAPISecret)
	if err != nil {
		return err
	}
	cloudinarySvc = svc
	return nil
}

func respondJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("Error encoding response: %v", err)
	}
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"message": message})
}
