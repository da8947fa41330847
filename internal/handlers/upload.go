package handlers

import (
	"log"
	"net/http"
)

// UploadFile accepts a multipart attachment (photo of the reported
// fault, contractor document) and stores it in Cloudinary. The
// returned URL can be attached to a task.
func UploadFile(w http.ResponseWriter, r *http.Request) {
	if cloudinarySvc == nil {
		log.Println("ERROR: Cloudinary service not initialized")
		respondError(w, http.StatusInternalServerError, "File upload service not available")
		return
	}

	if err := r.ParseMultipartForm(10 << 20); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid multipart form")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		respondError(w, http.StatusBadRequest, "File is required")
		return
	}
	defer file.Close()

	url, err := cloudinarySvc.UploadFile(r.Context(), file, "dftasks")
	if err != nil {
		log.Printf("ERROR: Upload failed for %s: %v", header.Filename, err)
		respondError(w, http.StatusInternalServerError, "Failed to upload file")
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"url": url})
}
