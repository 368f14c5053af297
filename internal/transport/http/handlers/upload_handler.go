package handlers

import (
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"path/filepath"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
)

const maxUploadSize = 10 << 20 // 10 MiB

type UploadHandler struct {
	uploadDir string
}

func NewUploadHandler(uploadDir string) *UploadHandler {
	return &UploadHandler{uploadDir: uploadDir}
}

// Upload stores the posted file under a random name and returns its URL. The
// extension comes from the sniffed content, not the client-supplied filename.
func (h *UploadHandler) Upload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize)

	file, _, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "MISSING_FILE", "A file field is required")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		writeError(w, http.StatusBadRequest, "READ_FAILED", "Could not read uploaded file")
		return
	}

	mtype := mimetype.Detect(data)
	name := fmt.Sprintf("%s%s", uuid.New(), mtype.Extension())
	path := filepath.Join(h.uploadDir, name)

	if err := os.MkdirAll(h.uploadDir, 0o755); err != nil {
		log.Printf("ERROR upload mkdir: %v", err)
		writeError(w, http.StatusInternalServerError, "INTERNAL", "Something went wrong")
		return
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		log.Printf("ERROR upload write: %v", err)
		writeError(w, http.StatusInternalServerError, "INTERNAL", "Something went wrong")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"url": "/" + filepath.ToSlash(path),
	})
}
