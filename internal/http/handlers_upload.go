package http

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"path"
	"strings"
	"time"

	"movimenti/internal/blob"
)

type uploadRequest struct {
	ImageBase64 string `json:"imageBase64"`
	FileName    string `json:"fileName"`
}

type uploadResponse struct {
	URL string `json:"url"`
}

func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	var req uploadRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondBadRequest(w, "invalid JSON body")
		return
	}
	if req.ImageBase64 == "" {
		respondBadRequest(w, "missing required fields: imageBase64")
		return
	}

	// Accept data-URL payloads by stripping the "data:<mime>;base64," prefix.
	payload := req.ImageBase64
	if strings.HasPrefix(payload, "data:") {
		if i := strings.Index(payload, ","); i >= 0 {
			payload = payload[i+1:]
		}
	}

	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		respondBadRequest(w, "invalid base64 image data")
		return
	}

	fileName := strings.TrimSpace(req.FileName)
	if fileName == "" {
		fileName = fmt.Sprintf("receipt_%d.jpg", time.Now().UnixMilli())
	}
	// Strip any path components the caller smuggled in.
	fileName = path.Base(fileName)

	contentType := http.DetectContentType(data)

	url, err := s.blobs.Upload(r.Context(), fileName, data, contentType)
	if err != nil {
		respondError(w, r, err, "file not found")
		return
	}
	respondOK(w, uploadResponse{URL: url}, "File uploaded")
}

func (s *Server) handleDeleteUpload(w http.ResponseWriter, r *http.Request) {
	fileName := path.Base(r.PathValue("fileName"))

	if err := s.blobs.Delete(r.Context(), blob.Folder+fileName); err != nil {
		respondError(w, r, err, "file not found")
		return
	}
	respondOK(w, nil, "File deleted")
}
