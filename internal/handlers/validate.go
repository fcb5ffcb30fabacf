package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"mime"
	"net/http"
)

// лимит тела как у express.json()
const maxBodyBytes = 100 << 10

func checkContentType(r *http.Request, target string) bool {
	contentType := r.Header.Get("Content-Type")
	if contentType == "" {
		return false
	}

	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return false
	}

	return mediaType == target
}

// decodeBody читает JSON-тело в dst. Тело не-JSON типа или пустое
// считается пустым объектом.
func decodeBody(w http.ResponseWriter, r *http.Request, dst any) error {
	if r.Body == nil || !checkContentType(r, "application/json") {
		return nil
	}

	decoder := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := decoder.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return err
	}
	return nil
}
