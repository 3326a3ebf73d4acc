package controllers

import (
	"bytes"
	"context"
	"errors"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"path"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"

	"github.com/angelmondragon/biowe-backend/api/responses"
	pkgerrors "github.com/angelmondragon/biowe-backend/pkg/errors"
	"github.com/angelmondragon/biowe-backend/pkg/logger"
)

const defaultImageExt = "jpg"

// ObjectUploader stores a blob and returns its public URL.
type ObjectUploader interface {
	Upload(ctx context.Context, object, contentType string, body io.Reader) (string, error)
}

// UploadSettings bounds and places product image uploads.
type UploadSettings struct {
	MaxBytes     int64
	ObjectPrefix string
}

// UploadProductImage accepts a multipart image under any file field, stores it
// as <prefix><uuid>.<ext> and responds with {"url": ...}.
func UploadProductImage(uploader ObjectUploader, settings UploadSettings, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if uploader == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "object storage unavailable"))
			return
		}

		mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
		if err != nil || mediaType != "multipart/form-data" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "Invalid content type"))
			return
		}
		reader, err := r.MultipartReader()
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "Invalid content type"))
			return
		}

		fileName, data, err := readFirstFile(reader, settings.MaxBytes)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		detected := mimetype.Detect(data)
		if !strings.HasPrefix(detected.String(), "image/") {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "Only image uploads are allowed").
				WithDetails(map[string]any{"contentType": detected.String()}))
			return
		}

		object := settings.ObjectPrefix + uuid.NewString() + "." + imageExtension(detected, fileName)
		contentType, _, _ := strings.Cut(detected.String(), ";")
		url, err := uploader.Upload(r.Context(), object, contentType, bytes.NewReader(data))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "Upload failed"))
			return
		}

		logg.Info(logg.WithField(r.Context(), "object", object), "product.image_uploaded")
		responses.WriteSuccess(w, map[string]string{"url": url})
	}
}

func readFirstFile(reader *multipart.Reader, maxBytes int64) (string, []byte, error) {
	for {
		part, err := reader.NextPart()
		if errors.Is(err, io.EOF) {
			return "", nil, pkgerrors.New(pkgerrors.CodeValidation, "No file uploaded")
		}
		if err != nil {
			return "", nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid multipart body")
		}
		if part.FileName() == "" {
			_ = part.Close()
			continue
		}

		data, err := io.ReadAll(io.LimitReader(part, maxBytes+1))
		_ = part.Close()
		if err != nil {
			return "", nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "failed to read upload")
		}
		if int64(len(data)) > maxBytes {
			return "", nil, pkgerrors.New(pkgerrors.CodeValidation, "File too large").
				WithDetails(map[string]any{"maxBytes": maxBytes})
		}
		if len(data) == 0 {
			return "", nil, pkgerrors.New(pkgerrors.CodeValidation, "No file uploaded")
		}
		return part.FileName(), data, nil
	}
}

// imageExtension prefers the sniffed type, then the client file name.
func imageExtension(detected *mimetype.MIME, fileName string) string {
	if ext := strings.TrimPrefix(detected.Extension(), "."); ext != "" {
		return ext
	}
	if ext := strings.TrimPrefix(path.Ext(fileName), "."); ext != "" {
		return strings.ToLower(ext)
	}
	return defaultImageExt
}
