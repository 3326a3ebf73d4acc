package controllers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

type recordingUploader struct {
	object      string
	contentType string
	data        []byte
	err         error
}

func (u *recordingUploader) Upload(_ context.Context, object, contentType string, body io.Reader) (string, error) {
	if u.err != nil {
		return "", u.err
	}
	data, err := io.ReadAll(body)
	if err != nil {
		return "", err
	}
	u.object, u.contentType, u.data = object, contentType, data
	return "https://storage.googleapis.com/bucket/" + object, nil
}

var pngHeader = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01\x08\x06\x00\x00\x00")

func multipartRequest(t *testing.T, fileName string, data []byte) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	if err := mw.WriteField("note", "ignored"); err != nil {
		t.Fatalf("write field: %v", err)
	}
	part, err := mw.CreateFormFile("file", fileName)
	if err != nil {
		t.Fatalf("create part: %v", err)
	}
	if _, err := part.Write(data); err != nil {
		t.Fatalf("write part: %v", err)
	}
	if err := mw.Close(); err != nil {
		t.Fatalf("close writer: %v", err)
	}
	req := httptest.NewRequest(http.MethodPost, "/api/products/upload", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func TestUploadProductImageStoresSniffedImage(t *testing.T) {
	uploader := &recordingUploader{}
	settings := UploadSettings{MaxBytes: 1 << 20, ObjectPrefix: "products/"}
	rec := httptest.NewRecorder()

	UploadProductImage(uploader, settings, testLogger()).ServeHTTP(rec, multipartRequest(t, "leaf.jpeg", pngHeader))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d (%s)", rec.Code, rec.Body.String())
	}
	if !strings.HasPrefix(uploader.object, "products/") || !strings.HasSuffix(uploader.object, ".png") {
		t.Fatalf("unexpected object name %q", uploader.object)
	}
	if uploader.contentType != "image/png" {
		t.Fatalf("unexpected content type %q", uploader.contentType)
	}
	if !bytes.Equal(uploader.data, pngHeader) {
		t.Fatalf("uploaded bytes differ")
	}
	var body map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body["url"] != "https://storage.googleapis.com/bucket/"+uploader.object {
		t.Fatalf("unexpected url %q", body["url"])
	}
}

func TestUploadProductImageRejections(t *testing.T) {
	settings := UploadSettings{MaxBytes: 64, ObjectPrefix: "products/"}

	cases := []struct {
		name string
		req  func(t *testing.T) *http.Request
	}{
		{"not multipart", func(*testing.T) *http.Request {
			req := httptest.NewRequest(http.MethodPost, "/api/products/upload", strings.NewReader(`{}`))
			req.Header.Set("Content-Type", "application/json")
			return req
		}},
		{"not an image", func(t *testing.T) *http.Request {
			return multipartRequest(t, "notes.txt", []byte("plain text body"))
		}},
		{"too large", func(t *testing.T) *http.Request {
			return multipartRequest(t, "big.png", append(append([]byte{}, pngHeader...), bytes.Repeat([]byte{0}, 128)...))
		}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			uploader := &recordingUploader{}
			rec := httptest.NewRecorder()

			UploadProductImage(uploader, settings, testLogger()).ServeHTTP(rec, tc.req(t))

			if rec.Code != http.StatusBadRequest {
				t.Fatalf("expected 400, got %d (%s)", rec.Code, rec.Body.String())
			}
			if uploader.object != "" {
				t.Fatalf("nothing should be uploaded")
			}
		})
	}
}

func TestUploadProductImageStorageFailure(t *testing.T) {
	uploader := &recordingUploader{err: errors.New("bucket offline")}
	settings := UploadSettings{MaxBytes: 1 << 20, ObjectPrefix: "products/"}
	rec := httptest.NewRecorder()

	UploadProductImage(uploader, settings, testLogger()).ServeHTTP(rec, multipartRequest(t, "leaf.png", pngHeader))

	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", rec.Code)
	}
}
