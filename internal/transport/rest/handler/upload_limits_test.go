package handler

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
)

// multipartBody builds a single-file multipart payload of the given size.
func multipartBody(t *testing.T, field string, size int) (*bytes.Buffer, string) {
	t.Helper()
	buf := new(bytes.Buffer)
	mw := multipart.NewWriter(buf)
	fw, err := mw.CreateFormFile(field, "upload.jpg")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := fw.Write(bytes.Repeat([]byte("x"), size)); err != nil {
		t.Fatal(err)
	}
	if err := mw.Close(); err != nil {
		t.Fatal(err)
	}
	return buf, mw.FormDataContentType()
}

func TestUploadPhotoRejectsOversizedBody(t *testing.T) {
	// an over-limit body must be refused at parse time, before any
	// service is reached (the handler has none wired here)
	h := NewProfileHandler(nil, nil, nil)

	body, contentType := multipartBody(t, "photo", maxPhotoSize+1)
	req := httptest.NewRequest(http.MethodPut, "/v1/me/photo", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()

	h.UploadPhoto(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusBadRequest)
	}
}

func TestPaymentRequestRejectsOversizedBody(t *testing.T) {
	h := NewPaymentHandler(nil)

	body, contentType := multipartBody(t, "screenshot", maxScreenshotSize+1)
	req := httptest.NewRequest(http.MethodPost, "/v1/payments", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()

	h.Request(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusBadRequest)
	}
}

func TestSubmitRejectsOversizedBody(t *testing.T) {
	h := NewSubmissionHandler(nil, nil)

	body, contentType := multipartBody(t, "essay_q1", maxSubmitSize+1)
	req := httptest.NewRequest(http.MethodPost, "/v1/exams/exam-1/submissions", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()

	h.Submit(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusBadRequest)
	}
}
