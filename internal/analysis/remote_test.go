package analysis

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ipvault/ipvault/internal/upstream"
)

func TestRemote_ForwardsMultipart(t *testing.T) {
	t.Parallel()

	var gotTitle, gotDesc, gotFileType string
	var gotData []byte

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Errorf("parse multipart: %v", err)
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		gotTitle = r.FormValue("title")
		gotDesc = r.FormValue("userDescription")
		file, header, err := r.FormFile("file")
		if err != nil {
			t.Errorf("form file: %v", err)
			return
		}
		defer file.Close()
		gotData, _ = io.ReadAll(file)
		gotFileType = header.Header.Get("Content-Type")

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"enhancedDescription":"remote desc","tags":["x"],"contentVector":[0.25]}`))
	}))
	defer srv.Close()

	remote := NewRemote(srv.URL, srv.Client())
	result, err := remote.Analyze(context.Background(), &Request{
		FileName:        "photo.png",
		FileType:        "image/png",
		Data:            []byte("pngbytes"),
		Title:           "Photo",
		UserDescription: "A photo",
	})
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}

	if gotTitle != "Photo" || gotDesc != "A photo" {
		t.Errorf("forwarded fields title=%q desc=%q", gotTitle, gotDesc)
	}
	if string(gotData) != "pngbytes" {
		t.Errorf("forwarded data %q", gotData)
	}
	if gotFileType != "image/png" {
		t.Errorf("forwarded file type %q", gotFileType)
	}
	if result.EnhancedDescription != "remote desc" || !result.IsMatch || result.ConfidenceScore != 0.85 {
		t.Errorf("unexpected normalized result: %+v", result)
	}
}

func TestRemote_ForwardsJSONForURLContent(t *testing.T) {
	t.Parallel()

	var body map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("content type = %q", ct)
		}
		json.NewDecoder(r.Body).Decode(&body)
		w.Write([]byte(`{"isMatch":false,"enhancedDescription":"d","tags":[],"contentVector":[]}`))
	}))
	defer srv.Close()

	remote := NewRemote(srv.URL, srv.Client())
	result, err := remote.Analyze(context.Background(), &Request{
		FileURL:  "https://ipfs.io/ipfs/cid",
		FileType: "image/jpeg",
		Title:    "T",
	})
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if body["fileUrl"] != "https://ipfs.io/ipfs/cid" || body["fileType"] != "image/jpeg" || body["title"] != "T" {
		t.Errorf("unexpected forwarded body: %v", body)
	}
	if result.IsMatch {
		t.Error("expected explicit isMatch=false to survive")
	}
}

func TestRemote_UpstreamErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		status      int
		body        string
		wantMessage string
		wantDetails bool
	}{
		{"error message surfaced", http.StatusBadGateway, `{"error":"model overloaded"}`, "model overloaded", true},
		{"generic message", http.StatusInternalServerError, `oops`, "AI service returned an error", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			_, err := NewRemote(srv.URL, srv.Client()).Analyze(context.Background(), &Request{FileName: "a", Data: []byte("a"), Title: "t"})

			var upErr *upstream.Error
			if !errors.As(err, &upErr) {
				t.Fatalf("expected *upstream.Error, got %v", err)
			}
			if upErr.StatusCode != tt.status {
				t.Errorf("status = %d, want %d", upErr.StatusCode, tt.status)
			}
			if upErr.Message != tt.wantMessage {
				t.Errorf("message = %q, want %q", upErr.Message, tt.wantMessage)
			}
			if (upErr.Details != nil) != tt.wantDetails {
				t.Errorf("details = %s, wantDetails %v", upErr.Details, tt.wantDetails)
			}
		})
	}
}

func TestRemote_Unreachable(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	_, err := NewRemote(url, nil).Analyze(context.Background(), &Request{FileName: "a", Data: []byte("a"), Title: "t"})

	var upErr *upstream.Error
	if !errors.As(err, &upErr) {
		t.Fatalf("expected *upstream.Error, got %v", err)
	}
	if upErr.StatusCode != 0 || upErr.Err == nil {
		t.Errorf("expected transport error, got %+v", upErr)
	}
}

func TestRemote_MalformedResponse(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		body string
	}{
		{"missing vector", `{"enhancedDescription":"d","tags":["a"]}`},
		{"not json", `not json`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			_, err := NewRemote(srv.URL, srv.Client()).Analyze(context.Background(), &Request{FileName: "a", Data: []byte("a"), Title: "t"})
			if !errors.Is(err, ErrMalformedResponse) {
				t.Fatalf("expected ErrMalformedResponse, got %v", err)
			}
		})
	}
}
