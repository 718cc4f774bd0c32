package http

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestClient_GetString(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if ua := r.Header.Get("User-Agent"); ua != "test-agent" {
			t.Errorf("User-Agent = %q, want %q", ua, "test-agent")
		}
		if ref := r.Header.Get("Referer"); ref != "https://example.com/" {
			t.Errorf("Referer = %q, want %q", ref, "https://example.com/")
		}
		w.Write([]byte("#EXTM3U\n"))
	}))
	defer server.Close()

	client := NewClient(Options{
		UserAgent: "test-agent",
		Headers:   map[string]string{"Referer": "https://example.com/"},
	})

	body, err := client.GetString(context.Background(), server.URL)
	if err != nil {
		t.Fatalf("GetString failed: %v", err)
	}
	if body != "#EXTM3U\n" {
		t.Errorf("body = %q", body)
	}
}

func TestClient_StatusError(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		wantErr bool
	}{
		{"ok", http.StatusOK, false},
		{"no content", http.StatusNoContent, false},
		{"not found", http.StatusNotFound, true},
		{"server error", http.StatusInternalServerError, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
			}))
			defer server.Close()

			_, err := NewClient(Options{}).Get(context.Background(), server.URL)
			if !tt.wantErr {
				if err != nil {
					t.Errorf("unexpected error: %v", err)
				}
				return
			}

			var se *StatusError
			if !errors.As(err, &se) {
				t.Fatalf("expected *StatusError, got %v", err)
			}
			if se.StatusCode != tt.status {
				t.Errorf("StatusCode = %d, want %d", se.StatusCode, tt.status)
			}
		})
	}
}

func TestClient_DownloadFile(t *testing.T) {
	payload := []byte("0123456789abcdef")
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write(payload)
	}))
	defer server.Close()

	dest := filepath.Join(t.TempDir(), "00000.ts")
	var reported int64
	n, err := NewClient(Options{}).DownloadFile(context.Background(), server.URL, dest, func(delta, written int64) {
		reported += delta
	})
	if err != nil {
		t.Fatalf("DownloadFile failed: %v", err)
	}
	if n != int64(len(payload)) || reported != n {
		t.Errorf("n = %d, reported = %d, want %d", n, reported, len(payload))
	}

	got, err := os.ReadFile(dest)
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != string(payload) {
		t.Errorf("file content = %q", got)
	}
}

func TestClient_DownloadFile_NoFileOnStatusError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	dest := filepath.Join(t.TempDir(), "00001.ts")
	if _, err := NewClient(Options{}).DownloadFile(context.Background(), server.URL, dest, nil); err == nil {
		t.Fatal("expected error")
	}
	if _, err := os.Stat(dest); !os.IsNotExist(err) {
		t.Errorf("partial file left behind: %v", err)
	}
}

func TestClient_Timeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer server.Close()

	_, err := NewClient(Options{Timeout: 20 * time.Millisecond}).Get(context.Background(), server.URL)
	if err == nil {
		t.Fatal("expected timeout error")
	}
}

func TestClient_Download(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/missing" {
			http.NotFound(w, r)
			return
		}
		w.Write([]byte("segment-bytes"))
	}))
	defer server.Close()

	client := NewClient(Options{})

	var buf bytes.Buffer
	n, err := client.Download(context.Background(), server.URL+"/seg.ts", &buf)
	if err != nil {
		t.Fatalf("Download failed: %v", err)
	}
	if n != 13 || buf.String() != "segment-bytes" {
		t.Errorf("Download = %d, %q", n, buf.String())
	}

	buf.Reset()
	_, err = client.Download(context.Background(), server.URL+"/missing", &buf)
	var se *StatusError
	if !errors.As(err, &se) || se.StatusCode != http.StatusNotFound {
		t.Errorf("err = %v, want 404 StatusError", err)
	}
	if buf.Len() != 0 {
		t.Errorf("body written on error status: %q", buf.String())
	}
}
