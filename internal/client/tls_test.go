package client

import (
	"encoding/pem"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestNewHTTPClient_NoCA(t *testing.T) {
	c, err := NewHTTPClient("", 3*time.Second)
	if err != nil {
		t.Fatalf("NewHTTPClient error: %v", err)
	}
	if c.Timeout != 3*time.Second {
		t.Errorf("Timeout = %v", c.Timeout)
	}
}

func TestNewHTTPClient_Errors(t *testing.T) {
	dir := t.TempDir()
	bad := filepath.Join(dir, "bad.pem")
	if err := os.WriteFile(bad, []byte("not a cert"), 0600); err != nil {
		t.Fatal(err)
	}

	if _, err := NewHTTPClient(filepath.Join(dir, "missing.pem"), 0); err == nil || !strings.Contains(err.Error(), "failed to read CA cert") {
		t.Errorf("missing file: got %v", err)
	}
	if _, err := NewHTTPClient(bad, 0); err == nil || !strings.Contains(err.Error(), "failed to parse CA cert") {
		t.Errorf("bad PEM: got %v", err)
	}
}

func TestNewHTTPClient_TrustsCA(t *testing.T) {
	srv := httptest.NewTLSServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	caFile := filepath.Join(t.TempDir(), "ca.pem")
	pemBytes := pem.EncodeToMemory(&pem.Block{Type: "CERTIFICATE", Bytes: srv.Certificate().Raw})
	if err := os.WriteFile(caFile, pemBytes, 0600); err != nil {
		t.Fatal(err)
	}

	c, err := NewHTTPClient(caFile, time.Second)
	if err != nil {
		t.Fatalf("NewHTTPClient error: %v", err)
	}
	resp, err := c.Get(srv.URL)
	if err != nil {
		t.Fatalf("GET over TLS failed: %v", err)
	}
	resp.Body.Close()
}
