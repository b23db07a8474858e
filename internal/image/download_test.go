package imagepkg

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestRetrieveFileURLCopiesExactBytes(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "x.png")
	content := []byte{0x89, 'P', 'N', 'G', 0x00, 0xff, 0x10}
	if err := os.WriteFile(src, content, 0o644); err != nil {
		t.Fatal(err)
	}

	r := NewRetriever(Paths{Root: filepath.Join(dir, "data")}, time.Second)
	dest, err := r.Retrieve(context.Background(), "file://"+filepath.ToSlash(src), 7)
	if err != nil {
		t.Fatalf("Retrieve: %v", err)
	}
	if want := filepath.Join(dir, "data", "cards", "images", "7-art.png"); dest != want {
		t.Errorf("dest = %q, want %q", dest, want)
	}
	got, err := os.ReadFile(dest)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(got, content) {
		t.Errorf("copied bytes = %v, want %v", got, content)
	}
}

func TestRetrieveOverwritesDestination(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "x.png")
	r := NewRetriever(Paths{Root: dir}, time.Second)

	for _, body := range []string{"first version, longer", "second"} {
		if err := os.WriteFile(src, []byte(body), 0o644); err != nil {
			t.Fatal(err)
		}
		dest, err := r.Retrieve(context.Background(), src, 3)
		if err != nil {
			t.Fatalf("Retrieve: %v", err)
		}
		got, _ := os.ReadFile(dest)
		if string(got) != body {
			t.Errorf("dest content = %q, want %q", got, body)
		}
	}
}

func TestRetrieveMissingLocalFile(t *testing.T) {
	r := NewRetriever(Paths{Root: t.TempDir()}, time.Second)
	_, err := r.Retrieve(context.Background(), "file:///definitely/not/here.png", 1)
	var re *RetrievalError
	if !errors.As(err, &re) || re.Kind != NotFound {
		t.Fatalf("expected NotFound RetrievalError, got %v", err)
	}
}

func TestRetrieveHTTP(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/art/fireball.png" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "image/png")
		w.Write([]byte("remote-bytes"))
	}))
	defer srv.Close()

	dir := t.TempDir()
	r := NewRetriever(Paths{Root: dir}, time.Second)

	dest, err := r.Retrieve(context.Background(), srv.URL+"/art/fireball.png", 1)
	if err != nil {
		t.Fatalf("Retrieve: %v", err)
	}
	got, _ := os.ReadFile(dest)
	if string(got) != "remote-bytes" {
		t.Errorf("dest content = %q", got)
	}

	_, err = r.Retrieve(context.Background(), srv.URL+"/art/missing.png", 2)
	var re *RetrievalError
	if !errors.As(err, &re) || re.Kind != TransferFailed {
		t.Fatalf("expected TransferFailed for 404, got %v", err)
	}
	if _, err := os.Stat(r.Paths.CardArt(2)); !os.IsNotExist(err) {
		t.Error("failed fetch should not create the art file")
	}
}

func TestRetrieveUnsupportedScheme(t *testing.T) {
	r := NewRetriever(Paths{Root: t.TempDir()}, time.Second)
	_, err := r.Retrieve(context.Background(), "ftp://example.com/x.png", 1)
	var re *RetrievalError
	if !errors.As(err, &re) || re.Kind != TransferFailed {
		t.Fatalf("expected TransferFailed, got %v", err)
	}
}

func TestLocalPathWithHost(t *testing.T) {
	cases := map[string]string{
		"file:///tmp/x.png":          filepath.FromSlash("/tmp/x.png"),
		"file://localhost/tmp/x.png": filepath.FromSlash("/tmp/x.png"),
		"file://assets/fireball.png": filepath.Join("assets", "fireball.png"),
	}
	for raw, want := range cases {
		u, err := url.Parse(raw)
		if err != nil {
			t.Fatal(err)
		}
		if got := localPath(u); got != want {
			t.Errorf("localPath(%q) = %q, want %q", raw, got, want)
		}
	}
}
