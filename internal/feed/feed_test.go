package feed

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"signal-desk/internal/errors"
)

func TestFetchURL(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[{"symbol":"ABC","score":5},{"symbol":"XYZ","score":3}]`))
	}))
	defer server.Close()

	f := New()
	records, err := f.Fetch(context.Background(), server.URL)
	if err != nil {
		t.Fatalf("Fetch() error: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(records))
	}
	if records[0]["symbol"] != "ABC" {
		t.Errorf("first record symbol = %v", records[0]["symbol"])
	}
}

func TestFetchURLNonSuccessStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer server.Close()

	f := New()
	_, err := f.Fetch(context.Background(), server.URL)
	if err == nil {
		t.Fatal("expected error for 500 response")
	}

	var srcErr *errors.SourceError
	if !errors.As(err, &srcErr) {
		t.Fatalf("expected SourceError, got %T", err)
	}
	if srcErr.StatusCode != http.StatusInternalServerError {
		t.Errorf("status = %d", srcErr.StatusCode)
	}
}

func TestFetchURLMalformedJSON(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"not": "closed`))
	}))
	defer server.Close()

	f := New()
	_, err := f.Fetch(context.Background(), server.URL)

	var srcErr *errors.SourceError
	if !errors.As(err, &srcErr) {
		t.Fatalf("expected SourceError for malformed JSON, got %v", err)
	}
}

func TestFetchURLUnreachableHost(t *testing.T) {
	f := New()
	_, err := f.Fetch(context.Background(), "http://127.0.0.1:1/feed.json")
	if err == nil {
		t.Fatal("expected transport error")
	}
}

func TestFetchFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scan.json")
	if err := os.WriteFile(path, []byte(`[{"ticker":"DEF","gain_pct":"4.2"}]`), 0o644); err != nil {
		t.Fatal(err)
	}

	f := New()
	records, err := f.Fetch(context.Background(), path)
	if err != nil {
		t.Fatalf("Fetch() error: %v", err)
	}
	if len(records) != 1 || records[0]["ticker"] != "DEF" {
		t.Fatalf("unexpected records: %v", records)
	}
}

func TestFetchFileMissing(t *testing.T) {
	f := New()
	records, err := f.Fetch(context.Background(), filepath.Join(t.TempDir(), "nope.json"))
	if err != nil {
		t.Fatalf("missing file should not error, got %v", err)
	}
	if records != nil {
		t.Fatalf("expected nil records, got %v", records)
	}
}

func TestFetchEmptySource(t *testing.T) {
	f := New()
	records, err := f.Fetch(context.Background(), "")
	if err != nil || records != nil {
		t.Fatalf("empty source should be (nil, nil), got (%v, %v)", records, err)
	}
}

func TestFetchNonArrayTopLevel(t *testing.T) {
	path := filepath.Join(t.TempDir(), "obj.json")
	if err := os.WriteFile(path, []byte(`{"status":"ok"}`), 0o644); err != nil {
		t.Fatal(err)
	}

	f := New()
	records, err := f.Fetch(context.Background(), path)
	if err != nil {
		t.Fatalf("non-array top level should not error, got %v", err)
	}
	if records != nil {
		t.Fatalf("expected no data, got %v", records)
	}
}

func TestFetchSkipsNonObjectEntries(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mixed.json")
	if err := os.WriteFile(path, []byte(`[{"symbol":"A"}, 42, "junk", {"symbol":"B"}]`), 0o644); err != nil {
		t.Fatal(err)
	}

	f := New()
	records, err := f.Fetch(context.Background(), path)
	if err != nil {
		t.Fatalf("Fetch() error: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("expected 2 object records, got %d", len(records))
	}
}
