package uploader

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func memSource(name, mimeType string, content []byte) Source {
	return Source{
		Name:     name,
		Size:     int64(len(content)),
		MimeType: mimeType,
		Open: func() (io.ReadCloser, error) {
			return io.NopCloser(bytes.NewReader(content)), nil
		},
	}
}

func TestSendSuccess(t *testing.T) {
	content := bytes.Repeat([]byte("abcdefgh"), 512)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer tok" {
			t.Errorf("unexpected Authorization header %q", got)
		}

		f, fh, err := r.FormFile("file")
		if err != nil {
			t.Errorf("FormFile: %v", err)
			http.Error(w, "bad form", http.StatusBadRequest)
			return
		}
		defer f.Close()
		if fh.Filename != "notes.txt" {
			t.Errorf("unexpected filename %q", fh.Filename)
		}
		if ct := fh.Header.Get("Content-Type"); ct != "text/plain" {
			t.Errorf("part Content-Type = %q, want text/plain", ct)
		}
		got, _ := io.ReadAll(f)
		if !bytes.Equal(got, content) {
			t.Errorf("server received %d bytes, want %d", len(got), len(content))
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"success":true,"data":{"id":"abc","originalName":"notes.txt","mimeType":"text/plain","size":4096}}`))
	}))
	defer srv.Close()

	tr := &Transport{URL: srv.URL, Token: "tok"}

	var progress []int
	info, err := tr.Send(context.Background(), memSource("notes.txt", "text/plain", content), func(pct int) {
		progress = append(progress, pct)
	})
	if err != nil {
		t.Fatalf("Send returned error: %v", err)
	}
	if info.ID != "abc" || info.OriginalName != "notes.txt" {
		t.Fatalf("unexpected file info: %+v", info)
	}

	if len(progress) == 0 {
		t.Fatalf("no progress reported")
	}
	for i := 1; i < len(progress); i++ {
		if progress[i] <= progress[i-1] {
			t.Fatalf("progress not strictly increasing: %v", progress)
		}
	}
	if last := progress[len(progress)-1]; last != 100 {
		t.Fatalf("final progress = %d, want 100", last)
	}
}

func TestSendServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.Copy(io.Discard, r.Body)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusConflict)
		_, _ = w.Write([]byte(`{"success":false,"error":{"code":"DUPLICATE_NAME","message":"a file with this name already exists"}}`))
	}))
	defer srv.Close()

	tr := &Transport{URL: srv.URL}
	_, err := tr.Send(context.Background(), memSource("a.txt", "text/plain", []byte("x")), nil)

	var serr *ServerError
	if !errors.As(err, &serr) {
		t.Fatalf("expected *ServerError, got %v", err)
	}
	if serr.Status != http.StatusConflict || serr.Code != "DUPLICATE_NAME" {
		t.Fatalf("unexpected server error: %+v", serr)
	}
	if serr.Message != "a file with this name already exists" {
		t.Fatalf("unexpected message %q", serr.Message)
	}
}

func TestSendNonJSONError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.Copy(io.Discard, r.Body)
		http.Error(w, "tripped over the power cord", http.StatusInternalServerError)
	}))
	defer srv.Close()

	tr := &Transport{URL: srv.URL}
	_, err := tr.Send(context.Background(), memSource("a.txt", "text/plain", []byte("x")), nil)

	var serr *ServerError
	if !errors.As(err, &serr) {
		t.Fatalf("expected *ServerError, got %v", err)
	}
	if serr.Message != "upload failed" {
		t.Fatalf("expected generic message, got %q", serr.Message)
	}
}

func TestSendUnparsableSuccess(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.Copy(io.Discard, r.Body)
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte("not json"))
	}))
	defer srv.Close()

	tr := &Transport{URL: srv.URL}
	_, err := tr.Send(context.Background(), memSource("a.txt", "text/plain", []byte("x")), nil)
	if err == nil || err.Error() != "failed to parse response" {
		t.Fatalf("expected parse failure, got %v", err)
	}
}

// blockingReader stalls until its channel closes, simulating a stream
// the transport cannot drain.
type blockingReader struct {
	release chan struct{}
}

func (r *blockingReader) Read([]byte) (int, error) {
	<-r.release
	return 0, io.EOF
}

func (r *blockingReader) Close() error { return nil }

func TestSendCancelledMidFlight(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.Copy(io.Discard, r.Body)
	}))
	defer srv.Close()

	release := make(chan struct{})
	defer close(release)
	src := Source{
		Name:     "slow.txt",
		Size:     1 << 20,
		MimeType: "text/plain",
		Open: func() (io.ReadCloser, error) {
			return &blockingReader{release: release}, nil
		},
	}

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(50 * time.Millisecond)
		cancel()
	}()

	tr := &Transport{URL: srv.URL}
	_, err := tr.Send(ctx, src, nil)
	if !errors.Is(err, ErrCancelled) {
		t.Fatalf("expected ErrCancelled, got %v", err)
	}
}

func TestSendConnectionFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // nothing is listening anymore

	tr := &Transport{URL: srv.URL}
	_, err := tr.Send(context.Background(), memSource("a.txt", "text/plain", []byte("x")), nil)
	if !errors.Is(err, ErrNetwork) {
		t.Fatalf("expected ErrNetwork, got %v", err)
	}
}

func TestFileSource(t *testing.T) {
	path := filepath.Join(t.TempDir(), "notes.txt")
	if err := os.WriteFile(path, []byte("hello"), 0644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	src, err := FileSource(path)
	if err != nil {
		t.Fatalf("FileSource returned error: %v", err)
	}
	if src.Name != "notes.txt" || src.Size != 5 {
		t.Fatalf("unexpected source: %+v", src)
	}
	// Parameters like charset must be stripped.
	if src.MimeType != "text/plain" {
		t.Fatalf("MimeType = %q, want text/plain", src.MimeType)
	}

	rc, err := src.Open()
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer rc.Close()
	got, _ := io.ReadAll(rc)
	if string(got) != "hello" {
		t.Fatalf("unexpected content %q", got)
	}

	if _, err := FileSource(filepath.Join(t.TempDir(), "missing.txt")); err == nil {
		t.Fatalf("expected error for missing file")
	}
}

func TestProgressWriterClampsAndDeduplicates(t *testing.T) {
	var got []int
	w := &progressWriter{total: 10, onProgress: func(pct int) { got = append(got, pct) }}

	for i := 0; i < 12; i++ {
		if _, err := w.Write([]byte("x")); err != nil {
			t.Fatalf("Write: %v", err)
		}
	}

	if got[len(got)-1] != 100 {
		t.Fatalf("final percentage = %d, want 100", got[len(got)-1])
	}
	seen := map[int]bool{}
	for _, pct := range got {
		if pct < 0 || pct > 100 {
			t.Fatalf("percentage out of range: %d", pct)
		}
		if seen[pct] {
			t.Fatalf("duplicate percentage emitted: %v", got)
		}
		seen[pct] = true
	}
}

func TestQuotedFilenames(t *testing.T) {
	var disposition string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, fh, err := r.FormFile("file")
		if err == nil {
			disposition = fh.Header.Get("Content-Disposition")
		}
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"success":true,"data":{"id":"x"}}`))
	}))
	defer srv.Close()

	tr := &Transport{URL: srv.URL}
	if _, err := tr.Send(context.Background(), memSource(`we "love" go.txt`, "text/plain", []byte("x")), nil); err != nil {
		t.Fatalf("Send returned error: %v", err)
	}
	if !strings.Contains(disposition, `filename="we \"love\" go.txt"`) {
		t.Fatalf("quotes not escaped in disposition: %q", disposition)
	}
}
