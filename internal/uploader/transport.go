// Package uploader is the client side of Rehearse file uploads: one
// HTTP transport per file with byte-accurate progress, plus an
// orchestrator that drives whole batches with cancel and retry.
package uploader

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"os"
	"path/filepath"
	"strings"
	"time"
)

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

var (
	ErrCancelled = errors.New("upload cancelled")
	ErrNetwork   = errors.New("network error during upload")
)

// ServerError is a structured rejection parsed from the server's error
// envelope.
type ServerError struct {
	Status  int
	Code    string
	Message string
}

func (e *ServerError) Error() string { return e.Message }

// FileInfo is the server-assigned identity of an uploaded file,
// mirroring the API's file metadata shape.
type FileInfo struct {
	ID            string    `json:"id"`
	SkillFolderID string    `json:"skillFolderId"`
	Filename      string    `json:"filename"`
	OriginalName  string    `json:"originalName"`
	MimeType      string    `json:"mimeType"`
	Size          int64     `json:"size"`
	ContentHash   string    `json:"contentHash"`
	UploadedAt    time.Time `json:"uploadedAt"`
}

// Source is a local file payload. Open is called once per transport
// attempt, so a retry re-reads the file from the start.
type Source struct {
	Name     string
	Size     int64
	MimeType string
	Open     func() (io.ReadCloser, error)
}

// FileSource builds a Source for a file on disk, deriving the MIME
// type from the extension.
func FileSource(path string) (Source, error) {
	info, err := os.Stat(path)
	if err != nil {
		return Source{}, err
	}
	mimeType := mime.TypeByExtension(filepath.Ext(path))
	if mimeType != "" {
		// Strip parameters such as "; charset=utf-8".
		if mt, _, err := mime.ParseMediaType(mimeType); err == nil {
			mimeType = mt
		}
	}
	return Source{
		Name:     filepath.Base(path),
		Size:     info.Size(),
		MimeType: mimeType,
		Open: func() (io.ReadCloser, error) {
			return os.Open(path)
		},
	}, nil
}

// Transport moves exactly one file's bytes to the upload endpoint per
// Send call, reporting integer progress and honoring context
// cancellation mid-flight.
type Transport struct {
	Client *http.Client
	URL    string // POST endpoint of the destination folder
	Token  string // bearer token, optional
}

type envelope struct {
	Success bool      `json:"success"`
	Data    *FileInfo `json:"data"`
	Error   *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// Send streams the file as the "file" field of a multipart POST.
// onProgress receives monotonically non-decreasing percentages in
// 0–100; because the request body is an unbuffered pipe, a percentage
// only advances when the HTTP transport has consumed those bytes.
// Exactly one outcome is returned: the created file, ErrCancelled,
// ErrNetwork, or a server/parse error.
func (t *Transport) Send(ctx context.Context, src Source, onProgress func(int)) (*FileInfo, error) {
	body, contentType := t.multipartBody(src, onProgress)
	defer body.Close()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.URL, body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", contentType)
	if t.Token != "" {
		req.Header.Set("Authorization", "Bearer "+t.Token)
	}

	client := t.Client
	if client == nil {
		client = http.DefaultClient
	}

	resp, err := client.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ErrCancelled
		}
		return nil, fmt.Errorf("%w: %v", ErrNetwork, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		var env envelope
		if err := json.NewDecoder(resp.Body).Decode(&env); err != nil || env.Data == nil {
			return nil, errors.New("failed to parse response")
		}
		return env.Data, nil
	}

	serr := &ServerError{Status: resp.StatusCode, Message: "upload failed"}
	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err == nil && env.Error != nil && env.Error.Message != "" {
		serr.Code = env.Error.Code
		serr.Message = env.Error.Message
	}
	return nil, serr
}

// multipartBody writes the multipart form into an unbuffered pipe so
// the file is never held in memory and progress tracks transport
// consumption.
func (t *Transport) multipartBody(src Source, onProgress func(int)) (io.ReadCloser, string) {
	pr, pw := io.Pipe()
	mw := multipart.NewWriter(pw)

	go func() {
		f, err := src.Open()
		if err != nil {
			pw.CloseWithError(err)
			return
		}
		defer f.Close()

		// CreateFormFile would hardcode application/octet-stream; the
		// server validates the declared Content-Type, so build the part
		// header by hand.
		header := textproto.MIMEHeader{}
		header.Set("Content-Disposition",
			fmt.Sprintf(`form-data; name="file"; filename="%s"`, quoteEscaper.Replace(src.Name)))
		mimeType := src.MimeType
		if mimeType == "" {
			mimeType = "application/octet-stream"
		}
		header.Set("Content-Type", mimeType)

		part, err := mw.CreatePart(header)
		if err != nil {
			pw.CloseWithError(err)
			return
		}

		counter := &progressWriter{total: src.Size, onProgress: onProgress}
		if _, err := io.Copy(io.MultiWriter(part, counter), f); err != nil {
			pw.CloseWithError(err)
			return
		}
		pw.CloseWithError(mw.Close())
	}()

	return pr, mw.FormDataContentType()
}

// progressWriter converts a running byte count into rounded integer
// percentages, emitting only on increments.
type progressWriter struct {
	total      int64
	sent       int64
	last       int
	onProgress func(int)
}

func (w *progressWriter) Write(p []byte) (int, error) {
	w.sent += int64(len(p))
	if w.onProgress != nil && w.total > 0 {
		pct := int(float64(w.sent) / float64(w.total) * 100)
		if pct > 100 {
			pct = 100
		}
		if pct > w.last {
			w.last = pct
			w.onProgress(pct)
		}
	}
	return len(p), nil
}
