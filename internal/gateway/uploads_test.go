package gateway

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// sizedFile reports an arbitrary size without holding the bytes.
type sizedFile struct {
	io.Reader
	size int64
}

func (f *sizedFile) Name() string        { return "big.bin" }
func (f *sizedFile) Size() int64         { return f.size }
func (f *sizedFile) ContentType() string { return "application/octet-stream" }

func TestUploadRejectsOversizedFileWithoutNetwork(t *testing.T) {
	cl, ct := newTestClient(t, status(http.StatusOK, `{}`))

	_, err := cl.Upload(context.Background(), testCred, UploadInput{
		File: &sizedFile{Reader: bytes.NewReader(nil), size: MaxUploadSize + 1},
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrPayloadTooLarge)
	assert.Zero(t, ct.calls.Load())
}

func TestUploadRejectsOversizedFileBeforeCredential(t *testing.T) {
	cl, ct := newTestClient(t, status(http.StatusOK, `{}`))

	_, err := cl.Upload(context.Background(), nil, UploadInput{
		File: &sizedFile{Reader: bytes.NewReader(nil), size: MaxUploadSize + 1},
	})
	assert.ErrorIs(t, err, ErrPayloadTooLarge)
	assert.Zero(t, ct.calls.Load())
}

func TestUploadRejectsUnderReportedSize(t *testing.T) {
	cl, ct := newTestClient(t, status(http.StatusOK, `{}`))

	_, err := cl.Upload(context.Background(), testCred, UploadInput{
		File: &sizedFile{Reader: bytes.NewReader(make([]byte, MaxUploadSize+10)), size: 10},
	})
	assert.ErrorIs(t, err, ErrPayloadTooLarge)
	assert.Zero(t, ct.calls.Load())
}

func TestUploadRejectsNonFile(t *testing.T) {
	cl, ct := newTestClient(t, status(http.StatusOK, `{}`))
	var typedNil *sizedFile

	for name, f := range map[string]File{
		"nil":       nil,
		"typed nil": typedNil,
		"no name":   NewFile("  ", "text/plain", []byte("x")),
	} {
		t.Run(name, func(t *testing.T) {
			_, err := cl.Upload(context.Background(), testCred, UploadInput{File: f})
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrValidation)
			assert.Equal(t, "a valid file is required", err.Error())
		})
	}
	assert.Zero(t, ct.calls.Load())
}

func TestUploadSendsMultipart(t *testing.T) {
	var (
		auth, folder, access, filename string
		content                        []byte
	)
	cl, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		auth = r.Header.Get("Authorization")
		if !assert.NoError(t, r.ParseMultipartForm(MaxUploadSize)) {
			return
		}
		folder = r.FormValue("folder")
		access = r.FormValue("access")
		f, hdr, err := r.FormFile("file")
		if !assert.NoError(t, err) {
			return
		}
		defer f.Close()
		filename = hdr.Filename
		content, _ = io.ReadAll(f)
		_, _ = io.WriteString(w, `{"url":"https://cdn.example/logo.png","key":"markets/logo.png","size":4}`)
	})

	res, err := cl.Upload(context.Background(), testCred, UploadInput{
		File:   NewFile("logo.png", "image/png", []byte("\x89PNG")),
		Folder: "markets",
		Access: "public",
	})
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.example/logo.png", res.URL)
	assert.Equal(t, "Bearer tok-123", auth)
	assert.Equal(t, "markets", folder)
	assert.Equal(t, "public", access)
	assert.Equal(t, "logo.png", filename)
	assert.Equal(t, []byte("\x89PNG"), content)
}

func TestUploadPayloadTooLargeFromBackend(t *testing.T) {
	cl, _ := newTestClient(t, status(http.StatusRequestEntityTooLarge, ``))

	_, err := cl.Upload(context.Background(), testCred, UploadInput{File: NewFile("a.txt", "", []byte("a"))})
	assert.ErrorIs(t, err, ErrPayloadTooLarge)
}
