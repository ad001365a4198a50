package gateway

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"reflect"
	"strings"
)

// MaxUploadSize is the largest file Upload accepts (5 MiB).
const MaxUploadSize int64 = 5 << 20

// File is an uploadable payload.
type File interface {
	io.Reader
	Name() string
	Size() int64
	ContentType() string
}

type memFile struct {
	*bytes.Reader
	name        string
	contentType string
	size        int64
}

func (f *memFile) Name() string        { return f.name }
func (f *memFile) Size() int64         { return f.size }
func (f *memFile) ContentType() string { return f.contentType }

// NewFile wraps in-memory data as a File.
func NewFile(name, contentType string, data []byte) File {
	return &memFile{Reader: bytes.NewReader(data), name: name, contentType: contentType, size: int64(len(data))}
}

type headerFile struct {
	multipart.File
	hdr *multipart.FileHeader
}

func (f *headerFile) Name() string        { return f.hdr.Filename }
func (f *headerFile) Size() int64         { return f.hdr.Size }
func (f *headerFile) ContentType() string { return f.hdr.Header.Get("Content-Type") }

// FileFromHeader opens an incoming multipart file. The caller closes it.
func FileFromHeader(hdr *multipart.FileHeader) (File, io.Closer, error) {
	if hdr == nil {
		return nil, nil, fmt.Errorf("nil file header")
	}
	f, err := hdr.Open()
	if err != nil {
		return nil, nil, fmt.Errorf("open file: %w", err)
	}
	return &headerFile{File: f, hdr: hdr}, f, nil
}

// UploadInput is the body of Upload. Folder and Access are optional.
type UploadInput struct {
	File   File
	Folder string
	Access string // "public" | "private"
}

// validate runs the local checks that precede any I/O.
func (in UploadInput) validate() *Error {
	if isNilFile(in.File) || strings.TrimSpace(in.File.Name()) == "" {
		return &Error{Kind: KindValidation, Message: "a valid file is required"}
	}
	if in.File.Size() > MaxUploadSize {
		return &Error{Kind: KindPayloadTooLarge, Message: msgTooLarge}
	}
	return nil
}

func isNilFile(f File) bool {
	if f == nil {
		return true
	}
	rv := reflect.ValueOf(f)
	return rv.Kind() == reflect.Pointer && rv.IsNil()
}

// Upload stores a file through the backend. The file is checked locally
// first; a missing or oversized file never reaches the network.
func (cl *Client) Upload(ctx context.Context, cred *Credential, in UploadInput) (*UploadResult, error) {
	c := call{
		op:        "Upload",
		resource:  "upload",
		action:    "upload file",
		method:    http.MethodPost,
		path:      "/uploads",
		forbidden: true,
		tooLarge:  true,
	}
	if verr := in.validate(); verr != nil {
		return nil, cl.fail(c, verr)
	}
	// Same check do() makes, but before the body is buffered.
	if cred == nil || cred.Token == "" {
		return nil, cl.fail(c, &Error{Kind: KindUnauthenticated, Message: msgUnauthenticated})
	}

	body, contentType, err := multipartBody(in)
	if errors.Is(err, errFileGrew) {
		return nil, cl.fail(c, &Error{Kind: KindPayloadTooLarge, Message: msgTooLarge, Err: err})
	}
	if err != nil {
		return nil, cl.fail(c, &Error{Kind: KindUnknown, Message: c.genericMessage(), Err: err})
	}
	c.rawBody = body
	c.contentType = contentType

	var out UploadResult
	if _, err := cl.do(ctx, cred, c, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func multipartBody(in UploadInput) (io.Reader, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename=%q`, in.File.Name()))
	ct := in.File.ContentType()
	if ct == "" {
		ct = "application/octet-stream"
	}
	h.Set("Content-Type", ct)

	part, err := w.CreatePart(h)
	if err != nil {
		return nil, "", fmt.Errorf("create file part: %w", err)
	}
	// One extra byte detects a File whose Size() under-reports.
	n, err := io.Copy(part, io.LimitReader(in.File, MaxUploadSize+1))
	if err != nil {
		return nil, "", fmt.Errorf("copy file: %w", err)
	}
	if n > MaxUploadSize {
		return nil, "", errFileGrew
	}

	if in.Folder != "" {
		if err := w.WriteField("folder", in.Folder); err != nil {
			return nil, "", fmt.Errorf("write folder: %w", err)
		}
	}
	if in.Access != "" {
		if err := w.WriteField("access", in.Access); err != nil {
			return nil, "", fmt.Errorf("write access: %w", err)
		}
	}
	if err := w.Close(); err != nil {
		return nil, "", fmt.Errorf("close multipart: %w", err)
	}
	return &buf, w.FormDataContentType(), nil
}

var errFileGrew = fmt.Errorf("file content exceeds %d bytes", MaxUploadSize)
