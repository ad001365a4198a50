package handler

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/edirooss/market-admin/internal/gateway"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// UploadBodyLimit caps the whole multipart request: the file ceiling plus
// room for part headers and form fields.
const UploadBodyLimit = gateway.MaxUploadSize + 64<<10

type UploadsHandler struct {
	log *zap.Logger
	gw  *gateway.Client
}

func NewUploadsHandler(log *zap.Logger, gw *gateway.Client) *UploadsHandler {
	return &UploadsHandler{log: log.Named("uploads"), gw: gw}
}

// Upload handles POST /uploads (multipart: file, folder, access).
//
// Status Codes:
//   - 200 OK → JSON of the stored file
//   - 400 Bad Request → no file part
//   - 413 Request Entity Too Large → file over 5MB
func (h *UploadsHandler) Upload(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, UploadBodyLimit)

	hdr, err := c.FormFile("file") // parses the whole form
	var maxErr *http.MaxBytesError
	switch {
	case errors.As(err, &maxErr):
		c.Error(err)
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{
			"message": fmt.Sprintf("file exceeds the maximum allowed size of %dMB", gateway.MaxUploadSize>>20),
		})
		return
	case errors.Is(err, http.ErrMissingFile):
		// Left nil; the gateway rejects it as a validation failure.
	case err != nil:
		badRequest(c, err)
		return
	}

	in := gateway.UploadInput{
		Folder: c.PostForm("folder"),
		Access: c.PostForm("access"),
	}
	if hdr != nil {
		f, closer, err := gateway.FileFromHeader(hdr)
		if err != nil {
			badRequest(c, err)
			return
		}
		defer closer.Close()
		in.File = f
	}

	res, err := h.gw.Upload(c.Request.Context(), credential(c), in)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}
