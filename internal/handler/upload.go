package handler

import (
	"mime/multipart"
	"net/url"

	"github.com/gofiber/fiber/v2"

	"locallink/internal/middleware"
	"locallink/internal/service/storage"
)

// openedFiles holds multipart files opened for upload until the handler returns.
type openedFiles struct {
	files []multipart.File
}

func (o *openedFiles) Close() {
	for _, f := range o.files {
		_ = f.Close()
	}
}

func (o *openedFiles) open(header *multipart.FileHeader) (storage.Upload, error) {
	f, err := header.Open()
	if err != nil {
		return storage.Upload{}, middleware.BadRequest("Could not read uploaded file")
	}
	o.files = append(o.files, f)
	return storage.Upload{
		FileName: header.Filename,
		Size:     header.Size,
		Reader:   f,
	}, nil
}

func singleUpload(c *fiber.Ctx, field string, opened *openedFiles) (storage.Upload, error) {
	header, err := c.FormFile(field)
	if err != nil {
		return storage.Upload{}, middleware.BadRequest("No file uploaded")
	}
	return opened.open(header)
}

func batchUpload(c *fiber.Ctx, field string, opened *openedFiles) ([]storage.Upload, error) {
	form, err := c.MultipartForm()
	if err != nil {
		return nil, middleware.BadRequest("No files uploaded")
	}

	headers := form.File[field]
	uploads := make([]storage.Upload, 0, len(headers))
	for _, header := range headers {
		u, err := opened.open(header)
		if err != nil {
			return nil, err
		}
		uploads = append(uploads, u)
	}
	return uploads, nil
}

// publicIDParam reads the trailing wildcard, so ids may arrive with their
// folder slash either raw or escaped.
func publicIDParam(c *fiber.Ctx) (string, error) {
	publicID, err := url.PathUnescape(c.Params("*"))
	if err != nil || publicID == "" {
		return "", middleware.BadRequest("Invalid image ID")
	}
	return publicID, nil
}
