package handler

import (
	"mime/multipart"

	"github.com/gofiber/fiber/v3"
)

// upload is one opened multipart file ready to stream to object storage.
type upload struct {
	file        multipart.File
	size        int64
	name        string
	contentType string
}

func (u *upload) Close() {
	if u != nil && u.file != nil {
		u.file.Close()
	}
}

func toggleState(on bool) string {
	if on {
		return "on"
	}
	return "off"
}

// openUpload opens a multipart file field. A missing field returns
// (nil, nil) so optional uploads stay optional.
func openUpload(c fiber.Ctx, field string) (*upload, error) {
	fh, err := c.FormFile(field)
	if err != nil {
		return nil, nil
	}
	f, err := fh.Open()
	if err != nil {
		return nil, err
	}
	return &upload{
		file:        f,
		size:        fh.Size,
		name:        fh.Filename,
		contentType: fh.Header.Get("Content-Type"),
	}, nil
}
