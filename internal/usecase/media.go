package usecase

import (
	"bytes"
	"errors"
	"io"
	"strings"

	"movie-social/internal/dto/request"

	"github.com/gabriel-vasile/mimetype"
)

const sniffLen = 3072

// sniffUpload detects the content type from the leading bytes and returns a
// reader that still yields the whole file.
func sniffUpload(upload *request.FileUpload) (*mimetype.MIME, io.Reader, error) {
	header := make([]byte, sniffLen)
	n, err := io.ReadFull(upload.File, header)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return nil, nil, err
	}
	if n == 0 {
		return nil, nil, badRequest("uploaded file %q is empty", upload.Filename)
	}
	header = header[:n]

	return mimetype.Detect(header), io.MultiReader(bytes.NewReader(header), upload.File), nil
}

func isMediaKind(mime *mimetype.MIME, kind string) bool {
	return strings.HasPrefix(mime.String(), kind+"/")
}
