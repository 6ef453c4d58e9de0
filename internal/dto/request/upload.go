package request

import "io"

// FileUpload is one file part of a multipart request.
type FileUpload struct {
	File     io.Reader
	Size     int64
	Filename string
}
