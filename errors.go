package httpup

import "fmt"

// UploadError is returned by Upload when the server responds with a status outside the 2xx range.
type UploadError struct {
	// StatusCode is the status code of the response, e.g. 403.
	StatusCode int

	// Status is the status line of the response, e.g. "403 Forbidden".
	Status string

	// Body holds up to 1 KiB of the response body, which services such as S3 use to explain the failure.
	Body []byte
}

func (e *UploadError) Error() string {
	if len(e.Body) == 0 {
		return fmt.Sprintf("upload error, status: %s", e.Status)
	}

	return fmt.Sprintf("upload error, status: %s, body: %s", e.Status, e.Body)
}
