package httpapi

import (
	"bytes"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
)

// UploadPolicy is the {allowed types, max size, max count=1} tuple enforced
// before a file reaches any handler logic.
type UploadPolicy struct {
	Kind         string
	AllowedTypes []string
	MaxBytes     int64
}

// Per-resource-kind policies.
var (
	characterImagePolicy = UploadPolicy{
		Kind:         "character image",
		AllowedTypes: []string{"image/png", "image/jpeg"},
		MaxBytes:     5 << 20,
	}

	documentPolicy = UploadPolicy{
		Kind: "document",
		AllowedTypes: []string{
			"application/pdf",
			"application/msword",
			"application/vnd.openxmlformats-officedocument.wordprocessingml.document",
			"text/plain",
		},
		MaxBytes: 10 << 20,
	}

	generalPolicy = UploadPolicy{
		Kind: "file",
		AllowedTypes: []string{
			"image/png", "image/jpeg",
			"application/pdf",
			"application/msword",
			"application/vnd.openxmlformats-officedocument.wordprocessingml.document",
			"text/plain",
		},
		MaxBytes: 10 << 20,
	}
)

func (p UploadPolicy) allows(mimeType string) bool {
	for _, t := range p.AllowedTypes {
		if t == mimeType {
			return true
		}
	}
	return false
}

// uploadError is a classified upload rejection with a user-facing message.
// All variants map to a 400.
type uploadError struct {
	Message string
}

func (e *uploadError) Error() string { return e.Message }

func errFileTooLarge(p UploadPolicy) error {
	return &uploadError{Message: "file too large: " + p.Kind + " uploads are limited to " + byteCountIEC(p.MaxBytes)}
}

func errDisallowedType(p UploadPolicy, mimeType string) error {
	return &uploadError{Message: "unsupported file type " + mimeType + " for " + p.Kind + " upload"}
}

var (
	errTooManyFiles    = &uploadError{Message: "only one file per upload is allowed"}
	errUnexpectedField = &uploadError{Message: "unexpected upload field"}
	errNoFile          = &uploadError{Message: "file is required"}
)

func byteCountIEC(b int64) string {
	switch {
	case b >= 1<<20 && b%(1<<20) == 0:
		return itoa(b>>20) + "MB"
	case b >= 1<<10 && b%(1<<10) == 0:
		return itoa(b>>10) + "KB"
	default:
		return itoa(b) + " bytes"
	}
}

func itoa(n int64) string {
	if n == 0 {
		return "0"
	}
	var buf [20]byte
	i := len(buf)
	for n > 0 {
		i--
		buf[i] = byte('0' + n%10)
		n /= 10
	}
	return string(buf[i:])
}

// upload is an accepted file buffered in memory; nothing is ever written to
// disk.
type upload struct {
	Filename string
	MimeType string
	Data     []byte
	Form     map[string]string
}

// readUpload streams the multipart body, enforcing the policy before any
// handler logic sees the payload. Exactly one file part named field is
// accepted; plain form values are collected into Form.
func readUpload(w http.ResponseWriter, r *http.Request, field string, policy UploadPolicy) (*upload, error) {
	// Bound the whole request body; the slack covers multipart framing and
	// form fields.
	r.Body = http.MaxBytesReader(w, r.Body, policy.MaxBytes+1<<20)

	mr, err := r.MultipartReader()
	if err != nil {
		return nil, &uploadError{Message: "multipart form data required"}
	}

	result := &upload{Form: map[string]string{}}
	seenFile := false

	for {
		part, err := mr.NextPart()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			var maxBytesErr *http.MaxBytesError
			if errors.As(err, &maxBytesErr) {
				return nil, errFileTooLarge(policy)
			}
			return nil, &uploadError{Message: "malformed multipart body"}
		}

		if part.FileName() == "" {
			value, err := readPart(part, 1<<20)
			if err != nil {
				return nil, &uploadError{Message: "malformed multipart body"}
			}
			result.Form[part.FormName()] = string(value)
			continue
		}

		if seenFile {
			return nil, errTooManyFiles
		}
		seenFile = true

		if part.FormName() != field {
			return nil, errUnexpectedField
		}

		mimeType := part.Header.Get("Content-Type")
		if !policy.allows(mimeType) {
			return nil, errDisallowedType(policy, mimeType)
		}

		data, err := readPart(part, policy.MaxBytes)
		if err != nil {
			if errors.Is(err, errPartTooLarge) {
				return nil, errFileTooLarge(policy)
			}
			var maxBytesErr *http.MaxBytesError
			if errors.As(err, &maxBytesErr) {
				return nil, errFileTooLarge(policy)
			}
			return nil, &uploadError{Message: "malformed multipart body"}
		}

		result.Filename = part.FileName()
		result.MimeType = mimeType
		result.Data = data
	}

	if !seenFile {
		return nil, errNoFile
	}

	return result, nil
}

var errPartTooLarge = errors.New("part too large")

// readPart buffers one part, failing once it exceeds limit.
func readPart(part *multipart.Part, limit int64) ([]byte, error) {
	var buf bytes.Buffer
	n, err := io.Copy(&buf, io.LimitReader(part, limit+1))
	if err != nil {
		return nil, err
	}
	if n > limit {
		return nil, errPartTooLarge
	}
	return buf.Bytes(), nil
}
