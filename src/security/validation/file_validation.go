// src/security/validation/file_validation.go
package validation

import (
	"bytes"
	"fmt"
	"io"
	"mime"
	"strings"

	"github.com/focoagora/backend/src/logger"
)

// Import sources accepted by the upload endpoint.
const (
	SourceCSV      = "csv"
	SourceXLSX     = "xlsx"
	SourceExtracao = "extracao"
)

// allowedClientContentTypes lists the client-declared MIME types accepted per source.
var allowedClientContentTypes = map[string]map[string]bool{
	SourceCSV: {
		"text/csv":                 true,
		"application/csv":          true,
		"application/vnd.ms-excel": true,
		"text/plain":               true,
	},
	SourceXLSX: {
		"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet": true,
		"application/octet-stream": true,
		"application/zip":          true,
	},
	SourceExtracao: {
		"application/json": true,
		"text/json":        true,
		"text/plain":       true,
	},
}

var zipMagic = []byte("PK\x03\x04")

// ValidateClientContentType checks the Content-Type header provided by the client for a source.
func ValidateClientContentType(contentType, source string) error {
	allowed, ok := allowedClientContentTypes[source]
	if !ok {
		return fmt.Errorf("%w: unknown import source '%s'", ErrValidationFailed, source)
	}
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		mediaType = strings.ToLower(strings.TrimSpace(contentType))
	}
	if !allowed[mediaType] {
		logger.L.Warn("Disallowed client-declared Content-Type", "contentType", contentType, "source", source)
		return fmt.Errorf("%w: file type '%s' is not allowed for %s import", ErrValidationFailed, contentType, source)
	}
	return nil
}

// looksLikeText rejects NUL bytes and C0 control characters other than whitespace.
// Invalid UTF-8 is accepted because bank exports are often Latin-1.
func looksLikeText(buf []byte) bool {
	for _, b := range buf {
		if b == 0 || (b < 0x20 && b != '\t' && b != '\n' && b != '\r') {
			return false
		}
	}
	return true
}

// ValidateFileContent inspects the first kilobyte of an upload and rewinds it.
func ValidateFileContent(file io.ReadSeeker, source string) error {
	if file == nil {
		return fmt.Errorf("%w: file is nil", ErrValidationFailed)
	}

	buffer := make([]byte, 1024)
	n, err := io.ReadFull(file, buffer)
	if err != nil && err != io.EOF && err != io.ErrUnexpectedEOF {
		return fmt.Errorf("failed to read file for content checking: %w", err)
	}
	if _, err := file.Seek(0, io.SeekStart); err != nil {
		return fmt.Errorf("failed to reset file read pointer: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%w: file is empty", ErrValidationFailed)
	}
	head := buffer[:n]

	switch source {
	case SourceXLSX:
		if !bytes.HasPrefix(head, zipMagic) {
			logger.L.Warn("File rejected: spreadsheet without zip signature")
			return fmt.Errorf("%w: file is not an xlsx workbook", ErrValidationFailed)
		}
	case SourceCSV:
		if !looksLikeText(head) {
			logger.L.Warn("File rejected: binary content detected in text upload")
			return fmt.Errorf("%w: file appears to be binary, not CSV", ErrValidationFailed)
		}
	case SourceExtracao:
		trimmed := bytes.TrimLeft(bytes.TrimPrefix(head, []byte("\xef\xbb\xbf")), " \t\r\n")
		if len(trimmed) == 0 || (trimmed[0] != '[' && trimmed[0] != '{') {
			return fmt.Errorf("%w: extraction payload is not JSON", ErrValidationFailed)
		}
	default:
		return fmt.Errorf("%w: unknown import source '%s'", ErrValidationFailed, source)
	}
	return nil
}
