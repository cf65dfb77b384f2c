// Package validate provides functions to validate file uploads and metadata.
package validate

import (
	"errors"
	"path/filepath"
	"strings"
)

// eligibleExts are the image extensions the intake pipeline will turn into
// case records. Anything else is skipped without error.
var eligibleExts = map[string]bool{
	".dcm":  true,
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".tiff": true,
	".tif":  true,
}

// contentTypes accepted on direct uploads, keyed by normalized media type.
var contentTypes = map[string]bool{
	"application/dicom": true,
	"image/jpeg":        true,
	"image/png":         true,
	"image/tiff":        true,
}

// EligibleImage reports whether the filename carries a supported imaging
// extension (case insensitive).
func EligibleImage(fn string) bool {
	return eligibleExts[strings.ToLower(filepath.Ext(fn))]
}

// ImageFilename checks that the filename has a supported imaging extension.
func ImageFilename(fn string) error {
	if !EligibleImage(fn) {
		return errors.New("only .dcm, .jpg, .jpeg, .png, .tiff, .tif files allowed")
	}
	return nil
}

// ImageContentType checks that the Content-Type is a supported imaging media
// type (case insensitive, trimmed).
func ImageContentType(ct string) error {
	if !contentTypes[strings.TrimSpace(strings.ToLower(ct))] {
		return errors.New("unsupported content type")
	}
	return nil
}

// PatientRefOK checks that an optional patient reference, when present, is a
// short printable token.
func PatientRefOK(ref string) error {
	ref = strings.TrimSpace(ref)
	if len(ref) > 64 {
		return errors.New("patient reference too long")
	}
	return nil
}
