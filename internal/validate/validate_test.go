package validate

import "testing"

func TestEligibleImage(t *testing.T) {
	tests := []struct {
		fn   string
		want bool
	}{
		{"scan.dcm", true},
		{"scan.DCM", true},
		{"photo.jpg", true},
		{"photo.jpeg", true},
		{"slice.png", true},
		{"slide.tiff", true},
		{"slide.tif", true},
		{"readme.txt", false},
		{"archive.zip", false},
		{"noextension", false},
		{"", false},
	}
	for _, tt := range tests {
		if got := EligibleImage(tt.fn); got != tt.want {
			t.Errorf("EligibleImage(%q) = %v, want %v", tt.fn, got, tt.want)
		}
	}
}

func TestImageContentType(t *testing.T) {
	for _, ct := range []string{"application/dicom", "image/jpeg", " IMAGE/PNG ", "image/tiff"} {
		if err := ImageContentType(ct); err != nil {
			t.Errorf("ImageContentType(%q) = %v, want nil", ct, err)
		}
	}
	for _, ct := range []string{"text/plain", "application/pdf", ""} {
		if err := ImageContentType(ct); err == nil {
			t.Errorf("ImageContentType(%q) accepted", ct)
		}
	}
}
