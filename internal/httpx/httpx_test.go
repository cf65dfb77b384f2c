package httpx

import (
	"net/http"
	"strings"
	"testing"
)

func TestJSONCarriesCORSHeaders(t *testing.T) {
	resp, err := JSON(http.StatusOK, map[string]int{"n": 1})
	if err != nil {
		t.Fatalf("json: %v", err)
	}
	if resp.Headers["Access-Control-Allow-Origin"] != "*" {
		t.Error("missing CORS origin header")
	}
	if resp.Headers["Content-Type"] != "application/json" {
		t.Error("missing content type")
	}
	if !strings.Contains(resp.Body, `"n":1`) {
		t.Errorf("body = %q", resp.Body)
	}
}

func TestPreflight(t *testing.T) {
	resp, err := Preflight()
	if err != nil {
		t.Fatalf("preflight: %v", err)
	}
	if resp.StatusCode != http.StatusNoContent {
		t.Errorf("status = %d, want 204", resp.StatusCode)
	}
	if !strings.Contains(resp.Headers["Access-Control-Allow-Methods"], "OPTIONS") {
		t.Error("preflight does not allow OPTIONS")
	}
}

func TestErrorShape(t *testing.T) {
	resp, _ := Error(http.StatusBadRequest, "no usable filename")
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("status = %d", resp.StatusCode)
	}
	if !strings.Contains(resp.Body, `"error":"no usable filename"`) {
		t.Errorf("body = %q", resp.Body)
	}
}
