// Package authz provides authorization utilities.
package authz

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"strings"

	"github.com/aws/aws-lambda-go/events"
)

// ErrUnauthorized is returned when no user identity can be extracted.
var ErrUnauthorized = errors.New("unauthorized")

const devBypassHeader = "x-user-sub"

// headerLookup returns the value of a header key, case insensitively.
func headerLookup(h map[string]string, key string) string {
	if len(h) == 0 {
		return ""
	}
	lk := strings.ToLower(key)
	for k, v := range h {
		if strings.ToLower(k) == lk {
			return v
		}
	}
	return ""
}

// subFromAuthHeader extracts the "sub" claim from a bearer JWT payload
// without verifying the signature; the gateway authorizer already did that.
func subFromAuthHeader(headers map[string]string) string {
	auth := headerLookup(headers, "Authorization")
	if auth == "" {
		return ""
	}
	if strings.HasPrefix(strings.ToLower(auth), "bearer ") {
		auth = strings.TrimSpace(auth[len("bearer "):])
	}
	parts := strings.Split(auth, ".")
	if len(parts) != 3 {
		return ""
	}
	payload, err := base64.RawURLEncoding.DecodeString(parts[1])
	if err != nil {
		return ""
	}
	var m map[string]any
	if json.Unmarshal(payload, &m) != nil {
		return ""
	}
	if s, ok := m["sub"].(string); ok {
		return s
	}
	return ""
}

// FromAPIGWv2 extracts the authenticated user sub from an HTTP API (v2)
// request: dev-bypass header first, then the JWT authorizer claims, then a
// raw Authorization header fallback.
func FromAPIGWv2(req events.APIGatewayV2HTTPRequest, devBypass bool) (string, error) {
	if devBypass {
		if sub := strings.TrimSpace(headerLookup(req.Headers, devBypassHeader)); sub != "" {
			return sub, nil
		}
	}

	if auth := req.RequestContext.Authorizer; auth != nil && auth.JWT != nil {
		if sub := auth.JWT.Claims["sub"]; sub != "" {
			return sub, nil
		}
	}

	if sub := subFromAuthHeader(req.Headers); sub != "" {
		return sub, nil
	}

	return "", ErrUnauthorized
}
