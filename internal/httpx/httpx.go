// Package httpx provides helper functions for creating HTTP responses.
package httpx

import (
	"encoding/json"
	"net/http"

	"github.com/aws/aws-lambda-go/events"
)

// corsHeaders are attached to every response so the dashboard front end can
// call the functions cross-origin.
var corsHeaders = map[string]string{
	"Access-Control-Allow-Origin":  "*",
	"Access-Control-Allow-Methods": "POST, OPTIONS",
	"Access-Control-Allow-Headers": "authorization, x-client-info, apikey, content-type, x-user-sub",
}

func headers(extra map[string]string) map[string]string {
	h := make(map[string]string, len(corsHeaders)+len(extra))
	for k, v := range corsHeaders {
		h[k] = v
	}
	for k, v := range extra {
		h[k] = v
	}
	return h
}

// JSON creates a JSON HTTP response with the given status code and value.
func JSON(status int, v any) (events.APIGatewayV2HTTPResponse, error) {
	b, _ := json.Marshal(v)
	return events.APIGatewayV2HTTPResponse{
		StatusCode: status,
		Headers:    headers(map[string]string{"Content-Type": "application/json"}),
		Body:       string(b),
	}, nil
}

// Error creates a JSON HTTP error response with the given status code and message.
func Error(status int, msg string) (events.APIGatewayV2HTTPResponse, error) {
	return JSON(status, map[string]string{"error": msg})
}

// Preflight answers a CORS OPTIONS request.
func Preflight() (events.APIGatewayV2HTTPResponse, error) {
	return events.APIGatewayV2HTTPResponse{
		StatusCode: http.StatusNoContent,
		Headers:    headers(nil),
	}, nil
}
