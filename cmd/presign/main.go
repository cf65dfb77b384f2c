// Package main generates presigned URLs for uploading medical images to S3.
// The upload itself creates no case record; the intake classifier picks the
// object up once it lands in the bucket.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/radview/imaging-case-portal/internal/authz"
	"github.com/radview/imaging-case-portal/internal/awsutil"
	"github.com/radview/imaging-case-portal/internal/config"
	"github.com/radview/imaging-case-portal/internal/httpx"
	"github.com/radview/imaging-case-portal/internal/s3io"
	"github.com/radview/imaging-case-portal/internal/validate"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/oklog/ulid/v2"
)

// presignRequest represents the expected JSON body for a presign request.
type presignRequest struct {
	Filename    string `json:"filename"`
	PatientRef  string `json:"patient_ref"`
	ContentType string `json:"content_type"`
}

// presignResponse carries the presigned URL and related info.
type presignResponse struct {
	UploadID     string `json:"upload_id"`
	S3Key        string `json:"s3_key"`
	PresignedURL string `json:"presigned_url"`
	ExpiresIn    int    `json:"expires_in"`
	ContentType  string `json:"content_type"`
}

// App holds the application state, including configuration and AWS clients.
type App struct {
	env config.Env
	s3p *s3.PresignClient
}

func main() {
	env := config.MustLoad()
	cfg, endpoint, err := awsutil.Load(context.Background(), env.Region)
	if err != nil {
		log.Fatal(err)
	}

	s3c := s3.NewFromConfig(cfg, func(o *s3.Options) {
		if endpoint != "" {
			o.UsePathStyle = true
		}
	})

	app := &App{env: env, s3p: s3.NewPresignClient(s3c)}
	lambda.Start(app.handler)
}

// handler validates the request and returns a presigned PUT URL keyed under
// the caller's upload prefix.
func (a *App) handler(ctx context.Context, req events.APIGatewayV2HTTPRequest) (events.APIGatewayV2HTTPResponse, error) {
	if req.RequestContext.HTTP.Method == http.MethodOptions {
		return httpx.Preflight()
	}

	sub, err := authz.FromAPIGWv2(req, a.env.DevBypassAuth)
	if err != nil {
		return httpx.Error(http.StatusUnauthorized, "missing user")
	}

	body, err := parseAndValidate(req.Body)
	if err != nil {
		return httpx.Error(http.StatusBadRequest, err.Error())
	}

	uploadID := ulid.Make().String()
	key := s3io.BuildUploadKey(sub, uploadID, body.Filename)

	meta := map[string]string{
		"user_id":     sub,
		"patient_ref": strings.TrimSpace(body.PatientRef),
	}
	url, ttl, err := s3io.PresignPut(ctx, a.s3p, a.env.Bucket, key, body.ContentType, meta, a.env.PresignTTL)
	if err != nil {
		log.Printf("presign: %s failed: %v", key, err)
		return httpx.Error(http.StatusInternalServerError, "presign error")
	}

	return httpx.JSON(http.StatusOK, presignResponse{
		UploadID:     uploadID,
		S3Key:        key,
		PresignedURL: url,
		ExpiresIn:    int(ttl.Seconds()),
		ContentType:  body.ContentType,
	})
}

// parseAndValidate parses the JSON body and validates all input fields.
func parseAndValidate(body string) (presignRequest, error) {
	var req presignRequest
	if err := json.Unmarshal([]byte(body), &req); err != nil {
		return req, errors.New("invalid json")
	}
	if req.ContentType == "" {
		req.ContentType = defaultContentType(req.Filename)
	}

	for _, check := range []func() error{
		func() error { return validate.ImageFilename(req.Filename) },
		func() error { return validate.ImageContentType(req.ContentType) },
		func() error { return validate.PatientRefOK(req.PatientRef) },
	} {
		if err := check(); err != nil {
			return req, err
		}
	}
	return req, nil
}

// defaultContentType maps an imaging extension to its media type.
func defaultContentType(fn string) string {
	switch strings.ToLower(filepath.Ext(fn)) {
	case ".dcm":
		return "application/dicom"
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".png":
		return "image/png"
	case ".tiff", ".tif":
		return "image/tiff"
	}
	return ""
}
