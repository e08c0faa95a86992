package khiopsdriver

import (
	"errors"
	"net/http"

	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"
)

// classifyStoreErr maps an error returned by the Client into a Kind. Every
// Client-facing method in this package funnels its error through this
// classifier before wrapping it in a DriverError, so that store failures and
// validation failures surface through a single, consistent Kind taxonomy.
func classifyStoreErr(err error) Kind {
	if err == nil {
		return ""
	}

	var nf *types.NoSuchKey
	if errors.As(err, &nf) {
		return KindNotFound
	}
	var nb *types.NoSuchBucket
	if errors.As(err, &nb) {
		return KindNotFound
	}
	var nu *types.NoSuchUpload
	if errors.As(err, &nu) {
		return KindNotFound
	}

	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.ErrorCode() {
		case "NotFound", "NoSuchKey", "NoSuchBucket", "404":
			return KindNotFound
		case "AccessDenied", "Forbidden", "403":
			return KindAccessDenied
		}
	}

	var respErr *smithy.OperationError
	if errors.As(err, &respErr) {
		return KindNetwork
	}

	var httpErr interface{ HTTPStatusCode() int }
	if errors.As(err, &httpErr) {
		switch httpErr.HTTPStatusCode() {
		case http.StatusNotFound:
			return KindNotFound
		case http.StatusForbidden:
			return KindAccessDenied
		}
		if httpErr.HTTPStatusCode() >= 500 {
			return KindNetwork
		}
	}

	return KindInternal
}

// wrapStoreErr classifies err and wraps it into a DriverError carrying msg as
// context, mirroring the reference stack's fmt.Errorf("... error: %w", err)
// idiom but adding the Kind tag the facade needs.
func wrapStoreErr(msg string, err error) *DriverError {
	if err == nil {
		return nil
	}
	return newErr(classifyStoreErr(err), msg, err)
}
