// Package awserr maps AWS SDK failures onto application error codes.
package awserr

import (
	"context"
	"errors"

	"github.com/aws/smithy-go"

	apperrors "github.com/watchme/emotion-hume/internal/errors"
)

// Classify wraps err in an AppError whose code reflects the AWS error code.
// A nil err yields nil.
func Classify(op string, err error) error {
	if err == nil {
		return nil
	}

	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return apperrors.Wrap(err, apperrors.ErrCodeTimeout, op)
	case errors.Is(err, context.Canceled):
		return apperrors.Wrap(err, apperrors.ErrCodeCanceled, op)
	}

	var apiErr smithy.APIError
	if !errors.As(err, &apiErr) {
		return apperrors.Wrap(err, apperrors.ErrCodeUpstream, op)
	}
	return apperrors.Wrap(err, codeFor(apiErr.ErrorCode()), op)
}

func codeFor(awsCode string) apperrors.ErrorCode {
	switch awsCode {
	case "NoSuchKey", "NotFound", "NoSuchBucket",
		"AWS.SimpleQueueService.NonExistentQueue", "QueueDoesNotExist":
		return apperrors.ErrCodeNotFound
	case "AccessDenied", "AccessDeniedException", "Forbidden",
		"InvalidAccessKeyId", "SignatureDoesNotMatch", "InvalidClientTokenId", "ExpiredToken":
		return apperrors.ErrCodeForbidden
	case "SlowDown", "Throttling", "ThrottlingException", "RequestLimitExceeded",
		"ServiceUnavailable", "InternalError":
		return apperrors.ErrCodeUnavailable
	case "InvalidParameterValue", "InvalidMessageContents", "MissingParameter":
		return apperrors.ErrCodeValidation
	default:
		return apperrors.ErrCodeUpstream
	}
}
