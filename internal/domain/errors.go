package domain

import (
	apperrors "github.com/studyway/coursegate/pkg/errors"
)

// Domain error values surfaced by the verification, access, and progress
// services. All are terminal: nothing here is retried internally.
// Verification failures are recoverable by the caller re-issuing the
// challenge; everything else requires a different request.
var (
	// Verification.
	ErrAlreadyVerified  = apperrors.Conflict("ALREADY_VERIFIED", "account is already verified")
	ErrNoChallenge      = apperrors.Conflict("NO_CHALLENGE", "no verification challenge is outstanding")
	ErrChallengeExpired = apperrors.Gone("OTP_EXPIRED", "verification code has expired")
	ErrCodeMismatch     = apperrors.Unauthorized("OTP_MISMATCH", "verification code does not match")
	ErrDeliveryFailed   = apperrors.BadGateway("OTP_DELIVERY_FAILED", "no delivery channel accepted the verification code")
	ErrTooManyRequests  = apperrors.TooManyRequests("TOO_MANY_REQUESTS", "too many verification codes requested, try again later")

	// Access grant ledger.
	ErrNotVerified      = apperrors.Forbidden("NOT_VERIFIED", "account is not verified")
	ErrCourseNotFound   = apperrors.NotFoundCode("COURSE_NOT_FOUND", "course not found")
	ErrDuplicatePending = apperrors.Conflict("DUPLICATE_PENDING", "an access request is already pending for this course")
	ErrAlreadyGranted   = apperrors.Conflict("ALREADY_GRANTED", "access to this course has already been granted")
	ErrAlreadyEnrolled  = apperrors.Conflict("ALREADY_ENROLLED", "already enrolled in this course")
	ErrInvalidState     = apperrors.Conflict("INVALID_STATE", "operation is not valid for the current state")

	// Progress.
	ErrNotEnrolled = apperrors.Forbidden("NOT_ENROLLED", "not enrolled in this course")
)
