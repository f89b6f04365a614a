package models

import (
	"encoding/json"
	"fmt"
	"net/http"
)

// Error codes returned to callers. Every rejection the ledger can produce is
// one of these; callers branch on the code, not the message.
const (
	CodeInvalidOrUsedCode    = "InvalidOrUsedCode"
	CodeAlreadyRegistered    = "AlreadyRegistered"
	CodeUserNotFound         = "UserNotFound"
	CodeInvalidURL           = "InvalidUrl"
	CodeDuplicateSubmission  = "DuplicateSubmission"
	CodePreviouslyRejected   = "PreviouslyRejected"
	CodeSocialNotLinked      = "SocialNotLinked"
	CodeAccountMismatch      = "AccountMismatch"
	CodeDailyLimitReached    = "DailyLimitReached"
	CodeWeeklyLimitReached   = "WeeklyLimitReached"
	CodeNotAuthorized        = "NotAuthorized"
	CodeSubmissionNotFound   = "NotFound"
	CodeAlreadyReviewed      = "AlreadyReviewed"
	CodeMissingReason        = "MissingReason"
	CodeStoreUnavailable     = "StoreUnavailable"
)

// LedgerError is a typed, caller-recoverable rejection. It is never
// process-fatal; handlers map it straight onto the HTTP response.
type LedgerError struct {
	Code       string `json:"code"`
	Message    string `json:"message"`
	HTTPStatus int    `json:"-"`
}

func (e *LedgerError) Error() string {
	return e.Message
}

// MarshalBody renders the error response body
func (e *LedgerError) MarshalBody() ([]byte, error) {
	return json.Marshal(struct {
		Error *LedgerError `json:"error"`
	}{Error: e})
}

// ErrInvalidOrUsedCode covers both a code that does not exist and a code that
// has already been redeemed; the two are indistinguishable on purpose.
func ErrInvalidOrUsedCode(code string) *LedgerError {
	return &LedgerError{
		Code:       CodeInvalidOrUsedCode,
		Message:    fmt.Sprintf("invalid or used invite code %q", code),
		HTTPStatus: http.StatusNotFound,
	}
}

// ErrAlreadyRegistered is returned when a wallet attempts a second redemption
func ErrAlreadyRegistered(wallet string) *LedgerError {
	return &LedgerError{
		Code:       CodeAlreadyRegistered,
		Message:    fmt.Sprintf("wallet %s is already registered", wallet),
		HTTPStatus: http.StatusConflict,
	}
}

// ErrUserNotFound is returned when no account exists for the wallet
func ErrUserNotFound(wallet string) *LedgerError {
	return &LedgerError{
		Code:       CodeUserNotFound,
		Message:    fmt.Sprintf("no account found for wallet %s", wallet),
		HTTPStatus: http.StatusNotFound,
	}
}

// ErrInvalidURL is returned when a submitted link is not an x.com/twitter.com
// status URL with a username component
func ErrInvalidURL(url string) *LedgerError {
	return &LedgerError{
		Code:       CodeInvalidURL,
		Message:    fmt.Sprintf("invalid tweet URL %q: must be from x.com or twitter.com and include username", url),
		HTTPStatus: http.StatusBadRequest,
	}
}

// ErrDuplicateSubmission is returned when the post was already submitted and
// is pending or verified
func ErrDuplicateSubmission(tweetID string) *LedgerError {
	return &LedgerError{
		Code:       CodeDuplicateSubmission,
		Message:    fmt.Sprintf("tweet %s has already been submitted", tweetID),
		HTTPStatus: http.StatusConflict,
	}
}

// ErrPreviouslyRejected is returned when the post was rejected before;
// rejected posts can never be resubmitted
func ErrPreviouslyRejected(tweetID string) *LedgerError {
	return &LedgerError{
		Code:       CodePreviouslyRejected,
		Message:    fmt.Sprintf("tweet %s was previously rejected and cannot be resubmitted", tweetID),
		HTTPStatus: http.StatusConflict,
	}
}

// ErrSocialNotLinked is returned when the submitter has no connected social
// account (or no account at all)
func ErrSocialNotLinked(wallet string) *LedgerError {
	return &LedgerError{
		Code:       CodeSocialNotLinked,
		Message:    fmt.Sprintf("wallet %s has no connected Twitter account", wallet),
		HTTPStatus: http.StatusBadRequest,
	}
}

// ErrAccountMismatch is returned when the URL's username does not match the
// submitter's linked handle
func ErrAccountMismatch(handle, urlUsername string) *LedgerError {
	return &LedgerError{
		Code:       CodeAccountMismatch,
		Message:    fmt.Sprintf("tweet author %q does not match connected account %q", urlUsername, handle),
		HTTPStatus: http.StatusBadRequest,
	}
}

// ErrDailyLimitReached is returned when the per-day submission cap is hit
func ErrDailyLimitReached(limit int) *LedgerError {
	return &LedgerError{
		Code:       CodeDailyLimitReached,
		Message:    fmt.Sprintf("daily tweet submission limit reached (%d per day)", limit),
		HTTPStatus: http.StatusTooManyRequests,
	}
}

// ErrWeeklyLimitReached is returned when the per-week submission cap is hit
func ErrWeeklyLimitReached(limit int) *LedgerError {
	return &LedgerError{
		Code:       CodeWeeklyLimitReached,
		Message:    fmt.Sprintf("weekly tweet submission limit reached (%d per week)", limit),
		HTTPStatus: http.StatusTooManyRequests,
	}
}

// ErrNotAuthorized is returned when the caller is not in the admin set or
// presented a wrong maintenance secret
func ErrNotAuthorized() *LedgerError {
	return &LedgerError{
		Code:       CodeNotAuthorized,
		Message:    "not authorized",
		HTTPStatus: http.StatusForbidden,
	}
}

// ErrSubmissionNotFound is returned when no submission exists for the id
func ErrSubmissionNotFound(tweetID string) *LedgerError {
	return &LedgerError{
		Code:       CodeSubmissionNotFound,
		Message:    fmt.Sprintf("tweet %s not found", tweetID),
		HTTPStatus: http.StatusNotFound,
	}
}

// ErrAlreadyReviewed is returned when a decision already moved the submission
// out of pending; terminal states are never re-entered or re-credited
func ErrAlreadyReviewed(tweetID string) *LedgerError {
	return &LedgerError{
		Code:       CodeAlreadyReviewed,
		Message:    fmt.Sprintf("tweet %s has already been reviewed", tweetID),
		HTTPStatus: http.StatusConflict,
	}
}

// ErrMissingReason is returned when a rejection carries no reason
func ErrMissingReason() *LedgerError {
	return &LedgerError{
		Code:       CodeMissingReason,
		Message:    "a rejection reason is required",
		HTTPStatus: http.StatusBadRequest,
	}
}

// ErrStoreUnavailable wraps a transient storage failure. Safe to retry.
func ErrStoreUnavailable(err error) *LedgerError {
	msg := "storage temporarily unavailable"
	if err != nil {
		msg = fmt.Sprintf("storage temporarily unavailable: %v", err)
	}
	return &LedgerError{
		Code:       CodeStoreUnavailable,
		Message:    msg,
		HTTPStatus: http.StatusServiceUnavailable,
	}
}

// ErrorMessageResponse returns the error message response struct
type ErrorMessageResponse struct {
	Response MessageError
}

// MessageError contains the inner details for the error message response
type MessageError struct {
	Message string
	Error   string
}
