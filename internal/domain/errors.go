package domain

import "fmt"

// NotFoundError represents a missing resource.
type NotFoundError struct {
	Resource string
}

func (e NotFoundError) Error() string {
	if e.Resource == "" {
		return "not found"
	}
	return fmt.Sprintf("%s not found", e.Resource)
}

// Is enables errors.Is matching on NotFoundError. A target without a
// resource matches every NotFoundError.
func (e NotFoundError) Is(target error) bool {
	var t NotFoundError
	switch v := target.(type) {
	case NotFoundError:
		t = v
	case *NotFoundError:
		t = *v
	default:
		return false
	}
	return t.Resource == "" || t.Resource == e.Resource
}

// ValidationError is a malformed request. It is never retried.
type ValidationError struct {
	Code    string
	Message string
}

func (e ValidationError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Code != "" {
		return e.Code
	}
	return "invalid request"
}

// Is matches any ValidationError when the target has no code.
func (e ValidationError) Is(target error) bool {
	var t ValidationError
	switch v := target.(type) {
	case ValidationError:
		t = v
	case *ValidationError:
		t = *v
	default:
		return false
	}
	return t.Code == "" || t.Code == e.Code
}

// PermissionError is a mutation attempted by someone other than the owner.
type PermissionError struct {
	Action string
}

func (e PermissionError) Error() string {
	if e.Action == "" {
		return "permission denied"
	}
	return fmt.Sprintf("permission denied: %s", e.Action)
}

func (e PermissionError) Is(target error) bool {
	switch target.(type) {
	case PermissionError, *PermissionError:
		return true
	}
	return false
}

// RemoteServiceError carries the upstream failure message verbatim.
type RemoteServiceError struct {
	Stage      Stage
	StatusCode int
	Message    string
}

func (e RemoteServiceError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("%s service failed (status %d)", e.Stage, e.StatusCode)
}

func (e RemoteServiceError) Is(target error) bool {
	switch target.(type) {
	case RemoteServiceError, *RemoteServiceError:
		return true
	}
	return false
}

var (
	ErrNotFound      = NotFoundError{}
	ErrValidation    = ValidationError{}
	ErrPermission    = PermissionError{}
	ErrRemoteService = RemoteServiceError{}

	ErrMeetingNotFound      = NotFoundError{Resource: "meeting"}
	ErrAudioNotFound        = NotFoundError{Resource: "audio object"}
	ErrMissingAudio         = NotFoundError{Resource: "linked audio"}
	ErrUnsupportedMediaType = ValidationError{Code: "unsupported_media_type"}
	ErrEmptyTranscript      = ValidationError{Code: "empty_transcript", Message: "transcript is empty"}
)
