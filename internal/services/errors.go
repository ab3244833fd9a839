package services

import (
	"errors"
	"fmt"
)

// Sentinel errors surfaced to handlers; BaseHandler maps them onto HTTP
// status codes.
var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrUserDisabled       = errors.New("user account is disabled")
	ErrUserNotFound       = errors.New("user not found")
	ErrEmailTaken         = errors.New("email already in use")

	ErrLeadNotFound = errors.New("lead not found")
	// ErrLeadAlreadyConverted distinguishes the conversion conflict from a
	// generic failure; it still maps to 400, with this message in the body.
	ErrLeadAlreadyConverted = errors.New("lead already converted")

	ErrStudentNotFound   = errors.New("student not found")
	ErrPaymentNotFound   = errors.New("payment not found")
	ErrExpenseNotFound   = errors.New("expense not found")
	ErrCourseNotFound    = errors.New("course not found")
	ErrClassroomNotFound = errors.New("classroom not found")
	ErrGroupNotFound     = errors.New("group not found")
	ErrLessonNotFound    = errors.New("lesson not found")
)

// PermissionError denotes a valid identity acting outside its rights, e.g. a
// teacher touching another teacher's group. Maps to 403.
type PermissionError struct {
	UserID     uint
	ResourceID uint
	Resource   string
	Action     string
	Reason     string
}

func NewPermissionError(userID, resourceID uint, resource, action, reason string) *PermissionError {
	return &PermissionError{
		UserID:     userID,
		ResourceID: resourceID,
		Resource:   resource,
		Action:     action,
		Reason:     reason,
	}
}

func (e *PermissionError) Error() string {
	return fmt.Sprintf("permission denied: user %d cannot %s %s %d: %s",
		e.UserID, e.Action, e.Resource, e.ResourceID, e.Reason)
}

// IsPermissionError reports whether err is a PermissionError.
func IsPermissionError(err error) bool {
	var pe *PermissionError
	return errors.As(err, &pe)
}
