// Package services defines the business logic for chat persistence and
// supplier recommendations. This file centralizes common service-level error
// values so they can be consistently returned by service methods and checked
// by callers.
//
// These errors are intended for internal use by the service layer;
// translation into user-facing messages or HTTP status codes is performed at
// the handler layer.
package services

import "errors"

var (
	// ErrChatNotFound indicates that the requested chat does not exist in
	// the user's history.
	ErrChatNotFound = errors.New("chat not found")

	// ErrUserNotFound indicates that no chat document exists for the user.
	ErrUserNotFound = errors.New("user not found")

	// ErrEmptyChatName is returned when a create or rename request carries
	// an empty chat name.
	ErrEmptyChatName = errors.New("chat name is empty")

	// ErrEmptyMessage is returned when an append request carries a message
	// with no content.
	ErrEmptyMessage = errors.New("message content is empty")

	// ErrEmptyQuery is returned when a recommendation request carries an
	// empty query. It is raised before any outbound call is made.
	ErrEmptyQuery = errors.New("query is empty")
)
