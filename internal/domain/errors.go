package domain

import (
	"errors"
	"fmt"
)

// ErrorKind classifies failures surfaced to the calling layer
type ErrorKind uint8

const (
	KindUnknown ErrorKind = iota
	KindNotFound
	KindRelationshipNotFound
	KindAlreadyExists
	KindBlankUpdate
	KindValidation
)

func (k ErrorKind) String() string {
	switch k {
	case KindNotFound:
		return "NOT_FOUND"
	case KindRelationshipNotFound:
		return "RELATIONSHIP_NOT_FOUND"
	case KindAlreadyExists:
		return "ALREADY_EXISTS"
	case KindBlankUpdate:
		return "BLANK_UPDATE"
	case KindValidation:
		return "VALIDATION_FAILURE"
	}
	return "UNKNOWN"
}

// Error is a typed failure with a human-readable message.
// errors.Is matches on Kind, so callers compare against the sentinels below.
type Error struct {
	Kind    ErrorKind
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return t.Kind == e.Kind
}

// Sentinels for errors.Is
var (
	ErrNotFound             = &Error{Kind: KindNotFound, Message: "not found"}
	ErrRelationshipNotFound = &Error{Kind: KindRelationshipNotFound, Message: "relationship not found"}
	ErrAlreadyExists        = &Error{Kind: KindAlreadyExists, Message: "already exists"}
	ErrBlankUpdate          = &Error{Kind: KindBlankUpdate, Message: "blank update"}
	ErrValidation           = &Error{Kind: KindValidation, Message: "validation failure"}
)

// NotFound: "No ecosystem found with the provided ID."
func NotFound(resource, by string) error {
	return &Error{Kind: KindNotFound, Message: fmt.Sprintf("No %s found with the provided %s.", resource, by)}
}

// RelationshipNotFound: the named entity is not a member of the container.
func RelationshipNotFound(one, many string) error {
	return &Error{Kind: KindRelationshipNotFound, Message: fmt.Sprintf("The provided %s doesn't exist in the %s.", many, one)}
}

func AlreadyExists(resource string) error {
	return &Error{Kind: KindAlreadyExists, Message: fmt.Sprintf("A %s with this name already exists.", resource)}
}

func BlankUpdate() error {
	return &Error{Kind: KindBlankUpdate, Message: "No update fields has been filled."}
}

func Validation(format string, args ...any) error {
	return &Error{Kind: KindValidation, Message: fmt.Sprintf(format, args...)}
}

// KindOf extracts the kind of a (possibly wrapped) domain error.
func KindOf(err error) ErrorKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}
