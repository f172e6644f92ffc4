// Package errors provides structured error handling for the elements runtime.
package errors

import (
	"errors"
	"fmt"
	"time"
)

// Sentinel errors returned by the runtime. Compare with errors.Is.
var (
	// ErrUnknownProperty is returned when a property name has not been declared on the element's type.
	ErrUnknownProperty = errors.New("unknown property")
	// ErrInvalidTag is returned when a tag name is not a valid custom element name.
	ErrInvalidTag = errors.New("invalid custom element name")
	// ErrDuplicateTag is returned when a tag name is already defined in a registry.
	ErrDuplicateTag = errors.New("tag already defined")
	// ErrTypeDefined is returned when a type is defined under a second tag.
	ErrTypeDefined = errors.New("type already defined")
	// ErrUnsupportedDescription is returned by a render function that cannot commit a description.
	ErrUnsupportedDescription = errors.New("unsupported render description")
)

// ErrorKind identifies the category of an error.
type ErrorKind int

const (
	// KindUnknown indicates an error of unknown type.
	KindUnknown ErrorKind = iota
	// KindConfig indicates a type declaration or registration error.
	KindConfig
	// KindAttribute indicates a failed attribute to property conversion.
	KindAttribute
	// KindRender indicates a rendering error.
	KindRender
	// KindPanic indicates a recovered panic.
	KindPanic
	// KindPlatform indicates a host document error.
	KindPlatform
)

func (k ErrorKind) String() string {
	switch k {
	case KindConfig:
		return "config"
	case KindAttribute:
		return "attribute"
	case KindRender:
		return "render"
	case KindPanic:
		return "panic"
	case KindPlatform:
		return "platform"
	default:
		return "unknown"
	}
}

// ElementError represents a structured error raised by an element or its host.
type ElementError struct {
	// Op is the operation that failed (e.g., "core.AttributeChangedCallback").
	Op string
	// Kind categorizes the error.
	Kind ErrorKind
	// Tag is the custom element tag involved, if any.
	Tag string
	// Err is the underlying error.
	Err error
	// StackTrace contains the call stack at the time of the error.
	StackTrace string
	// Timestamp is when the error occurred.
	Timestamp time.Time
}

func (e *ElementError) Error() string {
	if e.Tag != "" {
		return fmt.Sprintf("%s [%s] tag=%s: %v", e.Op, e.Kind, e.Tag, e.Err)
	}
	return fmt.Sprintf("%s [%s]: %v", e.Op, e.Kind, e.Err)
}

func (e *ElementError) Unwrap() error {
	return e.Err
}

// PanicError represents a recovered panic.
type PanicError struct {
	// Op is the operation that panicked (e.g., "loop.task").
	Op string
	// Value is the value passed to panic().
	Value any
	// StackTrace contains the call stack at the time of the panic.
	StackTrace string
	// Timestamp is when the panic occurred.
	Timestamp time.Time
}

func (e *PanicError) Error() string {
	if e.Op != "" {
		return fmt.Sprintf("panic in %s: %v", e.Op, e.Value)
	}
	return fmt.Sprintf("panic: %v", e.Value)
}

// AttributeError represents a failure to convert a raw attribute value.
type AttributeError struct {
	// Attribute is the observed attribute name.
	Attribute string
	// Property is the declared property the value was destined for.
	Property string
	// Raw is the attribute value received from the host.
	Raw string
	// Err is the conversion failure.
	Err error
}

func (e *AttributeError) Error() string {
	return fmt.Sprintf("attribute %s=%q cannot be assigned to property %s: %v", e.Attribute, e.Raw, e.Property, e.Err)
}

func (e *AttributeError) Unwrap() error {
	return e.Err
}

// RenderError represents a failed render pass.
type RenderError struct {
	// Tag is the custom element tag of the failing instance.
	Tag string
	// ID identifies the failing instance.
	ID string
	// Recovered is the panic value (nil for regular errors).
	Recovered any
	// Err is the underlying error (nil for panics).
	Err error
	// StackTrace contains the call stack at the time of the error.
	StackTrace string
	// Timestamp is when the error occurred.
	Timestamp time.Time
}

func (e *RenderError) Error() string {
	if e.Recovered != nil {
		return fmt.Sprintf("panic rendering <%s>: %v", e.Tag, e.Recovered)
	}
	if e.Err != nil {
		return fmt.Sprintf("error rendering <%s>: %v", e.Tag, e.Err)
	}
	return fmt.Sprintf("unknown error rendering <%s>", e.Tag)
}

func (e *RenderError) Unwrap() error {
	return e.Err
}

// ErrorHandler receives errors reported by the runtime.
type ErrorHandler interface {
	// HandleError is called when an error occurs.
	HandleError(err *ElementError)
	// HandlePanic is called when a panic is recovered.
	HandlePanic(err *PanicError)
	// HandleRenderError is called when a render pass fails.
	HandleRenderError(err *RenderError)
}
