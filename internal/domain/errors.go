// Package domain contains business logic types and errors.
// Domain errors represent business-level failures, NOT transport errors.
// They are infrastructure-agnostic and can be mapped to exit codes or
// HTTP responses by adapters.
package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors for use with errors.Is().
var (
	// ErrLoad indicates the quote source could not be loaded at startup.
	// Fatal: the daemon must exit before binding any socket.
	ErrLoad = errors.New("quote source load failed")

	// ErrBind indicates a listening endpoint could not be acquired.
	// Fatal: the daemon must exit during startup.
	ErrBind = errors.New("bind failed")

	// ErrConnection indicates an I/O failure on a single client connection.
	// Non-fatal: the connection is discarded, the server keeps running.
	ErrConnection = errors.New("connection failed")

	// ErrRateLimited indicates a client exceeded its per-IP quote budget.
	ErrRateLimited = errors.New("rate limited")

	// ErrUnavailable indicates a required component is not ready.
	ErrUnavailable = errors.New("unavailable")
)

// LoadError provides context for quote source load failures.
type LoadError struct {
	Source string
	Reason string
	Cause  error
}

// Error implements the error interface.
func (e *LoadError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("loading quotes from %q: %s: %v", e.Source, e.Reason, e.Cause)
	}

	return fmt.Sprintf("loading quotes from %q: %s", e.Source, e.Reason)
}

// Unwrap returns the sentinel error for errors.Is() support.
func (e *LoadError) Unwrap() []error {
	if e.Cause != nil {
		return []error{ErrLoad, e.Cause}
	}

	return []error{ErrLoad}
}

// NewLoadError creates a load error with context.
func NewLoadError(source, reason string, cause error) error {
	return &LoadError{Source: source, Reason: reason, Cause: cause}
}

// BindError provides context for listener bind failures.
type BindError struct {
	Network string
	Addr    string
	Cause   error
}

// Error implements the error interface.
func (e *BindError) Error() string {
	return fmt.Sprintf("binding %s listener on %s: %v", e.Network, e.Addr, e.Cause)
}

// Unwrap returns the sentinel error for errors.Is() support.
func (e *BindError) Unwrap() []error {
	if e.Cause != nil {
		return []error{ErrBind, e.Cause}
	}

	return []error{ErrBind}
}

// NewBindError creates a bind error with context.
func NewBindError(network, addr string, cause error) error {
	return &BindError{Network: network, Addr: addr, Cause: cause}
}

// ConnectionError provides context for per-connection I/O failures.
type ConnectionError struct {
	RemoteAddr string
	Op         string
	Cause      error
}

// Error implements the error interface.
func (e *ConnectionError) Error() string {
	return fmt.Sprintf("%s to %s: %v", e.Op, e.RemoteAddr, e.Cause)
}

// Unwrap returns the sentinel error for errors.Is() support.
func (e *ConnectionError) Unwrap() []error {
	if e.Cause != nil {
		return []error{ErrConnection, e.Cause}
	}

	return []error{ErrConnection}
}

// NewConnectionError creates a connection error with context.
func NewConnectionError(op, remoteAddr string, cause error) error {
	return &ConnectionError{Op: op, RemoteAddr: remoteAddr, Cause: cause}
}

// RateLimitedError provides context for rate-limited clients.
type RateLimitedError struct {
	RemoteIP string
}

// Error implements the error interface.
func (e *RateLimitedError) Error() string {
	return fmt.Sprintf("client %s rate limited", e.RemoteIP)
}

// Unwrap returns the sentinel error for errors.Is() support.
func (e *RateLimitedError) Unwrap() error {
	return ErrRateLimited
}

// NewRateLimitedError creates a rate limited error with context.
func NewRateLimitedError(remoteIP string) error {
	return &RateLimitedError{RemoteIP: remoteIP}
}

// UnavailableError provides context for unavailable components.
type UnavailableError struct {
	Component string
	Reason    string
}

// Error implements the error interface.
func (e *UnavailableError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("component %q unavailable: %s", e.Component, e.Reason)
	}

	return fmt.Sprintf("component %q unavailable", e.Component)
}

// Unwrap returns the sentinel error for errors.Is() support.
func (e *UnavailableError) Unwrap() error {
	return ErrUnavailable
}

// NewUnavailableError creates an unavailable error with context.
func NewUnavailableError(component, reason string) error {
	return &UnavailableError{Component: component, Reason: reason}
}

// IsLoad checks if an error is a quote source load error.
func IsLoad(err error) bool {
	return errors.Is(err, ErrLoad)
}

// IsBind checks if an error is a bind error.
func IsBind(err error) bool {
	return errors.Is(err, ErrBind)
}

// IsConnection checks if an error is a per-connection error.
func IsConnection(err error) bool {
	return errors.Is(err, ErrConnection)
}

// IsRateLimited checks if an error is a rate limit rejection.
func IsRateLimited(err error) bool {
	return errors.Is(err, ErrRateLimited)
}

// IsUnavailable checks if an error is an unavailable error.
func IsUnavailable(err error) bool {
	return errors.Is(err, ErrUnavailable)
}
