// Package enrol defines the domain result codes the enrolment API has
// always spoken. The numeric values predate this service and are part of
// its contract: clients read the `code` field out of the JSON body, so the
// historical values are preserved there even where they diverge from what
// the HTTP layer should send on the wire (203 for "forbidden" being the
// notable offender).
package enrol

import "net/http"

// Code is a domain-level result code carried in every response body.
type Code int

const (
	// CodeCreated reports a successful enrolment or un-enrolment.
	CodeCreated Code = 201
	// CodeForbidden reports a failed privilege check. Historically the API
	// sent this as a literal HTTP 203; the value survives in the body only.
	CodeForbidden Code = 203
	// CodeNotFound reports a missing house, role or mastercode, including a
	// mastercode with no places left.
	CodeNotFound Code = 404
	// CodeStoreFailure reports a persistence error during a mutation.
	CodeStoreFailure Code = 500
)

// HTTPStatus maps a domain code to the conventional transport status.
// CodeForbidden maps to 403: proxies and clients mishandle a bare 203.
func (c Code) HTTPStatus() int {
	switch c {
	case CodeCreated:
		return http.StatusCreated
	case CodeForbidden:
		return http.StatusForbidden
	case CodeNotFound:
		return http.StatusNotFound
	case CodeStoreFailure:
		return http.StatusInternalServerError
	}
	return http.StatusOK
}

// Result is the structured outcome every enrolment operation resolves to.
// No failure escapes a handler as an unhandled fault; they all collapse
// into one of these.
type Result struct {
	Message string `json:"message"`
	Code    Code   `json:"code"`
}

// Created builds a success result with the given message.
func Created(msg string) Result { return Result{Message: msg, Code: CodeCreated} }

// NotFound builds a client-error result for a missing resource.
func NotFound(msg string) Result { return Result{Message: msg, Code: CodeNotFound} }

// Forbidden builds a privilege-failure result.
func Forbidden(msg string) Result { return Result{Message: msg, Code: CodeForbidden} }

// StoreFailure builds a server-error result for a failed mutation.
func StoreFailure(msg string) Result { return Result{Message: msg, Code: CodeStoreFailure} }
