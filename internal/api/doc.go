// Package api implements the HTTP surface of the todo service: the chi router,
// the task and health handlers, the OpenAPI document and the mapping from
// service errors to HTTP responses.
//
// Handlers never write raw error strings to clients. Every failure goes
// through HandleAPIError, which picks the status code and a safe message.
package api
