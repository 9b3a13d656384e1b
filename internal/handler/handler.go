// Package handler is the HTTP layer, the first stop after the router.
//
// It binds and validates requests through the validation package, calls the
// service layer and writes the response. Errors are returned to Echo and
// rendered by the global error handler.
package handler
