// Package http implements the HTTP handlers for the market pulse API.
// It provides a thin layer between HTTP transport and the service layer,
// keeping handlers focused solely on HTTP concerns.
//
// Handlers in this package follow these principles:
//
//	1. Thin handlers - minimal logic, delegate to services
//	2. HTTP-only concerns - request parsing, response formatting
//	3. Error transformation - convert service errors to HTTP responses
//	4. No business logic - all logic belongs in the service layer
//
// All errors follow RFC 7807 Problem Details:
//
//	{
//	    "type": "/errors/layer/not-found",
//	    "title": "Not Found",
//	    "status": 404,
//	    "detail": "unknown layer: \"bogus\"",
//	    "instance": "/api/layer/bogus"
//	}
package http
