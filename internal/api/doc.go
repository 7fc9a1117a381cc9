/*
Package api is the HTTP client for the README generation backend.

# Endpoints

  - GET  /api/profile/{username}  → types.Profile
  - POST /api/generate            → types.GenerateResponse

# Errors

Non-2xx responses become *StatusError. errors.Is(err, ErrNotFound) holds for
404, errors.Is(err, ErrService) for everything else. The message is taken
from a JSON "detail" field when present, otherwise from the JSON text or the
raw body, otherwise "request failed (<status>)".

A 2xx generation response without a JSON content type becomes
*UnexpectedContentTypeError, which names the observed content type.

There are no retries: one call, one attempt.
*/
package api
