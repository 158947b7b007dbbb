/*
Package errs provides custom error types and application-level error code constants.

These error codes are used to clearly identify specific business or system errors
both internally within the server and in communication with clients.
*/
package errs

// 1xxx: General Request Handling Errors
const (
	// ErrInvalidParams indicates that request parameter validation failed.
	ErrInvalidParams = 1001

	// ErrUnsupportedMediaType indicates that the request header Content-Type is not supported.
	ErrUnsupportedMediaType = 1002

	// ErrInvalidJSONFormat indicates that the request body JSON format is incorrect (e.g., syntax error).
	ErrInvalidJSONFormat = 1003

	// ErrExtraContentInBody indicates that the request body contained extra content after valid JSON data.
	ErrExtraContentInBody = 1004

	// ErrFormParseFailed indicates failure to parse multipart or URL-encoded form data.
	ErrFormParseFailed = 1005

	// ErrRequestEntityTooLarge indicates that the request body size exceeded the server limit.
	ErrRequestEntityTooLarge = 1006

	// ErrRateLimitExceeded indicates that the request rate has exceeded the set limit.
	ErrRateLimitExceeded = 1007

	// ErrFeatureDisabled indicates that the requested route is switched off by configuration.
	ErrFeatureDisabled = 1008
)

// 2xxx: Catalog Business Logic Errors
const (
	// ErrProductNotFound indicates that no product matched the given id, title or slug.
	ErrProductNotFound = 2101

	// ErrProductExists indicates that a product with the same title or slug already exists.
	ErrProductExists = 2102

	// ErrInvalidProductID indicates that the product id is not a valid UUID.
	ErrInvalidProductID = 2103

	// ErrFileTypeInvalid indicates that the uploaded file is not an accepted image type.
	ErrFileTypeInvalid = 2201

	// ErrFileSizeTooLarge indicates that the uploaded file exceeds the size limit.
	ErrFileSizeTooLarge = 2202
)

// 3xxx: User, Session, and Security Errors
const (
	// ErrUnauthorized indicates that the request carries no valid token.
	ErrUnauthorized = 3001

	// ErrForbidden indicates that the user lacks every role required by the route.
	ErrForbidden = 3002

	// ErrUserInactive indicates that the account was deactivated.
	ErrUserInactive = 3003

	// ErrInvalidEmail indicates that the email address is malformed.
	ErrInvalidEmail = 3101

	// ErrInvalidPassword indicates that the password does not satisfy the policy.
	ErrInvalidPassword = 3102

	// ErrInvalidFullName indicates that the full name is empty or too long.
	ErrInvalidFullName = 3103

	// ErrUserAlreadyExists indicates that the email is already registered.
	ErrUserAlreadyExists = 3104

	// ErrInvalidCredentials indicates a wrong email or password at login.
	ErrInvalidCredentials = 3105
)

// 5xxx: Internal System Errors
const (
	// ErrUnknown represents an unclassified, general server internal error.
	ErrUnknown = 5000

	// ErrFileStorageFailed indicates that the object storage rejected the operation.
	ErrFileStorageFailed = 5001
)
