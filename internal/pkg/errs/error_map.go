/*
Package errs provides custom error types and application-level error code constants.

This file defines the map from error codes to the CustomError struct, used to standardize
HTTP responses and internal error handling.
*/
package errs

import "net/http"

// errorMap stores the detailed CustomError struct corresponding to every application error code.
// The key is the error code (int), and the value contains the user message and HTTP status code.
var errorMap = map[int]CustomError{
	// 1xxx: General Request Handling Errors
	ErrInvalidParams:         {Code: ErrInvalidParams, Message: "Invalid request parameters.", Status: http.StatusBadRequest},
	ErrUnsupportedMediaType:  {Code: ErrUnsupportedMediaType, Message: "Unsupported request format.", Status: http.StatusUnsupportedMediaType},
	ErrInvalidJSONFormat:     {Code: ErrInvalidJSONFormat, Message: "Unsupported request format.", Status: http.StatusBadRequest},
	ErrExtraContentInBody:    {Code: ErrExtraContentInBody, Message: "Request contains unexpected data.", Status: http.StatusBadRequest},
	ErrFormParseFailed:       {Code: ErrFormParseFailed, Message: "Failed to process uploaded data.", Status: http.StatusBadRequest},
	ErrRequestEntityTooLarge: {Code: ErrRequestEntityTooLarge, Message: "Request size is too large.", Status: http.StatusRequestEntityTooLarge},
	ErrRateLimitExceeded:     {Code: ErrRateLimitExceeded, Message: "Too many requests. Please try again later.", Status: http.StatusTooManyRequests},
	ErrFeatureDisabled:       {Code: ErrFeatureDisabled, Message: "This feature is not available.", Status: http.StatusNotFound},

	// 2xxx: Catalog Business Logic Errors
	ErrProductNotFound:  {Code: ErrProductNotFound, Message: "Product %s not found.", Status: http.StatusNotFound},
	ErrProductExists:    {Code: ErrProductExists, Message: "A product with this title or slug already exists.", Status: http.StatusBadRequest},
	ErrInvalidProductID: {Code: ErrInvalidProductID, Message: "Invalid product id.", Status: http.StatusBadRequest},
	ErrFileTypeInvalid:  {Code: ErrFileTypeInvalid, Message: "Only jpg, jpeg, png and gif images are accepted.", Status: http.StatusBadRequest},
	ErrFileSizeTooLarge: {Code: ErrFileSizeTooLarge, Message: "File is too large.", Status: http.StatusBadRequest},

	// 3xxx: User, Session, and Security Errors
	ErrUnauthorized:       {Code: ErrUnauthorized, Message: "Please sign in to continue.", Status: http.StatusUnauthorized},
	ErrForbidden:          {Code: ErrForbidden, Message: "You do not have permission to do this.", Status: http.StatusForbidden},
	ErrUserInactive:       {Code: ErrUserInactive, Message: "This account is inactive. Please contact an admin.", Status: http.StatusUnauthorized},
	ErrInvalidEmail:       {Code: ErrInvalidEmail, Message: "Invalid email address.", Status: http.StatusBadRequest},
	ErrInvalidPassword:    {Code: ErrInvalidPassword, Message: "Password must have 6-50 characters, an uppercase letter, a lowercase letter and a number or symbol.", Status: http.StatusBadRequest},
	ErrInvalidFullName:    {Code: ErrInvalidFullName, Message: "Invalid full name.", Status: http.StatusBadRequest},
	ErrUserAlreadyExists:  {Code: ErrUserAlreadyExists, Message: "Email is already registered.", Status: http.StatusBadRequest},
	ErrInvalidCredentials: {Code: ErrInvalidCredentials, Message: "Incorrect email or password.", Status: http.StatusUnauthorized},

	// 5xxx: Internal System Errors
	ErrUnknown:           {Code: ErrUnknown, Message: "Unexpected error, check server logs.", Status: http.StatusInternalServerError},
	ErrFileStorageFailed: {Code: ErrFileStorageFailed, Message: "File upload failed. Please try again.", Status: http.StatusBadGateway},
}
