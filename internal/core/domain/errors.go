package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested file or directory does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrInvalidConfig indicates a configuration document failed validation.
	ErrInvalidConfig = errors.New("invalid configuration")

	// ErrMissingCredentials indicates no API key was provided in the
	// configuration or the environment.
	ErrMissingCredentials = errors.New("missing credentials")

	// ErrEmptyWord indicates a transformer received an empty input word.
	ErrEmptyWord = errors.New("empty input word")

	// ErrMalformedResponse indicates the generative backend returned a
	// response that could not be parsed into a word list.
	ErrMalformedResponse = errors.New("malformed backend response")

	// ErrRetriesExhausted indicates a backend operation failed after all
	// configured attempts.
	ErrRetriesExhausted = errors.New("retries exhausted")
)
