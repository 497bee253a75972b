package model

import "errors"

// Common errors used across the application
var (
	// Input errors
	ErrInvalidInput = errors.New("invalid input")
	ErrInputClosed  = errors.New("input closed")

	// Auth errors
	ErrUserNotFound     = errors.New("user not found")
	ErrWrongPassword    = errors.New("incorrect password")
	ErrUsernameTaken    = errors.New("username already exists")
	ErrPasswordMismatch = errors.New("passwords do not match")

	// Session errors
	ErrNotLoggedIn     = errors.New("not logged in")
	ErrAlreadyLoggedIn = errors.New("already logged in")
	ErrSessionClosed   = errors.New("session has exited")

	// Game errors
	ErrUnknownGame   = errors.New("unknown game")
	ErrWordListEmpty = errors.New("word list is empty")
	ErrWordListLoad  = errors.New("word list could not be loaded")
	ErrGameCrashed   = errors.New("game crashed")

	// Storage errors
	ErrStorageFailure = errors.New("storage failure")
	ErrStoreLocked    = errors.New("data directory is in use by another process")
)
