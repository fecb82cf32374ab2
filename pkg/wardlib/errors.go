package wardlib

import "errors"

var (
	// ErrInvalidAction is returned when a permission action is not one of
	// allow, block or custom.
	ErrInvalidAction = errors.New("invalid permission action")

	// ErrPermissionNotFound is returned when no permission exists for a
	// cookie identity.
	ErrPermissionNotFound = errors.New("permission not found")

	// ErrEntryNotFound is returned when no history entry exists for a
	// cookie identity.
	ErrEntryNotFound = errors.New("history entry not found")

	// ErrUnsupportedScheme is returned for export destinations whose URL
	// scheme is not ftp, ftps or sftp.
	ErrUnsupportedScheme = errors.New("unsupported destination scheme")

	// ErrNoRemover is returned when enforcement is requested without a
	// cookie remover wired in.
	ErrNoRemover = errors.New("no cookie remover available")
)
