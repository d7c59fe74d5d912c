package admin

import (
	"errors"
)

var (
	ErrInvalidTheatre       = errors.New("invalid theatre")
	ErrInvalidPackage       = errors.New("invalid package")
	ErrInvalidAddon         = errors.New("invalid addon")
	ErrTheatreConflict      = errors.New("theatre already exists")
	ErrTheatreNotFound      = errors.New("theatre not found")
	ErrPackageNotFound      = errors.New("package not found")
	ErrAddonNotFound        = errors.New("addon not found")
	ErrGalleryImageNotFound = errors.New("gallery image not found")
)
