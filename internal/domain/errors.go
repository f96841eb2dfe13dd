package domain

import "locallink/internal/pkg/errors"

// ErrForbidden is returned when the caller is authenticated but not a party to the resource.
var ErrForbidden = errors.New("not authorized to perform this action")
