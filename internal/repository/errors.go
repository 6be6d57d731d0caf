package repository

import "github.com/alexanderramin/planboard/internal/domain"

// ErrNotFound is returned when a lookup or delete matches no row. It is the
// domain sentinel, so callers can match either.
var ErrNotFound = domain.ErrNotFound
