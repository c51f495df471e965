package db

import "errors"

// ErrDuplicate is returned when an insert violates a unique index
var ErrDuplicate = errors.New("record already exists")
