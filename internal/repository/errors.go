package repository

import "errors"

// снимок ещё ни разу не сохранялся
var ErrNotFound = errors.New("snapshot not found")
