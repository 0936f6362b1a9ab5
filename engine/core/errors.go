package core

import (
	"errors"
)

var ErrReloadFailed = errors.New("hot reload failed")
