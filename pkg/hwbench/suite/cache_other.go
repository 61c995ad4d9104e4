//go:build !linux && !darwin

package suite

import (
	"errors"
	"os"
)

func dropCache(*os.File, int64) error {
	return errors.ErrUnsupported
}
