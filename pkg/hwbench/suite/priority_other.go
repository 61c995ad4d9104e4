//go:build !linux && !darwin

package suite

import "errors"

func raisePriority(int) (func(), error) {
	return func() {}, errors.ErrUnsupported
}
