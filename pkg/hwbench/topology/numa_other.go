//go:build !linux && !darwin

package topology

func numaNodes() int {
	return 1
}
