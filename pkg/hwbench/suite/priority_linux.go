package suite

// The getpriority syscall returns 20 - nice on Linux.
func niceFromRaw(raw int) int {
	return 20 - raw
}
