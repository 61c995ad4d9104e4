package suite

func niceFromRaw(raw int) int {
	return raw
}
