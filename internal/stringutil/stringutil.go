package stringutil

// TruncString returns a copy of val truncated to max bytes.
func TruncString(val string, max int) string {
	if len(val) > max {
		return val[:max]
	}
	return val
}
