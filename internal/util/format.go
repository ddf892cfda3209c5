package util

import "fmt"

// FormatSeconds formats a whole number of seconds as m:ss.
func FormatSeconds(s uint32) string {
	return fmt.Sprintf("%d:%02d", s/60, s%60)
}

// FormatProgress formats elapsed/total as m:ss/m:ss. An unknown total
// (zero) is shown as --:--.
func FormatProgress(elapsed, total uint32) string {
	if total == 0 {
		return FormatSeconds(elapsed) + "/--:--"
	}
	return FormatSeconds(elapsed) + "/" + FormatSeconds(total)
}
