/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package main

import (
	"fmt"
	"strconv"
)

const sizePrefixes = "kMGTPE"

// humanReadableSize formats a byte count with SI prefixes for the request log.
func humanReadableSize(bytes int64) string {
	if bytes < 1000 {
		return strconv.FormatInt(bytes, 10) + " B"
	}

	value := float64(bytes) / 1000
	prefix := 0
	for value >= 1000 && prefix < len(sizePrefixes)-1 {
		value /= 1000
		prefix++
	}

	return fmt.Sprintf("%.1f %cB", value, sizePrefixes[prefix])
}
