package pricefeed

import "strings"

const idPrefix = "0x"

// NormalizeID returns the feed id with a leading 0x. Ids that already carry
// the prefix are returned unchanged.
func NormalizeID(id string) string {
	if strings.HasPrefix(id, idPrefix) {
		return id
	}

	return idPrefix + id
}
