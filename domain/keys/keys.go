package keys

import (
	"strings"
)

const (
	// PfxEditionSize prefixes cached edition sizes
	PfxEditionSize = "editionSize"
	PfxHealthCheck = "healthCheck"
)

// CustomKey is used to join the customized key by componets with specified delimiter
func CustomKey(delimiter string, components ...string) string {
	return strings.Join(components, delimiter)
}

// RedisKey is used to join the redis key by componets
func RedisKey(components ...string) string {
	return CustomKey(":", components...)
}
