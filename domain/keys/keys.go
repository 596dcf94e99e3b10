package keys

import "strings"

const (
	// PfxMarketConfig is used for prefixing market config cache key
	PfxMarketConfig = "marketConfig"
	// PfxListing is used for prefixing listing cache key
	PfxListing = "listing"
	// PfxHealthCheck is used for prefixing health check key
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
