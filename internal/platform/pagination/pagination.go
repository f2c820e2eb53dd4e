// Package pagination applies the shared page bounds for list operations.
package pagination

const (
	// DefaultLimit is used when the caller passes no limit.
	DefaultLimit int32 = 20
	// MaxLimit caps the page size regardless of what the caller asks for.
	MaxLimit int32 = 100
)

// Clamp normalizes limit and offset: non-positive limit becomes DefaultLimit,
// limit above MaxLimit becomes MaxLimit, negative offset becomes zero.
func Clamp(limit, offset int32) (int32, int32) {
	if limit <= 0 {
		limit = DefaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}
