package publish

import "math"

// minCapacity is the floor used for small trees, where the log-based
// heuristic below degenerates (log2 of 0 or 1 is non-positive).
const minCapacity = 16

// mapCapacity sizes the Id -> path map ahead of a full tree walk so Go's
// map implementation does not repeatedly rehash while accumulating a
// large repository's worth of entries. The heuristic grows
// super-linearly with n (number of traversed entries), trading a larger
// upfront allocation for fewer rehashes on big trees:
//
//	ceil(log2(n) * (20 + max(0, log2(n)-10)^2 * 10))
func mapCapacity(n int) int {
	if n <= 1 {
		return minCapacity
	}
	l := math.Log2(float64(n))
	extra := math.Max(0, l-10)
	size := int(math.Ceil(l * (20 + extra*extra*10)))
	if size < minCapacity {
		return minCapacity
	}
	return size
}
