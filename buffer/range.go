package buffer

// Range is a half-open span of character offsets [Location, Location+Length).
type Range struct {
	Location int
	Length   int
}

func NewRange(location, length int) Range {
	return Range{Location: location, Length: length}
}

// RangeBetween builds the range covering [a, b), swapping if needed.
func RangeBetween(a, b int) Range {
	if b < a {
		a, b = b, a
	}
	return Range{Location: a, Length: b - a}
}

func (r Range) End() int {
	return r.Location + r.Length
}

func (r Range) Empty() bool {
	return r.Length == 0
}

func (r Range) Contains(offset int) bool {
	return offset >= r.Location && offset < r.End()
}

// Intersects reports whether the two half-open ranges overlap.
// Empty ranges never intersect anything.
func (r Range) Intersects(other Range) bool {
	return r.Location < other.End() && other.Location < r.End()
}
