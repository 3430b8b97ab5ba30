package registration

// Course is an offered course with an optional enrollment capacity.
type Course struct {
	id       string
	name     string
	capacity int // 0 means unlimited
}

// NewCourse creates a Course. Negative capacities are clamped to 0 (unlimited).
func NewCourse(id, name string, capacity int) Course {
	return Course{id: id, name: name, capacity: max(0, capacity)}
}

// ID returns the course id (e.g. C2000).
func (c Course) ID() string {
	return c.id
}

// Name returns the course name.
func (c Course) Name() string {
	return c.name
}

// Capacity returns the maximum number of active enrollments, 0 for unlimited.
func (c Course) Capacity() int {
	return c.capacity
}

// Unlimited reports whether the course accepts any number of students.
func (c Course) Unlimited() bool {
	return c.capacity == 0
}

// HasSpace reports whether the course can take another student when
// enrolled students are already enrolled.
func (c Course) HasSpace(enrolled int) bool {
	return c.capacity == 0 || enrolled < c.capacity
}

// Equal reports whether c and other have the same id.
func (c Course) Equal(other Course) bool {
	return c.id == other.id
}
