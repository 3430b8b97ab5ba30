package testutil

// WithCampusData adds the standard dataset used across packages.
//
//	S1000 Ana Lopez   -> C2000 Algebra (cap 2), C2001 History (unlimited)
//	S1001 Ben Okafor  -> C2000 Algebra
//	S1002 Cleo Park   -> C2002 Physics (cap 1)
//
// Enrollments are E3000..E3003 in that order.
func (b *Builder) WithCampusData() *Builder {
	return b.
		WithStudent("Ana Lopez", Email("ana@x.com")).
		WithStudent("Ben Okafor", Email("ben@x.com")).
		WithStudent("Cleo Park", Email("cleo@x.com")).
		WithCourse("Algebra", Capacity(2)).
		WithCourse("History").
		WithCourse("Physics", Capacity(1)).
		WithEnrollment("S1000", "C2000").
		WithEnrollment("S1001", "C2000").
		WithEnrollment("S1000", "C2001").
		WithEnrollment("S1002", "C2002")
}
