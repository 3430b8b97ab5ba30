package registration

// Student is a registered student.
// Identity is the id alone; two students with the same id are the same student.
type Student struct {
	id    string
	name  string
	email string
}

// NewStudent creates a Student. Name and email are stored as given;
// validation is the caller's responsibility.
func NewStudent(id, name, email string) Student {
	return Student{id: id, name: name, email: email}
}

// ID returns the student id (e.g. S1000).
func (s Student) ID() string {
	return s.id
}

// Name returns the student's name.
func (s Student) Name() string {
	return s.name
}

// Email returns the student's email address.
func (s Student) Email() string {
	return s.email
}

// Equal reports whether s and other have the same id.
func (s Student) Equal(other Student) bool {
	return s.id == other.id
}
