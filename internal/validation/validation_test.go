package validation

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func TestIsValidEmail(t *testing.T) {
	tests := map[string]bool{
		"ana@x.com": true,
		"a@b":       true,
		"":          false,
		"ana":       false,
		"@x.com":    false,
		"ana@":      false,
		"@":         false,
		"a@@":       true, // only the first "@" is checked
	}
	for email, want := range tests {
		require.Equal(t, want, IsValidEmail(email), email)
	}
}

func TestValidator_Student(t *testing.T) {
	v := New()

	in, err := v.Student("  Ana  ", " ana@x.com ")
	require.NoError(t, err)
	require.Equal(t, StudentInput{Name: "Ana", Email: "ana@x.com"}, in)
}

func TestValidator_StudentErrors(t *testing.T) {
	v := New()

	tests := []struct {
		name   string
		sname  string
		email  string
		fields []FieldError
	}{
		{
			name:   "empty name",
			sname:  "   ",
			email:  "ana@x.com",
			fields: []FieldError{{Field: "name", Message: "name cannot be empty"}},
		},
		{
			name:   "bad email",
			sname:  "Ana",
			email:  "ana@",
			fields: []FieldError{{Field: "email", Message: "invalid email format"}},
		},
		{
			name:  "both",
			sname: "",
			email: "",
			fields: []FieldError{
				{Field: "name", Message: "name cannot be empty"},
				{Field: "email", Message: "email cannot be empty"},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := v.Student(tt.sname, tt.email)
			var verr *Error
			require.True(t, errors.As(err, &verr))
			require.Equal(t, tt.fields, verr.Fields)
		})
	}
}

func TestError_JoinsMessages(t *testing.T) {
	err := &Error{Fields: []FieldError{
		{Field: "name", Message: "name cannot be empty"},
		{Field: "email", Message: "email cannot be empty"},
	}}
	require.EqualError(t, err, "name cannot be empty; email cannot be empty")
}

func TestValidator_Course(t *testing.T) {
	v := New()

	in, err := v.Course(" Algebra ", "2")
	require.NoError(t, err)
	require.Equal(t, CourseInput{Name: "Algebra", Capacity: 2}, in)

	in, err = v.Course("History", "lots")
	require.NoError(t, err)
	require.Equal(t, 0, in.Capacity, "non-numeric capacity means unlimited")

	_, err = v.Course("", "1")
	require.EqualError(t, err, "name cannot be empty")
}

func TestValidator_Name(t *testing.T) {
	v := New()

	name, err := v.Name("  Ana Lopez ")
	require.NoError(t, err)
	require.Equal(t, "Ana Lopez", name)

	_, err = v.Name("   ")
	var verr *Error
	require.True(t, errors.As(err, &verr))
	require.Equal(t, "name", verr.Fields[0].Field)
	require.EqualError(t, err, "name cannot be empty")
}

func TestParseCapacity(t *testing.T) {
	tests := []struct {
		in   string
		want int
		ok   bool
	}{
		{in: "3", want: 3, ok: true},
		{in: " 0 ", want: 0, ok: true},
		{in: "-4", want: 0, ok: true},
		{in: "", want: 0, ok: false},
		{in: "ten", want: 0, ok: false},
	}
	for _, tt := range tests {
		got, ok := ParseCapacity(tt.in)
		require.Equal(t, tt.want, got, tt.in)
		require.Equal(t, tt.ok, ok, tt.in)
	}
}

func TestIsValidEmail_Property(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		local := rapid.StringMatching(`[a-z0-9.]{1,10}`).Draw(t, "local")
		domain := rapid.StringMatching(`[a-z0-9.@]{1,10}`).Draw(t, "domain")
		if !IsValidEmail(local + "@" + domain) {
			t.Fatalf("expected %q@%q to be valid", local, domain)
		}
		if IsValidEmail("@" + domain) {
			t.Fatalf("leading @ must be invalid")
		}
	})
}
