package registration

import (
	"fmt"
	"strconv"
	"strings"
)

// Id prefixes and base offsets for each entity kind.
const (
	StudentPrefix    = "S"
	CoursePrefix     = "C"
	EnrollmentPrefix = "E"

	StudentBase    = 1000
	CourseBase     = 2000
	EnrollmentBase = 3000
)

// Sequence generates monotonically increasing, prefixed ids such as S1000, S1001.
type Sequence struct {
	prefix string
	base   int
	next   int
}

// NewSequence creates a sequence whose first id is prefix+base.
func NewSequence(prefix string, base int) *Sequence {
	return &Sequence{prefix: prefix, base: base, next: base}
}

// Next returns a fresh id and advances the sequence.
func (s *Sequence) Next() string {
	id := fmt.Sprintf("%s%d", s.prefix, s.next)
	s.next++
	return id
}

// Peek returns the id the next call to Next will produce.
func (s *Sequence) Peek() string {
	return fmt.Sprintf("%s%d", s.prefix, s.next)
}

// Reseed moves the sequence past every id in use.
// The counter becomes at least base+len(inUse) and at least one past the
// highest numeric suffix among inUse ids carrying this sequence's prefix.
// Reseed never moves the counter backwards.
func (s *Sequence) Reseed(inUse []string) {
	floor := s.base + len(inUse)
	for _, id := range inUse {
		if n, ok := s.parse(id); ok && n+1 > floor {
			floor = n + 1
		}
	}
	if floor > s.next {
		s.next = floor
	}
}

func (s *Sequence) parse(id string) (int, bool) {
	rest, ok := strings.CutPrefix(id, s.prefix)
	if !ok {
		return 0, false
	}
	n, err := strconv.Atoi(rest)
	if err != nil {
		return 0, false
	}
	return n, true
}
