package debugger

import "golang.org/x/exp/constraints"

type Sequence[I constraints.Unsigned] struct {
	n I
}

func (s *Sequence[I]) Next() I {
	s.n++
	return s.n
}
