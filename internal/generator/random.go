// internal/generator/random.go
package generator

import "math"

const (
	mbig  = math.MaxInt32
	mseed = 161803398
)

// Subtractive is Knuth's subtractive random number generator, seeded the same
// way as the classic .NET System.Random so a given seed always yields the same
// sequence across implementations.
type Subtractive struct {
	seeds  [56]int32
	inext  int
	inextp int
}

// NewSubtractive returns a generator initialised from seed.
func NewSubtractive(seed int32) *Subtractive {
	s := &Subtractive{}

	var subtraction int32
	switch {
	case seed == math.MinInt32:
		subtraction = math.MaxInt32
	case seed < 0:
		subtraction = -seed
	default:
		subtraction = seed
	}

	mj := mseed - subtraction
	s.seeds[55] = mj
	mk := int32(1)
	for i := 1; i < 55; i++ {
		ii := (21 * i) % 55
		s.seeds[ii] = mk
		mk = mj - mk
		if mk < 0 {
			mk += mbig
		}
		mj = s.seeds[ii]
	}
	for k := 1; k < 5; k++ {
		for i := 1; i < 56; i++ {
			s.seeds[i] -= s.seeds[1+(i+30)%55]
			if s.seeds[i] < 0 {
				s.seeds[i] += mbig
			}
		}
	}
	s.inext = 0
	s.inextp = 21
	return s
}

func (s *Subtractive) next() int32 {
	inext, inextp := s.inext+1, s.inextp+1
	if inext >= 56 {
		inext = 1
	}
	if inextp >= 56 {
		inextp = 1
	}
	ret := s.seeds[inext] - s.seeds[inextp]
	if ret == mbig {
		ret--
	}
	if ret < 0 {
		ret += mbig
	}
	s.seeds[inext] = ret
	s.inext, s.inextp = inext, inextp
	return ret
}

// Float64 returns a value in [0.0, 1.0).
func (s *Subtractive) Float64() float64 {
	return float64(s.next()) * (1.0 / mbig)
}

// Between returns a value in [lo, hi). It returns lo when hi <= lo.
func (s *Subtractive) Between(lo, hi int) int {
	if hi <= lo {
		return lo
	}
	return int(s.Float64()*float64(hi-lo)) + lo
}
