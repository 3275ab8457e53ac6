package congestion

// minstd is the Park-Miller "minimal standard" generator with multiplier
// 48271. Seeding it with the departure time makes an injection
// reproducible from the query alone.
type minstd struct {
	state uint32
}

const (
	minstdModulus    = 2147483647
	minstdMultiplier = 48271
)

func newMinstd(seed uint32) *minstd {
	s := seed % minstdModulus
	if s == 0 {
		s = 1
	}
	return &minstd{state: s}
}

// next advances the generator and returns a value in [1, 2^31-2].
func (r *minstd) next() uint32 {
	r.state = uint32(uint64(r.state) * minstdMultiplier % minstdModulus)
	return r.state
}
