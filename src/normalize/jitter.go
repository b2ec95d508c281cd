package normalize

import (
	"math/rand"

	"github.com/OneOfOne/xxhash"
)

// jitter produces the bounded pseudorandom spread used for synthetic component
// scores. The stream is seeded from a hash of the raw upstream response, so
// normalization is reproducible: the same body always yields the same spread.
type jitter struct {
	rng       *rand.Rand
	halfWidth float64
}

func newJitter(seed []byte, halfWidth float64) *jitter {
	return &jitter{
		rng:       rand.New(rand.NewSource(int64(xxhash.Checksum64(seed)))),
		halfWidth: halfWidth,
	}
}

// next returns a value uniformly distributed in [-halfWidth, +halfWidth).
func (j *jitter) next() float64 {
	return j.rng.Float64()*2*j.halfWidth - j.halfWidth
}
