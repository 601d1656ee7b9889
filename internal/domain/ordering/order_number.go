package ordering

import (
	"crypto/rand"
	"encoding/binary"
	"fmt"
	"sync/atomic"
	"time"
)

// NumberGenerator produces order numbers of the form AWE<YYMMDD><NNNN>.
// The four-digit suffix walks a randomly seeded counter, so consecutive
// numbers do not collide until 10000 orders are placed on one day; the
// unique index on order_number backstops the wrap-around.
type NumberGenerator struct {
	counter uint64
}

// NewNumberGenerator creates a generator with a random starting point
func NewNumberGenerator() *NumberGenerator {
	var seed [8]byte
	if _, err := rand.Read(seed[:]); err == nil {
		return &NumberGenerator{counter: binary.BigEndian.Uint64(seed[:])}
	}
	return &NumberGenerator{counter: uint64(time.Now().UnixNano())}
}

// Next returns the next order number for the given time
func (g *NumberGenerator) Next(now time.Time) string {
	n := atomic.AddUint64(&g.counter, 1)
	return fmt.Sprintf("AWE%s%04d", now.Format("060102"), n%10000)
}
