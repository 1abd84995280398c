package service

import (
	"crypto/rand"
	"math/big"
	"strconv"
	"strings"
	"sync"
	"time"
)

const (
	ticketCodePrefix   = "TKT-"
	ticketCodeAlphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ"
	ticketCodeSuffix   = 4
)

// CodeGenerator issues ticket codes of the form TKT-<base36 millis>-<XXXX>.
// The millisecond component never repeats within a process, even when the
// wall clock stalls or steps backwards.
type CodeGenerator struct {
	mu   sync.Mutex
	last int64
	now  func() time.Time
}

// NewCodeGenerator returns a generator reading the system clock.
func NewCodeGenerator() *CodeGenerator {
	return &CodeGenerator{now: time.Now}
}

// Next returns a fresh ticket code.
func (g *CodeGenerator) Next() (string, error) {
	millis := g.tick()
	suffix, err := randomSuffix(ticketCodeSuffix)
	if err != nil {
		return "", err
	}
	return ticketCodePrefix + strings.ToUpper(strconv.FormatInt(millis, 36)) + "-" + suffix, nil
}

func (g *CodeGenerator) tick() int64 {
	g.mu.Lock()
	defer g.mu.Unlock()
	millis := g.now().UnixMilli()
	if millis <= g.last {
		millis = g.last + 1
	}
	g.last = millis
	return millis
}

func randomSuffix(n int) (string, error) {
	max := big.NewInt(int64(len(ticketCodeAlphabet)))
	buf := make([]byte, n)
	for i := range buf {
		idx, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		buf[i] = ticketCodeAlphabet[idx.Int64()]
	}
	return string(buf), nil
}
