package equity

import (
	"encoding/binary"
	"sync"

	"github.com/cespare/xxhash"
	"github.com/kamstrup/intmap"

	"github.com/domino14/stacker/board"
	"github.com/domino14/stacker/game"
)

const DefaultCacheSize = 1 << 16

type cacheEntry struct {
	board board.Board
	props game.Props
	score float32
}

// CachedCalculator memoizes another calculator. Scores depend only on the
// board and the offense counters, so those are the key. The same board is
// reached by many different placements across a game's search, which makes
// hits common.
type CachedCalculator struct {
	sync.Mutex
	calc    EquityCalculator
	entries *intmap.Map[uint64, cacheEntry]
	maxSize int

	hits, misses int
}

func NewCachedCalculator(calc EquityCalculator, maxSize int) *CachedCalculator {
	if maxSize <= 0 {
		maxSize = DefaultCacheSize
	}
	return &CachedCalculator{
		calc:    calc,
		entries: intmap.New[uint64, cacheEntry](1024),
		maxSize: maxSize,
	}
}

func fingerprint(b board.Board, p game.Props) uint64 {
	var buf [board.Height*2 + 7*4]byte
	for y, r := range b {
		binary.LittleEndian.PutUint16(buf[y*2:], r)
	}
	off := board.Height * 2
	for _, v := range []int{p.Atk, p.DS, p.SumAtk, p.SumDS, p.B2B, p.Combo, p.Lines} {
		binary.LittleEndian.PutUint32(buf[off:], uint32(int32(v)))
		off += 4
	}
	return xxhash.Sum64(buf[:])
}

func (cc *CachedCalculator) Evaluate(st *game.State) float32 {
	key := fingerprint(st.Board, st.Props)

	cc.Lock()
	if e, ok := cc.entries.Get(key); ok && e.board == st.Board && e.props == st.Props {
		cc.hits++
		cc.Unlock()
		return e.score
	}
	cc.misses++
	cc.Unlock()

	score := cc.calc.Evaluate(st)

	cc.Lock()
	if cc.entries.Len() >= cc.maxSize {
		cc.entries.Clear()
	}
	cc.entries.Put(key, cacheEntry{board: st.Board, props: st.Props, score: score})
	cc.Unlock()
	return score
}

func (cc *CachedCalculator) Type() string {
	return "Cached" + cc.calc.Type()
}

// Stats returns the hit and miss counts so far.
func (cc *CachedCalculator) Stats() (hits, misses int) {
	cc.Lock()
	defer cc.Unlock()
	return cc.hits, cc.misses
}

func (cc *CachedCalculator) Len() int {
	cc.Lock()
	defer cc.Unlock()
	return cc.entries.Len()
}
