package playback

import (
	"math/rand/v2"

	"github.com/dmitrijs2005/gophjournal/internal/client/models"
)

// NoNext means the playlist is finished.
const NoNext = -1

// Rand is the randomness SelectNext needs; *rand.Rand satisfies it.
type Rand interface {
	IntN(n int) int
}

type globalRand struct{}

func (globalRand) IntN(n int) int { return rand.IntN(n) }

// SelectNext picks the index that follows current in a playlist of count
// tracks. current < 0 means nothing has played yet; every mode then yields
// a starting index. newLastShuffle is lastShuffle updated by a shuffle draw.
//
//   - shuffle: a uniform draw that differs from lastShuffle when count > 1
//   - repeat: current again
//   - repeat_all: current+1, wrapping to 0
//   - normal: current+1, NoNext past the end
func SelectNext(mode models.PlaybackMode, current, count, lastShuffle int, rnd Rand) (next, newLastShuffle int) {
	if count <= 0 {
		return NoNext, lastShuffle
	}

	switch mode {
	case models.ModeShuffle:
		if count == 1 {
			return 0, lastShuffle
		}
		for {
			next = rnd.IntN(count)
			if next != lastShuffle {
				return next, next
			}
		}
	case models.ModeRepeat:
		if current < 0 || current >= count {
			return 0, lastShuffle
		}
		return current, lastShuffle
	case models.ModeRepeatAll:
		if current < 0 {
			return 0, lastShuffle
		}
		return (current + 1) % count, lastShuffle
	default:
		next = current + 1
		if next >= count {
			return NoNext, lastShuffle
		}
		return next, lastShuffle
	}
}
