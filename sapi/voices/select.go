package voices

import (
	"math"

	"github.com/charmbracelet/log"
	"github.com/polyvox/polyvox/sapi/langdetect"
)

// worstRank is worse than any real candidate index.
const worstRank = math.MaxInt

// Rank returns the position of a voice's language within the ranked
// candidate list, using the approximate code matching rule. An unmatched
// language ranks worse than any real index.
func Rank(ranked []string, language string) int {
	for i, candidate := range ranked {
		if langdetect.EqualLanguageCodes(candidate, language) {
			return i
		}
	}
	return worstRank
}

// Select picks the voice whose language ranks best against the candidate
// list. The default voice is evaluated first and kept unless another voice
// ranks strictly better; among equally ranked candidates the earliest seen
// wins. When nothing matches, the default is used: degraded quality is
// acceptable, silent failure is not, so the miss is logged.
func Select(ranked []string, available []Voice, def Voice) Voice {
	best := def
	bestRank := Rank(ranked, def.Language)

	for _, v := range available {
		if r := Rank(ranked, v.Language); r < bestRank {
			best = v
			bestRank = r
		}
	}

	if bestRank == worstRank {
		log.Info("no voice matches any candidate language, keeping default",
			"candidates", ranked, "voice", def.Name)
	} else {
		log.Debug("selected voice", "voice", best.Name, "language", best.Language, "rank", bestRank)
	}
	return best
}
