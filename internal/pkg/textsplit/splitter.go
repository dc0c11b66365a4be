package textsplit

import "strings"

const (
	defaultChunkSize    = 1000
	defaultChunkOverlap = 200
)

// separators in preference order: paragraph, line, sentence, word.
var separators = []string{"\n\n", "\n", ". ", " "}

// Splitter cuts text into retrieval-sized chunks. It prefers to break on
// paragraph boundaries, falling back to lines, sentences, words, and finally
// raw rune windows. Sizes are counted in runes.
type Splitter struct {
	chunkSize    int
	chunkOverlap int
}

func New(chunkSize, chunkOverlap int) *Splitter {
	if chunkSize <= 0 {
		chunkSize = defaultChunkSize
	}
	if chunkOverlap < 0 || chunkOverlap >= chunkSize {
		chunkOverlap = defaultChunkOverlap
		if chunkOverlap >= chunkSize {
			chunkOverlap = chunkSize / 5
		}
	}
	return &Splitter{chunkSize: chunkSize, chunkOverlap: chunkOverlap}
}

// Split returns the chunks of text. Every chunk is at most chunkSize runes;
// consecutive chunks share an overlap tail when one fits.
func (s *Splitter) Split(text string) []string {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}
	pieces := s.splitBySeparators(text, separators)
	return s.merge(pieces)
}

// splitBySeparators cuts text into pieces no longer than chunkSize runes,
// using the earliest applicable separator and recursing with the rest for
// oversized parts.
func (s *Splitter) splitBySeparators(text string, seps []string) []string {
	if runeLen(text) <= s.chunkSize {
		return []string{text}
	}
	if len(seps) == 0 {
		return s.splitByRunes(text)
	}
	sep := seps[0]
	if !strings.Contains(text, sep) {
		return s.splitBySeparators(text, seps[1:])
	}

	var pieces []string
	for _, part := range strings.SplitAfter(text, sep) {
		if part == "" {
			continue
		}
		if runeLen(part) <= s.chunkSize {
			pieces = append(pieces, part)
		} else {
			pieces = append(pieces, s.splitBySeparators(part, seps[1:])...)
		}
	}
	return pieces
}

// splitByRunes is the last resort: fixed rune windows with overlap.
func (s *Splitter) splitByRunes(text string) []string {
	runes := []rune(text)
	step := s.chunkSize - s.chunkOverlap
	if step <= 0 {
		step = s.chunkSize
	}
	var out []string
	for i := 0; i < len(runes); i += step {
		end := i + s.chunkSize
		if end > len(runes) {
			end = len(runes)
		}
		out = append(out, string(runes[i:end]))
		if end == len(runes) {
			break
		}
	}
	return out
}

// merge greedily packs pieces into chunks up to chunkSize runes, seeding each
// new chunk with the overlap tail of the previous one when there is room.
func (s *Splitter) merge(pieces []string) []string {
	var chunks []string
	var buf []rune

	flush := func() []rune {
		chunk := strings.TrimSpace(string(buf))
		if chunk != "" {
			chunks = append(chunks, chunk)
		}
		flushed := buf
		buf = nil
		return flushed
	}

	for _, p := range pieces {
		pr := []rune(p)
		if len(buf) > 0 && len(buf)+len(pr) > s.chunkSize {
			prev := flush()
			if s.chunkOverlap > 0 && len(prev) > s.chunkOverlap {
				tail := prev[len(prev)-s.chunkOverlap:]
				if len(tail)+len(pr) <= s.chunkSize {
					buf = append(buf, tail...)
				}
			}
		}
		buf = append(buf, pr...)
	}
	flush()
	return chunks
}

func runeLen(s string) int {
	return len([]rune(s))
}
