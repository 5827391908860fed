package tokenizer

import (
	"bufio"
	"fmt"
	"os"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/doanngocthanh9x/faskapi-ner-address-vietnam/pkg/models"
)

const (
	unkToken           = "[UNK]"
	continuationPrefix = "##"
	// Words longer than this become a single [UNK], matching BERT behavior.
	maxWordChars = 100
)

// WordPiece is an offset-tracking WordPiece tokenizer over a vocab.txt file.
// Continuation pieces carry the ## prefix in the vocab but their emitted text
// and offsets always refer to the original input, so entity spans can be cut
// out of it verbatim.
type WordPiece struct {
	vocab     map[string]int64
	unkID     int64
	lowercase bool
}

var _ models.Tokenizer = &WordPiece{}

// NewWordPiece loads a vocabulary file with one token per line; a token's id
// is its line number.
func NewWordPiece(vocabPath string, lowercase bool) (*WordPiece, error) {
	f, err := os.Open(vocabPath)
	if err != nil {
		return nil, fmt.Errorf("open vocab: %w", err)
	}
	defer f.Close()

	vocab := make(map[string]int64)
	var id int64
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		token := strings.TrimRight(scanner.Text(), "\r")
		vocab[token] = id
		id++
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read vocab: %w", err)
	}

	unkID, ok := vocab[unkToken]
	if !ok {
		return nil, fmt.Errorf("vocab %s does not define %s", vocabPath, unkToken)
	}
	return &WordPiece{vocab: vocab, unkID: unkID, lowercase: lowercase}, nil
}

// Encode splits text into subword units in left-to-right order. Offsets are
// byte offsets into text.
func (t *WordPiece) Encode(text string) ([]models.EncodedToken, error) {
	var out []models.EncodedToken
	for _, w := range splitWords(text) {
		out = append(out, t.wordpiece(w)...)
	}
	return out, nil
}

type wordSpan struct {
	text  string
	start int
	end   int
}

// splitWords breaks text into whitespace-delimited chunks and peels leading
// and trailing punctuation off each chunk into tokens of their own. Interior
// punctuation stays attached, so "TP.HCM" remains one word while "Huệ,"
// becomes "Huệ" and ",".
func splitWords(text string) []wordSpan {
	var chunks []wordSpan
	start := -1
	for i, r := range text {
		if unicode.IsSpace(r) {
			if start >= 0 {
				chunks = append(chunks, wordSpan{text[start:i], start, i})
				start = -1
			}
			continue
		}
		if start < 0 {
			start = i
		}
	}
	if start >= 0 {
		chunks = append(chunks, wordSpan{text[start:], start, len(text)})
	}

	var words []wordSpan
	for _, c := range chunks {
		words = append(words, splitEdgePunct(c)...)
	}
	return words
}

func splitEdgePunct(c wordSpan) []wordSpan {
	runes := []rune(c.text)
	offs := runeByteOffsets(runes)

	lo, hi := 0, len(runes)
	for lo < hi && unicode.IsPunct(runes[lo]) {
		lo++
	}
	for hi > lo && unicode.IsPunct(runes[hi-1]) {
		hi--
	}

	var out []wordSpan
	for i := 0; i < lo; i++ {
		out = append(out, wordSpan{c.text[offs[i]:offs[i+1]], c.start + offs[i], c.start + offs[i+1]})
	}
	if lo < hi {
		out = append(out, wordSpan{c.text[offs[lo]:offs[hi]], c.start + offs[lo], c.start + offs[hi]})
	}
	for i := hi; i < len(runes); i++ {
		out = append(out, wordSpan{c.text[offs[i]:offs[i+1]], c.start + offs[i], c.start + offs[i+1]})
	}
	return out
}

// wordpiece greedily matches the longest vocab prefix, then continues with
// ##-prefixed pieces. A word the vocab cannot cover collapses into a single
// [UNK] spanning the whole word.
func (t *WordPiece) wordpiece(w wordSpan) []models.EncodedToken {
	runes := []rune(w.text)
	if len(runes) > maxWordChars {
		return []models.EncodedToken{t.unk(w)}
	}
	offs := runeByteOffsets(runes)

	var pieces []models.EncodedToken
	start := 0
	for start < len(runes) {
		end := len(runes)
		id := int64(-1)
		for end > start {
			sub := string(runes[start:end])
			if t.lowercase {
				sub = strings.ToLower(sub)
			}
			if start > 0 {
				sub = continuationPrefix + sub
			}
			if v, ok := t.vocab[sub]; ok {
				id = v
				break
			}
			end--
		}
		if id < 0 {
			return []models.EncodedToken{t.unk(w)}
		}
		pieces = append(pieces, models.EncodedToken{
			Text:         w.text[offs[start]:offs[end]],
			ID:           id,
			Start:        w.start + offs[start],
			End:          w.start + offs[end],
			Continuation: start > 0,
		})
		start = end
	}
	return pieces
}

func (t *WordPiece) unk(w wordSpan) models.EncodedToken {
	return models.EncodedToken{
		Text:  w.text,
		ID:    t.unkID,
		Start: w.start,
		End:   w.end,
	}
}

// runeByteOffsets returns the byte offset of each rune plus the total length.
func runeByteOffsets(runes []rune) []int {
	offs := make([]int, len(runes)+1)
	for i, r := range runes {
		offs[i+1] = offs[i] + utf8.RuneLen(r)
	}
	return offs
}
