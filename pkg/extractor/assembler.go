package extractor

import (
	"github.com/doanngocthanh9x/faskapi-ner-address-vietnam/pkg/models"
)

// EntityAssembler merges labeled subtokens into words and words into entity
// spans. Malformed BIO sequences are recovered, never raised; only a label
// outside the closed enumeration is an error.
type EntityAssembler struct{}

func NewEntityAssembler() *EntityAssembler {
	return &EntityAssembler{}
}

// Words merges subword continuations back into surface words. A word's label
// and score come from its first fragment; continuation fragments extend the
// word's offsets and their own labels are ignored, since they are artifacts
// of subword splitting rather than entity boundaries.
func (a *EntityAssembler) Words(text string, subtokens []models.Subtoken) []models.Word {
	words := make([]models.Word, 0, len(subtokens))
	for _, st := range subtokens {
		if st.Continuation && len(words) > 0 {
			last := &words[len(words)-1]
			last.End = st.End
			last.Text = text[last.Start:last.End]
			continue
		}
		words = append(words, models.Word{
			Text:  text[st.Start:st.End],
			Start: st.Start,
			End:   st.End,
			Label: st.Label,
			Score: st.Score,
		})
	}
	return words
}

// openSpan is the scan state: the span under construction, or nil between
// spans.
type openSpan struct {
	typ   models.EntityType
	words []models.Word
}

// Assemble walks the word sequence once, left to right, and emits entity
// spans. A B- tag closes the open span and starts a new one. An I- tag
// extends the open span when the types match; a stray or type-mismatched I-
// opens a new span as if it were B-, so imperfect model output degrades into
// a best-effort boundary instead of failing extraction. O closes the open
// span. Span text is the original substring between the first and last
// word's offsets.
func (a *EntityAssembler) Assemble(
	text string,
	words []models.Word,
) ([]models.EntitySpan, models.EntityMap, error) {
	var spans []models.EntitySpan
	entities := make(models.EntityMap)
	var open *openSpan

	emit := func() {
		if open == nil {
			return
		}
		first := open.words[0]
		last := open.words[len(open.words)-1]
		span := models.EntitySpan{
			Type:  open.typ,
			Words: open.words,
			Text:  text[first.Start:last.End],
			Start: first.Start,
			End:   last.End,
		}
		spans = append(spans, span)
		entities[span.Type] = append(entities[span.Type], span.Text)
		open = nil
	}

	for _, w := range words {
		switch w.Label.Prefix {
		case models.PrefixOutside:
			emit()
		case models.PrefixBegin:
			if _, err := models.ParseEntityType(string(w.Label.Type)); err != nil {
				return nil, nil, err
			}
			emit()
			open = &openSpan{typ: w.Label.Type, words: []models.Word{w}}
		case models.PrefixInside:
			if _, err := models.ParseEntityType(string(w.Label.Type)); err != nil {
				return nil, nil, err
			}
			if open != nil && open.typ == w.Label.Type {
				open.words = append(open.words, w)
				continue
			}
			// Tolerant merge: treat as B-
			emit()
			open = &openSpan{typ: w.Label.Type, words: []models.Word{w}}
		default:
			return nil, nil, models.NewUnknownLabelError(w.Label.String())
		}
	}
	emit()

	return spans, entities, nil
}
