package models

// Subtoken is one tokenizer fragment with its decoded label. Offsets are byte
// offsets into the original text. Continuation marks a fragment that extends
// the previous subtoken's surface word (subword continuation, unrelated to the
// BIO I- prefix).
type Subtoken struct {
	Text         string
	Start        int
	End          int
	Continuation bool
	Label        Label
	Score        float32
}

// Word is a maximal run of subtokens reconstructing one surface word. Its
// label and score are those of its first subtoken; fragment labels after the
// first are artifacts of subword splitting and carry no entity boundary.
type Word struct {
	Text  string
	Start int
	End   int
	Label Label
	Score float32
}

// EntitySpan is one extracted entity instance: a contiguous run of words of a
// single type. Text is the exact original substring from the first word's
// start to the last word's end, punctuation and spacing preserved.
type EntitySpan struct {
	Type  EntityType `json:"type"`
	Words []Word     `json:"-"`
	Text  string     `json:"text"`
	Start int        `json:"start"`
	End   int        `json:"end"`
}

// EntityMap groups extracted surface strings by entity type, in order of
// appearance. A key is present only if at least one span of that type was
// emitted.
type EntityMap map[EntityType][]string

// TokenLabel pairs a word-level token with its tag name for API responses.
type TokenLabel struct {
	Token string `json:"token"`
	Label string `json:"label"`
}

// PredictionResult is the engine's output for a single text.
type PredictionResult struct {
	Text     string       `json:"text"`
	Tokens   []TokenLabel `json:"tokens"`
	Entities EntityMap    `json:"entities"`
}

// BatchPrediction is one item of a batch response. Exactly one of Result and
// Err is set; a failed item never aborts its siblings.
type BatchPrediction struct {
	Result *PredictionResult
	Err    error
}
