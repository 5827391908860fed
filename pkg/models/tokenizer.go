package models

// EncodedToken is one subword unit produced by the tokenizer, before any
// label is assigned. Start and End are byte offsets into the original text;
// Continuation marks a fragment of the previous token's surface word.
type EncodedToken struct {
	Text         string
	ID           int64
	Start        int
	End          int
	Continuation bool
}

// Tokenizer splits raw text into subword units with offsets. Implementations
// must emit tokens in left-to-right text order.
type Tokenizer interface {
	Encode(text string) ([]EncodedToken, error)
}
