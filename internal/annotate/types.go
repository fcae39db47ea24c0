package annotate

// POS is a coarse universal part-of-speech tag.
type POS string

const (
	POSNoun  POS = "NOUN"
	POSPropn POS = "PROPN"
	POSVerb  POS = "VERB"
	POSAux   POS = "AUX"
	POSAdj   POS = "ADJ"
	POSAdv   POS = "ADV"
	POSAdp   POS = "ADP"
	POSDet   POS = "DET"
	POSNum   POS = "NUM"
	POSPron  POS = "PRON"
	POSCConj POS = "CCONJ"
	POSSConj POS = "SCONJ"
	POSPart  POS = "PART"
	POSPunct POS = "PUNCT"
	POSX     POS = "X"
)

// Token is one annotated token of a prompt. Start and End are byte offsets
// into the original text so tagger entities can be mapped back onto tokens.
type Token struct {
	Index   int    `json:"index"`
	Text    string `json:"text"`
	Lower   string `json:"lower"`
	Lemma   string `json:"lemma"`
	POS     POS    `json:"pos"`
	LikeNum bool   `json:"likeNum,omitempty"`
	Start   int    `json:"start"`
	End     int    `json:"end"`
}

// Nominal reports whether the token heads a noun phrase.
func (t Token) Nominal() bool {
	return t.POS == POSNoun || t.POS == POSPropn
}

// Verbal reports whether the token is a verb or auxiliary.
func (t Token) Verbal() bool {
	return t.POS == POSVerb || t.POS == POSAux
}

// EntityLabel names the categories produced by the sequence tagger.
type EntityLabel string

const (
	EntityFieldName EntityLabel = "FIELD_NAME"
	EntityFormType  EntityLabel = "FORM_TYPE"
	EntityQuantity  EntityLabel = "QUANTITY"
	EntityAttribute EntityLabel = "ATTRIBUTE"
	EntityNegation  EntityLabel = "NEGATION"
)

// Entity is a tagged character range proposed by an external sequence tagger.
type Entity struct {
	Label EntityLabel `json:"label"`
	Text  string      `json:"text"`
	Start int         `json:"start"`
	End   int         `json:"end"`
}

// Annotator turns raw text into an ordered token sequence.
type Annotator interface {
	Annotate(text string) []Token
}

// AnnotatorFunc adapts a plain function into an Annotator.
type AnnotatorFunc func(text string) []Token

// Annotate implements Annotator.
func (f AnnotatorFunc) Annotate(text string) []Token {
	if f == nil {
		return nil
	}
	return f(text)
}

// Chunk is a contiguous noun phrase, expressed as a half-open token range.
type Chunk struct {
	Start int
	End   int
}

// NounChunks returns base noun phrases: a run of adjectives and nouns that
// ends in a noun. Determiners are not included.
func NounChunks(tokens []Token) []Chunk {
	var chunks []Chunk
	for i := 0; i < len(tokens); {
		if !chunkable(tokens[i]) {
			i++
			continue
		}
		j := i
		for j < len(tokens) && chunkable(tokens[j]) {
			j++
		}
		end := j
		for end > i && !tokens[end-1].Nominal() {
			end--
		}
		if end > i {
			chunks = append(chunks, Chunk{Start: i, End: end})
		}
		i = j
	}
	return chunks
}

func chunkable(tok Token) bool {
	return tok.Nominal() || tok.POS == POSAdj
}
