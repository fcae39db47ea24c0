// Package annotate exposes the token and entity contracts the resolution
// engine consumes. Callers can plug in their own Annotator (for example one
// backed by an NLP service) or rely on the built-in lexicon annotator.
package annotate

import internal "github.com/goliatone/go-formprompt/internal/annotate"

type (
	POS         = internal.POS
	Token       = internal.Token
	Entity      = internal.Entity
	EntityLabel = internal.EntityLabel
	Annotator   = internal.Annotator
	Chunk       = internal.Chunk
)

// AnnotatorFunc adapts a function into an Annotator.
type AnnotatorFunc = internal.AnnotatorFunc

const (
	POSNoun  = internal.POSNoun
	POSPropn = internal.POSPropn
	POSVerb  = internal.POSVerb
	POSAux   = internal.POSAux
	POSAdj   = internal.POSAdj
	POSAdv   = internal.POSAdv
	POSAdp   = internal.POSAdp
	POSDet   = internal.POSDet
	POSNum   = internal.POSNum
	POSPron  = internal.POSPron
	POSCConj = internal.POSCConj
	POSSConj = internal.POSSConj
	POSPart  = internal.POSPart
	POSPunct = internal.POSPunct
	POSX     = internal.POSX
)

const (
	EntityFieldName = internal.EntityFieldName
	EntityFormType  = internal.EntityFormType
	EntityQuantity  = internal.EntityQuantity
	EntityAttribute = internal.EntityAttribute
	EntityNegation  = internal.EntityNegation
)

// Default returns the built-in lexicon annotator.
func Default() Annotator {
	return internal.NewHeuristic()
}

// NounChunks returns the base noun phrases of a token sequence.
func NounChunks(tokens []Token) []Chunk {
	return internal.NounChunks(tokens)
}
