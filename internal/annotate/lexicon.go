package annotate

func words(pos POS, list ...string) map[string]POS {
	out := make(map[string]POS, len(list))
	for _, w := range list {
		out[w] = pos
	}
	return out
}

func merge(parts ...map[string]POS) map[string]POS {
	out := make(map[string]POS)
	for _, part := range parts {
		for k, v := range part {
			out[k] = v
		}
	}
	return out
}

var lexicon = merge(
	words(POSDet, "a", "an", "the", "this", "that", "these", "those", "all",
		"every", "each", "some", "any", "no", "another", "my", "your", "our",
		"their", "his", "her", "its", "both", "either", "neither"),
	words(POSPron, "i", "me", "we", "us", "you", "he", "she", "it", "they",
		"them", "someone", "anyone", "everyone", "everything", "something",
		"which", "who", "whom", "what", "i'd", "i'm", "we'd", "it's", "one's"),
	words(POSAdp, "with", "without", "for", "of", "in", "on", "at", "to",
		"from", "by", "about", "into", "like", "including", "except", "per",
		"as", "between", "after", "before", "than", "via", "up", "out",
		"under", "over", "within"),
	words(POSCConj, "and", "or", "but", "nor", "plus", "&"),
	words(POSSConj, "if", "because", "while", "when", "so", "whether", "where"),
	words(POSAux, "be", "is", "are", "was", "were", "been", "being", "am",
		"can", "cannot", "can't", "could", "couldn't", "should", "shouldn't",
		"would", "wouldn't", "will", "won't", "shall", "may", "might", "must",
		"do", "does", "did", "don't", "doesn't", "didn't", "isn't", "aren't",
		"dont", "doesnt", "cant"),
	words(POSPart, "not", "n't", "never"),
	words(POSAdj, "required", "optional", "mandatory", "compulsory",
		"essential", "obligatory", "necessary", "needed", "short", "long",
		"full", "first", "last", "middle", "personal", "additional", "extra",
		"new", "simple", "basic", "small", "large", "multiple", "single", "own",
		"valid", "other", "important", "detailed", "brief", "main", "primary",
		"secondary", "current", "previous", "preferred", "favourite",
		"favorite", "different", "separate", "few", "several", "many", "more",
		"quick", "big", "free", "open", "total", "general"),
	words(POSAdv, "also", "please", "just", "only", "then", "too", "very",
		"really", "optionally", "maybe", "always", "again", "here", "there",
		"now"),
)

var verbLemmas = map[string]string{
	"create": "create", "creates": "create", "creating": "create",
	"make": "make", "makes": "make", "making": "make",
	"build": "build", "builds": "build", "generate": "generate",
	"need": "need", "needs": "need", "want": "want", "wants": "want",
	"add": "add", "adds": "add", "include": "include", "includes": "include",
	"require": "require", "requires": "require", "ask": "ask", "asks": "ask",
	"collect": "collect", "collects": "collect", "give": "give",
	"rate": "rate", "get": "get", "have": "have", "has": "have", "had": "have",
	"let": "let", "allow": "allow", "allows": "allow", "enter": "enter",
	"upload": "upload", "attach": "attach", "submit": "submit",
	"provide": "provide", "skip": "skip", "skipped": "skip", "use": "use",
	"contain": "contain", "contains": "contain", "design": "design",
	"set": "set", "exclude": "exclude", "excluding": "exclude",
	"remove": "remove", "put": "put", "leave": "leave", "drop": "drop",
	"keep": "keep", "show": "show", "display": "display", "capture": "capture",
	"choose": "choose", "pick": "pick", "help": "help", "fill": "fill",
	"filled": "fill", "left": "leave", "omit": "omit", "omitted": "omit",
}

var irregularLemmas = map[string]string{
	"is": "be", "are": "be", "was": "be", "were": "be", "am": "be",
	"been": "be", "being": "be",
	"does": "do", "did": "do",
	"children": "child", "people": "person", "men": "man", "women": "woman",
	"criteria": "criterion", "data": "data",
}
