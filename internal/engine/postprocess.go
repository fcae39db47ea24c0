package engine

import (
	"sort"

	"github.com/goliatone/go-formprompt/internal/annotate"
	"github.com/goliatone/go-formprompt/internal/intent"
	"github.com/goliatone/go-formprompt/internal/model"
)

const (
	fieldFullName        = "FULL_NAME"
	fieldFirstName       = "FIRST_NAME"
	fieldLastName        = "LAST_NAME"
	fieldPassword        = "PASSWORD"
	fieldConfirmPassword = "CONFIRM_PASSWORD"
)

// confirmWindow is the token distance within which a confirmation word
// must appear around "password".
const confirmWindow = 5

var confirmWords = map[string]bool{
	"confirm": true, "confirmation": true, "confirmed": true, "retype": true,
	"repeat": true, "reenter": true, "verify": true, "verification": true,
}

// excludeFields removes excluded ids, including every member of an
// excluded quantifier group.
func excludeFields(ws *workset, excluded map[string]bool) {
	if len(excluded) == 0 {
		return
	}
	ws.remove(func(c *candidate) bool {
		return excluded[c.field.ID] || (c.group != "" && excluded[c.group])
	})
}

// dedupeNames drops the combined name field when both name parts exist.
func dedupeNames(ws *workset) {
	if ws.has(fieldFirstName) && ws.has(fieldLastName) && ws.has(fieldFullName) {
		ws.remove(func(c *candidate) bool { return c.field.ID == fieldFullName })
	}
}

func order(ws *workset, mode Ordering) {
	if mode != OrderMention {
		return
	}
	sort.SliceStable(ws.list, func(i, j int) bool {
		a, b := ws.list[i], ws.list[j]
		if a.positioned != b.positioned {
			return !a.positioned
		}
		if !a.positioned {
			return a.rank < b.rank
		}
		if a.pos != b.pos {
			return a.pos < b.pos
		}
		return a.seq < b.seq
	})
}

// placeConfirmation puts the password confirmation directly after the
// password, adding it when the prompt asks for one.
func (r *Resolver) placeConfirmation(ws *workset, b intent.Bundle, tokens []annotate.Token) {
	pw := ws.get(fieldPassword)
	if pw == nil {
		return
	}
	cp := ws.get(fieldConfirmPassword)
	if cp == nil {
		if b.Excluded[fieldConfirmPassword] || !mentionsConfirmation(tokens) {
			return
		}
		c, ok := r.fromCatalog(fieldConfirmPassword, model.SourceMatcher, confidenceMatcher)
		if !ok {
			return
		}
		c.pos, c.positioned = pw.pos, pw.positioned
		if !ws.add(c) {
			return
		}
		cp = c
	}
	ws.insertAfter(pw, cp)
}

func mentionsConfirmation(tokens []annotate.Token) bool {
	for i, tok := range tokens {
		if tok.Lemma != "password" {
			continue
		}
		lo, hi := i-confirmWindow, i+confirmWindow
		if lo < 0 {
			lo = 0
		}
		if hi >= len(tokens) {
			hi = len(tokens) - 1
		}
		for k := lo; k <= hi; k++ {
			if confirmWords[tokens[k].Lower] {
				return true
			}
			if tokens[k].Lower == "re" && k+2 < len(tokens) && tokens[k+1].Lower == "-" &&
				(tokens[k+2].Lower == "enter" || tokens[k+2].Lower == "type") {
				return true
			}
		}
	}
	return false
}
