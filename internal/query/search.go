// Package query turns user search input into the store's MATCH expressions,
// widening in phases when a strict interpretation finds nothing.
package query

import (
	"database/sql"
	"strings"

	"techjobs-engine/internal/store"
)

// Job-title words too broad to drive OR expansion on their own. A query made
// only of these stays on the strict path.
var genericWords = map[string]bool{
	"developer": true, "engineer": true, "programmer": true, "manager": true,
	"analyst": true, "architect": true, "specialist": true, "consultant": true,
	"coordinator": true, "administrator": true, "admin": true, "senior": true,
	"junior": true, "lead": true, "staff": true, "principal": true,
	"associate": true, "intern": true, "trainee": true, "assistant": true,
	"support": true, "officer": true, "director": true, "head": true,
	"chief": true, "member": true, "team": true, "software": true,
	"technical": true, "technology": true, "tech": true, "full": true,
	"stack": true,
}

func tokenize(q string) []string {
	return strings.Fields(strings.ToLower(strings.TrimSpace(q)))
}

func domainWords(words []string) []string {
	var out []string
	for _, w := range words {
		if len(w) > 2 && !genericWords[w] {
			out = append(out, w)
		}
	}
	return out
}

// fts5 treats unquoted tokens as syntax (AND, OR, NEAR, column filters), so
// every term is emitted as a quoted string.
func quote(w string) string {
	return `"` + strings.ReplaceAll(w, `"`, `""`) + `"`
}

func andExpr(words []string) string {
	quoted := make([]string, len(words))
	for i, w := range words {
		quoted[i] = quote(w)
	}
	return strings.Join(quoted, " ")
}

func orExpr(words []string) string {
	quoted := make([]string, len(words))
	for i, w := range words {
		quoted[i] = quote(w)
	}
	return strings.Join(quoted, " OR ")
}

// ResolveSearch picks the MATCH expression for a raw query string.
//
// Phase 1 requires every word. If that matches nothing, phase 2 retries with
// only the domain words (dropping generic title filler). If that still
// matches nothing, phase 3 takes any domain word. A query with no domain
// words at all stays on phase 1 even when it matches nothing, so "senior
// developer" with an empty index honestly returns zero results.
//
// Returns "" when q has no usable words.
func ResolveSearch(db *sql.DB, q string) (string, error) {
	words := tokenize(q)
	if len(words) == 0 {
		return "", nil
	}

	strict := andExpr(words)
	n, err := store.CountActiveMatching(db, strict)
	if err != nil {
		return "", err
	}
	if n > 0 {
		return strict, nil
	}

	dw := domainWords(words)
	if len(dw) == 0 {
		return strict, nil
	}

	domainAnd := andExpr(dw)
	n, err = store.CountActiveMatching(db, domainAnd)
	if err != nil {
		return "", err
	}
	if n > 0 {
		return domainAnd, nil
	}

	return orExpr(dw), nil
}
