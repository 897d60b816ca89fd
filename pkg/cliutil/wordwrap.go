package cliutil

import (
	"strings"
)

// Wrap the string `s` to a maximum width `w`.  Pass `w` == 0 to do no wrapping.
//
// In order to have some room for slop to avoid things like a short word being on a line by itself,
// most lines are actually wrapped to `w - 5`.
func Wrap(w int, s string) string {
	return wrap(0, w, s)
}

// Wrap the string `s` to a maximum width `w` with leading indent `i`.  The first line is not
// indented (this is assumed to be done by caller).  Pass `w` == 0 to do no wrapping
//
// In order to have some room for slop to avoid things like a short word being on a line by itself,
// most lines are actually wrapped to `w - 5`.
func WrapIndent(i, w int, s string) string {
	return wrap(i, w, s)
}

// A word is a chunk of non-space text, along with the spacing that preceded it, so that wrapping
// does not collapse deliberate double-spacing.
type word struct {
	sep  string
	text string
}

func splitWords(para string) []word {
	var words []word
	i := 0
	for i < len(para) {
		j := i
		for j < len(para) && para[j] == ' ' {
			j++
		}
		k := j
		for k < len(para) && para[k] != ' ' {
			k++
		}
		if k > j {
			words = append(words, word{sep: para[i:j], text: para[j:k]})
		}
		i = k
	}
	return words
}

func splitParagraphs(s string) []string {
	var paras []string
	var cur []string
	for _, line := range strings.Split(s, "\n") {
		if strings.TrimSpace(line) == "" {
			if len(cur) > 0 {
				paras = append(paras, strings.Join(cur, " "))
				cur = nil
			}
			continue
		}
		cur = append(cur, strings.TrimRight(line, " \t"))
	}
	if len(cur) > 0 {
		paras = append(paras, strings.Join(cur, " "))
	}
	return paras
}

func wrap(indent, width int, s string) string {
	if width <= 0 {
		return s
	}
	limit := width - 5
	pad := strings.Repeat(" ", indent)

	var out strings.Builder
	for p, para := range splitParagraphs(s) {
		if p > 0 {
			out.WriteString("\n\n" + pad)
		}
		col := indent
		atLineStart := true
		for _, w := range splitWords(para) {
			sep := w.sep
			if atLineStart {
				sep = ""
			} else if col+len(sep)+len(w.text) >= limit {
				out.WriteString("\n" + pad)
				col = indent
				sep = ""
			}
			out.WriteString(sep + w.text)
			col += len(sep) + len(w.text)
			atLineStart = false
		}
	}
	return out.String()
}
