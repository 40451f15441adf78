package search

import "strings"

// Synonyms maps a canonical title term to the variants rewritten to it.
// Variants are at most two words.
var Synonyms = map[string][]string{
	"backend":          {"back end", "server side"},
	"frontend":         {"front end", "client side"},
	"fullstack":        {"full stack"},
	"devops":           {"dev ops"},
	"senior":           {"sr", "snr"},
	"junior":           {"jr", "jnr"},
	"developer":        {"dev"},
	"engineer":         {"engg", "eng"},
	"manager":          {"mgr"},
	"qa":               {"quality assurance"},
	"ui":               {"user interface"},
	"machine learning": {"ml"},
}

var canonical = buildCanonical()

func buildCanonical() map[string]string {
	out := make(map[string]string)
	for c, vs := range Synonyms {
		for _, v := range vs {
			out[v] = c
		}
		// compact form of a spaced term, e.g. "machinelearning"
		if strings.Contains(c, " ") {
			out[strings.ReplaceAll(c, " ", "")] = c
		}
	}
	return out
}
