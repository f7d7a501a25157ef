package matrix

import (
	"fmt"
	"regexp"
	"strings"
)

// Pattern returns the filename pattern selecting every artifact of one
// dictionary type, mirroring the names the external tool assigns:
//
//	main        kty-<source>-<edition>.zip
//	ipa         kty-<source>-<edition>-ipa.zip
//	glossary    kty-<edition>-<target>-gloss.zip
//	ipa-merged  kty-<edition>-ipa.zip
//
// where dictName replaces "kty". Matching is by filename only, never file
// contents.
func Pattern(dictName string, ty Type, sources, targets []string) *regexp.Regexp {
	sourcesRe := alternation(sources)
	targetsRe := alternation(targets)
	name := regexp.QuoteMeta(dictName)

	var expr string
	switch ty {
	case TypeMain:
		expr = fmt.Sprintf(`%s-(%s)-(%s)\.zip`, name, targetsRe, sourcesRe)
	case TypeIPA:
		expr = fmt.Sprintf(`%s-(%s)-(%s)-ipa\.zip`, name, targetsRe, sourcesRe)
	case TypeIPAMerged:
		expr = fmt.Sprintf(`%s-(%s)-ipa\.zip`, name, sourcesRe)
	case TypeGlossary:
		expr = fmt.Sprintf(`%s-(%s)-(%s)-gloss\.zip`, name, sourcesRe, targetsRe)
	}

	return regexp.MustCompile("^" + expr + "$")
}

func alternation(isos []string) string {
	quoted := make([]string, 0, len(isos))
	for _, iso := range isos {
		quoted = append(quoted, regexp.QuoteMeta(iso))
	}
	return strings.Join(quoted, "|")
}
