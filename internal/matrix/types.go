package matrix

import (
	"fmt"
	"strings"
)

// Type enumerates the dictionary build modes.
type Type string

const (
	TypeMain      Type = "main"
	TypeIPA       Type = "ipa"
	TypeGlossary  Type = "glossary"
	TypeIPAMerged Type = "ipa-merged"
)

// MergeTarget is the synthetic target used by ipa-merged jobs. It is a
// placeholder, never a real language code.
const MergeTarget = "__target"

// Types returns the dictionary types in their build phase order.
func Types() []Type {
	return []Type{TypeMain, TypeIPA, TypeGlossary, TypeIPAMerged}
}

// ParseType validates a user-supplied dictionary type.
func ParseType(value string) (Type, error) {
	ty := Type(strings.ToLower(strings.TrimSpace(value)))
	for _, known := range Types() {
		if ty == known {
			return ty, nil
		}
	}
	return "", fmt.Errorf("unknown dictionary type %q (expected one of: main, ipa, glossary, ipa-merged)", value)
}

// Job is one concrete (type, source, target) unit of work. Values are
// constructed before submission to the worker pool so each job's parameters
// are immutable.
type Job struct {
	Type   Type
	Source string
	Target string
}

// Positional returns the external tool's positional arguments for the job.
// main and ipa dictionaries take (target, source), glossaries take
// (source, target), merged IPA takes the source alone.
func (j Job) Positional() []string {
	switch j.Type {
	case TypeMain, TypeIPA:
		return []string{j.Target, j.Source}
	case TypeGlossary:
		return []string{j.Source, j.Target}
	case TypeIPAMerged:
		return []string{j.Source}
	default:
		return nil
	}
}

// Skip reports whether the job is a known no-op that must not be dispatched.
// Glossary dictionaries from a language to itself carry no content.
func (j Job) Skip() bool {
	return j.Type == TypeGlossary && j.Source == j.Target
}

func (j Job) String() string {
	return fmt.Sprintf("%s %s", j.Type, strings.Join(j.Positional(), " "))
}
