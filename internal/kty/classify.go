package kty

// Class is the dispatcher-facing classification of a tool invocation.
type Class int

const (
	// ClassSuccess: artifact produced, or legitimately empty.
	ClassSuccess Class = iota
	// ClassNoEntries: the tool found no matching entries (exit 1). A valid
	// empty result; a zero-size artifact is expected.
	ClassNoEntries
	// ClassSkipped: the pairing is invalid or has no upstream data (exit 2,
	// or the English-edition gap below). No artifact expected.
	ClassSkipped
	// ClassFatal: unexpected tool failure. Aborts the run.
	ClassFatal
)

func (c Class) String() string {
	switch c {
	case ClassSuccess:
		return "success"
	case ClassNoEntries:
		return "no-entries"
	case ClassSkipped:
		return "skipped"
	default:
		return "fatal"
	}
}

// Benign reports whether the class is recorded as success.
func (c Class) Benign() bool {
	return c != ClassFatal
}

// englishISO is the iso of the English edition.
const englishISO = "en"

// Classify maps one invocation's exit code to its handling class. It is a
// pure function of the operation, its positional parameters, and the code.
//
// Exit 1 means no entries matched and exit 2 means the pairing is invalid or
// the source has no edition; both are benign. Many languages additionally
// have no dump from the English edition even though the pairing is otherwise
// valid (for example Kurdish, which has its own edition but no English-side
// dump), so any nonzero exit of a main or ipa job whose second positional
// parameter is the English iso is treated as a gap upstream rather than a
// failure. Every other nonzero exit is fatal.
func Classify(operation string, positional []string, exitCode int) Class {
	switch exitCode {
	case 0:
		return ClassSuccess
	case 1:
		return ClassNoEntries
	case 2:
		return ClassSkipped
	}
	if (operation == "main" || operation == "ipa") &&
		len(positional) >= 2 && positional[1] == englishISO {
		return ClassSkipped
	}
	return ClassFatal
}
