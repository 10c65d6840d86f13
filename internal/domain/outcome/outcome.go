// Package outcome classifies grader testcase messages and renders them as
// short, localized display strings for printed results.
package outcome

import (
	"strings"
)

// Outcome is the class of a testcase message.
type Outcome int

// Known testcase outcomes. Other covers every message the grader may emit
// that has no display string; such messages are shown verbatim.
const (
	Other Outcome = iota
	Correct
	PartiallyCorrect
	Incorrect
	MissingOutput
	TimeLimit
	Killed
	NonzeroReturn
	ForbiddenSyscall
	ForbiddenFileAccess
)

var outcomeNames = [...]string{
	Other:               "other",
	Correct:             "correct",
	PartiallyCorrect:    "partially_correct",
	Incorrect:           "incorrect",
	MissingOutput:       "missing_output",
	TimeLimit:           "time_limit",
	Killed:              "killed",
	NonzeroReturn:       "nonzero_return",
	ForbiddenSyscall:    "forbidden_syscall",
	ForbiddenFileAccess: "forbidden_file_access",
}

func (o Outcome) String() string {
	if o < 0 || int(o) >= len(outcomeNames) {
		return outcomeNames[Other]
	}
	return outcomeNames[o]
}

// MarshalText implements encoding.TextMarshaler.
func (o Outcome) MarshalText() ([]byte, error) { return []byte(o.String()), nil }

// Grader message templates, in the canonical English the grader stores.
var templates = []struct {
	text    string
	outcome Outcome
}{
	{"Output is correct", Correct},
	{"Output is partially correct", PartiallyCorrect},
	{"Output isn't correct", Incorrect},
	{"Evaluation didn't produce file %s", MissingOutput},
	{"Execution timed out", TimeLimit},
	{"Execution timed out (wall clock limit exceeded)", TimeLimit},
	{"Execution killed with signal %d (could be triggered by violating memory limits)", Killed},
	{"Execution killed because of forbidden syscall %s", ForbiddenSyscall},
	{"Execution killed because of forbidden file access", ForbiddenFileAccess},
	{"Execution failed because the return code was nonzero", NonzeroReturn},
}

var exact = func() map[string]Outcome {
	m := make(map[string]Outcome, len(templates))
	for _, t := range templates {
		m[t.text] = t.outcome
	}
	return m
}()

// Parse classifies a grader message. Both the bare template and a message
// with its arguments already substituted are recognized.
func Parse(message string) Outcome {
	message = strings.TrimSpace(message)
	if o, ok := exact[message]; ok {
		return o
	}
	// Every timeout variant is a time limit.
	if strings.HasPrefix(message, "Execution timed out") {
		return TimeLimit
	}
	for _, t := range templates {
		verb := strings.IndexByte(t.text, '%')
		if verb > 0 && strings.HasPrefix(message, t.text[:verb]) {
			return t.outcome
		}
	}
	return Other
}

// displayKey is the English display string of o and the catalog key of
// its translations. Other has none.
func (o Outcome) displayKey() string {
	switch o {
	case Correct:
		return "Correct"
	case PartiallyCorrect:
		return "Partially correct"
	case Incorrect:
		return "Incorrect"
	case MissingOutput:
		return "Missing output"
	case TimeLimit:
		return "Time limit"
	case Killed, NonzeroReturn:
		return "Runtime error"
	case ForbiddenSyscall:
		return "Forbidden operation"
	case ForbiddenFileAccess:
		return "Forbidden file access"
	default:
		return ""
	}
}
