package outcome

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/message/catalog"
)

// supported lists the display languages. The first entry is the fallback.
var supported = []language.Tag{language.English, language.Latvian}

var translations = map[language.Tag]map[string]string{
	language.Latvian: {
		"Correct":               "Pareizi",
		"Partially correct":     "Daļēji pareizi",
		"Incorrect":             "Nepareizi",
		"Missing output":        "Trūkst izvaddatu",
		"Time limit":            "Laika limits",
		"Runtime error":         "Izpildes kļūda",
		"Forbidden operation":   "Neatļauta darbība",
		"Forbidden file access": "Neatļauta piekļuve failiem",
	},
}

var (
	displayCatalog = newCatalog()
	matcher        = language.NewMatcher(supported)
)

func newCatalog() catalog.Catalog {
	b := catalog.NewBuilder(catalog.Fallback(language.English))
	for o := Correct; o <= ForbiddenFileAccess; o++ {
		key := o.displayKey()
		if err := b.SetString(language.English, key, key); err != nil {
			panic(err)
		}
	}
	for tag, msgs := range translations {
		for key, text := range msgs {
			if err := b.SetString(tag, key, text); err != nil {
				panic(err)
			}
		}
	}
	return b
}

// Languages returns the languages with a display catalog.
func Languages() []language.Tag {
	out := make([]language.Tag, len(supported))
	copy(out, supported)
	return out
}

// Translator renders grader messages in one display language.
// A Translator is not safe for concurrent use.
type Translator struct {
	tag     language.Tag
	printer *message.Printer
}

// NewTranslator picks the closest supported language to tag, falling back
// to English.
func NewTranslator(tag language.Tag) *Translator {
	_, idx, conf := matcher.Match(tag)
	if conf == language.No {
		idx = 0
	}
	chosen := supported[idx]
	return &Translator{
		tag:     chosen,
		printer: message.NewPrinter(chosen, message.Catalog(displayCatalog)),
	}
}

// Language returns the language the translator renders in.
func (t *Translator) Language() language.Tag { return t.tag }

// Text returns the display string of a grader message. Messages without a
// known outcome are returned unchanged.
func (t *Translator) Text(msg string) string {
	key := Parse(msg).displayKey()
	if key == "" {
		return msg
	}
	return t.printer.Sprintf(key)
}

// Display returns the display string of a known outcome, or "" for Other.
func (t *Translator) Display(o Outcome) string {
	key := o.displayKey()
	if key == "" {
		return ""
	}
	return t.printer.Sprintf(key)
}
