package nlp

import (
	"strings"

	"github.com/jdkato/prose/v2"

	"github.com/wolfman30/flight-intent/pkg/logging"
)

// Entity is a named-entity span. Start and End are byte offsets into the
// analysed text.
type Entity struct {
	Text  string
	Label string
	Start int
	End   int
}

// IsLocation reports whether the entity label names a place.
func (e Entity) IsLocation() bool {
	switch e.Label {
	case "GPE", "LOC", "FAC":
		return true
	}
	return false
}

// ProseRecognizer tags named entities with the prose averaged-perceptron
// model.
type ProseRecognizer struct {
	logger *logging.Logger
}

// NewProseRecognizer returns a recognizer that logs model failures to logger.
func NewProseRecognizer(logger *logging.Logger) *ProseRecognizer {
	if logger == nil {
		logger = logging.Default()
	}
	return &ProseRecognizer{logger: logger}
}

// Entities returns the entities found in text with byte offsets into text.
// Entities whose surface form cannot be located again are dropped.
func (r *ProseRecognizer) Entities(text string) []Entity {
	doc, err := prose.NewDocument(text)
	if err != nil {
		r.logger.Warn("entity recognition failed", "error", err)
		return nil
	}

	var out []Entity
	cursor := 0
	for _, ent := range doc.Entities() {
		idx := strings.Index(text[cursor:], ent.Text)
		if idx < 0 {
			continue
		}
		start := cursor + idx
		end := start + len(ent.Text)
		out = append(out, Entity{
			Text:  ent.Text,
			Label: ent.Label,
			Start: start,
			End:   end,
		})
		cursor = end
	}
	return out
}
