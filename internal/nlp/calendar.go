package nlp

import (
	"time"

	"github.com/olebedev/when"
	"github.com/olebedev/when/rules/common"
	"github.com/olebedev/when/rules/en"
)

// WhenParser resolves free-form English date phrases ("next thursday",
// "in 3 days", "15th december") relative to a base time.
type WhenParser struct {
	w *when.Parser
}

// NewWhenParser builds a parser with the English and common rule sets.
func NewWhenParser() *WhenParser {
	w := when.New(nil)
	w.Add(en.All...)
	w.Add(common.All...)
	return &WhenParser{w: w}
}

// Parse returns the first date phrase found in text. Parse errors and
// phrase-free text both report false.
func (p *WhenParser) Parse(text string, now time.Time) (time.Time, bool) {
	res, err := p.w.Parse(text, now)
	if err != nil || res == nil {
		return time.Time{}, false
	}
	return res.Time, true
}
