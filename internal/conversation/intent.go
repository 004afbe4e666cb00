package conversation

import (
	"regexp"
	"strings"
)

// Intent is what the traveller is trying to do with a turn.
type Intent string

const (
	IntentProvide Intent = "provide"
	IntentModify  Intent = "modify"
	IntentConfirm Intent = "confirm"
	IntentDecline Intent = "decline"
	IntentRestart Intent = "restart"
)

var (
	restartCommands = []string{"restart", "reset", "start over", "new trip", "new search"}

	modifyPattern  = phrasePattern("change", "modify", "edit", "update", "different", "instead", "actually", "correction", "make it", "switch")
	confirmPattern = phrasePattern("yes", "yeah", "yep", "sure", "ok", "okay", "correct", "right", "perfect", "good", "looks good",
		"that's right", "proceed", "go ahead", "search", "find flights", "you can search")
	declinePattern = phrasePattern("no", "nope", "not quite", "incorrect", "wrong")
)

func phrasePattern(phrases ...string) *regexp.Regexp {
	quoted := make([]string, len(phrases))
	for i, p := range phrases {
		quoted[i] = regexp.QuoteMeta(p)
	}
	return regexp.MustCompile(`\b(?:` + strings.Join(quoted, "|") + `)\b`)
}

// DetectIntent classifies text. Confirmation words only count while a
// summary is awaiting an answer; an explicit change request wins over them.
func DetectIntent(text string, awaitingConfirmation bool) Intent {
	lower := strings.ToLower(strings.TrimSpace(text))
	trimmed := strings.TrimPrefix(strings.Trim(lower, ".!? "), "/")
	for _, cmd := range restartCommands {
		if trimmed == cmd {
			return IntentRestart
		}
	}
	if modifyPattern.MatchString(lower) {
		return IntentModify
	}
	if awaitingConfirmation {
		if declinePattern.MatchString(lower) {
			return IntentDecline
		}
		if confirmPattern.MatchString(lower) {
			return IntentConfirm
		}
	}
	return IntentProvide
}
