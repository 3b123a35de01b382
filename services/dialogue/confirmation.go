package dialogue

import (
	"fmt"
	"strings"
	"unicode"

	"cargoassist/models"
)

// Resolution classifies a user reply to a pending confirmation.
type Resolution int

const (
	// Ambiguous replies re-prompt; they never count as consent.
	Ambiguous Resolution = iota
	Accepted
	Rejected
)

var affirmativeWords = map[string]bool{
	"yes": true, "yeah": true, "yep": true, "confirm": true, "confirmed": true,
	"sure": true, "ok": true, "okay": true, "proceed": true, "affirmative": true,
}

var negativeWords = map[string]bool{
	"no": true, "nope": true, "cancel": true, "stop": true, "nevermind": true,
	"abort": true, "dont": true, "don't": true,
}

// OpenConfirmation installs the single pending mutating action for a
// session. A session can hold at most one; opening over an existing one is
// a programming error surfaced to the caller.
func OpenConfirmation(session *models.Session, pending models.PendingConfirmation) error {
	if session.Pending != nil {
		return fmt.Errorf("confirmation already pending for action %s", session.Pending.Action)
	}
	session.Pending = &pending
	return nil
}

// ResolveConfirmation reads an affirmative or negative out of the raw
// utterance using word matching, never the extractor. A reply containing a
// negative is rejected even when an affirmative also appears ("yes... no,
// stop"), so indecision cannot slip into consent.
func ResolveConfirmation(utterance string) Resolution {
	words := strings.FieldsFunc(strings.ToLower(utterance), func(r rune) bool {
		return !unicode.IsLetter(r) && r != '\''
	})

	var affirmative bool
	for _, w := range words {
		if negativeWords[w] {
			return Rejected
		}
		if affirmativeWords[w] {
			affirmative = true
		}
	}
	if affirmative {
		return Accepted
	}
	return Ambiguous
}
