// Package presence turns raw voice-state changes into room lifecycle
// actions and session accounting.
package presence

// TransitionKind is the semantic class of a (before, after) channel
// pair. It decides which lifecycle and accounting actions fire.
type TransitionKind int

const (
	TransitionNoChange TransitionKind = iota
	TransitionJoined
	TransitionLeft
	TransitionMoved
	TransitionJoinedAfk
	TransitionLeftAfk
)

func (k TransitionKind) String() string {
	switch k {
	case TransitionJoined:
		return "joined"
	case TransitionLeft:
		return "left"
	case TransitionMoved:
		return "moved"
	case TransitionJoinedAfk:
		return "joined_afk"
	case TransitionLeftAfk:
		return "left_afk"
	default:
		return "no_change"
	}
}

// Classify derives the transition kind from the channel the user was in
// and the channel they are in now; empty means disconnected. Entering
// the AFK channel always wins over every other classification: AFK
// pauses accounting no matter where the user came from.
func Classify(before, after, afkChannelID string) TransitionKind {
	if before == after {
		return TransitionNoChange
	}
	if after != "" && after == afkChannelID {
		return TransitionJoinedAfk
	}
	switch {
	case before == "" && after != "":
		return TransitionJoined
	case before != "" && after == "":
		return TransitionLeft
	case before == afkChannelID:
		return TransitionLeftAfk
	default:
		return TransitionMoved
	}
}
