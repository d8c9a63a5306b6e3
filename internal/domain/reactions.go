package domain

// ReactionKind is the closed set of party-message reactions. The emoji is a
// wire detail; everything past the dispatch edge works on kinds.
type ReactionKind int

const (
	ReactionUnknown    ReactionKind = iota
	ReactionJoin                    // ✅ join (remove = leave)
	ReactionStart                   // 🎉 start the party
	ReactionForceStart              // ⏩ admin: start regardless of fill
	ReactionClose                   // 🚫 admin: close the party
)

const (
	EmojiJoin       = "✅"
	EmojiStart      = "🎉"
	EmojiForceStart = "⏩"
	EmojiClose      = "🚫"
)

func KindOf(emoji string) ReactionKind {
	switch emoji {
	case EmojiJoin:
		return ReactionJoin
	case EmojiStart:
		return ReactionStart
	case EmojiForceStart:
		return ReactionForceStart
	case EmojiClose:
		return ReactionClose
	}
	return ReactionUnknown
}
