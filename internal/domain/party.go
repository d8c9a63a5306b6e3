package domain

type PartyStatus int

const (
	StatusOpen PartyStatus = iota
	StatusStarted
	StatusClosed
)

func (s PartyStatus) String() string {
	switch s {
	case StatusOpen:
		return "open"
	case StatusStarted:
		return "started"
	case StatusClosed:
		return "closed"
	}
	return "unknown"
}

// Party is the transient membership state behind one party message. It is
// never persisted on its own; it lives and dies with its message.
type Party struct {
	ChannelID string
	MessageID string
	Capacity  int
	Status    PartyStatus
	// OpenToAll permits joins while the party is already started.
	OpenToAll bool

	members []string // join order
}

func NewParty(channelID, messageID string, capacity int, openToAll bool) *Party {
	return &Party{
		ChannelID: channelID,
		MessageID: messageID,
		Capacity:  capacity,
		OpenToAll: openToAll,
		Status:    StatusOpen,
	}
}

// Members returns the member list in join order.
func (p *Party) Members() []string {
	out := make([]string, len(p.members))
	copy(out, p.members)
	return out
}

func (p *Party) Size() int { return len(p.members) }

func (p *Party) HasMember(userID string) bool {
	for _, m := range p.members {
		if m == userID {
			return true
		}
	}
	return false
}

// AddMember admits a user. Re-adding an existing member is a no-op, not an
// error. A full party rejects with ErrCapacityExceeded and stays unchanged.
func (p *Party) AddMember(userID string) error {
	switch p.Status {
	case StatusOpen:
	case StatusStarted:
		if !p.OpenToAll {
			return ErrPartyNotOpen
		}
	default:
		return ErrPartyNotOpen
	}
	if p.HasMember(userID) {
		return nil
	}
	if len(p.members) >= p.Capacity {
		return ErrCapacityExceeded
	}
	p.members = append(p.members, userID)
	return nil
}

// RemoveMember drops a user, reporting whether they were a member. Removing
// from a closed party or removing a non-member does nothing.
func (p *Party) RemoveMember(userID string) bool {
	if p.Status == StatusClosed {
		return false
	}
	for i, m := range p.members {
		if m == userID {
			p.members = append(p.members[:i], p.members[i+1:]...)
			return true
		}
	}
	return false
}

// Start moves Open→Started once at least minMembers joined. The threshold is
// the caller's policy, not a rule of the machine.
func (p *Party) Start(minMembers int) error {
	if p.Status != StatusOpen {
		return ErrPartyNotOpen
	}
	if len(p.members) < minMembers {
		return ErrNotEnoughMembers
	}
	p.Status = StatusStarted
	return nil
}

// ForceStart moves Open→Started regardless of fill. Admin-only; the caller
// enforces that.
func (p *Party) ForceStart() error {
	if p.Status != StatusOpen {
		return ErrPartyNotOpen
	}
	p.Status = StatusStarted
	return nil
}

// Close is terminal and idempotent.
func (p *Party) Close() {
	p.Status = StatusClosed
}
