package service

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/Fear-and-Terror-EU-Programming-Team/fear-and-terror-party-bot/internal/domain"
	"github.com/Fear-and-Terror-EU-Programming-Team/fear-and-terror-party-bot/internal/infra/storage"
)

const (
	replyTTL       = 10 * time.Second
	startNoticeTTL = 30 * time.Second
)

// PartyPolicy holds the knobs the original left undecided: the minimum fill
// for a 🎉 start and whether an emptied party closes itself.
type PartyPolicy struct {
	MinStartMembers    int
	AutoCloseWhenEmpty bool
}

// Sweeper schedules the grace-period emptiness check for a voice channel.
// Implemented by VoiceService.
type Sweeper interface {
	ScheduleSweep(voiceChannelID string)
}

// ReactionEvent is a platform reaction, already unwrapped by the adapter.
type ReactionEvent struct {
	ChannelID string
	MessageID string
	UserID    string
	Emoji     string
	IsAdmin   bool
}

// PartyService drives party channels: one bot-posted party message per
// channel, membership and lifecycle driven by the reactions on it. All
// reaction entry points must already hold the Serializer.
type PartyService struct {
	store   storage.Store
	msg     Messenger
	voice   VoiceHost
	sched   *Scheduler
	sweeper Sweeper
	policy  PartyPolicy

	// mu only protects the map itself; admin commands are not serialized
	// against reactions (known race, documented in DESIGN.md).
	mu      sync.Mutex
	parties map[string]*domain.Party
}

func NewPartyService(store storage.Store, msg Messenger, voice VoiceHost, sched *Scheduler, sweeper Sweeper, policy PartyPolicy) *PartyService {
	if policy.MinStartMembers <= 0 {
		policy.MinStartMembers = 1
	}
	return &PartyService{
		store:   store,
		msg:     msg,
		voice:   voice,
		sched:   sched,
		sweeper: sweeper,
		policy:  policy,
		parties: map[string]*domain.Party{},
	}
}

// ActivateChannel marks a text channel as a party channel and posts the
// party message. Re-activating reconfigures in place.
func (s *PartyService) ActivateChannel(ctx context.Context, channelID, gameName string, maxSlots int, anchorChannelID string, openToAll bool) (string, error) {
	if maxSlots <= 0 {
		return "", fmt.Errorf("max slots must be positive, got %d", maxSlots)
	}
	snap, err := s.store.Load(ctx)
	if err != nil {
		return "", err
	}
	_, existed := snap[channelID]

	if err := s.msg.PurgeBotMessages(ctx, channelID); err != nil {
		log.Printf("[party] purge %s: %v", channelID, err)
	}

	cfg := storage.NewPartyConfig(gameName, maxSlots, anchorChannelID, openToAll)
	party := domain.NewParty(channelID, "", maxSlots, openToAll)
	msgID, err := s.msg.SendPartyBoard(ctx, channelID, s.board(cfg, party))
	if err != nil {
		return "", err
	}
	party.MessageID = msgID
	cfg.PartyMessageID = msgID
	_ = s.msg.AddReaction(ctx, channelID, msgID, domain.EmojiStart)

	snap[channelID] = cfg
	if err := s.store.Save(ctx, snap); err != nil {
		return "", err
	}

	s.mu.Lock()
	s.parties[channelID] = party
	s.mu.Unlock()

	if existed {
		return "Channel configuration updated.", nil
	}
	return "This channel has been activated for party matchmaking.", nil
}

// DeactivateChannel removes the channel from the registry and tears down
// everything it owns, party voice channels included.
func (s *PartyService) DeactivateChannel(ctx context.Context, channelID string) (string, error) {
	snap, err := s.store.Load(ctx)
	if err != nil {
		return "", err
	}
	cfg, ok := snap[channelID]
	if !ok || cfg.Kind != storage.KindParty {
		return "", domain.ErrChannelNotActivated
	}
	for _, vc := range cfg.ActiveVoiceChannels {
		if err := s.voice.DeleteChannel(ctx, vc); err != nil {
			log.Printf("[party] delete voice %s: %v", vc, err)
		}
	}
	delete(snap, channelID)
	if err := s.store.Save(ctx, snap); err != nil {
		return "", err
	}

	s.mu.Lock()
	delete(s.parties, channelID)
	s.mu.Unlock()

	if err := s.msg.PurgeBotMessages(ctx, channelID); err != nil {
		log.Printf("[party] purge %s: %v", channelID, err)
	}
	return "Party matchmaking disabled for this channel.", nil
}

// HandleReactionAdd processes a reaction added to a party channel. Caller
// holds the Serializer.
func (s *PartyService) HandleReactionAdd(ctx context.Context, ev ReactionEvent) error {
	cfg, err := s.partyConfig(ctx, ev.ChannelID)
	if err != nil || cfg == nil {
		return err
	}
	if ev.MessageID != cfg.PartyMessageID {
		return nil
	}
	party := s.partyFor(ctx, cfg, ev.ChannelID)

	switch domain.KindOf(ev.Emoji) {
	case domain.ReactionJoin:
		return s.join(ctx, cfg, party, ev)
	case domain.ReactionStart:
		return s.start(ctx, cfg, party, ev, false)
	case domain.ReactionForceStart:
		if !ev.IsAdmin {
			s.transient(ctx, ev.ChannelID, fmt.Sprintf("<@%s> Insufficient rank permissions.", ev.UserID))
			_ = s.msg.RemoveUserReaction(ctx, ev.ChannelID, ev.MessageID, ev.Emoji, ev.UserID)
			return nil
		}
		return s.start(ctx, cfg, party, ev, true)
	case domain.ReactionClose:
		if !ev.IsAdmin {
			s.transient(ctx, ev.ChannelID, fmt.Sprintf("<@%s> Insufficient rank permissions.", ev.UserID))
			_ = s.msg.RemoveUserReaction(ctx, ev.ChannelID, ev.MessageID, ev.Emoji, ev.UserID)
			return nil
		}
		return s.close(ctx, cfg, party, ev)
	}
	return nil
}

// HandleReactionRemove processes a reaction removed from a party channel.
// Only ✅ removal means anything: the member leaves.
func (s *PartyService) HandleReactionRemove(ctx context.Context, ev ReactionEvent) error {
	if domain.KindOf(ev.Emoji) != domain.ReactionJoin {
		return nil
	}
	cfg, err := s.partyConfig(ctx, ev.ChannelID)
	if err != nil || cfg == nil {
		return err
	}
	if ev.MessageID != cfg.PartyMessageID {
		return nil
	}
	party := s.partyFor(ctx, cfg, ev.ChannelID)
	if !party.RemoveMember(ev.UserID) {
		return nil
	}
	if s.policy.AutoCloseWhenEmpty && party.Size() == 0 && party.Status == domain.StatusOpen {
		party.Close()
		return s.reset(ctx, cfg, ev.ChannelID)
	}
	return s.msg.EditPartyBoard(ctx, ev.ChannelID, cfg.PartyMessageID, s.board(cfg, party))
}

// CurrentParty returns a copy of the channel's party state for status
// rendering, or nil when the channel has no tracked party.
func (s *PartyService) CurrentParty(channelID string) *domain.Party {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.parties[channelID]
	if !ok {
		return nil
	}
	cp := *p
	return &cp
}

// ---------- internals ----------

func (s *PartyService) join(ctx context.Context, cfg *storage.ChannelConfig, party *domain.Party, ev ReactionEvent) error {
	err := party.AddMember(ev.UserID)
	switch {
	case err == nil:
		return s.msg.EditPartyBoard(ctx, ev.ChannelID, cfg.PartyMessageID, s.board(cfg, party))
	case err == domain.ErrCapacityExceeded:
		s.transient(ctx, ev.ChannelID, fmt.Sprintf("<@%s> The party for **%s** is full.", ev.UserID, cfg.GameName))
		_ = s.msg.RemoveUserReaction(ctx, ev.ChannelID, ev.MessageID, ev.Emoji, ev.UserID)
		return nil
	case err == domain.ErrPartyNotOpen:
		// closed party: swallow silently
		return nil
	}
	return err
}

func (s *PartyService) start(ctx context.Context, cfg *storage.ChannelConfig, party *domain.Party, ev ReactionEvent, force bool) error {
	var err error
	if force {
		err = party.ForceStart()
	} else {
		err = party.Start(s.policy.MinStartMembers)
	}
	switch err {
	case nil:
	case domain.ErrNotEnoughMembers:
		s.transient(ctx, ev.ChannelID, fmt.Sprintf("<@%s> Need at least %d member(s) to start a **%s** party.",
			ev.UserID, s.policy.MinStartMembers, cfg.GameName))
		_ = s.msg.RemoveUserReaction(ctx, ev.ChannelID, ev.MessageID, ev.Emoji, ev.UserID)
		return nil
	case domain.ErrPartyNotOpen:
		// double start: silent no-op
		return nil
	default:
		return err
	}

	n := len(cfg.ActiveVoiceChannels) + 1
	name := fmt.Sprintf("%s Party #%d", cfg.GameName, n)
	vcID, err := s.voice.CreateVoiceBelow(ctx, cfg.AnchorChannelID, name)
	if err != nil {
		return fmt.Errorf("create party voice channel: %w", err)
	}
	cfg.TrackVoiceChannel(vcID)
	if err := s.saveConfig(ctx, ev.ChannelID, cfg); err != nil {
		return err
	}
	log.Printf("[party] started %s in %s (voice=%s, members=%d)", name, ev.ChannelID, vcID, party.Size())

	mentions := ""
	for _, m := range party.Members() {
		mentions += fmt.Sprintf(" <@%s>", m)
	}
	id, err := s.msg.SendMessage(ctx, ev.ChannelID, fmt.Sprintf("🎉 **%s** is go!%s — your voice channel is ready.", name, mentions))
	if err == nil {
		s.delayedDelete(ev.ChannelID, id, startNoticeTTL)
	}

	// guard against parties nobody ever joins in voice
	if s.sweeper != nil {
		s.sweeper.ScheduleSweep(vcID)
	}
	return s.reset(ctx, cfg, ev.ChannelID)
}

func (s *PartyService) close(ctx context.Context, cfg *storage.ChannelConfig, party *domain.Party, ev ReactionEvent) error {
	party.Close()
	log.Printf("[party] closed party in %s by %s", ev.ChannelID, ev.UserID)
	return s.reset(ctx, cfg, ev.ChannelID)
}

// reset tears down the finished party's UI and leaves a fresh open party on
// the same message.
func (s *PartyService) reset(ctx context.Context, cfg *storage.ChannelConfig, channelID string) error {
	_ = s.msg.ClearReactions(ctx, channelID, cfg.PartyMessageID)
	_ = s.msg.AddReaction(ctx, channelID, cfg.PartyMessageID, domain.EmojiStart)

	fresh := domain.NewParty(channelID, cfg.PartyMessageID, cfg.MaxSlots, cfg.OpenToAll)
	s.mu.Lock()
	s.parties[channelID] = fresh
	s.mu.Unlock()

	return s.msg.EditPartyBoard(ctx, channelID, cfg.PartyMessageID, s.board(cfg, fresh))
}

// partyConfig loads the channel's config, nil when the channel is not an
// activated party channel (reactions there are nobody's business).
func (s *PartyService) partyConfig(ctx context.Context, channelID string) (*storage.ChannelConfig, error) {
	snap, err := s.store.Load(ctx)
	if err != nil {
		return nil, err
	}
	cfg, ok := snap[channelID]
	if !ok || cfg.Kind != storage.KindParty {
		return nil, nil
	}
	return cfg, nil
}

func (s *PartyService) saveConfig(ctx context.Context, channelID string, cfg *storage.ChannelConfig) error {
	snap, err := s.store.Load(ctx)
	if err != nil {
		return err
	}
	snap[channelID] = cfg
	return s.store.Save(ctx, snap)
}

// partyFor returns the channel's live party, rebuilding it from the ✅
// reactions on the party message after a restart.
func (s *PartyService) partyFor(ctx context.Context, cfg *storage.ChannelConfig, channelID string) *domain.Party {
	s.mu.Lock()
	if p, ok := s.parties[channelID]; ok {
		s.mu.Unlock()
		return p
	}
	s.mu.Unlock()

	p := domain.NewParty(channelID, cfg.PartyMessageID, cfg.MaxSlots, cfg.OpenToAll)
	reactors, err := s.msg.ListReactors(ctx, channelID, cfg.PartyMessageID, domain.EmojiJoin)
	if err != nil {
		log.Printf("[party] rebuild %s: %v", channelID, err)
	}
	for _, uid := range reactors {
		if err := p.AddMember(uid); err != nil {
			break
		}
	}
	s.mu.Lock()
	s.parties[channelID] = p
	s.mu.Unlock()
	return p
}

func (s *PartyService) board(cfg *storage.ChannelConfig, p *domain.Party) PartyBoard {
	return PartyBoard{
		GameName:  cfg.GameName,
		Capacity:  cfg.MaxSlots,
		Members:   p.Members(),
		Status:    p.Status.String(),
		OpenToAll: cfg.OpenToAll,
	}
}

func (s *PartyService) transient(ctx context.Context, channelID, content string) {
	id, err := s.msg.SendMessage(ctx, channelID, content)
	if err != nil {
		log.Printf("[party] reply %s: %v", channelID, err)
		return
	}
	s.delayedDelete(channelID, id, replyTTL)
}

func (s *PartyService) delayedDelete(channelID, messageID string, ttl time.Duration) {
	s.sched.After(ttl, func() {
		// tolerant: the message may already be gone
		_ = s.msg.DeleteMessage(context.Background(), channelID, messageID)
	})
}
