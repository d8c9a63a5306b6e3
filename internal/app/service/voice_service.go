package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sort"
	"time"

	"github.com/Fear-and-Terror-EU-Programming-Team/fear-and-terror-party-bot/internal/domain"
	"github.com/Fear-and-Terror-EU-Programming-Team/fear-and-terror-party-bot/internal/infra/storage"
)

const defaultGracePeriod = 60 * time.Second

// VoiceService owns the ephemeral voice channels: per-user channels in games
// channels and the party channels' voice rooms. It is the reconciliation
// point against the platform — tracked channels that vanished out-of-band
// get pruned here, never surfaced to users.
type VoiceService struct {
	store storage.Store
	msg   Messenger
	voice VoiceHost
	sched *Scheduler
	grace time.Duration
}

func NewVoiceService(store storage.Store, msg Messenger, voice VoiceHost, sched *Scheduler, grace time.Duration) *VoiceService {
	if grace <= 0 {
		grace = defaultGracePeriod
	}
	return &VoiceService{store: store, msg: msg, voice: voice, sched: sched, grace: grace}
}

// ActivateGamesChannel marks a text channel as a games channel: declaration
// messages posted there become voice-channel vending machines.
func (s *VoiceService) ActivateGamesChannel(ctx context.Context, channelID, anchorChannelID string) (string, error) {
	snap, err := s.store.Load(ctx)
	if err != nil {
		return "", err
	}
	existing, existed := snap[channelID]
	cfg := storage.NewGamesConfig(anchorChannelID)
	if existed && existing.Kind == storage.KindGames {
		// keep counters and ownership across reconfiguration
		cfg.PerGameCounters = existing.PerGameCounters
		cfg.Ownership = existing.Ownership
	}
	snap[channelID] = cfg
	if err := s.store.Save(ctx, snap); err != nil {
		return "", err
	}
	if existed {
		return "Games channel configuration updated.", nil
	}
	return "This channel has been activated for game channels. Post lines like `✅ Chess` and react to get a voice channel.", nil
}

// DeactivateGamesChannel drops the channel from the registry and tears down
// every voice channel it still owns.
func (s *VoiceService) DeactivateGamesChannel(ctx context.Context, channelID string) (string, error) {
	snap, err := s.store.Load(ctx)
	if err != nil {
		return "", err
	}
	cfg, ok := snap[channelID]
	if !ok || cfg.Kind != storage.KindGames {
		return "", domain.ErrChannelNotActivated
	}
	for user, vc := range cfg.Ownership {
		if err := s.voice.DeleteChannel(ctx, vc); err != nil {
			log.Printf("[voice] delete %s (owner %s): %v", vc, user, err)
		}
	}
	delete(snap, channelID)
	if err := s.store.Save(ctx, snap); err != nil {
		return "", err
	}
	return "Game channels disabled for this channel.", nil
}

// HandleDeclaration auto-reacts every declared emoji on a declaration
// message so users only have to click.
func (s *VoiceService) HandleDeclaration(ctx context.Context, channelID, messageID, content string) error {
	snap, err := s.store.Load(ctx)
	if err != nil {
		return err
	}
	cfg, ok := snap[channelID]
	if !ok || cfg.Kind != storage.KindGames {
		return nil
	}
	decls := domain.ParseDeclarations(content)
	emojis := make([]string, 0, len(decls))
	for e := range decls {
		emojis = append(emojis, e)
	}
	sort.Strings(emojis)
	for _, e := range emojis {
		if err := s.msg.AddReaction(ctx, channelID, messageID, e); err != nil {
			log.Printf("[voice] auto-react %s on %s: %v", e, messageID, err)
		}
	}
	return nil
}

// CreateChannelForUser vends a personal voice channel for a game. One open
// channel per user per games channel; the per-game counter never rolls back.
func (s *VoiceService) CreateChannelForUser(ctx context.Context, channelID, userID, game string) (string, error) {
	snap, err := s.store.Load(ctx)
	if err != nil {
		return "", err
	}
	cfg, ok := snap[channelID]
	if !ok || cfg.Kind != storage.KindGames {
		return "", domain.ErrChannelNotActivated
	}

	if existing, owns := cfg.Ownership[userID]; owns {
		exists, err := s.voice.ChannelExists(ctx, existing)
		if err != nil {
			return "", err
		}
		if exists {
			return "", domain.ErrAlreadyOwnsChannel
		}
		// tracked channel vanished without us deleting it: repair and move on
		cfg.RemoveOwner(userID)
		log.Printf("[voice] WARN pruned stale channel %s for user %s (deleted externally)", existing, userID)
	}

	n := cfg.NextCounter(game)
	name := fmt.Sprintf("%s - #%d", game, n)
	vcID, err := s.voice.CreateVoiceBelow(ctx, cfg.AnchorChannelID, name)
	if err != nil {
		return "", fmt.Errorf("create voice channel: %w", err)
	}
	cfg.SetOwner(userID, vcID)
	if err := s.store.Save(ctx, snap); err != nil {
		return "", err
	}
	log.Printf("[voice] created %s (id=%s) for user %s", name, vcID, userID)

	s.ScheduleSweep(vcID)
	return name, nil
}

// HandleGameReaction is the reaction-driven entry point: resolve already
// done by the adapter, this creates the channel and talks back to the user.
// Caller holds the Serializer.
func (s *VoiceService) HandleGameReaction(ctx context.Context, ev ReactionEvent, game string) error {
	name, err := s.CreateChannelForUser(ctx, ev.ChannelID, ev.UserID, game)
	switch {
	case err == nil:
		s.transient(ctx, ev.ChannelID, fmt.Sprintf("🎮 <@%s> **%s** is ready.", ev.UserID, name))
		return nil
	case errors.Is(err, domain.ErrAlreadyOwnsChannel):
		s.transient(ctx, ev.ChannelID, fmt.Sprintf("<@%s> You already have an open channel.", ev.UserID))
		_ = s.msg.RemoveUserReaction(ctx, ev.ChannelID, ev.MessageID, ev.Emoji, ev.UserID)
		return nil
	case errors.Is(err, domain.ErrChannelNotActivated):
		return nil
	}
	return err
}

// HandleChannelEmptied is called when a voice-state transition leaves a
// channel with zero occupants. The actual delete happens after the grace
// period, and only if the channel is still empty then.
func (s *VoiceService) HandleChannelEmptied(voiceChannelID string) {
	s.ScheduleSweep(voiceChannelID)
}

// ScheduleSweep arms a fire-and-forget grace timer for a voice channel.
// Sweeps are idempotent; a stale timer firing after the channel is gone is
// a silent no-op.
func (s *VoiceService) ScheduleSweep(voiceChannelID string) {
	s.sched.After(s.grace, func() { s.sweep(voiceChannelID) })
}

func (s *VoiceService) transient(ctx context.Context, channelID, content string) {
	id, err := s.msg.SendMessage(ctx, channelID, content)
	if err != nil {
		log.Printf("[voice] reply %s: %v", channelID, err)
		return
	}
	s.sched.After(replyTTL, func() {
		_ = s.msg.DeleteMessage(context.Background(), channelID, id)
	})
}

func (s *VoiceService) sweep(voiceChannelID string) {
	ctx := context.Background()
	snap, err := s.store.Load(ctx)
	if err != nil {
		log.Printf("[voice] sweep %s: %v", voiceChannelID, err)
		return
	}
	channelID, cfg, ok := snap.FindVoiceChannel(voiceChannelID)
	if !ok {
		// not ours, or already cleaned up
		return
	}

	exists, err := s.voice.ChannelExists(ctx, voiceChannelID)
	if err != nil {
		log.Printf("[voice] sweep %s: %v", voiceChannelID, err)
		return
	}
	if !exists {
		cfg.EvictVoiceChannel(voiceChannelID)
		if err := s.store.Save(ctx, snap); err != nil {
			log.Printf("[voice] sweep save: %v", err)
		}
		log.Printf("[voice] WARN evicted %s from %s (deleted externally)", voiceChannelID, channelID)
		return
	}

	empty, err := s.voice.ChannelEmpty(ctx, voiceChannelID)
	if err != nil {
		log.Printf("[voice] sweep %s: %v", voiceChannelID, err)
		return
	}
	if !empty {
		// occupied again; the next emptied event re-arms the sweep
		return
	}
	if err := s.voice.DeleteChannel(ctx, voiceChannelID); err != nil {
		log.Printf("[voice] delete %s: %v", voiceChannelID, err)
		return
	}
	cfg.EvictVoiceChannel(voiceChannelID)
	if err := s.store.Save(ctx, snap); err != nil {
		log.Printf("[voice] sweep save: %v", err)
		return
	}
	log.Printf("[voice] deleted empty channel %s (tracked by %s)", voiceChannelID, channelID)
}
