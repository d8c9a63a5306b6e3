package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/Fear-and-Terror-EU-Programming-Team/fear-and-terror-party-bot/internal/infra/storage"
)

// memStore is an in-memory Store with the same copy semantics as the real
// ones: Load hands out a snapshot the caller may mutate freely.
type memStore struct {
	mu      sync.Mutex
	snap    storage.Snapshot
	loads   int
	loadErr error
}

func newMemStore() *memStore { return &memStore{snap: storage.Snapshot{}} }

func (m *memStore) Load(ctx context.Context) (storage.Snapshot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.loads++
	if m.loadErr != nil {
		return nil, m.loadErr
	}
	return copySnapshot(m.snap), nil
}

func (m *memStore) Save(ctx context.Context, snap storage.Snapshot) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.snap = copySnapshot(snap)
	return nil
}

func (m *memStore) current() storage.Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()
	return copySnapshot(m.snap)
}

func (m *memStore) loadCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.loads
}

func copySnapshot(s storage.Snapshot) storage.Snapshot {
	b, err := json.Marshal(s)
	if err != nil {
		panic(err)
	}
	out := storage.Snapshot{}
	if err := json.Unmarshal(b, &out); err != nil {
		panic(err)
	}
	return out
}

type sentMessage struct {
	ID        string
	ChannelID string
	Content   string
}

// fakeMessenger records every Messenger call. Reactor state is seedable so
// rebuild-from-reactions paths can be tested.
type fakeMessenger struct {
	mu     sync.Mutex
	nextID int

	sent    []sentMessage
	deleted []string // message ids

	boards     map[string]PartyBoard // message id -> latest render
	boardEdits int

	botReactions map[string][]string // message id -> emojis the bot added
	removed      []string            // "messageID/emoji/userID"
	cleared      []string            // message ids

	reactors map[string][]string // "messageID/emoji" -> user ids
	purged   []string            // channel ids
}

func newFakeMessenger() *fakeMessenger {
	return &fakeMessenger{
		boards:       map[string]PartyBoard{},
		botReactions: map[string][]string{},
		reactors:     map[string][]string{},
	}
}

func (f *fakeMessenger) newID() string {
	f.nextID++
	return fmt.Sprintf("msg-%d", f.nextID)
}

func (f *fakeMessenger) SendMessage(ctx context.Context, channelID, content string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	id := f.newID()
	f.sent = append(f.sent, sentMessage{ID: id, ChannelID: channelID, Content: content})
	return id, nil
}

func (f *fakeMessenger) DeleteMessage(ctx context.Context, channelID, messageID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleted = append(f.deleted, messageID)
	return nil
}

func (f *fakeMessenger) SendPartyBoard(ctx context.Context, channelID string, b PartyBoard) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	id := f.newID()
	f.boards[id] = b
	return id, nil
}

func (f *fakeMessenger) EditPartyBoard(ctx context.Context, channelID, messageID string, b PartyBoard) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.boards[messageID] = b
	f.boardEdits++
	return nil
}

func (f *fakeMessenger) AddReaction(ctx context.Context, channelID, messageID, emoji string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.botReactions[messageID] = append(f.botReactions[messageID], emoji)
	return nil
}

func (f *fakeMessenger) RemoveUserReaction(ctx context.Context, channelID, messageID, emoji, userID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.removed = append(f.removed, messageID+"/"+emoji+"/"+userID)
	key := messageID + "/" + emoji
	users := f.reactors[key]
	for i, u := range users {
		if u == userID {
			f.reactors[key] = append(users[:i], users[i+1:]...)
			break
		}
	}
	return nil
}

func (f *fakeMessenger) ClearReactions(ctx context.Context, channelID, messageID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.cleared = append(f.cleared, messageID)
	delete(f.botReactions, messageID)
	for key := range f.reactors {
		if strings.HasPrefix(key, messageID+"/") {
			delete(f.reactors, key)
		}
	}
	return nil
}

func (f *fakeMessenger) ListReactors(ctx context.Context, channelID, messageID, emoji string) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	users := f.reactors[messageID+"/"+emoji]
	out := make([]string, len(users))
	copy(out, users)
	return out, nil
}

func (f *fakeMessenger) PurgeBotMessages(ctx context.Context, channelID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.purged = append(f.purged, channelID)
	return nil
}

func (f *fakeMessenger) seedReactor(messageID, emoji, userID string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	key := messageID + "/" + emoji
	f.reactors[key] = append(f.reactors[key], userID)
}

func (f *fakeMessenger) lastSent() (sentMessage, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.sent) == 0 {
		return sentMessage{}, false
	}
	return f.sent[len(f.sent)-1], true
}

func (f *fakeMessenger) sentCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.sent)
}

func (f *fakeMessenger) deletedMessages() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, len(f.deleted))
	copy(out, f.deleted)
	return out
}

func (f *fakeMessenger) clearedMessages() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, len(f.cleared))
	copy(out, f.cleared)
	return out
}

func (f *fakeMessenger) removedReactions() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, len(f.removed))
	copy(out, f.removed)
	return out
}

func (f *fakeMessenger) boardFor(messageID string) (PartyBoard, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	b, ok := f.boards[messageID]
	return b, ok
}

func (f *fakeMessenger) reactionsOn(messageID string) []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, len(f.botReactions[messageID]))
	copy(out, f.botReactions[messageID])
	return out
}

type fakeVoiceChannel struct {
	Name      string
	Anchor    string
	Occupants int
}

// fakeVoice is an in-memory VoiceHost.
type fakeVoice struct {
	mu          sync.Mutex
	nextID      int
	channels    map[string]*fakeVoiceChannel
	created     []string // names, creation order
	deleted     []string // channel ids deleted through DeleteChannel
	emptyChecks int
	createErr   error
}

func newFakeVoice() *fakeVoice {
	return &fakeVoice{channels: map[string]*fakeVoiceChannel{}}
}

func (f *fakeVoice) CreateVoiceBelow(ctx context.Context, anchorChannelID, name string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return "", f.createErr
	}
	f.nextID++
	id := fmt.Sprintf("vc-%d", f.nextID)
	f.channels[id] = &fakeVoiceChannel{Name: name, Anchor: anchorChannelID}
	f.created = append(f.created, name)
	return id, nil
}

func (f *fakeVoice) DeleteChannel(ctx context.Context, channelID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.channels, channelID)
	f.deleted = append(f.deleted, channelID)
	return nil
}

func (f *fakeVoice) ChannelExists(ctx context.Context, channelID string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.channels[channelID]
	return ok, nil
}

func (f *fakeVoice) ChannelEmpty(ctx context.Context, channelID string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.emptyChecks++
	ch, ok := f.channels[channelID]
	if !ok {
		return false, fmt.Errorf("unknown channel %s", channelID)
	}
	return ch.Occupants == 0, nil
}

// drop simulates an out-of-band deletion (someone removed the channel in the
// Discord UI): it vanishes without going through DeleteChannel.
func (f *fakeVoice) drop(channelID string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.channels, channelID)
}

func (f *fakeVoice) setOccupants(channelID string, n int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if ch, ok := f.channels[channelID]; ok {
		ch.Occupants = n
	}
}

func (f *fakeVoice) exists(channelID string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.channels[channelID]
	return ok
}

func (f *fakeVoice) createdNames() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, len(f.created))
	copy(out, f.created)
	return out
}

func (f *fakeVoice) deletedIDs() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, len(f.deleted))
	copy(out, f.deleted)
	return out
}

func (f *fakeVoice) emptyCheckCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.emptyChecks
}

// recordSweeper satisfies Sweeper without any timers.
type recordSweeper struct {
	mu    sync.Mutex
	swept []string
}

func (r *recordSweeper) ScheduleSweep(voiceChannelID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.swept = append(r.swept, voiceChannelID)
}

func (r *recordSweeper) sweptIDs() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.swept))
	copy(out, r.swept)
	return out
}
