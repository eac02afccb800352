package relay

import (
	"sync"

	"github.com/google/uuid"

	"newsbalance/internal/api"
)

// Relay message types exchanged over the debate topic.
const (
	TypeDebate           = "DEBATE"
	TypeChat             = "CHAT"
	TypeViewerChat       = "VIEWER_CHAT"
	TypeSystem           = "SYSTEM"
	TypeStart            = "START"
	TypeReady            = "READY"
	TypeTurn             = "TURN"
	TypeDebateEndRequest = "DEBATE_END_REQUEST"
	TypeDebateEndAccept  = "DEBATE_END_ACCEPT"
	TypeDebateEndReject  = "DEBATE_END_REJECT"
	TypeCreatorLeave     = "CREATOR_LEAVE"
	TypeDebaterLeave     = "DEBATER_LEAVE"
	TypeViewerLeave      = "VIEWER_LEAVE"
)

const systemSpeaker = "System"

// debateStartedText is the synthetic line announcing the debate, appended
// exactly once when the room flips to started.
const debateStartedText = "토론이 시작되었습니다."

// Message is one entry of the debate transcript. ID is assigned locally and
// stays stable for the message's lifetime, so fact-check annotations attach
// to it rather than to a list position.
type Message struct {
	ID            string
	CorrelationID string
	Speaker       string
	Text          string
	Summary       string
	FactCheck     string
	FactCheckBy   string
	Pending       bool
}

// Status is the payload of the room status topic.
type Status struct {
	Title                   string `json:"title"`
	Topic                   string `json:"topic"`
	Started                 bool   `json:"started"`
	Ended                   bool   `json:"ended"`
	DebaterA                string `json:"debaterA"`
	DebaterB                string `json:"debaterB"`
	DebaterAReady           bool   `json:"debaterAReady"`
	DebaterBReady           bool   `json:"debaterBReady"`
	CurrentParticipants     int    `json:"currentParticipants"`
	CurrentTurnUserNickname string `json:"currentTurnUserNickname"`
}

// EndRequest tracks a pending mutual-consent debate end.
type EndRequest struct {
	Requester string
	Pending   bool
}

// Room is the live, mutex-guarded state of one debate room. Inbound frames
// mutate it in arrival order; the transcript is append-only.
type Room struct {
	mu sync.RWMutex

	id    int64
	title string
	topic string

	started bool
	ended   bool

	debaterA      string
	debaterB      string
	debaterAReady bool
	debaterBReady bool

	currentParticipants int
	currentTurn         string
	lastDebaterSpeaker  string

	startAnnounced bool
	endRequest     *EndRequest

	messages []Message
	chat     []string
}

// NewRoom seeds a Room from the REST detail payload, including persisted
// history.
func NewRoom(detail *api.RoomDetail) *Room {
	r := &Room{
		id:                  detail.ID,
		title:               detail.Title,
		topic:               detail.Topic,
		started:             detail.Started,
		ended:               detail.Ended,
		debaterA:            detail.DebaterA,
		debaterB:            detail.DebaterB,
		debaterAReady:       detail.DebaterAReady,
		debaterBReady:       detail.DebaterBReady,
		currentParticipants: detail.CurrentParticipants,
		currentTurn:         detail.CurrentTurnUserNickname,
		startAnnounced:      detail.Started,
	}
	for _, msg := range detail.Messages {
		r.messages = append(r.messages, Message{
			ID:      uuid.NewString(),
			Speaker: msg.Sender,
			Text:    msg.Content,
			Summary: msg.Summary,
		})
		if msg.Sender == detail.DebaterA || msg.Sender == detail.DebaterB {
			r.lastDebaterSpeaker = msg.Sender
		}
	}
	for _, line := range detail.ChatMessages {
		r.chat = append(r.chat, line.Message)
	}
	return r
}

// ID returns the room's identifier.
func (r *Room) ID() int64 { return r.id }

// Title returns the room title.
func (r *Room) Title() string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.title
}

// Topic returns the room's debate topic.
func (r *Room) Topic() string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.topic
}

// Started reports whether the debate is live.
func (r *Room) Started() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.started && !r.ended
}

// Debaters returns the two podium holders. Either may be empty.
func (r *Room) Debaters() (a, b string) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.debaterA, r.debaterB
}

// IsDebater reports whether nickname holds a podium.
func (r *Room) IsDebater(nickname string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return nickname != "" && (nickname == r.debaterA || nickname == r.debaterB)
}

// Participants returns the live participant count.
func (r *Room) Participants() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.currentParticipants
}

// EndRequestPending returns the open end request, if any.
func (r *Room) EndRequestPending() *EndRequest {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.endRequest == nil {
		return nil
	}
	req := *r.endRequest
	return &req
}

// Messages returns a copy of the transcript.
func (r *Room) Messages() []Message {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Message, len(r.messages))
	copy(out, r.messages)
	return out
}

// Chat returns a copy of the viewer chat lines.
func (r *Room) Chat() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, len(r.chat))
	copy(out, r.chat)
	return out
}

// CurrentTurn returns whose turn it is to speak. The status broadcast is
// authoritative; when it is silent, turns are assumed to alternate from the
// last debater who spoke.
func (r *Room) CurrentTurn() string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.currentTurnLocked()
}

func (r *Room) currentTurnLocked() string {
	if r.currentTurn != "" {
		return r.currentTurn
	}
	switch r.lastDebaterSpeaker {
	case "":
		return r.debaterA
	case r.debaterA:
		return r.debaterB
	default:
		return r.debaterA
	}
}

// MaySpeak reports whether nickname may send a debate message now.
func (r *Room) MaySpeak(nickname string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if !r.started || r.ended {
		return false
	}
	if nickname != r.debaterA && nickname != r.debaterB {
		return false
	}
	return r.currentTurnLocked() == nickname
}

// ApplyStatus merges a status broadcast. Returns true when this broadcast
// flipped the room to started, which the caller announces with a synthetic
// system message; the flag latches so reconnect replays can't announce
// twice.
func (r *Room) ApplyStatus(status Status) (justStarted bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if status.Title != "" {
		r.title = status.Title
	}
	if status.Topic != "" {
		r.topic = status.Topic
	}
	if status.DebaterA != "" {
		r.debaterA = status.DebaterA
	}
	if status.DebaterB != "" {
		r.debaterB = status.DebaterB
	}
	r.debaterAReady = status.DebaterAReady
	r.debaterBReady = status.DebaterBReady
	if status.CurrentParticipants > 0 {
		r.currentParticipants = status.CurrentParticipants
	}
	r.currentTurn = status.CurrentTurnUserNickname
	if status.Ended {
		r.ended = true
	}

	if status.Started && !r.startAnnounced {
		r.started = true
		r.startAnnounced = true
		r.appendSystemLocked(debateStartedText)
		return true
	}
	r.started = status.Started
	return false
}

// SetStarted flips the room to started without touching the rest of the
// status. START messages carry no snapshot, so ready flags and the current
// turn must survive them; the announcement latches the same way ApplyStatus
// does.
func (r *Room) SetStarted() (justStarted bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.started = true
	if r.startAnnounced {
		return false
	}
	r.startAnnounced = true
	r.appendSystemLocked(debateStartedText)
	return true
}

// MarkEnded closes the debate without a mutual-consent exchange, as when
// the creator tears the room down.
func (r *Room) MarkEnded() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ended = true
	r.started = false
	r.endRequest = nil
}

// SetParticipants applies a participants broadcast.
func (r *Room) SetParticipants(count int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.currentParticipants = count
}

// AppendLocal optimistically appends the caller's own debate message and
// returns its correlation ID. The broker echo carrying the same ID (or the
// same sender and text) merges into this entry instead of duplicating it.
func (r *Room) AppendLocal(sender, text string) string {
	r.mu.Lock()
	defer r.mu.Unlock()

	correlationID := uuid.NewString()
	r.messages = append(r.messages, Message{
		ID:            uuid.NewString(),
		CorrelationID: correlationID,
		Speaker:       sender,
		Text:          text,
		Pending:       true,
	})
	r.lastDebaterSpeaker = sender
	return correlationID
}

// AppendDebate applies an inbound debate message. Echoes of optimistic
// appends are matched by correlation ID first, then by sender and text.
func (r *Room) AppendDebate(correlationID, sender, text, summary string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i := range r.messages {
		msg := &r.messages[i]
		if !msg.Pending {
			continue
		}
		if (correlationID != "" && msg.CorrelationID == correlationID) ||
			(msg.Speaker == sender && msg.Text == text) {
			msg.Pending = false
			if summary != "" {
				msg.Summary = summary
			}
			return
		}
	}

	r.messages = append(r.messages, Message{
		ID:      uuid.NewString(),
		Speaker: sender,
		Text:    text,
		Summary: summary,
	})
	if sender == r.debaterA || sender == r.debaterB {
		r.lastDebaterSpeaker = sender
	}
}

// AppendSystem appends a system line to the transcript.
func (r *Room) AppendSystem(text string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.appendSystemLocked(text)
}

func (r *Room) appendSystemLocked(text string) {
	r.messages = append(r.messages, Message{
		ID:      uuid.NewString(),
		Speaker: systemSpeaker,
		Text:    text,
	})
}

// AppendChat appends a viewer chat line, dropping exact duplicates the way
// the chat pane always has.
func (r *Room) AppendChat(line string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.chat {
		if existing == line {
			return
		}
	}
	r.chat = append(r.chat, line)
}

// SetTurn applies a TURN broadcast naming the next speaker.
func (r *Room) SetTurn(nickname string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.currentTurn = nickname
	r.appendSystemLocked(nickname + "님의 발언 차례입니다.")
}

// SetEndRequest opens a pending end request.
func (r *Room) SetEndRequest(requester string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.endRequest = &EndRequest{Requester: requester, Pending: true}
}

// ClearEndRequest closes the pending end request; ended marks the debate
// finished as well.
func (r *Room) ClearEndRequest(ended bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.endRequest = nil
	if ended {
		r.ended = true
		r.started = false
	}
}

// SetFactCheck attaches a fact-check result to the message with the given
// ID. Returns false when no such message exists anymore.
func (r *Room) SetFactCheck(messageID string, result api.FactCheckResult) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.messages {
		if r.messages[i].ID == messageID {
			r.messages[i].FactCheck = result.FactCheck
			r.messages[i].FactCheckBy = result.FactCheckBy
			return true
		}
	}
	return false
}
