package api

// User is the authenticated account identity returned by the session endpoints.
type User struct {
	ID       int64  `json:"id"`
	Nickname string `json:"nickname"`
	Email    string `json:"email"`
	Role     string `json:"role"`
}

// Bookmark is a saved article on the dashboard.
type Bookmark struct {
	ID    int64  `json:"id"`
	Title string `json:"title"`
	URL   string `json:"url"`
}

// DeviceSession is an active login session shown on the security tab.
type DeviceSession struct {
	ID         string `json:"id"`
	Device     string `json:"device"`
	LastActive string `json:"lastActive"`
}

// SocialAccount is a linked (or linkable) external identity provider.
type SocialAccount struct {
	Provider string `json:"provider"`
	Linked   bool   `json:"linked"`
}

// Profile is the full dashboard payload for an account.
type Profile struct {
	ID               string          `json:"id"`
	Nickname         string          `json:"nickname"`
	Avatar           string          `json:"avatar"`
	Bio              string          `json:"bio"`
	LoginEmail       string          `json:"loginEmail"`
	RecoveryEmail    string          `json:"recoveryEmail"`
	JoinDate         string          `json:"joinDate"`
	Checks           int             `json:"checks"`
	Comments         int             `json:"comments"`
	Likes            int             `json:"likes"`
	Followers        int             `json:"followers"`
	Following        int             `json:"following"`
	Bookmarks        []Bookmark      `json:"bookmarks"`
	Sessions         []DeviceSession `json:"sessions"`
	TwoFactorEnabled bool            `json:"twoFactorEnabled"`
	SocialAccounts   []SocialAccount `json:"socialAccounts"`
}

// BiasSlice is one segment of the viewing-bias distribution chart.
type BiasSlice struct {
	Name  string `json:"name"`
	Value int    `json:"value"`
}

// WatchPoint is one bucket of the watch-time chart.
type WatchPoint struct {
	Name string `json:"name"`
	Min  int    `json:"min"`
}

// Room is a debate room as listed by the room directory.
type Room struct {
	ID                  int64    `json:"id"`
	Title               string   `json:"title"`
	Description         string   `json:"description"`
	CurrentParticipants int      `json:"currentParticipants"`
	TotalVisits         int      `json:"totalVisits"`
	CreatedAt           string   `json:"createdAt"`
	Keywords            []string `json:"keywords"`
	Creator             string   `json:"creator"`
}

// StoredMessage is a debate message persisted by the backend, returned when
// loading a room's history.
type StoredMessage struct {
	Sender  string `json:"sender"`
	Content string `json:"content"`
	Summary string `json:"summary,omitempty"`
}

// StoredChat is a persisted viewer chat line.
type StoredChat struct {
	Message string `json:"message"`
}

// RoomDetail is the full state of a single debate room, including any
// persisted message history.
type RoomDetail struct {
	ID                      int64           `json:"id"`
	Title                   string          `json:"title"`
	Topic                   string          `json:"topic"`
	Started                 bool            `json:"started"`
	Ended                   bool            `json:"ended"`
	DebaterA                string          `json:"debaterA"`
	DebaterB                string          `json:"debaterB"`
	DebaterAReady           bool            `json:"debaterAReady"`
	DebaterBReady           bool            `json:"debaterBReady"`
	CurrentParticipants     int             `json:"currentParticipants"`
	TotalVisits             int             `json:"totalVisits"`
	CurrentTurnUserNickname string          `json:"currentTurnUserNickname,omitempty"`
	Messages                []StoredMessage `json:"messages,omitempty"`
	ChatMessages            []StoredChat    `json:"chatMessages,omitempty"`
}

// Video is a news video with its backend-assigned bias score.
type Video struct {
	ID          string  `json:"id"`
	Title       string  `json:"title"`
	VideoURL    string  `json:"videoUrl"`
	BiasScore   float64 `json:"biasScore"`
	PublishedAt *int64  `json:"publishedAt"`
}

// SummarySentence is one scored sentence of a transcript summary.
type SummarySentence struct {
	Content string  `json:"content"`
	Score   float64 `json:"score"`
}

// RelatedArticle links a debate summary to outside coverage.
type RelatedArticle struct {
	Link  string `json:"link"`
	Title string `json:"title"`
}

// DebateSummary is the AI-generated wrap-up of a debate transcript.
type DebateSummary struct {
	SummarizeMessage string           `json:"summarizemessage"`
	RelatedArticles  []RelatedArticle `json:"relatedArticles"`
	Keywords         []string         `json:"keywords"`
}

// TranscriptAnalysis is the backend's classification of a video transcript.
type TranscriptAnalysis struct {
	Sentiment string   `json:"sentiment"`
	Keywords  []string `json:"keywords"`
	Summary   string   `json:"summary"`
	Bias      string   `json:"bias"`
}

// FactCheckResult annotates a single debate message.
type FactCheckResult struct {
	FactCheck   string `json:"factCheck"`
	FactCheckBy string `json:"factCheckBy"`
}

// RegisterRequest is the signup payload.
type RegisterRequest struct {
	Email     string `json:"email"`
	Password  string `json:"password"`
	Nickname  string `json:"nickname"`
	BirthDate string `json:"birthDate"`
	Phone     string `json:"phone"`
}

// Attachment is a file uploaded with a contact ticket.
type Attachment struct {
	Filename string
	Content  []byte
}

// ContactRequest is a support/contact form submission.
type ContactRequest struct {
	Name     string
	Email    string
	Subject  string
	Message  string
	Type     string // error | suggestion | general
	Priority string // low | medium | high
	Files    []Attachment
}
