// Package nbtest provides an in-process fake of the NewsBalance backend for
// the test suite: the REST surface on a gin engine plus a minimal STOMP
// broker on /ws/websocket.
package nbtest

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
)

const sessionCookie = "NBSESSION"

// Account is a canned login.
type Account struct {
	Email    string
	Password string
	Nickname string
}

// RoomState is the mutable server-side state of a fake debate room.
type RoomState struct {
	ID                  int64    `json:"id"`
	Title               string   `json:"title"`
	Topic               string   `json:"topic"`
	Description         string   `json:"description"`
	Keywords            []string `json:"keywords"`
	Creator             string   `json:"creator"`
	CreatedAt           string   `json:"createdAt"`
	Started             bool     `json:"started"`
	Ended               bool     `json:"ended"`
	DebaterA            string   `json:"debaterA"`
	DebaterB            string   `json:"debaterB"`
	DebaterAReady       bool     `json:"debaterAReady"`
	DebaterBReady       bool     `json:"debaterBReady"`
	CurrentParticipants int      `json:"currentParticipants"`
	TotalVisits         int      `json:"totalVisits"`
}

// Backend is the fake server. Register its Engine with httptest.NewServer.
type Backend struct {
	Engine *gin.Engine
	Broker *Broker

	mu       sync.Mutex
	accounts map[string]Account // by email
	sessions map[string]string  // cookie value -> email
	rooms    map[int64]*RoomState
	nextRoom int64
	nextSess int
}

// New builds a Backend with one canned account and one room.
func New() *Backend {
	gin.SetMode(gin.TestMode)

	b := &Backend{
		Engine:   gin.New(),
		Broker:   NewBroker(),
		accounts: make(map[string]Account),
		sessions: make(map[string]string),
		rooms:    make(map[int64]*RoomState),
		nextRoom: 1,
	}

	b.AddAccount(Account{Email: "tester@example.com", Password: "password123", Nickname: "테스터"})
	b.AddRoom(&RoomState{
		Title:       "기본 토론방",
		Topic:       "기본 주제에 대한 자유 토론입니다",
		Description: "기본 주제에 대한 자유 토론입니다",
		Keywords:    []string{"뉴스"},
		Creator:     "테스터",
	})

	b.routes()
	return b
}

// AddAccount registers a login the fake will accept.
func (b *Backend) AddAccount(a Account) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.accounts[a.Email] = a
}

// AddRoom registers a room, assigning it an ID, and returns it.
func (b *Backend) AddRoom(r *RoomState) *RoomState {
	b.mu.Lock()
	defer b.mu.Unlock()
	r.ID = b.nextRoom
	b.nextRoom++
	if r.CreatedAt == "" {
		r.CreatedAt = time.Now().Format("2006-01-02")
	}
	b.rooms[r.ID] = r
	return r
}

// Room returns the live state of a room for assertions.
func (b *Backend) Room(id int64) *RoomState {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.rooms[id]
}

func (b *Backend) sessionUser(c *gin.Context) (Account, bool) {
	cookie, err := c.Cookie(sessionCookie)
	if err != nil {
		return Account{}, false
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	email, ok := b.sessions[cookie]
	if !ok {
		return Account{}, false
	}
	acct, ok := b.accounts[email]
	return acct, ok
}

func (b *Backend) routes() {
	e := b.Engine

	e.POST("/Login/login", func(c *gin.Context) {
		var req struct {
			Email    string `json:"email"`
			Password string `json:"password"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "bad request"})
			return
		}

		b.mu.Lock()
		acct, ok := b.accounts[req.Email]
		if !ok || acct.Password != req.Password {
			b.mu.Unlock()
			c.JSON(http.StatusUnauthorized, gin.H{"message": "아이디 또는 비밀번호가 올바르지 않습니다"})
			return
		}
		b.nextSess++
		cookie := fmt.Sprintf("sess-%d", b.nextSess)
		b.sessions[cookie] = acct.Email
		b.mu.Unlock()

		c.SetCookie(sessionCookie, cookie, 3600, "/", "", false, true)
		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"result":  gin.H{"id": 1, "nickname": acct.Nickname, "email": acct.Email, "role": "USER"},
		})
	})

	e.POST("/Login/logout", func(c *gin.Context) {
		if cookie, err := c.Cookie(sessionCookie); err == nil {
			b.mu.Lock()
			delete(b.sessions, cookie)
			b.mu.Unlock()
		}
		c.SetCookie(sessionCookie, "", -1, "/", "", false, true)
		c.JSON(http.StatusOK, gin.H{"success": true})
	})

	sessionHandler := func(c *gin.Context) {
		acct, ok := b.sessionUser(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"message": "로그인이 필요합니다"})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"result":  gin.H{"id": 1, "nickname": acct.Nickname, "email": acct.Email, "role": "USER"},
		})
	}
	e.GET("/Login/session", sessionHandler)
	e.GET("/session/my", sessionHandler)

	e.GET("/session/Profile/:nickname", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"result": gin.H{
				"id":       "u1",
				"nickname": c.Param("nickname"),
				"bio":      "팩트를 사랑하는 저널리즘 지망생",
				"checks":   78, "comments": 44, "likes": 120,
				"followers": 35, "following": 11,
			},
		})
	})

	e.GET("/user", func(c *gin.Context) {
		acct, ok := b.sessionUser(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"message": "로그인이 필요합니다"})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"id": "u1", "nickname": acct.Nickname, "loginEmail": acct.Email,
			"joinDate": "2024-04-12", "checks": 78, "comments": 44, "likes": 120,
		})
	})

	e.POST("/user/regi", func(c *gin.Context) {
		var req struct {
			Email    string `json:"email"`
			Password string `json:"password"`
			Nickname string `json:"nickname"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "bad request"})
			return
		}
		b.mu.Lock()
		_, exists := b.accounts[req.Email]
		if !exists {
			b.accounts[req.Email] = Account{Email: req.Email, Password: req.Password, Nickname: req.Nickname}
		}
		b.mu.Unlock()
		if exists {
			c.JSON(http.StatusConflict, gin.H{"message": "이미 사용 중인 이메일입니다"})
			return
		}
		c.JSON(http.StatusCreated, gin.H{"success": true})
	})

	e.POST("/user/checkemail", func(c *gin.Context) {
		var req struct {
			Email string `json:"email"`
		}
		_ = c.ShouldBindJSON(&req)
		b.mu.Lock()
		_, taken := b.accounts[req.Email]
		b.mu.Unlock()
		c.JSON(http.StatusOK, gin.H{"available": !taken})
	})

	e.POST("/user/sendcode", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"success": true})
	})

	e.POST("/user/verifycode", func(c *gin.Context) {
		var req struct {
			Code string `json:"code"`
		}
		_ = c.ShouldBindJSON(&req)
		c.JSON(http.StatusOK, gin.H{"verified": req.Code == "123456"})
	})

	e.POST("/auth/password-reset", func(c *gin.Context) {
		var req struct {
			Email string `json:"email"`
		}
		_ = c.ShouldBindJSON(&req)
		b.mu.Lock()
		_, known := b.accounts[req.Email]
		b.mu.Unlock()
		if !known {
			c.JSON(http.StatusNotFound, gin.H{"message": "등록되지 않은 이메일입니다"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true})
	})

	e.GET("/bias", func(c *gin.Context) {
		c.JSON(http.StatusOK, []gin.H{
			{"name": "보수", "value": 45},
			{"name": "진보", "value": 40},
			{"name": "중도", "value": 15},
		})
	})

	e.GET("/watchTime", func(c *gin.Context) {
		c.JSON(http.StatusOK, []gin.H{
			{"name": "Mon", "min": 32},
			{"name": "Tue", "min": 15},
		})
	})

	b.roomRoutes()
	b.analysisRoutes()

	e.GET("/ws/websocket", gin.WrapF(b.Broker.Handle))
}

func (b *Backend) roomRoutes() {
	e := b.Engine

	e.GET("/api/debate-rooms", func(c *gin.Context) {
		c.JSON(http.StatusOK, b.roomList())
	})

	e.GET("/api/debate-rooms/hot", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"success": true, "result": b.roomList()})
	})

	e.GET("/api/debate-rooms/search", func(c *gin.Context) {
		q := c.Query("q")
		var matches []gin.H
		for _, room := range b.roomList() {
			if contains(room["title"].(string), q) || contains(room["description"].(string), q) {
				matches = append(matches, room)
			}
		}
		if len(matches) == 0 {
			c.JSON(http.StatusNotFound, gin.H{"message": "검색 결과가 없습니다"})
			return
		}
		c.JSON(http.StatusOK, matches)
	})

	e.POST("/api/debate-rooms", func(c *gin.Context) {
		acct, ok := b.sessionUser(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"message": "로그인이 필요합니다"})
			return
		}
		var req struct {
			Title    string   `json:"title"`
			Topic    string   `json:"topic"`
			Keywords []string `json:"keywords"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "bad request"})
			return
		}
		room := b.AddRoom(&RoomState{
			Title: req.Title, Topic: req.Topic, Description: req.Topic,
			Keywords: req.Keywords, Creator: acct.Nickname,
		})
		c.JSON(http.StatusCreated, room)
	})

	withRoom := func(fn func(c *gin.Context, room *RoomState)) gin.HandlerFunc {
		return func(c *gin.Context) {
			id, err := strconv.ParseInt(c.Param("id"), 10, 64)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"message": "bad room id"})
				return
			}
			b.mu.Lock()
			room, ok := b.rooms[id]
			b.mu.Unlock()
			if !ok {
				c.JSON(http.StatusNotFound, gin.H{"message": "토론방을 찾을 수 없습니다"})
				return
			}
			fn(c, room)
		}
	}

	e.GET("/api/debate-rooms/:id", withRoom(func(c *gin.Context, room *RoomState) {
		c.JSON(http.StatusOK, room)
	}))

	e.DELETE("/api/debate-rooms/:id", withRoom(func(c *gin.Context, room *RoomState) {
		b.mu.Lock()
		delete(b.rooms, room.ID)
		b.mu.Unlock()
		c.JSON(http.StatusOK, gin.H{"success": true})
	}))

	e.POST("/api/debate-rooms/:id/join", withRoom(func(c *gin.Context, room *RoomState) {
		b.mu.Lock()
		room.CurrentParticipants++
		room.TotalVisits++
		b.mu.Unlock()
		c.JSON(http.StatusOK, room)
	}))

	e.POST("/api/debate-rooms/:id/leave", withRoom(func(c *gin.Context, room *RoomState) {
		b.mu.Lock()
		if room.CurrentParticipants > 0 {
			room.CurrentParticipants--
		}
		b.mu.Unlock()
		c.JSON(http.StatusOK, gin.H{"success": true})
	}))

	e.POST("/api/debate-rooms/:id/ready", withRoom(func(c *gin.Context, room *RoomState) {
		acct, ok := b.sessionUser(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"message": "로그인이 필요합니다"})
			return
		}
		b.mu.Lock()
		switch acct.Nickname {
		case room.DebaterA:
			room.DebaterAReady = true
		case room.DebaterB:
			room.DebaterBReady = true
		}
		if room.DebaterAReady && room.DebaterBReady {
			room.Started = true
		}
		b.mu.Unlock()
		c.JSON(http.StatusOK, gin.H{"success": true})
	}))

	e.POST("/api/debate-rooms/:id/register-as-debater-a", withRoom(func(c *gin.Context, room *RoomState) {
		acct, ok := b.sessionUser(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"message": "로그인이 필요합니다"})
			return
		}
		b.mu.Lock()
		room.DebaterA = acct.Nickname
		b.mu.Unlock()
		c.JSON(http.StatusOK, room)
	}))

	e.POST("/api/debate-rooms/:id/join-as-debater-b", withRoom(func(c *gin.Context, room *RoomState) {
		acct, ok := b.sessionUser(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"message": "로그인이 필요합니다"})
			return
		}
		b.mu.Lock()
		room.DebaterB = acct.Nickname
		b.mu.Unlock()
		c.JSON(http.StatusOK, room)
	}))
}

func (b *Backend) analysisRoutes() {
	e := b.Engine

	e.POST("/api/fact-check", func(c *gin.Context) {
		var req struct {
			Sender  string `json:"sender"`
			Content string `json:"content"`
		}
		_ = c.ShouldBindJSON(&req)
		c.JSON(http.StatusOK, gin.H{
			"factCheck":   "주장의 근거가 일부 확인되었습니다",
			"factCheckBy": "NewsBalance AI",
		})
	})

	e.POST("/api/debate/summary", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"summarizemessage": "양측의 주장이 팽팽히 맞섰습니다.",
			"relatedArticles":  []gin.H{{"link": "https://news.example.com/1", "title": "관련 기사"}},
			"keywords":         []string{"경제", "복지"},
		})
	})

	e.GET("/search/info", func(c *gin.Context) {
		if c.Query("query") == "" {
			c.JSON(http.StatusBadRequest, gin.H{"message": "query required"})
			return
		}
		c.JSON(http.StatusOK, []gin.H{
			{"id": "v1", "title": "진보 진영의 복지 공약 분석", "videoUrl": "https://www.youtube.com/watch?v=aaa111", "biasScore": -0.5},
			{"id": "v2", "title": "시장 중심 경제 개혁안", "videoUrl": "https://www.youtube.com/watch?v=bbb222", "biasScore": 0.6},
			{"id": "v3", "title": "오늘의 주요 뉴스", "videoUrl": "https://www.youtube.com/watch?v=ccc333", "biasScore": 0.0},
		})
	})

	e.GET("/search/summaries", func(c *gin.Context) {
		c.JSON(http.StatusOK, []gin.H{
			{"content": "첫 번째 요약 문장입니다.", "score": 0.92},
			{"content": "두 번째 요약 문장입니다.", "score": 0.81},
		})
	})

	e.POST("/analyzeTranscript", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"sentiment": "neutral",
			"keywords":  []string{"뉴스", "정치"},
			"summary":   "자막 기반 요약입니다.",
			"bias":      "center",
		})
	})

	e.POST("/api/debug/getdata", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"source": "url", "bias": "center"})
	})

	e.POST("/contact", func(c *gin.Context) {
		if err := c.Request.ParseMultipartForm(32 << 20); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "bad form"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"ticketId": "TCK-1042"})
	})
}

func (b *Backend) roomList() []gin.H {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]gin.H, 0, len(b.rooms))
	for _, room := range b.rooms {
		out = append(out, gin.H{
			"id": room.ID, "title": room.Title, "description": room.Description,
			"currentParticipants": room.CurrentParticipants, "totalVisits": room.TotalVisits,
			"createdAt": room.CreatedAt, "keywords": room.Keywords, "creator": room.Creator,
		})
	}
	return out
}

func contains(haystack, needle string) bool {
	return needle == "" || strings.Contains(haystack, needle)
}
