package cmd

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"newsbalance/internal/relay"
)

func newRoomCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "room <id>",
		Short: "Enter a debate room (interactive)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if err := app.Guard.Require(ctx, "room"); err != nil {
				return err
			}

			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid room id: %q", args[0])
			}

			return runRoom(ctx, app, id)
		},
	}
}

// roomSession drives one visit to a debate room: the REST join, the relay
// connection, and the interactive loop.
type roomSession struct {
	app   *App
	room  *relay.Room
	relay *relay.Relay
}

func runRoom(ctx context.Context, app *App, id int64) error {
	detail, err := app.API.JoinRoom(ctx, id)
	if err != nil {
		return err
	}
	if detail.Messages == nil {
		full, err := app.API.Room(ctx, id)
		if err == nil {
			full.CurrentParticipants = detail.CurrentParticipants
			full.TotalVisits = detail.TotalVisits
			detail = full
		}
	}

	nickname := app.Session.Nickname()
	room := relay.NewRoom(detail)

	r := relay.New(app.Config.API.WSURL, nickname, room, app.Logger, app.Meter)
	r.OnError = func(content string) {
		fmt.Printf("\n[오류] %s\n", content)
	}
	r.OnRoomClosed = func(content string) {
		fmt.Printf("\n[알림] %s\n방장이 퇴장하여 토론방이 종료되었습니다. /leave 로 나가세요.\n", content)
	}
	if err := r.Connect(ctx); err != nil {
		return err
	}

	rs := &roomSession{app: app, room: room, relay: r}
	defer func() {
		_ = app.API.LeaveRoom(context.Background(), id)
	}()

	fmt.Printf("=== %s ===\n", room.Title())
	fmt.Println(room.Topic())
	if room.IsDebater(nickname) {
		fmt.Println("역할: 토론자")
	} else {
		fmt.Println("역할: 관전자")
	}
	fmt.Println("Type /help for commands, /leave to exit")
	fmt.Println()

	rs.printTranscript()
	return rs.loop(ctx, nickname)
}

func (rs *roomSession) loop(ctx context.Context, nickname string) error {
	scanner := bufio.NewScanner(os.Stdin)

	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			break
		}

		input := strings.TrimSpace(scanner.Text())
		if input == "" {
			continue
		}

		if strings.HasPrefix(input, "/") {
			shouldQuit, err := rs.handleCommand(ctx, input, nickname)
			if err != nil {
				fmt.Printf("Error: %v\n", err)
				rs.app.Logger.Error("room command error", "error", err)
			}
			if shouldQuit {
				break
			}
			continue
		}

		// Bare input goes to the debate floor for debaters, viewer chat
		// for everyone else.
		if rs.room.IsDebater(nickname) {
			rs.say(input, nickname)
		} else {
			if err := rs.relay.SendChat(input); err != nil {
				fmt.Printf("Error: %v\n", err)
			}
		}
	}

	return rs.relay.Leave(rs.room.IsDebater(nickname))
}

func (rs *roomSession) handleCommand(ctx context.Context, cmd, nickname string) (bool, error) {
	parts := strings.Fields(cmd)
	if len(parts) == 0 {
		return false, nil
	}

	switch parts[0] {
	case "/leave", "/quit":
		return true, nil

	case "/say":
		if len(parts) < 2 {
			return false, fmt.Errorf("usage: /say <message>")
		}
		rs.say(strings.TrimSpace(strings.TrimPrefix(cmd, "/say")), nickname)
		return false, nil

	case "/chat":
		if len(parts) < 2 {
			return false, fmt.Errorf("usage: /chat <message>")
		}
		return false, rs.relay.SendChat(strings.TrimSpace(strings.TrimPrefix(cmd, "/chat")))

	case "/ready":
		return false, rs.app.API.Ready(ctx, rs.room.ID())

	case "/debater-a":
		_, err := rs.app.API.RegisterAsDebaterA(ctx, rs.room.ID())
		return false, err

	case "/debater-b":
		_, err := rs.app.API.JoinAsDebaterB(ctx, rs.room.ID())
		return false, err

	case "/show":
		rs.printTranscript()
		return false, nil

	case "/factcheck":
		if len(parts) < 2 {
			return false, fmt.Errorf("usage: /factcheck <message number>")
		}
		n, err := strconv.Atoi(parts[1])
		if err != nil {
			return false, fmt.Errorf("invalid message number: %q", parts[1])
		}
		return false, rs.factCheck(ctx, n)

	case "/end":
		return false, rs.relay.RequestDebateEnd()

	case "/accept":
		return false, rs.relay.AcceptDebateEnd()

	case "/reject":
		return false, rs.relay.RejectDebateEnd()

	case "/summary":
		return false, rs.summary(ctx)

	case "/help":
		fmt.Println("Available commands:")
		fmt.Println("  /say <msg>        - Speak on the debate floor (debaters only)")
		fmt.Println("  /chat <msg>       - Send viewer chat")
		fmt.Println("  /ready            - Mark yourself ready")
		fmt.Println("  /debater-a        - Claim the A-side podium")
		fmt.Println("  /debater-b        - Claim the B-side podium")
		fmt.Println("  /show             - Reprint the transcript")
		fmt.Println("  /factcheck <n>    - Fact-check message n")
		fmt.Println("  /end              - Request to end the debate")
		fmt.Println("  /accept, /reject  - Answer an end request")
		fmt.Println("  /summary          - Summarize the debate so far")
		fmt.Println("  /leave            - Leave the room")
		return false, nil

	default:
		return false, fmt.Errorf("unknown command: %s", parts[0])
	}
}

func (rs *roomSession) say(text, nickname string) {
	if !rs.room.Started() {
		fmt.Println("토론이 아직 시작되지 않았습니다.")
		return
	}
	if !rs.room.MaySpeak(nickname) {
		fmt.Println(rs.app.T.T("room.notYourTurn"))
		return
	}
	if err := rs.relay.SendDebate(text); err != nil {
		fmt.Printf("Error: %v\n", err)
	}
}

func (rs *roomSession) factCheck(ctx context.Context, n int) error {
	messages := rs.room.Messages()
	if n < 1 || n > len(messages) {
		return fmt.Errorf("no message %d", n)
	}
	target := messages[n-1]

	result, err := rs.app.API.FactCheck(ctx, rs.room.ID(), target.Speaker, target.Text)
	if err != nil {
		return err
	}

	// Attach by the message's stable ID; the transcript may have grown
	// while the request was in flight.
	if !rs.room.SetFactCheck(target.ID, *result) {
		return fmt.Errorf("message no longer present")
	}
	fmt.Printf("[팩트체크] %s (%s)\n", result.FactCheck, result.FactCheckBy)
	return nil
}

func (rs *roomSession) summary(ctx context.Context) error {
	var b strings.Builder
	for _, msg := range rs.room.Messages() {
		fmt.Fprintf(&b, "%s: %s\n", msg.Speaker, msg.Text)
	}

	summary, err := rs.app.API.DebateSummary(ctx, rs.room.ID(), b.String())
	if err != nil {
		return err
	}

	fmt.Println(summary.SummarizeMessage)
	if len(summary.Keywords) > 0 {
		fmt.Printf("키워드: %s\n", strings.Join(summary.Keywords, ", "))
	}
	for _, article := range summary.RelatedArticles {
		fmt.Printf("  %s - %s\n", article.Title, article.Link)
	}
	return nil
}

func (rs *roomSession) printTranscript() {
	messages := rs.room.Messages()
	if len(messages) == 0 {
		fmt.Println("(아직 메시지가 없습니다)")
	}
	for i, msg := range messages {
		fmt.Printf("%3d %s: %s", i+1, msg.Speaker, msg.Text)
		if msg.Pending {
			fmt.Print(" (전송 중)")
		}
		fmt.Println()
		if msg.Summary != "" {
			fmt.Printf("      요약: %s\n", msg.Summary)
		}
		if msg.FactCheck != "" {
			fmt.Printf("      팩트체크: %s (%s)\n", msg.FactCheck, msg.FactCheckBy)
		}
	}

	chat := rs.room.Chat()
	if len(chat) > 0 {
		fmt.Println("-- 관전자 채팅 --")
		for _, line := range chat {
			fmt.Println(line)
		}
	}
}
