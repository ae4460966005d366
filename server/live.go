package server

import (
	"context"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/yeungjosh/pokemon-real-data-experiment/client"
	"github.com/yeungjosh/pokemon-real-data-experiment/game"
	"github.com/yeungjosh/pokemon-real-data-experiment/metrics"
	"github.com/yeungjosh/pokemon-real-data-experiment/parser"
	"github.com/yeungjosh/pokemon-real-data-experiment/report"
)

// streamed are the protocol lines forwarded to the browser as log lines.
var streamed = []string{"|turn|", "|switch|", "|drag|", "|faint|", "|win|", "|tie"}

func isStreamed(line string) bool {
	for _, prefix := range streamed {
		if strings.HasPrefix(line, prefix) {
			return true
		}
	}
	return false
}

func isBattleEnd(line string) bool {
	return strings.HasPrefix(line, "|win|") || strings.HasPrefix(line, "|tie")
}

// handleConnect joins a live battle room and streams its events as
// server-sent events. Once both team previews are in, each side's team
// report is rendered. The stream ends with the battle; a dropped upstream
// connection ends it too.
func (s *Server) handleConnect(c *gin.Context) {
	roomID, err := client.NormalizeRoomID(c.Query("roomid"))
	if err != nil {
		c.String(http.StatusBadRequest, err.Error())
		return
	}
	log := slog.With("room", roomID, "remote", c.ClientIP())
	log.Info("live room requested")

	w := c.Writer
	h := w.Header()
	h.Set("Content-Type", "text/event-stream")
	h.Set("Cache-Control", "no-cache")
	h.Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)

	send := func(html string) {
		fmt.Fprintf(w, "data: %s\n\n", html)
		w.Flush()
	}

	ctx, cancel := context.WithCancel(c.Request.Context())
	defer cancel()

	conn, err := s.opts.Dial(ctx, s.opts.ShowdownURL)
	if err != nil {
		log.Error("dialing showdown", "error", err)
		send(fmt.Sprintf("<p class='error'>Could not reach Showdown: %s</p>", template.HTMLEscapeString(err.Error())))
		return
	}
	defer conn.Close()

	if err := conn.JoinRoom(roomID); err != nil {
		log.Error("joining room", "error", err)
		send(fmt.Sprintf("<p class='error'>Could not join room: %s</p>", template.HTMLEscapeString(err.Error())))
		return
	}

	metrics.LiveRooms.Inc()
	defer metrics.LiveRooms.Dec()

	send(fmt.Sprintf("<p>Joined <strong>%s</strong>. Waiting for events...</p>", template.HTMLEscapeString(roomID)))

	ping := time.NewTicker(s.opts.PingInterval)
	defer ping.Stop()

	battle := game.NewBattle(roomID)
	reported := false
	messages := conn.Messages(ctx)

	for {
		select {
		case <-ctx.Done():
			log.Info("client disconnected")
			return
		case <-ping.C:
			fmt.Fprint(w, ": ping\n\n")
			w.Flush()
		case msg, ok := <-messages:
			if !ok {
				return
			}
			if msg.Err != nil {
				log.Warn("showdown connection lost", "error", msg.Err)
				send(fmt.Sprintf("<p class='error'>Connection to Showdown lost: %s</p>", template.HTMLEscapeString(msg.Err.Error())))
				return
			}

			ended := false
			for _, line := range strings.Split(msg.Text, "\n") {
				parser.ProcessLine(battle, line)
				if isStreamed(line) {
					send(fmt.Sprintf("<p class='logline'>%s</p>", template.HTMLEscapeString(line)))
				}
				if isBattleEnd(line) {
					ended = true
				}
			}

			if !reported && parser.TeamsRevealed(battle) {
				reported = true
				for _, id := range []string{"p1", "p2"} {
					send(s.sideReport(battle.Player(id)))
				}
			}
			if ended {
				log.Info("battle ended, closing stream", "winner", battle.Winner)
				return
			}
		}
	}
}

// sideReport renders a player's revealed team. Species missing from the
// pokedex are listed on the report and keep it from being scored.
func (s *Server) sideReport(p *game.Player) string {
	members, missing := s.engine.Dataset.Pokedex.Resolve(p.Team)
	if len(missing) > 0 {
		slog.Warn("species not in pokedex", "player", p.Name, "missing", missing)
	}
	title := p.ID
	if p.Name != "" {
		title = fmt.Sprintf("%s (%s)", p.Name, p.ID)
	}
	r := s.engine.Explainer.Report(title, members)
	r.Missing = missing
	if len(r.Features) > 0 {
		metrics.TeamsScored.WithLabelValues("live").Inc()
	}
	return report.RenderHTML(r)
}
