package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yeungjosh/pokemon-real-data-experiment/client"
	"github.com/yeungjosh/pokemon-real-data-experiment/config"
	"github.com/yeungjosh/pokemon-real-data-experiment/engine"
)

var balanced = []string{"Great Tusk", "Kingambit", "Dragapult", "Corviknight", "Toxapex", "Clefable"}

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

func testEngine(t *testing.T) *engine.Engine {
	t.Helper()
	cfg := config.Default()
	cfg.Data.Pokedex = "../data/raw/pokedex.json"
	cfg.Data.Usage = "../data/raw/usage_ou.csv"
	e, err := engine.Load(cfg)
	require.NoError(t, err)
	return e
}

func do(t *testing.T, h http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func TestHealthAndIndex(t *testing.T) {
	s := New(testEngine(t), Options{})

	w := do(t, s.Handler(), http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())

	w = do(t, s.Handler(), http.MethodGet, "/", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "27 species loaded.")
	assert.Contains(t, w.Body.String(), `<option value="Kingambit">`)
}

func TestScore(t *testing.T) {
	s := New(testEngine(t), Options{})

	tests := []struct {
		name       string
		body       any
		wantStatus int
	}{
		{"full team", scoreRequest{Team: balanced}, http.StatusOK},
		{"unknown species", scoreRequest{Team: []string{"Great Tusk", "Kingambit", "Dragapult", "Corviknight", "Toxapex", "Missingno"}}, http.StatusUnprocessableEntity},
		{"short team", scoreRequest{Team: []string{"Great Tusk"}}, http.StatusBadRequest},
		{"missing team", map[string]any{}, http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := do(t, s.Handler(), http.MethodPost, "/score", tt.body)
			assert.Equal(t, tt.wantStatus, w.Code, w.Body.String())
		})
	}
}

func TestScoreBody(t *testing.T) {
	s := New(testEngine(t), Options{})
	w := do(t, s.Handler(), http.MethodPost, "/score", scoreRequest{Team: balanced})
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Vector   []float64          `json:"vector"`
		Features map[string]float64 `json:"features"`
		Report   struct {
			Members []string `json:"members"`
		} `json:"report"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Len(t, resp.Vector, 7)
	assert.Equal(t, 73.5, resp.Features["avg_speed"])
	assert.Equal(t, 1.0, resp.Features["role_score"])
	assert.Equal(t, balanced, resp.Report.Members)
}

func TestScoreUnresolvedNames(t *testing.T) {
	s := New(testEngine(t), Options{})
	team := []string{"Great Tusk", "Kingambit", "Dragapult", "Corviknight", "Nope", "Missingno"}
	w := do(t, s.Handler(), http.MethodPost, "/score", scoreRequest{Team: team})
	require.Equal(t, http.StatusUnprocessableEntity, w.Code)

	var resp struct {
		Unresolved []string `json:"unresolved"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, []string{"Nope", "Missingno"}, resp.Unresolved)
}

func TestExplain(t *testing.T) {
	s := New(testEngine(t), Options{})
	w := do(t, s.Handler(), http.MethodPost, "/explain", explainRequest{
		Before: []string{"Great Tusk"},
		After:  []string{"Great Tusk", "Toxapex"},
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp struct {
		Before     []string `json:"before"`
		After      []string `json:"after"`
		RolesAdded []string `json:"roles_added"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, []string{"Great Tusk"}, resp.Before)
	assert.Equal(t, []string{"Great Tusk", "Toxapex"}, resp.After)
	assert.NotContains(t, w.Body.String(), "after_features")
}

func TestSuggest(t *testing.T) {
	s := New(testEngine(t), Options{})

	w := do(t, s.Handler(), http.MethodPost, "/suggest", suggestRequest{Team: []string{"Great Tusk", "Kingambit"}, K: 3})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var resp struct {
		Suggestions []struct {
			Species string `json:"species"`
		} `json:"suggestions"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Suggestions, 3)
	for _, sg := range resp.Suggestions {
		assert.NotContains(t, []string{"Great Tusk", "Kingambit"}, sg.Species)
	}

	w = do(t, s.Handler(), http.MethodPost, "/suggest", suggestRequest{Team: balanced})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestThreats(t *testing.T) {
	s := New(testEngine(t), Options{})

	w := do(t, s.Handler(), http.MethodGet, "/threats?k=13", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var resp struct {
		Threats []engine.Threat `json:"threats"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Threats, 13)
	assert.Equal(t, engine.Threat{Rank: 1, Name: "Great Tusk", Usage: 30.1, InPokedex: true}, resp.Threats[0])
	assert.Equal(t, "Iron Moth", resp.Threats[12].Name)
	assert.False(t, resp.Threats[12].InPokedex)

	w = do(t, s.Handler(), http.MethodGet, "/threats?k=0", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestMetricsEndpoint(t *testing.T) {
	s := New(testEngine(t), Options{})
	do(t, s.Handler(), http.MethodPost, "/score", scoreRequest{Team: balanced})

	w := do(t, s.Handler(), http.MethodGet, "/metrics", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `showdown_scoring_teams_total{source="api"}`)
}

type fakeRoom struct {
	joined string
	frames []client.Message
	closed bool
}

func (f *fakeRoom) JoinRoom(roomID string) error {
	f.joined = roomID
	return nil
}

func (f *fakeRoom) Messages(ctx context.Context) <-chan client.Message {
	out := make(chan client.Message)
	go func() {
		defer close(out)
		for _, m := range f.frames {
			select {
			case out <- m:
			case <-ctx.Done():
				return
			}
		}
	}()
	return out
}

func (f *fakeRoom) Close() error {
	f.closed = true
	return nil
}

func dialer(room *fakeRoom) DialFunc {
	return func(context.Context, string) (RoomConn, error) {
		return room, nil
	}
}

const preview = `>battle-gen9ou-42
|player|p1|Alice|1|1650
|player|p2|Bob|2|1600
|poke|p1|Great Tusk|
|poke|p1|Kingambit, M|
|poke|p1|Dragapult, F|
|poke|p1|Corviknight, M|
|poke|p1|Toxapex, F|
|poke|p1|Clefable, F|
|poke|p2|Garchomp, M|
|poke|p2|Heatran, M|
|poke|p2|Missingno|
|poke|p2|Blissey, F|
|poke|p2|Skarmory, F|
|poke|p2|Weavile, M|
|teampreview`

func TestConnectStreamsBattle(t *testing.T) {
	room := &fakeRoom{frames: []client.Message{
		{Text: preview},
		{Text: ">battle-gen9ou-42\n|switch|p1a: Great Tusk|Great Tusk|100/100\n|move|p1a: Great Tusk|Headlong Rush|p2a: Garchomp\n|turn|1"},
		{Text: ">battle-gen9ou-42\n|win|Alice"},
		{Text: ">battle-gen9ou-42\n|turn|99"},
	}}
	s := New(testEngine(t), Options{Dial: dialer(room)})

	w := do(t, s.Handler(), http.MethodGet, "/connect?roomid=gen9ou-42", nil)
	body := w.Body.String()

	assert.Equal(t, "text/event-stream", w.Header().Get("Content-Type"))
	assert.Equal(t, "battle-gen9ou-42", room.joined)
	assert.True(t, room.closed)

	assert.Contains(t, body, "Joined <strong>battle-gen9ou-42</strong>")
	assert.Contains(t, body, "Alice (p1)")
	assert.Contains(t, body, "Bob (p2)")
	assert.Equal(t, 2, strings.Count(body, "class='team-summary'"))
	assert.Equal(t, 1, strings.Count(body, "class='features'"))
	assert.Equal(t, 1, strings.Count(body, "class='missing'"))
	assert.Contains(t, body, "<b>Not in pokedex:</b> Missingno (report covers 5 of 6)")
	assert.Contains(t, body, "<p class='logline'>|turn|1</p>")
	assert.Contains(t, body, "<p class='logline'>|win|Alice</p>")
	assert.NotContains(t, body, "Headlong Rush")
	assert.NotContains(t, body, "|turn|99")
}

func TestConnectUpstreamError(t *testing.T) {
	room := &fakeRoom{frames: []client.Message{{Err: errors.New("connection reset")}}}
	s := New(testEngine(t), Options{Dial: dialer(room)})

	w := do(t, s.Handler(), http.MethodGet, "/connect?roomid=battle-gen9ou-1", nil)
	assert.Contains(t, w.Body.String(), "Connection to Showdown lost: connection reset")
	assert.True(t, room.closed)
}

func TestConnectDialError(t *testing.T) {
	s := New(testEngine(t), Options{Dial: func(context.Context, string) (RoomConn, error) {
		return nil, errors.New("no route")
	}})
	w := do(t, s.Handler(), http.MethodGet, "/connect?roomid=gen9ou-1", nil)
	assert.Contains(t, w.Body.String(), "Could not reach Showdown: no route")
}

func TestConnectRequiresRoom(t *testing.T) {
	s := New(testEngine(t), Options{})
	w := do(t, s.Handler(), http.MethodGet, "/connect", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCORS(t *testing.T) {
	tests := []struct {
		name    string
		allowed []string
		origin  string
		want    string
	}{
		{"any origin", nil, "http://other.test", "*"},
		{"listed origin", []string{"http://localhost:3000"}, "http://localhost:3000", "http://localhost:3000"},
		{"unlisted origin", []string{"http://localhost:3000"}, "http://other.test", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := New(testEngine(t), Options{AllowOrigins: tt.allowed})
			req := httptest.NewRequest(http.MethodGet, "/health", nil)
			req.Header.Set("Origin", tt.origin)
			w := httptest.NewRecorder()
			s.Handler().ServeHTTP(w, req)
			assert.Equal(t, tt.want, w.Header().Get("Access-Control-Allow-Origin"))
		})
	}
}

func TestRequestID(t *testing.T) {
	s := New(testEngine(t), Options{})

	w := do(t, s.Handler(), http.MethodGet, "/health", nil)
	assert.Len(t, w.Header().Get("X-Request-ID"), 36)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("X-Request-ID", "abc-123")
	w = httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)
	assert.Equal(t, "abc-123", w.Header().Get("X-Request-ID"))
}
