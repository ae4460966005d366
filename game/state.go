package game

// DefaultRating is assumed for a player whose rating is missing from the log.
const DefaultRating = 1500

type Player struct {
	ID     string   `json:"id"`
	Name   string   `json:"name"`
	Rating int      `json:"rating"`
	Team   []string `json:"team"`
}

// Battle is what a finished replay contributes to scoring: both team previews and the winner.
type Battle struct {
	ID      string             `json:"battle_id"`
	Format  string             `json:"format,omitempty"`
	Players map[string]*Player `json:"-"`
	Turn    int                `json:"-"`
	Winner  string             `json:"winner"`
}

func NewBattle(id string) *Battle {
	return &Battle{
		ID:      id,
		Players: make(map[string]*Player),
	}
}

// Player returns the player for a side id ("p1", "p2"), creating it on first use.
func (b *Battle) Player(id string) *Player {
	p, ok := b.Players[id]
	if !ok {
		p = &Player{ID: id, Rating: DefaultRating}
		b.Players[id] = p
	}
	return p
}

// SideOf returns the side id of the named player, or "".
func (b *Battle) SideOf(name string) string {
	for id, p := range b.Players {
		if p.Name == name {
			return id
		}
	}
	return ""
}

// RatingDiff is the absolute rating gap between p1 and p2.
func (b *Battle) RatingDiff() int {
	d := b.Player("p1").Rating - b.Player("p2").Rating
	if d < 0 {
		return -d
	}
	return d
}

// Record is the flat JSONL form of a battle, as written by the scraper and read by dataset export.
type Record struct {
	ID         string   `json:"battle_id"`
	P1Name     string   `json:"p1_name"`
	P2Name     string   `json:"p2_name"`
	P1Team     []string `json:"p1_team"`
	P2Team     []string `json:"p2_team"`
	Winner     string   `json:"winner"`
	P1Rating   int      `json:"p1_rating"`
	P2Rating   int      `json:"p2_rating"`
	RatingDiff int      `json:"rating_diff"`
	Timestamp  string   `json:"timestamp,omitempty"`
}

// Record flattens the battle.
func (b *Battle) Record() Record {
	p1, p2 := b.Player("p1"), b.Player("p2")
	return Record{
		ID:         b.ID,
		P1Name:     p1.Name,
		P2Name:     p2.Name,
		P1Team:     append([]string(nil), p1.Team...),
		P2Team:     append([]string(nil), p2.Team...),
		Winner:     b.Winner,
		P1Rating:   p1.Rating,
		P2Rating:   p2.Rating,
		RatingDiff: b.RatingDiff(),
	}
}
