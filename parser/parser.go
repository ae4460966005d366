package parser

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/yeungjosh/pokemon-real-data-experiment/game"
)

// DefaultMinRating drops battles between players below this rating.
const DefaultMinRating = 1000

var (
	ErrNoWinner  = errors.New("battle has no winner")
	ErrLowRating = errors.New("battle rating below minimum")
)

// ParseLog reads a full protocol log. Unknown or malformed lines are skipped.
func ParseLog(logText string) (*game.Battle, error) {
	b := game.NewBattle("")
	lines := strings.Split(logText, "\n")

	for _, line := range lines {
		ProcessLine(b, line)
	}

	if len(b.Players) == 0 {
		return nil, errors.New("log has no player lines")
	}
	return b, nil
}

// ProcessLine applies one protocol line to b.
func ProcessLine(b *game.Battle, line string) {
	parts := strings.Split(strings.TrimSpace(line), "|")
	if len(parts) < 2 || parts[0] != "" {
		return
	}
	switch parts[1] {
	case "player":
		// |player|p1|username|avatar|rating
		if len(parts) >= 4 && parts[3] != "" {
			p := b.Player(parts[2])
			p.Name = parts[3]
			if len(parts) >= 6 {
				if r, err := strconv.Atoi(parts[5]); err == nil {
					p.Rating = r
				}
			}
		}
	case "poke":
		// |poke|p1|Garchomp, M|item
		if len(parts) >= 4 {
			p := b.Player(parts[2])
			p.Team = append(p.Team, speciesName(parts[3]))
		}
	case "tier":
		if len(parts) >= 3 {
			b.Format = parts[2]
		}
	case "turn":
		if len(parts) >= 3 {
			t, err := strconv.Atoi(parts[2])
			if err == nil {
				b.Turn = t
			}
		}
	case "win":
		if len(parts) >= 3 {
			b.Winner = b.SideOf(parts[2])
		}
	}
}

// speciesName strips gender/level details and the "-*" marker used for
// formes hidden at team preview.
func speciesName(details string) string {
	name := strings.TrimSpace(strings.Split(details, ",")[0])
	return strings.TrimSuffix(name, "-*")
}

// Validate checks that b is usable as a labeled training example.
func Validate(b *game.Battle, minRating int) error {
	for _, id := range []string{"p1", "p2"} {
		p := b.Player(id)
		if len(p.Team) != game.TeamSize {
			return fmt.Errorf("%s: %w: got %d", id, game.ErrIncompleteTeam, len(p.Team))
		}
		if p.Rating < minRating {
			return fmt.Errorf("%s rated %d: %w %d", id, p.Rating, ErrLowRating, minRating)
		}
	}
	if b.Winner == "" {
		return ErrNoWinner
	}
	return nil
}

// TeamsRevealed reports whether both sides have shown a full team preview.
func TeamsRevealed(b *game.Battle) bool {
	for _, id := range []string{"p1", "p2"} {
		p, ok := b.Players[id]
		if !ok || len(p.Team) < game.TeamSize {
			return false
		}
	}
	return true
}
