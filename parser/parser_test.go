package parser

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yeungjosh/pokemon-real-data-experiment/game"
)

const sampleLog = `|j|☆alice
|j|☆bob
|player|p1|alice|102|1642
|player|p2|bob|265|1588
|teamsize|p1|6
|teamsize|p2|6
|gametype|singles
|gen|9
|tier|[Gen 9] OU
|rule|Species Clause: Limit one of each Pokémon
|clearpoke
|poke|p1|Great Tusk|
|poke|p1|Kingambit, F|
|poke|p1|Dragapult, M|
|poke|p1|Corviknight, F|
|poke|p1|Toxapex, M|
|poke|p1|Clefable, F|
|poke|p2|Gholdengo|
|poke|p2|Garchomp, F|
|poke|p2|Heatran, M|
|poke|p2|Urshifu-*, M|
|poke|p2|Rotom-Wash|
|poke|p2|Samurott-Hisui, M|
|teampreview
|
|start
|switch|p1a: Great Tusk|Great Tusk|100/100
|switch|p2a: Garchomp|Garchomp, F|100/100
|turn|1
|move|p1a: Great Tusk|Headlong Rush|p2a: Garchomp
|turn|2
|
|win|alice`

func TestParseLog(t *testing.T) {
	b, err := ParseLog(sampleLog)
	require.NoError(t, err)

	p1, p2 := b.Player("p1"), b.Player("p2")
	assert.Equal(t, "alice", p1.Name)
	assert.Equal(t, 1642, p1.Rating)
	assert.Equal(t, "bob", p2.Name)
	assert.Equal(t, []string{"Great Tusk", "Kingambit", "Dragapult", "Corviknight", "Toxapex", "Clefable"}, p1.Team)
	assert.Equal(t, []string{"Gholdengo", "Garchomp", "Heatran", "Urshifu", "Rotom-Wash", "Samurott-Hisui"}, p2.Team)
	assert.Equal(t, "[Gen 9] OU", b.Format)
	assert.Equal(t, 2, b.Turn)
	assert.Equal(t, "p1", b.Winner)
	assert.Equal(t, 54, b.RatingDiff())
	assert.True(t, TeamsRevealed(b))
	assert.NoError(t, Validate(b, DefaultMinRating))
}

func TestParseLogEmpty(t *testing.T) {
	_, err := ParseLog("|j|alice\n|turn|1")
	assert.Error(t, err)
}

func TestProcessLine(t *testing.T) {
	tests := []struct {
		name  string
		lines []string
		check func(t *testing.T, b *game.Battle)
	}{
		{
			name:  "missing rating keeps default",
			lines: []string{"|player|p1|alice|102|"},
			check: func(t *testing.T, b *game.Battle) {
				assert.Equal(t, game.DefaultRating, b.Player("p1").Rating)
			},
		},
		{
			name:  "empty player line does not clear name",
			lines: []string{"|player|p1|alice|102|1700", "|player|p1|"},
			check: func(t *testing.T, b *game.Battle) {
				assert.Equal(t, "alice", b.Player("p1").Name)
				assert.Equal(t, 1700, b.Player("p1").Rating)
			},
		},
		{
			name:  "unknown winner",
			lines: []string{"|player|p1|alice|1|1500", "|win|carol"},
			check: func(t *testing.T, b *game.Battle) {
				assert.Empty(t, b.Winner)
			},
		},
		{
			name:  "room prefix and garbage ignored",
			lines: []string{">battle-gen9ou-1", "", "|", "hello", "|turn|x"},
			check: func(t *testing.T, b *game.Battle) {
				assert.Empty(t, b.Players)
				assert.Equal(t, 0, b.Turn)
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := game.NewBattle("test")
			for _, l := range tt.lines {
				ProcessLine(b, l)
			}
			tt.check(t, b)
		})
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(string) string
		min     int
		wantErr error
	}{
		{"ok", func(s string) string { return s }, DefaultMinRating, nil},
		{"no winner", func(s string) string { return strings.Replace(s, "|win|alice", "|tie", 1) }, DefaultMinRating, ErrNoWinner},
		{"short team", func(s string) string { return strings.Replace(s, "|poke|p2|Gholdengo|\n", "", 1) }, DefaultMinRating, game.ErrIncompleteTeam},
		{"low rating", func(s string) string { return s }, 1600, ErrLowRating},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b, err := ParseLog(tt.mutate(sampleLog))
			require.NoError(t, err)
			err = Validate(b, tt.min)
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}
