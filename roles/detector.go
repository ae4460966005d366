// Package roles tags species with tactical roles from their movepool and speed.
package roles

import "github.com/yeungjosh/pokemon-real-data-experiment/game"

// FastSpeed is the base speed at which a species counts as speed control on its own.
const FastSpeed = 100

var (
	HazardMoves   = []string{"Stealth Rock", "Spikes", "Toxic Spikes"}
	RemovalMoves  = []string{"Rapid Spin", "Defog"}
	PivotMoves    = []string{"U-turn", "Volt Switch", "Flip Turn"}
	PriorityMoves = []string{"Extreme Speed", "Aqua Jet", "Mach Punch", "Sucker Punch", "Ice Shard", "Thunderclap"}
)

// completeBonus is added to the diversity score when every role is present.
const completeBonus = 0.1

type Detector struct {
	fastSpeed int
}

type Option func(*Detector)

// WithFastSpeed overrides FastSpeed. Values below 1 are ignored.
func WithFastSpeed(spe int) Option {
	return func(d *Detector) {
		if spe > 0 {
			d.fastSpeed = spe
		}
	}
}

func NewDetector(opts ...Option) *Detector {
	d := &Detector{fastSpeed: FastSpeed}
	for _, o := range opts {
		o(d)
	}
	return d
}

// DetectRoles returns every role s can fill.
func (d *Detector) DetectRoles(s *game.Species) game.RoleSet {
	var set game.RoleSet
	if s.LearnsAny(HazardMoves) {
		set = set.Add(game.HazardSetter)
	}
	if s.LearnsAny(RemovalMoves) {
		set = set.Add(game.HazardRemoval)
	}
	if s.LearnsAny(PivotMoves) {
		set = set.Add(game.Pivot)
	}
	if s.Stats.Spe >= d.fastSpeed || s.LearnsAny(PriorityMoves) {
		set = set.Add(game.SpeedControl)
	}
	return set
}

// TeamRoles is the union of roles across members.
func (d *Detector) TeamRoles(members []*game.Species) game.RoleSet {
	var set game.RoleSet
	for _, m := range members {
		set = set.Union(d.DetectRoles(m))
	}
	return set
}

// DiversityScore is the covered share of the four roles, with a bonus
// (capped at 1.0) when all four are present.
func (d *Detector) DiversityScore(team game.Team) float64 {
	set := d.TeamRoles(team[:])
	score := float64(set.Len()) / game.NumRoles
	if set.Complete() {
		score = min(1.0, score+completeBonus)
	}
	return score
}

// RolesAdded lists display names of roles after has that before lacks, in role order.
func (d *Detector) RolesAdded(before, after []*game.Species) []string {
	added := d.TeamRoles(after).Difference(d.TeamRoles(before))
	var out []string
	for _, r := range added.Roles() {
		out = append(out, r.DisplayName())
	}
	return out
}
