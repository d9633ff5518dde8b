// internal/combo/combo.go
package combo

import (
	"fmt"
	"sort"

	"github.com/Crayxus/crayxus-game/internal/models"
)

// Type is the kind of a played combination.
type Type int

const (
	Invalid Type = iota
	Single
	Pair
	Triple
	Straight
	TriplePair
	Plate
	Tube
	StraightFlush
	Bomb
)

var typeNames = map[Type]string{
	Invalid:       "invalid",
	Single:        "single",
	Pair:          "pair",
	Triple:        "triple",
	Straight:      "straight",
	TriplePair:    "triple_pair",
	Plate:         "plate",
	Tube:          "tube",
	StraightFlush: "straight_flush",
	Bomb:          "bomb",
}

func (t Type) String() string {
	if name, ok := typeNames[t]; ok {
		return name
	}
	return fmt.Sprintf("Type(%d)", int(t))
}

// ParseType maps a wire name back to a Type. Unknown or empty names yield Invalid.
func ParseType(name string) Type {
	for t, n := range typeNames {
		if n == name {
			return t
		}
	}
	return Invalid
}

// MarshalText encodes the type by name so JSON payloads carry "pair", "bomb", etc.
func (t Type) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// UnmarshalText is the inverse of MarshalText.
func (t *Type) UnmarshalText(b []byte) error {
	parsed := ParseType(string(b))
	if parsed == Invalid && string(b) != typeNames[Invalid] {
		return fmt.Errorf("unknown combination type %q", string(b))
	}
	*t = parsed
	return nil
}

const (
	// QuadJokerRank is the rank value of the four-joker bomb.
	QuadJokerRank = 999
	// QuadJokerPower places the four-joker bomb above everything else.
	QuadJokerPower = 1000
	// StraightFlushPower sits between the 5-card and 6-card bombs.
	StraightFlushPower = 550

	bombPowerPerCard = 100
	maxBombSize      = 8
	minSequenceRank  = models.ValueThree
	maxSequenceRank  = models.ValueAce
)

// Combination describes a valid play. The zero value is the invalid combination.
type Combination struct {
	Type  Type `json:"type"`
	Rank  int  `json:"rank"`
	Count int  `json:"count"`
	Power int  `json:"power"`
}

func newCombination(t Type, rank, count int) Combination {
	c := Combination{Type: t, Rank: rank, Count: count}
	switch t {
	case Bomb:
		if rank == QuadJokerRank {
			c.Power = QuadJokerPower
		} else {
			c.Power = bombPowerPerCard * count
		}
	case StraightFlush:
		c.Power = StraightFlushPower
	}
	return c
}

// Valid reports whether the combination is anything but Invalid.
func (c Combination) Valid() bool {
	return c.Type != Invalid
}

// IsBombClass reports whether the combination outranks every ordinary play.
func (c Combination) IsBombClass() bool {
	return c.Type == Bomb || c.Type == StraightFlush
}

// IsQuadJoker reports whether this is the four-joker bomb.
func (c Combination) IsQuadJoker() bool {
	return c.Type == Bomb && c.Rank == QuadJokerRank
}

func (c Combination) String() string {
	if !c.Valid() {
		return "invalid"
	}
	return fmt.Sprintf("%s(rank=%d,count=%d,power=%d)", c.Type, c.Rank, c.Count, c.Power)
}

// Classify returns the strongest reading of cards, or the invalid combination.
func Classify(cards []models.Card) Combination {
	readings := Readings(cards)
	if len(readings) == 0 {
		return Combination{}
	}
	return readings[0]
}

// Readings lists every valid interpretation of cards, strongest first. Several readings
// exist only when the wildcard can stand in for different ranks.
func Readings(cards []models.Card) []Combination {
	n := len(cards)
	if n == 0 || n > maxBombSize {
		return nil
	}

	var naturals []models.Card
	wild := 0
	for _, c := range cards {
		if c.IsWild() {
			wild++
			continue
		}
		naturals = append(naturals, c)
	}

	var out []Combination
	add := func(c Combination) {
		for _, existing := range out {
			if existing == c {
				return
			}
		}
		out = append(out, c)
	}

	sameValue, value := allSameValue(cards)

	switch n {
	case 1:
		add(newCombination(Single, cards[0].Value, 1))
	case 2:
		if sameValue {
			add(newCombination(Pair, value, 2))
		} else if v, ok := wildGroup(naturals, wild, 2); ok {
			add(newCombination(Pair, v, 2))
		}
	case 3:
		if sameValue && !cards[0].IsJoker() {
			add(newCombination(Triple, value, 3))
		} else if v, ok := wildGroup(naturals, wild, 3); ok {
			add(newCombination(Triple, v, 3))
		}
	case 5:
		for _, r := range straights(naturals, wild) {
			add(r)
		}
		for _, r := range triplePairs(naturals, wild) {
			add(r)
		}
	case 6:
		for _, r := range sequenceGroups(naturals, wild, 2, 3, Plate) {
			add(r)
		}
		for _, r := range sequenceGroups(naturals, wild, 3, 2, Tube) {
			add(r)
		}
	}

	if n >= 4 {
		switch {
		case isQuadJoker(cards):
			add(newCombination(Bomb, QuadJokerRank, 4))
		case sameValue && !cards[0].IsJoker() && (n == 4 || wild == 0):
			add(newCombination(Bomb, value, n))
		case n == 4:
			if v, ok := wildGroup(naturals, wild, 4); ok {
				add(newCombination(Bomb, v, 4))
			}
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		return stronger(out[i], out[j])
	})
	return out
}

// stronger orders readings: bomb-class first by power then rank, ordinary plays by rank,
// with the later type winning a rank tie.
func stronger(a, b Combination) bool {
	if a.IsBombClass() != b.IsBombClass() {
		return a.IsBombClass()
	}
	if a.Power != b.Power {
		return a.Power > b.Power
	}
	if a.Rank != b.Rank {
		return a.Rank > b.Rank
	}
	return a.Type > b.Type
}

func allSameValue(cards []models.Card) (bool, int) {
	v := cards[0].Value
	for _, c := range cards[1:] {
		if c.Value != v {
			return false, 0
		}
	}
	return true, v
}

// wildGroup checks whether the naturals plus wild cards form size cards of one non-joker
// rank.
func wildGroup(naturals []models.Card, wild, size int) (int, bool) {
	if wild == 0 || len(naturals) == 0 || len(naturals)+wild != size {
		return 0, false
	}
	v := naturals[0].Value
	for _, c := range naturals {
		if c.IsJoker() || c.Value != v {
			return 0, false
		}
	}
	return v, true
}

func isQuadJoker(cards []models.Card) bool {
	if len(cards) != 4 {
		return false
	}
	small, big := 0, 0
	for _, c := range cards {
		switch c.Rank {
		case models.RankSmallJoker:
			small++
		case models.RankBigJoker:
			big++
		}
	}
	return small == 2 && big == 2
}

// valueCounts counts naturals per rank value, rejecting jokers and ranks outside the
// sequence range when sequence is set.
func valueCounts(naturals []models.Card, sequence bool) (map[int]int, bool) {
	counts := make(map[int]int, len(naturals))
	for _, c := range naturals {
		if c.IsJoker() {
			return nil, false
		}
		if sequence && (c.Value < minSequenceRank || c.Value > maxSequenceRank) {
			return nil, false
		}
		counts[c.Value]++
	}
	return counts, true
}

// straights returns every five-long run readable from the cards, with the straight flush
// reading added when all naturals share a suit.
func straights(naturals []models.Card, wild int) []Combination {
	counts, ok := valueCounts(naturals, true)
	if !ok {
		return nil
	}
	for _, n := range counts {
		if n > 1 {
			return nil
		}
	}
	flush := len(naturals) > 0
	for _, c := range naturals {
		if c.Suit != naturals[0].Suit {
			flush = false
			break
		}
	}

	var out []Combination
	for low := minSequenceRank; low+4 <= maxSequenceRank; low++ {
		inside := 0
		for v := range counts {
			if v >= low && v <= low+4 {
				inside++
			}
		}
		if inside != len(counts) || 5-inside != wild {
			continue
		}
		out = append(out, newCombination(Straight, low+4, 5))
		if flush {
			out = append(out, newCombination(StraightFlush, low+4, 5))
		}
	}
	return out
}

// triplePairs returns the triple+pair readings. The triple and the pair must differ in
// rank. The triple never holds a joker; the pair may be two identical natural jokers.
func triplePairs(naturals []models.Card, wild int) []Combination {
	var jokers, rest []models.Card
	for _, c := range naturals {
		if c.IsJoker() {
			jokers = append(jokers, c)
		} else {
			rest = append(rest, c)
		}
	}
	if len(jokers) > 0 {
		if len(jokers) != 2 || jokers[0].Rank != jokers[1].Rank {
			return nil
		}
		if wild > 0 {
			if t, ok := wildGroup(rest, wild, 3); ok {
				return []Combination{newCombination(TriplePair, t, 5)}
			}
			return nil
		}
		if len(rest) != 3 {
			return nil
		}
		if same, t := allSameValue(rest); same {
			return []Combination{newCombination(TriplePair, t, 5)}
		}
		return nil
	}

	counts, ok := valueCounts(naturals, false)
	if !ok || len(counts) == 0 || len(counts) > 2 {
		return nil
	}
	values := make([]int, 0, 2)
	for v := range counts {
		values = append(values, v)
	}
	if len(values) == 1 {
		// The two wildcards can only pair up as themselves.
		values = append(values, models.ValueTwo)
	}

	var out []Combination
	for _, pair := range [][2]int{{values[0], values[1]}, {values[1], values[0]}} {
		t, p := pair[0], pair[1]
		if t == p {
			continue
		}
		needT, needP := 3-counts[t], 2-counts[p]
		if needT < 0 || needP < 0 || needT+needP != wild {
			continue
		}
		out = append(out, newCombination(TriplePair, t, 5))
	}
	return out
}

// sequenceGroups finds runs of groups consecutive ranks, each of size cards. The reading
// is ranked by its lowest rank.
func sequenceGroups(naturals []models.Card, wild, groups, size int, t Type) []Combination {
	counts, ok := valueCounts(naturals, true)
	if !ok {
		return nil
	}
	var out []Combination
	for low := minSequenceRank; low+groups-1 <= maxSequenceRank; low++ {
		need := 0
		covered := 0
		fits := true
		for v := low; v < low+groups; v++ {
			have := counts[v]
			if have > size {
				fits = false
				break
			}
			need += size - have
			covered += have
		}
		if !fits || covered != len(naturals) || need != wild {
			continue
		}
		out = append(out, newCombination(t, low, groups*size))
	}
	return out
}
