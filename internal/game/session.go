// internal/game/session.go
package game

import (
	"sort"

	"github.com/Crayxus/crayxus-game/internal/combo"
	"github.com/Crayxus/crayxus-game/internal/models"
	"github.com/sirupsen/logrus"
)

// NoTurn is sent as nextTurn once the game is over.
const NoTurn = -1

// Phase is the coarse lifecycle state of a room's game.
type Phase int

const (
	PhaseWaitingForPlayers Phase = iota
	PhaseDealt
	PhasePlaying
	PhaseFinished
)

func (p Phase) String() string {
	switch p {
	case PhaseDealt:
		return "dealt"
	case PhasePlaying:
		return "playing"
	case PhaseFinished:
		return "finished"
	default:
		return "waiting"
	}
}

// ActionKind is what a seat did on its turn.
type ActionKind string

const (
	ActionPlay ActionKind = "play"
	ActionPass ActionKind = "pass"
)

// Action is a request from the seat holding the turn.
type Action struct {
	Seat     int
	Kind     ActionKind
	Cards    []models.Card
	Declared combo.Type
}

// LastPlay is the combination that currently leads the open round.
type LastPlay struct {
	Owner int `json:"owner"`
	combo.Combination
}

// Outcome describes the mutation an action produced. Kind and Cards reflect what was
// actually applied, which differs from the request when the server had to recover.
type Outcome struct {
	Seat          int
	Kind          ActionKind
	Cards         []models.Card
	Combination   *combo.Combination
	NextTurn      int
	RoundClosed   bool
	FinishedOrder []int
	GameOver      bool
	Forced        bool

	// Recovered is ErrInvalidCombination or ErrIllegalPass when the request was replaced.
	Recovered error
}

// Session is the state of one deal. It is not safe for concurrent use; the owning room
// serializes every call.
type Session struct {
	Active        bool
	Turn          int
	Hands         [NumSeats][]models.Card
	Last          *LastPlay
	PassCount     int
	FinishedOrder []int
	CardsPlayed   int

	log *logrus.Entry
}

// NewSession starts a deal with leader holding the first turn.
func NewSession(hands [NumSeats][]models.Card, leader int, log *logrus.Entry) *Session {
	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}
	s := &Session{
		Active:        true,
		Turn:          leader,
		Hands:         hands,
		FinishedOrder: []int{},
		log:           log,
	}
	s.repairTurn()
	return s
}

// ActiveCount is the number of seats that still hold cards.
func (s *Session) ActiveCount() int {
	return NumSeats - len(s.FinishedOrder)
}

// IsFinished reports whether seat has emptied its hand.
func (s *Session) IsFinished(seat int) bool {
	for _, f := range s.FinishedOrder {
		if f == seat {
			return true
		}
	}
	return false
}

// HandSizes returns the number of cards each seat holds.
func (s *Session) HandSizes() [NumSeats]int {
	var out [NumSeats]int
	for i, h := range s.Hands {
		out[i] = len(h)
	}
	return out
}

// Hand returns a copy of seat's hand.
func (s *Session) Hand(seat int) []models.Card {
	if seat < 0 || seat >= NumSeats {
		return []models.Card{}
	}
	return append([]models.Card{}, s.Hands[seat]...)
}

// Order returns a copy of the finish order.
func (s *Session) Order() []int {
	return append([]int{}, s.FinishedOrder...)
}

// CardsInPlay is the invariant total: cards in hands plus cards played.
func (s *Session) CardsInPlay() int {
	return s.CardsPlayed + s.handTotal()
}

// Apply runs a requested action. ErrNoActiveGame and ErrNotYourTurn reject the request
// without touching the session; every other outcome mutates it.
func (s *Session) Apply(a Action) (Outcome, error) {
	if !s.Active {
		return Outcome{}, ErrNoActiveGame
	}
	if a.Seat != s.Turn {
		return Outcome{}, ErrNotYourTurn
	}

	var out Outcome
	switch a.Kind {
	case ActionPlay:
		out = s.play(a.Seat, a.Cards, a.Declared)
	default:
		out = s.pass(a.Seat)
	}
	s.repairTurn()
	out.NextTurn = s.Turn
	out.FinishedOrder = s.Order()
	out.GameOver = !s.Active
	return out, nil
}

// Force performs the fallback action for seat: lead the lowest card when no combination
// is open, pass otherwise.
func (s *Session) Force(seat int) (Outcome, error) {
	if !s.Active {
		return Outcome{}, ErrNoActiveGame
	}
	if seat != s.Turn {
		return Outcome{}, ErrNotYourTurn
	}

	var out Outcome
	if s.Last == nil {
		out = s.playLowest(seat)
	} else {
		out = s.pass(seat)
	}
	out.Forced = true
	s.repairTurn()
	out.NextTurn = s.Turn
	out.FinishedOrder = s.Order()
	out.GameOver = !s.Active
	return out, nil
}

func (s *Session) play(seat int, requested []models.Card, declared combo.Type) Outcome {
	idx, ok := s.resolve(seat, requested)
	if !ok {
		return s.recover(seat)
	}
	cards := make([]models.Card, len(idx))
	for i, j := range idx {
		cards[i] = s.Hands[seat][j]
	}

	var prev *combo.Combination
	if s.Last != nil {
		prev = &s.Last.Combination
	}
	c, ok := combo.Beating(cards, declared, prev)
	if !ok {
		return s.recover(seat)
	}
	return s.commit(seat, idx, c)
}

// recover turns a rejected play into a pass, or into the lowest-card lead when passing
// is not allowed.
func (s *Session) recover(seat int) Outcome {
	var out Outcome
	if s.Last == nil {
		out = s.playLowest(seat)
	} else {
		out = s.pass(seat)
	}
	out.Recovered = ErrInvalidCombination
	return out
}

func (s *Session) pass(seat int) Outcome {
	if s.Last == nil {
		out := s.playLowest(seat)
		out.Recovered = ErrIllegalPass
		return out
	}

	s.PassCount++
	out := Outcome{Seat: seat, Kind: ActionPass}

	needed := s.ActiveCount()
	if !s.IsFinished(s.Last.Owner) {
		needed--
	}
	if s.PassCount >= needed {
		owner := s.Last.Owner
		s.Last = nil
		s.PassCount = 0
		s.Turn = s.relayFrom(owner)
		out.RoundClosed = true
		return out
	}
	s.Turn = s.nextActive(seat)
	return out
}

func (s *Session) playLowest(seat int) Outcome {
	hand := s.Hands[seat]
	if len(hand) == 0 {
		// A seat holding the turn with no cards means the bookkeeping is broken.
		s.log.WithField("seat", seat).Warn("forced lead from an empty hand")
		s.Turn = s.nextActive(seat)
		return Outcome{Seat: seat, Kind: ActionPass}
	}
	low := 0
	for i, c := range hand {
		if c.Power() < hand[low].Power() {
			low = i
		}
	}
	c := combo.Classify([]models.Card{hand[low]})
	return s.commit(seat, []int{low}, c)
}

// commit removes the cards at idx from seat's hand and makes c the open combination.
func (s *Session) commit(seat int, idx []int, c combo.Combination) Outcome {
	hand := s.Hands[seat]
	take := make(map[int]bool, len(idx))
	for _, i := range idx {
		take[i] = true
	}
	played := make([]models.Card, 0, len(idx))
	kept := make([]models.Card, 0, len(hand)-len(idx))
	for i, card := range hand {
		if take[i] {
			played = append(played, card)
		} else {
			kept = append(kept, card)
		}
	}
	s.Hands[seat] = kept
	s.CardsPlayed += len(played)
	s.Last = &LastPlay{Owner: seat, Combination: c}
	s.PassCount = 0

	out := Outcome{Seat: seat, Kind: ActionPlay, Cards: played, Combination: &c}

	if len(kept) == 0 {
		s.FinishedOrder = append(s.FinishedOrder, seat)
		if s.checkEnd() {
			return out
		}
	}
	s.Turn = s.nextActive(seat)
	return out
}

// resolve maps requested cards onto distinct indexes of seat's hand, by id first and by
// suit and rank when the id is unknown.
func (s *Session) resolve(seat int, requested []models.Card) ([]int, bool) {
	if len(requested) == 0 {
		return nil, false
	}
	hand := s.Hands[seat]
	used := make(map[int]bool, len(requested))
	idx := make([]int, 0, len(requested))
	for _, r := range requested {
		found := -1
		for i, c := range hand {
			if !used[i] && c.ID == r.ID {
				found = i
				break
			}
		}
		if found < 0 {
			for i, c := range hand {
				if !used[i] && c.SameFace(r) {
					found = i
					break
				}
			}
		}
		if found < 0 {
			return nil, false
		}
		used[found] = true
		idx = append(idx, found)
	}
	return idx, true
}

// checkEnd closes the session once a team has both seats out or at most one seat still
// holds cards. The remaining seats are ranked by cards left, then by seat index.
func (s *Session) checkEnd() bool {
	teamDone := false
	for seat := 0; seat < 2; seat++ {
		if s.IsFinished(seat) && s.IsFinished(Teammate(seat)) {
			teamDone = true
		}
	}
	if !teamDone && s.ActiveCount() > 1 {
		return false
	}

	var rest []int
	for seat := 0; seat < NumSeats; seat++ {
		if !s.IsFinished(seat) {
			rest = append(rest, seat)
		}
	}
	sort.SliceStable(rest, func(i, j int) bool {
		a, b := len(s.Hands[rest[i]]), len(s.Hands[rest[j]])
		if a != b {
			return a < b
		}
		return rest[i] < rest[j]
	})
	s.FinishedOrder = append(s.FinishedOrder, rest...)

	s.Active = false
	s.Turn = NoTurn
	s.Last = nil
	s.PassCount = 0
	return true
}

// nextActive is the first unfinished seat after seat in rotation.
func (s *Session) nextActive(seat int) int {
	for i := 1; i <= NumSeats; i++ {
		next := (seat + i) % NumSeats
		if !s.IsFinished(next) {
			return next
		}
	}
	return NoTurn
}

// relayFrom picks who leads after owner's round closes.
func (s *Session) relayFrom(owner int) int {
	if !s.IsFinished(owner) {
		return owner
	}
	if mate := Teammate(owner); !s.IsFinished(mate) {
		return mate
	}
	return s.nextActive(owner)
}

func (s *Session) repairTurn() {
	if !s.Active {
		return
	}
	if s.Turn >= 0 && s.Turn < NumSeats && !s.IsFinished(s.Turn) {
		return
	}
	from := s.Turn
	if from < 0 || from >= NumSeats {
		from = NumSeats - 1
	}
	fixed := s.nextActive(from)
	s.log.WithFields(logrus.Fields{"turn": s.Turn, "repaired": fixed}).Warn("turn pointed at a finished or missing seat")
	s.Turn = fixed
}

// Snapshot captures the session for persistence.
func (s *Session) Snapshot() *models.SessionSnapshot {
	snap := &models.SessionSnapshot{
		Active:        s.Active,
		Turn:          s.Turn,
		PassCount:     s.PassCount,
		FinishedOrder: s.Order(),
		CardsPlayed:   s.CardsPlayed,
	}
	for i := range s.Hands {
		snap.Hands[i] = s.Hand(i)
	}
	if s.Last != nil {
		snap.LastCombination = &models.CombinationSnapshot{
			Owner: s.Last.Owner,
			Type:  s.Last.Type.String(),
			Rank:  s.Last.Rank,
			Count: s.Last.Count,
			Power: s.Last.Power,
		}
	}
	return snap
}

// RestoreSession rebuilds a session from a snapshot and re-checks the turn pointer.
func RestoreSession(snap *models.SessionSnapshot, log *logrus.Entry) *Session {
	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}
	s := &Session{
		Active:        snap.Active,
		Turn:          snap.Turn,
		PassCount:     snap.PassCount,
		FinishedOrder: append([]int{}, snap.FinishedOrder...),
		CardsPlayed:   snap.CardsPlayed,
		log:           log,
	}
	for i := range snap.Hands {
		s.Hands[i] = append([]models.Card{}, snap.Hands[i]...)
	}
	if lc := snap.LastCombination; lc != nil {
		s.Last = &LastPlay{
			Owner: lc.Owner,
			Combination: combo.Combination{
				Type:  combo.ParseType(lc.Type),
				Rank:  lc.Rank,
				Count: lc.Count,
				Power: lc.Power,
			},
		}
		if !s.Last.Valid() {
			s.Last = nil
			s.PassCount = 0
		}
	}
	if s.CardsPlayed == 0 {
		s.CardsPlayed = DeckSize - s.handTotal()
	}
	s.repairTurn()
	return s
}

func (s *Session) handTotal() int {
	n := 0
	for _, h := range s.Hands {
		n += len(h)
	}
	return n
}
