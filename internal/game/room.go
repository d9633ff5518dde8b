// internal/game/room.go
package game

import (
	"context"
	"math/rand"
	"time"

	"github.com/Crayxus/crayxus-game/internal/models"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// NoSeat is returned alongside join errors.
const NoSeat = -1

const (
	defaultBotTurnDelay     = 2 * time.Second
	defaultHumanTurnTimeout = 30 * time.Second
	roomQueueSize           = 64
	scoreTimeout            = 5 * time.Second
)

// Conn is the room's view of a connected client. Send must not block; a client that
// cannot keep up loses messages rather than stalling the room.
type Conn interface {
	PlayerID() uuid.UUID
	Send(ev GameEvent) bool
}

// RoomConfig holds the timings every room in a store shares.
type RoomConfig struct {
	BotTurnDelay     time.Duration
	HumanTurnTimeout time.Duration
	// AutoStartHumans deals automatically once this many humans are seated. Zero disables it.
	AutoStartHumans int
}

func DefaultRoomConfig() RoomConfig {
	return RoomConfig{
		BotTurnDelay:     defaultBotTurnDelay,
		HumanTurnTimeout: defaultHumanTurnTimeout,
	}
}

type seat struct {
	occupant string
	// playerID survives a switch to bot so the seat can be scored and reclaimed.
	playerID uuid.UUID
	conn     Conn
}

// RoomView is a read-only copy of a room's public state.
type RoomView struct {
	Code       string
	Seats      [NumSeats]string
	PlayerIDs  [NumSeats]uuid.UUID
	HumanCount int
	Host       int
	Phase      Phase
	Turn       int
	GameCount  int
	InGame     bool
}

// Room owns one table. All state below the channel fields belongs to the run goroutine;
// every exported method hands a closure to it and waits.
type Room struct {
	Code string

	cfg     RoomConfig
	ledger  ScoreLedger
	log     *logrus.Entry
	rng     *rand.Rand
	onClose func(code string)

	events  chan func()
	stopped chan struct{}
	closing bool

	seats             [NumSeats]seat
	session           *Session
	phase             Phase
	gameCount         int
	lastFinishedOrder []int
	timer             *time.Timer
	turnID            int
}

func newRoom(code string, cfg RoomConfig, ledger ScoreLedger, log *logrus.Entry, onClose func(string)) *Room {
	r := &Room{
		Code:              code,
		cfg:               cfg,
		ledger:            ledger,
		log:               log.WithField("room", code),
		rng:               rand.New(rand.NewSource(time.Now().UnixNano())),
		onClose:           onClose,
		events:            make(chan func(), roomQueueSize),
		stopped:           make(chan struct{}),
		lastFinishedOrder: []int{},
	}
	for i := range r.seats {
		r.seats[i].occupant = models.OccupantEmpty
	}
	return r
}

func (r *Room) start() {
	go r.run()
}

func (r *Room) run() {
	for fn := range r.events {
		fn()
		if r.closing {
			r.stopTimer()
			close(r.stopped)
			r.log.Info("room closed")
			return
		}
	}
}

// do runs fn on the room goroutine and waits for it to finish.
func (r *Room) do(fn func()) error {
	done := make(chan struct{})
	select {
	case r.events <- func() { fn(); close(done) }:
	case <-r.stopped:
		return ErrRoomClosed
	}
	select {
	case <-done:
		return nil
	case <-r.stopped:
		select {
		case <-done:
			return nil
		default:
			return ErrRoomClosed
		}
	}
}

// post queues fn without waiting. Used by timers, which must never run room code
// on their own goroutine.
func (r *Room) post(fn func()) {
	select {
	case r.events <- fn:
	case <-r.stopped:
	}
}

// Done is closed once the room has shut down.
func (r *Room) Done() <-chan struct{} {
	return r.stopped
}

// Close stops the room without touching the registry.
func (r *Room) Close() {
	_ = r.do(func() { r.closing = true })
}

func (r *Room) score(ctx context.Context, playerID uuid.UUID) int {
	if r.ledger == nil || playerID == uuid.Nil {
		return 0
	}
	s, err := r.ledger.Score(ctx, playerID)
	if err != nil {
		r.log.WithError(err).WithField("player", playerID).Warn("could not load score")
		return 0
	}
	return s
}

// Join seats conn in the first free seat, or in the seat its player left behind.
func (r *Room) Join(ctx context.Context, conn Conn) (int, error) {
	score := r.score(ctx, conn.PlayerID())
	seatIdx, err := NoSeat, error(nil)
	if derr := r.do(func() { seatIdx, err = r.join(conn, score) }); derr != nil {
		return NoSeat, derr
	}
	return seatIdx, err
}

// Rejoin puts conn back into a specific seat that a bot is holding.
func (r *Room) Rejoin(ctx context.Context, conn Conn, seatIdx int) error {
	score := r.score(ctx, conn.PlayerID())
	var err error
	if derr := r.do(func() { err = r.rejoin(conn, seatIdx, score) }); derr != nil {
		return derr
	}
	return err
}

// Leave handles a closed connection.
func (r *Room) Leave(conn Conn) {
	_ = r.do(func() { r.leave(conn) })
}

// StartMatch deals a new game. Only the host may call it.
func (r *Room) StartMatch(conn Conn) error {
	var err error
	if derr := r.do(func() { err = r.startMatch(conn) }); derr != nil {
		return derr
	}
	return err
}

// Act submits a play or pass for conn's seat.
func (r *Room) Act(conn Conn, a Action) error {
	var err error
	if derr := r.do(func() { err = r.act(conn, a) }); derr != nil {
		return derr
	}
	return err
}

// Resync sends conn the full state of its seat.
func (r *Room) Resync(conn Conn) error {
	var err error
	if derr := r.do(func() {
		i := r.seatOf(conn)
		if i < 0 {
			err = ErrNotSeated
			return
		}
		conn.Send(r.resyncEvent(i))
	}); derr != nil {
		return derr
	}
	return err
}

// View returns a copy of the room's public state.
func (r *Room) View() (RoomView, error) {
	var v RoomView
	err := r.do(func() { v = r.view() })
	return v, err
}

// Snapshot captures the room for crash recovery. It returns nil when no game is running.
func (r *Room) Snapshot() (*models.RoomSnapshot, error) {
	var snap *models.RoomSnapshot
	err := r.do(func() { snap = r.snapshot() })
	return snap, err
}

func (r *Room) view() RoomView {
	v := RoomView{
		Code:       r.Code,
		HumanCount: r.humanCount(),
		Host:       r.hostSeat(),
		Phase:      r.phase,
		Turn:       NoTurn,
		GameCount:  r.gameCount,
		InGame:     r.inGame(),
	}
	for i, st := range r.seats {
		v.Seats[i] = st.occupant
		v.PlayerIDs[i] = st.playerID
	}
	if r.session != nil {
		v.Turn = r.session.Turn
	}
	return v
}

func (r *Room) inGame() bool {
	return r.session != nil && r.session.Active
}

func (r *Room) humanCount() int {
	n := 0
	for _, st := range r.seats {
		if st.occupant == models.OccupantHuman {
			n++
		}
	}
	return n
}

// hostSeat is the lowest-index human seat, or NoSeat.
func (r *Room) hostSeat() int {
	for i, st := range r.seats {
		if st.occupant == models.OccupantHuman {
			return i
		}
	}
	return NoSeat
}

func (r *Room) seatOf(conn Conn) int {
	for i, st := range r.seats {
		if st.occupant == models.OccupantHuman && st.conn == conn {
			return i
		}
	}
	return NoSeat
}

func (r *Room) join(conn Conn, score int) (int, error) {
	if i := r.seatOf(conn); i >= 0 {
		r.sendIdentity(i, score)
		return i, nil
	}

	if r.humanCount() == 0 && !r.inGame() {
		for i := range r.seats {
			if r.seats[i].occupant != models.OccupantEmpty {
				r.log.Info("resetting stale seats")
				r.resetSeats()
				break
			}
		}
	}

	pid := conn.PlayerID()
	if pid != uuid.Nil {
		for i, st := range r.seats {
			if st.occupant != models.OccupantEmpty && st.playerID == pid {
				r.takeSeat(i, conn, score, r.inGame())
				return i, nil
			}
		}
	}

	target := NoSeat
	for i, st := range r.seats {
		if st.occupant == models.OccupantEmpty {
			target = i
			break
		}
	}
	if target < 0 && !r.inGame() {
		for i, st := range r.seats {
			if st.occupant == models.OccupantBot {
				target = i
				break
			}
		}
	}
	if target < 0 {
		return NoSeat, ErrRoomFull
	}

	r.takeSeat(target, conn, score, false)
	r.maybeAutoStart()
	return target, nil
}

func (r *Room) rejoin(conn Conn, i, score int) error {
	if i < 0 || i >= NumSeats {
		return ErrInvalidSeat
	}
	st := r.seats[i]
	switch st.occupant {
	case models.OccupantHuman:
		if st.conn != conn && st.playerID != conn.PlayerID() {
			return ErrSeatTaken
		}
	case models.OccupantEmpty:
		if r.inGame() {
			return ErrSeatTaken
		}
	}
	if prev := r.seatOf(conn); prev >= 0 && prev != i {
		r.release(prev)
	}
	r.takeSeat(i, conn, score, true)
	return nil
}

// takeSeat makes conn the human occupant of seat i and tells everyone.
func (r *Room) takeSeat(i int, conn Conn, score int, resync bool) {
	r.seats[i] = seat{
		occupant: models.OccupantHuman,
		playerID: conn.PlayerID(),
		conn:     conn,
	}
	r.log.WithFields(logrus.Fields{"seat": i, "player": conn.PlayerID()}).Info("seat taken")

	r.sendIdentity(i, score)
	if resync {
		conn.Send(r.resyncEvent(i))
	}
	r.broadcastRoomUpdate()
	if r.inGame() && r.session.Turn == i {
		// The seat was on a short bot timer; give the human the full timeout.
		r.armTimer()
	}
}

// release gives up seat i: to a bot while a game runs, to nobody otherwise.
func (r *Room) release(i int) {
	if r.inGame() {
		r.seats[i].occupant = models.OccupantBot
		r.seats[i].conn = nil
		if r.session.Turn == i {
			r.armTimer()
		}
		return
	}
	r.seats[i] = seat{occupant: models.OccupantEmpty}
}

func (r *Room) leave(conn Conn) {
	i := r.seatOf(conn)
	if i < 0 {
		return
	}
	r.log.WithFields(logrus.Fields{"seat": i, "player": conn.PlayerID(), "inGame": r.inGame()}).Info("seat released")
	r.release(i)
	r.broadcast(GameEvent{Type: EventPlayerLeft, Payload: PlayerLeftPayload{Seat: i, Occupant: r.seats[i].occupant}})
	r.broadcastRoomUpdate()
	if r.humanCount() == 0 && !r.inGame() {
		r.teardown()
	}
}

func (r *Room) resetSeats() {
	for i := range r.seats {
		r.seats[i] = seat{occupant: models.OccupantEmpty}
	}
}

func (r *Room) teardown() {
	r.closing = true
	r.stopTimer()
	if r.onClose != nil {
		r.onClose(r.Code)
	}
}

func (r *Room) maybeAutoStart() {
	if r.cfg.AutoStartHumans <= 0 || r.inGame() {
		return
	}
	if r.humanCount() >= r.cfg.AutoStartHumans {
		r.log.WithField("humans", r.humanCount()).Info("auto-starting match")
		r.deal()
	}
}

func (r *Room) startMatch(conn Conn) error {
	i := r.seatOf(conn)
	if i < 0 {
		return ErrNotSeated
	}
	if r.inGame() {
		return ErrGameInProgress
	}
	if i != r.hostSeat() {
		return ErrNotHost
	}
	r.deal()
	return nil
}

// deal fills empty seats with bots, deals a fresh deck and arms the first timer.
func (r *Room) deal() {
	bots := []int{}
	for i := range r.seats {
		if r.seats[i].occupant == models.OccupantEmpty {
			r.seats[i] = seat{occupant: models.OccupantBot}
		}
		if r.seats[i].occupant == models.OccupantBot {
			bots = append(bots, i)
		}
	}

	hands := Deal(NewDeck(r.rng))
	leader := r.gameCount % NumSeats
	r.gameCount++
	r.session = NewSession(hands, leader, r.log)
	r.phase = PhaseDealt

	r.log.WithFields(logrus.Fields{"game": r.gameCount, "leader": leader, "bots": bots}).Info("match dealt")

	for i, st := range r.seats {
		if st.occupant == models.OccupantHuman {
			st.conn.Send(GameEvent{Type: EventDealCards, Payload: DealCardsPayload{Cards: r.session.Hand(i)}})
		}
	}
	r.broadcast(GameEvent{Type: EventGameStart, Payload: GameStartPayload{StartTurn: r.session.Turn, BotSeats: bots}})
	r.broadcastRoomUpdate()
	r.armTimer()
}

func (r *Room) act(conn Conn, a Action) error {
	if !r.inGame() {
		return ErrNoActiveGame
	}
	i := r.seatOf(conn)
	if i < 0 || i != a.Seat {
		conn.Send(r.turnCorrection())
		return ErrNotYourTurn
	}
	out, err := r.session.Apply(a)
	if err != nil {
		conn.Send(r.turnCorrection())
		return err
	}
	if out.Recovered != nil {
		conn.Send(ErrorEvent(out.Recovered))
	}
	r.applyOutcome(out)
	return nil
}

func (r *Room) applyOutcome(out Outcome) {
	r.phase = PhasePlaying
	r.log.WithFields(logrus.Fields{
		"seat":   out.Seat,
		"action": out.Kind,
		"cards":  len(out.Cards),
		"next":   out.NextTurn,
		"forced": out.Forced,
	}).Debug("action applied")

	r.broadcast(syncActionEvent(out))
	if out.GameOver {
		r.finishGame()
		return
	}
	r.armTimer()
}

func (r *Room) finishGame() {
	r.stopTimer()
	order := r.session.Order()
	r.lastFinishedOrder = order
	r.phase = PhaseFinished

	deltas := ScoreDeltas(order)
	var players [NumSeats]uuid.UUID
	for i, st := range r.seats {
		players[i] = st.playerID
	}
	r.log.WithFields(logrus.Fields{"order": order, "deltas": deltas}).Info("game over")
	r.broadcast(GameEvent{Type: EventGameOver, Payload: GameOverPayload{FinishedOrder: order, Deltas: deltas}})
	go r.recordScores(players, deltas)

	if r.humanCount() == 0 {
		r.teardown()
	}
}

func (r *Room) recordScores(players [NumSeats]uuid.UUID, deltas [NumSeats]int) {
	if r.ledger == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), scoreTimeout)
	defer cancel()
	for i, pid := range players {
		if pid == uuid.Nil {
			continue
		}
		if _, err := r.ledger.Add(ctx, pid, deltas[i]); err != nil {
			r.log.WithError(err).WithField("player", pid).Error("failed to record score")
		}
	}
}

// armTimer replaces the forced-action timer for whoever holds the turn.
func (r *Room) armTimer() {
	r.stopTimer()
	if !r.inGame() {
		return
	}
	r.turnID++
	seatIdx, turnID := r.session.Turn, r.turnID
	delay := r.cfg.BotTurnDelay
	if r.seats[seatIdx].occupant == models.OccupantHuman {
		delay = r.cfg.HumanTurnTimeout
	}
	r.timer = time.AfterFunc(delay, func() {
		r.post(func() { r.onTimer(seatIdx, turnID) })
	})
}

func (r *Room) stopTimer() {
	if r.timer != nil {
		r.timer.Stop()
		r.timer = nil
	}
}

func (r *Room) onTimer(seatIdx, turnID int) {
	if !r.inGame() || turnID != r.turnID || r.session.Turn != seatIdx {
		r.log.WithFields(logrus.Fields{"seat": seatIdx, "turnID": turnID, "current": r.turnID}).Debug("stale turn timer")
		return
	}
	out, err := r.session.Force(seatIdx)
	if err != nil {
		r.log.WithError(err).Warn("forced action rejected")
		return
	}
	r.applyOutcome(out)
}

func (r *Room) sendIdentity(i, score int) {
	st := r.seats[i]
	if st.conn == nil {
		return
	}
	st.conn.Send(GameEvent{Type: EventIdentity, Payload: IdentityPayload{
		Seat:     i,
		Score:    score,
		IsHost:   r.hostSeat() == i,
		RoomCode: r.Code,
	}})
}

func (r *Room) resyncEvent(i int) GameEvent {
	return GameEvent{Type: EventResyncState, Payload: ResyncFor(r.session, i)}
}

func (r *Room) turnCorrection() GameEvent {
	p := TurnCorrectionPayload{ServerTurn: NoTurn, FinishedOrder: []int{}}
	if r.session != nil {
		p.ServerTurn = r.session.Turn
		p.FinishedOrder = r.session.Order()
		if r.session.Last != nil {
			last := *r.session.Last
			p.LastCombination = &last
		}
	}
	return GameEvent{Type: EventTurnCorrection, Payload: p}
}

func (r *Room) broadcastRoomUpdate() {
	p := RoomUpdatePayload{HumanCount: r.humanCount(), Host: r.hostSeat()}
	for i, st := range r.seats {
		p.Seats[i] = st.occupant
	}
	r.broadcast(GameEvent{Type: EventRoomUpdate, Payload: p})
}

func (r *Room) broadcast(ev GameEvent) {
	for i, st := range r.seats {
		if st.occupant != models.OccupantHuman || st.conn == nil {
			continue
		}
		if !st.conn.Send(ev) {
			r.log.WithFields(logrus.Fields{"seat": i, "type": ev.Type}).Warn("dropped outbound event")
		}
	}
}
