package service

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"sudokuarena/internal/model"
	"sudokuarena/internal/repository"
	"sudokuarena/internal/sudoku"
)

var (
	ErrRoomNotFound    = errors.New("room not found")
	ErrRoomNotJoinable = errors.New("room not found or already started")
	ErrRoomFull        = errors.New("room is full")
	ErrRoomNotWaiting  = errors.New("room has already started")
	ErrRoomNotActive   = errors.New("room is not active")
	ErrForbidden       = errors.New("forbidden")
	ErrHostNotFound    = errors.New("host user not found")
	ErrPlayerNotFound  = errors.New("player not in room")
	ErrCannotKickSelf  = errors.New("host cannot kick themselves")
)

// Real-time event names shared by the services and the ws transport.
const (
	EventRoomUpdate     = "room:update"
	EventGameStart      = "game:start"
	EventGameProgress   = "game:progress"
	EventRematchCreated = "rematch:created"
	EventKicked         = "room:you_were_kicked"
)

// ProgressValidator inspects a client-reported completion percentage before
// it is stored on the player. The default trusts the report, clamped to
// 0-100; a stricter deployment can recompute from the authoritative grid
// without changing the wire contract.
type ProgressValidator func(room *model.Room, userID string, progress int) int

func clampProgress(_ *model.Room, _ string, progress int) int {
	if progress < 0 {
		return 0
	}
	if progress > 100 {
		return 100
	}
	return progress
}

// RoomService owns the room lifecycle: creation and join codes, the
// waiting -> active -> finished state machine, per-cell moves, win
// validation, placements and rematches.
//
// Every read-mutate-write sequence runs inside a per-room exclusive section
// (lockRoom), so two concurrent mutations of the same room cannot lose
// updates while unrelated rooms proceed in parallel. Broadcasts are emitted
// inside that section, which keeps room:update delivery in commit order.
type RoomService struct {
	roomRepo    repository.RoomRepo
	userRepo    repository.UserRepo
	users       *UserService
	broadcaster Broadcaster

	locks sync.Map // room id -> *sync.Mutex

	// rematch maps a finished room to its replacement so that every
	// player's play-again request converges on one new room. Entries are
	// pruned when either side of the mapping is deleted.
	rematchMu sync.Mutex
	rematch   map[string]string

	ValidateProgress ProgressValidator
}

func NewRoomService(roomRepo repository.RoomRepo, userRepo repository.UserRepo, users *UserService) *RoomService {
	return &RoomService{
		roomRepo:         roomRepo,
		userRepo:         userRepo,
		users:            users,
		broadcaster:      noopBroadcaster{},
		rematch:          make(map[string]string),
		ValidateProgress: clampProgress,
	}
}

// SetBroadcaster injects the real-time channel (the ws hub).
func (s *RoomService) SetBroadcaster(b Broadcaster) {
	s.broadcaster = b
}

// lockRoom enters the room's exclusive section and returns the leave func.
func (s *RoomService) lockRoom(id string) func() {
	v, _ := s.locks.LoadOrStore(id, &sync.Mutex{})
	mu := v.(*sync.Mutex)
	mu.Lock()
	return mu.Unlock
}

// CreateRoom creates a waiting room with the host as its only player. The
// host starts ready; everyone else readies up explicitly.
func (s *RoomService) CreateRoom(ctx context.Context, hostID string, difficulty model.Difficulty, puzzle, solution sudoku.Grid, maxPlayers int) (*model.Room, error) {
	host, err := s.userRepo.GetByID(ctx, hostID)
	if err != nil {
		return nil, err
	}
	if host == nil {
		return nil, ErrHostNotFound
	}
	if maxPlayers <= 0 {
		maxPlayers = 2
	}

	code, err := s.generateCode(ctx)
	if err != nil {
		return nil, err
	}

	room := &model.Room{
		ID:            "room_" + uuid.New().String()[:8],
		Code:          code,
		HostID:        host.ID,
		Difficulty:    difficulty,
		Puzzle:        puzzle.Clone(),
		InitialPuzzle: puzzle.Clone(),
		Solution:      solution.Clone(),
		MaxPlayers:    maxPlayers,
		Players:       []*model.Player{newPlayer(host, true)},
		Grids:         map[string]sudoku.Grid{host.ID: puzzle.Clone()},
		Status:        model.RoomWaiting,
		CreatedAt:     time.Now(),
	}
	if err := s.roomRepo.Create(ctx, room); err != nil {
		return nil, err
	}
	return room, nil
}

// CreateChallengeRoom creates a two-player waiting room for an accepted
// challenge, with both users already seated.
func (s *RoomService) CreateChallengeRoom(ctx context.Context, hostID, opponentID string, difficulty model.Difficulty, puzzle, solution sudoku.Grid) (*model.Room, error) {
	room, err := s.CreateRoom(ctx, hostID, difficulty, puzzle, solution, 2)
	if err != nil {
		return nil, err
	}

	unlock := s.lockRoom(room.ID)
	defer unlock()

	opponent, err := s.userRepo.GetByID(ctx, opponentID)
	if err != nil {
		return nil, err
	}
	if opponent == nil {
		return nil, ErrUserNotFound
	}
	room.Players = append(room.Players, newPlayer(opponent, false))
	room.Grids[opponent.ID] = room.InitialPuzzle.Clone()
	if err := s.roomRepo.Update(ctx, room); err != nil {
		return nil, err
	}
	return room, nil
}

// GetRoom returns the room by id.
func (s *RoomService) GetRoom(ctx context.Context, id string) (*model.Room, error) {
	room, err := s.roomRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if room == nil {
		return nil, ErrRoomNotFound
	}
	return room, nil
}

// JoinByCode seats a user in the waiting room with the given code. Joining
// a room the user is already in is a no-op returning the current room. Late
// joiners get a fresh grid seeded from the starting clues, never another
// player's working grid.
func (s *RoomService) JoinByCode(ctx context.Context, code, userID string) (*model.Room, error) {
	probe, err := s.roomRepo.GetJoinableByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	if probe == nil {
		return nil, ErrRoomNotJoinable
	}

	unlock := s.lockRoom(probe.ID)
	defer unlock()

	// Re-read under the lock; the room may have started or filled since.
	room, err := s.roomRepo.GetByID(ctx, probe.ID)
	if err != nil {
		return nil, err
	}
	if room == nil || room.Status != model.RoomWaiting {
		return nil, ErrRoomNotJoinable
	}
	if room.PlayerByID(userID) != nil {
		return room, nil
	}
	if len(room.Players) >= room.MaxPlayers {
		return nil, ErrRoomFull
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	room.Players = append(room.Players, newPlayer(user, false))
	room.Grids[userID] = room.InitialPuzzle.Clone()
	if err := s.roomRepo.Update(ctx, room); err != nil {
		return nil, err
	}
	s.broadcaster.BroadcastToRoom(room.ID, EventRoomUpdate, room)
	return room, nil
}

// SetReady toggles the player's own ready flag while the room is waiting.
func (s *RoomService) SetReady(ctx context.Context, roomID, userID string, ready bool) error {
	unlock := s.lockRoom(roomID)
	defer unlock()

	room, err := s.roomRepo.GetByID(ctx, roomID)
	if err != nil {
		return err
	}
	if room == nil {
		return ErrRoomNotFound
	}
	if room.Status != model.RoomWaiting {
		return ErrRoomNotWaiting
	}
	player := room.PlayerByID(userID)
	if player == nil {
		return ErrPlayerNotFound
	}
	player.IsReady = ready
	if err := s.roomRepo.Update(ctx, room); err != nil {
		return err
	}
	s.broadcaster.BroadcastToRoom(room.ID, EventRoomUpdate, room)
	return nil
}

// Start moves the room from waiting to active. Host only.
func (s *RoomService) Start(ctx context.Context, roomID, userID string) error {
	unlock := s.lockRoom(roomID)
	defer unlock()

	room, err := s.roomRepo.GetByID(ctx, roomID)
	if err != nil {
		return err
	}
	if room == nil {
		return ErrRoomNotFound
	}
	if room.HostID != userID {
		return ErrForbidden
	}
	if room.Status != model.RoomWaiting {
		return ErrRoomNotWaiting
	}

	now := time.Now()
	room.Status = model.RoomActive
	room.StartedAt = &now
	if err := s.roomRepo.Update(ctx, room); err != nil {
		return err
	}
	s.broadcaster.BroadcastToRoom(room.ID, EventRoomUpdate, room)
	s.broadcaster.BroadcastToRoom(room.ID, EventGameStart, room)
	return nil
}

// ApplyMove writes one cell of the player's private grid. No validation
// happens here; correctness is checked only on an explicit win claim, which
// keeps move latency minimal.
func (s *RoomService) ApplyMove(ctx context.Context, roomID, userID string, row, col, value int) error {
	unlock := s.lockRoom(roomID)
	defer unlock()

	room, err := s.roomRepo.GetByID(ctx, roomID)
	if err != nil {
		return err
	}
	if room == nil {
		return ErrRoomNotFound
	}
	if room.Status != model.RoomActive {
		return ErrRoomNotActive
	}
	grid, ok := room.Grids[userID]
	if !ok {
		return ErrPlayerNotFound
	}
	if !grid.InBounds(row, col) || value < 0 || value > sudoku.Size {
		return fmt.Errorf("move out of range: r=%d c=%d v=%d", row, col, value)
	}
	grid[row][col] = value
	return s.roomRepo.Update(ctx, room)
}

// UpdateProgress stores a client-reported completion percentage and fans a
// lightweight players-only delta out to the room.
func (s *RoomService) UpdateProgress(ctx context.Context, roomID, userID string, progress int) error {
	unlock := s.lockRoom(roomID)
	defer unlock()

	room, err := s.roomRepo.GetByID(ctx, roomID)
	if err != nil {
		return err
	}
	if room == nil {
		return ErrRoomNotFound
	}
	player := room.PlayerByID(userID)
	if player == nil {
		return ErrPlayerNotFound
	}
	player.Progress = s.ValidateProgress(room, userID, progress)
	if err := s.roomRepo.Update(ctx, room); err != nil {
		return err
	}
	s.broadcaster.BroadcastToRoom(room.ID, EventGameProgress, struct {
		Players []*model.Player `json:"players"`
	}{room.Players})
	return nil
}

// ReportProgress is the request-response variant: progress plus elapsed time,
// optionally flagging the player finished.
func (s *RoomService) ReportProgress(ctx context.Context, roomID, userID string, progress, timeElapsed int, finished bool) error {
	unlock := s.lockRoom(roomID)
	defer unlock()

	room, err := s.roomRepo.GetByID(ctx, roomID)
	if err != nil {
		return err
	}
	if room == nil {
		return ErrRoomNotFound
	}
	player := room.PlayerByID(userID)
	if player == nil {
		return ErrPlayerNotFound
	}

	player.Progress = s.ValidateProgress(room, userID, progress)
	player.TimeElapsed = timeElapsed
	if finished {
		player.Finished = true
		if player.TimeFinished == 0 {
			player.TimeFinished = timeElapsed
		}
	}
	s.finishIfAllDone(room)

	if err := s.roomRepo.Update(ctx, room); err != nil {
		return err
	}
	s.broadcaster.BroadcastToRoom(room.ID, EventRoomUpdate, room)
	return nil
}

// ValidateWin checks the player's grid against the authoritative solution.
// An incorrect claim is ignored without an error so a probing client learns
// nothing; the player simply stays unfinished.
func (s *RoomService) ValidateWin(ctx context.Context, roomID, userID string, timeSeconds int) error {
	unlock := s.lockRoom(roomID)
	defer unlock()

	room, err := s.roomRepo.GetByID(ctx, roomID)
	if err != nil {
		return err
	}
	if room == nil {
		return ErrRoomNotFound
	}
	if room.Status != model.RoomActive {
		return nil
	}
	player := room.PlayerByID(userID)
	if player == nil || player.Finished {
		return nil
	}
	grid, ok := room.Grids[userID]
	if !ok || !grid.Matches(room.Solution) {
		log.Debug().Str("room", roomID).Str("user", userID).Msg("win claim rejected")
		return nil
	}

	player.Finished = true
	player.TimeFinished = timeSeconds
	s.finishIfAllDone(room)

	if err := s.roomRepo.Update(ctx, room); err != nil {
		return err
	}
	s.broadcaster.BroadcastToRoom(room.ID, EventRoomUpdate, room)
	return nil
}

// Leave removes the player. An empty room is deleted. If an active room is
// left with exactly one player, that player is declared the winner and
// rewarded; this is the only path to a finished room without a full solve.
func (s *RoomService) Leave(ctx context.Context, roomID, userID string) error {
	deleted, err := s.leave(ctx, roomID, userID)
	if err != nil {
		return err
	}
	if deleted {
		s.forgetRoom(roomID)
	}
	return nil
}

func (s *RoomService) leave(ctx context.Context, roomID, userID string) (deleted bool, err error) {
	unlock := s.lockRoom(roomID)
	defer unlock()

	room, err := s.roomRepo.GetByID(ctx, roomID)
	if err != nil {
		return false, err
	}
	if room == nil {
		return false, ErrRoomNotFound
	}
	if room.PlayerByID(userID) == nil {
		return false, nil
	}

	wasActive := room.Status == model.RoomActive
	removePlayer(room, userID)

	if len(room.Players) == 0 {
		return true, s.roomRepo.Delete(ctx, roomID)
	}

	if room.HostID == userID {
		room.HostID = room.Players[0].UserID
	}
	if wasActive && len(room.Players) == 1 {
		winner := room.Players[0]
		winner.Finished = true
		winner.Placement = 1
		room.Status = model.RoomFinished
		s.users.AwardXP(ctx, winner.UserID, room.Difficulty.BaseXP())
	}

	if err := s.roomRepo.Update(ctx, room); err != nil {
		return false, err
	}
	s.broadcaster.BroadcastToRoom(room.ID, EventRoomUpdate, room)
	return false, nil
}

// Kick removes the target player. Host only, and the host cannot kick
// themselves. The kicked user gets a direct notification if connected.
func (s *RoomService) Kick(ctx context.Context, roomID, hostID, targetID string) error {
	unlock := s.lockRoom(roomID)
	defer unlock()

	room, err := s.roomRepo.GetByID(ctx, roomID)
	if err != nil {
		return err
	}
	if room == nil {
		return ErrRoomNotFound
	}
	if room.HostID != hostID {
		return ErrForbidden
	}
	if targetID == hostID {
		return ErrCannotKickSelf
	}
	if room.PlayerByID(targetID) == nil {
		return ErrPlayerNotFound
	}

	removePlayer(room, targetID)
	if err := s.roomRepo.Update(ctx, room); err != nil {
		return err
	}
	s.broadcaster.BroadcastToRoom(room.ID, EventRoomUpdate, room)
	s.broadcaster.SendToUser(targetID, EventKicked, struct {
		RoomID string `json:"roomId"`
	}{room.ID})
	return nil
}

// DeleteRoom removes the room outright. Host only; deleting an already-gone
// room succeeds.
func (s *RoomService) DeleteRoom(ctx context.Context, roomID, userID string) error {
	deleted, err := s.deleteRoom(ctx, roomID, userID)
	if err != nil {
		return err
	}
	if deleted {
		s.forgetRoom(roomID)
	}
	return nil
}

func (s *RoomService) deleteRoom(ctx context.Context, roomID, userID string) (bool, error) {
	unlock := s.lockRoom(roomID)
	defer unlock()

	room, err := s.roomRepo.GetByID(ctx, roomID)
	if err != nil {
		return false, err
	}
	if room == nil {
		return false, nil
	}
	if room.HostID != userID {
		return false, ErrForbidden
	}
	return true, s.roomRepo.Delete(ctx, roomID)
}

// Rematch resolves a play-again request from a finished room. The first
// request creates the replacement room (same puzzle, fresh grids) with the
// requester as host; later requests join it. All requests for one old room
// serialize here, so they converge on a single new room id.
func (s *RoomService) Rematch(ctx context.Context, oldRoomID, userID string) (string, error) {
	s.rematchMu.Lock()
	defer s.rematchMu.Unlock()

	if newID, ok := s.rematch[oldRoomID]; ok {
		joined, err := s.joinRematch(ctx, newID, userID)
		if err != nil {
			return "", err
		}
		if joined {
			return newID, nil
		}
		// The mapped room is gone; fall through and start over.
		delete(s.rematch, oldRoomID)
	}

	old, err := s.roomRepo.GetByID(ctx, oldRoomID)
	if err != nil {
		return "", err
	}
	if old == nil {
		return "", ErrRoomNotFound
	}
	newRoom, err := s.CreateRoom(ctx, userID, old.Difficulty, old.InitialPuzzle, old.Solution, old.MaxPlayers)
	if err != nil {
		return "", err
	}
	s.rematch[oldRoomID] = newRoom.ID
	return newRoom.ID, nil
}

// joinRematch seats the user in an existing rematch room. Returns false if
// the room no longer exists.
func (s *RoomService) joinRematch(ctx context.Context, roomID, userID string) (bool, error) {
	unlock := s.lockRoom(roomID)
	defer unlock()

	room, err := s.roomRepo.GetByID(ctx, roomID)
	if err != nil {
		return false, err
	}
	if room == nil {
		return false, nil
	}
	if room.PlayerByID(userID) != nil {
		return true, nil
	}
	if len(room.Players) >= room.MaxPlayers {
		return false, ErrRoomFull
	}
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return false, err
	}
	if user == nil {
		return false, ErrUserNotFound
	}
	room.Players = append(room.Players, newPlayer(user, false))
	room.Grids[userID] = room.InitialPuzzle.Clone()
	if err := s.roomRepo.Update(ctx, room); err != nil {
		return false, err
	}
	s.broadcaster.BroadcastToRoom(room.ID, EventRoomUpdate, room)
	return true, nil
}

// finishIfAllDone ends the room and computes placements once every player
// has finished.
func (s *RoomService) finishIfAllDone(room *model.Room) {
	for _, p := range room.Players {
		if !p.Finished {
			return
		}
	}
	room.Status = model.RoomFinished
	computePlacements(room)
}

// computePlacements ranks finished players by ascending finish time,
// assigning a dense 1..k sequence. Unfinished players keep placement 0.
// Safe to re-run at any point.
func computePlacements(room *model.Room) {
	finished := make([]*model.Player, 0, len(room.Players))
	for _, p := range room.Players {
		if p.Finished {
			finished = append(finished, p)
		}
	}
	sort.SliceStable(finished, func(i, j int) bool {
		return finished[i].TimeFinished < finished[j].TimeFinished
	})
	for i, p := range finished {
		p.Placement = i + 1
	}
}

// forgetRoom drops per-room bookkeeping after the room itself is deleted:
// its lock entry and any rematch mapping it participates in.
func (s *RoomService) forgetRoom(roomID string) {
	s.locks.Delete(roomID)
	s.rematchMu.Lock()
	for old, next := range s.rematch {
		if old == roomID || next == roomID {
			delete(s.rematch, old)
		}
	}
	s.rematchMu.Unlock()
}

// ReapStale deletes rooms abandoned past ttl: finished games, and waiting
// lobbies nobody ever started. Active games are never reaped, whatever their
// age, since a disconnect is not a forfeit. Returns the number removed.
func (s *RoomService) ReapStale(ctx context.Context, ttl time.Duration) int {
	rooms, err := s.roomRepo.List(ctx)
	if err != nil {
		log.Error().Err(err).Msg("room reaper: listing rooms failed")
		return 0
	}

	cutoff := time.Now().Add(-ttl)
	reaped := 0
	for _, probe := range rooms {
		if probe.Status == model.RoomActive || probe.CreatedAt.After(cutoff) {
			continue
		}
		if s.reapOne(ctx, probe.ID, cutoff) {
			s.forgetRoom(probe.ID)
			reaped++
		}
	}
	if reaped > 0 {
		log.Info().Int("count", reaped).Msg("room reaper: stale rooms removed")
	}
	return reaped
}

// reapOne re-checks eligibility under the room lock; the room may have been
// started or already deleted since the unlocked scan.
func (s *RoomService) reapOne(ctx context.Context, roomID string, cutoff time.Time) bool {
	unlock := s.lockRoom(roomID)
	defer unlock()

	room, err := s.roomRepo.GetByID(ctx, roomID)
	if err != nil || room == nil {
		return false
	}
	if room.Status == model.RoomActive || room.CreatedAt.After(cutoff) {
		return false
	}
	if err := s.roomRepo.Delete(ctx, roomID); err != nil {
		log.Error().Err(err).Str("room", roomID).Msg("room reaper: delete failed")
		return false
	}
	return true
}

// StartReaper runs ReapStale every interval until ctx is cancelled.
func (s *RoomService) StartReaper(ctx context.Context, interval, ttl time.Duration) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				s.ReapStale(ctx, ttl)
			}
		}
	}()
}

func removePlayer(room *model.Room, userID string) {
	for i, p := range room.Players {
		if p.UserID == userID {
			room.Players = append(room.Players[:i], room.Players[i+1:]...)
			break
		}
	}
	delete(room.Grids, userID)
}

func newPlayer(user *model.User, ready bool) *model.Player {
	return &model.Player{
		UserID:         user.ID,
		Username:       user.Username,
		ProfileColor:   user.ProfileColor,
		ProfilePicture: user.ProfilePicture,
		IsReady:        ready,
	}
}

// generateCode picks a 6-digit code unique among rooms that are still
// joinable; finished rooms may share codes with new ones.
func (s *RoomService) generateCode(ctx context.Context) (string, error) {
	for attempts := 0; attempts < 10; attempts++ {
		n, err := rand.Int(rand.Reader, big.NewInt(900000))
		if err != nil {
			return "", err
		}
		code := fmt.Sprintf("%06d", n.Int64()+100000)

		existing, err := s.roomRepo.GetJoinableByCode(ctx, code)
		if err != nil {
			return "", err
		}
		if existing == nil {
			return code, nil
		}
	}
	return "", fmt.Errorf("failed to generate unique room code")
}
