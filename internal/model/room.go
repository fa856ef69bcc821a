package model

import (
	"time"

	"sudokuarena/internal/sudoku"
)

type RoomStatus string

const (
	RoomWaiting  RoomStatus = "waiting"
	RoomActive   RoomStatus = "active"
	RoomFinished RoomStatus = "finished"
)

type Difficulty string

const (
	DifficultyEasy   Difficulty = "Easy"
	DifficultyMedium Difficulty = "Medium"
	DifficultyHard   Difficulty = "Hard"
	DifficultyExpert Difficulty = "Expert"
)

// BaseXP is the reward for winning a multiplayer game at this difficulty.
func (d Difficulty) BaseXP() int {
	switch d {
	case DifficultyEasy:
		return 250
	case DifficultyMedium:
		return 500
	case DifficultyHard:
		return 750
	case DifficultyExpert:
		return 1000
	default:
		return 500
	}
}

// Player is a room member. Profile fields are captured at join time and not
// live-synced. Placement stays 0 until the player finishes and ranks are
// computed.
type Player struct {
	UserID         string `json:"userId"`
	Username       string `json:"username"`
	ProfileColor   string `json:"profileColor,omitempty"`
	ProfilePicture string `json:"profilePicture,omitempty"`
	Progress       int    `json:"progress"`
	Finished       bool   `json:"finished"`
	TimeElapsed    int    `json:"timeElapsed"`
	TimeFinished   int    `json:"timeFinished,omitempty"`
	IsReady        bool   `json:"isReady"`
	Placement      int    `json:"placement"`
}

// Room is a multiplayer game. Every player works on an independent grid in
// Grids, seeded from InitialPuzzle; Solution is the authoritative answer used
// for win validation. Players are kept in join order.
type Room struct {
	ID            string                 `json:"id"`
	Code          string                 `json:"code"`
	HostID        string                 `json:"hostId"`
	Difficulty    Difficulty             `json:"difficulty"`
	Puzzle        sudoku.Grid            `json:"puzzle"`
	InitialPuzzle sudoku.Grid            `json:"initialPuzzle"`
	Solution      sudoku.Grid            `json:"solution"`
	MaxPlayers    int                    `json:"maxPlayers"`
	Players       []*Player              `json:"players"`
	Grids         map[string]sudoku.Grid `json:"grids"`
	Status        RoomStatus             `json:"status"`
	CreatedAt     time.Time              `json:"createdAt"`
	StartedAt     *time.Time             `json:"startedAt,omitempty"`
}

// PlayerByID returns the member with the given user id, or nil.
func (r *Room) PlayerByID(userID string) *Player {
	for _, p := range r.Players {
		if p.UserID == userID {
			return p
		}
	}
	return nil
}

// Clone returns a deep copy of the room, including all player grids.
func (r *Room) Clone() *Room {
	if r == nil {
		return nil
	}
	out := *r
	out.Puzzle = r.Puzzle.Clone()
	out.InitialPuzzle = r.InitialPuzzle.Clone()
	out.Solution = r.Solution.Clone()
	out.Players = make([]*Player, len(r.Players))
	for i, p := range r.Players {
		cp := *p
		out.Players[i] = &cp
	}
	out.Grids = make(map[string]sudoku.Grid, len(r.Grids))
	for id, g := range r.Grids {
		out.Grids[id] = g.Clone()
	}
	if r.StartedAt != nil {
		t := *r.StartedAt
		out.StartedAt = &t
	}
	return &out
}
