package model

import (
	"time"

	"sudokuarena/internal/sudoku"
)

// Puzzle is a community-created puzzle listed on the explore page.
type Puzzle struct {
	ID         string      `json:"id"`
	CreatorID  string      `json:"creatorId"`
	Title      string      `json:"title"`
	Difficulty Difficulty  `json:"difficulty"`
	Grid       sudoku.Grid `json:"grid"`
	Likes      []string    `json:"likes"`
	Comments   int         `json:"comments"`
	CreatedAt  time.Time   `json:"createdAt"`
}

func (p *Puzzle) Clone() *Puzzle {
	if p == nil {
		return nil
	}
	out := *p
	out.Grid = p.Grid.Clone()
	out.Likes = append([]string(nil), p.Likes...)
	return &out
}
