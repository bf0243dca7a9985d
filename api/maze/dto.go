// Package mazeapi provides request and response bodies for the maze endpoints.
package mazeapi

import (
	"github.com/beka-birhanu/vinom-maze/maze"
	"github.com/beka-birhanu/vinom-maze/service"
	"github.com/google/uuid"
)

// CreateRequest asks for a new maze session. Exactly one of Shape and Preset is used;
// Shape wins when both are set.
type CreateRequest struct {
	Shape  []int  `json:"shape"`
	Preset string `json:"preset"`
	Seed   uint64 `json:"seed"`
}

// CreateResponse carries the new session and the token authorizing it.
type CreateResponse struct {
	ID    uuid.UUID `json:"id"`
	Token string    `json:"token"`
	Shape []int     `json:"shape"`
}

// StepRequest asks the generator for Count more edges. Zero means one.
type StepRequest struct {
	Count int `json:"count" binding:"min=0"`
}

// EdgeResponse is one carved edge.
type EdgeResponse struct {
	Position  []int          `json:"position"`
	Axis      int            `json:"axis"`
	Direction maze.Direction `json:"direction"`
}

// StepResponse lists the edges carved by a step request.
type StepResponse struct {
	Edges  []EdgeResponse `json:"edges"`
	Carved int            `json:"carved"`
	Done   bool           `json:"done"`
}

// MoveRequest moves the player one cell.
type MoveRequest struct {
	Axis      *int   `json:"axis" binding:"required,min=0"`
	Direction string `json:"direction" binding:"required,oneof=forward backward"`
}

// MoveResponse reports where the player ended up.
type MoveResponse struct {
	Moved    bool  `json:"moved"`
	Position []int `json:"position"`
	Won      bool  `json:"won"`
}

// WallResponse reports one wall query.
type WallResponse struct {
	Position  []int          `json:"position"`
	Axis      int            `json:"axis"`
	Direction maze.Direction `json:"direction"`
	Wall      bool           `json:"wall"`
}

// SnapshotResponse is the JSON form of a session snapshot.
type SnapshotResponse struct {
	ID       uuid.UUID `json:"id"`
	Shape    []int     `json:"shape"`
	Walls    []int     `json:"walls"`
	Carved   int       `json:"carved"`
	Done     bool      `json:"done"`
	Position []int     `json:"position"`
	Won      bool      `json:"won"`
	Walk     [][]int   `json:"walk"`
}

func toEdgeResponses(edges []maze.Edge) []EdgeResponse {
	out := make([]EdgeResponse, len(edges))
	for n, e := range edges {
		out[n] = EdgeResponse{Position: e.Position, Axis: e.Axis, Direction: e.Direction}
	}
	return out
}

func toSnapshotResponse(s *service.Snapshot) *SnapshotResponse {
	// Walls are widened so encoding/json does not base64 them.
	walls := make([]int, len(s.Walls))
	for n, w := range s.Walls {
		walls[n] = int(w)
	}

	walk := make([][]int, len(s.Walk))
	for n, c := range s.Walk {
		walk[n] = c
	}

	return &SnapshotResponse{
		ID:       s.ID,
		Shape:    s.Shape,
		Walls:    walls,
		Carved:   s.Carved,
		Done:     s.Done,
		Position: s.Position,
		Won:      s.Won,
		Walk:     walk,
	}
}
