package mazeapi

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/beka-birhanu/vinom-maze/api/identity"
	"github.com/beka-birhanu/vinom-maze/config"
	"github.com/beka-birhanu/vinom-maze/maze"
	pb "github.com/beka-birhanu/vinom-maze/pb_encoder"
	"github.com/beka-birhanu/vinom-maze/service"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// SessionManager is the part of the maze session service the controller drives.
type SessionManager interface {
	NewSession(shape []int, seed uint64) (*service.SessionInfo, error)
	Step(id uuid.UUID, n int) (*service.StepResult, error)
	Snapshot(id uuid.UUID) (*service.Snapshot, error)
	Wall(id uuid.UUID, c maze.Coordinate, axis int, dir maze.Direction) (maze.WallState, error)
	Move(id uuid.UUID, axis int, dir maze.Direction) (*service.MoveResult, error)
	Delete(id uuid.UUID) error
}

// PresetStore resolves named maze shapes.
type PresetStore interface {
	Shape(name string) ([]int, error)
}

// SnapshotEncoder encodes snapshots for binary clients.
type SnapshotEncoder interface {
	MarshalSnapshot(*service.Snapshot) ([]byte, error)
}

// MazeController serves maze sessions over HTTP.
type MazeController struct {
	sessions SessionManager
	presets  PresetStore
	encoder  SnapshotEncoder
}

// NewMazeController initializes a MazeController.
func NewMazeController(sm SessionManager, ps PresetStore, enc SnapshotEncoder) (*MazeController, error) {
	if sm == nil {
		return nil, errors.New("maze controller requires a session manager")
	}
	if ps == nil {
		ps = config.DefaultPresets()
	}
	if enc == nil {
		enc = &pb.Protobuf{}
	}
	return &MazeController{
		sessions: sm,
		presets:  ps,
		encoder:  enc,
	}, nil
}

// RegisterPublic registers public routes.
func (mc *MazeController) RegisterPublic(route *gin.RouterGroup) {
	route.POST("/mazes", mc.create)
}

// RegisterProtected registers protected routes.
func (mc *MazeController) RegisterProtected(route *gin.RouterGroup) {
	mazes := route.Group("/mazes")
	{
		mazes.GET("/:ID", mc.snapshot)
		mazes.DELETE("/:ID", mc.delete)
		mazes.POST("/:ID/steps", mc.step)
		mazes.GET("/:ID/walls", mc.wall)
		mazes.POST("/:ID/moves", mc.move)
	}
}

// create starts a new maze session.
func (mc *MazeController) create(ctx *gin.Context) {
	var request CreateRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	shape := request.Shape
	if len(shape) == 0 {
		if request.Preset == "" {
			ctx.JSON(http.StatusBadRequest, gin.H{"error": "shape or preset is required"})
			return
		}
		var err error
		shape, err = mc.presets.Shape(request.Preset)
		if err != nil {
			mc.fail(ctx, err)
			return
		}
	}

	info, err := mc.sessions.NewSession(shape, request.Seed)
	if err != nil {
		mc.fail(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, &CreateResponse{ID: info.ID, Token: info.Token, Shape: info.Shape})
}

// snapshot returns the session state as JSON or protobuf.
func (mc *MazeController) snapshot(ctx *gin.Context) {
	id, ok := mc.authorizedSession(ctx)
	if !ok {
		return
	}

	snap, err := mc.sessions.Snapshot(id)
	if err != nil {
		mc.fail(ctx, err)
		return
	}

	if ctx.NegotiateFormat(gin.MIMEJSON, pb.ContentType) == pb.ContentType {
		raw, err := mc.encoder.MarshalSnapshot(snap)
		if err != nil {
			mc.fail(ctx, err)
			return
		}
		ctx.Data(http.StatusOK, pb.ContentType, raw)
		return
	}

	ctx.JSON(http.StatusOK, toSnapshotResponse(snap))
}

// step carves more of the maze.
func (mc *MazeController) step(ctx *gin.Context) {
	id, ok := mc.authorizedSession(ctx)
	if !ok {
		return
	}

	var request StepRequest
	if ctx.Request.ContentLength != 0 {
		if err := ctx.ShouldBindJSON(&request); err != nil {
			ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
	}
	if request.Count == 0 {
		request.Count = 1
	}

	res, err := mc.sessions.Step(id, request.Count)
	if err != nil {
		mc.fail(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, &StepResponse{
		Edges:  toEdgeResponses(res.Edges),
		Carved: res.Carved,
		Done:   res.Done,
	})
}

// wall answers whether a boundary is closed.
func (mc *MazeController) wall(ctx *gin.Context) {
	id, ok := mc.authorizedSession(ctx)
	if !ok {
		return
	}

	coord, err := parseCoordinate(ctx.Query("coord"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	axis, err := strconv.Atoi(ctx.Query("axis"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "axis must be an integer"})
		return
	}
	dir, err := maze.ParseDirection(ctx.DefaultQuery("direction", "forward"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	state, err := mc.sessions.Wall(id, coord, axis, dir)
	if err != nil {
		mc.fail(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, &WallResponse{
		Position:  coord,
		Axis:      axis,
		Direction: dir,
		Wall:      state == maze.Wall,
	})
}

// move steps the player through the finished maze.
func (mc *MazeController) move(ctx *gin.Context) {
	id, ok := mc.authorizedSession(ctx)
	if !ok {
		return
	}

	var request MoveRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	dir, err := maze.ParseDirection(request.Direction)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	res, err := mc.sessions.Move(id, *request.Axis, dir)
	if err != nil {
		mc.fail(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, &MoveResponse{Moved: res.Moved, Position: res.Position, Won: res.Won})
}

// delete drops the session.
func (mc *MazeController) delete(ctx *gin.Context) {
	id, ok := mc.authorizedSession(ctx)
	if !ok {
		return
	}

	if err := mc.sessions.Delete(id); err != nil {
		mc.fail(ctx, err)
		return
	}

	ctx.Status(http.StatusNoContent)
}

// authorizedSession parses :ID and checks it is the session the token was issued for.
func (mc *MazeController) authorizedSession(ctx *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(ctx.Param("ID"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "invalid maze id"})
		return uuid.Nil, false
	}

	authorized, ok := identity.SessionID(ctx)
	if !ok || authorized != id {
		ctx.JSON(http.StatusForbidden, gin.H{"error": "token does not grant access to this maze"})
		return uuid.Nil, false
	}

	return id, true
}

func (mc *MazeController) fail(ctx *gin.Context, err error) {
	switch {
	case errors.Is(err, maze.ErrInvalidShape),
		errors.Is(err, maze.ErrOutOfRange),
		errors.Is(err, config.ErrUnknownPreset),
		errors.Is(err, service.ErrMazeTooLarge),
		errors.Is(err, service.ErrInvalidStepCount):
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrSessionNotFound):
		ctx.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrGenerationInProgress):
		ctx.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrTooManySessions):
		ctx.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
	default:
		_ = ctx.Error(err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}

// parseCoordinate parses "1,2,3".
func parseCoordinate(raw string) (maze.Coordinate, error) {
	if raw == "" {
		return nil, errors.New("coord is required")
	}
	parts := strings.Split(raw, ",")
	c := make(maze.Coordinate, len(parts))
	for n, p := range parts {
		v, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return nil, errors.New("coord must be comma separated integers")
		}
		c[n] = v
	}
	return c, nil
}
