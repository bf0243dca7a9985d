package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/beka-birhanu/vinom-maze/api"
	api_i "github.com/beka-birhanu/vinom-maze/api/i"
	"github.com/beka-birhanu/vinom-maze/api/identity"
	mazeapi "github.com/beka-birhanu/vinom-maze/api/maze"
	"github.com/beka-birhanu/vinom-maze/config"
	logger "github.com/beka-birhanu/vinom-maze/infrastruture/log"
	"github.com/beka-birhanu/vinom-maze/infrastruture/token"
	pb "github.com/beka-birhanu/vinom-maze/pb_encoder"
	"github.com/beka-birhanu/vinom-maze/service"
	"github.com/beka-birhanu/vinom-maze/service/i"
)

// Global variables for dependencies
var (
	envs               config.Config
	presets            *config.Presets
	jwtTokenizer       i.Tokenizer
	mazeSessionManager *service.MazeSessionManager
	mazeController     api_i.Controller
	router             *api.Router
	appLogger          i.Logger
)

func initPresets() {
	var err error
	presets, err = config.LoadPresets(envs.PresetsFile)
	if err != nil {
		appLogger.Error(fmt.Sprintf("Loading maze presets: %v", err))
		os.Exit(1)
	}
	appLogger.Info(fmt.Sprintf("Maze presets loaded: %v", presets.Names()))
}

func initJWTTokenizer() {
	var err error
	jwtTokenizer, err = token.NewJwtService(envs.JWTSecret, envs.JWTIssuer)
	if err != nil {
		appLogger.Error(fmt.Sprintf("Creating JWT tokenizer: %v", err))
		os.Exit(1)
	}
	appLogger.Info("JWT Tokenizer initialized")
}

func initSessionManager() {
	sessionLogger, err := logger.New("SESSION-MANAGER", config.ColorCyan, os.Stdout)
	if err != nil {
		appLogger.Error(fmt.Sprintf("Creating session manager logger: %v", err))
		os.Exit(1)
	}

	mazeSessionManager, err = service.NewMazeSessionManager(&service.Config{
		Tokenizer:   jwtTokenizer,
		Logger:      sessionLogger,
		SessionTTL:  envs.SessionTTL,
		MaxSessions: envs.MaxSessions,
		MaxCells:    envs.MaxCells,
		MaxSteps:    envs.MaxStepsPerRequest,
	})
	if err != nil {
		appLogger.Error(fmt.Sprintf("Creating maze session manager: %v", err))
		os.Exit(1)
	}
	appLogger.Info("Session manager initialized")
}

func initMazeController() {
	var err error
	mazeController, err = mazeapi.NewMazeController(mazeSessionManager, presets, &pb.Protobuf{})
	if err != nil {
		appLogger.Error(fmt.Sprintf("Creating maze controller: %v", err))
		os.Exit(1)
	}
	appLogger.Info("Maze controller initialized")
}

func initRouter(t i.Tokenizer) {
	router = api.NewRouter(api.Config{
		Addr:                    fmt.Sprintf("%s:%v", envs.HostIP, envs.RESTPort),
		BaseURL:                 "/api",
		Mode:                    envs.GinMode,
		Controllers:             []api_i.Controller{mazeController},
		AuthorizationMiddleware: identity.Authorize(t),
	})
	appLogger.Info("Router initialized")
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	appLogger, _ = logger.New("APP", config.ColorGreen, os.Stdout)
	envs = config.Load()

	initPresets()
	initJWTTokenizer()
	initSessionManager()
	initMazeController()
	initRouter(jwtTokenizer)

	go mazeSessionManager.Run(ctx)

	serverErr := make(chan error, 1)
	go func() {
		serverErr <- router.Run()
	}()

	select {
	case err := <-serverErr:
		appLogger.Error(fmt.Sprintf("Starting server: %v", err))
		os.Exit(1)
	case <-ctx.Done():
		appLogger.Info("Shutting down")
	}
}
