package bootstrap

import (
	"context"
	"log"

	"agent-dashboard-be/internal/config"
	"agent-dashboard-be/internal/controller"
	"agent-dashboard-be/internal/pkg/logger"
	"agent-dashboard-be/internal/registry"
	"agent-dashboard-be/internal/repository/implementation"
	"agent-dashboard-be/internal/repository/memory"
	"agent-dashboard-be/internal/service"
	"agent-dashboard-be/internal/websocket"
	"agent-dashboard-be/pkg/agent"
	"agent-dashboard-be/pkg/eventbus"
	"agent-dashboard-be/pkg/natspub"

	"github.com/ThreeDotsLabs/watermill"
)

type Container struct {
	// Controllers
	CharacterController controller.ICharacterController
	SettingsController  controller.ISettingsController
	ChatController      controller.IChatController

	// Background services (exposed for main.go to run)
	ConsumerService service.IConsumerService
	WebSocketHub    *websocket.Hub

	// Shared infrastructure
	Logger   logger.ILogger
	EventBus *eventbus.Bus
	NatsPub  *natspub.Publisher
}

func NewContainer(cfg *config.Config) *Container {
	// 1. Core facades
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")

	// 2. Event bus
	watermillLogger := watermill.NewStdLogger(false, false)
	bus := eventbus.New(watermillLogger)

	// NATS mirror is optional; a dead broker must not keep the dashboard down.
	var natsPub *natspub.Publisher
	if cfg.App.NatsURL != "" {
		var err error
		natsPub, err = natspub.NewPublisher(cfg.App.NatsURL)
		if err != nil {
			log.Printf("[WARN] Failed to connect to NATS Publisher: %v", err)
			natsPub = nil
		}
	}

	// 3. Storage
	characterRepo := implementation.NewCharacterRepository(cfg.Store.CharactersDir, sysLogger)
	settingsRepo := implementation.NewSettingsRepository(cfg.Store.SettingsDir, sysLogger)
	sessionRepo := memory.NewSessionRepository()

	characterRegistry := registry.New(characterRepo)
	settingsRegistry := registry.New(settingsRepo)

	// Warm the registries so the first selection exists before any request.
	if err := characterRegistry.Refresh(context.Background()); err != nil {
		log.Printf("[WARN] Failed to load characters on startup: %v", err)
	}
	if err := settingsRegistry.Refresh(context.Background()); err != nil {
		log.Printf("[WARN] Failed to load settings on startup: %v", err)
	}

	// 4. External agent boundary
	agentClient := agent.NewClient(cfg.Agent.BaseURL, cfg.Agent.Timeout)
	log.Printf("[INFO] Using agent server: %s", cfg.Agent.BaseURL)

	// 5. Services
	characterService := service.NewCharacterService(characterRepo, characterRegistry, agentClient, bus)
	settingsService := service.NewSettingsService(settingsRepo, settingsRegistry, bus)
	chatService := service.NewChatService(sessionRepo, agentClient, bus, sysLogger, cfg.Agent.Timeout)

	// 6. WebSocket hub + bus consumer
	hub := websocket.NewHub(sysLogger)
	consumerService := service.NewConsumerService(bus, hub, natsPub, sysLogger)

	return &Container{
		CharacterController: controller.NewCharacterController(characterService),
		SettingsController:  controller.NewSettingsController(settingsService),
		ChatController:      controller.NewChatController(chatService),
		ConsumerService:     consumerService,
		WebSocketHub:        hub,
		Logger:              sysLogger,
		EventBus:            bus,
		NatsPub:             natsPub,
	}
}
