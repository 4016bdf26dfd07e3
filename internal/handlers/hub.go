package handlers

import (
	"github.com/tanscode/webrtc-relay/config"
	"github.com/tanscode/webrtc-relay/internal/redis"
	"github.com/tanscode/webrtc-relay/internal/relay"
)

// Hub wires the relay core to the HTTP and WebSocket handlers. The
// registry and directory are owned here and passed by handle; nothing
// else holds them.
type Hub struct {
	cfg       *config.Config
	registry  *relay.Registry
	directory *relay.Directory
	notifier  *relay.Notifier
	lifecycle *relay.Lifecycle
	router    *relay.Router
}

func NewHub(cfg *config.Config) *Hub {
	registry := relay.NewRegistry()
	directory := relay.NewDirectory()
	notifier := relay.NewNotifier(directory)
	router := relay.NewRouter(registry)
	router.OnDrop(redis.CountDrop)

	return &Hub{
		cfg:       cfg,
		registry:  registry,
		directory: directory,
		notifier:  notifier,
		lifecycle: relay.NewLifecycle(registry, directory, notifier, cfg.MaxRoomSize),
		router:    router,
	}
}
