package api

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/kidsparadise/kp-erp/internal/apierrors"
	"github.com/kidsparadise/kp-erp/internal/auth"
	"github.com/kidsparadise/kp-erp/internal/config"
	"github.com/kidsparadise/kp-erp/internal/session"
	"github.com/kidsparadise/kp-erp/internal/sync"
	"github.com/kidsparadise/kp-erp/internal/woo"
)

// Handlers bundles every page and action handler with its collaborators.
// All fields are set once at startup and read-only afterwards.
type Handlers struct {
	cfg       *config.Config
	codec     *session.Codec
	directory *auth.Directory
	store     *woo.Client
	assistant sync.Assistant
	applier   *sync.Applier
	renderer  *Renderer
}

// NewHandlers wires the handler set.
func NewHandlers(
	cfg *config.Config,
	codec *session.Codec,
	directory *auth.Directory,
	store *woo.Client,
	assistant sync.Assistant,
	renderer *Renderer,
) *Handlers {
	return &Handlers{
		cfg:       cfg,
		codec:     codec,
		directory: directory,
		store:     store,
		assistant: assistant,
		applier:   sync.NewApplier(store),
		renderer:  renderer,
	}
}

// paramID parses the :id route parameter, answering the registered
// invalid-id error and returning false when it is not a positive integer.
func paramID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		apierrors.Error(c, apierrors.CodeInvalidID)
		return 0, false
	}
	return id, true
}
