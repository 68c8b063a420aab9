// Package lanekeep implements the lane keeping worker service: it receives
// resolved commands over the infer contract and answers for one user's
// lane keeping system.
package lanekeep

import (
	"context"
	"fmt"
	"strings"

	"log/slog"

	"github.com/aretw0/parley/internal/logging"
	"github.com/aretw0/parley/pkg/domain"
	"github.com/aretw0/parley/pkg/rpc"
)

const (
	// Tag is the provenance marker prefixed to every reply.
	Tag = "LK"

	defaultAnswer = "Sorry, I do not know how to handle that."

	powerDefault        = "off"
	vibrationDefaultIdx = 1
)

// Vibration intensity levels, indexed by SystemState.VibrationIdx.
var vibrationLevels = []string{"Low", "Normal", "High"}

// Handler answers lane keeping commands. It implements rpc.Service.
type Handler struct {
	store  Store
	logger *slog.Logger
}

// HandlerOption configures the Handler.
type HandlerOption func(*Handler)

// WithLogger configures the handler's logger.
func WithLogger(logger *slog.Logger) HandlerOption {
	return func(h *Handler) {
		h.logger = logger
	}
}

// NewHandler creates the worker handler.
func NewHandler(store Store, opts ...HandlerOption) *Handler {
	h := &Handler{
		store:  store,
		logger: logging.NewNop(),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Create provisions the user's system entry with defaults.
func (h *Handler) Create(ctx context.Context, userID string, spec []string) error {
	_, ok, err := h.store.Get(ctx, userID)
	if err != nil || ok {
		return err
	}
	return h.store.Put(ctx, userID, SystemState{Power: powerDefault, VibrationIdx: vibrationDefaultIdx})
}

// Learn ingests nothing; the worker has no trainable knowledge.
func (h *Handler) Learn(ctx context.Context, userID string, knowledge []string) error {
	return nil
}

// Infer handles one resolved command: the newest fragment of the query.
func (h *Handler) Infer(ctx context.Context, userID string, query rpc.QuerySpec) (string, error) {
	turns := query.Text()
	if len(turns) == 0 || turns[len(turns)-1] == "" {
		return "", domain.ErrEmptyQuery
	}
	command := turns[len(turns)-1]
	h.logger.Info("infer", "user_id", userID, "command", command)

	sys, ok, err := h.store.Get(ctx, userID)
	if err != nil {
		return "", err
	}
	if !ok {
		sys = SystemState{Power: powerDefault, VibrationIdx: vibrationDefaultIdx}
	}

	answer := defaultAnswer

	switch {
	case strings.Contains(command, "status"):
		answer = h.status(sys, command)

	case strings.Contains(command, "power"):
		switch command {
		case "power on":
			sys.Power = "on"
		case "power off":
			sys.Power = "off"
		default:
			return Tag + answer, nil
		}
		answer = fmt.Sprintf("Okay, your lane keeping system in now %s.", sys.Power)

	case strings.Contains(command, "vibration"):
		answer, sys = h.vibration(sys, command)
	}

	if err := h.store.Put(ctx, userID, sys); err != nil {
		return "", err
	}
	return Tag + answer, nil
}

func (h *Handler) status(sys SystemState, command string) string {
	switch command {
	case "power status":
		return fmt.Sprintf("Currently, your %s is %s.", "lane keeping system", sys.Power)
	case "vibration status":
		return fmt.Sprintf("Currently, your %s is %s.", "vibration intensity level", vibrationLevels[sys.VibrationIdx])
	}
	return defaultAnswer
}

// vibration adjusts the intensity index, clamping at the boundaries without
// mutating the stored level.
func (h *Handler) vibration(sys SystemState, command string) (string, SystemState) {
	switch command {
	case "vibration up":
		if sys.VibrationIdx == len(vibrationLevels)-1 {
			return "Sorry but your vibration intesity is already at its maximum level.", sys
		}
		sys.VibrationIdx++
		return fmt.Sprintf("Okay, your vibration intensity is now set to %s", vibrationLevels[sys.VibrationIdx]), sys
	case "vibration down":
		if sys.VibrationIdx == 0 {
			return "Sorry but your vibration intesity is already at its minimum level.", sys
		}
		sys.VibrationIdx--
		return fmt.Sprintf("Okay, your vibration intensity is now set to %s", vibrationLevels[sys.VibrationIdx]), sys
	}
	return defaultAnswer, sys
}
