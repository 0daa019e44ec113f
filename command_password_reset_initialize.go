package tokenauth

import (
	"context"
	"time"

	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/go-repository-bun"
)

type InitializePasswordResetMessage struct {
	Email      string `json:"email"`
	OnResponse func(resp *InitializePasswordResetResponse)
}

func (p InitializePasswordResetMessage) Type() string { return "user.password_reset" }

type InitializePasswordResetResponse struct {
	Token      string
	Dispatched bool
}

// InitializePasswordResetHandler mints a reset token for known accounts and
// hands it to the dispatcher. Unknown emails complete without error and
// without a token so the caller reveals nothing about which accounts exist.
type InitializePasswordResetHandler struct {
	repo       RepositoryManager
	tokens     TokenService
	dispatcher *NotificationDispatcher
	logger     Logger
}

func NewInitializePasswordResetHandler(repo RepositoryManager, tokens TokenService, dispatcher *NotificationDispatcher) *InitializePasswordResetHandler {
	return &InitializePasswordResetHandler{
		repo:       repo,
		tokens:     tokens,
		dispatcher: dispatcher,
		logger:     defLogger{},
	}
}

// WithLogger overrides the logger used by the handler.
func (h *InitializePasswordResetHandler) WithLogger(logger Logger) *InitializePasswordResetHandler {
	if logger != nil {
		h.logger = logger
	}
	return h
}

func (h *InitializePasswordResetHandler) Execute(ctx context.Context, event InitializePasswordResetMessage) error {
	select {
	case <-ctx.Done():
		return goerrors.Wrap(
			ctx.Err(),
			goerrors.CategoryOperation,
			"context cancelled during password reset initialization",
		)
	default:
		return h.execute(ctx, event)
	}
}

func (h *InitializePasswordResetHandler) execute(ctx context.Context, event InitializePasswordResetMessage) error {
	resp := &InitializePasswordResetResponse{}

	ctx, cancel := context.WithTimeout(ctx, time.Second*10)
	defer cancel()

	user, err := h.repo.Users().GetByEmail(ctx, event.Email)
	if err != nil {
		if repository.IsRecordNotFound(err) {
			h.logger.Debug("password reset requested for unknown email", "email", event.Email)
			if event.OnResponse != nil {
				event.OnResponse(resp)
			}
			return nil
		}
		return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to retrieve user for password reset")
	}

	token, err := h.tokens.IssueReset(user.Email)
	if err != nil {
		return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to issue password reset token")
	}

	resp.Token = token

	if h.dispatcher != nil {
		resp.Dispatched = h.dispatcher.Enqueue(PasswordResetNotification{
			Email: user.Email,
			Token: token,
		})
	}

	if event.OnResponse != nil {
		event.OnResponse(resp)
	}

	return nil
}
