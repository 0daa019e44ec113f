package tokenauth

import (
	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
	"github.com/gofiber/fiber/v2"
	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/go-print"
	"github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
)

const (
	msgResetLinkSent = "If that email exists, a reset link has been sent."
	msgPasswordReset = "Password reset successfully. You can now log in."
	msgLoggedOut     = "Logged out."
)

type AuthControllerRoutes struct {
	Register       string
	Login          string
	Refresh        string
	Logout         string
	PasswordForgot string
	PasswordReset  string
	Me             string
	Promote        string
}

type AuthController struct {
	Debug      bool
	Logger     Logger
	Repo       RepositoryManager
	Auther     Authenticator
	Guard      *Guard
	Hasher     PasswordAuthenticator
	Tokens     TokenService
	Dispatcher *NotificationDispatcher
	Config     Config
	Routes     *AuthControllerRoutes
}

type AuthControllerOption func(*AuthController) *AuthController

func WithControllerLogger(l Logger) AuthControllerOption {
	return func(c *AuthController) *AuthController {
		if l != nil {
			c.Logger = l
		}
		return c
	}
}

func WithRepositoryManager(repo RepositoryManager) AuthControllerOption {
	return func(c *AuthController) *AuthController {
		c.Repo = repo
		return c
	}
}

func WithAuthenticator(auther Authenticator) AuthControllerOption {
	return func(c *AuthController) *AuthController {
		c.Auther = auther
		return c
	}
}

func WithGuard(guard *Guard) AuthControllerOption {
	return func(c *AuthController) *AuthController {
		c.Guard = guard
		return c
	}
}

func WithPasswordHasher(hasher PasswordAuthenticator) AuthControllerOption {
	return func(c *AuthController) *AuthController {
		c.Hasher = hasher
		return c
	}
}

func WithTokens(tokens TokenService) AuthControllerOption {
	return func(c *AuthController) *AuthController {
		c.Tokens = tokens
		return c
	}
}

func WithDispatcher(dispatcher *NotificationDispatcher) AuthControllerOption {
	return func(c *AuthController) *AuthController {
		c.Dispatcher = dispatcher
		return c
	}
}

func WithControllerConfig(cfg Config) AuthControllerOption {
	return func(c *AuthController) *AuthController {
		c.Config = cfg
		return c
	}
}

func NewAuthController(opts ...AuthControllerOption) *AuthController {
	c := &AuthController{
		Logger: defLogger{},
		Routes: &AuthControllerRoutes{
			Register:       "/auth/register",
			Login:          "/auth/login",
			Refresh:        "/auth/refresh",
			Logout:         "/auth/logout",
			PasswordForgot: "/auth/password/forgot",
			PasswordReset:  "/auth/password/reset",
			Me:             "/users/me",
			Promote:        "/users/promote/:id",
		},
	}

	for _, opt := range opts {
		c = opt(c)
	}

	if c.Repo == nil {
		panic("Missing RepositoryManager in auth controller...")
	}

	if c.Auther == nil {
		panic("Missing Authenticator in auth controller...")
	}

	if c.Guard == nil {
		panic("Missing Guard in auth controller...")
	}

	if c.Hasher == nil {
		panic("Missing PasswordAuthenticator in auth controller...")
	}

	if c.Tokens == nil {
		panic("Missing TokenService in auth controller...")
	}

	if c.Config == nil {
		panic("Missing Config in auth controller...")
	}

	return c
}

// RegisterAuthRoutes mounts the controller on a fiber router
func RegisterAuthRoutes(app fiber.Router, opts ...AuthControllerOption) *AuthController {
	controller := NewAuthController(opts...)

	app.Post(controller.Routes.Register, controller.RegisterPost)
	app.Post(controller.Routes.Login, controller.LoginPost)
	app.Post(controller.Routes.Refresh, controller.RefreshPost)
	app.Post(controller.Routes.Logout, controller.LogoutPost)
	app.Post(controller.Routes.PasswordForgot, controller.PasswordForgotPost)
	app.Post(controller.Routes.PasswordReset, controller.PasswordResetPost)
	app.Get(controller.Routes.Me, controller.MeGet)
	app.Post(controller.Routes.Promote, controller.PromotePost)

	return controller
}

// RegisterPayload is the registration body
type RegisterPayload struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Validate will run validation rules
func (r RegisterPayload) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(
			&r.Email,
			validation.Required,
			is.Email,
		),
		validation.Field(
			&r.Password,
			validation.Required,
			validation.Length(MinPasswordLength, 128),
		),
	)
}

func (a *AuthController) RegisterPost(ctx *fiber.Ctx) error {
	payload := new(RegisterPayload)

	if err := ctx.BodyParser(payload); err != nil {
		return goerrors.Wrap(err, goerrors.CategoryBadInput, "failed to parse request body")
	}

	if err := payload.Validate(); err != nil {
		return goerrors.Wrap(err, goerrors.CategoryValidation, err.Error())
	}

	if a.Debug {
		a.Logger.Debug("register payload", "payload", print.MaybePrettyJSON(payload))
	}

	var created *User
	msg := RegisterUserMessage{
		Email:    payload.Email,
		Password: payload.Password,
		OnResponse: func(user *User) {
			created = user
		},
	}

	handler := NewRegisterUserHandler(a.Repo, a.Hasher)
	if err := handler.Execute(ctx.Context(), msg); err != nil {
		a.Logger.Error("register user error", "error", err)
		return err
	}

	return ctx.Status(fiber.StatusCreated).JSON(created)
}

// LoginPayload is the credential body
type LoginPayload struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Validate will run validation rules
func (r LoginPayload) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(
			&r.Email,
			validation.Required,
			is.Email,
		),
		validation.Field(
			&r.Password,
			validation.Required,
		),
	)
}

func (a *AuthController) LoginPost(ctx *fiber.Ctx) error {
	payload := new(LoginPayload)

	if err := ctx.BodyParser(payload); err != nil {
		return goerrors.Wrap(err, goerrors.CategoryBadInput, "failed to parse request body")
	}

	if err := payload.Validate(); err != nil {
		return ErrMismatchedHashAndPassword
	}

	pair, err := a.Auther.Login(ctx.Context(), payload.Email, payload.Password)
	if err != nil {
		a.Logger.Error("login error", "error", err)
		return err
	}

	setRefreshCookie(ctx, a.Config, pair.Refresh)

	return ctx.JSON(fiber.Map{
		"access_token": pair.Access,
		"token_type":   "bearer",
	})
}

func (a *AuthController) RefreshPost(ctx *fiber.Ctx) error {
	refreshToken := ctx.Cookies(a.Config.GetRefreshCookieName())
	if refreshToken == "" {
		return ErrMissingRefreshToken
	}

	access, err := a.Auther.Refresh(ctx.Context(), refreshToken)
	if err != nil {
		return err
	}

	return ctx.JSON(fiber.Map{
		"access_token": access,
		"token_type":   "bearer",
	})
}

func (a *AuthController) LogoutPost(ctx *fiber.Ctx) error {
	accessToken := BearerTokenFromRequest(ctx)

	if err := a.Auther.Logout(ctx.Context(), accessToken); err != nil {
		return err
	}

	clearRefreshCookie(ctx, a.Config)

	return ctx.JSON(fiber.Map{
		"message": msgLoggedOut,
	})
}

// PasswordForgotPayload asks for a reset link
type PasswordForgotPayload struct {
	Email string `json:"email"`
}

// Validate will run validation rules
func (r PasswordForgotPayload) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(
			&r.Email,
			validation.Required,
			is.Email,
		),
	)
}

// PasswordForgotPost answers identically for known and unknown emails.
func (a *AuthController) PasswordForgotPost(ctx *fiber.Ctx) error {
	payload := new(PasswordForgotPayload)

	if err := ctx.BodyParser(payload); err != nil {
		return goerrors.Wrap(err, goerrors.CategoryBadInput, "failed to parse request body")
	}

	if err := payload.Validate(); err != nil {
		return goerrors.Wrap(err, goerrors.CategoryValidation, err.Error())
	}

	msg := InitializePasswordResetMessage{
		Email: payload.Email,
	}

	handler := NewInitializePasswordResetHandler(a.Repo, a.Tokens, a.Dispatcher).
		WithLogger(a.Logger)

	if err := handler.Execute(ctx.Context(), msg); err != nil {
		a.Logger.Error("password reset initialize error", "error", err)
		return err
	}

	return ctx.JSON(fiber.Map{
		"message": msgResetLinkSent,
	})
}

// PasswordResetPayload finalizes a reset
type PasswordResetPayload struct {
	Token    string `json:"token"`
	Password string `json:"new_password"`
}

// Validate will run validation rules
func (r PasswordResetPayload) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(
			&r.Token,
			validation.Required,
		),
		validation.Field(
			&r.Password,
			validation.Required,
			validation.Length(MinPasswordLength, 128),
		),
	)
}

func (a *AuthController) PasswordResetPost(ctx *fiber.Ctx) error {
	payload := new(PasswordResetPayload)

	if err := ctx.BodyParser(payload); err != nil {
		return goerrors.Wrap(err, goerrors.CategoryBadInput, "failed to parse request body")
	}

	if err := payload.Validate(); err != nil {
		return goerrors.Wrap(err, goerrors.CategoryValidation, err.Error())
	}

	msg := FinalizePasswordResetMessage{
		Token:    payload.Token,
		Password: payload.Password,
	}

	handler := NewFinalizePasswordResetHandler(a.Repo, a.Tokens, a.Hasher).
		WithLogger(a.Logger)

	if err := handler.Execute(ctx.Context(), msg); err != nil {
		return err
	}

	return ctx.JSON(fiber.Map{
		"message": msgPasswordReset,
	})
}

func (a *AuthController) MeGet(ctx *fiber.Ctx) error {
	principal, err := a.Guard.ResolvePrincipal(ctx.Context(), BearerTokenFromRequest(ctx))
	if err != nil {
		return err
	}

	return ctx.JSON(fiber.Map{
		"id":        principal.ID,
		"email":     principal.Email,
		"user_role": principal.Role,
		"is_active": principal.Active,
	})
}

// PromotePost elevates a user to admin. Only admins may call it; the role
// check reads the caller's stored record, not the token claim.
func (a *AuthController) PromotePost(ctx *fiber.Ctx) error {
	principal, err := a.Guard.ResolvePrincipal(ctx.Context(), BearerTokenFromRequest(ctx))
	if err != nil {
		return err
	}

	if err := a.Guard.RequireAdmin(principal); err != nil {
		return err
	}

	id, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return goerrors.Wrap(err, goerrors.CategoryBadInput, "invalid user id")
	}

	user, err := a.Repo.Users().UpdateRole(ctx.Context(), id, RoleAdmin)
	if err != nil {
		if repository.IsRecordNotFound(err) {
			return ErrIdentityNotFound
		}
		return err
	}

	a.Logger.Info("user promoted to admin", "id", user.ID.String(), "by", principal.Email)

	return ctx.JSON(user)
}
