// Package users lists SafeQ user accounts filtered by the session's
// department scope, and lets admins create and delete accounts.
package users

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/GoSafeQ-Admin/GoSafeQ-Admin/internal/audit"
	"github.com/GoSafeQ-Admin/GoSafeQ-Admin/internal/auth"
	"github.com/GoSafeQ-Admin/GoSafeQ-Admin/internal/config"
	"github.com/GoSafeQ-Admin/GoSafeQ-Admin/internal/safeq"
	"github.com/GoSafeQ-Admin/GoSafeQ-Admin/internal/web/handler"
	authmw "github.com/GoSafeQ-Admin/GoSafeQ-Admin/internal/web/middleware/auth"
	"github.com/GoSafeQ-Admin/GoSafeQ-Admin/internal/web/navigation"
)

const (
	// Path is the base path for user administration.
	Path = handler.RootPath + "users"

	// TemplateList is the template for listing users.
	TemplateList = "users/list"
	// TemplateForm is the template for creating a user.
	TemplateForm = "users/form"
)

// CreateForm is the user-create form payload.
type CreateForm struct {
	UserName   string `form:"username"   validate:"required,min=2,max=100"`
	Email      string `form:"email"      validate:"omitempty,email"`
	Department string `form:"department" validate:"required"`
}

// Service provides the SafeQ user administration handlers.
type Service struct {
	handler.Service
	cfg       *config.Config
	db        *gorm.DB
	client    *safeq.Client
	recorder  *audit.Recorder
	validator *validator.Validate
}

// Handler is the exported instance.
var Handler = Service{}

// Init registers routes.
func (s *Service) Init(
	app *fiber.App,
	cfg *config.Config,
	db *gorm.DB,
	client *safeq.Client,
	recorder *audit.Recorder,
) {
	if app == nil || cfg == nil || db == nil {
		log.Fatal().Msg(handler.ErrNilACDFatalLogMsg)
		return
	}

	s.db = db
	s.cfg = cfg
	s.client = client
	s.recorder = recorder
	s.validator = validator.New()

	listRoles := authmw.RequireRole(
		auth.RoleViewer, auth.RoleSupport, auth.RoleAdmin, auth.RoleSuperAdmin,
	)
	manageRoles := authmw.RequireRole(auth.RoleAdmin, auth.RoleSuperAdmin)

	app.Get(Path, listRoles, s.List)
	app.Get(Path+"/new", manageRoles, s.New)
	app.Post(Path, manageRoles, s.Create)
	app.Post(Path+"/:username/delete", manageRoles, s.Delete)
}

// List renders the users visible to the session scope.
func (s *Service) List(c *fiber.Ctx) error {
	record, _ := authmw.Record(c)

	users, err := s.client.Users(c.UserContext(), s.cfg.SafeQ.LocalProvider, s.cfg.SafeQ.MaxRecords)
	if err != nil {
		log.Error().Err(err).Msg("failed to list users")
		users = nil
	}

	nav := navigation.NewContext("Users", "users", "users").
		AddBreadcrumb("Home", "/dashboard", false).
		AddBreadcrumb("Users", Path, true).
		WithItems(record.Role)

	return c.Render(TemplateList, fiber.Map{
		"nav":       nav,
		"record":    record,
		"users":     auth.FilterUsers(users, record.Scope),
		"canManage": record.Role.CanManageUsers(),
	}, handler.BaseLayout)
}

// New renders the user-create form.
func (s *Service) New(c *fiber.Ctx) error {
	record, _ := authmw.Record(c)

	nav := navigation.NewContext("New User", "users", "users-new").
		AddBreadcrumb("Users", Path, false).
		AddBreadcrumb("New", Path+"/new", true).
		WithItems(record.Role)

	return c.Render(TemplateForm, fiber.Map{
		"nav":         nav,
		"record":      record,
		"departments": record.Scope.Departments(),
	}, handler.BaseLayout)
}

// Create creates a SafeQ user account. The target department must be inside
// the caller's scope: an admin cannot provision users into departments it
// cannot see.
func (s *Service) Create(c *fiber.Ctx) error {
	record, _ := authmw.Record(c)

	var form CreateForm
	if err := c.BodyParser(&form); err != nil {
		return err
	}

	if err := s.validator.Struct(form); err != nil {
		return c.Status(fiber.StatusBadRequest).SendString("Invalid form: " + err.Error())
	}

	if !record.Scope.Allows(form.Department) {
		return c.Status(fiber.StatusForbidden).
			SendString("Forbidden: department outside your scope")
	}

	user := safeq.User{
		UserName:   form.UserName,
		Email:      form.Email,
		Department: form.Department,
		Provider:   s.cfg.SafeQ.LocalProvider,
	}

	err := s.client.CreateUser(c.UserContext(), user)
	s.recorder.Record(audit.ActionUserCreate, record.ExternalUsername,
		string(record.Source), err == nil, form.UserName, c.IP())

	if err != nil {
		log.Error().Err(err).Str("user", form.UserName).Msg("failed to create user")
		return c.Status(fiber.StatusBadGateway).SendString("Failed to create user")
	}

	return c.Redirect(Path)
}

// Delete removes a SafeQ user account. The target user must be visible to
// the caller's scope.
func (s *Service) Delete(c *fiber.Ctx) error {
	record, _ := authmw.Record(c)
	username := c.Params("username")

	target, err := s.client.LookupUser(c.UserContext(), username, s.cfg.SafeQ.LocalProvider)
	if err != nil {
		return c.Status(fiber.StatusNotFound).SendString("User not found")
	}

	if dept, ok := target.DerivedDepartment(); !ok || !record.Scope.Allows(dept) {
		if !record.Scope.IsUnrestricted() {
			return c.Status(fiber.StatusForbidden).
				SendString("Forbidden: user outside your scope")
		}
	}

	err = s.client.DeleteUser(c.UserContext(), username)
	s.recorder.Record(audit.ActionUserDelete, record.ExternalUsername,
		string(record.Source), err == nil, username, c.IP())

	if err != nil {
		log.Error().Err(err).Str("user", username).Msg("failed to delete user")
		return c.Status(fiber.StatusBadGateway).SendString("Failed to delete user")
	}

	return c.Redirect(Path)
}
