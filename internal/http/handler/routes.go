package handler

import (
	"database/sql"
	"encoding/json"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"filesapi/internal/database"
	"filesapi/internal/model"
	"filesapi/internal/repository"
	"filesapi/internal/service"
	"filesapi/internal/session"
)

// TokenHeader carries the opaque session token on authenticated requests.
const TokenHeader = "X-Token"

// Deps bundles everything the HTTP surface needs. Handlers stay thin: parse,
// authenticate, delegate, translate errors.
type Deps struct {
	DB       *sql.DB
	Sessions session.Store
	Users    repository.UserRepository
	Files    repository.FileRepository
	Auth     service.AuthService
	UserSvc  service.UserService
	FileSvc  service.FileService
}

type registerRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// flexID accepts both a JSON string and a JSON number, since clients send the
// root parent as the literal 0 and real parents as id strings.
type flexID string

func (f *flexID) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		*f = flexID(s)
		return nil
	}
	var n int64
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	*f = flexID(strconv.FormatInt(n, 10))
	return nil
}

type createFileRequest struct {
	Name     string `json:"name"`
	Type     string `json:"type"`
	Data     string `json:"data"`
	ParentID flexID `json:"parentId"`
	IsPublic bool   `json:"isPublic"`
}

// RegisterRoutes attaches HTTP routes to the provided Fiber app.
func RegisterRoutes(app *fiber.App, d Deps) {
	// Liveness probe, no dependencies touched.
	app.Get("/healthz", func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})

	app.Get("/status", d.getStatus)
	app.Get("/stats", d.getStats)

	app.Get("/connect", d.getConnect)
	app.Get("/disconnect", d.getDisconnect)

	app.Post("/users", d.postUsers)
	app.Get("/users/me", d.getMe)

	app.Post("/files", d.postFiles)
	app.Get("/files", d.getFilesIndex)
	app.Get("/files/:id", d.getFileShow)
	app.Put("/files/:id/publish", d.putPublish)
	app.Put("/files/:id/unpublish", d.putUnpublish)
	app.Get("/files/:id/data", d.getFileData)
}

// currentUser resolves the request token to a live user id. Both an
// unresolved token and a vanished user record count as unauthenticated.
func (d Deps) currentUser(c *fiber.Ctx) (string, error) {
	id, err := d.Auth.ResolveToken(c.UserContext(), c.Get(TokenHeader))
	if err != nil {
		return "", err
	}
	if id == "" {
		return "", service.ErrUnauthorized
	}
	if _, err := d.UserSvc.Me(c.UserContext(), id); err != nil {
		return "", err
	}
	return id, nil
}

func (d Deps) getStatus(c *fiber.Ctx) error {
	ctx := c.UserContext()
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"redis": d.Sessions.Ping(ctx),
		"db":    database.Ping(ctx, d.DB),
	})
}

func (d Deps) getStats(c *fiber.Ctx) error {
	ctx := c.UserContext()
	users, err := d.Users.Count(ctx)
	if err != nil {
		return writeServiceError(c, err)
	}
	files, err := d.Files.Count(ctx)
	if err != nil {
		return writeServiceError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{"users": users, "files": files})
}

func (d Deps) getConnect(c *fiber.Ctx) error {
	token, err := d.Auth.Authenticate(c.UserContext(), c.Get(fiber.HeaderAuthorization))
	if err != nil {
		return writeServiceError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{"token": token})
}

func (d Deps) getDisconnect(c *fiber.Ctx) error {
	if err := d.Auth.Revoke(c.UserContext(), c.Get(TokenHeader)); err != nil {
		return writeServiceError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (d Deps) postUsers(c *fiber.Ctx) error {
	var req registerRequest
	if err := c.BodyParser(&req); err != nil {
		return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "cannot parse request body")
	}
	u, err := d.UserSvc.Register(c.UserContext(), req.Email, req.Password)
	if err != nil {
		return writeServiceError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(u)
}

func (d Deps) getMe(c *fiber.Ctx) error {
	id, err := d.currentUser(c)
	if err != nil {
		return writeServiceError(c, err)
	}
	u, err := d.UserSvc.Me(c.UserContext(), id)
	if err != nil {
		return writeServiceError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(u)
}

func (d Deps) postFiles(c *fiber.Ctx) error {
	userID, err := d.currentUser(c)
	if err != nil {
		return writeServiceError(c, err)
	}

	var req createFileRequest
	if err := c.BodyParser(&req); err != nil {
		return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "cannot parse request body")
	}

	f, err := d.FileSvc.Create(c.UserContext(), userID, service.CreateFileInput{
		Name:     req.Name,
		Type:     model.FileType(req.Type),
		Data:     req.Data,
		ParentID: string(req.ParentID),
		IsPublic: req.IsPublic,
	})
	if err != nil {
		return writeServiceError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(f)
}

func (d Deps) getFileShow(c *fiber.Ctx) error {
	userID, err := d.currentUser(c)
	if err != nil {
		return writeServiceError(c, err)
	}
	f, err := d.FileSvc.Get(c.UserContext(), userID, c.Params("id"))
	if err != nil {
		return writeServiceError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(f)
}

func (d Deps) getFilesIndex(c *fiber.Ctx) error {
	userID, err := d.currentUser(c)
	if err != nil {
		return writeServiceError(c, err)
	}

	page, err := strconv.Atoi(c.Query("page", "0"))
	if err != nil {
		page = 0
	}

	files, err := d.FileSvc.List(c.UserContext(), userID, c.Query("parentId"), page)
	if err != nil {
		return writeServiceError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(files)
}

func (d Deps) putPublish(c *fiber.Ctx) error {
	return d.setVisibility(c, true)
}

func (d Deps) putUnpublish(c *fiber.Ctx) error {
	return d.setVisibility(c, false)
}

func (d Deps) setVisibility(c *fiber.Ctx, public bool) error {
	userID, err := d.currentUser(c)
	if err != nil {
		return writeServiceError(c, err)
	}
	f, err := d.FileSvc.SetVisibility(c.UserContext(), userID, c.Params("id"), public)
	if err != nil {
		return writeServiceError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(f)
}

func (d Deps) getFileData(c *fiber.Ctx) error {
	// Content reads allow anonymous callers: a failed token resolution just
	// means no owner match, not a 401.
	userID, err := d.Auth.ResolveToken(c.UserContext(), c.Get(TokenHeader))
	if err != nil {
		userID = ""
	}

	data, contentType, err := d.FileSvc.ReadContent(c.UserContext(), userID, c.Params("id"), c.Query("size"))
	if err != nil {
		return writeServiceError(c, err)
	}

	c.Set(fiber.HeaderContentType, contentType)
	return c.Status(fiber.StatusOK).Send(data)
}
