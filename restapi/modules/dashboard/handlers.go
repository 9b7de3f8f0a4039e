package dashboard

import (
	"bytes"
	"html/template"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/session"
	core "github.com/ortelius/orgmap-backend/internal/dashboard"
	"github.com/ortelius/orgmap-backend/model"
	"go.uber.org/zap"
)

var pageTmpl = template.Must(template.New("dashboard").Parse(pageTemplate))

// Handlers binds the dashboard routes to the session cache
type Handlers struct {
	Sessions *Sessions
	Store    *session.Store
	Logger   *zap.Logger
}

// Register mounts the dashboard routes on the app
func (h *Handlers) Register(app *fiber.App) {
	app.Get("/", h.with(h.page))
	app.Get("/dashboard/state", h.with(h.state))
	app.Get("/dashboard/map", h.with(h.mapDocument))
	app.Post("/dashboard/counties", h.with(h.counties))
	app.Post("/dashboard/status", h.with(h.status))
	app.Post("/dashboard/search", h.with(h.search))
	app.Post("/dashboard/organizations/:id/open", h.with(h.openDetails))
	app.Post("/dashboard/organizations/:id/status", h.with(h.changeStatus))
	app.Post("/dashboard/organizations/:id/done", h.with(h.markDone))
	app.Post("/dashboard/organizations/:id/note/open", h.with(h.openNote))
	app.Post("/dashboard/organizations/:id/note", h.with(h.saveNote))
	app.Post("/dashboard/close", h.with(h.close))
	app.Post("/dashboard/messages", h.with(h.message))
}

// with resolves the caller's dashboard session before running the handler
func (h *Handlers) with(fn func(*fiber.Ctx, *Session) error) fiber.Handler {
	return func(c *fiber.Ctx) error {
		sess, err := h.Store.Get(c)
		if err != nil {
			h.Logger.Error("Failed to load session", zap.Error(err))
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"success": false,
				"message": "Failed to load session",
			})
		}
		// Save releases the session, read the id first
		id := sess.ID()
		sess.Set("dashboard", true)
		if err := sess.Save(); err != nil {
			h.Logger.Error("Failed to save session", zap.Error(err))
		}
		return fn(c, h.Sessions.Get(c.UserContext(), id))
	}
}

func (h *Handlers) page(c *fiber.Ctx, s *Session) error {
	var buf bytes.Buffer
	if err := pageTmpl.Execute(&buf, s.Surface.Snapshot()); err != nil {
		h.Logger.Error("Failed to render dashboard", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).SendString("Failed to render dashboard")
	}
	c.Type("html", "utf-8")
	return c.Send(buf.Bytes())
}

func (h *Handlers) state(c *fiber.Ctx, s *Session) error {
	return c.JSON(s.Surface.Snapshot())
}

func (h *Handlers) mapDocument(c *fiber.Ctx, s *Session) error {
	view := s.Surface.Map()
	if len(view.Document) == 0 {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"success": false,
			"message": "Map not loaded",
		})
	}
	c.Type("html", "utf-8")
	return c.Send(view.Document)
}

func (h *Handlers) counties(c *fiber.Ctx, s *Session) error {
	ctx := c.UserContext()
	switch c.FormValue("all") {
	case "on":
		s.Controller.SelectAllCounties(ctx)
	case "off":
		s.Controller.ClearCounties(ctx)
	default:
		var names []string
		for _, v := range c.Request().PostArgs().PeekMulti("county") {
			names = append(names, string(v))
		}
		s.Controller.SetCounties(ctx, names)
	}
	return h.done(c)
}

func (h *Handlers) status(c *fiber.Ctx, s *Session) error {
	s.Controller.SetStatus(c.UserContext(), model.StatusBucket(c.FormValue("status")))
	return h.done(c)
}

func (h *Handlers) search(c *fiber.Ctx, s *Session) error {
	s.Controller.SetSearch(c.UserContext(), c.FormValue("search"))
	return h.done(c)
}

func (h *Handlers) openDetails(c *fiber.Ctx, s *Session) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return badID(c)
	}
	s.Controller.OpenDetails(id)
	return h.done(c)
}

func (h *Handlers) changeStatus(c *fiber.Ctx, s *Session) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return badID(c)
	}
	status := strings.TrimSpace(c.FormValue("status"))
	if status == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "Status is required",
		})
	}
	s.Controller.ChangeStatus(c.UserContext(), id, status)
	return h.done(c)
}

func (h *Handlers) markDone(c *fiber.Ctx, s *Session) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return badID(c)
	}
	s.Controller.MarkDone(c.UserContext(), id)
	return h.done(c)
}

func (h *Handlers) openNote(c *fiber.Ctx, s *Session) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return badID(c)
	}
	s.Controller.OpenNote(id)
	return h.done(c)
}

func (h *Handlers) saveNote(c *fiber.Ctx, s *Session) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return badID(c)
	}
	s.Controller.SaveNote(c.UserContext(), id, c.FormValue("note"), c.FormValue("note_taker"))
	return h.done(c)
}

func (h *Handlers) close(c *fiber.Ctx, s *Session) error {
	switch c.FormValue("modal") {
	case "detail":
		s.Controller.CloseDetails()
	case "note":
		s.Controller.CloseNote()
	default:
		s.Controller.CloseAll()
	}
	return h.done(c)
}

func (h *Handlers) message(c *fiber.Ctx, s *Session) error {
	msg, err := core.DecodeMessage(c.Body())
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": err.Error(),
		})
	}
	s.Controller.HandleMessage(msg)
	return c.JSON(fiber.Map{"success": true})
}

// done answers form posts with a redirect to the page and JSON clients with the new state
func (h *Handlers) done(c *fiber.Ctx) error {
	if strings.Contains(c.Get(fiber.HeaderAccept), fiber.MIMEApplicationJSON) {
		return c.JSON(fiber.Map{"success": true})
	}
	return c.Redirect("/", fiber.StatusSeeOther)
}

func badID(c *fiber.Ctx) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"success": false,
		"message": "Invalid organization id",
	})
}
