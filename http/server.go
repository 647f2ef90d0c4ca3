package http

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/joCur/later-server/auth"
	"github.com/joCur/later-server/domain"
	"github.com/joCur/later-server/events"
	"github.com/joCur/later-server/repository"
)

type Server struct {
	log       zerolog.Logger
	spaces    *repository.Spaces
	notes     *repository.Notes
	todoLists *repository.TodoLists
	lists     *repository.Lists
	hub       *events.Hub
}

func NewServer(log zerolog.Logger, spaces *repository.Spaces, notes *repository.Notes, todoLists *repository.TodoLists, lists *repository.Lists, hub *events.Hub) *Server {
	return &Server{log: log, spaces: spaces, notes: notes, todoLists: todoLists, lists: lists, hub: hub}
}

func (s *Server) App(reg *auth.Registry) *fiber.App {
	app := fiber.New(fiber.Config{
		ErrorHandler:          s.errorHandler,
		DisableStartupMessage: true,
	})
	app.Use(s.requestLogger())

	api := app.Group("/api", auth.Middleware(reg))

	api.Get("/spaces", s.handleListSpaces)
	api.Post("/spaces", s.handleCreateSpace)
	api.Get("/spaces/:id", s.handleGetSpace)
	api.Put("/spaces/:id", s.handleUpdateSpace)
	api.Delete("/spaces/:id", s.handleDeleteSpace)
	api.Post("/spaces/:id/archive", s.handleArchiveSpace)
	api.Get("/spaces/:id/items/count", s.handleSpaceItemCount)
	api.Delete("/spaces/:id/contents", s.handleDeleteSpaceContents)

	api.Get("/notes", s.handleListNotes)
	api.Post("/notes", s.handleCreateNote)
	api.Get("/notes/:id", s.handleGetNote)
	api.Put("/notes/:id", s.handleUpdateNote)
	api.Delete("/notes/:id", s.handleDeleteNote)
	api.Post("/notes/reorder", s.handleReorderNotes)

	api.Get("/todo-lists", s.handleListTodoLists)
	api.Post("/todo-lists", s.handleCreateTodoList)
	api.Get("/todo-lists/:id", s.handleGetTodoList)
	api.Put("/todo-lists/:id", s.handleUpdateTodoList)
	api.Delete("/todo-lists/:id", s.handleDeleteTodoList)
	api.Post("/todo-lists/:id/recount", s.handleRecountTodoList)
	api.Get("/todo-lists/:id/items", s.handleListTodoItems)
	api.Post("/todo-lists/:id/items", s.handleCreateTodoItem)
	api.Delete("/todo-lists/:id/items", s.handleDeleteAllTodoItems)
	api.Post("/todo-lists/:id/items/reorder", s.handleReorderTodoItems)
	api.Put("/todo-lists/:id/items/:itemID", s.handleUpdateTodoItem)
	api.Delete("/todo-lists/:id/items/:itemID", s.handleDeleteTodoItem)
	api.Post("/todo-lists/:id/items/:itemID/toggle", s.handleToggleTodoItem)

	api.Get("/lists", s.handleListLists)
	api.Post("/lists", s.handleCreateList)
	api.Get("/lists/:id", s.handleGetList)
	api.Put("/lists/:id", s.handleUpdateList)
	api.Delete("/lists/:id", s.handleDeleteList)
	api.Post("/lists/:id/recount", s.handleRecountList)
	api.Get("/lists/:id/items", s.handleListListItems)
	api.Post("/lists/:id/items", s.handleCreateListItem)
	api.Delete("/lists/:id/items", s.handleDeleteAllListItems)
	api.Post("/lists/:id/items/reorder", s.handleReorderListItems)
	api.Put("/lists/:id/items/:itemID", s.handleUpdateListItem)
	api.Delete("/lists/:id/items/:itemID", s.handleDeleteListItem)
	api.Post("/lists/:id/items/:itemID/toggle", s.handleToggleListItem)

	api.Get("/events", s.handleEvents)

	return app
}

func (s *Server) errorHandler(c *fiber.Ctx, err error) error {
	var fe *fiber.Error
	if errors.As(err, &fe) {
		return c.Status(fe.Code).JSON(fiber.Map{"error": fe.Message})
	}

	status := fiber.StatusInternalServerError
	switch domain.KindOf(err) {
	case domain.KindNotFound:
		status = fiber.StatusNotFound
	case domain.KindInvalidArgument:
		status = fiber.StatusBadRequest
	case domain.KindConstraintViolation:
		status = fiber.StatusConflict
	case domain.KindPermissionDenied:
		status = fiber.StatusForbidden
	case domain.KindNetworkTimeout:
		status = fiber.StatusGatewayTimeout
	case domain.KindNetworkUnavailable:
		status = fiber.StatusBadGateway
	}
	if status == fiber.StatusInternalServerError {
		s.log.Error().Err(err).Str("path", c.Path()).Msg("unclassified failure")
	}
	return c.Status(status).JSON(fiber.Map{"error": err.Error()})
}

func (s *Server) requestLogger() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()
		s.log.Info().
			Str("method", c.Method()).
			Str("path", c.Path()).
			Int("status", c.Response().StatusCode()).
			Dur("elapsed", time.Since(start)).
			Msg("request")
		return err
	}
}

// owner pulls the authenticated user or fails the request; the auth
// middleware guarantees it for every /api route.
func owner(c *fiber.Ctx) (string, error) {
	id, ok := auth.UserID(c)
	if !ok {
		return "", fiber.NewError(fiber.StatusUnauthorized, "not authenticated")
	}
	return id, nil
}
