package http

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/joCur/later-server/domain"
)

func (s *Server) handleListSpaces(c *fiber.Ctx) error {
	ownerID, err := owner(c)
	if err != nil {
		return err
	}
	spaces, err := s.spaces.ListByOwner(c.Context(), ownerID)
	if err != nil {
		return err
	}
	return c.JSON(spaces)
}

func (s *Server) handleCreateSpace(c *fiber.Ctx) error {
	ownerID, err := owner(c)
	if err != nil {
		return err
	}
	var req struct {
		ID    string `json:"id"`
		Name  string `json:"name"`
		Icon  string `json:"icon"`
		Color string `json:"color"`
	}
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}
	if req.Name == "" {
		return fiber.NewError(fiber.StatusBadRequest, "space name required")
	}
	space, err := s.spaces.Create(c.Context(), domain.Space{
		ID:      req.ID,
		Name:    req.Name,
		Icon:    domain.ParseIcon(req.Icon),
		Color:   req.Color,
		OwnerID: ownerID,
	})
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(space)
}

func (s *Server) handleGetSpace(c *fiber.Ctx) error {
	space, err := s.spaces.GetByID(c.Context(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(space)
}

func (s *Server) handleUpdateSpace(c *fiber.Ctx) error {
	ownerID, err := owner(c)
	if err != nil {
		return err
	}
	var req struct {
		Name     string `json:"name"`
		Icon     string `json:"icon"`
		Color    string `json:"color"`
		Archived bool   `json:"archived"`
	}
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}
	space, err := s.spaces.Update(c.Context(), domain.Space{
		ID:       c.Params("id"),
		Name:     req.Name,
		Icon:     domain.ParseIcon(req.Icon),
		Color:    req.Color,
		Archived: req.Archived,
		OwnerID:  ownerID,
	})
	if err != nil {
		return err
	}
	return c.JSON(space)
}

func (s *Server) handleDeleteSpace(c *fiber.Ctx) error {
	if err := s.spaces.Delete(c.Context(), c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (s *Server) handleArchiveSpace(c *fiber.Ctx) error {
	space, err := s.spaces.Archive(c.Context(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(space)
}

func (s *Server) handleSpaceItemCount(c *fiber.Ctx) error {
	count, err := s.spaces.ItemCount(c.Context(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"count": count})
}

func (s *Server) handleDeleteSpaceContents(c *fiber.Ctx) error {
	deleted, err := s.spaces.DeleteAllContents(c.Context(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"deleted": deleted})
}

func (s *Server) handleListNotes(c *fiber.Ctx) error {
	ownerID, err := owner(c)
	if err != nil {
		return err
	}
	if spaceID := c.Query("space_id"); spaceID != "" {
		notes, err := s.notes.GetBySpace(c.Context(), spaceID)
		if err != nil {
			return err
		}
		return c.JSON(notes)
	}
	if tag := c.Query("tag"); tag != "" {
		notes, err := s.notes.GetByTag(c.Context(), ownerID, tag)
		if err != nil {
			return err
		}
		return c.JSON(notes)
	}
	notes, err := s.notes.Search(c.Context(), ownerID, c.Query("q"))
	if err != nil {
		return err
	}
	return c.JSON(notes)
}

func (s *Server) handleCreateNote(c *fiber.Ctx) error {
	ownerID, err := owner(c)
	if err != nil {
		return err
	}
	var req struct {
		ID       string   `json:"id"`
		Title    string   `json:"title"`
		Content  string   `json:"content"`
		Tags     []string `json:"tags"`
		SpaceID  string   `json:"space_id"`
		Favorite bool     `json:"favorite"`
	}
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}
	if req.SpaceID == "" {
		return fiber.NewError(fiber.StatusBadRequest, "space_id required")
	}
	note, err := s.notes.Create(c.Context(), domain.Note{
		ID:       req.ID,
		Title:    req.Title,
		Content:  req.Content,
		Tags:     req.Tags,
		SpaceID:  req.SpaceID,
		OwnerID:  ownerID,
		Favorite: req.Favorite,
	})
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(note)
}

func (s *Server) handleGetNote(c *fiber.Ctx) error {
	note, err := s.notes.GetByID(c.Context(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(note)
}

func (s *Server) handleUpdateNote(c *fiber.Ctx) error {
	ownerID, err := owner(c)
	if err != nil {
		return err
	}
	var req struct {
		Title     string   `json:"title"`
		Content   string   `json:"content"`
		Tags      []string `json:"tags"`
		SpaceID   string   `json:"space_id"`
		Favorite  bool     `json:"favorite"`
		Archived  bool     `json:"archived"`
		SortOrder int      `json:"sort_order"`
	}
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}
	note, err := s.notes.Update(c.Context(), domain.Note{
		ID:        c.Params("id"),
		Title:     req.Title,
		Content:   req.Content,
		Tags:      req.Tags,
		SpaceID:   req.SpaceID,
		OwnerID:   ownerID,
		Favorite:  req.Favorite,
		Archived:  req.Archived,
		SortOrder: req.SortOrder,
	})
	if err != nil {
		return err
	}
	return c.JSON(note)
}

func (s *Server) handleDeleteNote(c *fiber.Ctx) error {
	if err := s.notes.Delete(c.Context(), c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (s *Server) handleReorderNotes(c *fiber.Ctx) error {
	var req struct {
		SpaceID string `json:"space_id"`
		From    int    `json:"from"`
		To      int    `json:"to"`
	}
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}
	notes, err := s.notes.Reorder(c.Context(), req.SpaceID, req.From, req.To)
	if err != nil {
		return err
	}
	return c.JSON(notes)
}

func (s *Server) handleListTodoLists(c *fiber.Ctx) error {
	spaceID := c.Query("space_id")
	if spaceID == "" {
		return fiber.NewError(fiber.StatusBadRequest, "space_id required")
	}
	lists, err := s.todoLists.GetBySpace(c.Context(), spaceID)
	if err != nil {
		return err
	}
	return c.JSON(lists)
}

func (s *Server) handleCreateTodoList(c *fiber.Ctx) error {
	ownerID, err := owner(c)
	if err != nil {
		return err
	}
	var req struct {
		ID          string `json:"id"`
		Name        string `json:"name"`
		Description string `json:"description"`
		SpaceID     string `json:"space_id"`
		Color       string `json:"color"`
		Icon        string `json:"icon"`
	}
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}
	if req.Name == "" || req.SpaceID == "" {
		return fiber.NewError(fiber.StatusBadRequest, "name and space_id required")
	}
	list, err := s.todoLists.Create(c.Context(), domain.TodoList{
		ID:          req.ID,
		Name:        req.Name,
		Description: req.Description,
		SpaceID:     req.SpaceID,
		OwnerID:     ownerID,
		Color:       req.Color,
		Icon:        domain.ParseIcon(req.Icon),
	})
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(list)
}

func (s *Server) handleGetTodoList(c *fiber.Ctx) error {
	list, err := s.todoLists.GetByID(c.Context(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(list)
}

func (s *Server) handleUpdateTodoList(c *fiber.Ctx) error {
	ownerID, err := owner(c)
	if err != nil {
		return err
	}
	var req struct {
		Name        string `json:"name"`
		Description string `json:"description"`
		SpaceID     string `json:"space_id"`
		Color       string `json:"color"`
		Icon        string `json:"icon"`
	}
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}
	list, err := s.todoLists.Update(c.Context(), domain.TodoList{
		ID:          c.Params("id"),
		Name:        req.Name,
		Description: req.Description,
		SpaceID:     req.SpaceID,
		OwnerID:     ownerID,
		Color:       req.Color,
		Icon:        domain.ParseIcon(req.Icon),
	})
	if err != nil {
		return err
	}
	return c.JSON(list)
}

func (s *Server) handleDeleteTodoList(c *fiber.Ctx) error {
	if err := s.todoLists.Delete(c.Context(), c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (s *Server) handleRecountTodoList(c *fiber.Ctx) error {
	list, err := s.todoLists.Recount(c.Context(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(list)
}

func (s *Server) handleListTodoItems(c *fiber.Ctx) error {
	items, err := s.todoLists.Items(c.Context(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(items)
}

func (s *Server) handleCreateTodoItem(c *fiber.Ctx) error {
	ownerID, err := owner(c)
	if err != nil {
		return err
	}
	var req struct {
		ID          string     `json:"id"`
		Title       string     `json:"title"`
		Description string     `json:"description"`
		Completed   bool       `json:"completed"`
		DueDate     *time.Time `json:"due_date"`
		Priority    string     `json:"priority"`
		Tags        []string   `json:"tags"`
	}
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}
	if req.Title == "" {
		return fiber.NewError(fiber.StatusBadRequest, "item title required")
	}
	item, err := s.todoLists.AddItem(c.Context(), domain.TodoItem{
		ID:          req.ID,
		TodoListID:  c.Params("id"),
		OwnerID:     ownerID,
		Title:       req.Title,
		Description: req.Description,
		Completed:   req.Completed,
		DueDate:     req.DueDate,
		Priority:    domain.Priority(req.Priority),
		Tags:        req.Tags,
	})
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(item)
}

func (s *Server) handleUpdateTodoItem(c *fiber.Ctx) error {
	ownerID, err := owner(c)
	if err != nil {
		return err
	}
	var req struct {
		Title       string     `json:"title"`
		Description string     `json:"description"`
		Completed   bool       `json:"completed"`
		DueDate     *time.Time `json:"due_date"`
		Priority    string     `json:"priority"`
		Tags        []string   `json:"tags"`
		SortOrder   int        `json:"sort_order"`
	}
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}
	item, err := s.todoLists.UpdateItem(c.Context(), domain.TodoItem{
		ID:          c.Params("itemID"),
		TodoListID:  c.Params("id"),
		OwnerID:     ownerID,
		Title:       req.Title,
		Description: req.Description,
		Completed:   req.Completed,
		DueDate:     req.DueDate,
		Priority:    domain.Priority(req.Priority),
		Tags:        req.Tags,
		SortOrder:   req.SortOrder,
	})
	if err != nil {
		return err
	}
	return c.JSON(item)
}

func (s *Server) handleDeleteTodoItem(c *fiber.Ctx) error {
	if err := s.todoLists.DeleteItem(c.Context(), c.Params("itemID")); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (s *Server) handleDeleteAllTodoItems(c *fiber.Ctx) error {
	deleted, err := s.todoLists.DeleteAllItems(c.Context(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"deleted": deleted})
}

func (s *Server) handleReorderTodoItems(c *fiber.Ctx) error {
	var req struct {
		From int `json:"from"`
		To   int `json:"to"`
	}
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}
	items, err := s.todoLists.ReorderItems(c.Context(), c.Params("id"), req.From, req.To)
	if err != nil {
		return err
	}
	return c.JSON(items)
}

func (s *Server) handleToggleTodoItem(c *fiber.Ctx) error {
	item, err := s.todoLists.ToggleItem(c.Context(), c.Params("id"), c.Params("itemID"))
	if err != nil {
		return err
	}
	return c.JSON(item)
}

func (s *Server) handleListLists(c *fiber.Ctx) error {
	spaceID := c.Query("space_id")
	if spaceID == "" {
		return fiber.NewError(fiber.StatusBadRequest, "space_id required")
	}
	lists, err := s.lists.GetBySpace(c.Context(), spaceID)
	if err != nil {
		return err
	}
	return c.JSON(lists)
}

func (s *Server) handleCreateList(c *fiber.Ctx) error {
	ownerID, err := owner(c)
	if err != nil {
		return err
	}
	var req struct {
		ID          string `json:"id"`
		Name        string `json:"name"`
		Description string `json:"description"`
		SpaceID     string `json:"space_id"`
		Color       string `json:"color"`
		Icon        string `json:"icon"`
		Style       string `json:"style"`
	}
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}
	if req.Name == "" || req.SpaceID == "" {
		return fiber.NewError(fiber.StatusBadRequest, "name and space_id required")
	}
	list, err := s.lists.Create(c.Context(), domain.List{
		ID:          req.ID,
		Name:        req.Name,
		Description: req.Description,
		SpaceID:     req.SpaceID,
		OwnerID:     ownerID,
		Color:       req.Color,
		Icon:        domain.ParseIcon(req.Icon),
		Style:       domain.ListStyle(req.Style),
	})
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(list)
}

func (s *Server) handleGetList(c *fiber.Ctx) error {
	list, err := s.lists.GetByID(c.Context(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(list)
}

func (s *Server) handleUpdateList(c *fiber.Ctx) error {
	ownerID, err := owner(c)
	if err != nil {
		return err
	}
	var req struct {
		Name        string `json:"name"`
		Description string `json:"description"`
		SpaceID     string `json:"space_id"`
		Color       string `json:"color"`
		Icon        string `json:"icon"`
		Style       string `json:"style"`
	}
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}
	list, err := s.lists.Update(c.Context(), domain.List{
		ID:          c.Params("id"),
		Name:        req.Name,
		Description: req.Description,
		SpaceID:     req.SpaceID,
		OwnerID:     ownerID,
		Color:       req.Color,
		Icon:        domain.ParseIcon(req.Icon),
		Style:       domain.ListStyle(req.Style),
	})
	if err != nil {
		return err
	}
	return c.JSON(list)
}

func (s *Server) handleDeleteList(c *fiber.Ctx) error {
	if err := s.lists.Delete(c.Context(), c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (s *Server) handleRecountList(c *fiber.Ctx) error {
	list, err := s.lists.Recount(c.Context(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(list)
}

func (s *Server) handleListListItems(c *fiber.Ctx) error {
	items, err := s.lists.Items(c.Context(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(items)
}

func (s *Server) handleCreateListItem(c *fiber.Ctx) error {
	ownerID, err := owner(c)
	if err != nil {
		return err
	}
	var req struct {
		ID          string   `json:"id"`
		Title       string   `json:"title"`
		Description string   `json:"description"`
		Checked     bool     `json:"checked"`
		Tags        []string `json:"tags"`
	}
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}
	if req.Title == "" {
		return fiber.NewError(fiber.StatusBadRequest, "item title required")
	}
	item, err := s.lists.AddItem(c.Context(), domain.ListItem{
		ID:          req.ID,
		ListID:      c.Params("id"),
		OwnerID:     ownerID,
		Title:       req.Title,
		Description: req.Description,
		Checked:     req.Checked,
		Tags:        req.Tags,
	})
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(item)
}

func (s *Server) handleUpdateListItem(c *fiber.Ctx) error {
	ownerID, err := owner(c)
	if err != nil {
		return err
	}
	var req struct {
		Title       string   `json:"title"`
		Description string   `json:"description"`
		Checked     bool     `json:"checked"`
		Tags        []string `json:"tags"`
		SortOrder   int      `json:"sort_order"`
	}
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}
	item, err := s.lists.UpdateItem(c.Context(), domain.ListItem{
		ID:          c.Params("itemID"),
		ListID:      c.Params("id"),
		OwnerID:     ownerID,
		Title:       req.Title,
		Description: req.Description,
		Checked:     req.Checked,
		Tags:        req.Tags,
		SortOrder:   req.SortOrder,
	})
	if err != nil {
		return err
	}
	return c.JSON(item)
}

func (s *Server) handleDeleteListItem(c *fiber.Ctx) error {
	if err := s.lists.DeleteItem(c.Context(), c.Params("itemID")); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (s *Server) handleDeleteAllListItems(c *fiber.Ctx) error {
	deleted, err := s.lists.DeleteAllItems(c.Context(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"deleted": deleted})
}

func (s *Server) handleReorderListItems(c *fiber.Ctx) error {
	var req struct {
		From int `json:"from"`
		To   int `json:"to"`
	}
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}
	items, err := s.lists.ReorderItems(c.Context(), c.Params("id"), req.From, req.To)
	if err != nil {
		return err
	}
	return c.JSON(items)
}

func (s *Server) handleToggleListItem(c *fiber.Ctx) error {
	item, err := s.lists.ToggleItem(c.Context(), c.Params("id"), c.Params("itemID"))
	if err != nil {
		return err
	}
	return c.JSON(item)
}
