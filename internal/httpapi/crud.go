package httpapi

import (
	"context"

	"github.com/gofiber/fiber/v2"

	"github.com/bilgann/The-Backdoor-Mission-Project/internal/calendar"
	"github.com/bilgann/The-Backdoor-Mission-Project/internal/service"
)

// recordService is the CRUD surface every record type shares.
type recordService[T, C, U any] interface {
	Create(ctx context.Context, req C) (*T, error)
	Get(ctx context.Context, id int64) (*T, error)
	List(ctx context.Context, f service.ListFilter) (calendar.Page[T], error)
	Update(ctx context.Context, id int64, req U) (*T, error)
	Delete(ctx context.Context, id int64) error
}

// mountCRUD registers list, create, get, update and delete under path.
func mountCRUD[T, C, U any](r fiber.Router, path, entity string, svc recordService[T, C, U]) {
	g := r.Group(path)

	g.Get("/", func(c *fiber.Ctx) error {
		f, err := listFilter(c)
		if err != nil {
			return err
		}
		page, err := svc.List(c.UserContext(), f)
		if err != nil {
			return err
		}
		return c.JSON(fiber.Map{
			"success":    true,
			"message":    "ok",
			"data":       page.Items,
			"pagination": page,
		})
	})

	g.Post("/", func(c *fiber.Ctx) error {
		var req C
		if err := bindJSON(c, &req); err != nil {
			return err
		}
		out, err := svc.Create(c.UserContext(), req)
		if err != nil {
			return err
		}
		return JsonCreated(c, entity+" created", out)
	})

	g.Get("/:id", func(c *fiber.Ctx) error {
		id, err := pathID(c)
		if err != nil {
			return err
		}
		out, err := svc.Get(c.UserContext(), id)
		if err != nil {
			return err
		}
		return JsonOK(c, "", out)
	})

	update := func(c *fiber.Ctx) error {
		id, err := pathID(c)
		if err != nil {
			return err
		}
		var req U
		if err := bindJSON(c, &req); err != nil {
			return err
		}
		out, err := svc.Update(c.UserContext(), id, req)
		if err != nil {
			return err
		}
		return JsonOK(c, entity+" updated", out)
	}
	g.Put("/:id", update)
	g.Patch("/:id", update)

	g.Delete("/:id", func(c *fiber.Ctx) error {
		id, err := pathID(c)
		if err != nil {
			return err
		}
		if err := svc.Delete(c.UserContext(), id); err != nil {
			return err
		}
		return JsonDeleted(c, entity+" deleted")
	})
}
