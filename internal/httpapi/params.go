package httpapi

import (
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/bilgann/The-Backdoor-Mission-Project/internal/model"
	"github.com/bilgann/The-Backdoor-Mission-Project/internal/service"
)

func badRequest(field, message string) *service.Error {
	return &service.Error{
		Kind:    service.KindValidation,
		Message: message,
		Fields:  map[string][]string{field: {message}},
	}
}

func pathID(c *fiber.Ctx) (int64, error) {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, badRequest("id", "id must be a positive integer")
	}
	return id, nil
}

func bindJSON(c *fiber.Ctx, out any) error {
	if err := c.BodyParser(out); err != nil {
		return &service.Error{Kind: service.KindValidation, Message: "invalid request body", Err: err}
	}
	return nil
}

type queryReader struct {
	c   *fiber.Ctx
	err error
}

func (q *queryReader) str(key string) string {
	return strings.TrimSpace(q.c.Query(key))
}

func (q *queryReader) id(key string) *int64 {
	s := q.str(key)
	if s == "" || q.err != nil {
		return nil
	}
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		q.err = badRequest(key, key+" must be an integer")
		return nil
	}
	return &v
}

func (q *queryReader) num(key string) *int {
	v := q.id(key)
	if v == nil {
		return nil
	}
	n := int(*v)
	return &n
}

func (q *queryReader) flag(key string) *bool {
	s := q.str(key)
	if s == "" || q.err != nil {
		return nil
	}
	v, err := strconv.ParseBool(s)
	if err != nil {
		q.err = badRequest(key, key+" must be a boolean")
		return nil
	}
	return &v
}

func (q *queryReader) date(key string) *model.Date {
	s := q.str(key)
	if s == "" || q.err != nil {
		return nil
	}
	d, err := model.ParseDate(s)
	if err != nil {
		q.err = badRequest(key, key+" must be a date (YYYY-MM-DD)")
		return nil
	}
	return &d
}

// listFilter reads the list query parameters shared by every record type.
func listFilter(c *fiber.Ctx) (service.ListFilter, error) {
	q := &queryReader{c: c}
	f := service.ListFilter{
		ClientID:   q.id("client_id"),
		ActivityID: q.id("activity_id"),
		Date:       q.date("date"),
		From:       q.date("start_date"),
		To:         q.date("end_date"),
		Washroom:   strings.ToUpper(q.str("washroom_type")),
		BinNo:      q.num("bin_no"),
		BedNo:      q.num("bed_no"),
		IsOccupied: q.flag("is_occupied"),
		FullName:   q.str("full_name"),
	}
	if open := q.flag("open"); open != nil {
		f.OpenOnly = *open
	}
	if p := q.num("page"); p != nil {
		f.Page = *p
	}
	if s := q.num("page_size"); s != nil {
		f.PageSize = *s
	}
	if q.err != nil {
		return service.ListFilter{}, q.err
	}
	return f, nil
}
