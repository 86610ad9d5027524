package httpapi

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/bilgann/The-Backdoor-Mission-Project/internal/auth"
	"github.com/bilgann/The-Backdoor-Mission-Project/internal/export"
	"github.com/bilgann/The-Backdoor-Mission-Project/internal/service"
	"github.com/bilgann/The-Backdoor-Mission-Project/internal/stats"
)

func searchClients(svc *service.ClientService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		clients, err := svc.Search(c.UserContext(), c.Query("query"))
		if err != nil {
			return err
		}
		return JsonOK(c, "", clients)
	}
}

func suggestClients(svc *service.ClientService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		clients, err := svc.Suggest(c.UserContext(), c.Query("query"))
		if err != nil {
			return err
		}
		return JsonOK(c, "", clients)
	}
}

func recentActivity(engine *stats.Engine) fiber.Handler {
	return func(c *fiber.Ctx) error {
		limit := c.QueryInt("limit", 10)
		if limit <= 0 {
			limit = 10
		}
		if limit > 100 {
			limit = 100
		}
		dedupe := c.QueryBool("dedupe", false)

		entries, err := engine.Recent(c.UserContext(), limit, dedupe)
		if err != nil {
			return err
		}
		return JsonOK(c, "", entries)
	}
}

func cleanClients(svc *service.ClientService, log *zap.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		res, err := svc.Clean(c.UserContext())
		if err != nil {
			return err
		}
		log.Info("client data cleaned",
			zap.String("request_id", requestID(c)),
			zap.Int("standardized", res.Standardized),
			zap.Int("removed", res.Removed),
		)
		return JsonOK(c, "client data cleaned", res)
	}
}

// statistics responses carry the report fields at the top level.
type reportResponse struct {
	Success bool `json:"success"`
	*stats.Report
}

type heatmapResponse struct {
	Success bool `json:"success"`
	*stats.Heatmap
}

type scoresResponse struct {
	Success bool `json:"success"`
	*stats.ScoreReport
}

func clientStatistics(engine *stats.Engine) fiber.Handler {
	return func(c *fiber.Ctx) error {
		rep, err := engine.ClientStatistics(c.UserContext(), c.Query("range"))
		if err != nil {
			return err
		}
		return c.JSON(reportResponse{Success: true, Report: rep})
	}
}

func departmentStatistics(engine *stats.Engine, key string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		rep, err := engine.DepartmentStatistics(c.UserContext(), key, c.Query("range"))
		if err != nil {
			return err
		}
		return c.JSON(reportResponse{Success: true, Report: rep})
	}
}

func departmentHeatmap(engine *stats.Engine) fiber.Handler {
	return func(c *fiber.Ctx) error {
		dept := strings.ToLower(strings.TrimSpace(c.Query("dept")))
		if dept == "" {
			return badRequest("dept", "dept is required")
		}
		hm, err := engine.Heatmap(c.UserContext(), dept, c.Query("range", "week"))
		if err != nil {
			return err
		}
		return c.JSON(heatmapResponse{Success: true, Heatmap: hm})
	}
}

func activityScores(engine *stats.Engine) fiber.Handler {
	return func(c *fiber.Ctx) error {
		rep, err := engine.ActivityScores(c.UserContext(), c.Query("range"))
		if err != nil {
			return err
		}
		return c.JSON(scoresResponse{Success: true, ScoreReport: rep})
	}
}

func exportTable(ex *export.Exporter, log *zap.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		file, err := ex.Export(c.UserContext(), c.Params("table"))
		if err != nil {
			return err
		}
		log.Info("table exported",
			zap.String("request_id", requestID(c)),
			zap.String("table", c.Params("table")),
			zap.Int("rows", file.Rows),
		)
		c.Set(fiber.HeaderContentType, export.ContentType)
		c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+file.Name+`"`)
		return c.Send(file.Data)
	}
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func login(gate *auth.Gate, log *zap.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req loginRequest
		if err := bindJSON(c, &req); err != nil {
			return err
		}
		if err := gate.Check(req.Username, req.Password); err != nil {
			if !errors.Is(err, auth.ErrInvalidCredentials) {
				return err
			}
			log.Warn("login rejected", zap.String("request_id", requestID(c)), zap.String("ip", c.IP()))
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"success": false,
				"message": "Invalid username or password",
			})
		}
		return c.JSON(fiber.Map{"success": true, "message": "Login successful"})
	}
}
