package httpapi

import (
	"errors"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/i474232898/live-wallpaper/internal/imagery"
	"github.com/i474232898/live-wallpaper/internal/wallpaper"
)

var validate = validator.New()

// Trigger starts an extra wallpaper cycle outside the schedule.
type Trigger interface {
	RunNow() error
}

// NewApp builds the Fiber app with middleware, the health endpoint and the API routes.
func NewApp(service *wallpaper.Service, trigger Trigger) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:               "live-wallpaper",
		DisableStartupMessage: true,
		ReadTimeout:           10 * time.Second,
		WriteTimeout:          30 * time.Second,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			// Centralized error response
			code := fiber.StatusInternalServerError
			var e *fiber.Error
			if errors.As(err, &e) {
				code = e.Code
			}
			return c.Status(code).JSON(fiber.Map{
				"error":   true,
				"message": err.Error(),
			})
		},
	})

	app.Use(logger.New())
	app.Use(recover.New())

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":  "ok",
			"service": "live-wallpaper",
		})
	})

	RegisterRoutes(app, service, trigger)
	return app
}

// RegisterRoutes wires the HTTP handlers into the Fiber app.
func RegisterRoutes(app *fiber.App, service *wallpaper.Service, trigger Trigger) {
	v1 := app.Group("/api/v1")

	v1.Get("/wallpaper/status", func(c *fiber.Ctx) error {
		sat, err := parseSatellite(c.Query("satellite"), service.Satellite())
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		rec, err := service.GetLatest(sat)
		if err != nil {
			if errors.Is(err, wallpaper.ErrNoHistory) {
				return fiber.NewError(fiber.StatusNotFound, "no wallpaper runs for requested satellite")
			}
			return fiber.NewError(fiber.StatusInternalServerError, "failed to fetch wallpaper status")
		}

		return c.JSON(rec)
	})

	v1.Get("/wallpaper/history", func(c *fiber.Ctx) error {
		var req historyQuery
		if err := req.bind(c, service.Satellite()); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		if err := validate.Struct(req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		runs, err := service.GetRange(req.Satellite, req.From, req.To)
		if err != nil {
			if errors.Is(err, wallpaper.ErrNoHistory) {
				return fiber.NewError(fiber.StatusNotFound, "no wallpaper runs for requested range")
			}
			return fiber.NewError(fiber.StatusInternalServerError, "failed to fetch wallpaper history")
		}

		return c.JSON(fiber.Map{
			"satellite": req.Satellite,
			"from":      req.From,
			"to":        req.To,
			"runs":      runs,
		})
	})

	v1.Get("/wallpaper/image", func(c *fiber.Ctx) error {
		path, err := filepath.Abs(service.OutputPath())
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "failed to resolve output path")
		}
		if _, err := os.Stat(path); err != nil {
			return fiber.NewError(fiber.StatusNotFound, "wallpaper has not been written yet")
		}
		return c.SendFile(path)
	})

	v1.Post("/wallpaper/refresh", func(c *fiber.Ctx) error {
		if trigger == nil {
			return fiber.NewError(fiber.StatusServiceUnavailable, "scheduler is not running")
		}
		if err := trigger.RunNow(); err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
		return c.Status(fiber.StatusAccepted).JSON(fiber.Map{
			"status": "scheduled",
		})
	})

	v1.Get("/satellites/:satellite/dates", func(c *fiber.Ctx) error {
		sat, err := parseSatellite(c.Params("satellite"), "")
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		dates, err := service.ListDates(c.UserContext(), sat)
		if err != nil {
			switch {
			case errors.Is(err, imagery.ErrRemoteUnavailable), errors.Is(err, imagery.ErrMalformedResponse):
				return fiber.NewError(fiber.StatusBadGateway, err.Error())
			default:
				return fiber.NewError(fiber.StatusInternalServerError, "failed to list dates")
			}
		}

		resp := fiber.Map{
			"satellite": sat,
			"dates":     dates,
		}
		if len(dates) > 0 {
			resp["latest"] = dates[len(dates)-1]
		}
		return c.JSON(resp)
	})
}

// satelliteQuery identifies the satellite a request is about.
type satelliteQuery struct {
	Satellite string `validate:"required,max=64,excludesall=/?#%"`
}

func parseSatellite(raw, def string) (string, error) {
	q := satelliteQuery{Satellite: raw}
	if q.Satellite == "" {
		q.Satellite = def
	}
	if err := validate.Struct(q); err != nil {
		return "", err
	}
	return q.Satellite, nil
}

// historyQuery holds query parameters for the history endpoint.
type historyQuery struct {
	Satellite string
	From      time.Time `validate:"required"`
	To        time.Time `validate:"required,gtefield=From"`
}

func (h *historyQuery) bind(c *fiber.Ctx, defaultSatellite string) error {
	sat, err := parseSatellite(c.Query("satellite"), defaultSatellite)
	if err != nil {
		return err
	}
	h.Satellite = sat

	fromStr := c.Query("from")
	toStr := c.Query("to")
	if fromStr == "" || toStr == "" {
		return errors.New("from and to query parameters are required")
	}

	from, err := parseTime(fromStr)
	if err != nil {
		return err
	}
	to, err := parseTime(toStr)
	if err != nil {
		return err
	}

	h.From = from
	h.To = to
	return nil
}

// parseTime tries to parse either RFC3339 or Unix seconds.
func parseTime(s string) (time.Time, error) {
	if ts, err := time.Parse(time.RFC3339, s); err == nil {
		return ts, nil
	}
	if unix, err := strconv.ParseInt(s, 10, 64); err == nil {
		return time.Unix(unix, 0).UTC(), nil
	}
	return time.Time{}, errors.New("invalid time format; use RFC3339 or unix seconds")
}
