package registry

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"

	"cookiegate/entity"
	"cookiegate/lib/api/cont"
	"cookiegate/lib/api/response"
	"cookiegate/lib/sl"
	"cookiegate/lib/validate"
)

type Core interface {
	ListUsers() (map[string]*entity.User, error)
	ListCodes() ([]string, error)
	GenerateCodes(issuer string, count int) ([]string, error)
}

// Users returns the registered identities with their redeemed codes.
func Users(logger *slog.Logger, handler Core) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := logger.With(
			sl.Module("http.handlers.registry"),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		users, err := handler.ListUsers()
		if err != nil {
			log.Error("listing users", sl.Err(err))
			render.JSON(w, r, response.Error(fmt.Sprintf("Request failed: %v", err)))
			return
		}

		render.JSON(w, r, response.Ok(users))
	}
}

type generateRequest struct {
	Count int `json:"count" validate:"required,min=1"`
}

func (g *generateRequest) Bind(_ *http.Request) error {
	return validate.Struct(g)
}

// Generate issues a batch of redeem codes, the HTTP twin of /gen.
// The authenticated caller label is recorded as the issuer.
func Generate(logger *slog.Logger, handler Core) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := logger.With(
			sl.Module("http.handlers.registry"),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		req := &generateRequest{}
		if err := render.Bind(r, req); err != nil {
			log.Warn("invalid generate request", sl.Err(err))
			render.Status(r, 400)
			render.JSON(w, r, response.Error("Invalid request: count must be a positive number"))
			return
		}

		codes, err := handler.GenerateCodes(cont.GetCaller(r.Context()), req.Count)
		if err != nil {
			log.Error("generating codes", sl.Err(err))
			render.JSON(w, r, response.Error(fmt.Sprintf("Request failed: %v", err)))
			return
		}
		log.With(slog.Int("count", len(codes))).Debug("codes generated")

		render.JSON(w, r, response.Ok(codes))
	}
}

// Codes returns the outstanding redeem codes.
func Codes(logger *slog.Logger, handler Core) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := logger.With(
			sl.Module("http.handlers.registry"),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		codes, err := handler.ListCodes()
		if err != nil {
			log.Error("listing codes", sl.Err(err))
			render.JSON(w, r, response.Error(fmt.Sprintf("Request failed: %v", err)))
			return
		}

		render.JSON(w, r, response.Ok(codes))
	}
}
