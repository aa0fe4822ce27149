package status

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"

	"cookiegate/lib/api/response"
	"cookiegate/lib/sl"
)

type Core interface {
	Stats() (users int, codes int, err error)
}

type counts struct {
	Users int `json:"users"`
	Codes int `json:"codes"`
}

// Stats reports the registered user count and the outstanding code count,
// the HTTP twin of the bot's /stats command.
func Stats(logger *slog.Logger, handler Core) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := logger.With(
			sl.Module("http.handlers.status"),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		users, codes, err := handler.Stats()
		if err != nil {
			log.Error("reading stats", sl.Err(err))
			render.JSON(w, r, response.Error(fmt.Sprintf("Request failed: %v", err)))
			return
		}

		render.JSON(w, r, response.Ok(counts{Users: users, Codes: codes}))
	}
}
