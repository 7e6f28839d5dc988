package middleware

import (
	"github.com/MicahParks/keyfunc/v3"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo/v4"
	"github.com/rabbitmq/amqp091-go"

	"github.com/netweave/intrograph/backend/pkg/graph"
	"github.com/netweave/intrograph/backend/pkg/leaselock"
)

type AppUser struct {
	UserID      int64
	Role        string
	Permissions []string
}

// App carries the process-wide collaborators handlers need. It is built
// once at boot and passed by reference through the request context; there
// is no package-level singleton.
type App struct {
	DBConn         *pgxpool.Pool
	Queue          *amqp091.Channel
	Key            *keyfunc.Keyfunc
	Locks          *leaselock.Client
	Engine         *graph.GraphClient
	MasterAPIKey   string
	MasterUserID   int64
	MasterUserRole string
}

type AppContext struct {
	echo.Context
	App  *App
	User *AppUser
}

func AppContextMiddleware(app *App) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			return next(&AppContext{
				Context: c,
				App:     app,
			})
		}
	}
}
