package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/url"
	"time"

	"backend/internal/schedule"
	"backend/internal/store"

	"github.com/aws/aws-lambda-go/events"
)

type Startup struct {
	StartupName       string   `json:"startup_name" dynamodbav:"startup_name"`
	Summary           string   `json:"summary" dynamodbav:"summary"`
	SessionCategories []string `json:"session_categories" dynamodbav:"session_categories"`
	CreatedAt         string   `json:"created_at" dynamodbav:"created_at"`
	UpdatedAt         string   `json:"updated_at,omitempty" dynamodbav:"updated_at,omitempty"`
}

// startupFields is the whitelist of attributes a PUT may change. The name is
// the key and stays immutable.
var startupFields = []string{"summary", "session_categories"}

// Startups serves the startup directory routes, keyed by startup_name.
type Startups struct {
	store *store.Store[Startup]
}

func NewStartups(api store.API, table string) *Startups {
	return &Startups{store: store.New[Startup](api, table, "startup_name")}
}

func (h *Startups) Handle(ctx context.Context, req events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	name := pathName(req.PathParameters["startup_name"])

	switch req.HTTPMethod {
	case "GET":
		if name != "" {
			return h.get(ctx, name)
		}
		return h.list(ctx)
	case "POST":
		return h.create(ctx, req.Body)
	case "PUT":
		if name != "" {
			return h.update(ctx, name, req.Body)
		}
	case "DELETE":
		if name != "" {
			return h.delete(ctx, name)
		}
	}
	return msgResp(400, "Invalid request")
}

// pathName undoes the URL encoding of a name captured from the path; names
// routinely contain spaces.
func pathName(raw string) string {
	name, err := url.PathUnescape(raw)
	if err != nil {
		return raw
	}
	return name
}

func (h *Startups) list(ctx context.Context) (events.APIGatewayProxyResponse, error) {
	startups, err := h.store.List(ctx, nil)
	if err != nil {
		log.Printf("listing startups: %v", err)
		return msgResp(500, "Internal server error")
	}
	return jsonResp(200, startups)
}

func (h *Startups) get(ctx context.Context, name string) (events.APIGatewayProxyResponse, error) {
	startup, err := h.store.Get(ctx, name)
	if errors.Is(err, store.ErrNotFound) {
		return msgResp(404, "Startup not found")
	}
	if err != nil {
		log.Printf("fetching startup %s: %v", name, err)
		return msgResp(500, "Internal server error")
	}
	return jsonResp(200, startup)
}

func (h *Startups) create(ctx context.Context, body string) (events.APIGatewayProxyResponse, error) {
	var in Startup
	if err := json.Unmarshal([]byte(body), &in); err != nil {
		return msgResp(400, "Invalid request body")
	}
	if in.StartupName == "" || in.Summary == "" {
		return msgResp(400, "Missing required fields: startup_name and summary are required")
	}
	if in.SessionCategories == nil {
		in.SessionCategories = []string{}
	}
	in.CreatedAt = schedule.ToISOString(time.Now())
	in.UpdatedAt = ""

	err := h.store.Create(ctx, in, true)
	if errors.Is(err, store.ErrConflict) {
		return msgResp(409, "A startup with this name already exists")
	}
	if err != nil {
		log.Printf("creating startup %s: %v", in.StartupName, err)
		return msgResp(500, "Internal server error")
	}
	return jsonResp(201, in)
}

func (h *Startups) update(ctx context.Context, name, body string) (events.APIGatewayProxyResponse, error) {
	var in map[string]any
	if err := json.Unmarshal([]byte(body), &in); err != nil {
		return msgResp(400, "Invalid request body")
	}

	startup, err := h.store.Update(ctx, name, store.NewPatch(startupFields, in))
	if errors.Is(err, store.ErrNotFound) {
		return msgResp(404, "Startup not found")
	}
	if err != nil {
		log.Printf("updating startup %s: %v", name, err)
		return msgResp(500, "Internal server error")
	}
	return jsonResp(200, startup)
}

func (h *Startups) delete(ctx context.Context, name string) (events.APIGatewayProxyResponse, error) {
	if err := h.store.Delete(ctx, name); err != nil {
		log.Printf("deleting startup %s: %v", name, err)
		return msgResp(500, "Internal server error")
	}
	return noContentResp()
}
