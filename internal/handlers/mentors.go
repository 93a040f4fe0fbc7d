package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"time"

	"backend/internal/schedule"
	"backend/internal/store"

	"github.com/aws/aws-lambda-go/events"
	"github.com/google/uuid"
)

type Mentor struct {
	MentorID          string   `json:"mentor_id" dynamodbav:"mentor_id"`
	Name              string   `json:"name" dynamodbav:"name"`
	Expertise         []string `json:"expertise" dynamodbav:"expertise"`
	SessionCategories []string `json:"session_categories" dynamodbav:"session_categories"`
	CreatedAt         string   `json:"created_at" dynamodbav:"created_at"`
	UpdatedAt         string   `json:"updated_at,omitempty" dynamodbav:"updated_at,omitempty"`
}

// mentorFields is the whitelist of attributes a PUT may change.
var mentorFields = []string{"name", "expertise", "session_categories"}

// Mentors serves the mentor directory routes.
type Mentors struct {
	store *store.Store[Mentor]
}

func NewMentors(api store.API, table string) *Mentors {
	return &Mentors{store: store.New[Mentor](api, table, "mentor_id")}
}

func (h *Mentors) Handle(ctx context.Context, req events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	id := req.PathParameters["mentor_id"]

	switch req.HTTPMethod {
	case "GET":
		if id != "" {
			return h.get(ctx, id)
		}
		return h.list(ctx)
	case "POST":
		return h.create(ctx, req.Body)
	case "PUT":
		if id != "" {
			return h.update(ctx, id, req.Body)
		}
	case "DELETE":
		if id != "" {
			return h.delete(ctx, id)
		}
	}
	return msgResp(400, "Invalid request")
}

func (h *Mentors) list(ctx context.Context) (events.APIGatewayProxyResponse, error) {
	mentors, err := h.store.List(ctx, nil)
	if err != nil {
		log.Printf("listing mentors: %v", err)
		return msgResp(500, "Internal server error")
	}
	return jsonResp(200, mentors)
}

func (h *Mentors) get(ctx context.Context, id string) (events.APIGatewayProxyResponse, error) {
	mentor, err := h.store.Get(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return msgResp(404, "Mentor not found")
	}
	if err != nil {
		log.Printf("fetching mentor %s: %v", id, err)
		return msgResp(500, "Internal server error")
	}
	return jsonResp(200, mentor)
}

func (h *Mentors) create(ctx context.Context, body string) (events.APIGatewayProxyResponse, error) {
	var in Mentor
	if err := json.Unmarshal([]byte(body), &in); err != nil {
		return msgResp(400, "Invalid request body")
	}
	if in.Name == "" {
		return msgResp(400, "Missing required field: name is required")
	}
	if in.MentorID == "" {
		in.MentorID = uuid.NewString()
	}
	if in.Expertise == nil {
		in.Expertise = []string{}
	}
	if in.SessionCategories == nil {
		in.SessionCategories = []string{}
	}
	in.CreatedAt = schedule.ToISOString(time.Now())
	in.UpdatedAt = ""

	// Unconditional put: creating over an existing mentor_id overwrites it.
	if err := h.store.Create(ctx, in, false); err != nil {
		log.Printf("creating mentor %s: %v", in.MentorID, err)
		return msgResp(500, "Internal server error")
	}
	return jsonResp(201, in)
}

func (h *Mentors) update(ctx context.Context, id, body string) (events.APIGatewayProxyResponse, error) {
	var in map[string]any
	if err := json.Unmarshal([]byte(body), &in); err != nil {
		return msgResp(400, "Invalid request body")
	}

	mentor, err := h.store.Update(ctx, id, store.NewPatch(mentorFields, in))
	if errors.Is(err, store.ErrNotFound) {
		return msgResp(404, "Mentor not found")
	}
	if err != nil {
		log.Printf("updating mentor %s: %v", id, err)
		return msgResp(500, "Internal server error")
	}
	return jsonResp(200, mentor)
}

func (h *Mentors) delete(ctx context.Context, id string) (events.APIGatewayProxyResponse, error) {
	if err := h.store.Delete(ctx, id); err != nil {
		log.Printf("deleting mentor %s: %v", id, err)
		return msgResp(500, "Internal server error")
	}
	return noContentResp()
}
