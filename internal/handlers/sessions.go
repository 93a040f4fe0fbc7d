package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"backend/internal/schedule"
	"backend/internal/store"

	"github.com/aws/aws-lambda-go/events"
)

type Session struct {
	SessionID        string `json:"session_id" dynamodbav:"session_id"`
	SessionName      string `json:"session_name" dynamodbav:"session_name"`
	SessionStatus    string `json:"session_status" dynamodbav:"session_status"`
	SessionType      string `json:"session_type" dynamodbav:"session_type"`
	Mentor           string `json:"mentor" dynamodbav:"mentor"`
	MentorID         string `json:"mentor_id" dynamodbav:"mentor_id"`
	SessionDateTime  string `json:"session_date_time" dynamodbav:"session_date_time"`
	Duration         string `json:"duration" dynamodbav:"duration"`
	SessionObjective string `json:"session_objective" dynamodbav:"session_objective"`
	SessionOutcome   string `json:"session_outcome" dynamodbav:"session_outcome"`
	Location         string `json:"location" dynamodbav:"location"`
	SessionImage     string `json:"session_image" dynamodbav:"session_image"`
	CreatedAt        string `json:"created_at" dynamodbav:"created_at"`
	UpdatedAt        string `json:"updated_at,omitempty" dynamodbav:"updated_at,omitempty"`
}

// sessionFields is the whitelist of attributes a PUT may change. mentor_id and
// session_date_time are deliberately updatable with no cross-checks against
// the mentors table.
var sessionFields = []string{
	"session_name",
	"session_status",
	"session_type",
	"mentor",
	"mentor_id",
	"session_date_time",
	"duration",
	"session_objective",
	"session_outcome",
	"location",
	"session_image",
}

const badDateMsg = `Invalid session_date_time format. Please use ISO 8601 format (e.g., "2025-03-21T14:30:00-05:00")`

// Sessions serves the scheduling routes, keyed by caller-supplied session_id.
type Sessions struct {
	store *store.Store[Session]
	now   func() time.Time
}

func NewSessions(api store.API, table string) *Sessions {
	return &Sessions{
		store: store.New[Session](api, table, "session_id"),
		now:   time.Now,
	}
}

func (h *Sessions) Handle(ctx context.Context, req events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	id := req.PathParameters["session_id"]

	switch req.HTTPMethod {
	case "GET":
		if strings.HasSuffix(req.Path, "/sessions/today") {
			return h.today(ctx)
		}
		if id != "" {
			return h.get(ctx, id)
		}
		return h.list(ctx, req.QueryStringParameters)
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
	return jsonResp(400, map[string]any{
		"message":  "Invalid request",
		"sessions": []Session{},
	})
}

// normalizeDateTime validates a client-supplied instant and rewrites it to
// the canonical stored form, ISO-8601 UTC with milliseconds.
func normalizeDateTime(s string) (string, error) {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return "", err
	}
	return schedule.ToISOString(t), nil
}

func (h *Sessions) today(ctx context.Context) (events.APIGatewayProxyResponse, error) {
	now := h.now()

	sessions, err := h.store.List(ctx, store.BeginsWith("session_date_time", schedule.TodayPrefix(now)))
	if err != nil {
		log.Printf("retrieving today's sessions: %v", err)
		return jsonResp(500, map[string]any{
			"sessions":         []Session{},
			"current_sessions": []Session{},
			"count":            0,
			"current_count":    0,
			"message":          "Error retrieving today's sessions",
			"error":            err.Error(),
		})
	}

	current, upcoming := schedule.Partition(sessions, now, func(s Session) (time.Time, string) {
		start, err := time.Parse(time.RFC3339, s.SessionDateTime)
		if err != nil {
			// An unparsable stored instant classifies as past and drops out.
			return time.Time{}, s.Duration
		}
		return start, s.Duration
	})

	return jsonResp(200, map[string]any{
		"sessions":         upcoming,
		"current_sessions": current,
		"count":            len(upcoming),
		"current_count":    len(current),
		"message":          "Successfully retrieved today's sessions",
	})
}

func (h *Sessions) list(ctx context.Context, query map[string]string) (events.APIGatewayProxyResponse, error) {
	listErr := func(err error) (events.APIGatewayProxyResponse, error) {
		log.Printf("retrieving sessions: %v", err)
		return jsonResp(500, map[string]any{
			"sessions": []Session{},
			"count":    0,
			"message":  "Error retrieving sessions",
			"error":    err.Error(),
		})
	}

	ranged := query["start_date"] != "" && query["end_date"] != ""

	var filter *store.Filter
	if ranged {
		lo, _, err := schedule.DayWindow(query["start_date"], -4)
		if err != nil {
			return listErr(fmt.Errorf("invalid start_date: %w", err))
		}
		_, hi, err := schedule.DayWindow(query["end_date"], -4)
		if err != nil {
			return listErr(fmt.Errorf("invalid end_date: %w", err))
		}
		filter = store.Between("session_date_time", schedule.ToISOString(lo), schedule.ToISOString(hi))
	}

	sessions, err := h.store.List(ctx, filter)
	if err != nil {
		return listErr(err)
	}

	if status := query["status"]; status != "" {
		sessions = keep(sessions, func(s Session) bool { return s.SessionStatus == status })
	}
	if mentorID := query["mentor_id"]; mentorID != "" {
		sessions = keep(sessions, func(s Session) bool { return s.MentorID == mentorID })
	}
	// The single-day filter only applies outside the ranged path, and its day
	// window runs on UTC-5 where the ranged one runs on UTC-4. Both quirks
	// are load-bearing for already-stored data.
	if day := query["date"]; day != "" && !ranged {
		lo, hi, err := schedule.DayWindow(day, -5)
		if err != nil {
			return listErr(fmt.Errorf("invalid date: %w", err))
		}
		loISO, hiISO := schedule.ToISOString(lo), schedule.ToISOString(hi)
		sessions = keep(sessions, func(s Session) bool {
			return s.SessionDateTime >= loISO && s.SessionDateTime <= hiISO
		})
	}

	return jsonResp(200, map[string]any{
		"sessions": sessions,
		"count":    len(sessions),
		"message":  "Successfully retrieved sessions",
	})
}

func keep(sessions []Session, pred func(Session) bool) []Session {
	out := []Session{}
	for _, s := range sessions {
		if pred(s) {
			out = append(out, s)
		}
	}
	return out
}

func (h *Sessions) get(ctx context.Context, id string) (events.APIGatewayProxyResponse, error) {
	session, err := h.store.Get(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return jsonResp(404, map[string]any{
			"message": "Session not found",
			"session": nil,
		})
	}
	if err != nil {
		log.Printf("fetching session %s: %v", id, err)
		return jsonResp(500, map[string]any{
			"message": "Error fetching session",
			"session": nil,
			"error":   err.Error(),
		})
	}
	return jsonResp(200, map[string]any{
		"session": session,
		"message": "Session retrieved successfully",
	})
}

func (h *Sessions) create(ctx context.Context, body string) (events.APIGatewayProxyResponse, error) {
	var in Session
	if err := json.Unmarshal([]byte(body), &in); err != nil {
		return msgResp(400, "Invalid request body")
	}

	required := []struct{ name, value string }{
		{"session_name", in.SessionName},
		{"session_status", in.SessionStatus},
		{"session_type", in.SessionType},
		{"mentor_id", in.MentorID},
		{"session_date_time", in.SessionDateTime},
		{"duration", in.Duration},
		{"session_objective", in.SessionObjective},
	}
	missing := []string{}
	for _, f := range required {
		if f.value == "" {
			missing = append(missing, f.name)
		}
	}
	if len(missing) > 0 {
		return msgResp(400, "Missing required fields: "+strings.Join(missing, ", "))
	}

	normalized, err := normalizeDateTime(in.SessionDateTime)
	if err != nil {
		return msgResp(400, badDateMsg)
	}
	in.SessionDateTime = normalized
	in.CreatedAt = schedule.ToISOString(h.now())
	in.UpdatedAt = ""

	err = h.store.Create(ctx, in, true)
	if errors.Is(err, store.ErrConflict) {
		return jsonResp(409, map[string]any{
			"message": "A session with this ID already exists",
			"session": nil,
		})
	}
	if err != nil {
		log.Printf("creating session %s: %v", in.SessionID, err)
		return jsonResp(500, map[string]any{
			"message": "Error creating session",
			"session": nil,
			"error":   err.Error(),
		})
	}
	return jsonResp(201, map[string]any{
		"session": in,
		"message": "Session created successfully",
	})
}

func (h *Sessions) update(ctx context.Context, id, body string) (events.APIGatewayProxyResponse, error) {
	var in map[string]any
	if err := json.Unmarshal([]byte(body), &in); err != nil {
		return msgResp(400, "Invalid request body")
	}

	if raw, _ := in["session_date_time"].(string); raw != "" {
		normalized, err := normalizeDateTime(raw)
		if err != nil {
			return jsonResp(400, map[string]any{
				"message": badDateMsg,
				"session": nil,
			})
		}
		in["session_date_time"] = normalized
	}

	session, err := h.store.Update(ctx, id, store.NewPatch(sessionFields, in))
	if errors.Is(err, store.ErrNotFound) {
		return jsonResp(404, map[string]any{
			"message": "Session not found",
			"session": nil,
		})
	}
	if err != nil {
		log.Printf("updating session %s: %v", id, err)
		return jsonResp(500, map[string]any{
			"message": "Error updating session",
			"session": nil,
			"error":   err.Error(),
		})
	}
	return jsonResp(200, map[string]any{
		"session": session,
		"message": "Session updated successfully",
	})
}

func (h *Sessions) delete(ctx context.Context, id string) (events.APIGatewayProxyResponse, error) {
	if err := h.store.Delete(ctx, id); err != nil {
		log.Printf("deleting session %s: %v", id, err)
		return jsonResp(500, map[string]any{
			"message": "Error deleting session",
			"error":   err.Error(),
		})
	}
	return msgResp(200, "Session deleted successfully")
}
