package http

import (
	"encoding/json"
	"net/http"

	"github.com/quizforge/quizforge/internal/qtype"
)

// Handlers are thin adapters: decode, dispatch to the registry, encode.
// The registry never panics on bad payloads, so most of these cannot fail
// beyond "bad json".

func ValidateQuestionHandler(reg *qtype.Registry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var raw json.RawMessage
		if err := json.NewDecoder(r.Body).Decode(&raw); err != nil {
			http.Error(w, "bad json", 400)
			return
		}
		_ = json.NewEncoder(w).Encode(reg.ValidateQuestion(raw))
	}
}

func ScoreHandler(reg *qtype.Registry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Type       string          `json:"type"`
			Question   json.RawMessage `json:"question"`
			Submission any             `json:"submission"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad json", 400)
			return
		}
		if req.Type == "" || len(req.Question) == 0 {
			http.Error(w, "type and question required", 400)
			return
		}
		score, err := reg.Score(req.Type, req.Submission, req.Question)
		if err != nil {
			http.Error(w, err.Error(), 400)
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]float64{"score": score})
	}
}

func DisplayHandler(reg *qtype.Registry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Type       string          `json:"type"`
			Question   json.RawMessage `json:"question"`
			ForStudent bool            `json:"forStudent"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad json", 400)
			return
		}
		out, err := reg.ProcessForDisplay(req.Type, req.Question, req.ForStudent)
		if err != nil {
			http.Error(w, err.Error(), 400)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write(out)
	}
}

func AnswerCheckHandler(reg *qtype.Registry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Type       string          `json:"type"`
			Question   json.RawMessage `json:"question"`
			Submission any             `json:"submission"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad json", 400)
			return
		}
		errs := reg.AnswerConstraints(req.Type, req.Submission, req.Question)
		if errs == nil {
			errs = []string{}
		}
		_ = json.NewEncoder(w).Encode(map[string][]string{"errors": errs})
	}
}
