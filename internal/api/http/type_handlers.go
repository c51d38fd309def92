package http

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/quizforge/quizforge/internal/qtype"
)

// ListTypesHandler returns every registered question type with its metadata,
// so authoring UIs discover new types without code changes.
func ListTypesHandler(reg *qtype.Registry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		out := make([]qtype.TypeMetadata, 0, len(reg.Types()))
		for _, t := range reg.Types() {
			md, _ := reg.Metadata(t)
			out = append(out, md)
		}
		_ = json.NewEncoder(w).Encode(out)
	}
}

func SchemaHandler(reg *qtype.Registry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		typ := chi.URLParam(r, "type")
		schema, ok := reg.Schema(typ)
		if !ok {
			http.Error(w, "unknown question type", 404)
			return
		}
		_ = json.NewEncoder(w).Encode(schema)
	}
}

func DefaultSettingsHandler(reg *qtype.Registry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		typ := chi.URLParam(r, "type")
		defaults, ok := reg.DefaultSettings(typ)
		if !ok {
			http.Error(w, "unknown question type", 404)
			return
		}
		_ = json.NewEncoder(w).Encode(defaults)
	}
}

func ValidationRulesHandler(reg *qtype.Registry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		typ := chi.URLParam(r, "type")
		rules, ok := reg.ValidationRules(typ)
		if !ok {
			http.Error(w, "unknown question type", 404)
			return
		}
		_ = json.NewEncoder(w).Encode(rules)
	}
}

func MetadataHandler(reg *qtype.Registry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		typ := chi.URLParam(r, "type")
		md, ok := reg.Metadata(typ)
		if !ok {
			http.Error(w, "unknown question type", 404)
			return
		}
		_ = json.NewEncoder(w).Encode(md)
	}
}

func TemplatesHandler(reg *qtype.Registry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		typ := chi.URLParam(r, "type")
		tpls, ok := reg.Templates(typ)
		if !ok {
			http.Error(w, "unknown question type", 404)
			return
		}
		_ = json.NewEncoder(w).Encode(tpls)
	}
}
