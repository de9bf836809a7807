package api

import (
	"log/slog"
	"net/http"

	"github.com/socialchef/creativechef/internal/errors"
	"github.com/socialchef/creativechef/internal/export"
	"github.com/socialchef/creativechef/internal/logger"
	"github.com/socialchef/creativechef/internal/services/recipe"
	"github.com/socialchef/creativechef/internal/web"
)

const maxFormBytes = 64 << 10

func (s *Server) render(w http.ResponseWriter, r *http.Request, status int, state web.State) {
	if err := s.pages.Render(w, status, state); err != nil {
		slog.ErrorContext(r.Context(), "Failed to render page", "error", err, logger.WithTraceContext(r.Context()))
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
	}
}

func (s *Server) HandleHome(w http.ResponseWriter, r *http.Request) {
	s.render(w, r, http.StatusOK, web.NewState(web.ViewHome))
}

func (s *Server) HandleAbout(w http.ResponseWriter, r *http.Request) {
	s.render(w, r, http.StatusOK, web.NewState(web.ViewHome).ShowAbout())
}

// HandleGenerateForm handles the home form post and renders the page with
// either the recipe modal or the error message.
func (s *Server) HandleGenerateForm(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxFormBytes)
	if err := r.ParseForm(); err != nil {
		s.render(w, r, http.StatusBadRequest, web.NewState(web.ViewHome).Submit(recipe.Request{}).Fail("Invalid form submission."))
		return
	}

	req := recipe.Request{
		Ingredients: r.PostFormValue("ingredients"),
		DishType:    recipe.DishType(r.PostFormValue("dish_type")),
		Region:      recipe.Region(r.PostFormValue("region")),
	}
	state := web.NewState(web.ViewHome).Submit(req)

	if err := req.Validate(); err != nil {
		appErr := errors.As(err)
		s.render(w, r, appErr.StatusCode, state.Fail(appErr.RecoverySuggestion()))
		return
	}

	generated, err := s.generator.Generate(r.Context(), req)
	if err != nil {
		appErr := errors.As(err)
		s.render(w, r, appErr.StatusCode, state.Fail(errors.GenerationFailureMessage))
		return
	}

	s.render(w, r, http.StatusOK, state.Resolve(generated))
}

// HandleExportForm downloads the recipe shown in the modal as a spreadsheet.
func (s *Server) HandleExportForm(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxFormBytes)
	if err := r.ParseForm(); err != nil {
		errors.WriteJSON(w, errors.NewValidationError("invalid form submission", "INVALID_FORM", ""))
		return
	}
	writeSpreadsheet(w, r, r.PostFormValue("recipe"))
}

func writeSpreadsheet(w http.ResponseWriter, r *http.Request, raw string) {
	if raw == "" {
		errors.WriteJSON(w, errors.NewValidationError("recipe is required", "MISSING_RECIPE", "Generate a recipe first."))
		return
	}

	title := recipe.ParseRecipe(raw).Title
	w.Header().Set("Content-Type", export.ContentType)
	w.Header().Set("Content-Disposition", `attachment; filename="`+export.Filename(title)+`"`)
	if err := export.WriteRecipe(w, raw); err != nil {
		slog.ErrorContext(r.Context(), "Failed to write spreadsheet", "error", err, logger.WithTraceContext(r.Context()))
	}
}
