package controllers

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/marisolvega/skinroutine-backend/api/responses"
	"github.com/marisolvega/skinroutine-backend/api/validators"
	"github.com/marisolvega/skinroutine-backend/internal/routine"
	"github.com/marisolvega/skinroutine-backend/internal/steps"
	pkgerrors "github.com/marisolvega/skinroutine-backend/pkg/errors"
	"github.com/marisolvega/skinroutine-backend/pkg/logger"
)

func stepIDParam(r *http.Request) (int64, error) {
	raw := chi.URLParam(r, "stepID")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, pkgerrors.New(pkgerrors.CodeValidation, "step id must be a positive integer")
	}
	return id, nil
}

// StepCreate saves a routine step for the account.
func StepCreate(svc steps.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "steps service unavailable"))
			return
		}

		var body steps.CreateStepRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.Create(r.Context(), usernameParam(r), body)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, map[string]*steps.StepDTO{"step": result})
	}
}

// StepRoutineView returns the full template merged with the account's saved
// steps, ordered morning then night.
func StepRoutineView(svc steps.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "steps service unavailable"))
			return
		}

		view, err := svc.RoutineView(r.Context(), usernameParam(r))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]routine.View{"routine": view})
	}
}

// StepDetail returns one saved step.
func StepDetail(svc steps.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "steps service unavailable"))
			return
		}

		stepID, err := stepIDParam(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.GetByID(r.Context(), usernameParam(r), stepID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]*steps.StepDTO{"step": result})
	}
}

// StepUpdate applies a partial update to one saved step.
func StepUpdate(svc steps.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "steps service unavailable"))
			return
		}

		stepID, err := stepIDParam(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body steps.UpdateStepRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.Update(r.Context(), usernameParam(r), stepID, body)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]*steps.StepDTO{"step": result})
	}
}

// StepDelete removes one saved step.
func StepDelete(svc steps.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "steps service unavailable"))
			return
		}

		stepID, err := stepIDParam(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.Delete(r.Context(), usernameParam(r), stepID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]string{"status": "deleted"})
	}
}
