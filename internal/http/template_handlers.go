package http

import (
	"net/http"
)

// @Summary List peer templates
// @Tags templates
// @Produce json
// @Success 200 {array} TemplateResponse
// @Router /api/v1/templates [get]
func (a *API) handleListTemplates(w http.ResponseWriter, r *http.Request) {
	templates, err := a.Peers.ListTemplates(r.Context())
	if err != nil {
		a.writeError(w, r, "listing templates", err)
		return
	}
	a.respond(w, r, http.StatusOK, templatesToResponse(templates))
}

// @Summary Create peer template
// @Tags templates
// @Accept json
// @Produce json
// @Param template body CreateTemplateRequest true "Template payload"
// @Success 201 {object} TemplateResponse
// @Failure 400 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /api/v1/templates [post]
func (a *API) handleCreateTemplate(w http.ResponseWriter, r *http.Request) {
	req, err := decode[CreateTemplateRequest](r)
	defer r.Body.Close()
	if err != nil {
		a.badRequest(w, r, "unmarshaling template from request", err)
		return
	}

	template, err := a.Peers.CreateTemplate(r.Context(), req.toInput())
	if err != nil {
		a.writeError(w, r, "creating template", err, "name", req.Name)
		return
	}
	a.respond(w, r, http.StatusCreated, templateToResponse(template))
}

// @Summary Get peer template
// @Tags templates
// @Produce json
// @Param id path int true "Template ID"
// @Success 200 {object} TemplateResponse
// @Failure 404 {object} ErrorResponse
// @Router /api/v1/templates/{id} [get]
func (a *API) handleGetTemplate(w http.ResponseWriter, r *http.Request) {
	id, err := parsePathInt64(r, "id")
	if err != nil {
		a.badRequest(w, r, "unable to convert string id to int64", err)
		return
	}
	template, err := a.Peers.GetTemplate(r.Context(), id)
	if err != nil {
		a.writeError(w, r, "reading template", err, "id", id)
		return
	}
	a.respond(w, r, http.StatusOK, templateToResponse(template))
}

// @Summary Delete peer template
// @Tags templates
// @Param id path int true "Template ID"
// @Success 204
// @Failure 404 {object} ErrorResponse
// @Router /api/v1/templates/{id} [delete]
func (a *API) handleDeleteTemplate(w http.ResponseWriter, r *http.Request) {
	id, err := parsePathInt64(r, "id")
	if err != nil {
		a.badRequest(w, r, "unable to convert string id to int64", err)
		return
	}
	if err := a.Peers.DeleteTemplate(r.Context(), id); err != nil {
		a.writeError(w, r, "deleting template", err, "id", id)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
