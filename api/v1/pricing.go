package v1 // import "github.com/storyhouse/storyhouse/api/v1"

import (
	"encoding/json"
	"net/http"

	"github.com/storyhouse/storyhouse/http/request"
	"github.com/storyhouse/storyhouse/http/response"
	"github.com/storyhouse/storyhouse/model"
)

func (h *Handler) chapterPricing(w http.ResponseWriter, r *http.Request) {
	chapterNumber := request.RouteIntParam(r, "chapterNumber")
	tier := model.LicenseTier(r.URL.Query().Get("tier"))
	if tier == "" {
		tier = model.TierFree
	}

	terms, err := h.calculator.ChapterPricing(chapterNumber, tier)
	if err != nil {
		response.BadRequest(w, r, err)
		return
	}
	response.OK(w, r, terms)
}

func (h *Handler) royaltySplit(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Revenue float64           `json:"revenue"`
		Tier    model.LicenseTier `json:"tier"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, r, err)
		return
	}

	split, err := h.calculator.RoyaltySplit(req.Revenue, req.Tier)
	if err != nil {
		response.BadRequest(w, r, err)
		return
	}
	response.OK(w, r, split)
}
