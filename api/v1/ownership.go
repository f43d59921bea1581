package v1 // import "github.com/storyhouse/storyhouse/api/v1"

import (
	"net/http"

	"github.com/pkg/errors"

	"github.com/storyhouse/storyhouse/http/request"
	"github.com/storyhouse/storyhouse/http/response"
	"github.com/storyhouse/storyhouse/identity"
	"github.com/storyhouse/storyhouse/store"
)

// getOwnership resolves the book-level IP owner. A not_established answer is
// a valid outcome, not an error.
func (h *Handler) getOwnership(w http.ResponseWriter, r *http.Request) {
	bookID := request.RouteStringParam(r, "bookID")
	book, err := h.store.GetBookMetadata(r.Context(), bookID)
	if err != nil {
		h.bookError(w, r, bookID, err)
		return
	}

	result, err := h.resolver.DetermineOwner(r.Context(), book)
	if err != nil {
		response.BadRequest(w, r, err)
		return
	}
	response.OK(w, r, result)
}

// bookError maps store and identity failures to their HTTP status.
func (h *Handler) bookError(w http.ResponseWriter, r *http.Request, bookID string, err error) {
	switch {
	case errors.Is(err, store.ErrBookNotFound):
		response.NotFound(w, r, err)
	case errors.Is(err, identity.ErrMalformedIdentifier),
		errors.Is(err, identity.ErrInvalidChapterNumber):
		response.BadRequest(w, r, err)
	default:
		response.ServerError(w, r, err)
	}
}
