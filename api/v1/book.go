package v1 // import "github.com/storyhouse/storyhouse/api/v1"

import (
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/storyhouse/storyhouse/branch"
	"github.com/storyhouse/storyhouse/http/request"
	"github.com/storyhouse/storyhouse/http/response"
	"github.com/storyhouse/storyhouse/identity"
	"github.com/storyhouse/storyhouse/log"
	"github.com/storyhouse/storyhouse/model"
)

type registerBookRequest struct {
	Title         string            `json:"title"`
	AuthorAddress string            `json:"authorAddress"`
	Description   string            `json:"description,omitempty"`
	Tier          model.LicenseTier `json:"tier"`
	Content       string            `json:"content"`
	ChapterTitle  string            `json:"chapterTitle,omitempty"`
}

type addChapterRequest struct {
	AuthorAddress    string            `json:"authorAddress"`
	Title            string            `json:"title,omitempty"`
	Content          string            `json:"content"`
	Tier             model.LicenseTier `json:"tier"`
	QualityScore     int               `json:"qualityScore,omitempty"`
	OriginalityScore int               `json:"originalityScore,omitempty"`
	RegisterIP       bool              `json:"registerIp,omitempty"`
}

func (h *Handler) listBooks(w http.ResponseWriter, r *http.Request) {
	find := &model.FindBook{}
	if author := r.URL.Query().Get("author"); author != "" {
		find.AuthorAddress = &author
	}
	if parent := r.URL.Query().Get("parent"); parent != "" {
		find.ParentBook = &parent
	}

	books, err := h.store.ListBooks(r.Context(), find)
	if err != nil {
		log.Error("Error listing books", zap.Error(err))
		response.ServerError(w, r, err)
		return
	}
	response.OK(w, r, books)
}

// registerBook creates a book and publishes its first chapter. Ownership is
// pending until the author publishes chapters 2 and 3 themselves.
func (h *Handler) registerBook(w http.ResponseWriter, r *http.Request) {
	var req registerBookRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, r, err)
		return
	}
	if req.Tier == "" {
		req.Tier = model.TierFree
	}

	slug := identity.Slugify(req.Title)
	if slug == "" {
		response.BadRequest(w, r, errors.New("title yields an empty slug"))
		return
	}

	terms, err := h.calculator.ChapterPricing(1, req.Tier)
	if err != nil {
		response.BadRequest(w, r, err)
		return
	}

	now := time.Now().UTC().Format(time.RFC3339)
	chapter := &model.Chapter{
		ChapterNumber:     1,
		Title:             req.ChapterTitle,
		AuthorAddress:     req.AuthorAddress,
		Content:           req.Content,
		UnlockPrice:       terms.UnlockPrice,
		ReadReward:        terms.ReadReward,
		LicensePrice:      terms.LicensePrice,
		RoyaltyPercentage: terms.RoyaltyPercentage,
		CreatedAt:         now,
	}
	locator, err := h.store.StoreChapterContent(r.Context(), req.AuthorAddress, slug, 1, chapter)
	if err != nil {
		log.Error("Error storing first chapter", zap.Error(err))
		response.ServerError(w, r, err)
		return
	}

	chapterKey, _ := identity.ChapterKey(1)
	book := &model.Book{
		ID:            identity.BookID(req.AuthorAddress, slug),
		Title:         req.Title,
		Slug:          slug,
		AuthorAddress: req.AuthorAddress,
		Description:   req.Description,
		ChapterMap:    map[string]string{chapterKey: locator},
		OriginalAuthors: map[string]model.AuthorAttribution{
			req.AuthorAddress: {Chapters: []string{chapterKey}, RevenueShare: 100},
		},
		SchemaVersion: model.BookSchemaVersion,
		CreatedAt:     now,
	}
	if _, err := h.store.StoreBookMetadata(r.Context(), req.AuthorAddress, slug, book); err != nil {
		log.Error("Error storing book metadata", zap.Error(err))
		response.ServerError(w, r, err)
		return
	}

	response.Created(w, r, book)
}

func (h *Handler) getBook(w http.ResponseWriter, r *http.Request) {
	bookID := request.RouteStringParam(r, "bookID")
	book, err := h.store.GetBookMetadata(r.Context(), bookID)
	if err != nil {
		h.bookError(w, r, bookID, err)
		return
	}
	response.OK(w, r, book)
}

// addChapter appends the next chapter to a book and, when asked, queues its
// on-chain registration.
func (h *Handler) addChapter(w http.ResponseWriter, r *http.Request) {
	bookID := request.RouteStringParam(r, "bookID")
	book, err := h.store.GetBookMetadata(r.Context(), bookID)
	if err != nil {
		h.bookError(w, r, bookID, err)
		return
	}

	var req addChapterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, r, err)
		return
	}
	if req.Tier == "" {
		req.Tier = model.TierFree
	}

	author, slug, err := identity.ParseBookID(book.ID)
	if err != nil {
		response.BadRequest(w, r, err)
		return
	}

	chapterNumber := nextChapterNumber(book)
	terms, err := h.calculator.ChapterPricing(chapterNumber, req.Tier)
	if err != nil {
		response.BadRequest(w, r, err)
		return
	}

	chapter := &model.Chapter{
		ChapterNumber:     chapterNumber,
		Title:             req.Title,
		AuthorAddress:     req.AuthorAddress,
		Content:           req.Content,
		UnlockPrice:       terms.UnlockPrice,
		ReadReward:        terms.ReadReward,
		LicensePrice:      terms.LicensePrice,
		RoyaltyPercentage: terms.RoyaltyPercentage,
		QualityScore:      req.QualityScore,
		OriginalityScore:  req.OriginalityScore,
		CreatedAt:         time.Now().UTC().Format(time.RFC3339),
	}
	locator, err := h.store.StoreChapterContent(r.Context(), author, slug, chapterNumber, chapter)
	if err != nil {
		log.Error("Error storing chapter", zap.Error(err))
		response.ServerError(w, r, err)
		return
	}

	chapterKey, _ := identity.ChapterKey(chapterNumber)
	book.ChapterMap[chapterKey] = locator
	attribution := book.OriginalAuthors[req.AuthorAddress]
	attribution.Chapters = append(attribution.Chapters, chapterKey)
	book.OriginalAuthors[req.AuthorAddress] = attribution
	if _, err := h.store.StoreBookMetadata(r.Context(), author, slug, book); err != nil {
		log.Error("Error storing book metadata", zap.Error(err))
		response.ServerError(w, r, err)
		return
	}

	if req.RegisterIP {
		job := model.Job{
			BookID:     book.ID,
			ChapterKey: chapterKey,
			Type:       model.JobTypeRegisterIP,
			Status:     model.JobStatusPending,
			Item: &model.RegistrationPayload{
				AuthorAddress: author,
				Slug:          slug,
				Tier:          req.Tier,
				Chapter:       chapter,
			},
		}
		newJob, err := h.store.AddJob(job)
		if err != nil {
			log.Error("Failed to add registration job", zap.Error(err))
			response.ServerError(w, r, err)
			return
		}
		go h.registry.Push(*newJob)
	}

	response.Created(w, r, chapter)
}

func (h *Handler) getChapter(w http.ResponseWriter, r *http.Request) {
	bookID := request.RouteStringParam(r, "bookID")
	chapterNumber := request.RouteIntParam(r, "chapterNumber")

	author, slug, err := identity.ParseBookID(bookID)
	if err != nil {
		response.BadRequest(w, r, err)
		return
	}

	chapter, err := h.store.GetChapterContent(r.Context(), author, slug, chapterNumber)
	if err != nil {
		response.NotFound(w, r, err)
		return
	}
	response.OK(w, r, chapter)
}

func (h *Handler) uploadCover(w http.ResponseWriter, r *http.Request) {
	bookID := request.RouteStringParam(r, "bookID")
	author, slug, err := identity.ParseBookID(bookID)
	if err != nil {
		response.BadRequest(w, r, err)
		return
	}

	img, err := io.ReadAll(r.Body)
	if err != nil {
		response.BadRequest(w, r, err)
		return
	}

	url, err := h.store.StoreCover(r.Context(), author, slug, img)
	if err != nil {
		log.Error("Error storing cover", zap.Error(err))
		response.BadRequest(w, r, err)
		return
	}
	response.Created(w, r, map[string]string{"coverUrl": url})
}

func (h *Handler) getCover(w http.ResponseWriter, r *http.Request) {
	bookID := request.RouteStringParam(r, "bookID")
	author, slug, err := identity.ParseBookID(bookID)
	if err != nil {
		response.BadRequest(w, r, err)
		return
	}

	cover, err := h.store.GetCover(r.Context(), author, slug)
	if err != nil {
		response.NotFound(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "image/webp")
	w.Write(cover)
}

func (h *Handler) deleteCover(w http.ResponseWriter, r *http.Request) {
	bookID := request.RouteStringParam(r, "bookID")
	author, slug, err := identity.ParseBookID(bookID)
	if err != nil {
		response.BadRequest(w, r, err)
		return
	}

	h.store.DeleteCover(r.Context(), author, slug)
	response.OK(w, r, map[string]bool{"deleted": true})
}

func (h *Handler) createDerivative(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ParentBookID  string            `json:"parentBookId"`
		BranchPoint   string            `json:"branchPoint"`
		AuthorAddress string            `json:"authorAddress"`
		Title         string            `json:"title"`
		Description   string            `json:"description,omitempty"`
		Tier          model.LicenseTier `json:"tier,omitempty"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, r, err)
		return
	}

	child, err := h.branches.Fork(r.Context(), branch.ForkRequest{
		ParentBookID:  req.ParentBookID,
		BranchPoint:   req.BranchPoint,
		AuthorAddress: req.AuthorAddress,
		Title:         req.Title,
		Description:   req.Description,
		Tier:          req.Tier,
	})
	if err != nil {
		h.bookError(w, r, req.ParentBookID, err)
		return
	}
	response.Created(w, r, child)
}

func nextChapterNumber(book *model.Book) int {
	max := 0
	for key := range book.ChapterMap {
		if n, ok := identity.KeyNumber(key); ok && n > max {
			max = n
		}
	}
	return max + 1
}
