package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"zhilfond/server/internal/apperrors"
	"zhilfond/server/internal/auth"
	"zhilfond/server/internal/captcha"
	"zhilfond/server/internal/database"
	"zhilfond/server/internal/listings"
	"zhilfond/server/internal/models"
	"zhilfond/server/internal/oauth"
)

type Handler struct {
	db       *database.Database
	logger   *logrus.Logger
	listings *listings.Service
	issuer   *auth.TokenIssuer
	revoked  auth.Revoker
	oauth    *oauth.Provider
	captcha  *captcha.Verifier

	devMode   bool
	loginPage string
}

func NewHandler(
	db *database.Database,
	logger *logrus.Logger,
	listingService *listings.Service,
	issuer *auth.TokenIssuer,
	revoked auth.Revoker,
	oauthProvider *oauth.Provider,
	captchaVerifier *captcha.Verifier,
	devMode bool,
	loginPage string,
) *Handler {
	return &Handler{
		db:        db,
		logger:    logger,
		listings:  listingService,
		issuer:    issuer,
		revoked:   revoked,
		oauth:     oauthProvider,
		captcha:   captchaVerifier,
		devMode:   devMode,
		loginPage: loginPage,
	}
}

// respondError maps a typed failure to its HTTP shape. Internal errors
// answer with a generic message; diagnostics stay in the server log.
func (h *Handler) respondError(c *gin.Context, err error) {
	status := apperrors.HTTPStatus(err)
	if status >= http.StatusInternalServerError {
		h.logger.WithError(err).WithField("path", c.Request.URL.Path).Error("Request failed")
		body := gin.H{"error": "Internal error"}
		if h.devMode {
			body["detail"] = err.Error()
		}
		c.JSON(status, body)
		return
	}
	c.JSON(status, gin.H{"error": err.Error()})
}

func parseID(c *gin.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, apperrors.NewValidation("id", "must be a positive integer")
	}
	return id, nil
}

type imageResponse struct {
	ID        int64  `json:"id"`
	Filename  string `json:"filename"`
	IsMain    bool   `json:"is_main"`
	SortOrder int    `json:"sort_order"`
	Data      string `json:"data"`
}

func renderImages(images []models.ListingImage) []imageResponse {
	out := make([]imageResponse, 0, len(images))
	for _, img := range images {
		out = append(out, imageResponse{
			ID:        img.ID,
			Filename:  img.Filename,
			IsMain:    img.IsMain,
			SortOrder: img.SortOrder,
			Data:      listings.Render(img),
		})
	}
	return out
}

// GetListings returns approved listings by default; status, housing type,
// district and price cap narrow the result.
func (h *Handler) GetListings(c *gin.Context) {
	filter := models.ListingFilter{
		Status:      c.DefaultQuery("status", models.StatusApproved),
		HousingType: c.Query("housingType"),
		District:    c.Query("district"),
	}
	if maxPrice := c.Query("maxPrice"); maxPrice != "" {
		parsed, err := strconv.Atoi(maxPrice)
		if err != nil || parsed <= 0 {
			h.respondError(c, apperrors.NewValidation("maxPrice", "must be a positive integer"))
			return
		}
		filter.MaxPrice = parsed
	}

	result, err := h.listings.List(filter)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"listings": result, "total": len(result)})
}

// GetListing returns the full listing with images and counts the view.
func (h *Handler) GetListing(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		h.respondError(c, err)
		return
	}

	listing, err := h.listings.Get(id)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"listing": listing,
		"images":  renderImages(listing.Images),
	})
}

// CreateListing accepts the multipart submission form with its images.
func (h *Handler) CreateListing(c *gin.Context) {
	authCtx := auth.FromContext(c)

	form, err := c.MultipartForm()
	if err != nil {
		h.respondError(c, apperrors.NewValidation("form", "multipart form expected"))
		return
	}

	input := listings.CreateInput{
		Title:       c.PostForm("title"),
		Description: c.PostForm("description"),
		HousingType: c.PostForm("housing_type"),
		District:    c.PostForm("district"),
		Address:     c.PostForm("address"),
		Price:       c.PostForm("price"),
		PricePeriod: c.PostForm("price_period"),
		Amenities:   c.PostFormArray("amenities"),
		Phone:       c.PostForm("phone"),
		Email:       c.PostForm("email"),
		Telegram:    c.PostForm("telegram"),
	}
	if input.Rooms, err = optionalInt(c.PostForm("rooms"), "rooms"); err != nil {
		h.respondError(c, err)
		return
	}
	if input.Area, err = optionalFloat(c.PostForm("area"), "area"); err != nil {
		h.respondError(c, err)
		return
	}
	if input.Floor, err = optionalInt(c.PostForm("floor"), "floor"); err != nil {
		h.respondError(c, err)
		return
	}
	if input.TotalFloors, err = optionalInt(c.PostForm("total_floors"), "total_floors"); err != nil {
		h.respondError(c, err)
		return
	}

	uploads, err := listings.ReadMultipart(form.File["images"])
	if err != nil {
		h.logger.WithError(err).Error("Failed to read uploaded images")
		h.respondError(c, err)
		return
	}

	id, err := h.listings.Create(authCtx.UserID, input, uploads)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"listing_id": id})
}

// GetMyListings returns the caller's own listings in any status.
func (h *Handler) GetMyListings(c *gin.Context) {
	authCtx := auth.FromContext(c)

	result, err := h.listings.ListMine(authCtx.UserID)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"listings": result, "total": len(result)})
}

func optionalInt(value, field string) (*int, error) {
	if value == "" {
		return nil, nil
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return nil, apperrors.NewValidation(field, "must be an integer")
	}
	return &parsed, nil
}

func optionalFloat(value, field string) (*float64, error) {
	if value == "" {
		return nil, nil
	}
	parsed, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return nil, apperrors.NewValidation(field, "must be a number")
	}
	return &parsed, nil
}
