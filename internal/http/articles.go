package http

import (
	"io"
	"mime/multipart"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/openshelf/librarium/internal/articles"
	"github.com/openshelf/librarium/internal/imaging"
)

// ArticleService is the surface of the article management service the
// controller depends on.
type ArticleService interface {
	Add(t articles.Transfer) (articles.Transfer, error)
	GetByID(id uint) (articles.Transfer, error)
	GetAll() ([]articles.Transfer, error)
	GetByAuthor(userID string) ([]articles.Transfer, error)
	Edit(t articles.Transfer, id uint, editorID string) (articles.Transfer, error)
	Delete(id uint, requestingUserID string) (string, error)
	DeleteByID(id uint) (string, error)
	SearchByTitle(fragment string) ([]articles.Transfer, error)
	SearchByBody(fragment string) ([]articles.Transfer, error)
}

// ArticlesController handles article CRUD endpoints. Image uploads are
// compressed here, once, before they reach the service.
type ArticlesController struct {
	service       ArticleService
	maxImageBytes int64
}

// NewArticlesController creates a new articles controller.
func NewArticlesController(service ArticleService, maxImageBytes int64) *ArticlesController {
	return &ArticlesController{
		service:       service,
		maxImageBytes: maxImageBytes,
	}
}

// Add creates an article from a JSON transfer. The image field, if present,
// carries already-compressed bytes (base64 in the JSON encoding) and is
// stored as received.
// POST /article/add
func (ac *ArticlesController) Add(c *gin.Context) {
	var transfer articles.Transfer
	if err := c.ShouldBindJSON(&transfer); err != nil {
		respondBadRequest(c, "invalid article payload")
		return
	}

	created, err := ac.service.Add(transfer)
	if err != nil {
		respondServiceError(c, err, "add article")
		return
	}

	respondCreated(c, created)
}

// AddMultipart creates an article from a multipart form with an optional
// image file. The raw upload is compressed at this boundary.
// POST /article/addArticle
func (ac *ArticlesController) AddMultipart(c *gin.Context) {
	transfer := articles.Transfer{
		Title:  c.PostForm("title"),
		Body:   c.PostForm("body"),
		UserID: c.PostForm("authorId"),
	}

	image, err := ac.readImageUpload(c)
	if err != nil {
		respondServiceError(c, err, "read article image")
		return
	}
	transfer.Image = image

	created, err := ac.service.Add(transfer)
	if err != nil {
		respondServiceError(c, err, "add article")
		return
	}

	respondCreated(c, created)
}

// GetAll lists every article.
// GET /article/all
func (ac *ArticlesController) GetAll(c *gin.Context) {
	transfers, err := ac.service.GetAll()
	if err != nil {
		respondInternalError(c, err, "list articles")
		return
	}
	c.JSON(http.StatusOK, transfers)
}

// GetByID returns a single article.
// GET /article/:articleID
func (ac *ArticlesController) GetByID(c *gin.Context) {
	id, ok := parseIDParam(c, "articleID")
	if !ok {
		return
	}

	transfer, err := ac.service.GetByID(id)
	if err != nil {
		respondServiceError(c, err, "get article")
		return
	}
	c.JSON(http.StatusOK, transfer)
}

// GetByAuthor lists the articles written by one user.
// GET /article/getByUserID/:userID
func (ac *ArticlesController) GetByAuthor(c *gin.Context) {
	userID := c.Param("userID")
	if userID == "" {
		respondBadRequest(c, "userID is required")
		return
	}

	transfers, err := ac.service.GetByAuthor(userID)
	if err != nil {
		respondInternalError(c, err, "list articles by author")
		return
	}
	c.JSON(http.StatusOK, transfers)
}

// Search finds articles by title or body fragment.
// GET /article/search?title=... or ?body=...
func (ac *ArticlesController) Search(c *gin.Context) {
	if title := c.Query("title"); title != "" {
		transfers, err := ac.service.SearchByTitle(title)
		if err != nil {
			respondInternalError(c, err, "search articles by title")
			return
		}
		c.JSON(http.StatusOK, transfers)
		return
	}

	if body := c.Query("body"); body != "" {
		transfers, err := ac.service.SearchByBody(body)
		if err != nil {
			respondInternalError(c, err, "search articles by body")
			return
		}
		c.JSON(http.StatusOK, transfers)
		return
	}

	respondBadRequest(c, "title or body query parameter is required")
}

// Edit replaces an article's title, body, and image from a multipart form.
// An absent image file clears any stored image.
// PUT /article/editArticle/:articleID
func (ac *ArticlesController) Edit(c *gin.Context) {
	id, ok := parseIDParam(c, "articleID")
	if !ok {
		return
	}

	transfer := articles.Transfer{
		Title: c.PostForm("title"),
		Body:  c.PostForm("body"),
	}

	image, err := ac.readImageUpload(c)
	if err != nil {
		respondServiceError(c, err, "read article image")
		return
	}
	transfer.Image = image

	updated, err := ac.service.Edit(transfer, id, GetUserID(c))
	if err != nil {
		respondServiceError(c, err, "edit article")
		return
	}
	c.JSON(http.StatusOK, updated)
}

// Delete removes an article without an authorization check.
// DELETE /article/:id
func (ac *ArticlesController) Delete(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	message, err := ac.service.DeleteByID(id)
	if err != nil {
		respondServiceError(c, err, "delete article")
		return
	}
	respondSuccess(c, message)
}

// DeleteAuthorized removes an article on behalf of the user named in the
// path. Allowed for the author and for librarians.
// DELETE /article/:id/delete/:articleID (":id" is the requesting user)
func (ac *ArticlesController) DeleteAuthorized(c *gin.Context) {
	userID := c.Param("id")
	if userID == "" {
		respondBadRequest(c, "userID is required")
		return
	}

	articleID, ok := parseIDParam(c, "articleID")
	if !ok {
		return
	}

	message, err := ac.service.Delete(articleID, userID)
	if err != nil {
		respondServiceError(c, err, "delete article")
		return
	}
	respondSuccess(c, message)
}

// readImageUpload extracts and compresses the optional "articleImg" form
// file. Returns nil bytes when no file was sent.
func (ac *ArticlesController) readImageUpload(c *gin.Context) ([]byte, error) {
	file, err := c.FormFile("articleImg")
	if err != nil {
		// No file attached
		return nil, nil
	}

	raw, err := readMultipartFile(file)
	if err != nil {
		return nil, err
	}

	if err := imaging.CheckSize(raw, ac.maxImageBytes); err != nil {
		return nil, err
	}

	return imaging.Compress(raw)
}

func readMultipartFile(header *multipart.FileHeader) ([]byte, error) {
	f, err := header.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return io.ReadAll(f)
}
