package httpapi

import (
	"net/http"

	"devhub/internal/adapters/httpapi/middleware"
	"devhub/internal/config"
	"devhub/internal/core/apperr"
	"devhub/internal/core/like"
	postPort "devhub/internal/ports/post"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ViewCookie describes the cookie that carries the visitor's view ledger.
type ViewCookie struct {
	Name   string
	MaxAge int // seconds
	Secure bool
}

type PostController struct {
	pc     PostUseCase
	vc     ViewUseCase
	lc     LikeUseCase
	cookie ViewCookie
}

func NewPostController(pc PostUseCase, vc ViewUseCase, lc LikeUseCase, cookie ViewCookie) *PostController {
	return &PostController{pc: pc, vc: vc, lc: lc, cookie: cookie}
}

func (ctl *PostController) CreatePost(c *gin.Context) {
	var req postPort.CreatePostInput
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input"})
		return
	}
	res, err := ctl.pc.CreatePost(c.Request.Context(), middleware.ActorFrom(c), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, res)
}

func (ctl *PostController) ListPosts(c *gin.Context) {
	page, pageSize := pageParams(c)
	res, err := ctl.pc.ListPosts(c.Request.Context(), page, pageSize)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// GetPost records the view before reading, so the returned viewCount includes it.
// A failed view record never fails the read.
func (ctl *PostController) GetPost(c *gin.Context) {
	id := c.Param("id")
	token, _ := c.Cookie(ctl.cookie.Name)

	view, err := ctl.vc.RecordView(c.Request.Context(), token, id)
	switch {
	case err == nil:
		c.SetSameSite(http.SameSiteLaxMode)
		c.SetCookie(ctl.cookie.Name, view.Token, ctl.cookie.MaxAge, "/", "", ctl.cookie.Secure, true)
	case apperr.KindOf(err) == apperr.NotFound:
		respondError(c, err)
		return
	default:
		config.Logger.Warn("view not recorded", zap.String("postID", id), zap.Error(err))
	}

	res, err := ctl.pc.GetPost(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (ctl *PostController) UpdatePost(c *gin.Context) {
	var req postPort.UpdatePostInput
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input"})
		return
	}
	res, err := ctl.pc.UpdatePost(c.Request.Context(), middleware.ActorFrom(c), c.Param("id"), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (ctl *PostController) DeletePost(c *gin.Context) {
	if err := ctl.pc.DeletePost(c.Request.Context(), middleware.ActorFrom(c), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "post deleted"})
}

func (ctl *PostController) ToggleLike(c *gin.Context) {
	res, err := ctl.lc.ToggleLike(c.Request.Context(), middleware.ActorFrom(c), like.TargetPost, c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (ctl *PostController) LikeStatus(c *gin.Context) {
	res, err := ctl.lc.LikeStatus(c.Request.Context(), middleware.ActorFrom(c), like.TargetPost, c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}
