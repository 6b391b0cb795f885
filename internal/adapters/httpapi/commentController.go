package httpapi

import (
	"net/http"

	"devhub/internal/adapters/httpapi/middleware"
	"devhub/internal/core/like"
	commentPort "devhub/internal/ports/comment"

	"github.com/gin-gonic/gin"
)

type CommentController struct {
	cc CommentUseCase
	lc LikeUseCase
}

func NewCommentController(cc CommentUseCase, lc LikeUseCase) *CommentController {
	return &CommentController{cc: cc, lc: lc}
}

func (ctl *CommentController) ListTopLevel(c *gin.Context) {
	page, pageSize := pageParams(c)
	res, err := ctl.cc.ListTopLevel(c.Request.Context(), c.Param("id"), page, pageSize)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (ctl *CommentController) ListReplies(c *gin.Context) {
	page, pageSize := pageParams(c)
	res, err := ctl.cc.ListReplies(c.Request.Context(), c.Param("id"), page, pageSize)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (ctl *CommentController) CreateComment(c *gin.Context) {
	var req commentPort.CreateCommentInput
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input"})
		return
	}
	res, err := ctl.cc.CreateComment(c.Request.Context(), middleware.ActorFrom(c), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, res)
}

func (ctl *CommentController) EditComment(c *gin.Context) {
	var req struct {
		Content string `json:"content"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input"})
		return
	}
	res, err := ctl.cc.EditComment(c.Request.Context(), middleware.ActorFrom(c), c.Param("id"), req.Content)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (ctl *CommentController) DeleteComment(c *gin.Context) {
	if _, err := ctl.cc.DeleteComment(c.Request.Context(), middleware.ActorFrom(c), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "comment deleted"})
}

func (ctl *CommentController) ToggleLike(c *gin.Context) {
	res, err := ctl.lc.ToggleLike(c.Request.Context(), middleware.ActorFrom(c), like.TargetComment, c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (ctl *CommentController) LikeStatus(c *gin.Context) {
	res, err := ctl.lc.LikeStatus(c.Request.Context(), middleware.ActorFrom(c), like.TargetComment, c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}
