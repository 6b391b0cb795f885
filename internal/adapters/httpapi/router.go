package httpapi

import (
	"context"

	"devhub/internal/adapters/httpapi/middleware"
	"devhub/internal/core/like"
	"devhub/internal/core/user"
	commentPort "devhub/internal/ports/comment"
	likePort "devhub/internal/ports/like"
	notificationPort "devhub/internal/ports/notification"
	postPort "devhub/internal/ports/post"
	userPort "devhub/internal/ports/user"
	viewPort "devhub/internal/ports/view"

	"github.com/gin-gonic/gin"
)

// Inbound ports used by the controllers
type UserUseCase interface {
	LoginUser(ctx context.Context, email, password string) (*userPort.LoginResponse, error)
	RegisterUser(ctx context.Context, in userPort.RegisterInput) (*userPort.UserDTO, error)
}

type PostUseCase interface {
	CreatePost(ctx context.Context, actor user.Actor, in postPort.CreatePostInput) (*postPort.PostDTO, error)
	GetPost(ctx context.Context, id string) (*postPort.PostDTO, error)
	ListPosts(ctx context.Context, page, pageSize int) (*postPort.PostPage, error)
	UpdatePost(ctx context.Context, actor user.Actor, id string, in postPort.UpdatePostInput) (*postPort.PostDTO, error)
	DeletePost(ctx context.Context, actor user.Actor, id string) error
}

type ViewUseCase interface {
	RecordView(ctx context.Context, token, postID string) (*viewPort.ViewResult, error)
}

type LikeUseCase interface {
	ToggleLike(ctx context.Context, actor user.Actor, kind like.TargetKind, targetID string) (*likePort.ToggleResult, error)
	LikeStatus(ctx context.Context, actor user.Actor, kind like.TargetKind, targetID string) (*likePort.LikeStatus, error)
}

type CommentUseCase interface {
	ListTopLevel(ctx context.Context, postID string, page, pageSize int) (*commentPort.CommentPage, error)
	ListReplies(ctx context.Context, parentID string, page, pageSize int) (*commentPort.CommentPage, error)
	CreateComment(ctx context.Context, actor user.Actor, in commentPort.CreateCommentInput) (*commentPort.CommentDTO, error)
	EditComment(ctx context.Context, actor user.Actor, id, content string) (*commentPort.CommentDTO, error)
	DeleteComment(ctx context.Context, actor user.Actor, id string) (commentPort.DeleteOutcome, error)
}

type NotificationUseCase interface {
	ListNotifications(ctx context.Context, actor user.Actor, page, pageSize int, unreadOnly bool) (*notificationPort.NotificationPage, error)
	UnreadCount(ctx context.Context, actor user.Actor) (int64, error)
	MarkRead(ctx context.Context, actor user.Actor, ids []string) (int64, error)
	MarkAllRead(ctx context.Context, actor user.Actor) (int64, error)
}

// UseCases is everything the router wires; all of it is injected from outside.
type UseCases struct {
	Users         UserUseCase
	Actors        middleware.ActorResolver
	Posts         PostUseCase
	Views         ViewUseCase
	Likes         LikeUseCase
	Comments      CommentUseCase
	Notifications NotificationUseCase
	ViewCookie    ViewCookie
}

func SetupRoutes(uc UseCases) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), middleware.RequestLogger(), middleware.ActorMiddleware(uc.Actors))

	users := NewUserController(uc.Users)
	posts := NewPostController(uc.Posts, uc.Views, uc.Likes, uc.ViewCookie)
	comments := NewCommentController(uc.Comments, uc.Likes)
	notifications := NewNotificationController(uc.Notifications)
	auth := middleware.RequireActor()

	r.POST("/register", users.RegisterUser)
	r.POST("/login", users.LoginUser)

	r.GET("/posts", posts.ListPosts)
	r.POST("/posts", auth, posts.CreatePost)
	r.GET("/posts/:id", posts.GetPost)
	r.PUT("/posts/:id", auth, posts.UpdatePost)
	r.DELETE("/posts/:id", auth, posts.DeletePost)
	r.POST("/posts/:id/like", auth, posts.ToggleLike)
	r.GET("/posts/:id/like", posts.LikeStatus)
	r.GET("/posts/:id/comments", comments.ListTopLevel)

	r.POST("/comments", auth, comments.CreateComment)
	r.GET("/comments/:id/replies", comments.ListReplies)
	r.PUT("/comments/:id", auth, comments.EditComment)
	r.DELETE("/comments/:id", auth, comments.DeleteComment)
	r.POST("/comments/:id/like", auth, comments.ToggleLike)
	r.GET("/comments/:id/like", comments.LikeStatus)

	n := r.Group("/notifications", auth)
	n.GET("", notifications.ListNotifications)
	n.GET("/unread-count", notifications.UnreadCount)
	n.POST("/read", notifications.MarkRead)
	n.POST("/read-all", notifications.MarkAllRead)

	return r
}
