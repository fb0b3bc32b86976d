package services

import "github.com/ahmetcoskunkizilkaya/social-feed/internal/repository"

// Set is every service wired over one store.
type Set struct {
	Auth  *AuthService
	Users *UserService
	Graph *GraphService
	Posts *PostService
	Feed  *FeedService
	Admin *AdminService
}

func NewSet(store repository.Store, creds *Credentials) *Set {
	visibility := NewVisibility(store)
	recorder := NewActivityRecorder()
	return &Set{
		Auth:  NewAuthService(store, creds),
		Users: NewUserService(store, visibility),
		Graph: NewGraphService(store, visibility, recorder),
		Posts: NewPostService(store, visibility, recorder),
		Feed:  NewFeedService(store, visibility),
		Admin: NewAdminService(store, recorder),
	}
}
