package memory

import "github.com/prn-tf/photofeed/internal/repository"

// NewRepositories creates an empty set of in-memory repositories.
func NewRepositories() *repository.Repositories {
	return &repository.Repositories{
		User:  NewUserRepository(),
		Post:  NewPostRepository(),
		Image: NewImageRepository(),
	}
}
