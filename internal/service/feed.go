package service

import (
	"context"

	"sportsync/internal/models"
	"sportsync/internal/repository"
)

// followedContent lists the items authored by everyone viewerID follows.
// An empty following set answers with an empty list and never reaches list.
func followedContent[T any](
	ctx context.Context,
	users repository.UserRepository,
	viewerID uint,
	list func(context.Context, []uint) ([]T, error),
) ([]T, error) {
	viewer, err := users.GetByID(ctx, viewerID)
	if err != nil {
		return nil, err
	}
	if viewer == nil {
		return nil, models.NewNotFound("User not found")
	}

	following, err := users.FollowingIDs(ctx, viewerID)
	if err != nil {
		return nil, err
	}
	if len(following) == 0 {
		return []T{}, nil
	}

	items, err := list(ctx, following)
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []T{}
	}
	return items, nil
}

// authoredContent lists the items of the user named username.
func authoredContent[T any](
	ctx context.Context,
	users repository.UserRepository,
	username string,
	list func(context.Context, uint) ([]T, error),
) ([]T, error) {
	author, err := users.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if author == nil {
		return nil, models.NewNotFound("User not found")
	}
	items, err := list(ctx, author.ID)
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []T{}
	}
	return items, nil
}
