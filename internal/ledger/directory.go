package ledger

import (
	"context"
	"errors"
	"log/slog"
	"net/mail"
	"strings"

	"github.com/mmynk/splitledger/internal/models"
	"github.com/mmynk/splitledger/internal/storage"
)

// CreateUser registers a user. Emails are unique.
func (l *Ledger) CreateUser(ctx context.Context, name, email string) (*models.User, error) {
	name = strings.TrimSpace(name)
	email = strings.ToLower(strings.TrimSpace(email))
	if name == "" {
		return nil, validationErr("name is required")
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, validationErr("invalid email %q", email)
	}

	existing, err := l.store.GetUserByEmail(ctx, email)
	switch {
	case err == nil:
		return nil, validationErr("email %s is already used by %s", email, existing.ID)
	case !errors.Is(err, models.ErrNotFound):
		return nil, storeErr("get user by email", err)
	}

	user := &models.User{Name: name, Email: email, CreatedAt: l.now().Unix()}
	if err := l.store.CreateUser(ctx, user); err != nil {
		return nil, storeErr("create user", err)
	}
	slog.Info("User created", "user_id", user.ID)
	return user, nil
}

// GetUser returns a user by ID.
func (l *Ledger) GetUser(ctx context.Context, userID string) (*models.User, error) {
	user, err := l.store.GetUser(ctx, userID)
	if err != nil {
		return nil, storeErr("get user", err)
	}
	return user, nil
}

// GetUserByEmail returns a user by email address.
func (l *Ledger) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	user, err := l.store.GetUserByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		return nil, storeErr("get user by email", err)
	}
	return user, nil
}

// CreateGroup creates a group with the given members, who must exist.
func (l *Ledger) CreateGroup(ctx context.Context, name, description string, members []string) (*models.Group, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, validationErr("group name is required")
	}

	group := &models.Group{
		Name:        name,
		Description: description,
		Members:     dedupe(members),
		CreatedAt:   l.now().Unix(),
	}
	err := l.store.WithTx(ctx, func(q storage.Queries) error {
		for _, userID := range group.Members {
			if _, err := q.GetUser(ctx, userID); err != nil {
				return storeErr("get user", err)
			}
		}
		return storeErr("create group", q.CreateGroup(ctx, group))
	})
	if err != nil {
		return nil, storeErr("create group", err)
	}
	slog.Info("Group created", "group_id", group.ID, "members", len(group.Members))
	return group, nil
}

// GetGroup returns a group and its members.
func (l *Ledger) GetGroup(ctx context.Context, groupID string) (*models.Group, error) {
	group, err := l.store.GetGroup(ctx, groupID)
	if err != nil {
		return nil, storeErr("get group", err)
	}
	return group, nil
}

// AddGroupMembers adds existing users to a group and returns the updated group.
func (l *Ledger) AddGroupMembers(ctx context.Context, groupID string, userIDs []string) (*models.Group, error) {
	if len(userIDs) == 0 {
		return nil, validationErr("no users to add")
	}

	var group *models.Group
	err := l.store.WithTx(ctx, func(q storage.Queries) error {
		if _, err := q.GetGroup(ctx, groupID); err != nil {
			return storeErr("get group", err)
		}
		for _, userID := range userIDs {
			if _, err := q.GetUser(ctx, userID); err != nil {
				return storeErr("get user", err)
			}
		}
		if err := q.AddGroupMembers(ctx, groupID, dedupe(userIDs)); err != nil {
			return storeErr("add group members", err)
		}
		var err error
		group, err = q.GetGroup(ctx, groupID)
		return storeErr("get group", err)
	})
	if err != nil {
		return nil, storeErr("add group members", err)
	}
	slog.Info("Group members added", "group_id", groupID, "added", len(userIDs))
	return group, nil
}

func dedupe(ids []string) []string {
	seen := make(map[string]bool, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}
