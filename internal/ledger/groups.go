package ledger

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/mmynk/groupledger/internal/models"
	"github.com/mmynk/groupledger/internal/notify"
)

const maxGroupNameLength = 100

// CreateGroup creates a group with the caller as its first member.
func (l *Ledger) CreateGroup(ctx context.Context, name string) (*models.Group, error) {
	userID, err := l.caller(ctx)
	if err != nil {
		return nil, err
	}

	name = strings.TrimSpace(name)
	switch {
	case name == "":
		return nil, l.invalid(&models.ValidationError{Field: "name", Reason: "required"})
	case len(name) > maxGroupNameLength:
		return nil, l.invalid(&models.ValidationError{Field: "name", Reason: fmt.Sprintf("longer than %d characters", maxGroupNameLength)})
	}

	group := &models.Group{Name: name, Members: []string{userID}}
	if err := l.store.CreateGroup(ctx, group); err != nil {
		return nil, err
	}

	slog.Info("Group created", "group_id", group.ID, "name", group.Name, "user_id", userID)
	l.notify(ctx, group.ID, notify.MemberJoined, 0, userID)
	return group, nil
}

// JoinGroup adds the caller to the group. Joining twice is a no-op.
func (l *Ledger) JoinGroup(ctx context.Context, groupID string) (*models.Group, error) {
	userID, err := l.caller(ctx)
	if err != nil {
		return nil, err
	}
	group, err := l.store.GetGroup(ctx, groupID)
	if err != nil {
		return nil, err
	}
	if group.HasMember(userID) {
		return group, nil
	}

	if err := l.store.AddGroupMember(ctx, groupID, userID); err != nil {
		return nil, err
	}
	slog.Info("Member joined group", "group_id", groupID, "user_id", userID)
	l.notify(ctx, groupID, notify.MemberJoined, 0, userID)
	return l.store.GetGroup(ctx, groupID)
}

// LeaveGroup removes the caller from the group. Existing expenses and debt
// lines are kept.
func (l *Ledger) LeaveGroup(ctx context.Context, groupID string) error {
	userID, _, err := l.memberGroup(ctx, groupID)
	if err != nil {
		return err
	}
	if err := l.store.RemoveGroupMember(ctx, groupID, userID); err != nil {
		return err
	}
	slog.Info("Member left group", "group_id", groupID, "user_id", userID)
	l.notify(ctx, groupID, notify.MemberLeft, 0, userID)
	return nil
}

// GetGroup returns a group the caller belongs to.
func (l *Ledger) GetGroup(ctx context.Context, groupID string) (*models.Group, error) {
	_, group, err := l.memberGroup(ctx, groupID)
	return group, err
}

// ListMyGroups returns the caller's groups.
func (l *Ledger) ListMyGroups(ctx context.Context) ([]*models.Group, error) {
	userID, err := l.caller(ctx)
	if err != nil {
		return nil, err
	}
	return l.store.ListGroupsForUser(ctx, userID)
}
