package service

import (
	"context"
	"log/slog"

	"connectrpc.com/connect"

	"github.com/mmynk/splitledger/internal/ledger"
	"github.com/mmynk/splitledger/internal/models"
)

// DirectoryService implements the Connect DirectoryService (users and groups).
type DirectoryService struct {
	ledger *ledger.Ledger
}

// NewDirectoryService creates a new DirectoryService.
func NewDirectoryService(l *ledger.Ledger) *DirectoryService {
	return &DirectoryService{ledger: l}
}

// CreateUser registers a new user.
func (s *DirectoryService) CreateUser(ctx context.Context, req *connect.Request[CreateUserRequest]) (*connect.Response[CreateUserResponse], error) {
	slog.Info("CreateUser request received", "name", req.Msg.Name)

	user, err := s.ledger.CreateUser(ctx, req.Msg.Name, req.Msg.Email)
	if err != nil {
		return nil, toConnectError("CreateUser", err)
	}
	return connect.NewResponse(&CreateUserResponse{User: toUser(user)}), nil
}

// GetUser looks a user up by ID or email.
func (s *DirectoryService) GetUser(ctx context.Context, req *connect.Request[GetUserRequest]) (*connect.Response[GetUserResponse], error) {
	var (
		user *models.User
		err  error
	)
	if req.Msg.UserID != "" {
		user, err = s.ledger.GetUser(ctx, req.Msg.UserID)
	} else {
		user, err = s.ledger.GetUserByEmail(ctx, req.Msg.Email)
	}
	if err != nil {
		return nil, toConnectError("GetUser", err)
	}
	return connect.NewResponse(&GetUserResponse{User: toUser(user)}), nil
}

// CreateGroup creates a new group.
func (s *DirectoryService) CreateGroup(ctx context.Context, req *connect.Request[CreateGroupRequest]) (*connect.Response[CreateGroupResponse], error) {
	slog.Info("CreateGroup request received",
		"name", req.Msg.Name,
		"members_count", len(req.Msg.Members),
	)

	group, err := s.ledger.CreateGroup(ctx, req.Msg.Name, req.Msg.Description, req.Msg.Members)
	if err != nil {
		return nil, toConnectError("CreateGroup", err)
	}
	return connect.NewResponse(&CreateGroupResponse{Group: toGroup(group)}), nil
}

// GetGroup retrieves a group by ID.
func (s *DirectoryService) GetGroup(ctx context.Context, req *connect.Request[GetGroupRequest]) (*connect.Response[GetGroupResponse], error) {
	group, err := s.ledger.GetGroup(ctx, req.Msg.GroupID)
	if err != nil {
		return nil, toConnectError("GetGroup", err)
	}
	slog.Debug("GetGroup successful", "group_id", group.ID, "name", group.Name)
	return connect.NewResponse(&GetGroupResponse{Group: toGroup(group)}), nil
}

// AddGroupMembers adds existing users to a group.
func (s *DirectoryService) AddGroupMembers(ctx context.Context, req *connect.Request[AddGroupMembersRequest]) (*connect.Response[AddGroupMembersResponse], error) {
	slog.Info("AddGroupMembers request received",
		"group_id", req.Msg.GroupID,
		"users_count", len(req.Msg.UserIDs),
	)

	group, err := s.ledger.AddGroupMembers(ctx, req.Msg.GroupID, req.Msg.UserIDs)
	if err != nil {
		return nil, toConnectError("AddGroupMembers", err)
	}
	return connect.NewResponse(&AddGroupMembersResponse{Group: toGroup(group)}), nil
}
