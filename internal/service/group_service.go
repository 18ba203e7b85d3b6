package service

import (
	"context"
	"log/slog"

	"connectrpc.com/connect"

	"github.com/mmynk/groupledger/internal/ledger"
	"github.com/mmynk/groupledger/pkg/rpc"
)

var _ rpc.GroupServiceHandler = (*GroupService)(nil)

// GroupService implements the Connect GroupService
type GroupService struct {
	ledger *ledger.Ledger
}

// NewGroupService creates a new GroupService over the given ledger.
func NewGroupService(l *ledger.Ledger) *GroupService {
	return &GroupService{ledger: l}
}

// CreateGroup creates a new group with the caller as its only member.
func (s *GroupService) CreateGroup(ctx context.Context, req *connect.Request[rpc.CreateGroupRequest]) (*connect.Response[rpc.CreateGroupResponse], error) {
	slog.Info("CreateGroup request received", "name", req.Msg.Name)

	group, err := s.ledger.CreateGroup(ctx, req.Msg.Name)
	if err != nil {
		slog.Error("CreateGroup failed", "error", err)
		return nil, toConnectError(err)
	}

	return connect.NewResponse(&rpc.CreateGroupResponse{Group: toRPCGroup(group)}), nil
}

// JoinGroup adds the caller to a group by its ID (the invite code).
func (s *GroupService) JoinGroup(ctx context.Context, req *connect.Request[rpc.JoinGroupRequest]) (*connect.Response[rpc.JoinGroupResponse], error) {
	slog.Info("JoinGroup request received", "group_id", req.Msg.GroupID)

	group, err := s.ledger.JoinGroup(ctx, req.Msg.GroupID)
	if err != nil {
		return nil, toConnectError(err)
	}

	return connect.NewResponse(&rpc.JoinGroupResponse{Group: toRPCGroup(group)}), nil
}

// LeaveGroup removes the caller from a group.
func (s *GroupService) LeaveGroup(ctx context.Context, req *connect.Request[rpc.LeaveGroupRequest]) (*connect.Response[rpc.LeaveGroupResponse], error) {
	slog.Info("LeaveGroup request received", "group_id", req.Msg.GroupID)

	if err := s.ledger.LeaveGroup(ctx, req.Msg.GroupID); err != nil {
		return nil, toConnectError(err)
	}

	return connect.NewResponse(&rpc.LeaveGroupResponse{}), nil
}

// GetGroup retrieves a group by ID.
func (s *GroupService) GetGroup(ctx context.Context, req *connect.Request[rpc.GetGroupRequest]) (*connect.Response[rpc.GetGroupResponse], error) {
	group, err := s.ledger.GetGroup(ctx, req.Msg.GroupID)
	if err != nil {
		return nil, toConnectError(err)
	}

	return connect.NewResponse(&rpc.GetGroupResponse{Group: toRPCGroup(group)}), nil
}

// ListMyGroups retrieves the caller's groups.
func (s *GroupService) ListMyGroups(ctx context.Context, req *connect.Request[rpc.ListMyGroupsRequest]) (*connect.Response[rpc.ListMyGroupsResponse], error) {
	groups, err := s.ledger.ListMyGroups(ctx)
	if err != nil {
		return nil, toConnectError(err)
	}

	out := make([]*rpc.Group, len(groups))
	for i, g := range groups {
		out[i] = toRPCGroup(g)
	}

	slog.Debug("ListMyGroups successful", "count", len(groups))
	return connect.NewResponse(&rpc.ListMyGroupsResponse{Groups: out}), nil
}
