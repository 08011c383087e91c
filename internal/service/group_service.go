package service

import (
	"context"
	"log/slog"
	"strings"

	"connectrpc.com/connect"

	"github.com/mmynk/splitledger/internal/models"
	"github.com/mmynk/splitledger/internal/storage"
	"github.com/mmynk/splitledger/pkg/ledgerapi"
	"github.com/mmynk/splitledger/pkg/ledgerapi/ledgerapiconnect"
)

// GroupService implements the Connect GroupService
type GroupService struct {
	ledgerapiconnect.UnimplementedGroupServiceHandler
	store storage.Store
}

// NewGroupService creates a new GroupService with the given storage backend.
func NewGroupService(store storage.Store) *GroupService {
	return &GroupService{store: store}
}

// CreateGroup creates a new group. Names are unique.
func (s *GroupService) CreateGroup(ctx context.Context, req *connect.Request[ledgerapi.CreateGroupRequest]) (*connect.Response[ledgerapi.CreateGroupResponse], error) {
	slog.Info("CreateGroup request received",
		"name", req.Msg.Name,
		"members_count", len(req.Msg.Members),
	)

	name := strings.TrimSpace(req.Msg.Name)
	if name == "" {
		return nil, invalidArgument("group name is required")
	}

	members, err := uniqueNames(req.Msg.Members, false)
	if err != nil {
		return nil, connect.NewError(connect.CodeInvalidArgument, err)
	}

	group := &models.Group{
		Name:    name,
		Members: members,
	}

	// Save to storage (generates ID and CreatedAt)
	if err := s.store.CreateGroup(ctx, group); err != nil {
		slog.Error("CreateGroup failed", "name", name, "error", err)
		return nil, storeError(err)
	}

	slog.Info("Group created", "group_id", group.ID)

	return connect.NewResponse(&ledgerapi.CreateGroupResponse{
		Group: toAPIGroup(group),
	}), nil
}

// GetGroup retrieves a group by ID.
func (s *GroupService) GetGroup(ctx context.Context, req *connect.Request[ledgerapi.GetGroupRequest]) (*connect.Response[ledgerapi.GetGroupResponse], error) {
	slog.Info("GetGroup request received", "group_id", req.Msg.GroupID)

	group, err := s.store.GetGroup(ctx, req.Msg.GroupID)
	if err != nil {
		slog.Error("GetGroup failed", "group_id", req.Msg.GroupID, "error", err)
		return nil, storeError(err)
	}

	slog.Info("GetGroup successful", "group_id", group.ID, "name", group.Name)

	return connect.NewResponse(&ledgerapi.GetGroupResponse{
		Group: toAPIGroup(group),
	}), nil
}

// ListGroups retrieves all groups ordered by name.
func (s *GroupService) ListGroups(ctx context.Context, req *connect.Request[ledgerapi.ListGroupsRequest]) (*connect.Response[ledgerapi.ListGroupsResponse], error) {
	slog.Info("ListGroups request received")

	groups, err := s.store.ListGroups(ctx)
	if err != nil {
		slog.Error("ListGroups failed", "error", err)
		return nil, storeError(err)
	}

	out := make([]*ledgerapi.Group, len(groups))
	for i, group := range groups {
		out[i] = toAPIGroup(group)
	}

	slog.Info("ListGroups successful", "count", len(groups))

	return connect.NewResponse(&ledgerapi.ListGroupsResponse{
		Groups: out,
	}), nil
}

// DeleteGroup removes a group by ID. Its transactions and settlements stay on
// the ledger as personal records.
func (s *GroupService) DeleteGroup(ctx context.Context, req *connect.Request[ledgerapi.DeleteGroupRequest]) (*connect.Response[ledgerapi.DeleteGroupResponse], error) {
	slog.Info("DeleteGroup request received", "group_id", req.Msg.GroupID)

	if err := s.store.DeleteGroup(ctx, req.Msg.GroupID); err != nil {
		slog.Error("DeleteGroup failed", "group_id", req.Msg.GroupID, "error", err)
		return nil, storeError(err)
	}

	slog.Info("Group deleted", "group_id", req.Msg.GroupID)

	return connect.NewResponse(&ledgerapi.DeleteGroupResponse{}), nil
}
