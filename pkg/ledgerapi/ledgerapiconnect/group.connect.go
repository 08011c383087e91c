package ledgerapiconnect

import (
	"context"
	"net/http"

	"connectrpc.com/connect"

	"github.com/mmynk/splitledger/pkg/ledgerapi"
)

const (
	// GroupServiceName is the fully-qualified name of the GroupService service.
	GroupServiceName = "splitledger.v1.GroupService"
)

// Fully-qualified procedure names of GroupService RPCs.
const (
	GroupServiceCreateGroupProcedure = "/splitledger.v1.GroupService/CreateGroup"
	GroupServiceGetGroupProcedure    = "/splitledger.v1.GroupService/GetGroup"
	GroupServiceListGroupsProcedure  = "/splitledger.v1.GroupService/ListGroups"
	GroupServiceDeleteGroupProcedure = "/splitledger.v1.GroupService/DeleteGroup"
)

// GroupServiceClient is a client for the splitledger.v1.GroupService service.
type GroupServiceClient interface {
	CreateGroup(context.Context, *connect.Request[ledgerapi.CreateGroupRequest]) (*connect.Response[ledgerapi.CreateGroupResponse], error)
	GetGroup(context.Context, *connect.Request[ledgerapi.GetGroupRequest]) (*connect.Response[ledgerapi.GetGroupResponse], error)
	ListGroups(context.Context, *connect.Request[ledgerapi.ListGroupsRequest]) (*connect.Response[ledgerapi.ListGroupsResponse], error)
	DeleteGroup(context.Context, *connect.Request[ledgerapi.DeleteGroupRequest]) (*connect.Response[ledgerapi.DeleteGroupResponse], error)
}

// NewGroupServiceClient constructs a client for the splitledger.v1.GroupService service.
func NewGroupServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) GroupServiceClient {
	baseURL = trimSlash(baseURL)
	opts = clientOptions(opts)
	return &groupServiceClient{
		createGroup: connect.NewClient[ledgerapi.CreateGroupRequest, ledgerapi.CreateGroupResponse](httpClient, baseURL+GroupServiceCreateGroupProcedure, opts...),
		getGroup:    connect.NewClient[ledgerapi.GetGroupRequest, ledgerapi.GetGroupResponse](httpClient, baseURL+GroupServiceGetGroupProcedure, opts...),
		listGroups:  connect.NewClient[ledgerapi.ListGroupsRequest, ledgerapi.ListGroupsResponse](httpClient, baseURL+GroupServiceListGroupsProcedure, opts...),
		deleteGroup: connect.NewClient[ledgerapi.DeleteGroupRequest, ledgerapi.DeleteGroupResponse](httpClient, baseURL+GroupServiceDeleteGroupProcedure, opts...),
	}
}

type groupServiceClient struct {
	createGroup *connect.Client[ledgerapi.CreateGroupRequest, ledgerapi.CreateGroupResponse]
	getGroup    *connect.Client[ledgerapi.GetGroupRequest, ledgerapi.GetGroupResponse]
	listGroups  *connect.Client[ledgerapi.ListGroupsRequest, ledgerapi.ListGroupsResponse]
	deleteGroup *connect.Client[ledgerapi.DeleteGroupRequest, ledgerapi.DeleteGroupResponse]
}

func (c *groupServiceClient) CreateGroup(ctx context.Context, req *connect.Request[ledgerapi.CreateGroupRequest]) (*connect.Response[ledgerapi.CreateGroupResponse], error) {
	return c.createGroup.CallUnary(ctx, req)
}

func (c *groupServiceClient) GetGroup(ctx context.Context, req *connect.Request[ledgerapi.GetGroupRequest]) (*connect.Response[ledgerapi.GetGroupResponse], error) {
	return c.getGroup.CallUnary(ctx, req)
}

func (c *groupServiceClient) ListGroups(ctx context.Context, req *connect.Request[ledgerapi.ListGroupsRequest]) (*connect.Response[ledgerapi.ListGroupsResponse], error) {
	return c.listGroups.CallUnary(ctx, req)
}

func (c *groupServiceClient) DeleteGroup(ctx context.Context, req *connect.Request[ledgerapi.DeleteGroupRequest]) (*connect.Response[ledgerapi.DeleteGroupResponse], error) {
	return c.deleteGroup.CallUnary(ctx, req)
}

// GroupServiceHandler is an implementation of the splitledger.v1.GroupService service.
type GroupServiceHandler interface {
	CreateGroup(context.Context, *connect.Request[ledgerapi.CreateGroupRequest]) (*connect.Response[ledgerapi.CreateGroupResponse], error)
	GetGroup(context.Context, *connect.Request[ledgerapi.GetGroupRequest]) (*connect.Response[ledgerapi.GetGroupResponse], error)
	ListGroups(context.Context, *connect.Request[ledgerapi.ListGroupsRequest]) (*connect.Response[ledgerapi.ListGroupsResponse], error)
	DeleteGroup(context.Context, *connect.Request[ledgerapi.DeleteGroupRequest]) (*connect.Response[ledgerapi.DeleteGroupResponse], error)
}

// NewGroupServiceHandler builds an HTTP handler from the service implementation.
func NewGroupServiceHandler(svc GroupServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = handlerOptions(opts)
	createGroup := connect.NewUnaryHandler(GroupServiceCreateGroupProcedure, svc.CreateGroup, opts...)
	getGroup := connect.NewUnaryHandler(GroupServiceGetGroupProcedure, svc.GetGroup, opts...)
	listGroups := connect.NewUnaryHandler(GroupServiceListGroupsProcedure, svc.ListGroups, opts...)
	deleteGroup := connect.NewUnaryHandler(GroupServiceDeleteGroupProcedure, svc.DeleteGroup, opts...)
	return "/" + GroupServiceName + "/", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case GroupServiceCreateGroupProcedure:
			createGroup.ServeHTTP(w, r)
		case GroupServiceGetGroupProcedure:
			getGroup.ServeHTTP(w, r)
		case GroupServiceListGroupsProcedure:
			listGroups.ServeHTTP(w, r)
		case GroupServiceDeleteGroupProcedure:
			deleteGroup.ServeHTTP(w, r)
		default:
			http.NotFound(w, r)
		}
	})
}

// UnimplementedGroupServiceHandler returns CodeUnimplemented from all methods.
type UnimplementedGroupServiceHandler struct{}

func (UnimplementedGroupServiceHandler) CreateGroup(context.Context, *connect.Request[ledgerapi.CreateGroupRequest]) (*connect.Response[ledgerapi.CreateGroupResponse], error) {
	return nil, unimplemented("CreateGroup")
}

func (UnimplementedGroupServiceHandler) GetGroup(context.Context, *connect.Request[ledgerapi.GetGroupRequest]) (*connect.Response[ledgerapi.GetGroupResponse], error) {
	return nil, unimplemented("GetGroup")
}

func (UnimplementedGroupServiceHandler) ListGroups(context.Context, *connect.Request[ledgerapi.ListGroupsRequest]) (*connect.Response[ledgerapi.ListGroupsResponse], error) {
	return nil, unimplemented("ListGroups")
}

func (UnimplementedGroupServiceHandler) DeleteGroup(context.Context, *connect.Request[ledgerapi.DeleteGroupRequest]) (*connect.Response[ledgerapi.DeleteGroupResponse], error) {
	return nil, unimplemented("DeleteGroup")
}
