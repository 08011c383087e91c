package service

import (
	"context"
	"testing"

	"connectrpc.com/connect"

	"github.com/mmynk/splitledger/pkg/ledgerapi"
)

func TestCreateGroup(t *testing.T) {
	env := setupTestServer(t)

	resp, err := env.groups.CreateGroup(context.Background(), connect.NewRequest(&ledgerapi.CreateGroupRequest{
		Name:    "Roommates",
		Members: []string{"Alice", " Bob ", "Charlie", "Alice"},
	}))
	if err != nil {
		t.Fatalf("CreateGroup failed: %v", err)
	}

	if resp.Msg.Group == nil {
		t.Fatal("expected group in response")
	}

	if resp.Msg.Group.ID == "" {
		t.Error("expected non-empty group ID")
	}

	if resp.Msg.Group.Name != "Roommates" {
		t.Errorf("name: expected 'Roommates', got '%s'", resp.Msg.Group.Name)
	}

	want := []string{"Alice", "Bob", "Charlie"}
	if len(resp.Msg.Group.Members) != len(want) {
		t.Fatalf("members: expected %v, got %v", want, resp.Msg.Group.Members)
	}
	for i := range want {
		if resp.Msg.Group.Members[i] != want[i] {
			t.Errorf("members[%d]: expected %s, got %s", i, want[i], resp.Msg.Group.Members[i])
		}
	}

	if resp.Msg.Group.CreatedAt == 0 {
		t.Error("expected non-zero CreatedAt")
	}
}

func TestCreateGroup_Invalid(t *testing.T) {
	env := setupTestServer(t)

	_, err := env.groups.CreateGroup(context.Background(), connect.NewRequest(&ledgerapi.CreateGroupRequest{
		Name: "   ",
	}))
	expectCode(t, err, connect.CodeInvalidArgument)
}

func TestCreateGroup_Duplicate(t *testing.T) {
	env := setupTestServer(t)

	req := &ledgerapi.CreateGroupRequest{Name: "Goa Trip", Members: []string{"A"}}
	if _, err := env.groups.CreateGroup(context.Background(), connect.NewRequest(req)); err != nil {
		t.Fatalf("CreateGroup failed: %v", err)
	}

	_, err := env.groups.CreateGroup(context.Background(), connect.NewRequest(req))
	expectCode(t, err, connect.CodeAlreadyExists)
}

func TestGetGroup(t *testing.T) {
	env := setupTestServer(t)

	createResp, err := env.groups.CreateGroup(context.Background(), connect.NewRequest(&ledgerapi.CreateGroupRequest{
		Name:    "Work Lunch",
		Members: []string{"Diana", "Eve"},
	}))
	if err != nil {
		t.Fatalf("CreateGroup failed: %v", err)
	}

	getResp, err := env.groups.GetGroup(context.Background(), connect.NewRequest(&ledgerapi.GetGroupRequest{
		GroupID: createResp.Msg.Group.ID,
	}))
	if err != nil {
		t.Fatalf("GetGroup failed: %v", err)
	}

	if getResp.Msg.Group.Name != "Work Lunch" {
		t.Errorf("name: expected 'Work Lunch', got '%s'", getResp.Msg.Group.Name)
	}

	if len(getResp.Msg.Group.Members) != 2 {
		t.Errorf("members: expected 2, got %d", len(getResp.Msg.Group.Members))
	}
}

func TestGetGroup_NotFound(t *testing.T) {
	env := setupTestServer(t)

	_, err := env.groups.GetGroup(context.Background(), connect.NewRequest(&ledgerapi.GetGroupRequest{
		GroupID: "nonexistent-id",
	}))
	expectCode(t, err, connect.CodeNotFound)
}

func TestListGroups(t *testing.T) {
	env := setupTestServer(t)

	for _, req := range []*ledgerapi.CreateGroupRequest{
		{Name: "Group B", Members: []string{"B1", "B2"}},
		{Name: "Group A", Members: []string{"A1", "A2"}},
	} {
		if _, err := env.groups.CreateGroup(context.Background(), connect.NewRequest(req)); err != nil {
			t.Fatalf("CreateGroup failed: %v", err)
		}
	}

	listResp, err := env.groups.ListGroups(context.Background(), connect.NewRequest(&ledgerapi.ListGroupsRequest{}))
	if err != nil {
		t.Fatalf("ListGroups failed: %v", err)
	}

	if len(listResp.Msg.Groups) != 2 {
		t.Fatalf("expected 2 groups, got %d", len(listResp.Msg.Groups))
	}
	if listResp.Msg.Groups[0].Name != "Group A" || listResp.Msg.Groups[1].Name != "Group B" {
		t.Errorf("groups not ordered by name: %s, %s", listResp.Msg.Groups[0].Name, listResp.Msg.Groups[1].Name)
	}

	for _, g := range listResp.Msg.Groups {
		if len(g.Members) == 0 {
			t.Errorf("group %s has no members", g.Name)
		}
	}
}

func TestListGroups_Empty(t *testing.T) {
	env := setupTestServer(t)

	listResp, err := env.groups.ListGroups(context.Background(), connect.NewRequest(&ledgerapi.ListGroupsRequest{}))
	if err != nil {
		t.Fatalf("ListGroups failed: %v", err)
	}

	if len(listResp.Msg.Groups) != 0 {
		t.Errorf("expected 0 groups, got %d", len(listResp.Msg.Groups))
	}
}

func TestDeleteGroup(t *testing.T) {
	env := setupTestServer(t)
	ctx := context.Background()

	createResp, err := env.groups.CreateGroup(ctx, connect.NewRequest(&ledgerapi.CreateGroupRequest{
		Name:    "To Be Deleted",
		Members: []string{"Delete", "Me"},
	}))
	if err != nil {
		t.Fatalf("CreateGroup failed: %v", err)
	}
	groupID := createResp.Msg.Group.ID

	if _, err := env.groups.DeleteGroup(ctx, connect.NewRequest(&ledgerapi.DeleteGroupRequest{GroupID: groupID})); err != nil {
		t.Fatalf("DeleteGroup failed: %v", err)
	}

	_, err = env.groups.GetGroup(ctx, connect.NewRequest(&ledgerapi.GetGroupRequest{GroupID: groupID}))
	expectCode(t, err, connect.CodeNotFound)

	_, err = env.groups.DeleteGroup(ctx, connect.NewRequest(&ledgerapi.DeleteGroupRequest{GroupID: groupID}))
	expectCode(t, err, connect.CodeNotFound)
}

func TestDeleteGroup_KeepsTransactions(t *testing.T) {
	env := setupTestServer(t)
	ctx := context.Background()

	addResp, err := env.ledger.AddTransaction(ctx, connect.NewRequest(&ledgerapi.AddTransactionRequest{
		Payer:        "Alice",
		Amount:       60,
		Participants: []string{"Bob", "Carol"},
		GroupName:    "Trip",
	}))
	if err != nil {
		t.Fatalf("AddTransaction failed: %v", err)
	}
	groupID := addResp.Msg.Transaction.GroupID

	if _, err := env.groups.DeleteGroup(ctx, connect.NewRequest(&ledgerapi.DeleteGroupRequest{GroupID: groupID})); err != nil {
		t.Fatalf("DeleteGroup failed: %v", err)
	}

	getResp, err := env.ledger.GetTransaction(ctx, connect.NewRequest(&ledgerapi.GetTransactionRequest{
		ID: addResp.Msg.Transaction.ID,
	}))
	if err != nil {
		t.Fatalf("GetTransaction failed: %v", err)
	}
	if getResp.Msg.Transaction.GroupID != "" || getResp.Msg.Transaction.GroupName != "" {
		t.Errorf("transaction still filed under a group: %+v", getResp.Msg.Transaction)
	}

	balances, err := env.ledger.GetBalances(ctx, connect.NewRequest(&ledgerapi.GetBalancesRequest{}))
	if err != nil {
		t.Fatalf("GetBalances failed: %v", err)
	}
	if len(balances.Msg.Balances) != 3 {
		t.Errorf("expected 3 balances after group deletion, got %d", len(balances.Msg.Balances))
	}
}
