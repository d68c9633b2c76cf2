package service

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"connectrpc.com/connect"
)

const (
	// ExpenseServiceName is the fully-qualified name of the ExpenseService.
	ExpenseServiceName = "splitledger.v1.ExpenseService"
	// DirectoryServiceName is the fully-qualified name of the DirectoryService.
	DirectoryServiceName = "splitledger.v1.DirectoryService"
)

// Procedure paths of the ExpenseService.
const (
	ExpenseServiceCreateExpenseProcedure           = "/splitledger.v1.ExpenseService/CreateExpense"
	ExpenseServiceEditExpenseProcedure             = "/splitledger.v1.ExpenseService/EditExpense"
	ExpenseServiceDeleteExpenseProcedure           = "/splitledger.v1.ExpenseService/DeleteExpense"
	ExpenseServiceGetExpenseProcedure              = "/splitledger.v1.ExpenseService/GetExpense"
	ExpenseServiceListGroupExpensesProcedure       = "/splitledger.v1.ExpenseService/ListGroupExpenses"
	ExpenseServicePreviewSplitProcedure            = "/splitledger.v1.ExpenseService/PreviewSplit"
	ExpenseServiceRecordPaymentProcedure           = "/splitledger.v1.ExpenseService/RecordPayment"
	ExpenseServiceReversePaymentProcedure          = "/splitledger.v1.ExpenseService/ReversePayment"
	ExpenseServiceListExpenseTransactionsProcedure = "/splitledger.v1.ExpenseService/ListExpenseTransactions"
	ExpenseServiceListUserTransactionsProcedure    = "/splitledger.v1.ExpenseService/ListUserTransactions"
	ExpenseServiceGetUserDuesProcedure             = "/splitledger.v1.ExpenseService/GetUserDues"
	ExpenseServiceGetGroupBalancesProcedure        = "/splitledger.v1.ExpenseService/GetGroupBalances"
)

// Procedure paths of the DirectoryService.
const (
	DirectoryServiceCreateUserProcedure      = "/splitledger.v1.DirectoryService/CreateUser"
	DirectoryServiceGetUserProcedure         = "/splitledger.v1.DirectoryService/GetUser"
	DirectoryServiceCreateGroupProcedure     = "/splitledger.v1.DirectoryService/CreateGroup"
	DirectoryServiceGetGroupProcedure        = "/splitledger.v1.DirectoryService/GetGroup"
	DirectoryServiceAddGroupMembersProcedure = "/splitledger.v1.DirectoryService/AddGroupMembers"
)

// jsonCodec marshals the plain message structs with encoding/json. It
// replaces connect's built-in "json" codec, which only accepts protobuf
// messages.
type jsonCodec struct{}

func (jsonCodec) Name() string { return "json" }

func (jsonCodec) Marshal(v any) ([]byte, error) { return json.Marshal(v) }

func (jsonCodec) Unmarshal(data []byte, v any) error { return json.Unmarshal(data, v) }

func handle[Req, Res any](mux *http.ServeMux, procedure string, fn func(context.Context, *connect.Request[Req]) (*connect.Response[Res], error), opts []connect.HandlerOption) {
	mux.Handle(procedure, connect.NewUnaryHandler(procedure, fn, opts...))
}

// NewExpenseServiceHandler builds an HTTP handler from the service
// implementation. It returns the path on which to mount the handler and the
// handler itself.
func NewExpenseServiceHandler(svc *ExpenseService, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = append([]connect.HandlerOption{connect.WithCodec(jsonCodec{})}, opts...)
	mux := http.NewServeMux()
	handle(mux, ExpenseServiceCreateExpenseProcedure, svc.CreateExpense, opts)
	handle(mux, ExpenseServiceEditExpenseProcedure, svc.EditExpense, opts)
	handle(mux, ExpenseServiceDeleteExpenseProcedure, svc.DeleteExpense, opts)
	handle(mux, ExpenseServiceGetExpenseProcedure, svc.GetExpense, opts)
	handle(mux, ExpenseServiceListGroupExpensesProcedure, svc.ListGroupExpenses, opts)
	handle(mux, ExpenseServicePreviewSplitProcedure, svc.PreviewSplit, opts)
	handle(mux, ExpenseServiceRecordPaymentProcedure, svc.RecordPayment, opts)
	handle(mux, ExpenseServiceReversePaymentProcedure, svc.ReversePayment, opts)
	handle(mux, ExpenseServiceListExpenseTransactionsProcedure, svc.ListExpenseTransactions, opts)
	handle(mux, ExpenseServiceListUserTransactionsProcedure, svc.ListUserTransactions, opts)
	handle(mux, ExpenseServiceGetUserDuesProcedure, svc.GetUserDues, opts)
	handle(mux, ExpenseServiceGetGroupBalancesProcedure, svc.GetGroupBalances, opts)
	return "/" + ExpenseServiceName + "/", mux
}

// NewDirectoryServiceHandler builds an HTTP handler for the DirectoryService.
func NewDirectoryServiceHandler(svc *DirectoryService, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = append([]connect.HandlerOption{connect.WithCodec(jsonCodec{})}, opts...)
	mux := http.NewServeMux()
	handle(mux, DirectoryServiceCreateUserProcedure, svc.CreateUser, opts)
	handle(mux, DirectoryServiceGetUserProcedure, svc.GetUser, opts)
	handle(mux, DirectoryServiceCreateGroupProcedure, svc.CreateGroup, opts)
	handle(mux, DirectoryServiceGetGroupProcedure, svc.GetGroup, opts)
	handle(mux, DirectoryServiceAddGroupMembersProcedure, svc.AddGroupMembers, opts)
	return "/" + DirectoryServiceName + "/", mux
}

// ExpenseServiceClient is a client for the splitledger.v1.ExpenseService.
type ExpenseServiceClient struct {
	createExpense           *connect.Client[CreateExpenseRequest, CreateExpenseResponse]
	editExpense             *connect.Client[EditExpenseRequest, EditExpenseResponse]
	deleteExpense           *connect.Client[DeleteExpenseRequest, DeleteExpenseResponse]
	getExpense              *connect.Client[GetExpenseRequest, GetExpenseResponse]
	listGroupExpenses       *connect.Client[ListGroupExpensesRequest, ListGroupExpensesResponse]
	previewSplit            *connect.Client[PreviewSplitRequest, PreviewSplitResponse]
	recordPayment           *connect.Client[RecordPaymentRequest, RecordPaymentResponse]
	reversePayment          *connect.Client[ReversePaymentRequest, ReversePaymentResponse]
	listExpenseTransactions *connect.Client[ListExpenseTransactionsRequest, ListExpenseTransactionsResponse]
	listUserTransactions    *connect.Client[ListUserTransactionsRequest, ListUserTransactionsResponse]
	getUserDues             *connect.Client[GetUserDuesRequest, GetUserDuesResponse]
	getGroupBalances        *connect.Client[GetGroupBalancesRequest, GetGroupBalancesResponse]
}

// NewExpenseServiceClient constructs a client for the ExpenseService. The
// baseURL is the scheme and host of the server, e.g. http://localhost:8080.
func NewExpenseServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) *ExpenseServiceClient {
	baseURL = strings.TrimRight(baseURL, "/")
	opts = append([]connect.ClientOption{connect.WithCodec(jsonCodec{})}, opts...)
	return &ExpenseServiceClient{
		createExpense:           connect.NewClient[CreateExpenseRequest, CreateExpenseResponse](httpClient, baseURL+ExpenseServiceCreateExpenseProcedure, opts...),
		editExpense:             connect.NewClient[EditExpenseRequest, EditExpenseResponse](httpClient, baseURL+ExpenseServiceEditExpenseProcedure, opts...),
		deleteExpense:           connect.NewClient[DeleteExpenseRequest, DeleteExpenseResponse](httpClient, baseURL+ExpenseServiceDeleteExpenseProcedure, opts...),
		getExpense:              connect.NewClient[GetExpenseRequest, GetExpenseResponse](httpClient, baseURL+ExpenseServiceGetExpenseProcedure, opts...),
		listGroupExpenses:       connect.NewClient[ListGroupExpensesRequest, ListGroupExpensesResponse](httpClient, baseURL+ExpenseServiceListGroupExpensesProcedure, opts...),
		previewSplit:            connect.NewClient[PreviewSplitRequest, PreviewSplitResponse](httpClient, baseURL+ExpenseServicePreviewSplitProcedure, opts...),
		recordPayment:           connect.NewClient[RecordPaymentRequest, RecordPaymentResponse](httpClient, baseURL+ExpenseServiceRecordPaymentProcedure, opts...),
		reversePayment:          connect.NewClient[ReversePaymentRequest, ReversePaymentResponse](httpClient, baseURL+ExpenseServiceReversePaymentProcedure, opts...),
		listExpenseTransactions: connect.NewClient[ListExpenseTransactionsRequest, ListExpenseTransactionsResponse](httpClient, baseURL+ExpenseServiceListExpenseTransactionsProcedure, opts...),
		listUserTransactions:    connect.NewClient[ListUserTransactionsRequest, ListUserTransactionsResponse](httpClient, baseURL+ExpenseServiceListUserTransactionsProcedure, opts...),
		getUserDues:             connect.NewClient[GetUserDuesRequest, GetUserDuesResponse](httpClient, baseURL+ExpenseServiceGetUserDuesProcedure, opts...),
		getGroupBalances:        connect.NewClient[GetGroupBalancesRequest, GetGroupBalancesResponse](httpClient, baseURL+ExpenseServiceGetGroupBalancesProcedure, opts...),
	}
}

func (c *ExpenseServiceClient) CreateExpense(ctx context.Context, req *connect.Request[CreateExpenseRequest]) (*connect.Response[CreateExpenseResponse], error) {
	return c.createExpense.CallUnary(ctx, req)
}

func (c *ExpenseServiceClient) EditExpense(ctx context.Context, req *connect.Request[EditExpenseRequest]) (*connect.Response[EditExpenseResponse], error) {
	return c.editExpense.CallUnary(ctx, req)
}

func (c *ExpenseServiceClient) DeleteExpense(ctx context.Context, req *connect.Request[DeleteExpenseRequest]) (*connect.Response[DeleteExpenseResponse], error) {
	return c.deleteExpense.CallUnary(ctx, req)
}

func (c *ExpenseServiceClient) GetExpense(ctx context.Context, req *connect.Request[GetExpenseRequest]) (*connect.Response[GetExpenseResponse], error) {
	return c.getExpense.CallUnary(ctx, req)
}

func (c *ExpenseServiceClient) ListGroupExpenses(ctx context.Context, req *connect.Request[ListGroupExpensesRequest]) (*connect.Response[ListGroupExpensesResponse], error) {
	return c.listGroupExpenses.CallUnary(ctx, req)
}

func (c *ExpenseServiceClient) PreviewSplit(ctx context.Context, req *connect.Request[PreviewSplitRequest]) (*connect.Response[PreviewSplitResponse], error) {
	return c.previewSplit.CallUnary(ctx, req)
}

func (c *ExpenseServiceClient) RecordPayment(ctx context.Context, req *connect.Request[RecordPaymentRequest]) (*connect.Response[RecordPaymentResponse], error) {
	return c.recordPayment.CallUnary(ctx, req)
}

func (c *ExpenseServiceClient) ReversePayment(ctx context.Context, req *connect.Request[ReversePaymentRequest]) (*connect.Response[ReversePaymentResponse], error) {
	return c.reversePayment.CallUnary(ctx, req)
}

func (c *ExpenseServiceClient) ListExpenseTransactions(ctx context.Context, req *connect.Request[ListExpenseTransactionsRequest]) (*connect.Response[ListExpenseTransactionsResponse], error) {
	return c.listExpenseTransactions.CallUnary(ctx, req)
}

func (c *ExpenseServiceClient) ListUserTransactions(ctx context.Context, req *connect.Request[ListUserTransactionsRequest]) (*connect.Response[ListUserTransactionsResponse], error) {
	return c.listUserTransactions.CallUnary(ctx, req)
}

func (c *ExpenseServiceClient) GetUserDues(ctx context.Context, req *connect.Request[GetUserDuesRequest]) (*connect.Response[GetUserDuesResponse], error) {
	return c.getUserDues.CallUnary(ctx, req)
}

func (c *ExpenseServiceClient) GetGroupBalances(ctx context.Context, req *connect.Request[GetGroupBalancesRequest]) (*connect.Response[GetGroupBalancesResponse], error) {
	return c.getGroupBalances.CallUnary(ctx, req)
}

// DirectoryServiceClient is a client for the splitledger.v1.DirectoryService.
type DirectoryServiceClient struct {
	createUser      *connect.Client[CreateUserRequest, CreateUserResponse]
	getUser         *connect.Client[GetUserRequest, GetUserResponse]
	createGroup     *connect.Client[CreateGroupRequest, CreateGroupResponse]
	getGroup        *connect.Client[GetGroupRequest, GetGroupResponse]
	addGroupMembers *connect.Client[AddGroupMembersRequest, AddGroupMembersResponse]
}

// NewDirectoryServiceClient constructs a client for the DirectoryService.
func NewDirectoryServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) *DirectoryServiceClient {
	baseURL = strings.TrimRight(baseURL, "/")
	opts = append([]connect.ClientOption{connect.WithCodec(jsonCodec{})}, opts...)
	return &DirectoryServiceClient{
		createUser:      connect.NewClient[CreateUserRequest, CreateUserResponse](httpClient, baseURL+DirectoryServiceCreateUserProcedure, opts...),
		getUser:         connect.NewClient[GetUserRequest, GetUserResponse](httpClient, baseURL+DirectoryServiceGetUserProcedure, opts...),
		createGroup:     connect.NewClient[CreateGroupRequest, CreateGroupResponse](httpClient, baseURL+DirectoryServiceCreateGroupProcedure, opts...),
		getGroup:        connect.NewClient[GetGroupRequest, GetGroupResponse](httpClient, baseURL+DirectoryServiceGetGroupProcedure, opts...),
		addGroupMembers: connect.NewClient[AddGroupMembersRequest, AddGroupMembersResponse](httpClient, baseURL+DirectoryServiceAddGroupMembersProcedure, opts...),
	}
}

func (c *DirectoryServiceClient) CreateUser(ctx context.Context, req *connect.Request[CreateUserRequest]) (*connect.Response[CreateUserResponse], error) {
	return c.createUser.CallUnary(ctx, req)
}

func (c *DirectoryServiceClient) GetUser(ctx context.Context, req *connect.Request[GetUserRequest]) (*connect.Response[GetUserResponse], error) {
	return c.getUser.CallUnary(ctx, req)
}

func (c *DirectoryServiceClient) CreateGroup(ctx context.Context, req *connect.Request[CreateGroupRequest]) (*connect.Response[CreateGroupResponse], error) {
	return c.createGroup.CallUnary(ctx, req)
}

func (c *DirectoryServiceClient) GetGroup(ctx context.Context, req *connect.Request[GetGroupRequest]) (*connect.Response[GetGroupResponse], error) {
	return c.getGroup.CallUnary(ctx, req)
}

func (c *DirectoryServiceClient) AddGroupMembers(ctx context.Context, req *connect.Request[AddGroupMembersRequest]) (*connect.Response[AddGroupMembersResponse], error) {
	return c.addGroupMembers.CallUnary(ctx, req)
}
