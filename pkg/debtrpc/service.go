package debtrpc

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"connectrpc.com/connect"
)

// DebtServiceName is the fully-qualified name of the DebtService service.
const DebtServiceName = "debtbook.v1.DebtService"

// Procedure paths, one per RPC.
const (
	DebtServiceAddDebtProcedure                     = "/debtbook.v1.DebtService/AddDebt"
	DebtServiceCancelDebtProcedure                  = "/debtbook.v1.DebtService/CancelDebt"
	DebtServiceUpdateDebtProcedure                  = "/debtbook.v1.DebtService/UpdateDebt"
	DebtServiceRecordRepaymentProcedure             = "/debtbook.v1.DebtService/RecordRepayment"
	DebtServiceGetOpenDebtsGroupedProcedure         = "/debtbook.v1.DebtService/GetOpenDebtsGrouped"
	DebtServiceGetSettledDebtsGroupedProcedure      = "/debtbook.v1.DebtService/GetSettledDebtsGrouped"
	DebtServiceGetDebtDetailsProcedure              = "/debtbook.v1.DebtService/GetDebtDetails"
	DebtServiceGetDebtsByPersonProcedure            = "/debtbook.v1.DebtService/GetDebtsByPerson"
	DebtServiceGetDebtsByPersonAndCurrencyProcedure = "/debtbook.v1.DebtService/GetDebtsByPersonAndCurrency"
	DebtServiceGetDebtAnalysisProcedure             = "/debtbook.v1.DebtService/GetDebtAnalysis"
	DebtServiceGetAccountSettingsProcedure          = "/debtbook.v1.DebtService/GetAccountSettings"
	DebtServiceUpdateAccountSettingsProcedure       = "/debtbook.v1.DebtService/UpdateAccountSettings"
)

// DebtServiceHandler is implemented by the server side of the service.
type DebtServiceHandler interface {
	AddDebt(context.Context, *connect.Request[AddDebtRequest]) (*connect.Response[AddDebtResponse], error)
	CancelDebt(context.Context, *connect.Request[CancelDebtRequest]) (*connect.Response[CancelDebtResponse], error)
	UpdateDebt(context.Context, *connect.Request[UpdateDebtRequest]) (*connect.Response[UpdateDebtResponse], error)
	RecordRepayment(context.Context, *connect.Request[RecordRepaymentRequest]) (*connect.Response[RecordRepaymentResponse], error)
	GetOpenDebtsGrouped(context.Context, *connect.Request[GetOpenDebtsGroupedRequest]) (*connect.Response[GetDebtsGroupedResponse], error)
	GetSettledDebtsGrouped(context.Context, *connect.Request[GetSettledDebtsGroupedRequest]) (*connect.Response[GetDebtsGroupedResponse], error)
	GetDebtDetails(context.Context, *connect.Request[GetDebtDetailsRequest]) (*connect.Response[GetDebtDetailsResponse], error)
	GetDebtsByPerson(context.Context, *connect.Request[GetDebtsByPersonRequest]) (*connect.Response[GetDebtsResponse], error)
	GetDebtsByPersonAndCurrency(context.Context, *connect.Request[GetDebtsByPersonAndCurrencyRequest]) (*connect.Response[GetDebtsResponse], error)
	GetDebtAnalysis(context.Context, *connect.Request[GetDebtAnalysisRequest]) (*connect.Response[GetDebtAnalysisResponse], error)
	GetAccountSettings(context.Context, *connect.Request[GetAccountSettingsRequest]) (*connect.Response[GetAccountSettingsResponse], error)
	UpdateAccountSettings(context.Context, *connect.Request[UpdateAccountSettingsRequest]) (*connect.Response[UpdateAccountSettingsResponse], error)
}

// NewDebtServiceHandler builds an HTTP handler for svc. It returns the path
// prefix to mount the handler on.
func NewDebtServiceHandler(svc DebtServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = append([]connect.HandlerOption{connect.WithCodec(jsonCodec{})}, opts...)

	handlers := map[string]http.Handler{
		DebtServiceAddDebtProcedure:                     connect.NewUnaryHandler(DebtServiceAddDebtProcedure, svc.AddDebt, opts...),
		DebtServiceCancelDebtProcedure:                  connect.NewUnaryHandler(DebtServiceCancelDebtProcedure, svc.CancelDebt, opts...),
		DebtServiceUpdateDebtProcedure:                  connect.NewUnaryHandler(DebtServiceUpdateDebtProcedure, svc.UpdateDebt, opts...),
		DebtServiceRecordRepaymentProcedure:             connect.NewUnaryHandler(DebtServiceRecordRepaymentProcedure, svc.RecordRepayment, opts...),
		DebtServiceGetOpenDebtsGroupedProcedure:         connect.NewUnaryHandler(DebtServiceGetOpenDebtsGroupedProcedure, svc.GetOpenDebtsGrouped, opts...),
		DebtServiceGetSettledDebtsGroupedProcedure:      connect.NewUnaryHandler(DebtServiceGetSettledDebtsGroupedProcedure, svc.GetSettledDebtsGrouped, opts...),
		DebtServiceGetDebtDetailsProcedure:              connect.NewUnaryHandler(DebtServiceGetDebtDetailsProcedure, svc.GetDebtDetails, opts...),
		DebtServiceGetDebtsByPersonProcedure:            connect.NewUnaryHandler(DebtServiceGetDebtsByPersonProcedure, svc.GetDebtsByPerson, opts...),
		DebtServiceGetDebtsByPersonAndCurrencyProcedure: connect.NewUnaryHandler(DebtServiceGetDebtsByPersonAndCurrencyProcedure, svc.GetDebtsByPersonAndCurrency, opts...),
		DebtServiceGetDebtAnalysisProcedure:             connect.NewUnaryHandler(DebtServiceGetDebtAnalysisProcedure, svc.GetDebtAnalysis, opts...),
		DebtServiceGetAccountSettingsProcedure:          connect.NewUnaryHandler(DebtServiceGetAccountSettingsProcedure, svc.GetAccountSettings, opts...),
		DebtServiceUpdateAccountSettingsProcedure:       connect.NewUnaryHandler(DebtServiceUpdateAccountSettingsProcedure, svc.UpdateAccountSettings, opts...),
	}

	return "/" + DebtServiceName + "/", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h, ok := handlers[r.URL.Path]
		if !ok {
			http.NotFound(w, r)
			return
		}
		h.ServeHTTP(w, r)
	})
}

// DebtServiceClient is a client for debtbook.v1.DebtService.
type DebtServiceClient struct {
	addDebt                     *connect.Client[AddDebtRequest, AddDebtResponse]
	cancelDebt                  *connect.Client[CancelDebtRequest, CancelDebtResponse]
	updateDebt                  *connect.Client[UpdateDebtRequest, UpdateDebtResponse]
	recordRepayment             *connect.Client[RecordRepaymentRequest, RecordRepaymentResponse]
	getOpenDebtsGrouped         *connect.Client[GetOpenDebtsGroupedRequest, GetDebtsGroupedResponse]
	getSettledDebtsGrouped      *connect.Client[GetSettledDebtsGroupedRequest, GetDebtsGroupedResponse]
	getDebtDetails              *connect.Client[GetDebtDetailsRequest, GetDebtDetailsResponse]
	getDebtsByPerson            *connect.Client[GetDebtsByPersonRequest, GetDebtsResponse]
	getDebtsByPersonAndCurrency *connect.Client[GetDebtsByPersonAndCurrencyRequest, GetDebtsResponse]
	getDebtAnalysis             *connect.Client[GetDebtAnalysisRequest, GetDebtAnalysisResponse]
	getAccountSettings          *connect.Client[GetAccountSettingsRequest, GetAccountSettingsResponse]
	updateAccountSettings       *connect.Client[UpdateAccountSettingsRequest, UpdateAccountSettingsResponse]
}

// NewDebtServiceClient creates a client for the service at baseURL, for
// example http://localhost:8080.
func NewDebtServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) *DebtServiceClient {
	baseURL = strings.TrimRight(baseURL, "/")
	opts = append([]connect.ClientOption{connect.WithCodec(jsonCodec{})}, opts...)
	return &DebtServiceClient{
		addDebt:                     connect.NewClient[AddDebtRequest, AddDebtResponse](httpClient, baseURL+DebtServiceAddDebtProcedure, opts...),
		cancelDebt:                  connect.NewClient[CancelDebtRequest, CancelDebtResponse](httpClient, baseURL+DebtServiceCancelDebtProcedure, opts...),
		updateDebt:                  connect.NewClient[UpdateDebtRequest, UpdateDebtResponse](httpClient, baseURL+DebtServiceUpdateDebtProcedure, opts...),
		recordRepayment:             connect.NewClient[RecordRepaymentRequest, RecordRepaymentResponse](httpClient, baseURL+DebtServiceRecordRepaymentProcedure, opts...),
		getOpenDebtsGrouped:         connect.NewClient[GetOpenDebtsGroupedRequest, GetDebtsGroupedResponse](httpClient, baseURL+DebtServiceGetOpenDebtsGroupedProcedure, opts...),
		getSettledDebtsGrouped:      connect.NewClient[GetSettledDebtsGroupedRequest, GetDebtsGroupedResponse](httpClient, baseURL+DebtServiceGetSettledDebtsGroupedProcedure, opts...),
		getDebtDetails:              connect.NewClient[GetDebtDetailsRequest, GetDebtDetailsResponse](httpClient, baseURL+DebtServiceGetDebtDetailsProcedure, opts...),
		getDebtsByPerson:            connect.NewClient[GetDebtsByPersonRequest, GetDebtsResponse](httpClient, baseURL+DebtServiceGetDebtsByPersonProcedure, opts...),
		getDebtsByPersonAndCurrency: connect.NewClient[GetDebtsByPersonAndCurrencyRequest, GetDebtsResponse](httpClient, baseURL+DebtServiceGetDebtsByPersonAndCurrencyProcedure, opts...),
		getDebtAnalysis:             connect.NewClient[GetDebtAnalysisRequest, GetDebtAnalysisResponse](httpClient, baseURL+DebtServiceGetDebtAnalysisProcedure, opts...),
		getAccountSettings:          connect.NewClient[GetAccountSettingsRequest, GetAccountSettingsResponse](httpClient, baseURL+DebtServiceGetAccountSettingsProcedure, opts...),
		updateAccountSettings:       connect.NewClient[UpdateAccountSettingsRequest, UpdateAccountSettingsResponse](httpClient, baseURL+DebtServiceUpdateAccountSettingsProcedure, opts...),
	}
}

func (c *DebtServiceClient) AddDebt(ctx context.Context, req *connect.Request[AddDebtRequest]) (*connect.Response[AddDebtResponse], error) {
	return c.addDebt.CallUnary(ctx, req)
}

func (c *DebtServiceClient) CancelDebt(ctx context.Context, req *connect.Request[CancelDebtRequest]) (*connect.Response[CancelDebtResponse], error) {
	return c.cancelDebt.CallUnary(ctx, req)
}

func (c *DebtServiceClient) UpdateDebt(ctx context.Context, req *connect.Request[UpdateDebtRequest]) (*connect.Response[UpdateDebtResponse], error) {
	return c.updateDebt.CallUnary(ctx, req)
}

func (c *DebtServiceClient) RecordRepayment(ctx context.Context, req *connect.Request[RecordRepaymentRequest]) (*connect.Response[RecordRepaymentResponse], error) {
	return c.recordRepayment.CallUnary(ctx, req)
}

func (c *DebtServiceClient) GetOpenDebtsGrouped(ctx context.Context, req *connect.Request[GetOpenDebtsGroupedRequest]) (*connect.Response[GetDebtsGroupedResponse], error) {
	return c.getOpenDebtsGrouped.CallUnary(ctx, req)
}

func (c *DebtServiceClient) GetSettledDebtsGrouped(ctx context.Context, req *connect.Request[GetSettledDebtsGroupedRequest]) (*connect.Response[GetDebtsGroupedResponse], error) {
	return c.getSettledDebtsGrouped.CallUnary(ctx, req)
}

func (c *DebtServiceClient) GetDebtDetails(ctx context.Context, req *connect.Request[GetDebtDetailsRequest]) (*connect.Response[GetDebtDetailsResponse], error) {
	return c.getDebtDetails.CallUnary(ctx, req)
}

func (c *DebtServiceClient) GetDebtsByPerson(ctx context.Context, req *connect.Request[GetDebtsByPersonRequest]) (*connect.Response[GetDebtsResponse], error) {
	return c.getDebtsByPerson.CallUnary(ctx, req)
}

func (c *DebtServiceClient) GetDebtsByPersonAndCurrency(ctx context.Context, req *connect.Request[GetDebtsByPersonAndCurrencyRequest]) (*connect.Response[GetDebtsResponse], error) {
	return c.getDebtsByPersonAndCurrency.CallUnary(ctx, req)
}

func (c *DebtServiceClient) GetDebtAnalysis(ctx context.Context, req *connect.Request[GetDebtAnalysisRequest]) (*connect.Response[GetDebtAnalysisResponse], error) {
	return c.getDebtAnalysis.CallUnary(ctx, req)
}

func (c *DebtServiceClient) GetAccountSettings(ctx context.Context, req *connect.Request[GetAccountSettingsRequest]) (*connect.Response[GetAccountSettingsResponse], error) {
	return c.getAccountSettings.CallUnary(ctx, req)
}

func (c *DebtServiceClient) UpdateAccountSettings(ctx context.Context, req *connect.Request[UpdateAccountSettingsRequest]) (*connect.Response[UpdateAccountSettingsResponse], error) {
	return c.updateAccountSettings.CallUnary(ctx, req)
}

// UnimplementedDebtServiceHandler returns CodeUnimplemented from all methods.
type UnimplementedDebtServiceHandler struct{}

func unimplemented(procedure string) error {
	return connect.NewError(connect.CodeUnimplemented, errors.New(procedure+" is not implemented"))
}

func (UnimplementedDebtServiceHandler) AddDebt(context.Context, *connect.Request[AddDebtRequest]) (*connect.Response[AddDebtResponse], error) {
	return nil, unimplemented(DebtServiceAddDebtProcedure)
}

func (UnimplementedDebtServiceHandler) CancelDebt(context.Context, *connect.Request[CancelDebtRequest]) (*connect.Response[CancelDebtResponse], error) {
	return nil, unimplemented(DebtServiceCancelDebtProcedure)
}

func (UnimplementedDebtServiceHandler) UpdateDebt(context.Context, *connect.Request[UpdateDebtRequest]) (*connect.Response[UpdateDebtResponse], error) {
	return nil, unimplemented(DebtServiceUpdateDebtProcedure)
}

func (UnimplementedDebtServiceHandler) RecordRepayment(context.Context, *connect.Request[RecordRepaymentRequest]) (*connect.Response[RecordRepaymentResponse], error) {
	return nil, unimplemented(DebtServiceRecordRepaymentProcedure)
}

func (UnimplementedDebtServiceHandler) GetOpenDebtsGrouped(context.Context, *connect.Request[GetOpenDebtsGroupedRequest]) (*connect.Response[GetDebtsGroupedResponse], error) {
	return nil, unimplemented(DebtServiceGetOpenDebtsGroupedProcedure)
}

func (UnimplementedDebtServiceHandler) GetSettledDebtsGrouped(context.Context, *connect.Request[GetSettledDebtsGroupedRequest]) (*connect.Response[GetDebtsGroupedResponse], error) {
	return nil, unimplemented(DebtServiceGetSettledDebtsGroupedProcedure)
}

func (UnimplementedDebtServiceHandler) GetDebtDetails(context.Context, *connect.Request[GetDebtDetailsRequest]) (*connect.Response[GetDebtDetailsResponse], error) {
	return nil, unimplemented(DebtServiceGetDebtDetailsProcedure)
}

func (UnimplementedDebtServiceHandler) GetDebtsByPerson(context.Context, *connect.Request[GetDebtsByPersonRequest]) (*connect.Response[GetDebtsResponse], error) {
	return nil, unimplemented(DebtServiceGetDebtsByPersonProcedure)
}

func (UnimplementedDebtServiceHandler) GetDebtsByPersonAndCurrency(context.Context, *connect.Request[GetDebtsByPersonAndCurrencyRequest]) (*connect.Response[GetDebtsResponse], error) {
	return nil, unimplemented(DebtServiceGetDebtsByPersonAndCurrencyProcedure)
}

func (UnimplementedDebtServiceHandler) GetDebtAnalysis(context.Context, *connect.Request[GetDebtAnalysisRequest]) (*connect.Response[GetDebtAnalysisResponse], error) {
	return nil, unimplemented(DebtServiceGetDebtAnalysisProcedure)
}

func (UnimplementedDebtServiceHandler) GetAccountSettings(context.Context, *connect.Request[GetAccountSettingsRequest]) (*connect.Response[GetAccountSettingsResponse], error) {
	return nil, unimplemented(DebtServiceGetAccountSettingsProcedure)
}

func (UnimplementedDebtServiceHandler) UpdateAccountSettings(context.Context, *connect.Request[UpdateAccountSettingsRequest]) (*connect.Response[UpdateAccountSettingsResponse], error) {
	return nil, unimplemented(DebtServiceUpdateAccountSettingsProcedure)
}
