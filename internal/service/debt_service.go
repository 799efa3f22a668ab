package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"connectrpc.com/connect"

	"github.com/mmynk/debtbook/internal/calculator"
	"github.com/mmynk/debtbook/internal/debts"
	"github.com/mmynk/debtbook/internal/middleware"
	"github.com/mmynk/debtbook/internal/models"
	"github.com/mmynk/debtbook/pkg/debtrpc"
)

// DebtService implements the Connect DebtService on top of the debt engine.
type DebtService struct {
	debtrpc.UnimplementedDebtServiceHandler
	manager *debts.Manager
}

// NewDebtService creates a new DebtService backed by manager.
func NewDebtService(manager *debts.Manager) *DebtService {
	return &DebtService{manager: manager}
}

// accountFromContext returns the authenticated account or an Unauthenticated error.
func accountFromContext(ctx context.Context) (string, error) {
	accountID := middleware.GetAccountID(ctx)
	if accountID == "" {
		return "", connect.NewError(connect.CodeUnauthenticated, fmt.Errorf("authentication required"))
	}
	return accountID, nil
}

// toConnectError maps engine errors onto Connect codes.
func toConnectError(err error) error {
	switch {
	case errors.Is(err, models.ErrValidation):
		return connect.NewError(connect.CodeInvalidArgument, err)
	case errors.Is(err, models.ErrNotFound):
		return connect.NewError(connect.CodeNotFound, err)
	case errors.Is(err, models.ErrAlreadyCanceled):
		return connect.NewError(connect.CodeFailedPrecondition, err)
	case errors.Is(err, models.ErrConcurrencyConflict):
		return connect.NewError(connect.CodeAborted, err)
	case errors.Is(err, context.Canceled):
		return connect.NewError(connect.CodeCanceled, err)
	case errors.Is(err, context.DeadlineExceeded):
		return connect.NewError(connect.CodeDeadlineExceeded, err)
	default:
		return connect.NewError(connect.CodeInternal, err)
	}
}

// fail logs err at a level matching its cause and converts it for the wire.
func fail(op string, err error, attrs ...any) error {
	cerr := toConnectError(err)
	attrs = append(attrs, "error", err)
	if connect.CodeOf(cerr) == connect.CodeInternal {
		slog.Error(op+" failed", attrs...)
	} else {
		slog.Warn(op+" rejected", attrs...)
	}
	return cerr
}

func parseOptionalStatus(s string) (models.DebtStatus, error) {
	switch st := models.DebtStatus(s); st {
	case "", models.StatusOpen, models.StatusSettled, models.StatusCanceled:
		return st, nil
	default:
		return "", fmt.Errorf("%w: unsupported status %q", models.ErrValidation, s)
	}
}

func timestampOrZero(ts *time.Time) time.Time {
	if ts == nil {
		return time.Time{}
	}
	return *ts
}

func debtToRPC(d *models.Debt) debtrpc.Debt {
	out := debtrpc.Debt{
		ID:                      d.ID,
		Type:                    string(d.Type),
		Person:                  d.Person,
		OriginalAmount:          d.OriginalAmount,
		RemainingAmount:         d.RemainingAmount,
		Currency:                string(d.Currency),
		Status:                  string(d.Status),
		Purpose:                 d.Purpose,
		CreatedAt:               d.CreatedAt,
		AssociatedTransactionID: d.AssociatedTransactionID,
	}
	for _, r := range d.Repayments {
		out.Repayments = append(out.Repayments, debtrpc.Repayment{Amount: r.Amount, Date: r.Date})
	}
	return out
}

func debtsToRPC(list []*models.Debt) []debtrpc.Debt {
	out := make([]debtrpc.Debt, len(list))
	for i, d := range list {
		out[i] = debtToRPC(d)
	}
	return out
}

func groupsToRPC(groups []calculator.DebtGroup) *debtrpc.GetDebtsGroupedResponse {
	out := &debtrpc.GetDebtsGroupedResponse{Groups: make([]debtrpc.DebtGroup, len(groups))}
	for i, g := range groups {
		out.Groups[i] = debtrpc.DebtGroup{
			Person:         g.Person,
			Type:           string(g.Type),
			Currency:       string(g.Currency),
			Count:          g.Count,
			TotalOriginal:  g.TotalOriginal,
			TotalRemaining: g.TotalRemaining,
		}
	}
	return out
}

// AddDebt opens a new debt for the caller's account.
func (s *DebtService) AddDebt(ctx context.Context, req *connect.Request[debtrpc.AddDebtRequest]) (*connect.Response[debtrpc.AddDebtResponse], error) {
	accountID, err := accountFromContext(ctx)
	if err != nil {
		return nil, err
	}

	typ, err := models.ParseDebtType(req.Msg.Type)
	if err != nil {
		return nil, fail("AddDebt", err, "account_id", accountID)
	}
	currency, err := models.ParseCurrency(req.Msg.Currency)
	if err != nil {
		return nil, fail("AddDebt", err, "account_id", accountID)
	}

	debtID, txnID, err := s.manager.AddDebt(ctx, accountID, debts.NewDebt{
		Type:      typ,
		Person:    req.Msg.Person,
		Amount:    req.Msg.Amount,
		Currency:  currency,
		Purpose:   req.Msg.Purpose,
		Timestamp: timestampOrZero(req.Msg.Timestamp),
	})
	if err != nil {
		return nil, fail("AddDebt", err, "account_id", accountID, "person", req.Msg.Person)
	}

	return connect.NewResponse(&debtrpc.AddDebtResponse{
		DebtID:        debtID,
		TransactionID: txnID,
	}), nil
}

// CancelDebt cancels a debt and reverses its opening transaction.
func (s *DebtService) CancelDebt(ctx context.Context, req *connect.Request[debtrpc.CancelDebtRequest]) (*connect.Response[debtrpc.CancelDebtResponse], error) {
	accountID, err := accountFromContext(ctx)
	if err != nil {
		return nil, err
	}
	if req.Msg.DebtID == "" {
		return nil, connect.NewError(connect.CodeInvalidArgument, fmt.Errorf("debt_id required"))
	}

	msg, err := s.manager.CancelDebt(ctx, accountID, req.Msg.DebtID)
	if err != nil {
		return nil, fail("CancelDebt", err, "account_id", accountID, "debt_id", req.Msg.DebtID)
	}
	return connect.NewResponse(&debtrpc.CancelDebtResponse{Message: msg}), nil
}

// UpdateDebt changes a debt's person or purpose.
func (s *DebtService) UpdateDebt(ctx context.Context, req *connect.Request[debtrpc.UpdateDebtRequest]) (*connect.Response[debtrpc.UpdateDebtResponse], error) {
	accountID, err := accountFromContext(ctx)
	if err != nil {
		return nil, err
	}
	if req.Msg.DebtID == "" {
		return nil, connect.NewError(connect.CodeInvalidArgument, fmt.Errorf("debt_id required"))
	}

	msg, err := s.manager.UpdateDebt(ctx, accountID, req.Msg.DebtID, debts.DebtPatch{
		Person:  req.Msg.Person,
		Purpose: req.Msg.Purpose,
	})
	if err != nil {
		return nil, fail("UpdateDebt", err, "account_id", accountID, "debt_id", req.Msg.DebtID)
	}
	return connect.NewResponse(&debtrpc.UpdateDebtResponse{Message: msg}), nil
}

// RecordRepayment applies a lump-sum payment across a person's open debts.
func (s *DebtService) RecordRepayment(ctx context.Context, req *connect.Request[debtrpc.RecordRepaymentRequest]) (*connect.Response[debtrpc.RecordRepaymentResponse], error) {
	accountID, err := accountFromContext(ctx)
	if err != nil {
		return nil, err
	}

	typ, err := models.ParseDebtType(req.Msg.Type)
	if err != nil {
		return nil, fail("RecordRepayment", err, "account_id", accountID)
	}
	currency, err := models.ParseCurrency(req.Msg.Currency)
	if err != nil {
		return nil, fail("RecordRepayment", err, "account_id", accountID)
	}

	res, err := s.manager.RecordRepayment(ctx, accountID, debts.RepaymentRequest{
		Person:    req.Msg.Person,
		Type:      typ,
		Currency:  currency,
		Amount:    req.Msg.Amount,
		Timestamp: timestampOrZero(req.Msg.Timestamp),
	})
	if err != nil {
		return nil, fail("RecordRepayment", err, "account_id", accountID, "person", req.Msg.Person)
	}

	return connect.NewResponse(&debtrpc.RecordRepaymentResponse{
		Message:      res.Message,
		DebtCurrency: string(res.DebtCurrency),
		Principal:    res.Principal,
		Interest:     res.Interest,
		Rate:         res.Rate,
		Settled:      res.Settled,
	}), nil
}

// GetOpenDebtsGrouped summarizes open debts per person, type and currency.
func (s *DebtService) GetOpenDebtsGrouped(ctx context.Context, req *connect.Request[debtrpc.GetOpenDebtsGroupedRequest]) (*connect.Response[debtrpc.GetDebtsGroupedResponse], error) {
	accountID, err := accountFromContext(ctx)
	if err != nil {
		return nil, err
	}
	groups, err := s.manager.GetOpenDebtsGrouped(ctx, accountID)
	if err != nil {
		return nil, fail("GetOpenDebtsGrouped", err, "account_id", accountID)
	}
	return connect.NewResponse(groupsToRPC(groups)), nil
}

// GetSettledDebtsGrouped summarizes settled debts per person, type and currency.
func (s *DebtService) GetSettledDebtsGrouped(ctx context.Context, req *connect.Request[debtrpc.GetSettledDebtsGroupedRequest]) (*connect.Response[debtrpc.GetDebtsGroupedResponse], error) {
	accountID, err := accountFromContext(ctx)
	if err != nil {
		return nil, err
	}
	groups, err := s.manager.GetSettledDebtsGrouped(ctx, accountID)
	if err != nil {
		return nil, fail("GetSettledDebtsGrouped", err, "account_id", accountID)
	}
	return connect.NewResponse(groupsToRPC(groups)), nil
}

// GetDebtDetails returns one debt with its repayments.
func (s *DebtService) GetDebtDetails(ctx context.Context, req *connect.Request[debtrpc.GetDebtDetailsRequest]) (*connect.Response[debtrpc.GetDebtDetailsResponse], error) {
	accountID, err := accountFromContext(ctx)
	if err != nil {
		return nil, err
	}
	if req.Msg.DebtID == "" {
		return nil, connect.NewError(connect.CodeInvalidArgument, fmt.Errorf("debt_id required"))
	}

	debt, err := s.manager.GetDebtDetails(ctx, accountID, req.Msg.DebtID)
	if err != nil {
		return nil, fail("GetDebtDetails", err, "account_id", accountID, "debt_id", req.Msg.DebtID)
	}
	return connect.NewResponse(&debtrpc.GetDebtDetailsResponse{Debt: debtToRPC(debt)}), nil
}

// GetDebtsByPerson lists a person's debts, optionally filtered by status.
func (s *DebtService) GetDebtsByPerson(ctx context.Context, req *connect.Request[debtrpc.GetDebtsByPersonRequest]) (*connect.Response[debtrpc.GetDebtsResponse], error) {
	accountID, err := accountFromContext(ctx)
	if err != nil {
		return nil, err
	}
	status, err := parseOptionalStatus(req.Msg.Status)
	if err != nil {
		return nil, fail("GetDebtsByPerson", err, "account_id", accountID)
	}

	list, err := s.manager.GetDebtsByPerson(ctx, accountID, req.Msg.Person, status)
	if err != nil {
		return nil, fail("GetDebtsByPerson", err, "account_id", accountID, "person", req.Msg.Person)
	}
	return connect.NewResponse(&debtrpc.GetDebtsResponse{Debts: debtsToRPC(list)}), nil
}

// GetDebtsByPersonAndCurrency lists a person's debts in one currency.
func (s *DebtService) GetDebtsByPersonAndCurrency(ctx context.Context, req *connect.Request[debtrpc.GetDebtsByPersonAndCurrencyRequest]) (*connect.Response[debtrpc.GetDebtsResponse], error) {
	accountID, err := accountFromContext(ctx)
	if err != nil {
		return nil, err
	}
	currency, err := models.ParseCurrency(req.Msg.Currency)
	if err != nil {
		return nil, fail("GetDebtsByPersonAndCurrency", err, "account_id", accountID)
	}
	status, err := parseOptionalStatus(req.Msg.Status)
	if err != nil {
		return nil, fail("GetDebtsByPersonAndCurrency", err, "account_id", accountID)
	}

	list, err := s.manager.GetDebtsByPersonAndCurrency(ctx, accountID, req.Msg.Person, currency, status)
	if err != nil {
		return nil, fail("GetDebtsByPersonAndCurrency", err, "account_id", accountID, "person", req.Msg.Person)
	}
	return connect.NewResponse(&debtrpc.GetDebtsResponse{Debts: debtsToRPC(list)}), nil
}

// GetDebtAnalysis returns concentration, aging and the USD overview.
func (s *DebtService) GetDebtAnalysis(ctx context.Context, req *connect.Request[debtrpc.GetDebtAnalysisRequest]) (*connect.Response[debtrpc.GetDebtAnalysisResponse], error) {
	accountID, err := accountFromContext(ctx)
	if err != nil {
		return nil, err
	}

	a, err := s.manager.GetDebtAnalysis(ctx, accountID)
	if err != nil {
		return nil, fail("GetDebtAnalysis", err, "account_id", accountID)
	}

	resp := &debtrpc.GetDebtAnalysisResponse{
		Concentration:    make([]debtrpc.PersonConcentration, len(a.Concentration)),
		Aging:            make([]debtrpc.PersonAging, len(a.Aging)),
		TotalLentUSD:     a.Overview.TotalLentUSD,
		TotalBorrowedUSD: a.Overview.TotalBorrowedUSD,
		Rate:             a.Rate,
	}
	for i, c := range a.Concentration {
		resp.Concentration[i] = debtrpc.PersonConcentration{Person: c.Person, Type: string(c.Type), TotalUSD: c.Total}
	}
	for i, ag := range a.Aging {
		resp.Aging[i] = debtrpc.PersonAging{Person: ag.Person, AverageAgeDays: ag.AverageAgeDays, Count: ag.Count}
	}
	return connect.NewResponse(resp), nil
}

// GetAccountSettings returns the caller's rate preference and the rate it resolves to.
func (s *DebtService) GetAccountSettings(ctx context.Context, req *connect.Request[debtrpc.GetAccountSettingsRequest]) (*connect.Response[debtrpc.GetAccountSettingsResponse], error) {
	accountID, err := accountFromContext(ctx)
	if err != nil {
		return nil, err
	}

	settings, err := s.manager.GetAccountSettings(ctx, accountID)
	if err != nil {
		return nil, fail("GetAccountSettings", err, "account_id", accountID)
	}
	rate, err := s.manager.Rate(ctx, accountID)
	if err != nil {
		return nil, fail("GetAccountSettings", err, "account_id", accountID)
	}

	return connect.NewResponse(&debtrpc.GetAccountSettingsResponse{
		Settings: debtrpc.AccountSettings{RateMode: string(settings.RateMode), FixedRate: settings.FixedRate},
		Rate:     rate,
	}), nil
}

// UpdateAccountSettings stores the caller's rate preference.
func (s *DebtService) UpdateAccountSettings(ctx context.Context, req *connect.Request[debtrpc.UpdateAccountSettingsRequest]) (*connect.Response[debtrpc.UpdateAccountSettingsResponse], error) {
	accountID, err := accountFromContext(ctx)
	if err != nil {
		return nil, err
	}

	err = s.manager.SetAccountSettings(ctx, &models.AccountSettings{
		AccountID: accountID,
		RateMode:  models.RateMode(req.Msg.Settings.RateMode),
		FixedRate: req.Msg.Settings.FixedRate,
	})
	if err != nil {
		return nil, fail("UpdateAccountSettings", err, "account_id", accountID)
	}
	return connect.NewResponse(&debtrpc.UpdateAccountSettingsResponse{}), nil
}
