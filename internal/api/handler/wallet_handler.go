package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/alkewallet/wallet-service/internal/api/metrics"
	"github.com/alkewallet/wallet-service/internal/core/domain"
	"github.com/alkewallet/wallet-service/internal/core/ports"
)

const defaultRecentLimit = 3

// WalletHandler serves balance, money movements and history.
type WalletHandler struct {
	accounts     ports.AccountService
	transactions ports.TransactionService
	ledger       ports.LedgerService
	pageSize     int
}

func NewWalletHandler(accounts ports.AccountService, transactions ports.TransactionService, ledger ports.LedgerService, pageSize int) *WalletHandler {
	if pageSize <= 0 {
		pageSize = 10
	}
	return &WalletHandler{accounts: accounts, transactions: transactions, ledger: ledger, pageSize: pageSize}
}

// Account handles GET /v1/account.
//
// @Summary      Current identity and balance
// @Tags         wallet
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  domain.Identity
// @Failure      401  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /v1/account [get]
func (h *WalletHandler) Account(c echo.Context) error {
	id, err := ctxIdentity(c)
	if err != nil {
		return err
	}
	identity, err := h.accounts.Get(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, identity)
}

// Deposit handles POST /v1/deposits.
//
// @Summary      Deposit funds
// @Tags         wallet
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      depositRequest  true  "Deposit"
// @Success      201   {object}  domain.Transaction
// @Failure      400   {object}  map[string]string
// @Failure      422   {object}  map[string]string
// @Router       /v1/deposits [post]
func (h *WalletHandler) Deposit(c echo.Context) error {
	owner, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	var req depositRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}

	tx, err := h.transactions.Deposit(c.Request().Context(), owner, toDepositInput(req))
	if err != nil {
		recordRejection(domain.KindDeposit, err)
		return err
	}

	recordCommit(tx)
	return c.JSON(http.StatusCreated, tx)
}

// Transfer handles POST /v1/transfers.
//
// @Summary      Send money to a saved contact
// @Tags         wallet
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      transferRequest  true  "Transfer"
// @Success      201   {object}  domain.Transaction
// @Failure      400   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Failure      409   {object}  map[string]string
// @Failure      422   {object}  map[string]string
// @Router       /v1/transfers [post]
func (h *WalletHandler) Transfer(c echo.Context) error {
	sender, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	var req transferRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}

	tx, err := h.transactions.Transfer(c.Request().Context(), sender, toTransferInput(req))
	if err != nil {
		recordRejection(domain.KindTransfer, err)
		return err
	}

	recordCommit(tx)
	return c.JSON(http.StatusCreated, tx)
}

// Transactions handles GET /v1/transactions. Out-of-range pages are clamped.
//
// @Summary      Filtered, paginated history (newest first)
// @Tags         wallet
// @Produce      json
// @Security     BearerAuth
// @Param        type       query     string  false  "deposit or transfer"
// @Param        from       query     string  false  "first day, YYYY-MM-DD"
// @Param        to         query     string  false  "last day (inclusive), YYYY-MM-DD"
// @Param        page       query     int     false  "1-based page"
// @Param        page_size  query     int     false  "items per page"
// @Success      200        {object}  ports.Page
// @Failure      400        {object}  map[string]string
// @Router       /v1/transactions [get]
func (h *WalletHandler) Transactions(c echo.Context) error {
	owner, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	var q listTransactionsQuery
	if err := c.Bind(&q); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid query")
	}
	if err := c.Validate(&q); err != nil {
		return err
	}

	items, err := h.ledger.Filter(c.Request().Context(), owner, toFilter(q))
	if err != nil {
		return err
	}

	size := q.PageSize
	if size == 0 {
		size = h.pageSize
	}
	page := clampPage(q.Page, pageCount(len(items), size))
	return c.JSON(http.StatusOK, h.ledger.Paginate(items, size, page))
}

// Recent handles GET /v1/transactions/recent.
//
// @Summary      Most recent transactions for the dashboard
// @Tags         wallet
// @Produce      json
// @Security     BearerAuth
// @Param        limit  query     int  false  "defaults to 3"
// @Success      200    {object}  transactionsResponse
// @Router       /v1/transactions/recent [get]
func (h *WalletHandler) Recent(c echo.Context) error {
	owner, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	var q recentQuery
	if err := c.Bind(&q); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid query")
	}
	if err := c.Validate(&q); err != nil {
		return err
	}
	if q.Limit == 0 {
		q.Limit = defaultRecentLimit
	}

	items, err := h.ledger.Recent(c.Request().Context(), owner, q.Limit)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, transactionsResponse{Items: items})
}

// Summary handles GET /v1/summary.
//
// @Summary      Totals over the full history plus the current balance
// @Tags         wallet
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  summaryResponse
// @Router       /v1/summary [get]
func (h *WalletHandler) Summary(c echo.Context) error {
	owner, err := ctxIdentity(c)
	if err != nil {
		return err
	}
	ctx := c.Request().Context()

	sum, err := h.ledger.Summarize(ctx, owner)
	if err != nil {
		return err
	}
	balance, err := h.accounts.GetBalance(ctx, owner)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, summaryResponse{
		Balance:            balance,
		TotalDeposits:      sum.TotalDeposits,
		TotalTransfersSent: sum.TotalTransfersSent,
	})
}

func recordCommit(tx *domain.Transaction) {
	kind := string(tx.Kind)
	metrics.TransactionsTotal.WithLabelValues(kind).Inc()
	metrics.TransactionAmount.WithLabelValues(kind).Observe(tx.Amount.Decimal().InexactFloat64())
}

var rejectionReasons = []struct {
	err    error
	reason string
}{
	{domain.ErrInvalidAmount, "invalid_amount"},
	{domain.ErrAmountExceedsLimit, "exceeds_limit"},
	{domain.ErrMissingPaymentMethod, "missing_payment_method"},
	{domain.ErrNoRecipientSelected, "no_recipient"},
	{domain.ErrContactNotFound, "contact_not_found"},
	{domain.ErrInsufficientFunds, "insufficient_funds"},
	{domain.ErrMissingConcept, "missing_concept"},
}

// recordRejection counts business rule failures; infrastructure errors are
// left to the error handler.
func recordRejection(kind domain.TransactionKind, err error) {
	for _, r := range rejectionReasons {
		if errors.Is(err, r.err) {
			metrics.TransactionRejectionsTotal.WithLabelValues(string(kind), r.reason).Inc()
			return
		}
	}
}
