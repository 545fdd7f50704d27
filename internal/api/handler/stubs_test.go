package handler

import (
	"context"
	"net/http/httptest"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/alkewallet/wallet-service/internal/api/middleware"
	"github.com/alkewallet/wallet-service/internal/core/domain"
	"github.com/alkewallet/wallet-service/internal/core/ports"
)

// ---- account service ----

type stubAccountService struct {
	registerFn   func(ctx context.Context, in ports.RegisterInput) (*domain.Identity, error)
	loginFn      func(ctx context.Context, login, password string) (*ports.Session, error)
	logoutFn     func(ctx context.Context, tokenID string, expiresAt time.Time) error
	getFn        func(ctx context.Context, id string) (*domain.Identity, error)
	getBalanceFn func(ctx context.Context, id string) (domain.Amount, error)
}

func (s *stubAccountService) Register(ctx context.Context, in ports.RegisterInput) (*domain.Identity, error) {
	return s.registerFn(ctx, in)
}

func (s *stubAccountService) Authenticate(ctx context.Context, login, password string) (*domain.Identity, error) {
	panic("not used by handlers")
}

func (s *stubAccountService) Login(ctx context.Context, login, password string) (*ports.Session, error) {
	return s.loginFn(ctx, login, password)
}

func (s *stubAccountService) Logout(ctx context.Context, tokenID string, expiresAt time.Time) error {
	return s.logoutFn(ctx, tokenID, expiresAt)
}

func (s *stubAccountService) Get(ctx context.Context, id string) (*domain.Identity, error) {
	return s.getFn(ctx, id)
}

func (s *stubAccountService) GetBalance(ctx context.Context, id string) (domain.Amount, error) {
	return s.getBalanceFn(ctx, id)
}

func (s *stubAccountService) AdjustBalance(ctx context.Context, id string, delta domain.Amount) (domain.Amount, error) {
	panic("not used by handlers")
}

// ---- transaction service ----

type stubTransactionService struct {
	depositFn  func(ctx context.Context, owner string, in ports.DepositInput) (*domain.Transaction, error)
	transferFn func(ctx context.Context, sender string, in ports.TransferInput) (*domain.Transaction, error)
}

func (s *stubTransactionService) Deposit(ctx context.Context, owner string, in ports.DepositInput) (*domain.Transaction, error) {
	return s.depositFn(ctx, owner, in)
}

func (s *stubTransactionService) Transfer(ctx context.Context, sender string, in ports.TransferInput) (*domain.Transaction, error) {
	return s.transferFn(ctx, sender, in)
}

// ---- ledger service ----

type stubLedgerService struct {
	filterFn    func(ctx context.Context, owner string, f ports.TransactionFilter) ([]domain.Transaction, error)
	paginateFn  func(items []domain.Transaction, pageSize, page int) ports.Page
	summarizeFn func(ctx context.Context, owner string) (ports.Summary, error)
	recentFn    func(ctx context.Context, owner string, n int) ([]domain.Transaction, error)
}

func (s *stubLedgerService) Append(ctx context.Context, entry domain.Entry) (*domain.Transaction, error) {
	panic("not used by handlers")
}

func (s *stubLedgerService) Post(ctx context.Context, entry domain.Entry, delta domain.Amount) (*domain.Transaction, domain.Amount, error) {
	panic("not used by handlers")
}

func (s *stubLedgerService) History(ctx context.Context, owner string) ([]domain.Transaction, error) {
	panic("not used by handlers")
}

func (s *stubLedgerService) Filter(ctx context.Context, owner string, f ports.TransactionFilter) ([]domain.Transaction, error) {
	return s.filterFn(ctx, owner, f)
}

func (s *stubLedgerService) Paginate(items []domain.Transaction, pageSize, page int) ports.Page {
	return s.paginateFn(items, pageSize, page)
}

func (s *stubLedgerService) Summarize(ctx context.Context, owner string) (ports.Summary, error) {
	return s.summarizeFn(ctx, owner)
}

func (s *stubLedgerService) Recent(ctx context.Context, owner string, n int) ([]domain.Transaction, error) {
	return s.recentFn(ctx, owner, n)
}

// ---- contact service ----

type stubContactService struct {
	listFn func(ctx context.Context, owner string) ([]domain.Contact, error)
	addFn  func(ctx context.Context, owner string, in ports.AddContactInput) (*domain.Contact, error)
}

func (s *stubContactService) List(ctx context.Context, owner string) ([]domain.Contact, error) {
	return s.listFn(ctx, owner)
}

func (s *stubContactService) Add(ctx context.Context, owner string, in ports.AddContactInput) (*domain.Contact, error) {
	return s.addFn(ctx, owner, in)
}

func (s *stubContactService) Get(ctx context.Context, owner, id string) (*domain.Contact, error) {
	panic("not used by handlers")
}

// ---- helpers ----

// newContext builds an echo context as the Auth middleware would leave it.
// identity may be empty to simulate an unauthenticated route.
func newContext(method, target, body, identity string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	e.Validator = NewValidator()

	var req = httptest.NewRequest(method, target, nil)
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if identity != "" {
		c.Set(middleware.ContextIdentityID, identity)
	}
	return c, rec
}

func httpStatus(err error) int {
	if he, ok := err.(*echo.HTTPError); ok {
		return he.Code
	}
	return 0
}
