package handler

import (
	"context"
	"sync"

	"github.com/stretchr/testify/mock"

	"github.com/ppts2545/EcomerceStore-sub001/internal/domain/cart"
	"github.com/ppts2545/EcomerceStore-sub001/internal/domain/catalog"
	"github.com/ppts2545/EcomerceStore-sub001/internal/domain/finance"
	"github.com/ppts2545/EcomerceStore-sub001/internal/domain/payment"
	"github.com/ppts2545/EcomerceStore-sub001/internal/domain/review"
	"github.com/ppts2545/EcomerceStore-sub001/internal/domain/wallet"
)

// MockCatalogSource implements catalog.Source for testing
type MockCatalogSource struct {
	mock.Mock
}

func (m *MockCatalogSource) RandomProducts(ctx context.Context, limit int) ([]catalog.Product, error) {
	args := m.Called(ctx, limit)
	products, _ := args.Get(0).([]catalog.Product)
	return products, args.Error(1)
}

func (m *MockCatalogSource) AllProducts(ctx context.Context) ([]catalog.Product, error) {
	args := m.Called(ctx)
	products, _ := args.Get(0).([]catalog.Product)
	return products, args.Error(1)
}

func (m *MockCatalogSource) Product(ctx context.Context, id int64) (*catalog.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Product), args.Error(1)
}

func (m *MockCatalogSource) Store(ctx context.Context, id int64) (*catalog.Store, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Store), args.Error(1)
}

func (m *MockCatalogSource) StoreProducts(ctx context.Context, storeID int64) ([]catalog.Product, error) {
	args := m.Called(ctx, storeID)
	products, _ := args.Get(0).([]catalog.Product)
	return products, args.Error(1)
}

// MockReviewSource implements review.Source for testing
type MockReviewSource struct {
	mock.Mock
}

func (m *MockReviewSource) Comments(ctx context.Context, productID int64, page, size int) ([]review.Comment, int, int64, error) {
	args := m.Called(ctx, productID, page, size)
	comments, _ := args.Get(0).([]review.Comment)
	return comments, args.Int(1), args.Get(2).(int64), args.Error(3)
}

func (m *MockReviewSource) CommentsByRating(ctx context.Context, productID int64, rating int) ([]review.Comment, error) {
	args := m.Called(ctx, productID, rating)
	comments, _ := args.Get(0).([]review.Comment)
	return comments, args.Error(1)
}

func (m *MockReviewSource) Replies(ctx context.Context, commentID int64) ([]review.Comment, error) {
	args := m.Called(ctx, commentID)
	comments, _ := args.Get(0).([]review.Comment)
	return comments, args.Error(1)
}

func (m *MockReviewSource) CommentStats(ctx context.Context, productID int64) (*review.CommentStats, error) {
	args := m.Called(ctx, productID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*review.CommentStats), args.Error(1)
}

func (m *MockReviewSource) HasUserCommented(ctx context.Context, session string, productID int64) (bool, error) {
	args := m.Called(ctx, session, productID)
	return args.Bool(0), args.Error(1)
}

func (m *MockReviewSource) CreateComment(ctx context.Context, session string, in review.NewComment) (*review.Comment, error) {
	args := m.Called(ctx, session, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*review.Comment), args.Error(1)
}

func (m *MockReviewSource) Reviews(ctx context.Context, productID int64) ([]review.Review, error) {
	args := m.Called(ctx, productID)
	reviews, _ := args.Get(0).([]review.Review)
	return reviews, args.Error(1)
}

func (m *MockReviewSource) CreateReview(ctx context.Context, session string, in review.NewReview) (*review.Review, error) {
	args := m.Called(ctx, session, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*review.Review), args.Error(1)
}

// MockCartBackend implements cart.Backend for testing
type MockCartBackend struct {
	mock.Mock
}

func (m *MockCartBackend) cart(args mock.Arguments) (*cart.Cart, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*cart.Cart), args.Error(1)
}

func (m *MockCartBackend) Get(ctx context.Context, session string) (*cart.Cart, error) {
	return m.cart(m.Called(ctx, session))
}

func (m *MockCartBackend) Add(ctx context.Context, session string, in cart.AddItem) (*cart.Cart, error) {
	return m.cart(m.Called(ctx, session, in))
}

func (m *MockCartBackend) Update(ctx context.Context, session string, itemID int64, in cart.UpdateItem) (*cart.Cart, error) {
	return m.cart(m.Called(ctx, session, itemID, in))
}

func (m *MockCartBackend) Remove(ctx context.Context, session string, itemID int64) (*cart.Cart, error) {
	return m.cart(m.Called(ctx, session, itemID))
}

func (m *MockCartBackend) Clear(ctx context.Context, session string) error {
	return m.Called(ctx, session).Error(0)
}

func (m *MockCartBackend) Count(ctx context.Context, session string) (int, error) {
	args := m.Called(ctx, session)
	return args.Int(0), args.Error(1)
}

func (m *MockCartBackend) Select(ctx context.Context, session string, itemID int64, in cart.SelectItem) (*cart.Cart, error) {
	return m.cart(m.Called(ctx, session, itemID, in))
}

// MockGateway implements payment.Gateway for testing
type MockGateway struct {
	mock.Mock
}

func (m *MockGateway) CreatePayment(ctx context.Context, req payment.CreateRequest) (*payment.CreateResult, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*payment.CreateResult), args.Error(1)
}

func (m *MockGateway) GetStatus(ctx context.Context, transactionID string) (*payment.StatusResult, error) {
	args := m.Called(ctx, transactionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*payment.StatusResult), args.Error(1)
}

func (m *MockGateway) Cancel(ctx context.Context, transactionID string) error {
	return m.Called(ctx, transactionID).Error(0)
}

func (m *MockGateway) CreateQR(ctx context.Context, req payment.CreateRequest) (*payment.CreateResult, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*payment.CreateResult), args.Error(1)
}

// memoryRecords is an in-memory payment.RecordRepository
type memoryRecords struct {
	mu      sync.Mutex
	records map[string]*payment.Record
}

func newMemoryRecords(records ...*payment.Record) *memoryRecords {
	m := &memoryRecords{records: map[string]*payment.Record{}}
	for _, r := range records {
		m.records[r.TransactionID] = r
	}
	return m
}

func (m *memoryRecords) Create(_ context.Context, r *payment.Record) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.records[r.TransactionID] = r
	return nil
}

func (m *memoryRecords) Update(ctx context.Context, r *payment.Record) error {
	return m.Create(ctx, r)
}

func (m *memoryRecords) FindByTransactionID(_ context.Context, transactionID string) (*payment.Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if r, ok := m.records[transactionID]; ok {
		return r, nil
	}
	return nil, payment.ErrRecordNotFound
}

func (m *memoryRecords) FindByOrderID(_ context.Context, orderID string) (*payment.Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, r := range m.records {
		if r.OrderID == orderID {
			return r, nil
		}
	}
	return nil, payment.ErrRecordNotFound
}

// memoryLedger is an in-memory wallet.Repository
type memoryLedger struct {
	mu      sync.Mutex
	entries map[int64][]wallet.Transaction
}

func newMemoryLedger(entries ...wallet.Transaction) *memoryLedger {
	l := &memoryLedger{entries: map[int64][]wallet.Transaction{}}
	for _, e := range entries {
		l.entries[e.UserID] = append(l.entries[e.UserID], e)
	}
	return l
}

func (l *memoryLedger) List(_ context.Context, userID int64) ([]wallet.Transaction, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]wallet.Transaction(nil), l.entries[userID]...), nil
}

func (l *memoryLedger) Append(_ context.Context, userID int64, build func([]wallet.Transaction) (*wallet.Transaction, error)) (*wallet.Transaction, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	tx, err := build(l.entries[userID])
	if err != nil {
		return nil, err
	}
	l.entries[userID] = append([]wallet.Transaction{*tx}, l.entries[userID]...)
	return tx, nil
}

// staticTransactions is a finance.TransactionRepository over a fixed list
type staticTransactions struct {
	mu      sync.Mutex
	txs     []finance.Transaction
	filters []finance.ListFilter
}

func (s *staticTransactions) List(_ context.Context, filter finance.ListFilter) ([]finance.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.filters = append(s.filters, filter)
	if filter.UserID == nil {
		return s.txs, nil
	}
	var out []finance.Transaction
	for _, t := range s.txs {
		if t.UserID == *filter.UserID {
			out = append(out, t)
		}
	}
	return out, nil
}
