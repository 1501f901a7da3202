package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/fynance/ledger/internal/calculator"
	"github.com/fynance/ledger/internal/models"
	"github.com/fynance/ledger/internal/storage"
)

// DefaultPhone is stored when a registration omits the phone number.
const DefaultPhone = "0000"

// CustomerService owns customer identity, group assignment and the per-group
// sequential index rules.
type CustomerService struct {
	store storage.Store
}

// NewCustomerService creates a CustomerService with the given storage backend.
func NewCustomerService(store storage.Store) *CustomerService {
	return &CustomerService{store: store}
}

// RegisterRequest carries the fields of a direct customer registration.
type RegisterRequest struct {
	Name       string
	Group      string
	GroupIndex int
	Address    string
	Phone      string
	RegDate    time.Time
}

// Register validates and persists a new customer.
// The group code is normalized to uppercase; the group index must be a free,
// positive index within the group's capacity; the name must be unused.
func (s *CustomerService) Register(ctx context.Context, req RegisterRequest) (*models.Customer, error) {
	if req.Name == "" || req.Group == "" || req.Address == "" || req.GroupIndex == 0 {
		return nil, validationf("All fields are required")
	}
	if req.GroupIndex < 0 {
		return nil, validationf("invalid group index")
	}
	if req.GroupIndex > models.GroupCapacity {
		return nil, validationf("Sorry maximum customers per group reached")
	}

	group := strings.ToUpper(req.Group)

	holder, err := s.store.GetCustomerByGroupIndex(ctx, group, req.GroupIndex)
	if err != nil {
		return nil, err
	}
	if holder != nil {
		return nil, validationf("Customer with group index already exists")
	}

	existing, err := s.store.GetCustomerByName(ctx, req.Name)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, validationf("Customer with name already exists")
	}

	phone := req.Phone
	if phone == "" {
		phone = DefaultPhone
	}

	customer := &models.Customer{
		Name:       req.Name,
		Group:      group,
		GroupIndex: req.GroupIndex,
		Address:    req.Address,
		Phone:      phone,
		RegDate:    req.RegDate,
	}
	if err := s.store.CreateCustomer(ctx, customer); err != nil {
		return nil, err
	}

	slog.Info("Customer registered",
		"customer_id", customer.ID,
		"group", customer.Group,
		"group_index", customer.GroupIndex,
	)
	return customer, nil
}

// CustomerDetail is the composite read view for one customer: the customer,
// its full transaction history by date, and balance figures derived from it.
type CustomerDetail struct {
	*models.Customer
	Transactions     []*models.Transaction `json:"transactions"`
	Balance          decimal.Decimal       `json:"balance"`
	DepositCount     int                   `json:"no_of_deposits"`
	WithdrawalCount  int                   `json:"no_of_withdrawals"`
	TotalDeposits    decimal.Decimal       `json:"total_deposits"`
	TotalWithdrawals decimal.Decimal       `json:"total_withdrawals"`
}

// Lookup returns the detail view for one customer.
func (s *CustomerService) Lookup(ctx context.Context, id string) (*CustomerDetail, error) {
	customer, err := s.store.GetCustomer(ctx, id)
	if err != nil {
		return nil, err
	}
	if customer == nil {
		return nil, notFoundf("Customer not found")
	}

	txns, err := s.store.ListTransactionsByOwner(ctx, id)
	if err != nil {
		return nil, err
	}

	return &CustomerDetail{
		Customer:         customer,
		Transactions:     txns,
		Balance:          calculator.Balance(txns),
		DepositCount:     calculator.TypeCount(txns, models.TypeDeposit),
		WithdrawalCount:  calculator.TypeCount(txns, models.TypeWithdrawal),
		TotalDeposits:    calculator.TypeTotal(txns, models.TypeDeposit),
		TotalWithdrawals: calculator.TypeTotal(txns, models.TypeWithdrawal),
	}, nil
}

// UpdateRequest carries a partial customer update. Nil fields keep their
// existing values.
type UpdateRequest struct {
	Name       *string
	Group      *string
	GroupIndex *int
	Address    *string
	Phone      *string
	RegDate    *time.Time
}

// Update applies a partial update with field-level validation. Dependent
// aggregates are not recomputed.
func (s *CustomerService) Update(ctx context.Context, id string, req UpdateRequest) (*models.Customer, error) {
	customer, err := s.store.GetCustomer(ctx, id)
	if err != nil {
		return nil, err
	}
	if customer == nil {
		return nil, notFoundf("Customer not found")
	}

	if req.Name != nil {
		if *req.Name == "" {
			return nil, validationf("name cannot be empty")
		}
		customer.Name = *req.Name
	}
	if req.Group != nil {
		if *req.Group == "" {
			return nil, validationf("group cannot be empty")
		}
		customer.Group = strings.ToUpper(*req.Group)
	}
	if req.GroupIndex != nil {
		if *req.GroupIndex <= 0 || *req.GroupIndex > models.GroupCapacity {
			return nil, validationf("invalid group index")
		}
		customer.GroupIndex = *req.GroupIndex
	}
	if req.Address != nil {
		if *req.Address == "" {
			return nil, validationf("address cannot be empty")
		}
		customer.Address = *req.Address
	}
	if req.Phone != nil {
		customer.Phone = *req.Phone
	}
	if req.RegDate != nil {
		customer.RegDate = *req.RegDate
	}

	if err := s.store.UpdateCustomer(ctx, customer); err != nil {
		return nil, err
	}

	slog.Info("Customer updated", "customer_id", customer.ID)
	return customer, nil
}

// Delete cascades: the customer's transactions are removed first, then the
// customer. The cascade runs even when the customer turns out not to exist,
// in which case it is a no-op and "not found" is still reported.
func (s *CustomerService) Delete(ctx context.Context, id string) error {
	if err := s.store.DeleteTransactionsByOwner(ctx, id); err != nil {
		return err
	}

	err := s.store.DeleteCustomer(ctx, id)
	if errors.Is(err, storage.ErrNotFound) {
		return notFoundf("Customer not found")
	}
	if err != nil {
		return err
	}

	slog.Info("Customer deleted", "customer_id", id)
	return nil
}

// ListGroups returns the distinct group codes sorted lexicographically.
// With no customers at all it returns the single default group "A".
func (s *CustomerService) ListGroups(ctx context.Context) ([]string, error) {
	groups, err := s.store.ListGroups(ctx)
	if err != nil {
		return nil, err
	}
	if len(groups) == 0 {
		groups = []string{"A"}
	}
	return groups, nil
}
