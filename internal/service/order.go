package service

import (
	"context"
	"time"

	"go-gin-ecommerce/internal/core/apperr"
	"go-gin-ecommerce/internal/domain"
)

type OrderInput struct {
	OrderDate  *time.Time `json:"order_date"`
	Amount     int        `json:"amount"`
	Status     string     `json:"status"`
	Product    string     `json:"product"`
	User       string     `json:"user"`
	ImportHash *string    `json:"importHash"`
}

type OrderService struct{ store domain.Store }

func NewOrderService(store domain.Store) *OrderService { return &OrderService{store: store} }

func (s *OrderService) List(ctx context.Context, q domain.ListQuery) ([]domain.Order, error) {
	return s.store.Orders().List(ctx, q)
}

func (s *OrderService) Get(ctx context.Context, id string) (*domain.Order, error) {
	o, err := s.store.Orders().FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if o == nil {
		return nil, apperr.Missing(apperr.MsgOrderNotFound, id)
	}
	return o, nil
}

// apply copies in onto o, checking that referenced product and user exist.
func (s *OrderService) apply(ctx context.Context, tx domain.Store, o *domain.Order, in *OrderInput) error {
	var status domain.OrderStatus
	if in.Status != "" {
		st, ok := domain.ParseOrderStatus(in.Status)
		if !ok {
			return apperr.Invalid(apperr.MsgInvalidStatus, in.Status)
		}
		status = st
	}
	o.OrderDate = in.OrderDate
	o.Amount = in.Amount
	o.Status = status
	o.ImportHash = in.ImportHash

	o.ProductID, o.Product = nil, nil
	if in.Product != "" {
		if _, err := findLive(ctx, tx.Products().FindByID, in.Product, apperr.MsgProductNotFound); err != nil {
			return err
		}
		id := in.Product
		o.ProductID = &id
	}
	o.UserID, o.User = nil, nil
	if in.User != "" {
		if _, err := findLive(ctx, tx.Users().FindByID, in.User, apperr.MsgUserNotFound); err != nil {
			return err
		}
		id := in.User
		o.UserID = &id
	}
	return nil
}

func (s *OrderService) Save(ctx context.Context, in *OrderInput) (*domain.Order, error) {
	var out *domain.Order
	err := s.store.Transaction(ctx, func(tx domain.Store) error {
		var o domain.Order
		if err := s.apply(ctx, tx, &o, in); err != nil {
			return err
		}
		stampCreate(ctx, &o.Model)
		if err := tx.Orders().Create(ctx, &o); err != nil {
			return err
		}
		var err error
		out, err = tx.Orders().FindByID(ctx, o.ID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (s *OrderService) Update(ctx context.Context, id string, in *OrderInput) (*domain.Order, error) {
	var out *domain.Order
	err := s.store.Transaction(ctx, func(tx domain.Store) error {
		o, err := findLive(ctx, tx.Orders().FindByID, id, apperr.MsgOrderNotFound)
		if err != nil {
			return err
		}
		if err := s.apply(ctx, tx, o, in); err != nil {
			return err
		}
		stampUpdate(ctx, &o.Model)
		if err := tx.Orders().Save(ctx, o); err != nil {
			return err
		}
		out, err = tx.Orders().FindByID(ctx, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (s *OrderService) Delete(ctx context.Context, id string) error {
	return s.store.Transaction(ctx, func(tx domain.Store) error {
		if _, err := findLive(ctx, tx.Orders().FindByID, id, apperr.MsgOrderNotFound); err != nil {
			return err
		}
		return tx.Orders().SoftDelete(ctx, id)
	})
}
