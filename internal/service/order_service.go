package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"jewelshop/internal/models"
	"jewelshop/internal/session"
	"jewelshop/internal/util"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// OrderService reads orders and drives the order status state machine.
type OrderService struct {
	orders    OrderStore
	publisher EventPublisher
	logger    *zap.Logger
}

// NewOrderService creates a new order service
func NewOrderService(orders OrderStore, publisher EventPublisher) *OrderService {
	return &OrderService{
		orders:    orders,
		publisher: publisher,
		logger:    util.GetLogger(),
	}
}

// OrderDetail is an order with its line items and address snapshot.
type OrderDetail struct {
	Order   *models.Order        `json:"order"`
	Items   []models.OrderItem   `json:"items"`
	Address *models.OrderAddress `json:"address,omitempty"`
}

// GetOrder returns one order. Customers see only their own orders;
// back-office roles see all. Foreign orders read as not found.
func (s *OrderService) GetOrder(ctx context.Context, sess *session.Session, orderID int64) (*OrderDetail, error) {
	order, err := s.orders.GetOrderByID(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("failed to load order: %w", err)
	}
	if order == nil {
		return nil, ErrNotFound
	}
	if order.UserID != sess.UserID && !IsBackOffice(sess.Role) {
		return nil, ErrNotFound
	}

	items, err := s.orders.GetOrderItems(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("failed to load order items: %w", err)
	}
	address, err := s.orders.GetOrderAddress(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("failed to load order address: %w", err)
	}

	return &OrderDetail{Order: order, Items: items, Address: address}, nil
}

// ListOrders returns the caller's own orders, newest first.
func (s *OrderService) ListOrders(ctx context.Context, sess *session.Session) ([]models.Order, error) {
	return s.orders.GetOrdersByUserID(ctx, sess.UserID)
}

// UpdateStatus applies one state-machine action to one order. Illegal
// transitions are an explicit error; a concurrent transition that slips in
// between the read and the guarded update reads as the same error.
func (s *OrderService) UpdateStatus(ctx context.Context, sess *session.Session, orderID int64, action StatusAction) (string, error) {
	ctx, span := util.StartSpan(ctx, "OrderService.UpdateStatus")
	defer span.End()

	order, err := s.orders.GetOrderByID(ctx, orderID)
	if err != nil {
		return "", fmt.Errorf("failed to load order: %w", err)
	}
	if order == nil {
		return "", ErrNotFound
	}

	next, err := NextStatus(action, order.Status, sess.Role)
	if err != nil {
		return "", err
	}

	updated, err := s.orders.UpdateOrderStatusFrom(ctx, orderID, order.Status, next)
	if err != nil {
		return "", fmt.Errorf("failed to update order status: %w", err)
	}
	if !updated {
		return "", fmt.Errorf("%w: order status changed concurrently", ErrInvalidTransition)
	}

	util.OrderTransitionsTotal.WithLabelValues(string(action)).Inc()
	s.logger.Info("Order status changed",
		zap.Int64("order_id", orderID),
		zap.String("from", order.Status),
		zap.String("to", next),
		zap.Int64("actor_id", sess.UserID))

	s.publishStatusChanged(ctx, orderID, order.Status, next, sess.UserID)

	return next, nil
}

// BulkUpdateStatus applies one action to many orders, each evaluated
// independently: eligible orders transition, ineligible ones are skipped.
// Returns how many orders were updated.
func (s *OrderService) BulkUpdateStatus(ctx context.Context, sess *session.Session, orderIDs []int64, action StatusAction) (int, error) {
	if !RoleMayPerform(sess.Role, action) {
		return 0, ErrUnauthorized
	}

	updated := 0
	for _, orderID := range orderIDs {
		order, err := s.orders.GetOrderByID(ctx, orderID)
		if err != nil {
			return updated, fmt.Errorf("failed to load order %d: %w", orderID, err)
		}
		if order == nil {
			continue
		}

		next, err := NextStatus(action, order.Status, sess.Role)
		if err != nil {
			if errors.Is(err, ErrInvalidTransition) {
				continue
			}
			return updated, err
		}

		ok, err := s.orders.UpdateOrderStatusFrom(ctx, orderID, order.Status, next)
		if err != nil {
			return updated, fmt.Errorf("failed to update order %d: %w", orderID, err)
		}
		if !ok {
			continue
		}

		updated++
		util.OrderTransitionsTotal.WithLabelValues(string(action)).Inc()
		s.publishStatusChanged(ctx, orderID, order.Status, next, sess.UserID)
	}

	return updated, nil
}

func (s *OrderService) publishStatusChanged(ctx context.Context, orderID int64, oldStatus, newStatus string, actorID int64) {
	event := &models.OrderStatusChangedEvent{
		BaseEvent: models.BaseEvent{
			EventID:   uuid.New().String(),
			EventType: models.EventTypeOrderStatusChanged,
			Timestamp: time.Now(),
		},
		OrderID:   orderID,
		OldStatus: oldStatus,
		NewStatus: newStatus,
		ActorID:   actorID,
	}

	if err := s.publisher.PublishOrderStatusChanged(ctx, event); err != nil {
		s.logger.Error("Failed to publish OrderStatusChanged event",
			zap.Int64("order_id", orderID), zap.Error(err))
	}
}
