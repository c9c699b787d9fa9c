package service

import (
	"fmt"

	"jewelshop/internal/models"
)

// StatusAction is a requested order status transition.
type StatusAction string

const (
	ActionProcess StatusAction = "process"
	ActionShip    StatusAction = "ship"
	ActionDeliver StatusAction = "deliver"
	ActionCancel  StatusAction = "cancel"
)

// ParseStatusAction validates a caller-supplied action string.
func ParseStatusAction(raw string) (StatusAction, error) {
	switch a := StatusAction(raw); a {
	case ActionProcess, ActionShip, ActionDeliver, ActionCancel:
		return a, nil
	default:
		return "", fmt.Errorf("%w: unknown action %q", ErrInvalidTransition, raw)
	}
}

// forwardTransitions maps each fulfillment action to its single legal
// (from, to) pair. Cancel is handled separately since it is reachable from
// several states.
var forwardTransitions = map[StatusAction]struct{ From, To string }{
	ActionProcess: {models.OrderStatusPending, models.OrderStatusProcessing},
	ActionShip:    {models.OrderStatusProcessing, models.OrderStatusShipped},
	ActionDeliver: {models.OrderStatusShipped, models.OrderStatusDelivered},
}

var (
	fulfillmentRoles = map[models.Role]bool{
		models.RoleStaff:   true,
		models.RoleManager: true,
		models.RoleAdmin:   true,
	}
	cancelRoles = map[models.Role]bool{
		models.RoleManager: true,
		models.RoleAdmin:   true,
	}
)

// IsBackOffice reports whether the role belongs to platform staff.
func IsBackOffice(role models.Role) bool {
	return fulfillmentRoles[role]
}

// RoleMayPerform reports whether the role is ever allowed to request the
// action, regardless of the order's current status.
func RoleMayPerform(role models.Role, action StatusAction) bool {
	if action == ActionCancel {
		return cancelRoles[role]
	}
	return fulfillmentRoles[role]
}

// NextStatus resolves the status an order in currentStatus moves to when
// role requests action. It returns ErrUnauthorized when the role may not
// perform the action at all, and ErrInvalidTransition when the action is
// not legal from the current status.
func NextStatus(action StatusAction, currentStatus string, role models.Role) (string, error) {
	if !RoleMayPerform(role, action) {
		return "", ErrUnauthorized
	}

	if action == ActionCancel {
		switch currentStatus {
		case models.OrderStatusDelivered, models.OrderStatusCancelled:
			return "", fmt.Errorf("%w: cannot cancel a %s order", ErrInvalidTransition, currentStatus)
		default:
			return models.OrderStatusCancelled, nil
		}
	}

	t, ok := forwardTransitions[action]
	if !ok {
		return "", fmt.Errorf("%w: unknown action %q", ErrInvalidTransition, action)
	}
	if currentStatus != t.From {
		return "", fmt.Errorf("%w: cannot %s a %s order", ErrInvalidTransition, action, currentStatus)
	}
	return t.To, nil
}
