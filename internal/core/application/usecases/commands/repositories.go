// Package commands implements the write-side use cases of the fulfillment
// core. Each use case is a command object validated at construction plus a
// handler that coordinates repositories, domain services, and external
// ports within a unit of work.
package commands

import (
	"context"

	"dispensary/internal/core/ports"
)

// OrderUoW is the unit-of-work surface for commands that touch only orders.
type OrderUoW interface {
	Begin(ctx context.Context) error
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
	OrderRepository() ports.OrderRepository
}

// OrderUoWFactory creates OrderUoW instances, one per command execution.
type OrderUoWFactory interface {
	Create() OrderUoW
}

// DriverUoW is the unit-of-work surface for commands that touch only drivers.
type DriverUoW interface {
	Begin(ctx context.Context) error
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
	DriverRepository() ports.DriverRepository
}

// DriverUoWFactory creates DriverUoW instances, one per command execution.
type DriverUoWFactory interface {
	Create() DriverUoW
}

// UoW is the unit-of-work surface for commands that must commit order and
// driver changes atomically, such as the dispatch pairing and the releases
// performed on delivery and cancellation.
type UoW interface {
	Begin(ctx context.Context) error
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
	OrderRepository() ports.OrderRepository
	DriverRepository() ports.DriverRepository
}

// UoWFactory creates UoW instances, one per command execution.
type UoWFactory interface {
	Create() UoW
}
