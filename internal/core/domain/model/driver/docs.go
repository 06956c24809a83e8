// Package driver provides the Driver aggregate for the store's delivery
// fleet. It models driver availability as a small state machine
// (available, busy, offline) whose busy state is owned exclusively by the
// dispatch pairing: Take and Release change the availability and the paired
// order reference together, and callers commit the driver alongside the
// affected order in one transaction.
package driver
