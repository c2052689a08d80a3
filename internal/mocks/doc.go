// Package mocks provides hand-written test doubles for the interfaces that
// cross package boundaries, so handler and middleware tests can script
// behavior without pulling in real infrastructure.
package mocks
