// Package service provides the provider registry: thread-safe service
// registration, discovery by intent, and tool execution dispatch by
// "<service>.<tool>" id.
package service
