// Package notify delivers watch-mode category changes to webhooks.
package notify
