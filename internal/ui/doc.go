// Package ui provides semantic text formatters for command output.
package ui
