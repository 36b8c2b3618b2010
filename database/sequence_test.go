package database

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatNumber(t *testing.T) {
	assert.Equal(t, "RE-2026-00001", FormatNumber(ScopeInvoice, 2026, 1))
	assert.Equal(t, "BR-2026-00042", FormatNumber(ScopeReport, 2026, 42))
	assert.Equal(t, "BR-2025-12345", FormatNumber(ScopeReport, 2025, 12345))
}
