package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTwMergeLaterClassWins(t *testing.T) {
	assert.Equal(t, "mx-auto w-12 h-12", TwMerge("w-16 h-16 mx-auto", "w-12 h-12"))
	assert.Equal(t, "px-4", TwMerge("px-4", ""))
}

func TestIf(t *testing.T) {
	assert.Equal(t, "text-emerald-400", If(true, "text-emerald-400"))
	assert.Empty(t, If(false, "text-emerald-400"))
}
