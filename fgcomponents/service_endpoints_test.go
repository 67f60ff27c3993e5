package fgcomponents

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSelectBaseURIPrecedence(t *testing.T) {
	assert.Equal(t, DefaultEvaluationBaseURI, selectBaseURI("", ""))
	assert.Equal(t, "https://staging.example.com", selectBaseURI("https://staging.example.com", ""))
	assert.Equal(t, "https://override.example.com",
		selectBaseURI("https://staging.example.com", "https://override.example.com"))
}

func TestSelectBaseURIStripsTrailingSlash(t *testing.T) {
	assert.Equal(t, "https://x.example.com", selectBaseURI("https://x.example.com/", ""))
	assert.Equal(t, "https://x.example.com", selectBaseURI("https://x.example.com//", ""))
}
