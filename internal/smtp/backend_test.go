package smtp

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNewSecureServer_Defaults(t *testing.T) {
	server := NewSecureServer(&Backend{}, &ServerConfig{
		Addr:   ":2525",
		Domain: "campus.klias.edu",
	})

	assert.Equal(t, ":2525", server.Addr)
	assert.Equal(t, "campus.klias.edu", server.Domain)
	assert.Equal(t, int64(DefaultMaxMessageSize), server.MaxMessageBytes)
	assert.Equal(t, DefaultMaxRecipients, server.MaxRecipients)
	assert.Equal(t, DefaultReadTimeout, server.ReadTimeout)
	assert.Equal(t, DefaultWriteTimeout, server.WriteTimeout)
	assert.Equal(t, DefaultMaxLineLength, server.MaxLineLength)
	assert.False(t, server.AllowInsecureAuth)
}

func TestNewSecureServer_Overrides(t *testing.T) {
	server := NewSecureServer(&Backend{}, &ServerConfig{
		Addr:           ":25",
		Domain:         "mail.klias.edu",
		MaxMessageSize: 10 * 1024 * 1024,
		MaxRecipients:  50,
		ReadTimeout:    30 * time.Second,
		WriteTimeout:   45 * time.Second,
		AllowInsecure:  true,
	})

	assert.Equal(t, int64(10*1024*1024), server.MaxMessageBytes)
	assert.Equal(t, 50, server.MaxRecipients)
	assert.Equal(t, 30*time.Second, server.ReadTimeout)
	assert.Equal(t, 45*time.Second, server.WriteTimeout)
	assert.True(t, server.AllowInsecureAuth)
}

func TestNewSecureServer_NegativeLimitsFallBack(t *testing.T) {
	server := NewSecureServer(&Backend{}, &ServerConfig{
		Addr:           ":2525",
		Domain:         "campus.klias.edu",
		MaxMessageSize: -1,
		MaxRecipients:  -1,
	})

	assert.Equal(t, int64(DefaultMaxMessageSize), server.MaxMessageBytes)
	assert.Equal(t, DefaultMaxRecipients, server.MaxRecipients)
}
