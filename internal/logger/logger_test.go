package logger

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNew_SingletonNamedLogger(t *testing.T) {
	req := require.New(t)

	first, err := New(Config{Development: true, Service: "messaging"})
	req.NoError(err)
	req.NotNil(first)

	// later calls return the same instance regardless of config
	second, err := New(Config{Development: false})
	req.NoError(err)
	req.Same(first, second)
}
