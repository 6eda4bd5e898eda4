package device

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWrap(t *testing.T) {
	assert.NoError(t, Wrap(OpRead, nil))

	base := errors.New("connection reset")
	err := Wrap(OpWrite, base)
	assert.True(t, IsTransport(err))
	assert.ErrorIs(t, err, base)
	assert.EqualError(t, err, "device write failed: connection reset")

	// already wrapped errors keep their original op
	again := Wrap(OpRead, fmt.Errorf("step 2: %w", err))
	var terr *TransportError
	assert.ErrorAs(t, again, &terr)
	assert.Equal(t, OpWrite, terr.Op)

	assert.False(t, IsTransport(base))
}

func TestStatusString(t *testing.T) {
	s := Status{"22": 1000, "20": true, "21": "white"}
	assert.Equal(t, `{"20":true,"21":"white","22":1000}`, s.String())
	assert.Equal(t, `{}`, Status{}.String())
}
