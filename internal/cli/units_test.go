package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatLengthMetric(t *testing.T) {
	c := &CLI{Config: Config{Units: "mm"}}
	assert.Equal(t, "152.4 mm", c.formatLength(152.4))
}

func TestFormatLengthImperial(t *testing.T) {
	c := &CLI{Config: Config{Units: "in"}}
	assert.Equal(t, "6.000 in", c.formatLength(152.4))
	assert.Equal(t, "0.125", c.formatPosition(3.175))
}
