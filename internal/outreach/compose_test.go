package outreach

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestComposeNoWebsite(t *testing.T) {
	m := New("").Compose("Tony's", false, false)

	assert.Contains(t, m.Subject, "custom website")
	assert.True(t, strings.HasPrefix(m.SMS, "Tony's:"), m.SMS)
	assert.True(t, strings.HasPrefix(m.Body, "Hi Tony's,\n\n"), m.Body)
	assert.Contains(t, m.Body, "Slice")
}

func TestComposeThirdParty(t *testing.T) {
	m := New("Slice").Compose("Sal's", true, false)

	assert.Contains(t, m.Subject, "direct ordering")
	assert.Contains(t, m.Body, "third-party ordering apps")
	assert.True(t, strings.HasPrefix(m.SMS, "Sal's:"))
}

func TestComposeDirect(t *testing.T) {
	m := New("Slice").Compose("Regina", true, true)

	assert.Contains(t, m.Subject, "marketing & POS")
	assert.Contains(t, m.Body, "Great job having your own direct ordering!")
	assert.True(t, strings.HasPrefix(m.SMS, "Regina:"))
}

func TestComposeDistinctAndDeterministic(t *testing.T) {
	c := New("Slice")
	a := c.Compose("X", false, false)
	b := c.Compose("X", true, false)
	d := c.Compose("X", true, true)

	assert.NotEqual(t, a.Subject, b.Subject)
	assert.NotEqual(t, b.Subject, d.Subject)
	assert.Equal(t, a, c.Compose("X", false, false))
	// direct without a website is not a real state; it falls into the no-website pitch
	assert.Equal(t, a, c.Compose("X", false, true))
}

func TestComposeBrand(t *testing.T) {
	m := New("PieCo").Compose("Tony's", true, true)
	assert.Contains(t, m.Subject, "PieCo's")
	assert.NotContains(t, m.SMS, "Slice")

	var zero Composer
	assert.Contains(t, zero.Compose("Tony's", false, false).SMS, "Slice")
}
