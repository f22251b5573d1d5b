package checkin

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseQRPlainPayload(t *testing.T) {
	contract, err := ParseQR("checkin:ST2CY5V39NHDPWSXMW9QDT3HC3GD6Q6XX4CFRK9AG.summer-fest")
	require.NoError(t, err)
	assert.Equal(t, "ST2CY5V39NHDPWSXMW9QDT3HC3GD6Q6XX4CFRK9AG", contract.Address)
	assert.Equal(t, "summer-fest", contract.Name)
}

func TestParseQRStripsSchemePrefix(t *testing.T) {
	// Some scanner apps wrap anything they read in a URL and append junk.
	contract, err := ParseQR("https://checkin:ST000.event-1:undefined")
	require.NoError(t, err)
	assert.Equal(t, "ST000", contract.Address)
	assert.Equal(t, "event-1", contract.Name)
}

func TestParseQRRejectsForeignPayloads(t *testing.T) {
	for _, payload := range []string{
		"",
		"ticket:ST000.event-1",
		"https://example.com/some-page",
		"ST000.event-1",
	} {
		_, err := ParseQR(payload)
		assert.Error(t, err, "payload %q", payload)
	}
}

func TestParseQRRejectsMalformedContract(t *testing.T) {
	for _, payload := range []string{
		"checkin:",
		"checkin:ST000",
		"checkin:.event-1",
		"checkin:ST000.",
	} {
		_, err := ParseQR(payload)
		assert.Error(t, err, "payload %q", payload)
	}
}
