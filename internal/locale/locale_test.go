package locale

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func testDetector() *Detector {
	return NewDetector(
		map[string]string{"qfast.cz": Czech, "qfast.co": English},
		map[string]string{"3000": Czech, "3001": English},
		Czech,
	)
}

func TestDetect(t *testing.T) {
	tests := []struct {
		name string
		host string
		want string
	}{
		{name: "czech production domain", host: "qfast.cz", want: Czech},
		{name: "english production domain", host: "qfast.co", want: English},
		{name: "www prefix stripped", host: "www.qfast.cz", want: Czech},
		{name: "case folded", host: "QFast.CO", want: English},
		{name: "czech dev port", host: "localhost:3000", want: Czech},
		{name: "english dev port", host: "localhost:3001", want: English},
		{name: "unknown co domain hints english", host: "staging.qfast.co", want: English},
		{name: "unknown host defaults czech", host: "example.com", want: Czech},
		{name: "unknown port defaults czech", host: "localhost:8080", want: Czech},
		{name: "empty host", host: "", want: Czech},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, testDetector().Detect(tt.host))
		})
	}
}

func TestDetectDomainBeatsPort(t *testing.T) {
	d := testDetector()
	d.domains["qfast.co"] = English

	assert.Equal(t, English, d.Detect("qfast.co:3000"))
}

func TestNewDetectorRejectsUnknownDefault(t *testing.T) {
	d := NewDetector(nil, nil, "de")
	assert.Equal(t, Czech, d.Detect("example.com"))
}

func TestSupported(t *testing.T) {
	assert.True(t, Supported(Czech))
	assert.True(t, Supported(English))
	assert.False(t, Supported("de"))
	assert.False(t, Supported(""))
}

func TestFormatterCurrency(t *testing.T) {
	assert.Equal(t, "CZK", NewFormatter(Czech).Currency())
	assert.Equal(t, "USD", NewFormatter(English).Currency())
	assert.Equal(t, "CZK", NewFormatter("nope").Currency(), "unknown codes fall back to czech")
}

func TestFormatterAmountNotEmpty(t *testing.T) {
	// Exact symbol placement is CLDR data, not ours; pin only that both
	// locales produce something containing the digits.
	assert.Contains(t, NewFormatter(English).Amount(1234.5), "1,234.50")
	assert.NotEmpty(t, NewFormatter(Czech).Amount(1234.5))
}
