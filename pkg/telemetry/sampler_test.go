package telemetry

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.opentelemetry.io/otel/sdk/trace"
)

func TestCreateSampler(t *testing.T) {
	cases := []struct {
		sampler string
		arg     string
		want    string
	}{
		{"always_on", "", trace.AlwaysSample().Description()},
		{"always_off", "", trace.NeverSample().Description()},
		{"traceidratio", "0.25", trace.TraceIDRatioBased(0.25).Description()},
		{"parentbased_always_on", "", trace.ParentBased(trace.AlwaysSample()).Description()},
		{"", "", trace.AlwaysSample().Description()},
		{"bogus", "", trace.AlwaysSample().Description()},
	}

	for _, tc := range cases {
		got := createSampler(&Config{Sampler: tc.sampler, SamplerArg: tc.arg})
		assert.Equal(t, tc.want, got.Description(), "sampler %q", tc.sampler)
	}
}

func TestParseRatio(t *testing.T) {
	assert.Equal(t, 1.0, parseRatio(""))
	assert.Equal(t, 1.0, parseRatio("nan?"))
	assert.Equal(t, 0.5, parseRatio("0.5"))
	assert.Equal(t, 0.0, parseRatio("-1"))
	assert.Equal(t, 1.0, parseRatio("3"))
}
