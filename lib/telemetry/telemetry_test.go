package telemetry

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

type recordingAPI struct {
	warnings []string
	broken   []string
	counts   map[string]int64
}

func (r *recordingAPI) ReportBroken(id string, params ...any) {
	r.broken = append(r.broken, id)
}

func (r *recordingAPI) ReportWarning(id string, params ...any) {
	r.warnings = append(r.warnings, id)
}

func (r *recordingAPI) ReportCount(id string, count int64) {
	if r.counts == nil {
		r.counts = map[string]int64{}
	}
	r.counts[id] = count
}

func TestScopedAPI(t *testing.T) {
	inner := &recordingAPI{}
	api := NewScopedAPI("segment", NewScopedAPI("camp", inner))

	api.ReportWarning("heading_mismatch", "RF")
	api.ReportBroken("footer")
	api.ReportCount("sections", 4)

	require.Equal(t, []string{"camp:segment:heading_mismatch"}, inner.warnings)
	require.Equal(t, []string{"camp:segment:footer"}, inner.broken)
	require.Equal(t, int64(4), inner.counts["camp:segment:sections"])
}

func TestSetupWithoutExporters(t *testing.T) {
	tel, err := Setup(context.Background(), "test:telemetry", Config{})
	if err != nil {
		t.Fatal(err)
	}
	require.Nil(t, tel.TracerProvider)
	require.Nil(t, tel.MeterProvider)
	require.NoError(t, tel.Shutdown(context.Background()))

	RecordProcessStats(context.Background())
}
