package metrics_test

import (
	"testing"

	"github.com/sourabhpal/f1-dashboard/pkg/metrics"

	. "github.com/smartystreets/goconvey/convey"
)

func TestGlobalManager(t *testing.T) {
	Convey("Given the package-level metrics manager", t, func() {
		Convey("When counters and gauges are recorded", func() {
			metrics.RecordDeriveRequest("driver_standings")
			metrics.RecordDeriveDuration("driver_standings", 12.5)
			metrics.RecordRejectedRecords("stints", 2)
			metrics.RecordFetchDeduped()
			metrics.UpdateIngestQueueSize(3)
			metrics.UpdateStoreSeasons(1)
			metrics.UpdateStoreRaces(4)
			metrics.RecordHTTPRequest("standings", "GET", "200")
			metrics.RecordHTTPRequestDuration("standings", "GET", "200", 4.2)

			Convey("Then the custom registry gathers them", func() {
				families, err := metrics.GetRegistry().Gather()
				So(err, ShouldBeNil)
				So(len(families), ShouldBeGreaterThan, 0)

				names := make(map[string]struct{}, len(families))
				for _, f := range families {
					names[f.GetName()] = struct{}{}
				}
				So(names, ShouldContainKey, "f1dash_derive_requests_total")
				So(names, ShouldContainKey, "f1dash_ingest_rejected_records_total")
			})
		})
	})
}
