// Command genmock reads a GRIB2 inventory text file and generates JSON
// fixtures: the raw records published to the source topic and the annotated
// records the service would emit for a given geolocation backend. It uses the
// service's domain package so the fixtures match real pipeline output. The
// committed gctpc fixtures are checked by internal/pipeline's mock data test.
//
// Usage:
//
//	go run ./cmd/genmock \
//	  -inv data/mock/gfs_2024042600_f000.inv \
//	  -raw-out data/mock/gfs_2024042600_f000_raw.json \
//	  -annotated-out data/mock/gfs_2024042600_f000_annotated.json \
//	  -backend gctpc
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/couchcryptid/grib-inventory-service/internal/domain"
	"github.com/jonboulle/clockwork"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	invPath := flag.String("inv", "", "inventory text file, one record per line")
	rawOut := flag.String("raw-out", "", "output path for raw record JSON fixture")
	annotatedOut := flag.String("annotated-out", "", "output path for annotated record JSON fixture")
	backendName := flag.String("backend", "gctpc", "geolocation backend (proj4, gctpc, internal, not_used)")
	flag.Parse()

	if *invPath == "" || *rawOut == "" || *annotatedOut == "" {
		flag.Usage()
		return fmt.Errorf("missing required flags: -inv, -raw-out, -annotated-out")
	}

	backend, err := domain.ParseGeolocationBackend(*backendName)
	if err != nil {
		return err
	}

	// Fixed clock for reproducible ProcessedAt timestamps.
	domain.SetClock(clockwork.NewFakeClockAt(
		time.Date(2024, time.April, 26, 6, 0, 0, 0, time.UTC),
	))
	defer domain.SetClock(nil)

	f, err := os.Open(*invPath)
	if err != nil {
		return err
	}
	defer f.Close()

	records, err := domain.ReadInventory(f)
	if err != nil {
		return fmt.Errorf("%s: %w", *invPath, err)
	}

	annotated := make([]domain.AnnotatedRecord, 0, len(records))
	for _, rec := range records {
		a, err := domain.AnnotateRecord(rec, backend)
		if err != nil {
			return err
		}
		annotated = append(annotated, a)
	}

	if err := writeJSON(*rawOut, records); err != nil {
		return err
	}
	if err := writeJSON(*annotatedOut, annotated); err != nil {
		return err
	}

	fmt.Printf("Wrote %d records (%s) to %s and %s\n", len(records), backend, *rawOut, *annotatedOut)
	return nil
}

func writeJSON(path string, v any) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	data = append(data, '\n')
	return os.WriteFile(path, data, 0o600)
}
