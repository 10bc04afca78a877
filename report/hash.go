// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package report

import (
	"encoding/json"
	"fmt"

	"github.com/cespare/xxhash/v2"

	"github.com/lucile40lpy/waspp-cpes/models"
)

// InputsHash fingerprints a batch so two reports can be checked for
// identical inputs. Records are hashed in order; map keys are encoded
// sorted, so key order inside a record does not matter.
func InputsHash(records []models.Record) string {
	if len(records) == 0 {
		return "no-records"
	}

	digest := xxhash.New()
	for _, rec := range records {
		data, err := json.Marshal(rec)
		if err != nil {
			// Unencodable values still contribute their printed form
			data = []byte(fmt.Sprint(rec))
		}
		digest.Write(data)
		digest.Write([]byte{'\n'})
	}

	return fmt.Sprintf("%d-%016x", len(records), digest.Sum64())
}
