// Package intake turns uploaded bucket objects into case records: it
// normalizes trigger payloads, classifies upload provenance, and runs the
// scan/process pipeline.
package intake

import (
	"regexp"
	"strings"

	"github.com/radview/imaging-case-portal/internal/models"
)

// msEpochRx matches a hyphen followed by a 13-digit run, the millisecond
// epoch stamp the dashboard uploader embeds in filenames.
var msEpochRx = regexp.MustCompile(`-\d{13}`)

// ClassifySource decides the provenance of an upload. Rules are priority
// ordered, first match wins:
//
//  1. filename contains "manual" (case insensitive)    -> manual
//  2. the trigger supplied an owning user              -> manual, owned
//  3. filename carries a millisecond epoch stamp       -> manual
//  4. otherwise                                        -> system, unowned
//
// A manual classification keeps the supplied owner when one exists.
func ClassifySource(filename, suppliedUserID string) (models.Source, string) {
	switch {
	case strings.Contains(strings.ToLower(filename), "manual"):
		return models.SourceManual, suppliedUserID
	case suppliedUserID != "":
		return models.SourceManual, suppliedUserID
	case msEpochRx.MatchString(filename):
		return models.SourceManual, ""
	}
	return models.SourceSystem, ""
}
