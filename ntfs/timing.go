package ntfs

import (
	"os"
	"time"

	"github.com/sirupsen/logrus"
)

// Timing accumulates the three-phase duration breakdown (open/get-MFT,
// record enumeration, tree build) that MFT_TIMING=1 reports.
type Timing struct {
	GetMft    time.Duration
	Iterate   time.Duration
	BuildTree time.Duration
}

// TimingEnabled reports whether the MFT_TIMING diagnostic environment
// variable is set.
func TimingEnabled() bool {
	return os.Getenv("MFT_TIMING") != ""
}

// LogTiming reports t's phase breakdown through log, matching the
// original diagnostic's three-phase percentage commentary but via
// structured logging instead of bare stderr prints.
func LogTiming(log logrus.FieldLogger, t Timing) {
	total := t.GetMft + t.Iterate + t.BuildTree
	if total <= 0 {
		return
	}
	pct := func(d time.Duration) float64 {
		return float64(d) / float64(total) * 100
	}
	log.WithFields(logrus.Fields{
		"phase":            "get_mft",
		"duration_ms":      t.GetMft.Milliseconds(),
		"percent_of_total": pct(t.GetMft),
	}).Info("mft timing")
	log.WithFields(logrus.Fields{
		"phase":            "iterate",
		"duration_ms":      t.Iterate.Milliseconds(),
		"percent_of_total": pct(t.Iterate),
	}).Info("mft timing")
	log.WithFields(logrus.Fields{
		"phase":            "build_tree",
		"duration_ms":      t.BuildTree.Milliseconds(),
		"percent_of_total": pct(t.BuildTree),
	}).Info("mft timing")
	log.WithField("total_ms", total.Milliseconds()).
		Info("mft timing: tree build parallelizes across top-level directories; record enumeration overlaps disk reads with parsing on one consumer goroutine")
}
